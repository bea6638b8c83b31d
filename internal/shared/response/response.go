package response

import (
	"github.com/gin-gonic/gin"
)

// Pagination is the paging block returned inside list payloads.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalCount  int64 `json:"totalCount"`
	Limit       int   `json:"limit"`
}

func NewPagination(total int64, page, limit int) Pagination {
	totalPages := 0
	if limit > 0 {
		// ceil(total / limit)
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}

	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  total,
		Limit:       limit,
	}
}

// Envelope is the one response shape every route shares.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

func Success(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func Error(c *gin.Context, status int, message string, errs any) {
	c.JSON(status, Envelope{
		Success: false,
		Message: message,
		Errors:  errs,
	})
}
