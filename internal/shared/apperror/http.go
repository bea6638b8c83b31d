package apperror

import (
	"errors"
	"net/http"
)

// HTTPError is the flattened form handlers hand to the response writer.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Details any
}

// ToHTTP is the single translation point from service errors to HTTP.
// Anything that is not an *AppError is reported as a generic 500 so
// internal detail never leaks to the client.
func ToHTTP(err error) HTTPError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return HTTPError{
			Status:  appErr.HTTPStatus,
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: appErr.Details,
		}
	}
	return HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    CodeInternalError,
		Message: "Internal server error",
	}
}
