package autherrors

import (
	"net/http"

	"leavedesk/internal/shared/apperror"
)

var (
	// One generic message for unknown email and wrong password alike so
	// a caller cannot tell which credential failed.
	ErrInvalidCredentials = apperror.New(
		apperror.CodeUnauthorized,
		"Invalid credentials",
		http.StatusUnauthorized,
	)
	ErrEmailAlreadyRegistered = apperror.New(
		apperror.CodeConflict,
		"Email already registered",
		http.StatusConflict,
	)
	ErrInvalidRole = apperror.New(
		apperror.CodeInvalidInput,
		`Invalid role. Role must be either "employee" or "employer"`,
		http.StatusBadRequest,
	)
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"User not found",
		http.StatusNotFound,
	)
	ErrTokenGenerationFailed = apperror.New(
		apperror.CodeInternalError,
		"Failed to generate authentication token",
		http.StatusInternalServerError,
	)
)
