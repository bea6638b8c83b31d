package employeeerrors

import (
	"net/http"

	"leavedesk/internal/shared/apperror"
)

var (
	ErrProfileNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee profile not found",
		http.StatusNotFound,
	)
	ErrInvalidDepartment = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid department",
		http.StatusBadRequest,
	)
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrEmployeeCodeTaken = apperror.New(
		apperror.CodeConflict,
		"Employee ID already exists. Please use a different value.",
		http.StatusConflict,
	)
)
