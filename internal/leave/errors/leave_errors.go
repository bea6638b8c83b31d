package leaveerrors

import (
	"fmt"
	"net/http"

	"leavedesk/internal/shared/apperror"
)

var (
	ErrApplyForbidden = apperror.New(
		apperror.CodeForbidden,
		"Access denied. Only employees can apply for leave",
		http.StatusForbidden,
	)
	ErrListMineForbidden = apperror.New(
		apperror.CodeForbidden,
		"Access denied. Only employees can view their leaves",
		http.StatusForbidden,
	)
	ErrListAllForbidden = apperror.New(
		apperror.CodeForbidden,
		"Access denied. Only employers can view all leaves",
		http.StatusForbidden,
	)
	ErrDecideForbidden = apperror.New(
		apperror.CodeForbidden,
		"Access denied. Only employers can update leave requests",
		http.StatusForbidden,
	)
	ErrInvalidLeaveType = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid leave type. Must be one of: sick, casual, vacation, personal, maternity, paternity",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"Please provide a valid date (YYYY-MM-DD)",
		http.StatusBadRequest,
	)
	ErrStartDateInPast = apperror.New(
		apperror.CodeInvalidInput,
		"Start date cannot be in the past",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"End date must be after or equal to start date",
		http.StatusBadRequest,
	)
	ErrReasonTooShort = apperror.New(
		apperror.CodeInvalidInput,
		"Reason must be at least 10 characters",
		http.StatusBadRequest,
	)
	ErrReasonTooLong = apperror.New(
		apperror.CodeInvalidInput,
		"Reason cannot exceed 500 characters",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid leave ID format",
		http.StatusBadRequest,
	)
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"Leave request not found",
		http.StatusNotFound,
	)
)

// AlreadyProcessed names the current status so the caller sees exactly
// which terminal state blocked the transition.
func AlreadyProcessed(status string) *apperror.AppError {
	return apperror.New(
		apperror.CodeInvalidState,
		fmt.Sprintf("Leave request is already %s. Cannot change status.", status),
		http.StatusBadRequest,
	)
}
