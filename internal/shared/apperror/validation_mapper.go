package apperror

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FieldError is one entry of the errors array in the response envelope.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func formatFieldName(s string) string {
	s = strings.ReplaceAll(s, "_", " ")

	caser := cases.Title(language.English)
	return caser.String(s)
}

// MapValidationError converts a gin binding error into an AppError with
// a field-level details array. Field names come from the json tag via
// the RegisterTagNameFunc set up in Init.
func MapValidationError(err error) error {
	if errs, ok := err.(validator.ValidationErrors); ok {
		fields := make([]FieldError, 0, len(errs))
		for _, e := range errs {
			human := formatFieldName(e.Field())
			switch e.Tag() {
			case "required":
				fields = append(fields, FieldError{Field: e.Field(), Message: human + " is required"})
			case "email":
				fields = append(fields, FieldError{Field: e.Field(), Message: human + " must be a valid email address"})
			case "min":
				fields = append(fields, FieldError{Field: e.Field(), Message: human + " must be at least " + e.Param() + " characters"})
			case "max":
				fields = append(fields, FieldError{Field: e.Field(), Message: human + " cannot exceed " + e.Param() + " characters"})
			default:
				fields = append(fields, FieldError{Field: e.Field(), Message: human + " is invalid"})
			}
		}

		first := "Invalid input"
		if len(fields) > 0 {
			first = fields[0].Message
		}
		return New(CodeInvalidInput, first, http.StatusBadRequest).WithDetails(fields)
	}

	return New(
		CodeInvalidInput,
		"Invalid input",
		http.StatusBadRequest,
	)
}
