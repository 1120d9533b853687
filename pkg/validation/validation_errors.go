package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}
	return messages
}

// Message joins the formatted errors into one response message.
func Message(err error) string {
	return strings.Join(FormatValidationErrors(err), "; ")
}

func formatSingleError(e validator.FieldError) string {
	label := fieldPath(e)
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", label, param)
		}
		return fmt.Sprintf("%s must be at least %s", label, param)
	case "max":
		switch e.Kind().String() {
		case "string":
			return fmt.Sprintf("%s must be at most %s characters", label, param)
		case "slice":
			return fmt.Sprintf("%s must have at most %s entries", label, param)
		}
		return fmt.Sprintf("%s must be at most %s", label, param)
	case "gte":
		return fmt.Sprintf("%s must be %s or more", label, param)
	case "lte":
		return fmt.Sprintf("%s must be %s or less", label, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(param, " ", ", "))
	case "email":
		return fmt.Sprintf("%s must be a valid email address", label)
	case "valid_name":
		return fmt.Sprintf("%s may only contain letters, spaces and . ' - / ( ) ,", label)
	case "valid_phone":
		return fmt.Sprintf("%s must be a phone number of 7-15 digits", label)
	case "no_emoji":
		return fmt.Sprintf("%s must not contain emoji or symbols", label)
	case "max_current_year":
		return fmt.Sprintf("%s must not be later than the current year", label)
	case "date_only":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", label)
	default:
		return fmt.Sprintf("%s is invalid (%s)", label, e.Tag())
	}
}

// fieldPath drops the top-level struct name from the namespace, so
// "full_name" rather than "PersonalInfo.full_name".
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return e.Field()
}
