package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/spec-kit/sr-service/internal/domain"
	apperrors "github.com/spec-kit/sr-service/pkg/util/errorutil"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// GetValidator returns the shared validator with the SR enum tags registered.
func GetValidator() *validator.Validate {
	once.Do(initValidator)
	return validate
}

func initValidator() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Status labels contain spaces, so oneof cannot express them.
	_ = validate.RegisterValidation("sr_status", func(fl validator.FieldLevel) bool {
		return domain.TicketStatus(fl.Field().String()).Valid()
	})
	_ = validate.RegisterValidation("sr_category", func(fl validator.FieldLevel) bool {
		return domain.TicketCategory(fl.Field().String()).Valid()
	})
	_ = validate.RegisterValidation("sr_priority", func(fl validator.FieldLevel) bool {
		return domain.TicketPriority(fl.Field().String()).Valid()
	})
}

// Validate checks v against its struct tags and returns a VALIDATION_FAILED
// DomainError with one message per offending field.
func Validate(v any) error {
	err := GetValidator().Struct(v)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return apperrors.NewValidationError("invalid request", nil)
	}
	details := make(map[string]any, len(validationErrors))
	for _, e := range validationErrors {
		details[e.Field()] = prettyError(e)
	}
	return apperrors.NewValidationError("invalid request", details)
}

func prettyError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "field is required"
	case "min":
		return fmt.Sprintf("length must be at least %s", e.Param())
	case "max":
		return fmt.Sprintf("length must be at most %s", e.Param())
	case "email":
		return "must be a valid email address"
	case "http_url":
		return "must be a valid http(s) URL"
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "sr_status":
		return "must be one of " + joinValues(domain.TicketStatuses)
	case "sr_category":
		return "must be one of " + joinValues(domain.TicketCategories)
	case "sr_priority":
		return "must be one of " + joinValues(domain.TicketPriorities)
	default:
		return e.Error()
	}
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
