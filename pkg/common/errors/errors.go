package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Common sentinel errors. Domain error types below report themselves as one
// of these through Is, so call sites can branch with errors.Is and still
// recover payloads with errors.As.
var (
	ErrNotFound          = errors.New("food not found")
	ErrMissingData       = errors.New("missing nutrition data")
	ErrInvalidServing    = errors.New("invalid serving size")
	ErrSourceUnavailable = errors.New("knowledge source unavailable")
)

// NotFoundError reports a query name with no record in the knowledge store.
type NotFoundError struct {
	Food string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("food not found: %q", e.Food)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// MissingDataError reports a record that exists but lacks fields required
// for feature derivation.
type MissingDataError struct {
	Food   string
	Fields []string
}

func (e *MissingDataError) Error() string {
	return fmt.Sprintf("missing nutrition data for %q: %s", e.Food, strings.Join(e.Fields, ", "))
}

func (e *MissingDataError) Is(target error) bool { return target == ErrMissingData }

// ServingFormatError reports a serving-size string that does not match the
// grammar or resolves to a negative mass.
type ServingFormatError struct {
	Input string
}

func (e *ServingFormatError) Error() string {
	return fmt.Sprintf("invalid serving size: %q (expected forms: \"100g\", \"100 g\", \"1 serving\", \"2.5 servings\")", e.Input)
}

func (e *ServingFormatError) Is(target error) bool { return target == ErrInvalidServing }

// SourceError reports a knowledge source that could not be opened or parsed.
// Fatal to startup.
type SourceError struct {
	Path string
	Err  error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("cannot load knowledge source %s: %v", e.Path, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

func (e *SourceError) Is(target error) bool { return target == ErrSourceUnavailable }

// AppError represents an application-specific error with an HTTP status code.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// MapError maps a domain error to an AppError with an appropriate HTTP
// status code.
func MapError(err error) *AppError {
	if err == nil {
		return nil
	}

	// Check for existing AppError
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	// Map sentinel errors
	if errors.Is(err, ErrNotFound) {
		return NewAppError(http.StatusNotFound, "Food not found", err)
	}
	if errors.Is(err, ErrInvalidServing) {
		return NewAppError(http.StatusBadRequest, "Invalid serving size", err)
	}
	if errors.Is(err, ErrMissingData) {
		return NewAppError(http.StatusUnprocessableEntity, "Incomplete nutrition data", err)
	}

	// Default to internal server error
	return NewAppError(http.StatusInternalServerError, "Internal server error", err)
}
