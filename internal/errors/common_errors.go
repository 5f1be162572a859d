package errors

import (
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeInvalidArgument   ErrorType = "INVALID_ARGUMENT"
	ErrTypeDimensionMismatch ErrorType = "DIMENSION_MISMATCH"
	ErrTypeInsufficientData  ErrorType = "INSUFFICIENT_DATA"
	ErrTypeParsing           ErrorType = "PARSING"
	ErrTypeStorage           ErrorType = "STORAGE"
	ErrTypeValidation        ErrorType = "VALIDATION"
	ErrTypeNotFound          ErrorType = "NOT_FOUND"
	ErrTypeConfig            ErrorType = "CONFIG"
)

// Sentinels for errors.Is. Any *AppError with the same Type matches.
var (
	ErrInvalidArgument   = &AppError{Type: ErrTypeInvalidArgument, Message: "invalid argument"}
	ErrDimensionMismatch = &AppError{Type: ErrTypeDimensionMismatch, Message: "dimension mismatch"}
	ErrInsufficientData  = &AppError{Type: ErrTypeInsufficientData, Message: "insufficient data"}
	ErrParsing           = &AppError{Type: ErrTypeParsing, Message: "parsing failed"}
	ErrStorage           = &AppError{Type: ErrTypeStorage, Message: "storage failure"}
	ErrValidation        = &AppError{Type: ErrTypeValidation, Message: "validation failed"}
	ErrNotFound          = &AppError{Type: ErrTypeNotFound, Message: "not found"}
	ErrConfig            = &AppError{Type: ErrTypeConfig, Message: "configuration error"}
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an AppError of the same type.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Type == e.Type
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// TypeOf returns the ErrorType of the first AppError in err's chain, or "" if none.
func TypeOf(err error) ErrorType {
	for err != nil {
		if appErr, ok := err.(*AppError); ok {
			return appErr.Type
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}

// Helper functions for common error types

// NewInvalidArgumentError creates an error for a rejected argument
func NewInvalidArgumentError(format string, args ...interface{}) *AppError {
	return NewAppError(ErrTypeInvalidArgument, fmt.Sprintf(format, args...), nil)
}

// NewDimensionMismatchError creates an error for tables whose shapes differ
func NewDimensionMismatchError(format string, args ...interface{}) *AppError {
	return NewAppError(ErrTypeDimensionMismatch, fmt.Sprintf(format, args...), nil)
}

// NewInsufficientDataError creates an error for statistics lacking samples
func NewInsufficientDataError(format string, args ...interface{}) *AppError {
	return NewAppError(ErrTypeInsufficientData, fmt.Sprintf(format, args...), nil)
}

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewAppValidationError creates a validation error for AppError type
func NewAppValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("%s not found", resource), nil)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}
