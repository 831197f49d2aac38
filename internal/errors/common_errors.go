package errors

import (
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeFileDiscovery  ErrorType = "FILE_DISCOVERY"
	ErrTypeMissingColumn  ErrorType = "MISSING_COLUMN"
	ErrTypeTimestampParse ErrorType = "TIMESTAMP_PARSE"
	ErrTypeInvalidDataset ErrorType = "INVALID_DATASET"
	ErrTypeParsing        ErrorType = "PARSING"
	ErrTypeStorage        ErrorType = "STORAGE"
	ErrTypeValidation     ErrorType = "VALIDATION"
	ErrTypeNotFound       ErrorType = "NOT_FOUND"
	ErrTypeConfig         ErrorType = "CONFIG"
)

// Sentinels for errors.Is checks. An AppError matches a sentinel of the same Type.
var (
	ErrFileDiscovery  = &AppError{Type: ErrTypeFileDiscovery, Message: "no input files found"}
	ErrMissingColumn  = &AppError{Type: ErrTypeMissingColumn, Message: "required column missing"}
	ErrTimestampParse = &AppError{Type: ErrTypeTimestampParse, Message: "unparseable timestamp"}
	ErrInvalidDataset = &AppError{Type: ErrTypeInvalidDataset, Message: "invalid dataset"}
	ErrStorage        = &AppError{Type: ErrTypeStorage, Message: "storage failure"}
	ErrConfig         = &AppError{Type: ErrTypeConfig, Message: "invalid configuration"}
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

// Is reports whether target is an AppError of the same type
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

// Helper functions for common error types

// NewFileDiscoveryError reports that a folder holds no matching input files.
// cause is the error from listing the folder, if listing failed.
func NewFileDiscoveryError(folder, pattern string, cause error) *AppError {
	msg := fmt.Sprintf("no files matching %q found in folder %s", pattern, folder)
	if cause != nil {
		msg = fmt.Sprintf("cannot list %q in folder %s", pattern, folder)
	}
	return NewAppError(ErrTypeFileDiscovery, msg, cause).
		WithContext("folder", folder).
		WithContext("pattern", pattern)
}

// NewMissingColumnError reports a required column absent from a source
func NewMissingColumnError(column, source string) *AppError {
	return NewAppError(ErrTypeMissingColumn, fmt.Sprintf("'%s' column missing in %s", column, source), nil).
		WithContext("column", column).
		WithContext("source", source)
}

// NewTimestampParseError reports a row whose timestamp could not be parsed
func NewTimestampParseError(value string, row int, cause error) *AppError {
	return NewAppError(ErrTypeTimestampParse, fmt.Sprintf("cannot parse timestamp %q at row %d", value, row), cause).
		WithContext("row", row)
}

// NewInvalidDatasetError reports a dataset that cannot be used for training
func NewInvalidDatasetError(message string) *AppError {
	return NewAppError(ErrTypeInvalidDataset, message, nil)
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
