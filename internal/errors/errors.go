package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"
)

// AppError is a coded error carrying what the CLI needs to explain a failure:
// a message, key/value details, the cause and an optional suggestion.
// Category, severity and retryability follow from the code.
type AppError struct {
	Code       string // e.g. ERR_207_REPOSITORY_LOCKED
	Message    string
	Category   Category
	Severity   Severity
	Details    map[string]string
	Cause      error
	Retryable  bool
	Suggestion string
}

func (e *AppError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches by code, so sentinel AppErrors work with errors.Is.
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail records key=value on the error and returns it.
func (e *AppError) WithDetail(key, value string) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion sets the hint shown under the error.
func (e *AppError) WithSuggestion(suggestion string) *AppError {
	e.Suggestion = suggestion
	return e
}

// New creates a new AppError with the given code and message.
// Category, severity, and retryable flag are derived from the code.
func New(code string, message string, cause error) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Category:  categoryFromCode(code),
		Severity:  severityFromCode(code),
		Cause:     cause,
		Retryable: isRetryableCode(code),
	}
}

// Wrap creates an AppError from an existing error.
// The error's message becomes the AppError message.
func Wrap(code string, err error) *AppError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *AppError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// IOError creates an I/O error, coded from the cause: missing files,
// permission problems and a full disk get their own codes.
func IOError(message string, cause error) *AppError {
	code := ErrCodeIOFailed
	switch {
	case errors.Is(cause, fs.ErrNotExist):
		code = ErrCodeFileNotFound
	case errors.Is(cause, fs.ErrPermission):
		code = ErrCodeFilePermission
	case errors.Is(cause, syscall.ENOSPC):
		code = ErrCodeDiskFull
	}
	return New(code, message, cause)
}

// ValidationError creates a validation-related error.
func ValidationError(message string, cause error) *AppError {
	return New(ErrCodeInvalidInput, message, cause)
}

// InternalError creates an internal error.
func InternalError(message string, cause error) *AppError {
	return New(ErrCodeInternal, message, cause)
}

// as finds the first AppError in err's chain.
func as(err error) (*AppError, bool) {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	if ae, ok := as(err); ok {
		return ae.Retryable
	}
	return false
}

// IsFatal checks if an error has fatal severity.
func IsFatal(err error) bool {
	if ae, ok := as(err); ok {
		return ae.Severity == SeverityFatal
	}
	return false
}

// GetCode extracts the error code from the first AppError in the chain.
// Returns empty string if there is none.
func GetCode(err error) string {
	if ae, ok := as(err); ok {
		return ae.Code
	}
	return ""
}

// GetCategory extracts the category from the first AppError in the chain.
func GetCategory(err error) Category {
	if ae, ok := as(err); ok {
		return ae.Category
	}
	return ""
}
