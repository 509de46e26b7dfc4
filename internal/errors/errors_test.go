package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Unwrap_PreservesOriginalError(t *testing.T) {
	// Given: an original error
	originalErr := errors.New("original error")

	// When: wrapping with AppError
	appErr := New(ErrCodeFileNotFound, "file not found: notes.txt", originalErr)

	// Then: unwrapping returns original error
	require.NotNil(t, appErr)
	assert.Equal(t, originalErr, errors.Unwrap(appErr))
	assert.True(t, errors.Is(appErr, originalErr))
}

func TestAppError_Error_ReturnsFormattedMessage(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		message  string
		expected string
	}{
		{
			name:     "config error",
			code:     ErrCodeConfigNotFound,
			message:  "config file not found",
			expected: "[ERR_101_CONFIG_NOT_FOUND] config file not found",
		},
		{
			name:     "file error",
			code:     ErrCodeFileNotFound,
			message:  "poem.txt not found",
			expected: "[ERR_201_FILE_NOT_FOUND] poem.txt not found",
		},
		{
			name:     "container error",
			code:     ErrCodeEmptyContainer,
			message:  "tree is empty",
			expected: "[ERR_601_EMPTY_CONTAINER] tree is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message, nil)
			assert.Equal(t, tt.expected, err.Error())
		})
	}
}

func TestAppError_Is_MatchesByCode(t *testing.T) {
	// Given: two errors with same code
	err1 := New(ErrCodeInvalidArgument, "nil value", nil)
	err2 := New(ErrCodeInvalidArgument, "other nil value", nil)

	// Then: they match by code, even through fmt wrapping
	assert.True(t, errors.Is(err1, err2))
	assert.True(t, errors.Is(fmt.Errorf("insert: %w", err1), err2))
}

func TestAppError_Is_DoesNotMatchDifferentCodes(t *testing.T) {
	err1 := New(ErrCodeFileNotFound, "file not found", nil)
	err2 := New(ErrCodeConfigNotFound, "config not found", nil)

	assert.False(t, errors.Is(err1, err2))
}

func TestAppError_WithDetails_AddsContext(t *testing.T) {
	err := New(ErrCodeFileNotFound, "file not found", nil)

	err = err.WithDetail("path", "/corpus/a.txt")
	err = err.WithDetail("line", "12")

	assert.Equal(t, "/corpus/a.txt", err.Details["path"])
	assert.Equal(t, "12", err.Details["line"])
}

func TestAppError_WithSuggestion_AddsSuggestion(t *testing.T) {
	err := New(ErrCodeRepositoryLocked, "repository is locked", nil)

	err = err.WithSuggestion("Wait for the other wordtracker process to finish")

	assert.Equal(t, "Wait for the other wordtracker process to finish", err.Suggestion)
}

func TestAppError_CategoryFromCode(t *testing.T) {
	tests := []struct {
		code         string
		wantCategory Category
	}{
		{ErrCodeConfigNotFound, CategoryConfig},
		{ErrCodeConfigInvalid, CategoryConfig},
		{ErrCodeFileNotFound, CategoryIO},
		{ErrCodeRepositoryCorrupt, CategoryIO},
		{ErrCodeRepositoryLocked, CategoryIO},
		{ErrCodeInvalidInput, CategoryValidation},
		{ErrCodeInvalidArgument, CategoryValidation},
		{ErrCodeInvalidReportFormat, CategoryValidation},
		{ErrCodeInternal, CategoryInternal},
		{ErrCodeTrackFailed, CategoryInternal},
		{ErrCodeEmptyContainer, CategoryContainer},
		{"BAD", CategoryInternal},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := New(tt.code, "test message", nil)
			assert.Equal(t, tt.wantCategory, err.Category)
		})
	}
}

func TestAppError_SeverityAndRetryableFromCode(t *testing.T) {
	tests := []struct {
		code          string
		wantSeverity  Severity
		wantRetryable bool
	}{
		{ErrCodeDiskFull, SeverityFatal, false},
		{ErrCodeFileNotFound, SeverityError, false},
		{ErrCodeRepositoryLocked, SeverityWarning, true},
		{ErrCodeEmptyContainer, SeverityError, false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := New(tt.code, "test message", nil)
			assert.Equal(t, tt.wantSeverity, err.Severity)
			assert.Equal(t, tt.wantRetryable, err.Retryable)
		})
	}
}

func TestWrap_CreatesAppErrorFromError(t *testing.T) {
	originalErr := errors.New("something went wrong")

	appErr := Wrap(ErrCodeInternal, originalErr)

	require.NotNil(t, appErr)
	assert.Equal(t, ErrCodeInternal, appErr.Code)
	assert.Equal(t, "something went wrong", appErr.Message)
	assert.Equal(t, originalErr, appErr.Cause)
}

func TestWrap_NilErrorReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(ErrCodeInternal, nil))
}

func TestConstructors_SetCategory(t *testing.T) {
	assert.Equal(t, CategoryConfig, ConfigError("invalid yaml", nil).Category)
	assert.Equal(t, CategoryIO, IOError("cannot read", nil).Category)
	assert.Equal(t, CategoryValidation, ValidationError("empty path", nil).Category)
	assert.Equal(t, CategoryInternal, InternalError("boom", nil).Category)
}

func TestIOError_CodeFromCause(t *testing.T) {
	tests := []struct {
		name  string
		cause error
		code  string
	}{
		{"missing", &fs.PathError{Op: "open", Path: "a.txt", Err: fs.ErrNotExist}, ErrCodeFileNotFound},
		{"permission", fmt.Errorf("open: %w", fs.ErrPermission), ErrCodeFilePermission},
		{"disk full", syscall.ENOSPC, ErrCodeDiskFull},
		{"other", errors.New("short write"), ErrCodeIOFailed},
		{"no cause", nil, ErrCodeIOFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, IOError("write failed", tt.cause).Code)
		})
	}
}

func TestIsRetryable_ChecksRetryableFlag(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"locked repository", New(ErrCodeRepositoryLocked, "locked", nil), true},
		{"wrapped locked repository", fmt.Errorf("open: %w", New(ErrCodeRepositoryLocked, "locked", nil)), true},
		{"non-retryable AppError", New(ErrCodeFileNotFound, "not found", nil), false},
		{"standard error", errors.New("standard error"), false},
		{"nil error", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsRetryable(tt.err))
		})
	}
}

func TestIsFatal_ChecksFatalSeverity(t *testing.T) {
	assert.True(t, IsFatal(New(ErrCodeDiskFull, "no space left", nil)))
	assert.False(t, IsFatal(New(ErrCodeFileNotFound, "not found", nil)))
	assert.False(t, IsFatal(errors.New("standard error")))
}

func TestGetCodeAndCategory(t *testing.T) {
	err := fmt.Errorf("load: %w", New(ErrCodeRepositoryCorrupt, "bad header", nil))

	assert.Equal(t, ErrCodeRepositoryCorrupt, GetCode(err))
	assert.Equal(t, CategoryIO, GetCategory(err))
	assert.Empty(t, GetCode(errors.New("plain")))
	assert.Empty(t, GetCategory(errors.New("plain")))
}
