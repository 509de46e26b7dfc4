// Package errors provides structured error handling for WordTracker.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: IO errors (input files, repository)
//   - 4XX: Validation errors
//   - 5XX: Internal errors
//   - 6XX: Container errors (ordered tree preconditions)
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryIO indicates file and repository I/O errors.
	CategoryIO Category = "IO"
	// CategoryValidation indicates input validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
	// CategoryContainer indicates misuse of the ordered tree.
	CategoryContainer Category = "CONTAINER"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates operation failed but can continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "ERR_102_CONFIG_INVALID"

	// IO errors (200-299)
	ErrCodeIOFailed          = "ERR_200_IO_FAILED"
	ErrCodeFileNotFound      = "ERR_201_FILE_NOT_FOUND"
	ErrCodeFilePermission    = "ERR_202_FILE_PERMISSION"
	ErrCodeDiskFull          = "ERR_203_DISK_FULL"
	ErrCodeFileTooLarge      = "ERR_204_FILE_TOO_LARGE"
	ErrCodeRepositoryCorrupt = "ERR_205_REPOSITORY_CORRUPT"
	ErrCodeSnapshotInvalid   = "ERR_206_SNAPSHOT_INVALID"
	ErrCodeRepositoryLocked  = "ERR_207_REPOSITORY_LOCKED"

	// Validation errors (400-499)
	ErrCodeInvalidInput        = "ERR_401_INVALID_INPUT"
	ErrCodeInvalidArgument     = "ERR_402_INVALID_ARGUMENT"
	ErrCodeInvalidReportFormat = "ERR_403_INVALID_REPORT_FORMAT"
	ErrCodeInvalidPath         = "ERR_406_INVALID_PATH"

	// Internal errors (500-599)
	ErrCodeInternal     = "ERR_501_INTERNAL"
	ErrCodeTrackFailed  = "ERR_502_TRACK_FAILED"
	ErrCodeReportFailed = "ERR_503_REPORT_FAILED"

	// Container errors (600-699)
	ErrCodeEmptyContainer = "ERR_601_EMPTY_CONTAINER"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	// Extract numeric portion (e.g., "101" from "ERR_101_CONFIG_NOT_FOUND")
	numStr := code[4:7]

	switch numStr[0] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryIO
	case '4':
		return CategoryValidation
	case '6':
		return CategoryContainer
	default:
		return CategoryInternal
	}
}

// severityFromCode determines severity based on error code.
func severityFromCode(code string) Severity {
	switch code {
	case ErrCodeDiskFull:
		return SeverityFatal
	}

	if isRetryableCode(code) {
		return SeverityWarning
	}

	return SeverityError
}

// isRetryableCode checks if an error code represents a retryable error.
// Only lock contention clears up on its own.
func isRetryableCode(code string) bool {
	return code == ErrCodeRepositoryLocked
}
