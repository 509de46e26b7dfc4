// Package scanner expands the paths given to wordtracker into the list of
// text files to index and streams their lines.
package scanner

import "time"

// DefaultMaxFileSize is the default maximum file size (10MB).
const DefaultMaxFileSize = 10 * 1024 * 1024

// MaxLineLength is the longest line ReadLines accepts.
const MaxLineLength = 1024 * 1024

// FileInfo describes a file selected for indexing.
type FileInfo struct {
	Path    string    // Path as the user will see it in reports
	AbsPath string    // Absolute path
	Size    int64     // File size in bytes
	ModTime time.Time // Last modification time
}

// SkipReason explains why an input was not indexed.
type SkipReason string

const (
	SkipNotFound   SkipReason = "not found"
	SkipTooLarge   SkipReason = "too large"
	SkipBinary     SkipReason = "binary"
	SkipExcluded   SkipReason = "excluded"
	SkipUnreadable SkipReason = "unreadable"
)

// Skipped is an input that was passed over, reported back as a warning.
type Skipped struct {
	Path   string
	Reason SkipReason
}

// Options configures a scan.
type Options struct {
	// IncludePatterns restricts files found inside directories (empty = all).
	// Files named explicitly are always considered.
	IncludePatterns []string

	// ExcludePatterns removes files and directories.
	ExcludePatterns []string

	// MaxFileSize is the maximum file size in bytes (0 = DefaultMaxFileSize).
	MaxFileSize int64

	// IncludeHidden descends into dot-directories and keeps dot-files.
	IncludeHidden bool

	// RespectGitignore skips what .gitignore files under a walked directory
	// exclude. Files named explicitly are always considered.
	RespectGitignore bool
}

// Result is the outcome of a scan.
type Result struct {
	Files   []FileInfo
	Skipped []Skipped
}
