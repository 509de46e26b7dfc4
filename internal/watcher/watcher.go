package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Aman-CERP/wordtracker/internal/scanner"
)

// Operation is the kind of change observed on a path.
type Operation int

const (
	// OpCreate indicates a new file.
	OpCreate Operation = iota
	// OpModify indicates an existing file was written.
	OpModify
	// OpDelete indicates a file was removed or renamed away.
	OpDelete
)

// String returns a human-readable representation of the operation.
func (op Operation) String() string {
	switch op {
	case OpCreate:
		return "CREATE"
	case OpModify:
		return "MODIFY"
	case OpDelete:
		return "DELETE"
	default:
		return "UNKNOWN"
	}
}

// FileEvent is a change to one file. Path has the same form the scanner
// produces for the watched input: the input path joined with the path
// relative to it.
type FileEvent struct {
	Path      string
	Operation Operation
	Timestamp time.Time
}

// Options configures a Watcher.
type Options struct {
	// Debounce is the quiet period before a batch is emitted. Default 300ms.
	Debounce time.Duration

	// PollInterval is the scan interval in polling mode. Default 2s.
	PollInterval time.Duration

	// EventBufferSize is the number of batches buffered. Default 64.
	EventBufferSize int

	// Filter selects files under directory inputs.
	Filter scanner.Options

	// ForcePolling skips fsnotify.
	ForcePolling bool
}

// DefaultOptions returns the default watcher options.
func DefaultOptions() Options {
	return Options{
		Debounce:        300 * time.Millisecond,
		PollInterval:    2 * time.Second,
		EventBufferSize: 64,
	}
}

// WithDefaults fills zero values from DefaultOptions.
func (o Options) WithDefaults() Options {
	d := DefaultOptions()
	if o.Debounce <= 0 {
		o.Debounce = d.Debounce
	}
	if o.PollInterval <= 0 {
		o.PollInterval = d.PollInterval
	}
	if o.EventBufferSize <= 0 {
		o.EventBufferSize = d.EventBufferSize
	}
	return o
}

// Split divides a batch into files to re-index and files to forget, each
// sorted.
func Split(events []FileEvent) (changed, removed []string) {
	for _, e := range events {
		if e.Operation == OpDelete {
			removed = append(removed, e.Path)
		} else {
			changed = append(changed, e.Path)
		}
	}
	sort.Strings(changed)
	sort.Strings(removed)
	return changed, removed
}

// root is one watched input.
type root struct {
	path   string // cleaned, as given
	abs    string
	dir    bool
	ignore *scanner.Ignore
}

func resolveRoots(paths []string, filter scanner.Options) ([]root, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no paths to watch")
	}

	roots := make([]root, 0, len(paths))
	for _, p := range paths {
		clean := filepath.Clean(p)
		info, err := os.Stat(clean)
		if err != nil {
			return nil, fmt.Errorf("watch %s: %w", clean, err)
		}
		abs, err := filepath.Abs(clean)
		if err != nil {
			return nil, fmt.Errorf("resolve absolute path: %w", err)
		}
		r := root{path: clean, abs: abs, dir: info.IsDir()}
		if r.dir && filter.RespectGitignore {
			r.ignore = scanner.NewIgnore(abs)
		}
		roots = append(roots, r)
	}
	return roots, nil
}

// resolve maps an absolute path to its reported form. It returns false for
// paths outside every root or rejected by filter.
func resolve(roots []root, filter scanner.Options, abs string, isDir bool) (string, bool) {
	for _, r := range roots {
		if !r.dir {
			if abs == r.abs {
				return r.path, !isDir
			}
			continue
		}

		rel, err := filepath.Rel(r.abs, abs)
		if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		if !filter.Accepts(rel, isDir) || (r.ignore != nil && r.ignore.Match(rel, isDir)) {
			return "", false
		}
		return filepath.Join(r.path, rel), true
	}
	return "", false
}
