package watcher

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Aman-CERP/wordtracker/internal/scanner"
)

// PollingWatcher detects changes by rescanning its roots on an interval.
// It is the fallback for file systems where fsnotify does not work, such as
// network mounts.
type PollingWatcher struct {
	interval time.Duration
	filter   scanner.Options
	roots    []root
	state    map[string]fileState
	events   chan FileEvent
	errors   chan error
	stopCh   chan struct{}
	mu       sync.Mutex
	stopped  bool
}

type fileState struct {
	modTime time.Time
	size    int64
}

// NewPollingWatcher creates a polling watcher.
func NewPollingWatcher(interval time.Duration, filter scanner.Options) *PollingWatcher {
	return &PollingWatcher{
		interval: interval,
		filter:   filter,
		state:    make(map[string]fileState),
		events:   make(chan FileEvent, 256),
		errors:   make(chan error, 10),
		stopCh:   make(chan struct{}),
	}
}

// Start records a baseline and then polls until ctx is done or Stop is
// called. It blocks.
func (p *PollingWatcher) Start(ctx context.Context, paths []string) error {
	roots, err := resolveRoots(paths, p.filter)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.roots = roots
	p.state = p.snapshot()
	p.mu.Unlock()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = p.Stop()
			return ctx.Err()
		case <-p.stopCh:
			return nil
		case <-ticker.C:
			p.poll()
		}
	}
}

// snapshot walks every root. Caller holds mu.
func (p *PollingWatcher) snapshot() map[string]fileState {
	current := make(map[string]fileState)
	for _, r := range p.roots {
		if !r.dir {
			if info, err := os.Stat(r.abs); err == nil && info.Mode().IsRegular() {
				current[r.path] = fileState{modTime: info.ModTime(), size: info.Size()}
			}
			continue
		}

		_ = filepath.WalkDir(r.abs, func(abs string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if abs == r.abs {
				return nil
			}
			path, ok := resolve(p.roots, p.filter, abs, d.IsDir())
			if !ok {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() || !d.Type().IsRegular() {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return nil
			}
			current[path] = fileState{modTime: info.ModTime(), size: info.Size()}
			return nil
		})
	}
	return current
}

// poll diffs a fresh snapshot against the last one.
func (p *PollingWatcher) poll() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return
	}

	now := time.Now()
	current := p.snapshot()
	for path, st := range current {
		prev, seen := p.state[path]
		switch {
		case !seen:
			p.emit(FileEvent{Path: path, Operation: OpCreate, Timestamp: now})
		case prev != st:
			p.emit(FileEvent{Path: path, Operation: OpModify, Timestamp: now})
		}
	}
	for path := range p.state {
		if _, ok := current[path]; !ok {
			p.emit(FileEvent{Path: path, Operation: OpDelete, Timestamp: now})
		}
	}
	p.state = current
}

// emit sends without blocking. Caller holds mu.
func (p *PollingWatcher) emit(event FileEvent) {
	select {
	case p.events <- event:
	default:
		slog.Warn("poll_event_dropped",
			slog.String("path", event.Path),
			slog.String("op", event.Operation.String()))
	}
}

// Events returns raw, undebounced events.
func (p *PollingWatcher) Events() <-chan FileEvent {
	return p.events
}

// Errors returns polling errors.
func (p *PollingWatcher) Errors() <-chan error {
	return p.errors
}

// Stop stops polling. Safe to call multiple times.
func (p *PollingWatcher) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return nil
	}
	p.stopped = true
	close(p.stopCh)
	close(p.events)
	close(p.errors)
	return nil
}
