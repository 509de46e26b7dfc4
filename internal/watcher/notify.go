package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches input files and directories, using fsnotify when it is
// available and polling otherwise.
type Watcher struct {
	opts      Options
	fsWatcher *fsnotify.Watcher
	poller    *PollingWatcher
	debouncer *Debouncer
	roots     []root

	events chan []FileEvent
	errors chan error
	stopCh chan struct{}

	mu      sync.RWMutex
	stopped bool
	dropped atomic.Uint64
}

// New creates a watcher. It falls back to polling if fsnotify cannot start.
func New(opts Options) (*Watcher, error) {
	opts = opts.WithDefaults()

	w := &Watcher{
		opts:      opts,
		debouncer: NewDebouncer(opts.Debounce, opts.EventBufferSize),
		events:    make(chan []FileEvent, opts.EventBufferSize),
		errors:    make(chan error, 10),
		stopCh:    make(chan struct{}),
	}

	if !opts.ForcePolling {
		fsw, err := fsnotify.NewWatcher()
		if err == nil {
			w.fsWatcher = fsw
			return w, nil
		}
		slog.Warn("fsnotify_unavailable", slog.String("error", err.Error()))
	}
	w.poller = NewPollingWatcher(opts.PollInterval, opts.Filter)
	return w, nil
}

// Mode returns "fsnotify" or "polling".
func (w *Watcher) Mode() string {
	if w.fsWatcher != nil {
		return "fsnotify"
	}
	return "polling"
}

// Start watches paths until ctx is cancelled or Stop is called. It blocks.
func (w *Watcher) Start(ctx context.Context, paths []string) error {
	roots, err := resolveRoots(paths, w.opts.Filter)
	if err != nil {
		return err
	}
	w.roots = roots

	go w.forward(ctx)

	if w.fsWatcher == nil {
		return w.startPolling(ctx, paths)
	}
	return w.startFsnotify(ctx)
}

func (w *Watcher) startFsnotify(ctx context.Context) error {
	for _, r := range w.roots {
		dir := r.abs
		if !r.dir {
			// Watch the parent so atomic-rename saves are seen.
			dir = filepath.Dir(r.abs)
		}
		if err := w.addDir(dir, r.dir); err != nil {
			return fmt.Errorf("watch %s: %w", r.path, err)
		}
	}

	slog.Debug("watch_started", slog.String("mode", "fsnotify"), slog.Int("roots", len(w.roots)))

	for {
		select {
		case <-ctx.Done():
			_ = w.Stop()
			return ctx.Err()
		case <-w.stopCh:
			return nil
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handle(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.emitError(err)
		}
	}
}

func (w *Watcher) startPolling(ctx context.Context, paths []string) error {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-w.stopCh:
				return
			case event, ok := <-w.poller.Events():
				if !ok {
					return
				}
				w.debouncer.Add(event)
			case err, ok := <-w.poller.Errors():
				if !ok {
					return
				}
				w.emitError(err)
			}
		}
	}()

	slog.Debug("watch_started", slog.String("mode", "polling"), slog.Int("roots", len(w.roots)))
	return w.poller.Start(ctx, paths)
}

// addDir watches dir and, when recursive, every accepted directory below it.
func (w *Watcher) addDir(dir string, recursive bool) error {
	if !recursive {
		return w.fsWatcher.Add(dir)
	}
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != dir {
			if _, ok := resolve(w.roots, w.opts.Filter, p, true); !ok {
				return filepath.SkipDir
			}
		}
		return w.fsWatcher.Add(p)
	})
}

func (w *Watcher) handle(event fsnotify.Event) {
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return
	}

	info, statErr := os.Stat(abs)
	if statErr == nil && info.IsDir() {
		if event.Has(fsnotify.Create) {
			w.adoptDir(abs)
		}
		return
	}

	path, ok := resolve(w.roots, w.opts.Filter, abs, false)
	if !ok && statErr != nil {
		// A removed directory: the tracker forgets every file below it.
		path, ok = resolve(w.roots, w.opts.Filter, abs, true)
	}
	if !ok {
		return
	}

	var op Operation
	switch {
	case event.Has(fsnotify.Create):
		op = OpCreate
	case event.Has(fsnotify.Write):
		op = OpModify
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		op = OpDelete
	default:
		return
	}

	w.debouncer.Add(FileEvent{Path: path, Operation: op, Timestamp: time.Now()})
}

// adoptDir starts watching a directory created under a root and reports the
// files already inside it, which were written before the watch existed.
func (w *Watcher) adoptDir(abs string) {
	if _, ok := resolve(w.roots, w.opts.Filter, abs, true); !ok {
		return
	}
	if err := w.addDir(abs, true); err != nil {
		w.emitError(err)
		return
	}
	_ = filepath.WalkDir(abs, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if path, ok := resolve(w.roots, w.opts.Filter, p, false); ok {
			w.debouncer.Add(FileEvent{Path: path, Operation: OpCreate, Timestamp: time.Now()})
		}
		return nil
	})
}

func (w *Watcher) forward(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case batch, ok := <-w.debouncer.Output():
			if !ok {
				return
			}
			w.emit(batch)
		}
	}
}

func (w *Watcher) emit(batch []FileEvent) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.stopped || len(batch) == 0 {
		return
	}
	select {
	case w.events <- batch:
	default:
		n := w.dropped.Add(1)
		slog.Warn("watch_batch_dropped",
			slog.Int("batch_size", len(batch)),
			slog.Uint64("total_dropped", n))
	}
}

func (w *Watcher) emitError(err error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.stopped {
		return
	}
	select {
	case w.errors <- err:
	default:
	}
}

// DroppedBatches returns the number of batches lost to a full buffer.
func (w *Watcher) DroppedBatches() uint64 {
	return w.dropped.Load()
}

// Events returns debounced batches. It is closed by Stop.
func (w *Watcher) Events() <-chan []FileEvent {
	return w.events
}

// Errors returns non-fatal watch errors. It is closed by Stop.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Stop releases the watcher. Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.stopCh)

	w.debouncer.Stop()
	if w.fsWatcher != nil {
		_ = w.fsWatcher.Close()
	}
	if w.poller != nil {
		_ = w.poller.Stop()
	}

	close(w.events)
	close(w.errors)
	return nil
}
