package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/wordtracker/internal/scanner"
)

func TestOperation_String(t *testing.T) {
	assert.Equal(t, "CREATE", OpCreate.String())
	assert.Equal(t, "MODIFY", OpModify.String())
	assert.Equal(t, "DELETE", OpDelete.String())
	assert.Equal(t, "UNKNOWN", Operation(42).String())
}

func TestOptions_WithDefaults(t *testing.T) {
	o := Options{Debounce: time.Second}.WithDefaults()

	assert.Equal(t, time.Second, o.Debounce)
	assert.Equal(t, 2*time.Second, o.PollInterval)
	assert.Equal(t, 64, o.EventBufferSize)
}

func TestSplit(t *testing.T) {
	changed, removed := Split([]FileEvent{
		{Path: "c.txt", Operation: OpModify},
		{Path: "gone.txt", Operation: OpDelete},
		{Path: "a.txt", Operation: OpCreate},
	})

	assert.Equal(t, []string{"a.txt", "c.txt"}, changed)
	assert.Equal(t, []string{"gone.txt"}, removed)
}

func TestResolve(t *testing.T) {
	// Given: a directory root and a file root
	dir := t.TempDir()
	docs := filepath.Join(dir, "docs")
	require.NoError(t, os.MkdirAll(filepath.Join(docs, "sub"), 0o755))
	single := filepath.Join(dir, "single.txt")
	require.NoError(t, os.WriteFile(single, []byte("x"), 0o644))

	roots, err := resolveRoots([]string{docs, single}, scanner.Options{})
	require.NoError(t, err)
	filter := scanner.Options{IncludePatterns: []string{"*.txt"}}

	// When / Then: paths map to the scanner's form or are rejected
	p, ok := resolve(roots, filter, filepath.Join(docs, "sub", "a.txt"), false)
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(docs, "sub", "a.txt"), p)

	_, ok = resolve(roots, filter, filepath.Join(docs, "a.md"), false)
	assert.False(t, ok, "include pattern")

	_, ok = resolve(roots, filter, filepath.Join(docs, ".hidden.txt"), false)
	assert.False(t, ok, "hidden")

	p, ok = resolve(roots, filter, single, false)
	assert.True(t, ok)
	assert.Equal(t, single, p)

	_, ok = resolve(roots, filter, filepath.Join(dir, "other.txt"), false)
	assert.False(t, ok, "sibling of a file root")

	_, ok = resolve(roots, filter, docs, true)
	assert.False(t, ok, "root itself")
}

func TestResolveRoots_MissingPath(t *testing.T) {
	_, err := resolveRoots([]string{filepath.Join(t.TempDir(), "missing")}, scanner.Options{})
	assert.Error(t, err)

	_, err = resolveRoots(nil, scanner.Options{})
	assert.Error(t, err)
}

// collect gathers batches until pred is satisfied or the timeout passes.
func collect(t *testing.T, w *Watcher, timeout time.Duration, pred func(map[string]Operation) bool) map[string]Operation {
	t.Helper()
	seen := make(map[string]Operation)
	deadline := time.After(timeout)
	for {
		select {
		case batch, ok := <-w.Events():
			if !ok {
				return seen
			}
			for _, e := range batch {
				seen[filepath.Base(e.Path)] = e.Operation
			}
			if pred(seen) {
				return seen
			}
		case <-deadline:
			return seen
		}
	}
}

func startWatcher(t *testing.T, opts Options, paths ...string) *Watcher {
	t.Helper()
	w, err := New(opts)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Start(ctx, paths)
	}()
	t.Cleanup(func() {
		cancel()
		_ = w.Stop()
		<-done
	})
	// Let Start register its watches before the test writes.
	time.Sleep(100 * time.Millisecond)
	return w
}

func TestWatcher_Fsnotify_ReportsChanges(t *testing.T) {
	// Given: a watched directory with one file
	dir := t.TempDir()
	existing := filepath.Join(dir, "existing.txt")
	require.NoError(t, os.WriteFile(existing, []byte("one"), 0o644))
	w := startWatcher(t, Options{Debounce: 50 * time.Millisecond}, dir)
	if w.Mode() != "fsnotify" {
		t.Skip("fsnotify unavailable")
	}

	// When: a file is created, another modified, and a nested one added
	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.txt"), []byte("two"), 0o644))
	require.NoError(t, os.WriteFile(existing, []byte("one more"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "deep.txt"), []byte("three"), 0o644))

	// Then: all three show up
	seen := collect(t, w, 3*time.Second, func(m map[string]Operation) bool {
		_, a := m["new.txt"]
		_, b := m["existing.txt"]
		_, c := m["deep.txt"]
		return a && b && c
	})
	assert.Equal(t, OpCreate, seen["new.txt"])
	assert.Equal(t, OpModify, seen["existing.txt"])
	assert.Contains(t, seen, "deep.txt")
}

func TestWatcher_Fsnotify_FileRootIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	tracked := filepath.Join(dir, "tracked.txt")
	require.NoError(t, os.WriteFile(tracked, []byte("a"), 0o644))
	w := startWatcher(t, Options{Debounce: 50 * time.Millisecond}, tracked)
	if w.Mode() != "fsnotify" {
		t.Skip("fsnotify unavailable")
	}

	require.NoError(t, os.WriteFile(filepath.Join(dir, "sibling.txt"), []byte("b"), 0o644))
	require.NoError(t, os.Remove(tracked))

	seen := collect(t, w, 3*time.Second, func(m map[string]Operation) bool {
		_, ok := m["tracked.txt"]
		return ok
	})
	assert.Equal(t, OpDelete, seen["tracked.txt"])
	assert.NotContains(t, seen, "sibling.txt")
}

func TestWatcher_Polling_ReportsChanges(t *testing.T) {
	// Given: a polling watcher on a directory
	dir := t.TempDir()
	doomed := filepath.Join(dir, "doomed.txt")
	require.NoError(t, os.WriteFile(doomed, []byte("x"), 0o644))
	w := startWatcher(t, Options{
		ForcePolling: true,
		PollInterval: 50 * time.Millisecond,
		Debounce:     20 * time.Millisecond,
	}, dir)
	assert.Equal(t, "polling", w.Mode())

	// When: one file is added and another removed
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fresh.txt"), []byte("y"), 0o644))
	require.NoError(t, os.Remove(doomed))

	// Then: both are reported
	seen := collect(t, w, 3*time.Second, func(m map[string]Operation) bool {
		_, a := m["fresh.txt"]
		_, b := m["doomed.txt"]
		return a && b
	})
	assert.Equal(t, OpCreate, seen["fresh.txt"])
	assert.Equal(t, OpDelete, seen["doomed.txt"])
}

func TestWatcher_StartMissingPath(t *testing.T) {
	w, err := New(Options{})
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	err = w.Start(context.Background(), []string{filepath.Join(t.TempDir(), "nope")})

	assert.Error(t, err)
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w, err := New(Options{ForcePolling: true})
	require.NoError(t, err)

	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())

	_, ok := <-w.Events()
	assert.False(t, ok)
}

func TestResolve_RespectsGitignore(t *testing.T) {
	// Given: a watched directory with a .gitignore
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("drafts/\n"), 0o644))
	filter := scanner.Options{RespectGitignore: true}

	roots, err := resolveRoots([]string{dir}, filter)
	require.NoError(t, err)

	// When / Then: ignored paths are dropped, others pass
	_, ok := resolve(roots, filter, filepath.Join(dir, "drafts", "a.txt"), false)
	assert.False(t, ok)

	p, ok := resolve(roots, filter, filepath.Join(dir, "final.txt"), false)
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "final.txt"), p)
}
