package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// syncBuffer is a bytes.Buffer safe for the concurrent writes of watch.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// project is a temp project directory with an isolated user config.
type project struct {
	dir string
}

func newProject(t *testing.T) *project {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("NO_COLOR", "1")
	for _, key := range []string{
		"WORDTRACKER_REPOSITORY", "WORDTRACKER_LOCK_TIMEOUT", "WORDTRACKER_REPORT_FORMAT",
		"WORDTRACKER_COLOR", "WORDTRACKER_LOG_LEVEL", "WORDTRACKER_MIN_LENGTH",
		"WORDTRACKER_STOP_WORDS", "WORDTRACKER_WORKERS",
	} {
		t.Setenv(key, "")
	}

	dir := t.TempDir()
	// Pin the project root so FindProjectRoot never walks above the temp dir.
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	return &project{dir: dir}
}

func (p *project) write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(p.dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func (p *project) path(name string) string {
	return filepath.Join(p.dir, name)
}

// run executes the CLI against the project and returns stdout and stderr.
func (p *project) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return p.runContext(context.Background(), args...)
}

func (p *project) runContext(ctx context.Context, args ...string) (string, string, error) {
	cmd := NewRootCmd()
	stdout, stderr := &syncBuffer{}, &syncBuffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(append([]string{"-C", p.dir}, args...))
	err := cmd.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}
