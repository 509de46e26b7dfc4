package watcher

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

// ErrAlreadyWatching is returned by Claim when a live process holds the file.
var ErrAlreadyWatching = errors.New("another watcher is running")

// PIDFile records the process watching a repository, so a second watch on
// the same repository can be refused and stats can report it.
type PIDFile struct {
	path string
}

// NewPIDFile returns the PID file at path. Nothing is written yet.
func NewPIDFile(path string) *PIDFile {
	return &PIDFile{path: path}
}

// PIDPath returns the watch PID file that belongs to a repository.
func PIDPath(repoPath string) string {
	return repoPath + ".watch.pid"
}

// Path returns the file location.
func (p *PIDFile) Path() string {
	return p.path
}

// Claim writes the current PID. A file left by a process that no longer
// exists is taken over; a live one yields ErrAlreadyWatching.
func (p *PIDFile) Claim() error {
	if pid, ok := p.Running(); ok && pid != os.Getpid() {
		return fmt.Errorf("%w (pid %d)", ErrAlreadyWatching, pid)
	}

	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return fmt.Errorf("failed to create PID directory: %w", err)
	}
	if err := os.WriteFile(p.path, []byte(strconv.Itoa(os.Getpid())), 0o644); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	return nil
}

// Running returns the recorded PID if that process is alive.
func (p *PIDFile) Running() (int, bool) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, processExists(pid)
}

// Release removes the file if it still names this process.
func (p *PIDFile) Release() error {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read PID file: %w", err)
	}
	if strings.TrimSpace(string(data)) != strconv.Itoa(os.Getpid()) {
		return nil
	}
	if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

func processExists(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	// FindProcess always succeeds on Unix; signal 0 probes for the process.
	return process.Signal(syscall.Signal(0)) == nil
}
