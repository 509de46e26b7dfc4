package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	apperrors "github.com/Aman-CERP/wordtracker/internal/errors"
)

// Lock is a cross-process lock on a repository, held in <repository>.lock.
type Lock struct {
	path   string
	flock  *flock.Flock
	locked bool
}

// NewLock returns the lock guarding the repository at repoPath.
func NewLock(repoPath string) *Lock {
	lockPath := repoPath + ".lock"
	return &Lock{
		path:  lockPath,
		flock: flock.New(lockPath),
	}
}

// TryLock attempts to acquire the lock without blocking.
func (l *Lock) TryLock() (bool, error) {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return false, fmt.Errorf("failed to create lock directory: %w", err)
	}

	acquired, err := l.flock.TryLock()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if acquired {
		l.locked = true
	}
	return acquired, nil
}

// Acquire waits up to timeout for the lock. When another process still holds
// it afterwards the error carries ErrCodeRepositoryLocked.
func (l *Lock) Acquire(ctx context.Context, timeout time.Duration) error {
	cfg := apperrors.RetryConfigForTimeout(timeout)
	return apperrors.Retry(ctx, cfg, func() error {
		acquired, err := l.TryLock()
		if err != nil {
			return apperrors.IOError("cannot lock repository", err).WithDetail("lock", l.path)
		}
		if !acquired {
			return apperrors.New(apperrors.ErrCodeRepositoryLocked, "repository is in use by another process", nil).
				WithDetail("lock", l.path).
				WithSuggestion("Wait for the other wordtracker run to finish, or raise repository.lock_timeout")
		}
		return nil
	})
}

// Unlock releases the lock. Calling it on an unlocked Lock is a no-op.
func (l *Lock) Unlock() error {
	if !l.locked {
		return nil
	}
	l.locked = false
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return nil
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.path
}

// IsLocked reports whether this Lock currently holds the lock.
func (l *Lock) IsLocked() bool {
	return l.locked
}
