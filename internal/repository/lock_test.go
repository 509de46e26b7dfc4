package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Aman-CERP/wordtracker/internal/errors"
)

func TestLock_AcquireAndRelease(t *testing.T) {
	repoPath := filepath.Join(t.TempDir(), "nested", "repository.db")
	l := NewLock(repoPath)

	require.NoError(t, l.Acquire(context.Background(), time.Second))

	assert.True(t, l.IsLocked())
	assert.FileExists(t, repoPath+".lock")
	assert.Equal(t, repoPath+".lock", l.Path())

	require.NoError(t, l.Unlock())
	assert.False(t, l.IsLocked())
	assert.NoError(t, l.Unlock(), "second unlock is a no-op")
}

func TestLock_HeldElsewhere(t *testing.T) {
	// Given: the lock held through a separate handle
	repoPath := filepath.Join(t.TempDir(), "repository.db")
	holder := NewLock(repoPath)
	ok, err := holder.TryLock()
	require.NoError(t, err)
	require.True(t, ok)
	t.Cleanup(func() { _ = holder.Unlock() })

	// When: another handle waits briefly
	waiter := NewLock(repoPath)
	err = waiter.Acquire(context.Background(), 100*time.Millisecond)

	// Then: it gives up with a locked error
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeRepositoryLocked, apperrors.GetCode(err))
	assert.False(t, waiter.IsLocked())
}

func TestLock_AcquireAfterRelease(t *testing.T) {
	repoPath := filepath.Join(t.TempDir(), "repository.db")
	holder := NewLock(repoPath)
	ok, err := holder.TryLock()
	require.NoError(t, err)
	require.True(t, ok)

	go func() {
		time.Sleep(60 * time.Millisecond)
		_ = holder.Unlock()
	}()

	waiter := NewLock(repoPath)
	err = waiter.Acquire(context.Background(), 2*time.Second)

	require.NoError(t, err)
	assert.True(t, waiter.IsLocked())
	require.NoError(t, waiter.Unlock())
}

func TestLock_AcquireCancelled(t *testing.T) {
	repoPath := filepath.Join(t.TempDir(), "repository.db")
	holder := NewLock(repoPath)
	ok, err := holder.TryLock()
	require.NoError(t, err)
	require.True(t, ok)
	t.Cleanup(func() { _ = holder.Unlock() })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = NewLock(repoPath).Acquire(ctx, 5*time.Second)

	assert.Error(t, err)
}
