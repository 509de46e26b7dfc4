package errors

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func lockedErr() error {
	return New(ErrCodeRepositoryLocked, "locked", nil)
}

func fastConfig(retries int) RetryConfig {
	return RetryConfig{
		MaxRetries:   retries,
		InitialDelay: 5 * time.Millisecond,
		MaxDelay:     20 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestRetry_SucceedsAfterContention(t *testing.T) {
	// Given: a lock that is released on the third attempt
	attempts := 0
	fn := func() error {
		attempts++
		if attempts < 3 {
			return lockedErr()
		}
		return nil
	}

	// When: retrying
	err := Retry(context.Background(), fastConfig(5), fn)

	// Then: succeeds after 3 attempts
	assert.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetry_FailsAfterMaxRetries(t *testing.T) {
	attempts := 0
	fn := func() error {
		attempts++
		return lockedErr()
	}

	err := Retry(context.Background(), fastConfig(2), fn)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 retries")
	assert.Equal(t, ErrCodeRepositoryLocked, GetCode(err))
	assert.Equal(t, 3, attempts) // Initial + 2 retries
}

func TestRetry_StopsOnNonRetryableError(t *testing.T) {
	attempts := 0
	want := errors.New("permission denied")
	fn := func() error {
		attempts++
		return want
	}

	err := Retry(context.Background(), fastConfig(5), fn)

	assert.Equal(t, want, err)
	assert.Equal(t, 1, attempts)
}

func TestRetry_RespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, fastConfig(5), func() error { return nil })

	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRetry_RespectsContextDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	cfg := RetryConfig{
		MaxRetries:   100,
		InitialDelay: 10 * time.Millisecond,
		MaxDelay:     10 * time.Millisecond,
		Multiplier:   1.0,
	}

	err := Retry(ctx, cfg, lockedErr)

	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestRetryConfigForTimeout(t *testing.T) {
	tests := []struct {
		name        string
		timeout     time.Duration
		wantRetries int
	}{
		{"no wait", 0, 0},
		{"negative", -time.Second, 0},
		{"one delay", 50 * time.Millisecond, 1},
		// 50 + 100 + 200 + 400 = 750ms, next 800ms would exceed 1s
		{"one second", time.Second, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := RetryConfigForTimeout(tt.timeout)
			assert.Equal(t, tt.wantRetries, cfg.MaxRetries)
		})
	}
}
