package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedStore struct {
	allowed bool
	err     error
	calls   int
}

func (s *scriptedStore) Allow(ctx context.Context, key string) (bool, error) {
	s.calls++
	return s.allowed, s.err
}

func TestFailover_PrimaryHealthy(t *testing.T) {
	primary := &scriptedStore{allowed: true}
	fallback := &scriptedStore{allowed: false}
	logger := zerolog.Nop()
	store := NewFailoverRateLimitStore(primary, fallback, &logger)

	allowed, err := store.Allow(context.Background(), "user:1")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Zero(t, fallback.calls, "fallback untouched while primary works")
}

func TestFailover_FallsBackOnError(t *testing.T) {
	primary := &scriptedStore{err: errors.New("connection refused")}
	fallback := &scriptedStore{allowed: true}
	logger := zerolog.Nop()
	store := NewFailoverRateLimitStore(primary, fallback, &logger)

	allowed, err := store.Allow(context.Background(), "user:1")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 1, fallback.calls)

	// While marked down the primary is not retried on every call.
	primaryCalls := primary.calls
	_, err = store.Allow(context.Background(), "user:1")
	require.NoError(t, err)
	assert.Equal(t, primaryCalls, primary.calls)
	assert.Equal(t, 2, fallback.calls)
}

func TestFailover_RecoversAfterCooldown(t *testing.T) {
	primary := &scriptedStore{err: errors.New("connection refused")}
	fallback := &scriptedStore{allowed: true}
	logger := zerolog.Nop()
	store := NewFailoverRateLimitStore(primary, fallback, &logger)

	_, err := store.Allow(context.Background(), "user:1")
	require.NoError(t, err)

	// Pretend the outage started long ago and heal the primary.
	store.lastCheck.Store(time.Now().Add(-2 * time.Minute).UnixNano())
	primary.err = nil
	primary.allowed = true

	allowed, err := store.Allow(context.Background(), "user:1")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.False(t, store.isDown.Load(), "primary is marked healthy again")
}
