package lock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DisabledUsesMemory(t *testing.T) {
	locker, err := New(context.Background(), Config{Enabled: false})
	require.NoError(t, err)
	assert.IsType(t, &MemoryLocker{}, locker)
}

func TestMemoryLocker(t *testing.T) {
	ctx := context.Background()

	t.Run("Exclusive", func(t *testing.T) {
		l := NewMemoryLocker()
		release, err := l.Acquire(ctx, "sync:acme", time.Minute)
		require.NoError(t, err)

		_, err = l.Acquire(ctx, "sync:acme", time.Minute)
		assert.ErrorIs(t, err, ErrLocked)

		_, err = l.Acquire(ctx, "sync:other", time.Minute)
		assert.NoError(t, err)

		require.NoError(t, release(ctx))
		_, err = l.Acquire(ctx, "sync:acme", time.Minute)
		assert.NoError(t, err)
	})

	t.Run("Expired Lock Is Taken Over", func(t *testing.T) {
		l := NewMemoryLocker()
		now := time.Now()
		l.clock = func() time.Time { return now }

		stale, err := l.Acquire(ctx, "k", time.Second)
		require.NoError(t, err)

		now = now.Add(2 * time.Second)
		_, err = l.Acquire(ctx, "k", time.Minute)
		require.NoError(t, err)

		// the stale owner must not free the new owner's lock
		require.NoError(t, stale(ctx))
		_, err = l.Acquire(ctx, "k", time.Minute)
		assert.ErrorIs(t, err, ErrLocked)
	})
}

func TestNew_UnreachableRedis(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := New(ctx, Config{Enabled: true, Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}
