package lock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLock(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	release, ok, err := m.Acquire(ctx, "driver:jane@example.com", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = m.Acquire(ctx, "driver:jane@example.com", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, _ = m.Acquire(ctx, "company:jane@example.com", time.Minute)
	assert.True(t, ok)

	release()
	_, ok, _ = m.Acquire(ctx, "driver:jane@example.com", time.Minute)
	assert.True(t, ok)
}

func TestMemoryLockExpires(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	base := time.Now()
	m.now = func() time.Time { return base }

	staleRelease, ok, _ := m.Acquire(ctx, "k", time.Second)
	require.True(t, ok)

	m.now = func() time.Time { return base.Add(2 * time.Second) }
	_, ok, _ = m.Acquire(ctx, "k", time.Second)
	require.True(t, ok)

	// the expired holder must not free the new holder's lock
	staleRelease()
	_, ok, _ = m.Acquire(ctx, "k", time.Second)
	assert.False(t, ok)
}

func TestNewWithoutRedis(t *testing.T) {
	_, isMemory := New(nil).(*Memory)
	assert.True(t, isMemory)
}
