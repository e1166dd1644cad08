package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryProviderSetGet(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryProvider(0)

	_, err := m.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, m.Set(ctx, "k", []byte("v"), 0))
	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

func TestMemoryProviderTTLExpiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryProvider(0)

	require.NoError(t, m.Set(ctx, "k", []byte("v"), 10*time.Millisecond))
	_, err := m.Get(ctx, "k")
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	_, err = m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryProviderSetNX(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryProvider(0)

	ok, err := m.SetNX(ctx, "k", []byte("first"), 0)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = m.SetNX(ctx, "k", []byte("second"), 0)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), got)

	// An expired entry no longer blocks SetNX.
	require.NoError(t, m.Set(ctx, "e", []byte("old"), time.Millisecond))
	time.Sleep(5 * time.Millisecond)
	ok, err = m.SetNX(ctx, "e", []byte("new"), 0)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryProviderDel(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryProvider(0)

	require.NoError(t, m.Set(ctx, "k", []byte("v"), 0))
	require.NoError(t, m.Del(ctx, "k"))
	_, err := m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryProviderCapSweep(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryProvider(4)

	for i := 0; i < 10; i++ {
		require.NoError(t, m.Set(ctx, fmt.Sprintf("k%d", i), []byte("v"), 0))
	}

	m.mu.RLock()
	size := len(m.data)
	m.mu.RUnlock()
	assert.LessOrEqual(t, size, 4, "the sweep keeps the map under the cap")
}

func TestNoopProvider(t *testing.T) {
	ctx := context.Background()
	n := NoopProvider{}

	assert.NoError(t, n.Set(ctx, "k", []byte("v"), 0))
	_, err := n.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)

	ok, err := n.SetNX(ctx, "k", []byte("v"), 0)
	assert.NoError(t, err)
	assert.True(t, ok)

	assert.NoError(t, n.Del(ctx, "k"))
	assert.NoError(t, n.Close())
}
