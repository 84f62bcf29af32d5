package sequence

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryNextStartsAtOne(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	first, err := m.Next(ctx, ProfileIDs)
	require.NoError(t, err)
	second, err := m.Next(ctx, ProfileIDs)
	require.NoError(t, err)
	other, err := m.Next(ctx, "stories")
	require.NoError(t, err)

	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(2), second)
	assert.Equal(t, int64(1), other)
}

func TestMemoryFloorOnlyRaises(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Floor(ctx, ProfileIDs, 41))
	n, err := m.Next(ctx, ProfileIDs)
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)

	require.NoError(t, m.Floor(ctx, ProfileIDs, 10))
	n, err = m.Next(ctx, ProfileIDs)
	require.NoError(t, err)
	assert.Equal(t, int64(43), n)
}

func TestMemoryNextConcurrentUnique(t *testing.T) {
	m := NewMemory()
	const goroutines = 50

	var mu sync.Mutex
	seen := make(map[int64]bool)
	var wg sync.WaitGroup
	for range goroutines {
		wg.Go(func() {
			n, err := m.Next(context.Background(), ProfileIDs)
			if err != nil {
				return
			}
			mu.Lock()
			seen[n] = true
			mu.Unlock()
		})
	}
	wg.Wait()

	assert.Len(t, seen, goroutines)
	for i := int64(1); i <= goroutines; i++ {
		assert.True(t, seen[i], "missing %d", i)
	}
}

func TestMemoryNextHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMemory().Next(ctx, ProfileIDs)
	assert.ErrorIs(t, err, context.Canceled)
}
