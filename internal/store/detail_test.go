package store

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryDetails_FirstWriteWins(t *testing.T) {
	ctx := context.Background()
	d := NewMemoryDetails()

	stored, err := d.PutIfAbsent(ctx, "x", "first")
	require.NoError(t, err)
	assert.True(t, stored)

	stored, err = d.PutIfAbsent(ctx, "x", "second")
	require.NoError(t, err)
	assert.False(t, stored, "a written entry must never be overwritten")

	content, ok, err := d.Get(ctx, "x")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "first", content)
}

func TestMemoryDetails_Miss(t *testing.T) {
	d := NewMemoryDetails()
	_, ok, err := d.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryDetails_EmptyIDIgnored(t *testing.T) {
	ctx := context.Background()
	d := NewMemoryDetails()
	stored, err := d.PutIfAbsent(ctx, "", "content")
	require.NoError(t, err)
	assert.False(t, stored)

	n, err := d.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestMemoryDetails_ConcurrentWritersSingleWinner(t *testing.T) {
	ctx := context.Background()
	d := NewMemoryDetails()

	var wg sync.WaitGroup
	wins := make(chan int, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if stored, _ := d.PutIfAbsent(ctx, "contested", "writer"); stored {
				wins <- n
			}
		}(i)
	}
	wg.Wait()
	close(wins)

	count := 0
	for range wins {
		count++
	}
	assert.Equal(t, 1, count, "exactly one writer may win")
}
