package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_SubmitAndWait(t *testing.T) {
	pool := NewPool(2, 4, 0)
	defer pool.Shutdown(context.Background())

	var counter int32
	handles := make([]*Handle, 0, 4)
	for i := 0; i < 4; i++ {
		handle, err := pool.Submit("task", func(ctx context.Context) {
			atomic.AddInt32(&counter, 1)
		})
		require.NoError(t, err)
		handles = append(handles, handle)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, handle := range handles {
		require.NoError(t, handle.Wait(ctx))
	}

	assert.Equal(t, int32(4), atomic.LoadInt32(&counter))
}

func TestPool_QueueFull(t *testing.T) {
	pool := NewPool(1, 1, 0)
	defer pool.Shutdown(context.Background())

	block := make(chan struct{})
	started := make(chan struct{})
	_, err := pool.Submit("blocker", func(ctx context.Context) {
		close(started)
		<-block
	})
	require.NoError(t, err)
	<-started

	// воркер занят, очередь на 1 место: второе принимается, третье — нет
	_, err = pool.Submit("queued", func(ctx context.Context) {})
	require.NoError(t, err)

	_, err = pool.Submit("rejected", func(ctx context.Context) {})
	assert.ErrorIs(t, err, ErrQueueFull)

	close(block)
}

func TestPool_TaskTimeout(t *testing.T) {
	pool := NewPool(1, 1, 50*time.Millisecond)
	defer pool.Shutdown(context.Background())

	expired := make(chan bool, 1)
	handle, err := pool.Submit("slow", func(ctx context.Context) {
		select {
		case <-ctx.Done():
			expired <- true
		case <-time.After(5 * time.Second):
			expired <- false
		}
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, handle.Wait(ctx))
	assert.True(t, <-expired)
}

func TestPool_ShutdownDrains(t *testing.T) {
	pool := NewPool(1, 8, 0)

	var counter int32
	for i := 0; i < 5; i++ {
		_, err := pool.Submit("task", func(ctx context.Context) {
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt32(&counter, 1)
		})
		require.NoError(t, err)
	}

	require.NoError(t, pool.Shutdown(context.Background()))
	assert.Equal(t, int32(5), atomic.LoadInt32(&counter))

	_, err := pool.Submit("late", func(ctx context.Context) {})
	assert.ErrorIs(t, err, ErrPoolStopped)
}

func TestPool_PanicIsolated(t *testing.T) {
	pool := NewPool(1, 2, 0)
	defer pool.Shutdown(context.Background())

	handle, err := pool.Submit("panics", func(ctx context.Context) {
		panic("boom")
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, handle.Wait(ctx))

	// пул продолжает работать после паники
	handle, err = pool.Submit("after", func(ctx context.Context) {})
	require.NoError(t, err)
	require.NoError(t, handle.Wait(ctx))
}
