package dispatch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestQueue_RunsInSubmissionOrder(t *testing.T) {
	q := New(8)
	q.Start()
	defer q.Stop()

	var got []int
	for i := 0; i < 50; i++ {
		i := i
		require.NoError(t, q.Async(func() { got = append(got, i) }))
	}
	require.NoError(t, q.Sync(context.Background(), func() error { return nil }))

	require.Len(t, got, 50)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}

func TestQueue_SyncReturnsError(t *testing.T) {
	q := New(1)
	q.Start()
	defer q.Stop()

	boom := errors.New("boom")
	assert.ErrorIs(t, q.Sync(context.Background(), func() error { return boom }), boom)
}

func TestQueue_SyncRecoversPanic(t *testing.T) {
	q := New(1)
	q.Start()
	defer q.Stop()

	err := q.Sync(context.Background(), func() error { panic("bad row") })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad row")

	// The worker survives.
	assert.NoError(t, q.Sync(context.Background(), func() error { return nil }))
}

func TestQueue_SerializesConcurrentCallers(t *testing.T) {
	q := New(4)
	q.Start()
	defer q.Stop()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = q.Sync(context.Background(), func() error {
				counter++ // no data race: only the worker touches counter
				return nil
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, 20, counter)
}

func TestQueue_ContextBoundsTheWait(t *testing.T) {
	q := New(1)
	q.Start()
	defer q.Stop()

	release := make(chan struct{})
	require.NoError(t, q.Async(func() { <-release }))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := q.Sync(ctx, func() error { return nil })
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
}

func TestQueue_Stopped(t *testing.T) {
	q := New(1)
	assert.ErrorIs(t, q.Async(func() {}), ErrStopped)

	q.Start()
	ran := false
	require.NoError(t, q.Async(func() { ran = true }))
	q.Stop()
	assert.True(t, ran)

	assert.ErrorIs(t, q.Sync(context.Background(), func() error { return nil }), ErrStopped)
	q.Start()
	assert.ErrorIs(t, q.Async(func() {}), ErrStopped)
	q.Stop()
}
