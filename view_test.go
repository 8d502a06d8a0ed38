package flume_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statewise/flume"
)

func TestMap_LazyUntilSubscribed(t *testing.T) {
	store := flume.New(1)
	var calls atomic.Int64

	view := flume.Map(store, func(s int) string {
		calls.Add(1)
		return fmt.Sprintf("v%d", s)
	})
	require.NoError(t, store.Dispatch(context.Background(), increment(1)))
	assert.Zero(t, calls.Load(), "the transform must not run before anyone subscribes")

	var seen []string
	_, err := view.Subscribe(func(v string) { seen = append(seen, v) })
	require.NoError(t, err)

	assert.Equal(t, []string{"v2"}, seen, "replay is transformed too")
	assert.Equal(t, int64(1), calls.Load())
}

func TestMap_ReplayThenLive(t *testing.T) {
	ctx := context.Background()
	store := flume.New(0)
	doubled := flume.Map(store, func(s int) int { return s * 2 })

	var seen []int
	_, err := doubled.Subscribe(func(v int) { seen = append(seen, v) })
	require.NoError(t, err)

	require.NoError(t, store.Dispatch(ctx, increment(3)))
	require.NoError(t, store.Dispatch(ctx, increment(4)))

	assert.Equal(t, []int{0, 6, 14}, seen)
}

func TestMap_EndsWhenStoreCloses(t *testing.T) {
	ctx := context.Background()
	store := flume.New(0)
	labels := flume.Map(store, func(s int) string { return fmt.Sprintf("s=%d", s) })

	ch, err := labels.Watch(ctx)
	require.NoError(t, err)

	go func() {
		_ = store.Dispatch(ctx, increment(1))
		_ = store.Close()
	}()

	var seen []string
	for v := range ch {
		seen = append(seen, v)
	}
	assert.Equal(t, []string{"s=0", "s=1"}, seen)

	_, err = labels.Subscribe(func(string) {})
	assert.ErrorIs(t, err, flume.ErrStoreClosed)
}

func TestMap_SubscriberObservesCompletion(t *testing.T) {
	store := flume.New(0)
	view := flume.Map(store, func(s int) int { return s })

	finished := false
	_, err := view.Subscribe(func(int) {}, flume.WithOnDone(func() { finished = true }))
	require.NoError(t, err)

	require.NoError(t, store.Close())
	assert.True(t, finished)
}
