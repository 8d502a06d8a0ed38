package flume_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statewise/flume"
)

// halveAfter embeds flume.Base and overrides only the after-phase.
type halveAfter struct {
	flume.Base[int]
}

func (halveAfter) AfterAction(_ flume.Action[int], _ *flume.Store[int], state int) int {
	return state / 2
}

func TestBase_IsIdentity(t *testing.T) {
	var base flume.Base[int]
	assert.Equal(t, 9, base.BeforeAction(nil, nil, 9))
	assert.Equal(t, 9, base.AfterAction(nil, nil, 9))
}

func TestBase_EmbeddingOverridesOneHook(t *testing.T) {
	store := flume.New(0)
	store.Add(halveAfter{})

	err := store.Dispatch(context.Background(), flume.SyncAction[int]{
		Name:   "set",
		Reduce: func(int) (int, error) { return 10, nil },
	})
	require.NoError(t, err)

	// Before-phase is Base's identity; after-phase halves the reduced state.
	assert.Equal(t, 5, store.State())
}

// follower issues a follow-up action from its after hook. Hooks run under
// the dispatch lock, so the follow-up goes out on its own goroutine; it
// serializes behind the dispatch that triggered it.
type follower struct {
	flume.Base[int]
	once sync.Once
}

func (f *follower) AfterAction(_ flume.Action[int], st *flume.Store[int], state int) int {
	f.once.Do(func() {
		go func() {
			_ = st.Dispatch(context.Background(), flume.SyncAction[int]{
				Name:   "follow-up",
				Reduce: func(s int) (int, error) { return s + 100, nil },
			})
		}()
	})
	return state
}

func TestMiddleware_HookDispatchesFollowUp(t *testing.T) {
	ctx := context.Background()
	store := flume.New(0)
	store.Add(&follower{})

	ch, err := store.Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, store.Dispatch(ctx, flume.SyncAction[int]{
		Name:   "inc",
		Reduce: func(s int) (int, error) { return s + 1, nil },
	}))

	deadline := time.After(time.Second)
	for {
		select {
		case v := <-ch:
			if v == 101 {
				assert.Equal(t, 101, store.State())
				return
			}
		case <-deadline:
			t.Fatalf("follow-up dispatch never committed, state=%d", store.State())
		}
	}
}

func TestMiddleware_AddedMidStream(t *testing.T) {
	ctx := context.Background()
	store := flume.New(0)

	require.NoError(t, store.Dispatch(ctx, flume.SyncAction[int]{
		Name:   "inc",
		Reduce: func(s int) (int, error) { return s + 1, nil },
	}))

	store.Add(halveAfter{})

	require.NoError(t, store.Dispatch(ctx, flume.SyncAction[int]{
		Name:   "set",
		Reduce: func(int) (int, error) { return 8, nil },
	}))

	// Only the dispatch after registration is intercepted.
	assert.Equal(t, 4, store.State())
}
