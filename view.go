package flume

import "context"

// View is a lazily-evaluated observable of values derived from a store.
// Nothing is computed until someone subscribes; each subscriber gets the
// usual replay-then-live semantics, with every state mapped through the
// view's transform. The sequence ends when the underlying store closes.
type View[T any] struct {
	subscribe func(next func(T), opts ...SubscribeOption) (CancelFunc, error)
	watch     func(ctx context.Context) (<-chan T, error)
}

// Map derives a view of the store's states transformed by fn. fn must be
// pure; it runs once per commit per subscriber.
func Map[S, T any](store *Store[S], fn func(S) T) *View[T] {
	return &View[T]{
		subscribe: func(next func(T), opts ...SubscribeOption) (CancelFunc, error) {
			return store.Subscribe(func(state S) { next(fn(state)) }, opts...)
		},
		watch: func(ctx context.Context) (<-chan T, error) {
			src, err := store.Watch(ctx)
			if err != nil {
				return nil, err
			}
			out := make(chan T, 1)
			go func() {
				defer close(out)
				for state := range src {
					select {
					case out <- fn(state):
					case <-ctx.Done():
						return
					}
				}
			}()
			return out, nil
		},
	}
}

// Subscribe delivers the transformed current state immediately, then every
// subsequent transformed commit. Use WithOnDone to be notified when the
// store closes. Returns ErrStoreClosed after the store has closed.
func (v *View[T]) Subscribe(next func(T), opts ...SubscribeOption) (CancelFunc, error) {
	return v.subscribe(next, opts...)
}

// Watch is the channel form of Subscribe. The channel closes when the store
// closes or the context is cancelled.
func (v *View[T]) Watch(ctx context.Context) (<-chan T, error) {
	return v.watch(ctx)
}
