package flume

import (
	"context"
	"sync"
)

// CancelFunc detaches a subscriber. Calling it more than once is harmless.
type CancelFunc func()

type subscriber[S any] struct {
	next func(S)
	done func()
}

// Subject is a replay-latest broadcast slot: it holds one current value,
// seeded at construction, and an ordered list of subscribers. Publish
// replaces the value and delivers it to every subscriber in registration
// order; Subscribe delivers the current value synchronously before
// registering for future ones. Close notifies every subscriber that the
// sequence is finished.
//
// Delivery happens while the subject's lock is held, so every subscriber
// sees every published value in the same total order. Callbacks must not
// call back into the subject synchronously.
type Subject[S any] struct {
	mu     sync.Mutex
	value  S
	subs   []*subscriber[S]
	closed bool
}

// NewSubject creates a subject seeded with the given value.
func NewSubject[S any](initial S) *Subject[S] {
	return &Subject[S]{value: initial}
}

// Value returns the current value.
func (s *Subject[S]) Value() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Closed reports whether the subject has been closed.
func (s *Subject[S]) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Publish replaces the current value and delivers it to all live
// subscribers in registration order. Publishing on a closed subject is a
// no-op.
func (s *Subject[S]) Publish(v S) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.value = v
	for _, sub := range s.subs {
		sub.next(v)
	}
}

// SubscribeOption configures a subscription.
type SubscribeOption func(*subscribeConfig)

type subscribeConfig struct {
	done func()
}

// WithOnDone registers a completion callback, invoked once when the
// sequence finishes (the subject or its store closes). A subscriber that
// cancels first is never notified.
func WithOnDone(fn func()) SubscribeOption {
	return func(c *subscribeConfig) {
		c.done = fn
	}
}

// Subscribe delivers the current value to next, then registers next for
// every future publish. The returned CancelFunc detaches the subscriber.
// Use WithOnDone to be notified when the sequence finishes.
func (s *Subject[S]) Subscribe(next func(S), opts ...SubscribeOption) (CancelFunc, error) {
	var cfg subscribeConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return s.subscribe(next, cfg.done)
}

func (s *Subject[S]) subscribe(next func(S), done func()) (CancelFunc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrSubjectClosed
	}

	// Replay before registering: the subscriber's first value is always the
	// current one, even if it subscribed after many publishes.
	next(s.value)

	sub := &subscriber[S]{next: next, done: done}
	s.subs = append(s.subs, sub)

	return func() { s.remove(sub) }, nil
}

func (s *Subject[S]) remove(sub *subscriber[S]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, other := range s.subs {
		if other == sub {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

// Watch returns a channel that receives the current value immediately and
// every subsequent publish in commit order. The channel is closed when the
// subject closes or the context is cancelled.
//
// The channel send blocks the publisher: a subscriber that stops reading
// stalls commits until its context is cancelled. That is the price of the
// no-skipped-values guarantee.
func (s *Subject[S]) Watch(ctx context.Context) (<-chan S, error) {
	ch := make(chan S, 1)
	quit := make(chan struct{})
	var once sync.Once

	cancel, err := s.subscribe(
		func(v S) {
			select {
			case ch <- v:
			case <-ctx.Done():
			}
		},
		func() { once.Do(func() { close(quit) }) },
	)
	if err != nil {
		return nil, err
	}

	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-quit:
		}
		// cancel has returned (or the subject is closed), so no further
		// sends can be in flight.
		close(ch)
	}()

	return ch, nil
}

// Close marks the sequence finished. Every subscriber registered through
// Watch has its channel closed; no further values are published. Close is
// idempotent.
func (s *Subject[S]) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	subs := s.subs
	s.subs = nil
	s.mu.Unlock()

	for _, sub := range subs {
		if sub.done != nil {
			sub.done()
		}
	}
}
