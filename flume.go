package flume

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/statewise/flume/internal/logging"
)

// AsyncErrorHandler receives failures from deferred reductions. It is the
// fallback failure channel for async dispatches: the store never swallows a
// failed async reduction, but it is not fatal either.
type AsyncErrorHandler[S any] func(action Action[S], err error)

// Store owns a single current state and an append-only middleware chain.
// All state transitions go through Dispatch; all observation goes through
// State, Subscribe, or Watch. Safe for concurrent use.
type Store[S any] struct {
	mu         sync.Mutex
	subject    *Subject[S]
	middleware []Middleware[S]
	logger     *slog.Logger
	onAsyncErr AsyncErrorHandler[S]
	closed     bool
	pending    sync.WaitGroup
}

// Option configures a Store.
type Option[S any] func(*Store[S])

// WithLogger sets a structured logger. The default discards everything.
func WithLogger[S any](logger *slog.Logger) Option[S] {
	return func(s *Store[S]) {
		s.logger = logger
	}
}

// WithMiddleware registers middleware at construction time, in order.
func WithMiddleware[S any](mws ...Middleware[S]) Option[S] {
	return func(s *Store[S]) {
		s.middleware = append(s.middleware, mws...)
	}
}

// WithAsyncErrorHandler sets the handler for failed deferred reductions.
// The default logs the failure at error level.
func WithAsyncErrorHandler[S any](h AsyncErrorHandler[S]) Option[S] {
	return func(s *Store[S]) {
		s.onAsyncErr = h
	}
}

// New creates a store seeded with the initial state.
func New[S any](initial S, opts ...Option[S]) *Store[S] {
	s := &Store[S]{
		subject: NewSubject(initial),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.onAsyncErr == nil {
		s.onAsyncErr = func(a Action[S], err error) {
			s.logger.Error("async reduction failed", "action", a.Label(), "err", err)
		}
	}
	return s
}

// Add appends middleware to the chain and returns the store for chaining.
// Registration order is execution order, for both phases. There is no
// removal. Add is serialized with dispatching: middleware added while a
// dispatch is running takes effect from the next dispatch on.
func (s *Store[S]) Add(mw Middleware[S]) *Store[S] {
	s.mu.Lock()
	s.middleware = append(s.middleware, mw)
	s.mu.Unlock()
	return s
}

// Dispatch applies one action. Sync actions run to completion before
// Dispatch returns: before-phase, reduction, after-phase, commit, as one
// atomic step. Async actions run their before-phase synchronously, then
// return; the reduction resolves on its own goroutine and the commit
// happens at resolution time. A sync reduction error is returned here and
// nothing commits; an async reduction error goes to the async error
// handler and nothing commits.
//
// Any action that is neither a SyncAction nor an AsyncAction is ignored.
func (s *Store[S]) Dispatch(ctx context.Context, action Action[S]) error {
	if action == nil {
		s.logger.Debug("ignoring nil action")
		return nil
	}
	switch a := action.(type) {
	case SyncAction[S]:
		return s.dispatchSync(a)
	case AsyncAction[S]:
		return s.dispatchAsync(ctx, a)
	default:
		s.logger.Debug("ignoring action of unknown shape", "action", action.Label())
		return nil
	}
}

func (s *Store[S]) dispatchSync(a SyncAction[S]) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}

	state := s.runBefore(a, s.subject.Value())
	next, err := a.Reduce(state)
	if err != nil {
		return fmt.Errorf("reduce %q: %w", a.Name, err)
	}
	s.subject.Publish(s.runAfter(a, next))
	return nil
}

func (s *Store[S]) dispatchAsync(ctx context.Context, a AsyncAction[S]) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrStoreClosed
	}
	// The before-phase runs synchronously, in call order; it computes the
	// state handed to the deferred reduction.
	state := s.runBefore(a, s.subject.Value())
	s.pending.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.pending.Done()
		next, err := a.Reduce(ctx, state)
		if err != nil {
			s.onAsyncErr(a, fmt.Errorf("reduce %q: %w", a.Name, err))
			return
		}
		s.commitAsync(a, next)
	}()
	return nil
}

// commitAsync runs the after-phase and commits a resolved async reduction.
// Between racing async dispatches the one that resolves last wins outright;
// there is no staleness check. Resolution after Close is reported through
// the async error handler and dropped.
func (s *Store[S]) commitAsync(a AsyncAction[S], reduced S) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.onAsyncErr(a, fmt.Errorf("commit %q: %w", a.Name, ErrStoreClosed))
		return
	}
	s.subject.Publish(s.runAfter(a, reduced))
	s.mu.Unlock()
}

// State returns the latest committed state. It never reflects an async
// dispatch that has not resolved yet.
func (s *Store[S]) State() S {
	return s.subject.Value()
}

// Subscribe delivers the current state to next immediately, then every
// subsequent commit in commit order. Use WithOnDone to be notified when
// the store closes. Returns ErrStoreClosed after Close.
func (s *Store[S]) Subscribe(next func(S), opts ...SubscribeOption) (CancelFunc, error) {
	cancel, err := s.subject.Subscribe(next, opts...)
	if err != nil {
		return nil, ErrStoreClosed
	}
	return cancel, nil
}

// Watch returns a channel with the same replay-then-live semantics as
// Subscribe. The channel closes when the store closes or the context is
// cancelled. Returns ErrStoreClosed after Close.
func (s *Store[S]) Watch(ctx context.Context) (<-chan S, error) {
	ch, err := s.subject.Watch(ctx)
	if err != nil {
		return nil, ErrStoreClosed
	}
	return ch, nil
}

// Wait blocks until every in-flight async dispatch has resolved. Callers
// that need strict ordering among async actions can Wait between them.
func (s *Store[S]) Wait() {
	s.pending.Wait()
}

// Close is terminal: it stops all further dispatching and observation and
// notifies every subscriber that the sequence is finished. An async
// dispatch still in flight has its eventual resolution reported through
// the async error handler and dropped. Closing twice returns
// ErrStoreClosed.
func (s *Store[S]) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrStoreClosed
	}
	s.closed = true
	s.mu.Unlock()

	s.subject.Close()
	return nil
}
