package flume

import "context"

// Action is a request to transition the store's state. The store recognizes
// exactly two concrete shapes, SyncAction and AsyncAction; dispatching any
// other implementation is a no-op (logged at debug level).
//
// Actions are values: construct them once and treat them as immutable. The
// store and middleware never modify an action.
type Action[S any] interface {
	// Label returns the action's display form, used by middleware and logs.
	Label() string
}

// SyncAction produces the next state immediately. Reduce is a pure function
// invoked at most once per dispatch, synchronously, on the state produced by
// the before-phase of the middleware chain. It must return the next state by
// value; returning an error aborts the dispatch without committing.
type SyncAction[S any] struct {
	Name   string
	Reduce func(state S) (S, error)
}

// Label returns the action's name.
func (a SyncAction[S]) Label() string { return a.Name }

// AsyncAction produces the next state through a deferred reduction. Reduce
// runs on its own goroutine and may take arbitrarily long; the dispatch
// commits only when it returns. The passed context is the one given to
// Dispatch. A returned error is routed to the store's async error handler
// and nothing commits.
type AsyncAction[S any] struct {
	Name   string
	Reduce func(ctx context.Context, state S) (S, error)
}

// Label returns the action's name.
func (a AsyncAction[S]) Label() string { return a.Name }
