package flume

// Middleware intercepts every dispatch. BeforeAction runs before the
// action's reduction and AfterAction runs on the reduced state; both return
// the (possibly unchanged) state that is handed to the next middleware in
// registration order. The chain is a plain left-to-right fold with no
// branch or early-exit mechanism: a middleware that wants to stand aside
// simply returns its input unchanged.
//
// Hooks may perform side effects (logging, metrics) and may read the store
// handle, but must be pure with respect to the passed-in state and must not
// call Dispatch synchronously: the store's dispatch lock is held while
// hooks run. Dispatching a follow-up action from a hook requires a separate
// goroutine.
type Middleware[S any] interface {
	BeforeAction(action Action[S], store *Store[S], state S) S
	AfterAction(action Action[S], store *Store[S], state S) S
}

// Base is an identity Middleware meant for embedding. Concrete middleware
// embed Base and override only the hooks they care about; the other hook
// defaults to returning the state untouched.
type Base[S any] struct{}

// BeforeAction returns the state unchanged.
func (Base[S]) BeforeAction(_ Action[S], _ *Store[S], state S) S { return state }

// AfterAction returns the state unchanged.
func (Base[S]) AfterAction(_ Action[S], _ *Store[S], state S) S { return state }

// runBefore folds the before-phase over the middleware list in registration
// order. Caller must hold s.mu.
func (s *Store[S]) runBefore(action Action[S], state S) S {
	for _, m := range s.middleware {
		state = m.BeforeAction(action, s, state)
	}
	return state
}

// runAfter folds the after-phase over the middleware list in registration
// order, the same order as the before-phase, never reversed. Caller must
// hold s.mu.
func (s *Store[S]) runAfter(action Action[S], state S) S {
	for _, m := range s.middleware {
		state = m.AfterAction(action, s, state)
	}
	return state
}
