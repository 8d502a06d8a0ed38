/*
Package flume is a unidirectional state container: a single current state
value, mutated only through explicit actions, observed through a
replay-latest broadcast, and interceptable by an ordered middleware chain.

# Concept

A Store holds one committed state at a time. Callers never mutate it
directly; they dispatch actions, and the store threads each action through
the registered middleware (before-phase), the action's own reduction, and
the middleware again (after-phase) before committing the result. Every
committed state is fanned out to all subscribers in commit order, and the
latest commit is replayed to anyone who subscribes later.

# Usage

	store := flume.New(0)
	store.Add(middleware.NewLogging[int](logger))

	err := store.Dispatch(ctx, flume.SyncAction[int]{
		Name:   "increment",
		Reduce: func(s int) (int, error) { return s + 1, nil },
	})
	fmt.Println(store.State()) // 1

Asynchronous actions reduce on their own goroutine and commit when the
reduction resolves:

	store.Dispatch(ctx, flume.AsyncAction[int]{
		Name: "fetch",
		Reduce: func(ctx context.Context, s int) (int, error) {
			n, err := fetchCount(ctx)
			return s + n, err
		},
	})

# Ordering

Synchronous dispatches are serialized and atomic: an observer sees either
the pre-dispatch state or the fully committed one, never an intermediate.
Asynchronous dispatches run their before-phase in call order, but commit in
resolution order: if two async dispatches race, the one that resolves last
wins outright. There is no merge and no staleness check; callers that need
strict ordering among async actions must serialize them (for example by
calling Wait between dispatches).

Middleware hooks run while the store's dispatch lock is held: they may
read State and log freely, but must not call Dispatch synchronously; use a
separate goroutine for follow-up actions. Subscriber callbacks additionally
run during delivery, so they must not call back into the store at all; they
already receive each committed state as an argument.
*/
package flume
