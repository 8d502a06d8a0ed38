package middleware

import (
	"log/slog"

	"github.com/statewise/flume"
)

// Logging logs the action's display form and the state before and after
// each dispatch's reduction. It never changes the state.
type Logging[S any] struct {
	logger *slog.Logger
}

// NewLogging creates a logging middleware writing to the given logger.
func NewLogging[S any](logger *slog.Logger) *Logging[S] {
	return &Logging[S]{logger: logger}
}

// BeforeAction logs the incoming action and the pre-reduction state.
func (m *Logging[S]) BeforeAction(action flume.Action[S], _ *flume.Store[S], state S) S {
	m.logger.Info("dispatching", "action", action.Label(), "state", state)
	return state
}

// AfterAction logs the post-reduction state about to be committed.
func (m *Logging[S]) AfterAction(action flume.Action[S], _ *flume.Store[S], state S) S {
	m.logger.Info("dispatched", "action", action.Label(), "state", state)
	return state
}
