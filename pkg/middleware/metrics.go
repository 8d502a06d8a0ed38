package middleware

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/statewise/flume"
)

// Metrics counts dispatch activity per action. Dispatches are counted when
// an action enters the pipeline and commits when its after-phase runs, so
// failed or still-pending reductions show up as the difference between the
// two counters.
type Metrics[S any] struct {
	dispatches *prometheus.CounterVec
	commits    *prometheus.CounterVec
}

// NewMetrics creates the middleware and registers its collectors.
func NewMetrics[S any](reg prometheus.Registerer, namespace string) *Metrics[S] {
	m := &Metrics[S]{
		dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatches_total",
			Help:      "Actions that entered the middleware pipeline.",
		}, []string{"action"}),
		commits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commits_total",
			Help:      "Reductions that reached the after-phase and committed.",
		}, []string{"action"}),
	}
	reg.MustRegister(m.dispatches, m.commits)
	return m
}

// BeforeAction counts the dispatch.
func (m *Metrics[S]) BeforeAction(action flume.Action[S], _ *flume.Store[S], state S) S {
	m.dispatches.WithLabelValues(action.Label()).Inc()
	return state
}

// AfterAction counts the commit.
func (m *Metrics[S]) AfterAction(action flume.Action[S], _ *flume.Store[S], state S) S {
	m.commits.WithLabelValues(action.Label()).Inc()
	return state
}
