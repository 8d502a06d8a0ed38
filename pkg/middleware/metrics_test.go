package middleware_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statewise/flume"
	"github.com/statewise/flume/pkg/middleware"
)

func TestMetrics_CountsDispatchesAndCommits(t *testing.T) {
	registry := prometheus.NewRegistry()
	store := flume.New(0)
	store.Add(middleware.NewMetrics[int](registry, "flume"))

	ctx := context.Background()
	require.NoError(t, store.Dispatch(ctx, increment(1)))
	require.NoError(t, store.Dispatch(ctx, increment(1)))

	err := store.Dispatch(ctx, flume.SyncAction[int]{
		Name:   "explode",
		Reduce: func(int) (int, error) { return 0, errors.New("boom") },
	})
	require.Error(t, err)

	families, err := registry.Gather()
	require.NoError(t, err)

	byName := map[string]float64{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			byName[mf.GetName()] += m.GetCounter().GetValue()
		}
	}

	// Three actions entered the pipeline; the failing one never committed.
	assert.Equal(t, float64(3), byName["flume_dispatches_total"])
	assert.Equal(t, float64(2), byName["flume_commits_total"])
}

func TestMetrics_LabelsByAction(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := middleware.NewMetrics[int](registry, "flume")
	store := flume.New(0)
	store.Add(m)

	require.NoError(t, store.Dispatch(context.Background(), increment(1)))

	count, err := testutil.GatherAndCount(registry, "flume_dispatches_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
