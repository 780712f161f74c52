package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/metrics"
)

func TestMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.Generation(metrics.OutcomeCommitted, 3*time.Millisecond, 12)
	m.Generation(metrics.OutcomeDiscarded, time.Millisecond, 0)
	m.Generation(metrics.OutcomeSkipped, 0, 0)
	m.Mutation(metrics.OpAdd, 1)
	m.Mutation(metrics.OpAdd, 2)
	m.Mutation(metrics.OpRemove, 1)

	count, err := testutil.GatherAndCount(reg, "outfit_generations_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	count, err = testutil.GatherAndCount(reg, "outfit_generation_duration_seconds", "outfit_generation_candidates")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	families, err := reg.Gather()
	require.NoError(t, err)
	values := map[string]float64{}
	for _, f := range families {
		for _, metric := range f.GetMetric() {
			switch f.GetName() {
			case "outfit_selected_garments":
				values["selected"] = metric.GetGauge().GetValue()
			case "outfit_generation_duration_seconds":
				values["duration_count"] = float64(metric.GetHistogram().GetSampleCount())
			case "outfit_selection_mutations_total":
				for _, l := range metric.GetLabel() {
					values["op_"+l.GetValue()] = metric.GetCounter().GetValue()
				}
			}
		}
	}
	assert.Equal(t, 1.0, values["selected"])
	assert.Equal(t, 2.0, values["duration_count"])
	assert.Equal(t, 2.0, values["op_add"])
	assert.Equal(t, 1.0, values["op_remove"])
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.Generation(metrics.OutcomeFailed, time.Second, 0)
		m.Mutation(metrics.OpClear, 0)
	})
}
