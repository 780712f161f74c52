// Package metrics exports session activity to Prometheus.
//
// Metrics:
//
//   - outfit_generations_total{outcome}: generation attempts by outcome
//   - outfit_generation_duration_seconds: time spent enumerating
//   - outfit_generation_candidates: candidates per committed generation
//   - outfit_selection_mutations_total{op}: add, remove, clear and replace calls
//   - outfit_selected_garments: current selection size
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "outfit"

// Generation outcomes.
const (
	OutcomeCommitted = "committed"
	OutcomeDiscarded = "discarded"
	OutcomeFailed    = "failed"
	OutcomeSkipped   = "skipped"
)

// Selection operations.
const (
	OpAdd     = "add"
	OpRemove  = "remove"
	OpClear   = "clear"
	OpReplace = "replace"
)

// Metrics records session activity. A nil *Metrics records nothing.
type Metrics struct {
	generations *prometheus.CounterVec
	duration    prometheus.Histogram
	candidates  prometheus.Histogram
	mutations   *prometheus.CounterVec
	selected    prometheus.Gauge
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		generations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_total",
			Help:      "Generation attempts by outcome.",
		}, []string{"outcome"}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Time spent enumerating and scoring candidates.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		candidates: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_candidates",
			Help:      "Candidates produced by committed generations.",
			Buckets:   prometheus.LinearBuckets(0, 5, 11),
		}),
		mutations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selection_mutations_total",
			Help:      "Selection set mutations by operation.",
		}, []string{"op"}),
		selected: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "selected_garments",
			Help:      "Garments currently selected.",
		}),
	}
}

// Generation records the outcome of one generation attempt.
func (m *Metrics) Generation(outcome string, took time.Duration, candidates int) {
	if m == nil {
		return
	}
	m.generations.WithLabelValues(outcome).Inc()
	if outcome == OutcomeSkipped {
		return
	}
	m.duration.Observe(took.Seconds())
	if outcome == OutcomeCommitted {
		m.candidates.Observe(float64(candidates))
	}
}

// Mutation records a selection change and the resulting selection size.
func (m *Metrics) Mutation(op string, selected int) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(op).Inc()
	m.selected.Set(float64(selected))
}
