// Package metrics defines the scoring service's metrics surface. Services
// depend on the interface; production wiring registers the prometheus
// implementation and tests use the no-op.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ScoringMetrics records scoring-run and publish activity.
type ScoringMetrics interface {
	RecordScoringRunAttempt(ctx context.Context, eventName string)
	RecordScoringRunSuccess(ctx context.Context, eventName string)
	RecordScoringRunFailure(ctx context.Context, eventName string)
	RecordOperationDuration(ctx context.Context, operation string, duration time.Duration)
	RecordStandingsFetch(ctx context.Context, division string, rows int)
	RecordPublish(ctx context.Context, target string, success bool)
}

type prometheusMetrics struct {
	runAttempts       *prometheus.CounterVec
	runOutcomes       *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	standingsRows     *prometheus.CounterVec
	publishes         *prometheus.CounterVec
}

// NewScoringMetrics registers and returns the prometheus-backed metrics.
// A nil registry returns the no-op implementation.
func NewScoringMetrics(registry *prometheus.Registry) ScoringMetrics {
	if registry == nil {
		return NoOpMetrics{}
	}
	m := &prometheusMetrics{
		runAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fantasy_scoring_run_attempts_total",
			Help: "Scoring runs started, by event.",
		}, []string{"event"}),
		runOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fantasy_scoring_run_outcomes_total",
			Help: "Scoring run outcomes, by event and result.",
		}, []string{"event", "result"}),
		operationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fantasy_operation_duration_seconds",
			Help:    "Duration of service operations.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		standingsRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fantasy_standings_rows_fetched_total",
			Help: "Standings rows fetched from the live API, by division.",
		}, []string{"division"}),
		publishes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fantasy_publishes_total",
			Help: "Report publishes, by target and result.",
		}, []string{"target", "result"}),
	}
	registry.MustRegister(m.runAttempts, m.runOutcomes, m.operationDuration, m.standingsRows, m.publishes)
	return m
}

func (m *prometheusMetrics) RecordScoringRunAttempt(_ context.Context, eventName string) {
	m.runAttempts.WithLabelValues(eventName).Inc()
}

func (m *prometheusMetrics) RecordScoringRunSuccess(_ context.Context, eventName string) {
	m.runOutcomes.WithLabelValues(eventName, "success").Inc()
}

func (m *prometheusMetrics) RecordScoringRunFailure(_ context.Context, eventName string) {
	m.runOutcomes.WithLabelValues(eventName, "failure").Inc()
}

func (m *prometheusMetrics) RecordOperationDuration(_ context.Context, operation string, duration time.Duration) {
	m.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (m *prometheusMetrics) RecordStandingsFetch(_ context.Context, division string, rows int) {
	m.standingsRows.WithLabelValues(division).Add(float64(rows))
}

func (m *prometheusMetrics) RecordPublish(_ context.Context, target string, success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	m.publishes.WithLabelValues(target, result).Inc()
}

// NoOpMetrics satisfies ScoringMetrics without recording anything.
type NoOpMetrics struct{}

func (NoOpMetrics) RecordScoringRunAttempt(context.Context, string)                 {}
func (NoOpMetrics) RecordScoringRunSuccess(context.Context, string)                 {}
func (NoOpMetrics) RecordScoringRunFailure(context.Context, string)                 {}
func (NoOpMetrics) RecordOperationDuration(context.Context, string, time.Duration)  {}
func (NoOpMetrics) RecordStandingsFetch(context.Context, string, int)               {}
func (NoOpMetrics) RecordPublish(context.Context, string, bool)                     {}
