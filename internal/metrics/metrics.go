// Package metrics counts store statements and aggregate saves.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "contacts"

// Outcome labels
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics holds the collectors of one store. A nil *Metrics records nothing.
type Metrics struct {
	registry     *prometheus.Registry
	statements   *prometheus.CounterVec
	saves        *prometheus.CounterVec
	saveDuration *prometheus.HistogramVec
}

// New creates the collectors on a private registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		statements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "statements_total",
			Help:      "Store statements by operation and outcome.",
		}, []string{"op", "outcome"}),
		saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "aggregate_saves_total",
			Help:      "Aggregate saves by aggregate, parent lifecycle and outcome.",
		}, []string{"aggregate", "lifecycle", "outcome"}),
		saveDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "aggregate_save_duration_seconds",
			Help:      "Wall time of aggregate saves including commit or rollback.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"aggregate"}),
	}
	m.registry.MustRegister(m.statements, m.saves, m.saveDuration)
	return m
}

// Registry exposes the collectors for scraping or export
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return prometheus.NewRegistry()
	}
	return m.registry
}

// ObserveStatement counts one store statement
func (m *Metrics) ObserveStatement(op string, err error) {
	if m == nil {
		return
	}
	m.statements.WithLabelValues(op, outcome(err == nil)).Inc()
}

// ObserveSave counts one aggregate save
func (m *Metrics) ObserveSave(aggregate, lifecycle string, ok bool, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.saves.WithLabelValues(aggregate, lifecycle, outcome(ok)).Inc()
	m.saveDuration.WithLabelValues(aggregate).Observe(elapsed.Seconds())
}

// WriteFile dumps the current values in the text exposition format
func (m *Metrics) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry())
}

func outcome(ok bool) string {
	if ok {
		return OutcomeOK
	}
	return OutcomeError
}
