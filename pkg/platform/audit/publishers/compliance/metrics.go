package compliance

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks audit persistence. All methods are safe on a nil receiver.
type Metrics struct {
	EventsEmitted   *prometheus.CounterVec
	PersistFailures prometheus.Counter
	Retries         prometheus.Counter
	PersistDuration prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		EventsEmitted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "govintel_audit_events_total",
			Help: "Audit entries persisted by action and outcome",
		}, []string{"action", "outcome"}),
		PersistFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "govintel_audit_persist_failures_total",
			Help: "Audit entries that could not be persisted after all retries",
		}),
		Retries: f.NewCounter(prometheus.CounterOpts{
			Name: "govintel_audit_retries_total",
			Help: "Audit append retries",
		}),
		PersistDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "govintel_audit_persist_duration_seconds",
			Help:    "Time to persist one audit entry including retries",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.5, 1},
		}),
	}
}

func (m *Metrics) IncEventsEmitted(action, outcome string) {
	if m != nil {
		m.EventsEmitted.WithLabelValues(action, outcome).Inc()
	}
}

func (m *Metrics) IncPersistFailures() {
	if m != nil {
		m.PersistFailures.Inc()
	}
}

func (m *Metrics) IncRetries() {
	if m != nil {
		m.Retries.Inc()
	}
}

func (m *Metrics) ObservePersistDuration(d time.Duration) {
	if m != nil {
		m.PersistDuration.Observe(d.Seconds())
	}
}
