package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the prediction services.
type Metrics struct {
	// Calls by model and audited outcome
	Predictions *prometheus.CounterVec

	// End-to-end latency including the audit write
	Latency *prometheus.HistogramVec

	// Categorical values outside the training vocabulary, a drift signal
	UnknownCategories *prometheus.CounterVec

	// Crisis alert levels issued
	AlertLevels *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Predictions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "govintel_predictions_total",
			Help: "Prediction calls by model and outcome",
		}, []string{"model", "outcome"}),

		Latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "govintel_prediction_duration_seconds",
			Help:    "Duration of a prediction call including anonymization and audit",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}, []string{"model"}),

		UnknownCategories: f.NewCounterVec(prometheus.CounterOpts{
			Name: "govintel_unknown_category_total",
			Help: "Requests rejected for a categorical value unseen at training time",
		}, []string{"model", "field"}),

		AlertLevels: f.NewCounterVec(prometheus.CounterOpts{
			Name: "govintel_crisis_alert_levels_total",
			Help: "Crisis alert levels issued",
		}, []string{"level"}),
	}
}

func (m *Metrics) IncPrediction(model, outcome string) {
	if m != nil {
		m.Predictions.WithLabelValues(model, outcome).Inc()
	}
}

func (m *Metrics) ObserveLatency(model string, d time.Duration) {
	if m != nil {
		m.Latency.WithLabelValues(model).Observe(d.Seconds())
	}
}

func (m *Metrics) IncUnknownCategory(model, field string) {
	if m != nil {
		m.UnknownCategories.WithLabelValues(model, field).Inc()
	}
}

func (m *Metrics) IncAlertLevel(level string) {
	if m != nil {
		m.AlertLevels.WithLabelValues(level).Inc()
	}
}
