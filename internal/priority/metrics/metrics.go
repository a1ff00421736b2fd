package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for priority scoring.
type Metrics struct {
	Scores          *prometheus.CounterVec
	Recommendations *prometheus.CounterVec
	Composite       *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Scores: f.NewCounterVec(prometheus.CounterOpts{
			Name: "govintel_priority_scores_total",
			Help: "Priority scoring calls by domain and outcome",
		}, []string{"domain", "outcome"}),

		Recommendations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "govintel_priority_recommendations_total",
			Help: "Recommendations issued by the priority engine",
		}, []string{"recommendation"}),

		Composite: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "govintel_priority_composite_score",
			Help:    "Distribution of composite priority scores",
			Buckets: prometheus.LinearBuckets(1, 1, 10),
		}, []string{"domain"}),
	}
}

func (m *Metrics) IncScore(domain, outcome string) {
	if m != nil {
		m.Scores.WithLabelValues(domain, outcome).Inc()
	}
}

func (m *Metrics) ObserveResult(domain, recommendation string, composite float64) {
	if m != nil {
		m.Recommendations.WithLabelValues(recommendation).Inc()
		m.Composite.WithLabelValues(domain).Observe(composite)
	}
}
