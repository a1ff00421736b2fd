package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds process-wide gauges that do not belong to a single module.
type Metrics struct {
	ModelLoaded *prometheus.GaugeVec
	BuildInfo   *prometheus.GaugeVec
}

// New registers the platform metrics on reg. Pass prometheus.DefaultRegisterer
// in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ModelLoaded: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "govintel_model_loaded",
			Help: "1 when the named model artifact loaded successfully, 0 otherwise",
		}, []string{"model"}),
		BuildInfo: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "govintel_build_info",
			Help: "Constant 1 labelled with the model version served",
		}, []string{"model_version"}),
	}
}

// SetModelLoaded records whether a model is available.
func (m *Metrics) SetModelLoaded(model string, loaded bool) {
	if m == nil {
		return
	}
	v := 0.0
	if loaded {
		v = 1
	}
	m.ModelLoaded.WithLabelValues(model).Set(v)
}

func (m *Metrics) SetBuildInfo(modelVersion string) {
	if m != nil {
		m.BuildInfo.WithLabelValues(modelVersion).Set(1)
	}
}
