package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"govintel/internal/health"
	"govintel/internal/modelregistry"
	predictionhandler "govintel/internal/prediction/handler"
	priorityhandler "govintel/internal/priority/handler"
	"govintel/pkg/platform/middleware/auth"
	"govintel/pkg/platform/middleware/metadata"
	"govintel/pkg/platform/middleware/requestlog"
)

// Data domains guarding the model routes in the role access table, and the
// models a denial is audited against.
const (
	demandAccessDomain = "health"
	crisisAccessDomain = "infrastructure"

	demandModel = string(modelregistry.DemandForecasting)
	crisisModel = string(modelregistry.CrisisPrediction)
)

// Handlers groups the endpoint handlers mounted by the router.
type Handlers struct {
	Health     *health.Handler
	Prediction *predictionhandler.Handler
	Priority   *priorityhandler.Handler
}

// Options controls the optional parts of the router.
type Options struct {
	// Validator enables bearer-token authentication on the API routes.
	Validator *auth.TokenValidator
	// Access is consulted per route when Validator is set and records denials.
	Access auth.AccessGuard
	// Gatherer backs /metrics; nil disables the endpoint.
	Gatherer prometheus.Gatherer
}

// NewRouter wires all public endpoints. Handlers stay thin; services own the
// audit and validation rules.
func NewRouter(logger *slog.Logger, h Handlers, opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(metadata.ClientMetadata)
	r.Use(requestlog.Middleware(logger))
	r.Use(chimw.Recoverer)

	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Get("/", h.Health.HandleRoot)
	r.Get("/health", h.Health.HandleHealth)

	r.Group(func(r chi.Router) {
		if opts.Validator != nil {
			r.Use(auth.Authenticate(opts.Validator, logger))
		}

		r.Get("/api/v1/privacy/report", h.Health.HandlePrivacyReport)

		r.With(requireDomain(opts, demandAccessDomain, demandModel, logger)...).
			Post("/api/v1/predict/demand", h.Prediction.HandleDemand)
		r.With(requireDomain(opts, crisisAccessDomain, crisisModel, logger)...).
			Post("/api/v1/predict/crisis", h.Prediction.HandleCrisis)
		r.Post("/api/v1/predict/priority", h.Priority.HandleScore)
	})

	return r
}

func requireDomain(opts Options, domain, model string, logger *slog.Logger) []func(http.Handler) http.Handler {
	if opts.Validator == nil || opts.Access == nil {
		return nil
	}
	return []func(http.Handler) http.Handler{auth.RequireDomain(opts.Access, domain, model, logger)}
}
