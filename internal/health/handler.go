// Package health serves the read-only status surface and the privacy report.
package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"govintel/internal/modelregistry"
	"govintel/internal/privacy"
	"govintel/pkg/platform/httputil"
	"govintel/pkg/requestcontext"
)

const (
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"

	priorityEngineKey  = "priority_engine"
	priorityEngineType = "Multi-criteria Ranking"
	reportResource     = "privacy_report"
)

// ModelStatusSource reports per-domain model load state.
type ModelStatusSource interface {
	Status() map[modelregistry.Domain]modelregistry.ModelStatus
	AllLoaded() bool
}

// PrivacyReporter builds the compliance report and audits who read it.
type PrivacyReporter interface {
	Report() privacy.ComplianceReport
	AuditDataAccess(ctx context.Context, actor, resource, purpose, origin string) error
}

// Info identifies the running API.
type Info struct {
	Name    string
	Version string
}

type Handler struct {
	models  ModelStatusSource
	privacy PrivacyReporter
	info    Info
	logger  *slog.Logger
}

func New(models ModelStatusSource, reporter PrivacyReporter, info Info, logger *slog.Logger) *Handler {
	return &Handler{
		models:  models,
		privacy: reporter,
		info:    info,
		logger:  logger,
	}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/", h.HandleRoot)
	r.Get("/health", h.HandleHealth)
	r.Get("/api/v1/privacy/report", h.HandlePrivacyReport)
}

type RootResponse struct {
	Status           string `json:"status"`
	API              string `json:"api"`
	Version          string `json:"version"`
	PrivacyCompliant bool   `json:"privacy_compliant"`
}

type Response struct {
	Status           string                              `json:"status"`
	APIVersion       string                              `json:"api_version"`
	Models           map[string]modelregistry.ModelStatus `json:"models"`
	PrivacyFramework privacy.ComplianceReport            `json:"privacy_framework"`
}

func (h *Handler) HandleRoot(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, RootResponse{
		Status:           "active",
		API:              h.info.Name,
		Version:          h.info.Version,
		PrivacyCompliant: true,
	})
}

// HandleHealth reports degraded, still with 200, when any model failed to load.
func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	status := StatusHealthy
	if !h.models.AllLoaded() {
		status = StatusDegraded
	}

	models := make(map[string]modelregistry.ModelStatus)
	for domain, st := range h.models.Status() {
		models[string(domain)] = st
	}
	models[priorityEngineKey] = modelregistry.ModelStatus{Loaded: true, Type: priorityEngineType}

	httputil.WriteJSON(w, http.StatusOK, Response{
		Status:           status,
		APIVersion:       h.info.Version,
		Models:           models,
		PrivacyFramework: h.privacy.Report(),
	})
}

// HandlePrivacyReport serves the compliance report and records the read.
func (h *Handler) HandlePrivacyReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := requestcontext.Role(ctx)
	if actor == "" {
		actor = "anonymous"
	}

	if err := h.privacy.AuditDataAccess(ctx, actor, reportResource, "compliance_review", requestcontext.ClientIP(ctx)); err != nil {
		h.logger.ErrorContext(ctx, "privacy report access not recorded",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.privacy.Report())
}
