package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"govintel/internal/priority"
	dErrors "govintel/pkg/domain-errors"
	"govintel/pkg/platform/httputil"
	"govintel/pkg/requestcontext"
)

// Service defines the priority scoring operation.
type Service interface {
	Score(ctx context.Context, req *priority.ScoreRequest) (*priority.Result, error)
}

// AccessGuard decides whether a role may read a data domain and audits the
// calls it turns away.
type AccessGuard interface {
	RoleBasedAccess(role, domain string) bool
	AuditDenied(ctx context.Context, model, subject, resource string) error
}

type Handler struct {
	service Service
	logger  *slog.Logger
	access  AccessGuard
}

type Option func(*Handler)

// WithAccessGuard enforces role access on the issue's domain. The domain is
// only known after decoding, so this cannot be a route middleware.
func WithAccessGuard(guard AccessGuard) Option {
	return func(h *Handler) {
		h.access = guard
	}
}

func New(service Service, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{
		service: service,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/api/v1/predict/priority", h.HandleScore)
}

// Response wraps a priority result.
type Response struct {
	Success   bool             `json:"success"`
	Timestamp string           `json:"timestamp"`
	Priority  *priority.Result `json:"priority"`
}

// HandleScore handles POST /api/v1/predict/priority.
func (h *Handler) HandleScore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeJSON[priority.ScoreRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.authorize(ctx, req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.Score(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "priority scoring failed",
			"request_id", requestID,
			"domain", req.Domain,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "priority scored",
		"request_id", requestID,
		"domain", result.Domain,
		"district", result.District,
		"priority_score", result.PriorityScore,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, Response{
		Success:   true,
		Timestamp: requestcontext.Now(ctx).UTC().Format(time.RFC3339),
		Priority:  result,
	})
}

// authorize leaves unknown domains to service validation so they are audited
// as rejected. A denial is audited here; if that write fails its error is
// returned in place of the 403.
func (h *Handler) authorize(ctx context.Context, req *priority.ScoreRequest) error {
	if h.access == nil {
		return nil
	}
	d, err := priority.ParseDomain(req.Domain)
	if err != nil {
		return nil
	}
	role := requestcontext.Role(ctx)
	if h.access.RoleBasedAccess(role, d.AccessDomain()) {
		return nil
	}

	h.logger.WarnContext(ctx, "access denied for priority domain",
		"request_id", requestcontext.RequestID(ctx),
		"role", role,
		"domain", req.Domain,
	)
	if err := h.access.AuditDenied(ctx, priority.ModelName, req.District, d.AccessDomain()); err != nil {
		return err
	}
	return dErrors.New(dErrors.CodeForbidden, fmt.Sprintf("role %q may not access %s data", role, d.AccessDomain()))
}
