package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"govintel/internal/prediction/models"
	"govintel/pkg/platform/httputil"
	"govintel/pkg/requestcontext"
)

// Service defines the prediction operations exposed over HTTP.
type Service interface {
	Demand(ctx context.Context, req *models.DemandForecastRequest) (*models.DemandPrediction, error)
	Crisis(ctx context.Context, req *models.CrisisPredictionRequest) (*models.CrisisPrediction, error)
}

// Handler wires prediction endpoints to the prediction service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts the prediction endpoints. Routers that enforce role access
// mount each route individually via the exported handlers.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/v1/predict/demand", h.HandleDemand)
	r.Post("/api/v1/predict/crisis", h.HandleCrisis)
}

// HandleDemand handles POST /api/v1/predict/demand.
func (h *Handler) HandleDemand(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeJSON[models.DemandForecastRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Demand(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "demand forecast failed",
			"request_id", requestID,
			"district", req.District,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "demand forecast served",
		"request_id", requestID,
		"district", result.District,
		"service_type", result.ServiceType,
		"predicted_demand", result.PredictedDemand,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, newEnvelope(requestcontext.Now(ctx), result))
}

// HandleCrisis handles POST /api/v1/predict/crisis.
func (h *Handler) HandleCrisis(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeJSON[models.CrisisPredictionRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Crisis(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "crisis prediction failed",
			"request_id", requestID,
			"district", req.District,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "crisis prediction served",
		"request_id", requestID,
		"district", result.District,
		"crisis_predicted", result.CrisisPredicted,
		"alert_level", result.AlertLevel,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, newEnvelope(requestcontext.Now(ctx), result))
}
