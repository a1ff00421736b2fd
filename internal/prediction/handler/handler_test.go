package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"govintel/internal/prediction/handler/mocks"
	"govintel/internal/prediction/models"
	dErrors "govintel/pkg/domain-errors"
	"govintel/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/prediction-mocks.go -package=mocks Service
type PredictionHandlerSuite struct {
	suite.Suite
	service *mocks.MockService
	router  chi.Router
	now     time.Time
}

func TestPredictionHandlerSuite(t *testing.T) {
	suite.Run(t, new(PredictionHandlerSuite))
}

func (s *PredictionHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	s.now = time.Date(2025, 7, 14, 9, 30, 0, 0, time.UTC)

	h := New(s.service, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(requestcontext.WithTime(r.Context(), s.now)))
		})
	})
	h.Register(r)
	s.router = r
}

func (s *PredictionHandlerSuite) post(path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *PredictionHandlerSuite) decode(w *httptest.ResponseRecorder) map[string]any {
	var resp map[string]any
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func (s *PredictionHandlerSuite) TestDemandSuccess() {
	s.service.EXPECT().Demand(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *models.DemandForecastRequest) (*models.DemandPrediction, error) {
			s.Equal("Mumbai", req.District)
			s.Equal(7, req.Month)
			return &models.DemandPrediction{
				District:        "Mumbai",
				ServiceType:     "Ambulance_Emergency",
				PredictedDemand: 47,
				ConfidenceLevel: models.ConfidenceHigh,
				Trend:           models.TrendIncreasing,
				ModelVersion:    "1.0",
			}, nil
		})

	w := s.post("/api/v1/predict/demand", []byte(`{"district":"Mumbai","service_type":"Ambulance_Emergency","month":7}`))

	s.Equal(http.StatusOK, w.Code)
	resp := s.decode(w)
	s.Equal(true, resp["success"])
	s.Equal("2025-07-14T09:30:00Z", resp["timestamp"])
	prediction := resp["prediction"].(map[string]any)
	s.Equal(47.0, prediction["predicted_demand"])
	s.Equal("Increasing", prediction["trend"])
}

func (s *PredictionHandlerSuite) TestCrisisSuccessOmitsDaysWhenNoCrisis() {
	s.service.EXPECT().Crisis(gomock.Any(), gomock.Any()).Return(&models.CrisisPrediction{
		District:        "Pune",
		Probability:     0.119,
		AlertLevel:      models.AlertLow,
		Recommendations: []string{},
		ModelVersion:    "1.0",
	}, nil)

	w := s.post("/api/v1/predict/crisis", []byte(`{"district":"Pune","month":3}`))

	s.Equal(http.StatusOK, w.Code)
	prediction := s.decode(w)["prediction"].(map[string]any)
	s.NotContains(prediction, "days_until_crisis")
	s.Equal([]any{}, prediction["recommendations"])
	s.Equal(false, prediction["crisis_predicted"])
}

func (s *PredictionHandlerSuite) TestErrorMapping() {
	tests := []struct {
		name        string
		err         error
		status      int
		code        string
		description bool
	}{
		{"validation", dErrors.New(dErrors.CodeValidation, "month must be between 1 and 12"), http.StatusBadRequest, "validation_error", true},
		{"unknown category", dErrors.New(dErrors.CodeUnknownCategory, `unknown district "Gotham"`), http.StatusUnprocessableEntity, "unknown_category", true},
		{"forbidden", dErrors.New(dErrors.CodeForbidden, "consent not granted"), http.StatusForbidden, "forbidden", true},
		{"model unavailable", dErrors.New(dErrors.CodeModelUnavailable, "model crisis_prediction unavailable"), http.StatusServiceUnavailable, "model_unavailable", true},
		{"audit failure", dErrors.New(dErrors.CodeAuditWrite, "audit persistence failed"), http.StatusInternalServerError, "audit_write_failure", false},
		{"internal", dErrors.New(dErrors.CodeInternal, "prediction failed"), http.StatusInternalServerError, "internal_error", false},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.service.EXPECT().Crisis(gomock.Any(), gomock.Any()).Return(nil, tt.err)

			w := s.post("/api/v1/predict/crisis", []byte(`{"district":"Nagpur"}`))

			s.Equal(tt.status, w.Code)
			resp := s.decode(w)
			s.Equal(tt.code, resp["error"])
			if tt.description {
				s.NotEmpty(resp["error_description"])
			} else {
				s.NotContains(resp, "error_description")
			}
		})
	}
}

func (s *PredictionHandlerSuite) TestMalformedJSONNeverReachesService() {
	w := s.post("/api/v1/predict/demand", []byte(`{"district":`))

	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("bad_request", s.decode(w)["error"])
}
