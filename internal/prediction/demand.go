package prediction

import (
	"context"
	"math"

	"govintel/internal/features"
	"govintel/internal/modelregistry"
	"govintel/internal/prediction/models"
)

// Confidence drops to Medium once the week-over-month swing reaches this size.
const demandConfidenceThreshold = 10

// Demand forecasts service demand for a district.
func (s *Service) Demand(ctx context.Context, req *models.DemandForecastRequest) (*models.DemandPrediction, error) {
	var result *models.DemandPrediction
	c := call{
		model:   modelregistry.DemandForecasting,
		subject: req.District,
		record:  models.AuditRecord(req),
	}
	err := s.run(ctx, c, func(ctx context.Context) error {
		if err := req.Validate(); err != nil {
			return err
		}
		if err := s.requireConsent(ctx, string(modelregistry.DemandForecasting)); err != nil {
			return err
		}
		set, err := s.artifacts.Artifacts(modelregistry.DemandForecasting)
		if err != nil {
			return err
		}
		vec, err := features.EncodeDemand(req, set)
		if err != nil {
			return err
		}
		value, err := set.Model.Predict(vec.Values())
		if err != nil {
			return err
		}

		trend := req.DemandTrend()
		result = &models.DemandPrediction{
			District:        req.District,
			ServiceType:     req.ServiceType,
			PredictedDemand: int(math.Round(value)),
			ConfidenceLevel: DemandConfidence(trend),
			Trend:           DemandTrendLabel(trend),
			ModelVersion:    s.versionFor(set),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DemandTrendLabel classifies the demand trend by sign.
func DemandTrendLabel(trend float64) string {
	switch {
	case trend > 0:
		return models.TrendIncreasing
	case trend < 0:
		return models.TrendDecreasing
	default:
		return models.TrendStable
	}
}

func DemandConfidence(trend float64) string {
	if math.Abs(trend) < demandConfidenceThreshold {
		return models.ConfidenceHigh
	}
	return models.ConfidenceMedium
}
