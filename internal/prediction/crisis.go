package prediction

import (
	"context"
	"math"

	"govintel/internal/features"
	"govintel/internal/modelregistry"
	"govintel/internal/prediction/models"
)

// daysUntilCrisis is a fixed estimate, not a modelled one.
// TODO: replace with a time-to-event model once one is trained.
const daysUntilCrisis = 7

var crisisRecommendations = []string{
	"Deploy mobile water tankers immediately",
	"Issue public advisory via SMS/WhatsApp",
	"Coordinate with nearby wards for water sharing",
	"Increase water treatment plant capacity",
}

// Crisis predicts whether a service crisis is imminent in a district.
func (s *Service) Crisis(ctx context.Context, req *models.CrisisPredictionRequest) (*models.CrisisPrediction, error) {
	var result *models.CrisisPrediction
	c := call{
		model:   modelregistry.CrisisPrediction,
		subject: req.District,
		record:  models.AuditRecord(req),
	}
	err := s.run(ctx, c, func(ctx context.Context) error {
		if err := req.Validate(); err != nil {
			return err
		}
		if err := s.requireConsent(ctx, string(modelregistry.CrisisPrediction)); err != nil {
			return err
		}
		set, err := s.artifacts.Artifacts(modelregistry.CrisisPrediction)
		if err != nil {
			return err
		}
		vec, err := features.EncodeCrisis(req, set)
		if err != nil {
			return err
		}
		values := vec.Values()
		class, err := set.Model.Predict(values)
		if err != nil {
			return err
		}
		proba, err := set.Model.PredictProba(values)
		if err != nil {
			return err
		}

		result = &models.CrisisPrediction{
			District:                   req.District,
			CrisisPredicted:            class == 1,
			Probability:                math.Round(proba*1000) / 1000,
			AlertLevel:                 AlertLevel(proba),
			AffectedPopulationEstimate: int(float64(req.DemandRequests) * req.PopulationFactor * 100),
			Recommendations:            []string{},
			ModelVersion:               s.versionFor(set),
		}
		if result.CrisisPredicted {
			days := daysUntilCrisis
			result.DaysUntilCrisis = &days
			result.Recommendations = append(result.Recommendations, crisisRecommendations...)
		}
		s.metrics.IncAlertLevel(result.AlertLevel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// AlertLevel buckets a crisis probability.
func AlertLevel(p float64) string {
	switch {
	case p > 0.8:
		return models.AlertCritical
	case p > 0.6:
		return models.AlertHigh
	case p > 0.4:
		return models.AlertMedium
	default:
		return models.AlertLow
	}
}
