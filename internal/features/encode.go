package features

import (
	"govintel/internal/prediction/models"
)

// Crisis training data carried no water-level series; the columns were filled
// with zero.
const waterLevelDrop = 0

// EncodeDemand builds the demand model's feature vector.
func EncodeDemand(req *models.DemandForecastRequest, vocab Vocabulary) (Vector, error) {
	district, err := vocab.CategoryCode("district", req.District)
	if err != nil {
		return Vector{}, err
	}
	service, err := vocab.CategoryCode("service_type", req.ServiceType)
	if err != nil {
		return Vector{}, err
	}

	return assemble(vocab.Columns(), map[string]float64{
		"district_encoded":          float64(district),
		"service_type_encoded":      float64(service),
		"day_of_week":               float64(req.DayOfWeek),
		"month":                     float64(req.Month),
		"is_weekend":                float64(req.IsWeekend),
		"is_monsoon":                float64(req.IsMonsoon),
		"population_factor":         req.PopulationFactor,
		"urban_ratio":               req.UrbanRatio,
		"demand_lag_7days":          req.DemandLag7Days,
		"demand_lag_30days":         req.DemandLag30Days,
		"demand_trend":              req.DemandTrend(),
		"resource_utilization_rate": req.ResourceUtilizationRate,
		"complaint_rate":            req.ComplaintRate,
		"response_time_minutes":     req.ResponseTimeMinutes,
	})
}

// EncodeCrisis builds the crisis model's feature vector.
func EncodeCrisis(req *models.CrisisPredictionRequest, vocab Vocabulary) (Vector, error) {
	district, err := vocab.CategoryCode("district", req.District)
	if err != nil {
		return Vector{}, err
	}

	return assemble(vocab.Columns(), map[string]float64{
		"district_encoded":        float64(district),
		"month":                   float64(req.Month),
		"is_monsoon":              float64(req.IsMonsoon),
		"population_factor":       req.PopulationFactor,
		"demand_requests":         float64(req.DemandRequests),
		"pending_requests":        float64(req.PendingRequests),
		"citizen_complaints":      float64(req.CitizenComplaints),
		"response_time_hours":     req.ResponseTimeHours,
		"demand_lag_7days":        req.DemandLag7Days,
		"demand_lag_30days":       req.DemandLag30Days,
		"demand_trend":            req.DemandTrend(),
		"resolution_rate":         req.ResolutionRate,
		"response_efficiency":     req.ResponseEfficiency(),
		"water_level_drop_7days":  waterLevelDrop,
		"water_level_drop_30days": waterLevelDrop,
	})
}
