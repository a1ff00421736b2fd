package models

import (
	"encoding/json"

	"govintel/pkg/validation"
)

// DemandForecastRequest is the validated input to the demand model.
type DemandForecastRequest struct {
	District                string  `json:"district"`
	ServiceType             string  `json:"service_type"`
	Month                   int     `json:"month"`
	DayOfWeek               int     `json:"day_of_week"`
	IsWeekend               int     `json:"is_weekend"`
	IsMonsoon               int     `json:"is_monsoon"`
	PopulationFactor        float64 `json:"population_factor"`
	UrbanRatio              float64 `json:"urban_ratio"`
	DemandLag7Days          float64 `json:"demand_lag_7days"`
	DemandLag30Days         float64 `json:"demand_lag_30days"`
	ResourceUtilizationRate float64 `json:"resource_utilization_rate"`
	ComplaintRate           float64 `json:"complaint_rate"`
	ResponseTimeMinutes     float64 `json:"response_time_minutes"`

	missing []string
}

var demandNumericFields = []string{
	"day_of_week", "is_weekend", "is_monsoon", "population_factor", "urban_ratio",
	"demand_lag_7days", "demand_lag_30days", "resource_utilization_rate",
	"complaint_rate", "response_time_minutes",
}

// UnmarshalJSON decodes the request and remembers which numeric fields the
// payload left out, since those would otherwise reach the model as zero.
func (r *DemandForecastRequest) UnmarshalJSON(data []byte) error {
	type plain DemandForecastRequest
	if err := json.Unmarshal(data, (*plain)(r)); err != nil {
		return err
	}
	missing, err := validation.MissingKeys(data, demandNumericFields...)
	if err != nil {
		return err
	}
	r.missing = missing
	return nil
}

func (r *DemandForecastRequest) Validate() error {
	var v validation.Problems
	v.Required("district", r.District)
	v.Required("service_type", r.ServiceType)
	v.Missing(r.missing...)
	v.Between("month", r.Month, 1, 12)
	v.Between("day_of_week", r.DayOfWeek, 0, 6)
	v.Flag("is_weekend", r.IsWeekend)
	v.Flag("is_monsoon", r.IsMonsoon)
	v.NonNegative("population_factor", r.PopulationFactor)
	v.NonNegative("urban_ratio", r.UrbanRatio)
	v.NonNegative("demand_lag_7days", r.DemandLag7Days)
	v.NonNegative("demand_lag_30days", r.DemandLag30Days)
	v.NonNegative("resource_utilization_rate", r.ResourceUtilizationRate)
	v.NonNegative("complaint_rate", r.ComplaintRate)
	v.NonNegative("response_time_minutes", r.ResponseTimeMinutes)
	return v.Err()
}

// DemandTrend is the short-window minus long-window demand average.
func (r *DemandForecastRequest) DemandTrend() float64 {
	return r.DemandLag7Days - r.DemandLag30Days
}

// CrisisPredictionRequest is the validated input to the crisis model.
type CrisisPredictionRequest struct {
	District          string  `json:"district"`
	Month             int     `json:"month"`
	IsMonsoon         int     `json:"is_monsoon"`
	PopulationFactor  float64 `json:"population_factor"`
	DemandRequests    int     `json:"demand_requests"`
	PendingRequests   int     `json:"pending_requests"`
	CitizenComplaints int     `json:"citizen_complaints"`
	ResponseTimeHours float64 `json:"response_time_hours"`
	DemandLag7Days    float64 `json:"demand_lag_7days"`
	DemandLag30Days   float64 `json:"demand_lag_30days"`
	ResolutionRate    float64 `json:"resolution_rate"`

	missing []string
}

var crisisNumericFields = []string{
	"is_monsoon", "population_factor", "demand_requests", "pending_requests",
	"citizen_complaints", "response_time_hours", "demand_lag_7days",
	"demand_lag_30days", "resolution_rate",
}

func (r *CrisisPredictionRequest) UnmarshalJSON(data []byte) error {
	type plain CrisisPredictionRequest
	if err := json.Unmarshal(data, (*plain)(r)); err != nil {
		return err
	}
	missing, err := validation.MissingKeys(data, crisisNumericFields...)
	if err != nil {
		return err
	}
	r.missing = missing
	return nil
}

func (r *CrisisPredictionRequest) Validate() error {
	var v validation.Problems
	v.Required("district", r.District)
	v.Missing(r.missing...)
	v.Between("month", r.Month, 1, 12)
	v.Flag("is_monsoon", r.IsMonsoon)
	v.NonNegative("population_factor", r.PopulationFactor)
	v.NonNegativeInt("demand_requests", r.DemandRequests)
	v.NonNegativeInt("pending_requests", r.PendingRequests)
	v.NonNegativeInt("citizen_complaints", r.CitizenComplaints)
	v.NonNegative("response_time_hours", r.ResponseTimeHours)
	v.NonNegative("demand_lag_7days", r.DemandLag7Days)
	v.NonNegative("demand_lag_30days", r.DemandLag30Days)
	v.UnitInterval("resolution_rate", r.ResolutionRate)
	return v.Err()
}

func (r *CrisisPredictionRequest) DemandTrend() float64 {
	return r.DemandLag7Days - r.DemandLag30Days
}

// ResponseEfficiency is 100 / (response_time_hours + 1).
func (r *CrisisPredictionRequest) ResponseEfficiency() float64 {
	return 100 / (r.ResponseTimeHours + 1)
}

// AuditRecord flattens a request into the generic mapping the privacy engine
// anonymizes.
func AuditRecord(req any) map[string]any {
	raw, err := json.Marshal(req)
	if err != nil {
		return map[string]any{}
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return map[string]any{}
	}
	return out
}
