package models

// Confidence and trend labels for demand forecasts.
const (
	ConfidenceHigh   = "High"
	ConfidenceMedium = "Medium"

	TrendIncreasing = "Increasing"
	TrendDecreasing = "Decreasing"
	TrendStable     = "Stable"
)

// Alert levels for crisis predictions.
const (
	AlertCritical = "CRITICAL"
	AlertHigh     = "HIGH"
	AlertMedium   = "MEDIUM"
	AlertLow      = "LOW"
)

type DemandPrediction struct {
	District        string `json:"district"`
	ServiceType     string `json:"service_type"`
	PredictedDemand int    `json:"predicted_demand"`
	ConfidenceLevel string `json:"confidence_level"`
	Trend           string `json:"trend"`
	ModelVersion    string `json:"model_version"`
}

// CrisisPrediction omits days_until_crisis when no crisis is predicted.
type CrisisPrediction struct {
	District                   string   `json:"district"`
	CrisisPredicted            bool     `json:"crisis_predicted"`
	Probability                float64  `json:"probability"`
	AlertLevel                 string   `json:"alert_level"`
	DaysUntilCrisis            *int     `json:"days_until_crisis,omitempty"`
	AffectedPopulationEstimate int      `json:"affected_population_estimate"`
	Recommendations            []string `json:"recommendations"`
	ModelVersion               string   `json:"model_version"`
}
