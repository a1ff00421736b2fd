// Package registrytest provides small, hand-built artifact sets for tests.
package registrytest

import (
	"testing/fstest"
)

// Districts is the district vocabulary shared by both fixture models.
var Districts = []string{"Bangalore", "Chennai", "Delhi", "Hyderabad", "Mumbai", "Nagpur", "Pune"}

// ServiceTypes is the demand model's service vocabulary.
var ServiceTypes = []string{"Ambulance_Emergency", "Electricity", "Water_Supply"}

// DemandColumns is the demand model's training column order.
var DemandColumns = []string{
	"district_encoded", "service_type_encoded", "day_of_week", "month",
	"is_weekend", "is_monsoon", "population_factor", "urban_ratio",
	"demand_lag_7days", "demand_lag_30days", "demand_trend",
	"resource_utilization_rate", "complaint_rate", "response_time_minutes",
}

// CrisisColumns is the crisis model's training column order.
var CrisisColumns = []string{
	"district_encoded", "month", "is_monsoon", "population_factor",
	"demand_requests", "pending_requests", "citizen_complaints",
	"response_time_hours", "demand_lag_7days", "demand_lag_30days",
	"demand_trend", "resolution_rate", "response_efficiency",
	"water_level_drop_7days", "water_level_drop_30days",
}

// DemandModel predicts 40 + (lag7<50 ? 5 : 20) + (trend<0 ? -3 : 2).
const DemandModel = `{
  "objective": "reg:squarederror",
  "base_score": 40,
  "trees": [
    {"nodeid": 0, "split": "demand_lag_7days", "split_condition": 50, "yes": 1, "no": 2, "missing": 1,
     "children": [{"nodeid": 1, "leaf": 5}, {"nodeid": 2, "leaf": 20}]},
    {"nodeid": 0, "split": "demand_trend", "split_condition": 0, "yes": 1, "no": 2, "missing": 2,
     "children": [{"nodeid": 1, "leaf": -3}, {"nodeid": 2, "leaf": 2}]}
  ]
}`

// CrisisModel: pending<30 gives margin -2; otherwise response_efficiency<5
// gives 2.5 and anything faster 0.5.
const CrisisModel = `{
  "objective": "binary:logistic",
  "base_score": 0.5,
  "trees": [
    {"nodeid": 0, "split": "pending_requests", "split_condition": 30, "yes": 1, "no": 2, "missing": 1,
     "children": [
       {"nodeid": 1, "leaf": -2},
       {"nodeid": 2, "split": "response_efficiency", "split_condition": 5, "yes": 3, "no": 4, "missing": 3,
        "children": [{"nodeid": 3, "leaf": 2.5}, {"nodeid": 4, "leaf": 0.5}]}
     ]}
  ]
}`

const demandManifest = `version: "1.0"
model_type: XGBoost Regressor
performance: "R² = 0.960"
objective: reg:squarederror
`

const crisisManifest = `version: "1.0"
model_type: XGBoost Classifier
performance: "F1 = 0.992, Accuracy = 99.8%"
objective: binary:logistic
`

// FS returns a fresh artifact tree holding both domains.
func FS() fstest.MapFS {
	return fstest.MapFS{
		"demand_forecasting/manifest.yaml": {Data: []byte(demandManifest)},
		"demand_forecasting/model.json":    {Data: []byte(DemandModel)},
		"demand_forecasting/encoders.json": {Data: mustJSON(map[string][]string{
			"district":     Districts,
			"service_type": ServiceTypes,
		})},
		"demand_forecasting/features.json": {Data: mustJSON(DemandColumns)},

		"crisis_prediction/manifest.yaml": {Data: []byte(crisisManifest)},
		"crisis_prediction/model.json":    {Data: []byte(CrisisModel)},
		"crisis_prediction/encoders.json": {Data: mustJSON(map[string][]string{
			"district": Districts,
		})},
		"crisis_prediction/features.json": {Data: mustJSON(CrisisColumns)},
	}
}
