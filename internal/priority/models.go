package priority

import (
	"encoding/json"

	"govintel/pkg/validation"
)

const (
	defaultResolutionRate = 0.7
	defaultSeverity       = SeverityMedium
)

// ScoreRequest is the input to the priority endpoint. Optional fields are
// pointers so an omitted value can take its default.
type ScoreRequest struct {
	Domain           string   `json:"domain"`
	District         string   `json:"district"`
	IssueType        string   `json:"issue_type"`
	Requests         int      `json:"requests"`
	Complaints       int      `json:"complaints"`
	ResponseTime     float64  `json:"response_time"`
	IsMonsoon        int      `json:"is_monsoon"`
	PopulationFactor float64  `json:"population_factor"`
	ResolutionRate   *float64 `json:"resolution_rate,omitempty"`
	SeverityLevel    *string  `json:"severity_level,omitempty"`

	missing []string
}

var scoreNumericFields = []string{"requests", "complaints", "response_time", "is_monsoon", "population_factor"}

// UnmarshalJSON records which required numeric fields the payload omitted.
func (r *ScoreRequest) UnmarshalJSON(data []byte) error {
	type plain ScoreRequest
	if err := json.Unmarshal(data, (*plain)(r)); err != nil {
		return err
	}
	missing, err := validation.MissingKeys(data, scoreNumericFields...)
	if err != nil {
		return err
	}
	r.missing = missing
	return nil
}

func (r *ScoreRequest) Validate() error {
	var v validation.Problems
	if _, err := ParseDomain(r.Domain); err != nil {
		v.OneOf("domain", r.Domain, string(DomainHealth), string(DomainInfrastructure), string(DomainPublicSafety))
	}
	v.Required("district", r.District)
	v.Required("issue_type", r.IssueType)
	v.Missing(r.missing...)
	v.NonNegativeInt("requests", r.Requests)
	v.NonNegativeInt("complaints", r.Complaints)
	v.NonNegative("response_time", r.ResponseTime)
	v.Flag("is_monsoon", r.IsMonsoon)
	v.NonNegative("population_factor", r.PopulationFactor)
	v.UnitInterval("resolution_rate", r.resolutionRate())
	v.OneOf("severity_level", r.severity(), SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical)
	return v.Err()
}

func (r *ScoreRequest) resolutionRate() float64 {
	if r.ResolutionRate == nil {
		return defaultResolutionRate
	}
	return *r.ResolutionRate
}

func (r *ScoreRequest) severity() string {
	if r.SeverityLevel == nil {
		return defaultSeverity
	}
	return *r.SeverityLevel
}

// Issue derives the scoring input. Health reports response time in minutes,
// every other domain in hours.
func (r *ScoreRequest) Issue() Issue {
	rate := r.resolutionRate()
	requests := float64(r.Requests)
	resolved := int(requests * rate)

	issue := Issue{
		Requests:          r.Requests,
		Complaints:        r.Complaints,
		IsMonsoon:         r.IsMonsoon == 1,
		PopulationFactor:  r.PopulationFactor,
		ResolvedRequests:  resolved,
		PendingRequests:   int(requests * (1 - rate)),
		ResourceAvailable: resolved,
		IncidentsResolved: resolved,
		Severity:          r.severity(),
	}
	if Domain(r.Domain) == DomainHealth {
		issue.ResponseTimeMinutes = r.ResponseTime
	} else {
		issue.ResponseTimeHours = r.ResponseTime
	}
	return issue
}

// auditRecord is the flat mapping handed to the privacy engine, with defaults
// applied.
func (r *ScoreRequest) auditRecord() map[string]any {
	return map[string]any{
		"domain":            r.Domain,
		"district":          r.District,
		"issue_type":        r.IssueType,
		"requests":          r.Requests,
		"complaints":        r.Complaints,
		"response_time":     r.ResponseTime,
		"is_monsoon":        r.IsMonsoon,
		"population_factor": r.PopulationFactor,
		"resolution_rate":   r.resolutionRate(),
		"severity_level":    r.severity(),
	}
}

type Components struct {
	Urgency              int `json:"urgency"`
	Impact               int `json:"impact"`
	ResourceAvailability int `json:"resource_availability"`
	CitizenSentiment     int `json:"citizen_sentiment"`
}

type Result struct {
	District       string     `json:"district"`
	Domain         string     `json:"domain"`
	IssueType      string     `json:"issue_type"`
	PriorityScore  float64    `json:"priority_score"`
	Components     Components `json:"components"`
	Recommendation string     `json:"recommendation"`
}

func newResult(r *ScoreRequest, b Breakdown) *Result {
	return &Result{
		District:      r.District,
		Domain:        r.Domain,
		IssueType:     r.IssueType,
		PriorityScore: b.Composite,
		Components: Components{
			Urgency:              b.Urgency,
			Impact:               b.Impact,
			ResourceAvailability: b.Resource,
			CitizenSentiment:     b.Sentiment,
		},
		Recommendation: Recommendation(b.Composite),
	}
}
