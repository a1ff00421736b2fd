// Package priority ranks civic issues with a fixed multi-criteria rule set.
// Scoring is pure: no I/O, no state, safe for concurrent use.
package priority

import "math"

// Severity levels recognised by the public-safety urgency rule.
const (
	SeverityLow      = "Low"
	SeverityMedium   = "Medium"
	SeverityHigh     = "High"
	SeverityCritical = "Critical"
)

// Composite weights.
const (
	weightUrgency   = 0.4
	weightImpact    = 0.3
	weightResource  = 0.2
	weightSentiment = 0.1
)

// Recommendation texts, chosen by composite thresholds.
const (
	RecommendImmediate = "Immediate action required"
	RecommendSchedule  = "Schedule within 24 hours"
	RecommendNormal    = "Normal priority queue"
)

// Issue is the scoring input derived from a request. Counts are whole numbers
// of requests; ratios divide by Requests+1.
type Issue struct {
	Requests            int
	Complaints          int
	ResponseTimeMinutes float64
	ResponseTimeHours   float64
	IsMonsoon           bool
	PopulationFactor    float64
	ResolvedRequests    int
	PendingRequests     int
	ResourceAvailable   int
	IncidentsResolved   int
	Severity            string
}

func (i Issue) ratio(n int) float64 {
	return float64(n) / float64(i.Requests+1)
}

// Breakdown holds the four sub-scores and their composite.
type Breakdown struct {
	Urgency   int
	Impact    int
	Resource  int
	Sentiment int
	Composite float64
}

// Score applies the domain's rules to issue. The domain must come from
// ParseDomain; an unknown domain panics.
func Score(d Domain, issue Issue) Breakdown {
	rules, ok := RulesFor(d)
	if !ok {
		panic("priority: unknown domain " + string(d))
	}
	b := Breakdown{
		Urgency:   rules.Urgency(issue),
		Impact:    ImpactScore(issue.Requests, issue.PopulationFactor),
		Resource:  rules.Resource(issue),
		Sentiment: SentimentScore(issue.Complaints),
	}
	b.Composite = Composite(b.Urgency, b.Impact, b.Resource, b.Sentiment)
	return b
}

// ImpactScore steps the number of affected citizens, requests × population × 100.
func ImpactScore(requests int, populationFactor float64) int {
	affected := float64(requests) * populationFactor * 100
	switch {
	case affected > 50000:
		return 10
	case affected > 20000:
		return 8
	case affected > 10000:
		return 6
	case affected > 5000:
		return 4
	default:
		return 2
	}
}

// SentimentScore steps the complaint count.
func SentimentScore(complaints int) int {
	switch {
	case complaints > 10:
		return 10
	case complaints > 7:
		return 8
	case complaints > 5:
		return 6
	case complaints > 3:
		return 4
	default:
		return 2
	}
}

// Composite is the only place sub-scores are combined.
func Composite(urgency, impact, resource, sentiment int) float64 {
	raw := float64(urgency)*weightUrgency +
		float64(impact)*weightImpact +
		float64(resource)*weightResource +
		float64(sentiment)*weightSentiment
	return math.Round(raw*100) / 100
}

func Recommendation(composite float64) string {
	switch {
	case composite > 7.5:
		return RecommendImmediate
	case composite > 6.0:
		return RecommendSchedule
	default:
		return RecommendNormal
	}
}
