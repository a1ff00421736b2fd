package priority

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "govintel/pkg/domain-errors"
)

func ptr[T any](v T) *T { return &v }

func puneHealthRequest() *ScoreRequest {
	return &ScoreRequest{
		Domain:           "Health",
		District:         "Pune",
		IssueType:        "Hospital_Bed_ICU",
		Requests:         95,
		Complaints:       8,
		ResponseTime:     25.5,
		IsMonsoon:        0,
		PopulationFactor: 2.0,
		ResolutionRate:   ptr(0.65),
	}
}

func TestCompositeMatchesWeightedSumForEveryCombination(t *testing.T) {
	for u := 0; u <= 10; u++ {
		for i := 0; i <= 10; i++ {
			for r := 0; r <= 10; r++ {
				for s := 0; s <= 10; s++ {
					want := math.Round((0.4*float64(u)+0.3*float64(i)+0.2*float64(r)+0.1*float64(s))*100) / 100
					got := Composite(u, i, r, s)
					if got != want {
						t.Fatalf("Composite(%d,%d,%d,%d) = %v, want %v", u, i, r, s, got, want)
					}
				}
			}
		}
	}
}

func TestHealthExample(t *testing.T) {
	req := puneHealthRequest()
	require.NoError(t, req.Validate())

	b := Score(DomainHealth, req.Issue())
	assert.Equal(t, 9, b.Urgency, "base 7 +2 for requests>80, no response-time boost under 30 minutes")
	assert.Equal(t, 6, b.Impact)
	assert.Equal(t, 3, b.Resource, "61/96 is below 0.7")
	assert.Equal(t, 8, b.Sentiment)
	assert.Equal(t, 6.8, b.Composite)
	assert.Equal(t, RecommendSchedule, Recommendation(b.Composite))
}

func TestHealthUrgency(t *testing.T) {
	rules := healthRules{}
	assert.Equal(t, 7, rules.Urgency(Issue{Requests: 80, ResponseTimeMinutes: 30}))
	assert.Equal(t, 9, rules.Urgency(Issue{Requests: 81, ResponseTimeMinutes: 30}))
	assert.Equal(t, 8, rules.Urgency(Issue{Requests: 10, ResponseTimeMinutes: 30.5}))
	assert.Equal(t, 10, rules.Urgency(Issue{Requests: 100, ResponseTimeMinutes: 90}))
}

func TestInfrastructureUrgency(t *testing.T) {
	rules := infrastructureRules{}
	// 50 pending of 99 requests is 50/100, not above half
	assert.Equal(t, 5, rules.Urgency(Issue{Requests: 99, PendingRequests: 50}))
	assert.Equal(t, 8, rules.Urgency(Issue{Requests: 99, PendingRequests: 51}))
	assert.Equal(t, 7, rules.Urgency(Issue{Requests: 99, PendingRequests: 0, IsMonsoon: true}))
	assert.Equal(t, 10, rules.Urgency(Issue{Requests: 10, PendingRequests: 9, IsMonsoon: true}))
}

func TestPublicSafetyUrgencyOverridesBase(t *testing.T) {
	rules := publicSafetyRules{}
	assert.Equal(t, 8, rules.Urgency(Issue{Severity: SeverityLow}))
	assert.Equal(t, 8, rules.Urgency(Issue{Severity: SeverityMedium}))
	assert.Equal(t, 9, rules.Urgency(Issue{Severity: SeverityHigh}))
	assert.Equal(t, 10, rules.Urgency(Issue{Severity: SeverityCritical}))
}

func TestResourceBreakpoints(t *testing.T) {
	tests := []struct {
		name   string
		rules  ResourceRule
		issue  Issue
		expect int
	}{
		{"health above 0.9", healthRules{}, Issue{Requests: 99, ResourceAvailable: 91}, 9},
		{"health at 0.9", healthRules{}, Issue{Requests: 99, ResourceAvailable: 90}, 6},
		{"health at 0.7", healthRules{}, Issue{Requests: 99, ResourceAvailable: 70}, 3},
		{"infrastructure above 0.8", infrastructureRules{}, Issue{Requests: 99, ResolvedRequests: 81}, 8},
		{"infrastructure above 0.5", infrastructureRules{}, Issue{Requests: 99, ResolvedRequests: 51}, 5},
		{"infrastructure at 0.5", infrastructureRules{}, Issue{Requests: 99, ResolvedRequests: 50}, 2},
		{"public safety above 0.7", publicSafetyRules{}, Issue{Requests: 99, IncidentsResolved: 71}, 6},
		{"public safety zero requests", publicSafetyRules{}, Issue{}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, tt.rules.Resource(tt.issue))
		})
	}
}

func TestImpactAndSentimentBreakpoints(t *testing.T) {
	assert.Equal(t, 10, ImpactScore(251, 2.0))
	assert.Equal(t, 8, ImpactScore(250, 2.0))
	assert.Equal(t, 8, ImpactScore(201, 1.0))
	assert.Equal(t, 6, ImpactScore(101, 1.0))
	assert.Equal(t, 4, ImpactScore(51, 1.0))
	assert.Equal(t, 2, ImpactScore(50, 1.0))
	assert.Equal(t, 2, ImpactScore(0, 3.0))

	for complaints, want := range map[int]int{0: 2, 3: 2, 4: 4, 5: 4, 6: 6, 7: 6, 8: 8, 10: 8, 11: 10, 500: 10} {
		assert.Equal(t, want, SentimentScore(complaints), "complaints=%d", complaints)
	}
}

func TestRecommendationThresholds(t *testing.T) {
	assert.Equal(t, RecommendImmediate, Recommendation(7.51))
	assert.Equal(t, RecommendSchedule, Recommendation(7.5))
	assert.Equal(t, RecommendSchedule, Recommendation(6.01))
	assert.Equal(t, RecommendNormal, Recommendation(6.0))
}

func TestSubScoresStayInRange(t *testing.T) {
	for _, d := range []Domain{DomainHealth, DomainInfrastructure, DomainPublicSafety} {
		for _, requests := range []int{0, 1, 50, 81, 500, 100000} {
			for _, rate := range []float64{0, 0.3, 0.7, 1} {
				req := puneHealthRequest()
				req.Domain = string(d)
				req.Requests = requests
				req.ResolutionRate = ptr(rate)
				req.ResponseTime = 120
				req.IsMonsoon = 1
				req.SeverityLevel = ptr(SeverityCritical)
				b := Score(d, req.Issue())
				for _, v := range []int{b.Urgency, b.Impact, b.Resource, b.Sentiment} {
					assert.GreaterOrEqual(t, v, 0)
					assert.LessOrEqual(t, v, 10)
				}
			}
		}
	}
}

func TestIssueDerivation(t *testing.T) {
	req := puneHealthRequest()
	issue := req.Issue()
	assert.Equal(t, 61, issue.ResolvedRequests)
	assert.Equal(t, 61, issue.ResourceAvailable)
	assert.Equal(t, 61, issue.IncidentsResolved)
	assert.Equal(t, 33, issue.PendingRequests)
	assert.Equal(t, 25.5, issue.ResponseTimeMinutes)
	assert.Zero(t, issue.ResponseTimeHours)
	assert.Equal(t, SeverityMedium, issue.Severity)

	req.Domain = "Infrastructure"
	req.ResolutionRate = nil
	issue = req.Issue()
	assert.Equal(t, 66, issue.ResolvedRequests, "default resolution rate 0.7")
	assert.Equal(t, 25.5, issue.ResponseTimeHours)
	assert.Zero(t, issue.ResponseTimeMinutes)
}

func TestParseDomain(t *testing.T) {
	for _, s := range []string{"Health", "Infrastructure", "PublicSafety"} {
		d, err := ParseDomain(s)
		require.NoError(t, err)
		assert.Equal(t, s, d.String())
	}
	for _, s := range []string{"", "health", "Education"} {
		_, err := ParseDomain(s)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation), "input %q", s)
	}
	assert.Equal(t, "public_safety", DomainPublicSafety.AccessDomain())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *ScoreRequest)
	}{
		{"unknown domain", func(r *ScoreRequest) { r.Domain = "Education" }},
		{"missing district", func(r *ScoreRequest) { r.District = "" }},
		{"missing issue type", func(r *ScoreRequest) { r.IssueType = "" }},
		{"negative requests", func(r *ScoreRequest) { r.Requests = -1 }},
		{"monsoon flag", func(r *ScoreRequest) { r.IsMonsoon = 2 }},
		{"resolution rate", func(r *ScoreRequest) { r.ResolutionRate = ptr(1.5) }},
		{"severity", func(r *ScoreRequest) { r.SeverityLevel = ptr("Apocalyptic") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := puneHealthRequest()
			tt.mutate(req)
			err := req.Validate()
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		})
	}
}

func TestValidateNamesOmittedNumericFields(t *testing.T) {
	var req ScoreRequest
	require.NoError(t, json.Unmarshal([]byte(`{"domain":"Health","district":"Pune","issue_type":"X"}`), &req))

	err := req.Validate()
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	for _, field := range []string{"requests", "complaints", "response_time", "is_monsoon", "population_factor"} {
		assert.Contains(t, err.Error(), field+" is required")
	}

	full := `{"domain":"Health","district":"Pune","issue_type":"X","requests":0,"complaints":0,
		"response_time":0,"is_monsoon":0,"population_factor":0}`
	require.NoError(t, json.Unmarshal([]byte(full), &req))
	assert.NoError(t, req.Validate(), "explicit zeros are valid")
}
