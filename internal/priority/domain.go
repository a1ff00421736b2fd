package priority

import (
	dErrors "govintel/pkg/domain-errors"
)

// Domain is the service area an issue belongs to. Each domain carries its own
// urgency and resource rules.
//
// Usage: construct via ParseDomain at trust boundaries; direct casting
// bypasses the allowlist.
type Domain string

const (
	DomainHealth         Domain = "Health"
	DomainInfrastructure Domain = "Infrastructure"
	DomainPublicSafety   Domain = "PublicSafety"
)

// ParseDomain constructs a Domain from external input.
//
// Errors: CodeValidation when the value is empty or not a supported domain.
func ParseDomain(s string) (Domain, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeValidation, "domain is required")
	}
	d := Domain(s)
	if _, ok := domainRules[d]; !ok {
		return "", dErrors.New(dErrors.CodeValidation, "domain must be one of Health, Infrastructure, PublicSafety")
	}
	return d, nil
}

func (d Domain) String() string {
	return string(d)
}

// AccessDomain is the privacy access-table name guarding this domain.
func (d Domain) AccessDomain() string {
	switch d {
	case DomainHealth:
		return "health"
	case DomainInfrastructure:
		return "infrastructure"
	case DomainPublicSafety:
		return "public_safety"
	default:
		return ""
	}
}

// UrgencyRule scores how soon an issue becomes critical.
type UrgencyRule interface {
	Urgency(issue Issue) int
}

// ResourceRule scores how fixable an issue is with what is on hand.
type ResourceRule interface {
	Resource(issue Issue) int
}

// Rules is the per-domain scoring capability set.
type Rules interface {
	UrgencyRule
	ResourceRule
}

var domainRules = map[Domain]Rules{
	DomainHealth:         healthRules{},
	DomainInfrastructure: infrastructureRules{},
	DomainPublicSafety:   publicSafetyRules{},
}

var (
	_ Rules = healthRules{}
	_ Rules = infrastructureRules{}
	_ Rules = publicSafetyRules{}
)

// RulesFor returns the rules of a parsed domain.
func RulesFor(d Domain) (Rules, bool) {
	r, ok := domainRules[d]
	return r, ok
}

const maxScore = 10

type healthRules struct{}

// Urgency: base 7, +2 above 80 requests, +1 when response exceeds 30 minutes.
func (healthRules) Urgency(issue Issue) int {
	u := 7
	if issue.Requests > 80 {
		u += 2
	}
	if issue.ResponseTimeMinutes > 30 {
		u++
	}
	return min(maxScore, u)
}

func (healthRules) Resource(issue Issue) int {
	return stepRatio(issue.ratio(issue.ResourceAvailable))
}

type infrastructureRules struct{}

// Urgency: base 5, +3 when more than half of requests are pending, +2 in monsoon.
func (infrastructureRules) Urgency(issue Issue) int {
	u := 5
	if issue.ratio(issue.PendingRequests) > 0.5 {
		u += 3
	}
	if issue.IsMonsoon {
		u += 2
	}
	return min(maxScore, u)
}

func (infrastructureRules) Resource(issue Issue) int {
	r := issue.ratio(issue.ResolvedRequests)
	switch {
	case r > 0.8:
		return 8
	case r > 0.5:
		return 5
	default:
		return 2
	}
}

type publicSafetyRules struct{}

// Urgency: 8, overridden to 9 for High and 10 for Critical severity.
func (publicSafetyRules) Urgency(issue Issue) int {
	switch issue.Severity {
	case SeverityCritical:
		return 10
	case SeverityHigh:
		return 9
	default:
		return 8
	}
}

func (publicSafetyRules) Resource(issue Issue) int {
	return stepRatio(issue.ratio(issue.IncidentsResolved))
}

func stepRatio(r float64) int {
	switch {
	case r > 0.9:
		return 9
	case r > 0.7:
		return 6
	default:
		return 3
	}
}
