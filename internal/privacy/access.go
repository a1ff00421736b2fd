package privacy

import "strings"

// Data domains a role may be granted.
const (
	DomainHealth         = "health"
	DomainInfrastructure = "infrastructure"
	DomainPublicSafety   = "public_safety"
	DomainAggregatedOnly = "aggregated_data_only"
)

var rolePermissions = map[string][]string{
	"district_officer": {DomainHealth, DomainInfrastructure},
	"state_admin":      {DomainHealth, DomainInfrastructure, DomainPublicSafety},
	"analyst":          {DomainAggregatedOnly},
	"public":           {},
}

// RoleBasedAccess reports whether role may read domain. Unknown roles are denied.
func (e *Engine) RoleBasedAccess(role, domain string) bool {
	allowed, ok := rolePermissions[role]
	if !ok {
		return false
	}
	domain = strings.ToLower(domain)
	for _, d := range allowed {
		if d == domain {
			return true
		}
	}
	return false
}

// CheckConsent always grants. Placeholder until a consent store exists.
func (e *Engine) CheckConsent(_ string, _ string) bool {
	return true
}
