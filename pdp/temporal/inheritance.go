// pdp/temporal/inheritance.go
package temporal

import "time"

// Temporal roles a subject may act under.
const (
	RoleUser                 = "user"
	RoleOncallLow            = "oncall_low"
	RoleOncallMedium         = "oncall_medium"
	RoleOncallHigh           = "oncall_high"
	RoleOncallCritical       = "oncall_critical"
	RoleActingDepartmentHead = "acting_department_head"
	RoleIncidentResponder    = "incident_responder"
	RoleSecurityIncidentLead = "security_incident_lead"
)

// InheritanceRule describes which base roles may assume a temporal role
// and under what limits.
type InheritanceRule struct {
	EligibleBaseRoles []string
	InheritsFrom      string
	AddsPermissions   []string
	MaxDuration       time.Duration
	DefaultScopes     []string
}

// inheritanceRules is the static eligibility table. It is not
// configurable at runtime; changing it is a code change.
var inheritanceRules = map[string]InheritanceRule{
	RoleOncallLow: {
		EligibleBaseRoles: []string{"nurse", "resident", "technician", "physician_assistant"},
		AddsPermissions:   []string{"after_hours_read"},
		MaxDuration:       12 * time.Hour,
		DefaultScopes:     []string{"patient_records"},
	},
	RoleOncallMedium: {
		EligibleBaseRoles: []string{"resident", "physician_assistant", "attending_physician"},
		InheritsFrom:      RoleOncallLow,
		AddsPermissions:   []string{"after_hours_write"},
		MaxDuration:       12 * time.Hour,
		DefaultScopes:     []string{"patient_records", "lab_systems"},
	},
	RoleOncallHigh: {
		EligibleBaseRoles: []string{"attending_physician", "department_head"},
		InheritsFrom:      RoleOncallMedium,
		AddsPermissions:   []string{"cross_department_read"},
		MaxDuration:       10 * time.Hour,
		DefaultScopes:     []string{"patient_records", "lab_systems", "pharmacy"},
	},
	RoleOncallCritical: {
		EligibleBaseRoles: []string{"attending_physician", "department_head", "chief_medical_officer"},
		InheritsFrom:      RoleOncallHigh,
		AddsPermissions:   []string{"emergency_override"},
		MaxDuration:       8 * time.Hour,
		DefaultScopes:     []string{"patient_records", "lab_systems", "pharmacy", "emergency_systems"},
	},
	RoleActingDepartmentHead: {
		EligibleBaseRoles: []string{"attending_physician"},
		AddsPermissions:   []string{"department_admin"},
		MaxDuration:       24 * time.Hour,
		DefaultScopes:     []string{"department_admin", "patient_records"},
	},
	RoleIncidentResponder: {
		EligibleBaseRoles: []string{"technician", "security_analyst"},
		AddsPermissions:   []string{"incident_access"},
		MaxDuration:       12 * time.Hour,
		DefaultScopes:     []string{"incident_tickets", "infrastructure"},
	},
	RoleSecurityIncidentLead: {
		EligibleBaseRoles: []string{"security_analyst", "security_manager"},
		InheritsFrom:      RoleIncidentResponder,
		AddsPermissions:   []string{"forensic_access"},
		MaxDuration:       8 * time.Hour,
		DefaultScopes:     []string{"incident_tickets", "infrastructure", "security_tools"},
	},
}

// InheritanceRuleFor returns the table entry for a temporal role.
func InheritanceRuleFor(role string) (InheritanceRule, bool) {
	rule, ok := inheritanceRules[role]
	return rule, ok
}

// EligibleForRole reports whether a base role may assume the temporal
// role directly. Eligibility does not travel up the inheritance chain.
func EligibleForRole(baseRole, temporalRole string) bool {
	rule, ok := inheritanceRules[temporalRole]
	if !ok {
		return false
	}
	for _, eligible := range rule.EligibleBaseRoles {
		if eligible == baseRole {
			return true
		}
	}
	return false
}

// InheritanceChain walks the inherits_from links from a role down to
// its root. A broken link returns false.
func InheritanceChain(role string) ([]string, bool) {
	var chain []string
	seen := make(map[string]bool)
	for role != "" {
		if seen[role] {
			return nil, false
		}
		rule, ok := inheritanceRules[role]
		if !ok {
			return nil, false
		}
		seen[role] = true
		chain = append(chain, role)
		role = rule.InheritsFrom
	}
	return chain, true
}
