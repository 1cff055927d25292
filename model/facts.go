// model/facts.go
package model

import "time"

// Clearance levels ordered from weakest to strongest.
var clearanceRank = map[string]int{
	"basic":      1,
	"standard":   2,
	"elevated":   3,
	"restricted": 4,
	"top_secret": 5,
	"executive":  6,
}

// Classification to the minimum clearance that may read it.
var requiredClearance = map[string]string{
	"public":       "basic",
	"internal":     "standard",
	"confidential": "elevated",
	"restricted":   "restricted",
	"top_secret":   "top_secret",
}

// ClearanceRank returns the ordinal of a clearance level, 0 if unknown.
func ClearanceRank(clearance string) int {
	return clearanceRank[clearance]
}

// RequiredClearance returns the minimum clearance for a classification.
// Unknown classifications require top_secret.
func RequiredClearance(classification string) string {
	if c, ok := requiredClearance[classification]; ok {
		return c
	}
	return "top_secret"
}

// FactSet is everything the rule evaluator may predicate on, derived from
// the graph for one subject/resource pair. Predicates address facts by the
// keys returned from Map.
type FactSet struct {
	SubjectID      string `json:"subject_id"`
	ResourceID     string `json:"resource_id"`
	Role           string `json:"role"`
	Department     string `json:"department"`
	Team           string `json:"team"`
	HierarchyLevel int    `json:"hierarchy_level"`
	Clearance      string `json:"clearance"`
	Classification string `json:"classification"`
	ResourceType   string `json:"resource_type"`
	ResourceScope  string `json:"resource_scope"`

	IsCEO                bool `json:"is_ceo"`
	IsExecutive          bool `json:"is_executive"`
	IsContractor         bool `json:"is_contractor"`
	ContractExpired      bool `json:"contract_expired"`
	HasRequiredClearance bool `json:"has_required_clearance"`

	SameDepartment     bool `json:"same_department"`
	SameTeam           bool `json:"same_team"`
	SharedProjects     bool `json:"shared_projects"`
	IsDirectManager    bool `json:"is_direct_manager"`
	IsSkipLevelManager bool `json:"is_skip_level_manager"`

	// HierarchyLevelDelta is subject level minus resource owner level;
	// zero when the resource has no resolvable owner.
	HierarchyLevelDelta int `json:"hierarchy_level_delta"`

	IsBusinessHours bool      `json:"is_business_hours"`
	IsWeekend       bool      `json:"is_weekend"`
	EvaluatedAt     time.Time `json:"evaluated_at"`
}

// Map exposes the facts under the keys policy predicates use.
func (f *FactSet) Map() map[string]interface{} {
	return map[string]interface{}{
		"role":                   f.Role,
		"department":             f.Department,
		"team":                   f.Team,
		"hierarchy_level":        f.HierarchyLevel,
		"clearance":              f.Clearance,
		"classification":         f.Classification,
		"resource_type":          f.ResourceType,
		"resource_scope":         f.ResourceScope,
		"is_ceo":                 f.IsCEO,
		"is_executive":           f.IsExecutive,
		"is_contractor":          f.IsContractor,
		"contract_expired":       f.ContractExpired,
		"has_required_clearance": f.HasRequiredClearance,
		"same_department":        f.SameDepartment,
		"same_team":              f.SameTeam,
		"shared_projects":        f.SharedProjects,
		"is_direct_manager":      f.IsDirectManager,
		"is_skip_level_manager":  f.IsSkipLevelManager,
		"hierarchy_level_delta":  f.HierarchyLevelDelta,
		"is_business_hours":      f.IsBusinessHours,
		"is_weekend":             f.IsWeekend,
	}
}

// KnownFactKeys returns the set of keys a predicate may reference.
func KnownFactKeys() map[string]bool {
	keys := make(map[string]bool)
	for k := range (&FactSet{}).Map() {
		keys[k] = true
	}
	return keys
}
