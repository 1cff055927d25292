// audit/model.go
package audit

import "time"

// Entry outcomes. ERROR records evaluations that failed before a
// decision was reached.
const (
	OutcomeAllow = "ALLOW"
	OutcomeDeny  = "DENY"
	OutcomeError = "ERROR"
)

// Entry is one recorded decision (or failed evaluation).
type Entry struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	EmployeeID string    `json:"employee_id"`
	ResourceID string    `json:"resource_id"`
	Action     string    `json:"action"`
	Outcome    string    `json:"outcome"`
	Method     string    `json:"method,omitempty"`
	RuleID     string    `json:"rule_id,omitempty"`
	Confidence float64   `json:"confidence,omitempty"`
	Reason     string    `json:"reason"`
}

// Filter narrows queries and stats.
type Filter struct {
	From       time.Time
	To         time.Time
	EmployeeID string
	ResourceID string
	Outcome    string
}

// Matches reports whether an entry passes the filter.
func (f Filter) Matches(e Entry) bool {
	if !f.From.IsZero() && e.Timestamp.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && !e.Timestamp.Before(f.To) {
		return false
	}
	if f.EmployeeID != "" && e.EmployeeID != f.EmployeeID {
		return false
	}
	if f.ResourceID != "" && e.ResourceID != f.ResourceID {
		return false
	}
	if f.Outcome != "" && e.Outcome != f.Outcome {
		return false
	}
	return true
}

// Stats summarizes a filtered slice of the trail.
type Stats struct {
	Total      int            `json:"total"`
	ByOutcome  map[string]int `json:"by_outcome"`
	ByRule     map[string]int `json:"by_rule"`
	ByEmployee map[string]int `json:"by_employee"`
	Dropped    uint64         `json:"dropped"`
}
