// model/request.go
package model

import "time"

// Situations the engine understands.
const (
	SituationNormal      = "NORMAL"
	SituationEmergency   = "EMERGENCY"
	SituationMaintenance = "MAINTENANCE"
	SituationIncident    = "INCIDENT"
	SituationAudit       = "AUDIT"
)

// AccessRequest is one decision question: may subject perform action on
// resource, given the temporal context it arrives with.
type AccessRequest struct {
	SubjectID  string `json:"subject_id" binding:"required"`
	ResourceID string `json:"resource_id" binding:"required"`
	Action     string `json:"action" binding:"required"`

	Urgency   string `json:"urgency,omitempty" binding:"omitempty,oneof=low normal high critical"`
	Situation string `json:"situation,omitempty" binding:"omitempty,oneof=NORMAL EMERGENCY MAINTENANCE INCIDENT AUDIT"`

	// EmergencyOverride asks the engine to lift a policy denial. It is
	// only accepted together with a non-empty authorization id.
	EmergencyOverride        bool   `json:"emergency_override,omitempty"`
	EmergencyAuthorizationID string `json:"emergency_authorization_id,omitempty"`

	// Window restricts when the request is valid; a timestamp outside it
	// is denied.
	Window *AccessWindow `json:"access_window,omitempty"`

	// Grant is an already-issued temporal role the subject is acting
	// under, if any.
	Grant *TemporalGrant `json:"grant,omitempty"`

	Timestamp time.Time `json:"timestamp,omitempty"`
}

// AccessWindow is a caller-supplied validity interval. A request is in
// window iff start <= timestamp < end.
type AccessWindow struct {
	Type  string    `json:"type,omitempty"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// TemporalGrant is a time-boxed role issued to a subject.
type TemporalGrant struct {
	Role       string    `json:"role" binding:"required"`
	ValidFrom  time.Time `json:"valid_from"`
	ValidUntil time.Time `json:"valid_until"`
	Scopes     []string  `json:"scopes,omitempty"`
}

// Normalize fills the optional fields callers usually omit.
func (r *AccessRequest) Normalize(now time.Time) {
	if r.Urgency == "" {
		r.Urgency = "normal"
	}
	if r.Situation == "" {
		r.Situation = SituationNormal
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = now
	}
}
