// pdp/temporal/evaluator.go
package temporal

import (
	"time"

	"go.uber.org/zap"

	logger "github.com/skyber-io/privacy-firewall/logging"
	"github.com/skyber-io/privacy-firewall/model"
	helper_util "github.com/skyber-io/privacy-firewall/util/helper"
)

// longShiftWarning is the duration past which a grant is legal but
// worth flagging.
const longShiftWarning = 8 * time.Hour

// Context carries everything the temporal evaluation needs for one
// request. BaseRole comes from the subject's graph record; windows are
// the intervals the deployment has configured plus any attached to the
// request.
type Context struct {
	Timestamp                time.Time
	Situation                string
	Urgency                  string
	EmergencyOverride        bool
	EmergencyAuthorizationID string
	BaseRole                 string
	RequestedScope           string
	Grant                    *model.TemporalGrant
	Windows                  []Window
}

// Evaluator runs the temporal validation sequence. Each step can veto;
// the first veto wins and produces a temporal DENY, not an error.
type Evaluator struct{}

func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

func (e *Evaluator) Evaluate(tc Context) model.TemporalDecision {
	var factors []string

	// Step 1: window validity. A request carrying explicit windows must
	// hit at least one of them.
	active := ActiveWindows(tc.Windows, tc.Timestamp)
	if len(tc.Windows) > 0 && len(active) == 0 {
		return deny("outside_access_window", 0.9, factors)
	}
	if len(active) > 0 {
		factors = append(factors, "window_valid")
	}

	// Step 2: emergency gating. An explicit override request with no
	// authorization id is rejected at validation; here only implicit
	// emergencies (situation or window) can still lack one.
	emergency := tc.EmergencyOverride || tc.Situation == model.SituationEmergency
	for _, w := range active {
		if w.Type == WindowEmergency {
			emergency = true
		}
	}
	authorized := tc.EmergencyAuthorizationID != ""
	if emergency && !authorized {
		return deny("missing_emergency_authorization", 0.95, factors)
	}
	if emergency {
		factors = append(factors, "emergency_authorized")
	}

	// Step 3: urgency to temporal role. Critical urgency with an
	// authorization id implies an override even when none was requested.
	role, override := roleForUrgency(tc.Urgency, authorized)
	if tc.EmergencyOverride && authorized {
		override = true
	}
	if tc.Grant != nil && tc.Grant.Role != "" {
		role = tc.Grant.Role
	}

	// Step 4: inheritance chain validation for anything beyond the
	// plain user role.
	if role != RoleUser {
		if d, vetoed := e.validateInheritance(role, tc); vetoed {
			return d
		}
		factors = append(factors, "inheritance_valid")
	}

	// Step 5: scope check.
	if tc.RequestedScope != "" && role != RoleUser {
		if !scopeCovered(role, tc.Grant, tc.RequestedScope) {
			d := deny("out_of_scope", 0.9, factors)
			d.Role = role
			return d
		}
		factors = append(factors, "scope_valid")
	}

	confidence := 0.75
	reason := "temporal context valid"
	switch {
	case override:
		confidence = 0.9
		reason = "emergency override authorized"
	case role != RoleUser:
		confidence = 0.85
		reason = "temporal role " + role + " valid"
	}

	return model.TemporalDecision{
		Decision:   model.DecisionAllow,
		Confidence: confidence,
		Reason:     reason,
		Role:       role,
		Override:   override,
		Factors:    factors,
	}
}

func (e *Evaluator) validateInheritance(role string, tc Context) (model.TemporalDecision, bool) {
	if _, ok := InheritanceChain(role); !ok {
		d := deny("unknown_temporal_role", 0.9, nil)
		d.Role = role
		return d, true
	}

	if !EligibleForRole(tc.BaseRole, role) {
		logger.Warn("Base role not eligible for temporal role",
			zap.String("baseRole", tc.BaseRole),
			zap.String("temporalRole", role))
		d := deny("role_not_eligible", 0.9, nil)
		d.Role = role
		return d, true
	}

	rule, _ := InheritanceRuleFor(role)
	if tc.Grant != nil {
		if !tc.Grant.ValidUntil.IsZero() && !tc.Timestamp.Before(tc.Grant.ValidUntil) {
			d := deny("temporal_role_expired", 0.9, nil)
			d.Role = role
			return d, true
		}
		if !tc.Grant.ValidFrom.IsZero() && !tc.Grant.ValidUntil.IsZero() {
			duration := tc.Grant.ValidUntil.Sub(tc.Grant.ValidFrom)
			if duration > rule.MaxDuration {
				d := deny("duration_exceeds_maximum", 0.9, nil)
				d.Role = role
				return d, true
			}
			if duration > longShiftWarning {
				logger.Warn("Temporal grant exceeds eight hours",
					zap.String("role", role),
					zap.Duration("duration", duration))
			}
		}
	}

	return model.TemporalDecision{}, false
}

func roleForUrgency(urgency string, authorized bool) (string, bool) {
	switch urgency {
	case "high":
		return RoleOncallHigh, false
	case "critical":
		return RoleOncallCritical, authorized
	default:
		return RoleUser, false
	}
}

func scopeCovered(role string, grant *model.TemporalGrant, requested string) bool {
	scopes := []string{}
	if grant != nil && len(grant.Scopes) > 0 {
		scopes = grant.Scopes
	} else if rule, ok := InheritanceRuleFor(role); ok {
		scopes = rule.DefaultScopes
	}
	for _, s := range scopes {
		if s == requested {
			return true
		}
	}
	return false
}

func deny(reason string, confidence float64, factors []string) model.TemporalDecision {
	return model.TemporalDecision{
		Decision:   model.DecisionDeny,
		Confidence: confidence,
		Reason:     reason,
		Factors:    factors,
	}
}

// BusinessHoursWindow builds the configured weekday window around ts,
// used when a deployment configures none.
func BusinessHoursWindow(ts time.Time) (Window, bool) {
	if !helper_util.IsBusinessHours(ts) {
		return Window{}, false
	}
	startHour, endHour := helper_util.BusinessHoursBounds()
	start := time.Date(ts.Year(), ts.Month(), ts.Day(), startHour, 0, 0, 0, ts.Location())
	end := time.Date(ts.Year(), ts.Month(), ts.Day(), endHour, 0, 0, 0, ts.Location())
	return Window{Type: WindowBusinessHours, Start: start, End: end}, true
}
