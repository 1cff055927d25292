// pdp/engine/combiner.go
package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/skyber-io/privacy-firewall/model"
)

// Combiner merges the rule and temporal verdicts by a fixed precedence
// table. The first applicable case wins and tags the decision with its
// method.
type Combiner struct{}

func NewCombiner() *Combiner {
	return &Combiner{}
}

// Combine resolves the two verdicts. emergencyRequested is the
// validated override signal: either the caller asked for one or the
// temporal evaluation derived one from critical urgency.
func (cb *Combiner) Combine(rule model.RuleDecision, temporal model.TemporalDecision, emergencyRequested bool, at time.Time) model.AccessDecision {
	decision := model.AccessDecision{
		ID:        uuid.New().String(),
		Timestamp: at,
		Rule:      rule,
		Temporal:  temporal,
		Factors:   append(append([]string{}, temporal.Factors...), "rule:"+rule.RuleID),
	}

	ruleAllow := rule.Decision == model.DecisionAllow
	temporalAllow := temporal.Decision == model.DecisionAllow

	switch {
	case emergencyRequested && !ruleAllow:
		decision.Decision = model.DecisionAllow
		decision.Method = model.MethodEmergencyOverride
		decision.Confidence = max64(0.7, temporal.Confidence)
		decision.Reason = "emergency override: " + temporal.Reason

	case ruleAllow && temporalAllow:
		decision.Decision = model.DecisionAllow
		decision.Method = model.MethodConsensusAllow
		decision.Confidence = min64(1.0, (rule.Confidence+temporal.Confidence)/2+0.1)
		decision.Reason = rule.Reason

	case ruleAllow && rule.Relationship && !temporalAllow:
		decision.Decision = model.DecisionAllow
		decision.Method = model.MethodOrganizationalOverride
		decision.Confidence = rule.Confidence
		decision.Reason = "organizational relationship overrides temporal restriction"

	case rule.Decision == model.DecisionDeny || temporal.Decision == model.DecisionDeny:
		decision.Decision = model.DecisionDeny
		decision.Method = model.MethodSecurityPriority
		decision.Confidence = max64(rule.Confidence, temporal.Confidence)
		decision.Reason = denialReason(ruleAllow, rule, temporal)

	default:
		// Both verdicts missing. The evaluators always produce one, so
		// this only guards an absent verdict from falling through to
		// ALLOW.
		decision.Decision = model.DecisionDeny
		decision.Method = model.MethodDefaultDeny
		decision.Confidence = max64(rule.Confidence, temporal.Confidence)
		decision.Reason = rule.Reason
	}

	return decision
}

func denialReason(ruleAllow bool, rule model.RuleDecision, temporal model.TemporalDecision) string {
	if ruleAllow {
		return "temporal restriction: " + temporal.Reason
	}
	return "policy restriction: " + rule.Reason
}

func max64(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func min64(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
