// model/decision.go
package model

import "time"

// Decision outcomes.
const (
	DecisionAllow = "ALLOW"
	DecisionDeny  = "DENY"
)

// Combination methods, in precedence order.
const (
	MethodEmergencyOverride      = "emergency_override"
	MethodConsensusAllow         = "consensus_allow"
	MethodOrganizationalOverride = "organizational_override"
	MethodSecurityPriority       = "security_priority"
	MethodDefaultDeny            = "default_deny"
)

// RuleDecision is the verdict of the first matching policy rule.
type RuleDecision struct {
	Decision   string   `json:"decision"`
	Confidence float64  `json:"confidence"`
	Reason     string   `json:"reason"`
	RuleID     string   `json:"rule_id"`
	Evaluated  []string `json:"evaluated_rules,omitempty"`

	// Relationship marks decisions produced by relationship-tagged
	// rules; only those may organizationally override a temporal deny.
	Relationship bool `json:"relationship,omitempty"`
}

// TemporalDecision is the verdict of the temporal context evaluation.
type TemporalDecision struct {
	Decision   string   `json:"decision"`
	Confidence float64  `json:"confidence"`
	Reason     string   `json:"reason"`
	Role       string   `json:"role,omitempty"`
	Override   bool     `json:"override,omitempty"`
	Factors    []string `json:"factors,omitempty"`
}

// AccessDecision is the combined, final answer for one request.
type AccessDecision struct {
	ID         string    `json:"id"`
	Decision   string    `json:"decision"`
	Confidence float64   `json:"confidence"`
	Method     string    `json:"method"`
	Reason     string    `json:"reason"`
	Timestamp  time.Time `json:"timestamp"`

	Rule     RuleDecision     `json:"rule"`
	Temporal TemporalDecision `json:"temporal"`
	Factors  []string         `json:"factors,omitempty"`
	Cached   bool             `json:"cached,omitempty"`
}
