// pdp/engine/combiner_test.go
package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/skyber-io/privacy-firewall/model"
	"github.com/skyber-io/privacy-firewall/pdp/engine"
)

func ruleVerdict(decision string, confidence float64, relationship bool) model.RuleDecision {
	return model.RuleDecision{
		Decision:     decision,
		Confidence:   confidence,
		Reason:       "rule verdict",
		RuleID:       "r-1",
		Relationship: relationship,
	}
}

func temporalVerdict(decision string, confidence float64, override bool) model.TemporalDecision {
	return model.TemporalDecision{
		Decision:   decision,
		Confidence: confidence,
		Reason:     "temporal verdict",
		Override:   override,
	}
}

func TestCombineEmergencyOverride(t *testing.T) {
	cb := engine.NewCombiner()
	now := time.Now()

	d := cb.Combine(
		ruleVerdict(model.DecisionDeny, 0.95, false),
		temporalVerdict(model.DecisionAllow, 0.9, true),
		true,
		now,
	)
	assert.Equal(t, model.DecisionAllow, d.Decision)
	assert.Equal(t, model.MethodEmergencyOverride, d.Method)
	assert.Equal(t, 0.9, d.Confidence)

	// A caller-requested override lifts the rule denial even when the
	// temporal verdict carries no override of its own.
	d = cb.Combine(
		ruleVerdict(model.DecisionDeny, 1.0, false),
		temporalVerdict(model.DecisionAllow, 0.85, false),
		true,
		now,
	)
	assert.Equal(t, model.DecisionAllow, d.Decision)
	assert.Equal(t, model.MethodEmergencyOverride, d.Method)
	assert.Equal(t, 0.85, d.Confidence)

	// Confidence never falls below the 0.7 floor.
	d = cb.Combine(
		ruleVerdict(model.DecisionDeny, 0.95, false),
		temporalVerdict(model.DecisionDeny, 0.5, true),
		true,
		now,
	)
	assert.Equal(t, model.DecisionAllow, d.Decision)
	assert.Equal(t, 0.7, d.Confidence)

	// No override signal: the same verdicts deny.
	d = cb.Combine(
		ruleVerdict(model.DecisionDeny, 0.95, false),
		temporalVerdict(model.DecisionAllow, 0.9, false),
		false,
		now,
	)
	assert.Equal(t, model.DecisionDeny, d.Decision)
	assert.Equal(t, model.MethodSecurityPriority, d.Method)
}

func TestCombineConsensusAllow(t *testing.T) {
	cb := engine.NewCombiner()

	d := cb.Combine(
		ruleVerdict(model.DecisionAllow, 0.8, false),
		temporalVerdict(model.DecisionAllow, 0.7, false),
		false,
		time.Now(),
	)
	assert.Equal(t, model.DecisionAllow, d.Decision)
	assert.Equal(t, model.MethodConsensusAllow, d.Method)
	assert.InDelta(t, 0.85, d.Confidence, 1e-9) // (0.8+0.7)/2 + 0.1

	// Bonus is capped at 1.0.
	d = cb.Combine(
		ruleVerdict(model.DecisionAllow, 1.0, false),
		temporalVerdict(model.DecisionAllow, 0.95, false),
		false,
		time.Now(),
	)
	assert.Equal(t, 1.0, d.Confidence)
}

func TestCombineOrganizationalOverride(t *testing.T) {
	cb := engine.NewCombiner()

	d := cb.Combine(
		ruleVerdict(model.DecisionAllow, 0.85, true),
		temporalVerdict(model.DecisionDeny, 0.9, false),
		false,
		time.Now(),
	)
	assert.Equal(t, model.DecisionAllow, d.Decision)
	assert.Equal(t, model.MethodOrganizationalOverride, d.Method)
	assert.Equal(t, 0.85, d.Confidence)

	// Without the relationship tag the same disagreement denies.
	d = cb.Combine(
		ruleVerdict(model.DecisionAllow, 0.85, false),
		temporalVerdict(model.DecisionDeny, 0.9, false),
		false,
		time.Now(),
	)
	assert.Equal(t, model.DecisionDeny, d.Decision)
	assert.Equal(t, model.MethodSecurityPriority, d.Method)
	assert.Equal(t, 0.9, d.Confidence)
}

func TestCombineSecurityPriority(t *testing.T) {
	cb := engine.NewCombiner()

	d := cb.Combine(
		ruleVerdict(model.DecisionDeny, 0.95, false),
		temporalVerdict(model.DecisionAllow, 0.75, false),
		false,
		time.Now(),
	)
	assert.Equal(t, model.DecisionDeny, d.Decision)
	assert.Equal(t, model.MethodSecurityPriority, d.Method)
	assert.Equal(t, 0.95, d.Confidence)

	// Two denials is still a security denial, at the stronger confidence.
	d = cb.Combine(
		ruleVerdict(model.DecisionDeny, 1.0, false),
		temporalVerdict(model.DecisionDeny, 0.9, false),
		false,
		time.Now(),
	)
	assert.Equal(t, model.DecisionDeny, d.Decision)
	assert.Equal(t, model.MethodSecurityPriority, d.Method)
	assert.Equal(t, 1.0, d.Confidence)
}

func TestCombineDefaultDeny(t *testing.T) {
	cb := engine.NewCombiner()

	// Neither evaluator produced a verdict.
	d := cb.Combine(
		model.RuleDecision{},
		model.TemporalDecision{},
		false,
		time.Now(),
	)
	assert.Equal(t, model.DecisionDeny, d.Decision)
	assert.Equal(t, model.MethodDefaultDeny, d.Method)
	assert.NotEmpty(t, d.ID)
}
