// pdp/engine/evaluator_test.go
package engine_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	logger "github.com/skyber-io/privacy-firewall/logging"
	"github.com/skyber-io/privacy-firewall/model"
	"github.com/skyber-io/privacy-firewall/pdp/engine"
	"github.com/skyber-io/privacy-firewall/pdp/policy"
)

func TestMain(m *testing.M) {
	logger.InitLogger("../../logging")
	defer logger.Sync()
	os.Exit(m.Run())
}

func snapshotWith(t *testing.T, rules ...policy.Rule) *policy.Snapshot {
	t.Helper()
	store := policy.NewStore()
	require.NoError(t, store.Load(rules))
	return store.Current()
}

func ceoFacts() *model.FactSet {
	return &model.FactSet{
		SubjectID:            "emp-1",
		ResourceID:           "res-1",
		Role:                 "chief_executive_officer",
		HierarchyLevel:       5,
		IsCEO:                true,
		IsExecutive:          true,
		HasRequiredClearance: true,
		Classification:       "top_secret",
	}
}

func TestFirstMatchWins(t *testing.T) {
	re := engine.NewRuleEvaluator()

	snap := snapshotWith(t,
		policy.Rule{
			ID: "deny-high", Description: "high priority deny", Priority: 90,
			Effect: policy.EffectDeny, Confidence: 0.9,
			When: []policy.Predicate{{Fact: "is_ceo", Op: "eq", Value: true}},
		},
		policy.Rule{
			ID: "allow-low", Description: "lower priority allow", Priority: 10,
			Effect: policy.EffectAllow, Confidence: 1.0,
			When: []policy.Predicate{{Fact: "is_ceo", Op: "eq", Value: true}},
		},
	)

	decision := re.EvaluateRules(ceoFacts(), snap)
	assert.Equal(t, model.DecisionDeny, decision.Decision)
	assert.Equal(t, "deny-high", decision.RuleID)
	assert.Equal(t, 0.9, decision.Confidence)
	// Evaluation stopped at the first match.
	assert.Equal(t, []string{"deny-high"}, decision.Evaluated)
}

func TestConjunctivePredicates(t *testing.T) {
	re := engine.NewRuleEvaluator()

	snap := snapshotWith(t,
		policy.Rule{
			ID: "two-conditions", Description: "needs both", Priority: 50,
			Effect: policy.EffectAllow, Confidence: 0.8,
			When: []policy.Predicate{
				{Fact: "is_ceo", Op: "eq", Value: true},
				{Fact: "is_contractor", Op: "eq", Value: true},
			},
		},
	)

	facts := ceoFacts() // is_contractor is false
	decision := re.EvaluateRules(facts, snap)
	assert.Equal(t, model.DecisionDeny, decision.Decision)
	assert.Equal(t, policy.DefaultDenyRuleID, decision.RuleID)
}

func TestDefaultDenyCatchAll(t *testing.T) {
	re := engine.NewRuleEvaluator()

	snap := snapshotWith(t,
		policy.Rule{
			ID: "never-matches", Description: "contractor only", Priority: 50,
			Effect: policy.EffectAllow, Confidence: 0.8,
			When: []policy.Predicate{{Fact: "is_contractor", Op: "eq", Value: true}},
		},
	)

	decision := re.EvaluateRules(ceoFacts(), snap)
	require.Equal(t, model.DecisionDeny, decision.Decision)
	assert.Equal(t, policy.DefaultDenyRuleID, decision.RuleID)
	assert.Equal(t, 1.0, decision.Confidence)
	assert.Equal(t, []string{"never-matches", policy.DefaultDenyRuleID}, decision.Evaluated)
}

func TestEvaluationIsDeterministic(t *testing.T) {
	re := engine.NewRuleEvaluator()

	// Two matching rules share a priority; repeated evaluation of the
	// same snapshot and facts must keep picking the same one.
	snap := snapshotWith(t,
		policy.Rule{
			ID: "exec-allow", Description: "executive allow", Priority: 50,
			Effect: policy.EffectAllow, Confidence: 0.8,
			When: []policy.Predicate{{Fact: "is_executive", Op: "eq", Value: true}},
		},
		policy.Rule{
			ID: "ceo-allow", Description: "ceo allow", Priority: 50,
			Effect: policy.EffectAllow, Confidence: 0.9,
			When: []policy.Predicate{{Fact: "is_ceo", Op: "eq", Value: true}},
		},
	)

	first := re.EvaluateRules(ceoFacts(), snap)
	for i := 0; i < 20; i++ {
		again := re.EvaluateRules(ceoFacts(), snap)
		assert.Equal(t, first.Decision, again.Decision)
		assert.Equal(t, first.RuleID, again.RuleID)
		assert.Equal(t, first.Evaluated, again.Evaluated)
	}
}

func TestRelationshipTagCarriesThrough(t *testing.T) {
	re := engine.NewRuleEvaluator()

	snap := snapshotWith(t,
		policy.Rule{
			ID: "manager-access", Description: "direct manager access", Priority: 70,
			Effect: policy.EffectAllow, Confidence: 0.85,
			Tags: []string{policy.TagRelationship},
			When: []policy.Predicate{{Fact: "is_direct_manager", Op: "eq", Value: true}},
		},
	)

	facts := ceoFacts()
	facts.IsDirectManager = true
	decision := re.EvaluateRules(facts, snap)
	assert.Equal(t, model.DecisionAllow, decision.Decision)
	assert.True(t, decision.Relationship)
}
