// pdp/engine/evaluator.go
package engine

import (
	"go.uber.org/zap"

	logger "github.com/skyber-io/privacy-firewall/logging"
	"github.com/skyber-io/privacy-firewall/model"
	"github.com/skyber-io/privacy-firewall/pdp/policy"
)

// RuleEvaluator walks a snapshot in descending priority and stops at
// the first matching rule. The snapshot's catch-all guarantees a match,
// so evaluation never errors.
type RuleEvaluator struct{}

func NewRuleEvaluator() *RuleEvaluator {
	return &RuleEvaluator{}
}

func (re *RuleEvaluator) EvaluateRules(facts *model.FactSet, snap *policy.Snapshot) model.RuleDecision {
	factMap := facts.Map()
	var evaluated []string

	for _, rule := range snap.Rules() {
		evaluated = append(evaluated, rule.ID)
		if !rule.Matches(factMap) {
			continue
		}

		decision := model.DecisionDeny
		if rule.Effect == policy.EffectAllow {
			decision = model.DecisionAllow
		}

		logger.Debug("Rule matched",
			zap.String("ruleID", rule.ID),
			zap.String("effect", rule.Effect),
			zap.Int("priority", rule.Priority),
			zap.String("subjectID", facts.SubjectID))

		return model.RuleDecision{
			Decision:     decision,
			Confidence:   rule.Confidence,
			Reason:       rule.Description,
			RuleID:       rule.ID,
			Evaluated:    evaluated,
			Relationship: rule.HasTag(policy.TagRelationship),
		}
	}

	// Unreachable while snapshots carry the catch-all; kept as a guard
	// against a hand-built snapshot.
	return model.RuleDecision{
		Decision:   model.DecisionDeny,
		Confidence: 1.0,
		Reason:     "no rule matched",
		RuleID:     policy.DefaultDenyRuleID,
		Evaluated:  evaluated,
	}
}
