// pdp/policy/store.go
package policy

import (
	"sort"
	"sync/atomic"

	"go.uber.org/zap"

	fw_errors "github.com/skyber-io/privacy-firewall/errors"
	logger "github.com/skyber-io/privacy-firewall/logging"
	"github.com/skyber-io/privacy-firewall/model"
)

// DefaultDenyRuleID identifies the synthetic catch-all appended to
// every snapshot.
const DefaultDenyRuleID = "default-deny"

// Snapshot is an immutable, priority-sorted rule set. The final rule is
// always the default-deny catch-all, so evaluation always matches.
type Snapshot struct {
	rules   []Rule
	version uint64
}

// Rules returns a copy of the snapshot's rules in evaluation order.
func (s *Snapshot) Rules() []Rule {
	out := make([]Rule, len(s.rules))
	copy(out, s.rules)
	return out
}

// Len reports the rule count, catch-all included.
func (s *Snapshot) Len() int {
	return len(s.rules)
}

// Version is a monotonically increasing load counter.
func (s *Snapshot) Version() uint64 {
	return s.version
}

// Store holds the live snapshot and swaps it atomically on reload.
// Readers always see a complete rule set.
type Store struct {
	current atomic.Pointer[Snapshot]
	loads   atomic.Uint64
}

func NewStore() *Store {
	s := &Store{}
	s.current.Store(buildSnapshot(nil, 0))
	return s
}

// Current returns the live snapshot.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Load validates a candidate rule set and, on success, swaps it in. A
// failed load leaves the previous snapshot untouched.
func (s *Store) Load(rules []Rule) error {
	if err := validateRules(rules); err != nil {
		logger.Error("Policy load rejected", zap.Error(err), zap.Int("rules", len(rules)))
		return err
	}

	version := s.loads.Add(1)
	snap := buildSnapshot(rules, version)
	s.current.Store(snap)

	logger.Info("Policy snapshot swapped",
		zap.Uint64("version", version),
		zap.Int("rules", snap.Len()))
	return nil
}

func buildSnapshot(rules []Rule, version uint64) *Snapshot {
	sorted := make([]Rule, len(rules))
	copy(sorted, rules)

	// Stable keeps load order on priority ties.
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority > sorted[j].Priority
	})

	sorted = append(sorted, Rule{
		ID:          DefaultDenyRuleID,
		Description: "no rule matched",
		Priority:    -1,
		Effect:      EffectDeny,
		Confidence:  1.0,
	})

	return &Snapshot{rules: sorted, version: version}
}

func validateRules(rules []Rule) error {
	var issues []fw_errors.RuleIssue
	seen := make(map[string]bool, len(rules))
	knownFacts := model.KnownFactKeys()

	for _, rule := range rules {
		if rule.ID == "" {
			issues = append(issues, fw_errors.RuleIssue{Message: "missing rule id"})
			continue
		}
		if seen[rule.ID] {
			issues = append(issues, fw_errors.RuleIssue{RuleID: rule.ID, Message: "duplicate rule id"})
		}
		seen[rule.ID] = true

		if rule.ID == DefaultDenyRuleID {
			issues = append(issues, fw_errors.RuleIssue{RuleID: rule.ID, Message: "rule id is reserved"})
		}
		if rule.Priority < 0 {
			issues = append(issues, fw_errors.RuleIssue{RuleID: rule.ID, Message: "priority cannot be negative"})
		}
		if rule.Effect != EffectAllow && rule.Effect != EffectDeny {
			issues = append(issues, fw_errors.RuleIssue{RuleID: rule.ID, Message: "effect must be 'allow' or 'deny'"})
		}
		if rule.Confidence < 0 || rule.Confidence > 1 {
			issues = append(issues, fw_errors.RuleIssue{RuleID: rule.ID, Message: "confidence must be within [0, 1]"})
		}
		if rule.Description == "" {
			issues = append(issues, fw_errors.RuleIssue{RuleID: rule.ID, Message: "missing description"})
		}
		if len(rule.When) == 0 {
			issues = append(issues, fw_errors.RuleIssue{RuleID: rule.ID, Message: "rule has no predicates"})
		}
		for _, p := range rule.When {
			if !knownFacts[p.Fact] {
				issues = append(issues, fw_errors.RuleIssue{RuleID: rule.ID, Message: "unknown fact: " + p.Fact})
			}
			if !validOps[p.Op] {
				issues = append(issues, fw_errors.RuleIssue{RuleID: rule.ID, Message: "unknown operator: " + p.Op})
			}
		}
	}

	if len(issues) > 0 {
		return &fw_errors.PolicyLoadError{Issues: issues}
	}
	return nil
}
