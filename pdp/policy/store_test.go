// pdp/policy/store_test.go
package policy_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fw_errors "github.com/skyber-io/privacy-firewall/errors"
	logger "github.com/skyber-io/privacy-firewall/logging"
	"github.com/skyber-io/privacy-firewall/pdp/policy"
)

func TestMain(m *testing.M) {
	logger.InitLogger("../../logging")
	defer logger.Sync()
	os.Exit(m.Run())
}

func validRule(id string, priority int) policy.Rule {
	return policy.Rule{
		ID:          id,
		Description: "test rule " + id,
		Priority:    priority,
		Effect:      policy.EffectAllow,
		Confidence:  0.8,
		When: []policy.Predicate{
			{Fact: "is_ceo", Op: "eq", Value: true},
		},
	}
}

func TestStoreStartsWithDefaultDeny(t *testing.T) {
	store := policy.NewStore()
	snap := store.Current()

	require.Equal(t, 1, snap.Len())
	assert.Equal(t, policy.DefaultDenyRuleID, snap.Rules()[0].ID)
	assert.Equal(t, uint64(0), snap.Version())
}

func TestStoreLoadSortsByPriorityDescending(t *testing.T) {
	store := policy.NewStore()

	err := store.Load([]policy.Rule{
		validRule("low", 10),
		validRule("high", 90),
		validRule("mid", 50),
	})
	require.NoError(t, err)

	rules := store.Current().Rules()
	require.Len(t, rules, 4)
	assert.Equal(t, "high", rules[0].ID)
	assert.Equal(t, "mid", rules[1].ID)
	assert.Equal(t, "low", rules[2].ID)
	assert.Equal(t, policy.DefaultDenyRuleID, rules[3].ID)
}

func TestStoreLoadKeepsLoadOrderOnTies(t *testing.T) {
	store := policy.NewStore()

	err := store.Load([]policy.Rule{
		validRule("first", 50),
		validRule("second", 50),
		validRule("third", 50),
	})
	require.NoError(t, err)

	rules := store.Current().Rules()
	assert.Equal(t, "first", rules[0].ID)
	assert.Equal(t, "second", rules[1].ID)
	assert.Equal(t, "third", rules[2].ID)
}

func TestStoreLoadValidation(t *testing.T) {
	store := policy.NewStore()

	bad := []policy.Rule{
		{ID: "", Description: "no id", Effect: "allow", Confidence: 0.5, When: []policy.Predicate{{Fact: "is_ceo", Op: "eq", Value: true}}},
		{ID: "dup", Description: "a", Priority: 1, Effect: "allow", Confidence: 0.5, When: []policy.Predicate{{Fact: "is_ceo", Op: "eq", Value: true}}},
		{ID: "dup", Description: "b", Priority: 1, Effect: "allow", Confidence: 0.5, When: []policy.Predicate{{Fact: "is_ceo", Op: "eq", Value: true}}},
		{ID: "bad-effect", Description: "c", Priority: 1, Effect: "maybe", Confidence: 0.5, When: []policy.Predicate{{Fact: "is_ceo", Op: "eq", Value: true}}},
		{ID: "bad-priority", Description: "d", Priority: -3, Effect: "deny", Confidence: 0.5, When: []policy.Predicate{{Fact: "is_ceo", Op: "eq", Value: true}}},
		{ID: "bad-confidence", Description: "e", Priority: 1, Effect: "deny", Confidence: 1.5, When: []policy.Predicate{{Fact: "is_ceo", Op: "eq", Value: true}}},
		{ID: "unknown-fact", Description: "f", Priority: 1, Effect: "deny", Confidence: 0.5, When: []policy.Predicate{{Fact: "nonsense", Op: "eq", Value: true}}},
		{ID: "unknown-op", Description: "g", Priority: 1, Effect: "deny", Confidence: 0.5, When: []policy.Predicate{{Fact: "is_ceo", Op: "like", Value: true}}},
		{ID: "no-predicates", Description: "h", Priority: 1, Effect: "deny", Confidence: 0.5},
	}

	err := store.Load(bad)
	require.Error(t, err)

	var loadErr *fw_errors.PolicyLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.GreaterOrEqual(t, len(loadErr.Issues), 8)
}

func TestStoreFailedLoadKeepsPreviousSnapshot(t *testing.T) {
	store := policy.NewStore()

	require.NoError(t, store.Load([]policy.Rule{validRule("keep", 10)}))
	before := store.Current()
	require.Equal(t, uint64(1), before.Version())

	err := store.Load([]policy.Rule{{ID: "broken", Effect: "maybe"}})
	require.Error(t, err)

	after := store.Current()
	assert.Equal(t, before.Version(), after.Version())
	assert.Equal(t, "keep", after.Rules()[0].ID)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	content := `
rules:
  - id: ceo-access
    description: the CEO may access anything
    priority: 100
    effect: allow
    confidence: 1.0
    tags: [identity]
    when:
      - fact: is_ceo
        op: eq
        value: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	rules, err := policy.LoadFile(path)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "ceo-access", rules[0].ID)
	assert.Equal(t, 100, rules[0].Priority)
	assert.True(t, rules[0].HasTag("identity"))

	_, err = policy.LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, fw_errors.ErrPolicyFileMissing)
}

func TestPredicateOperators(t *testing.T) {
	facts := map[string]interface{}{
		"hierarchy_level": 4,
		"classification":  "internal",
		"is_ceo":          false,
	}

	assert.True(t, (&policy.Predicate{Fact: "hierarchy_level", Op: "gte", Value: 4}).Holds(facts))
	assert.False(t, (&policy.Predicate{Fact: "hierarchy_level", Op: "gt", Value: 4}).Holds(facts))
	assert.True(t, (&policy.Predicate{Fact: "hierarchy_level", Op: "lte", Value: 4}).Holds(facts))
	assert.True(t, (&policy.Predicate{Fact: "classification", Op: "in", Value: []interface{}{"public", "internal"}}).Holds(facts))
	assert.False(t, (&policy.Predicate{Fact: "classification", Op: "in", Value: []interface{}{"restricted"}}).Holds(facts))
	assert.True(t, (&policy.Predicate{Fact: "is_ceo", Op: "ne", Value: true}).Holds(facts))
	assert.False(t, (&policy.Predicate{Fact: "unknown", Op: "eq", Value: 1}).Holds(facts))
}
