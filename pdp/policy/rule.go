// pdp/policy/rule.go
package policy

import "fmt"

// Effects a rule may carry.
const (
	EffectAllow = "allow"
	EffectDeny  = "deny"
)

// TagRelationship marks rules whose allow may organizationally override
// a temporal deny.
const TagRelationship = "relationship"

// Predicate is one conjunct of a rule condition. All predicates of a
// rule must hold for the rule to match.
type Predicate struct {
	Fact  string      `yaml:"fact" json:"fact"`
	Op    string      `yaml:"op" json:"op"`
	Value interface{} `yaml:"value" json:"value"`
}

// Rule is a single prioritized policy rule.
type Rule struct {
	ID          string      `yaml:"id" json:"id"`
	Description string      `yaml:"description" json:"description"`
	Priority    int         `yaml:"priority" json:"priority"`
	Effect      string      `yaml:"effect" json:"effect"`
	Confidence  float64     `yaml:"confidence" json:"confidence"`
	Tags        []string    `yaml:"tags,omitempty" json:"tags,omitempty"`
	When        []Predicate `yaml:"when" json:"when"`
}

// HasTag reports whether the rule carries the given tag.
func (r *Rule) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Matches evaluates the rule's conjunctive predicates against a fact
// map, short-circuiting on the first false conjunct.
func (r *Rule) Matches(facts map[string]interface{}) bool {
	for _, p := range r.When {
		if !p.Holds(facts) {
			return false
		}
	}
	return true
}

// Holds evaluates a single predicate against the fact map. Unknown
// facts and unknown operators never hold.
func (p *Predicate) Holds(facts map[string]interface{}) bool {
	actual, ok := facts[p.Fact]
	if !ok {
		return false
	}

	switch p.Op {
	case "eq":
		return equal(actual, p.Value)
	case "ne":
		return !equal(actual, p.Value)
	case "in":
		values, ok := p.Value.([]interface{})
		if !ok {
			return false
		}
		for _, v := range values {
			if equal(actual, v) {
				return true
			}
		}
		return false
	case "gt", "gte", "lt", "lte":
		a, okA := toFloat(actual)
		b, okB := toFloat(p.Value)
		if !okA || !okB {
			return false
		}
		switch p.Op {
		case "gt":
			return a > b
		case "gte":
			return a >= b
		case "lt":
			return a < b
		default:
			return a <= b
		}
	default:
		return false
	}
}

func equal(a, b interface{}) bool {
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return fa == fb
		}
	}
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	default:
		return 0, false
	}
}

var validOps = map[string]bool{
	"eq":  true,
	"ne":  true,
	"in":  true,
	"gt":  true,
	"gte": true,
	"lt":  true,
	"lte": true,
}
