// errors/decision_errors.go
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// FactLookupError reports an entity that could not be resolved from the
// organizational graph. Callers receive it as an error, never as a DENY.
type FactLookupError struct {
	Kind string // "employee" or "resource"
	ID   string
	Err  error
}

func (e *FactLookupError) Error() string {
	return fmt.Sprintf("fact lookup failed for %s %q: %v", e.Kind, e.ID, e.Err)
}

func (e *FactLookupError) Unwrap() error {
	return e.Err
}

// IsFactLookupError reports whether err is (or wraps) a FactLookupError.
func IsFactLookupError(err error) bool {
	var fle *FactLookupError
	return errors.As(err, &fle)
}

// RuleIssue describes one problem found while validating a policy rule.
type RuleIssue struct {
	RuleID  string
	Message string
}

func (i RuleIssue) String() string {
	if i.RuleID == "" {
		return i.Message
	}
	return fmt.Sprintf("rule %s: %s", i.RuleID, i.Message)
}

// PolicyLoadError aggregates every issue found in a candidate rule set.
// A load that fails leaves the previous snapshot untouched.
type PolicyLoadError struct {
	Issues []RuleIssue
}

func (e *PolicyLoadError) Error() string {
	msgs := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		msgs[i] = issue.String()
	}
	return fmt.Sprintf("policy load failed: %s", strings.Join(msgs, "; "))
}

// ValidationError reports a single invalid field on an incoming request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// ValidationErrors bundles field-level failures from request binding.
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Error()
	}
	return strings.Join(msgs, "; ")
}

// AuditWriteFailure wraps a repository error on the audit path. It is
// logged and counted but never fails the decision itself.
type AuditWriteFailure struct {
	Err error
}

func (e *AuditWriteFailure) Error() string {
	return fmt.Sprintf("audit write failure: %v", e.Err)
}

func (e *AuditWriteFailure) Unwrap() error {
	return e.Err
}
