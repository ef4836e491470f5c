package refactor

import (
	"context"
	"errors"

	"github.com/Sumatoshi-tech/codemend/pkg/syntax"
)

// ErrRuleDefect wraps a panic or unexpected error raised by a rule.
var ErrRuleDefect = errors.New("rule defect")

// Action is a deferred refactoring offered to the host. Nothing is
// computed until Compute is called; the closure holds immutable snapshots
// only, so an action stays valid after its context closed.
type Action struct {
	Title          string
	EquivalenceKey string
	RuleID         string
	Span           syntax.Span

	compute func(ctx context.Context) (*Document, error)
}

// Compute produces the rewritten document. On cancellation or failure the
// original document is returned together with the error.
func (a Action) Compute(ctx context.Context) (*Document, error) {
	return a.compute(ctx)
}

// EquivalenceKey composes a rule id and optional variant.
func EquivalenceKey(ruleID, variant string) string {
	if variant == "" {
		return ruleID
	}

	return ruleID + "." + variant
}
