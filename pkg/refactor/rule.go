// Package refactor implements the rule-matching engine: the rule contract,
// the build-once registry, the per-invocation context and action sink,
// and the dispatcher that evaluates rules against a selection.
package refactor

import (
	"context"

	"github.com/Sumatoshi-tech/codemend/pkg/semantic"
	"github.com/Sumatoshi-tech/codemend/pkg/syntax"
)

// Facts carries the semantic answers a gate collected for the builder.
type Facts struct {
	Symbol semantic.Symbol
	Type   semantic.Type
}

// Rule is one refactoring. Implementations are stateless and safe for
// concurrent use.
type Rule interface {
	// ID is the stable kebab-case identifier, also the equivalence key stem.
	ID() string
	// Title is the generic display title used in listings.
	Title() string
	// Kinds lists the node kinds the rule is dispatched for.
	Kinds() []syntax.Kind
	// Applicable is the cheap syntactic test. It returns the node the
	// action targets, or nil.
	Applicable(rc *Context, node *syntax.Node) *syntax.Node
	// Describe returns the action title and an optional key variant.
	Describe(target *syntax.Node, facts Facts) (title, variant string)
	// Build computes the rewritten document. target belongs to doc.Root().
	Build(ctx context.Context, doc *Document, target *syntax.Node, facts Facts) (*Document, error)
}

// SemanticRule is a rule that must consult the oracle before offering an
// action. Gate runs only when the document supports semantics.
type SemanticRule interface {
	Rule
	Gate(ctx context.Context, rc *Context, target *syntax.Node) (Facts, bool, error)
}
