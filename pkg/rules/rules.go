// Package rules is the refactoring catalog. Every rule is a stateless value
// implementing refactor.Rule; rules that need symbol or type facts also
// implement refactor.SemanticRule.
package rules

import (
	"context"
	"fmt"
	"sync"

	"github.com/Sumatoshi-tech/codemend/pkg/refactor"
	"github.com/Sumatoshi-tech/codemend/pkg/rewrite"
	"github.com/Sumatoshi-tech/codemend/pkg/syntax"
)

// Rule identifiers.
const (
	SimplifyNestedUsingID         = "simplify-nested-using"
	IntroduceLocalFromStatementID = "introduce-local-from-statement"
	MarkClassAsStaticID           = "mark-class-as-static"
	DuplicateArgumentID           = "duplicate-argument"
	AddCastExpressionID           = "add-cast-expression"
	ExpandAssignmentExpressionID  = "expand-assignment-expression"
)

// All returns a fresh instance of every rule in catalog order.
func All() []refactor.Rule {
	return []refactor.Rule{
		SimplifyNestedUsing{},
		IntroduceLocalFromStatement{},
		MarkClassAsStatic{},
		DuplicateArgument{},
		AddCastExpression{},
		ExpandAssignmentExpression{},
	}
}

// IDs returns every rule id in catalog order.
func IDs() []string {
	all := All()

	ids := make([]string, len(all))
	for i, r := range all {
		ids[i] = r.ID()
	}

	return ids
}

// Default returns the process-wide registry of the full catalog.
var Default = sync.OnceValue(func() *refactor.Registry {
	return refactor.MustRegistry(All()...)
})

// replace splices repl in place of old and returns the next document version.
func replace(ctx context.Context, doc *refactor.Document, old, repl *syntax.Node) (*refactor.Document, error) {
	if err := ctx.Err(); err != nil {
		return doc, err
	}

	root, err := rewrite.ReplaceNode(doc.Root(), old, repl)
	if err != nil {
		return doc, fmt.Errorf("rewrite %s: %w", old.Kind(), err)
	}

	return doc.WithRoot(root), nil
}
