package rules

import (
	"context"
	"fmt"

	"github.com/Sumatoshi-tech/codemend/pkg/match"
	"github.com/Sumatoshi-tech/codemend/pkg/refactor"
	"github.com/Sumatoshi-tech/codemend/pkg/rewrite"
	"github.com/Sumatoshi-tech/codemend/pkg/syntax"
)

// ExpandAssignmentExpression rewrites a compound assignment "a op= b" into
// "a = a op b".
type ExpandAssignmentExpression struct{}

// ID implements refactor.Rule.
func (ExpandAssignmentExpression) ID() string { return ExpandAssignmentExpressionID }

// Title implements refactor.Rule.
func (ExpandAssignmentExpression) Title() string { return "Expand assignment expression" }

// Kinds implements refactor.Rule.
func (ExpandAssignmentExpression) Kinds() []syntax.Kind { return syntax.CompoundAssignmentKinds() }

// Applicable fires when the selection lies in the operator token.
func (ExpandAssignmentExpression) Applicable(rc *refactor.Context, node *syntax.Node) *syntax.Node {
	left, op, right := match.AssignmentParts(node)
	if match.IsMissing(left) || match.IsMissing(right) || !match.SpanInsideToken(rc.Span(), op) {
		return nil
	}

	return node
}

// Describe implements refactor.Rule.
func (r ExpandAssignmentExpression) Describe(*syntax.Node, refactor.Facts) (title, variant string) {
	return r.Title(), ""
}

// Build implements refactor.Rule.
func (ExpandAssignmentExpression) Build(ctx context.Context, doc *refactor.Document, target *syntax.Node, _ refactor.Facts) (*refactor.Document, error) {
	if err := ctx.Err(); err != nil {
		return doc, err
	}

	binary, ok := syntax.BinaryOperatorFor(target.Kind())
	if !ok {
		return doc, fmt.Errorf("%s is not a compound assignment", target.Kind())
	}

	left, _, right := match.AssignmentParts(target)
	if left == nil || right == nil {
		return doc, errMalformedAssignment
	}

	operand := right.WithoutTrivia()
	if !match.IsPrimaryExpression(right) {
		operand = syntax.NewParenthesized(operand)
	}

	lhs := left.WithoutTrivia()
	expanded := syntax.NewAssignment(syntax.SimpleAssignmentExpression, lhs, syntax.NewBinary(binary, lhs, operand))

	return replace(ctx, doc, target, rewrite.WithTriviaFrom(expanded, target))
}
