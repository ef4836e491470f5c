package rules

import (
	"context"
	"errors"
	"fmt"

	"github.com/Sumatoshi-tech/codemend/pkg/match"
	"github.com/Sumatoshi-tech/codemend/pkg/refactor"
	"github.com/Sumatoshi-tech/codemend/pkg/rewrite"
	"github.com/Sumatoshi-tech/codemend/pkg/syntax"
)

var errMalformedAssignment = errors.New("assignment is missing an operand")

// AddCastExpression casts the right side of a simple assignment to the
// type of the left side when the two differ.
type AddCastExpression struct{}

// ID implements refactor.Rule.
func (AddCastExpression) ID() string { return AddCastExpressionID }

// Title implements refactor.Rule.
func (AddCastExpression) Title() string { return "Add cast expression" }

// Kinds implements refactor.Rule.
func (AddCastExpression) Kinds() []syntax.Kind {
	return []syntax.Kind{syntax.SimpleAssignmentExpression}
}

// Applicable fires when the selection lies in the right operand.
func (AddCastExpression) Applicable(rc *refactor.Context, node *syntax.Node) *syntax.Node {
	left, _, right := match.AssignmentParts(node)
	if match.IsMissing(left) || match.IsMissing(right) {
		return nil
	}

	if !match.ContainsSpan(right, rc.Span()) {
		return nil
	}

	return node
}

// Gate requires both operand types to be resolved and distinct.
func (AddCastExpression) Gate(ctx context.Context, rc *refactor.Context, target *syntax.Node) (refactor.Facts, bool, error) {
	oracle, err := rc.Oracle(ctx)
	if err != nil {
		return refactor.Facts{}, false, err
	}

	left, _, right := match.AssignmentParts(target)

	lt, err := oracle.TypeOf(ctx, left)
	if err != nil {
		return refactor.Facts{}, false, err
	}

	if !match.IsResolvedType(lt) {
		return refactor.Facts{}, false, nil
	}

	rt, err := oracle.TypeOf(ctx, right)
	if err != nil {
		return refactor.Facts{}, false, err
	}

	if !match.IsResolvedType(rt) || match.TypesEqual(lt, rt) {
		return refactor.Facts{}, false, nil
	}

	return refactor.Facts{Type: lt}, true, nil
}

// Describe names the target type; the type is also the key variant so casts
// to different types stay distinct.
func (AddCastExpression) Describe(_ *syntax.Node, facts refactor.Facts) (title, variant string) {
	return fmt.Sprintf("Cast to '%s'", facts.Type), facts.Type.Name
}

// Build wraps the right operand in a cast to the left operand's type.
func (AddCastExpression) Build(ctx context.Context, doc *refactor.Document, target *syntax.Node, facts refactor.Facts) (*refactor.Document, error) {
	if err := ctx.Err(); err != nil {
		return doc, err
	}

	_, _, right := match.AssignmentParts(target)
	if right == nil {
		return doc, errMalformedAssignment
	}

	operand := right.WithoutTrivia()
	if !match.IsPrimaryExpression(right) {
		operand = syntax.NewParenthesized(operand)
	}

	cast := syntax.NewCast(syntax.NewTypeName(facts.Type.Name), operand)

	return replace(ctx, doc, right, rewrite.WithTriviaFrom(cast, right))
}
