// Package match holds the pure predicates rules use to test applicability.
// Syntactic predicates are total over nil input; semantic predicates fail
// closed on unresolved facts.
package match

import (
	"github.com/Sumatoshi-tech/codemend/pkg/semantic"
	"github.com/Sumatoshi-tech/codemend/pkg/syntax"
)

// IsKind reports whether n is non-nil and of one of kinds.
func IsKind(n *syntax.Node, kinds ...syntax.Kind) bool {
	return n != nil && n.Is(kinds...)
}

// IsMissing reports whether n is nil or a parser placeholder.
func IsMissing(n *syntax.Node) bool {
	return n == nil || n.IsMissing()
}

// IsEmptyCaret reports whether the selection is a bare caret.
func IsEmptyCaret(span syntax.Span) bool {
	return span.IsEmpty()
}

// ContainsSpan reports whether n's span contains span.
func ContainsSpan(n *syntax.Node, span syntax.Span) bool {
	return n != nil && n.Span().Contains(span)
}

// SpanInsideToken reports whether span lies within tok's text.
func SpanInsideToken(span syntax.Span, tok *syntax.Node) bool {
	return tok != nil && tok.IsToken() && tok.Span().Contains(span)
}

// DirectChildOfKind returns the first child of n with one of kinds, or nil.
func DirectChildOfKind(n *syntax.Node, kinds ...syntax.Kind) *syntax.Node {
	if n == nil {
		return nil
	}

	return n.ChildOfKind(kinds...)
}

// Statements returns the statements of a block.
func Statements(block *syntax.Node) []*syntax.Node {
	if !IsKind(block, syntax.Block) {
		return nil
	}

	return block.NodeChildren()
}

// SingleStatementBody returns the only statement of a block, or nil.
func SingleStatementBody(block *syntax.Node) *syntax.Node {
	stmts := Statements(block)
	if len(stmts) != 1 {
		return nil
	}

	return stmts[0]
}

// UsingBody returns the embedded statement of a using statement.
func UsingBody(using *syntax.Node) *syntax.Node {
	if !IsKind(using, syntax.UsingStatement) {
		return nil
	}

	children := using.Children()
	if len(children) == 0 {
		return nil
	}

	body := children[len(children)-1]
	if body.IsToken() {
		return nil
	}

	return body
}

// UsingResources returns the resource declarations or expressions between
// the parentheses of a using statement.
func UsingResources(using *syntax.Node) []*syntax.Node {
	if !IsKind(using, syntax.UsingStatement) {
		return nil
	}

	var (
		out    []*syntax.Node
		inside bool
	)

	for _, c := range using.Children() {
		switch {
		case c.Is(syntax.OpenParenToken):
			inside = true
		case c.Is(syntax.CloseParenToken):
			return out
		case inside && !c.IsToken():
			out = append(out, c)
		}
	}

	return out
}

// UsingCloseParen returns the closing parenthesis of a using header.
func UsingCloseParen(using *syntax.Node) *syntax.Node {
	return DirectChildOfKind(using, syntax.CloseParenToken)
}

// EmbeddedUsing returns the using statement nested directly in using's
// body: either the body itself or the single statement of a block body.
func EmbeddedUsing(using *syntax.Node) *syntax.Node {
	body := UsingBody(using)
	if IsKind(body, syntax.UsingStatement) {
		return body
	}

	if inner := SingleStatementBody(body); IsKind(inner, syntax.UsingStatement) {
		return inner
	}

	return nil
}

// ContainsEmbeddableUsing reports whether using's body is a block whose
// single statement is another using statement with a resource.
func ContainsEmbeddableUsing(using *syntax.Node) bool {
	inner := SingleStatementBody(UsingBody(using))

	return IsKind(inner, syntax.UsingStatement) && len(UsingResources(inner)) > 0 &&
		len(UsingResources(using)) > 0
}

// Modifiers returns the modifier tokens of a declaration.
func Modifiers(decl *syntax.Node) []*syntax.Node {
	list := DirectChildOfKind(decl, syntax.ModifierList)
	if list == nil {
		return nil
	}

	return list.Children()
}

// HasModifier reports whether decl carries the modifier kind.
func HasModifier(decl *syntax.Node, kind syntax.Kind) bool {
	for _, m := range Modifiers(decl) {
		if m.Is(kind) {
			return true
		}
	}

	return false
}

// Arguments returns the arguments of an argument or attribute argument list.
func Arguments(list *syntax.Node) []*syntax.Node {
	if !IsKind(list, syntax.ArgumentList, syntax.AttributeArgumentList) {
		return nil
	}

	return list.ChildrenOfKind(syntax.Argument, syntax.AttributeArgument)
}

// AssignmentParts returns the left operand, operator token and right operand.
func AssignmentParts(assign *syntax.Node) (left, op, right *syntax.Node) {
	for _, c := range assign.Children() {
		switch {
		case c.IsToken() && op == nil:
			op = c
		case !c.IsToken() && op == nil:
			left = c
		case !c.IsToken():
			right = c
		}
	}

	return left, op, right
}

// StatementExpression returns the expression of an expression statement.
func StatementExpression(stmt *syntax.Node) *syntax.Node {
	if !IsKind(stmt, syntax.ExpressionStatement) {
		return nil
	}

	nodes := stmt.NodeChildren()
	if len(nodes) == 0 {
		return nil
	}

	return nodes[0]
}

// IsPrimaryExpression reports whether n binds tighter than any operator, so
// it can be cast or operated on without parentheses.
func IsPrimaryExpression(n *syntax.Node) bool {
	return IsKind(n,
		syntax.IdentifierName, syntax.GenericName, syntax.QualifiedName, syntax.PredefinedType,
		syntax.LiteralExpression, syntax.InvocationExpression, syntax.MemberAccessExpression,
		syntax.ParenthesizedExpression, syntax.ObjectCreationExpression, syntax.ThisExpression)
}

// IsResolvedType reports whether t is known and not an error type.
func IsResolvedType(t semantic.Type) bool {
	return t.Resolved() && !t.IsError()
}

// IsVoid reports whether t is the void type.
func IsVoid(t semantic.Type) bool {
	return t.Void
}

// IsErrorType reports whether t is an error type. Unresolved counts as error.
func IsErrorType(t semantic.Type) bool {
	return !t.Resolved() || t.IsError()
}

// TypesEqual reports identity of two resolved types.
func TypesEqual(a, b semantic.Type) bool {
	return a.Equal(b)
}

// IsStatic reports whether sym is resolved and static.
func IsStatic(sym semantic.Symbol) bool {
	return sym.Resolved() && sym.Static
}

// AllExplicitMembersStatic reports whether a named type has at least one
// explicit member and every explicit non-type member is static. Members of
// unknown or error type, and fields, properties or events whose declared type
// is unresolved, make the answer false.
func AllExplicitMembersStatic(sym semantic.Symbol) bool {
	if !sym.IsNamedType() {
		return false
	}

	members := sym.ExplicitMembers()
	if len(members) == 0 {
		return false
	}

	for _, m := range members {
		switch m.Kind {
		case semantic.SymbolUnresolved, semantic.SymbolErrorType:
			return false
		case semantic.SymbolNamedType:
			if m.TypeKind == semantic.TypeError || m.TypeKind == semantic.TypeUnknown {
				return false
			}
		case semantic.SymbolField, semantic.SymbolProperty, semantic.SymbolEvent:
			if !m.Static || !IsResolvedType(m.Type) {
				return false
			}
		default:
			if !m.Static {
				return false
			}
		}
	}

	return true
}
