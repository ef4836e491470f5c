package declindex

import (
	"strings"

	"github.com/Sumatoshi-tech/codemend/pkg/semantic"
	"github.com/Sumatoshi-tech/codemend/pkg/syntax"
)

// maxInferenceDepth bounds chains such as "var a = b; var b = a;".
const maxInferenceDepth = 32

type variable struct {
	name     string
	kind     semantic.SymbolKind
	typeNode *syntax.Node
	init     *syntax.Node
}

// scopeVariables lists the variables a node introduces for its descendants.
func scopeVariables(scope *syntax.Node) []variable {
	var out []variable

	switch scope.Kind() {
	case syntax.MethodDeclaration, syntax.ConstructorDeclaration:
		params := scope.ChildOfKind(syntax.ParameterList)
		if params == nil {
			return nil
		}

		for _, p := range params.ChildrenOfKind(syntax.Parameter) {
			out = append(out, variable{name: declName(p), kind: semantic.SymbolParameter, typeNode: firstNode(p)})
		}
	case syntax.Block:
		for _, stmt := range scope.ChildrenOfKind(syntax.LocalDeclarationStatement) {
			out = append(out, declared(stmt.ChildOfKind(syntax.VariableDeclaration))...)
		}
	case syntax.UsingStatement:
		out = declared(scope.ChildOfKind(syntax.VariableDeclaration))
	}

	return out
}

func declared(decl *syntax.Node) []variable {
	if decl == nil {
		return nil
	}

	typ := firstNode(decl)

	var out []variable

	for _, d := range decl.ChildrenOfKind(syntax.VariableDeclarator) {
		v := variable{name: declName(d), kind: semantic.SymbolLocal, typeNode: typ}
		if eq := d.ChildOfKind(syntax.EqualsValueClause); eq != nil {
			v.init = firstNode(eq)
		}

		out = append(out, v)
	}

	return out
}

// lookup binds name as seen from n: locals and parameters first, then the
// members of the enclosing types from the innermost outwards.
func (idx *Index) lookup(n *syntax.Node, name string, depth int) (semantic.Symbol, bool) {
	for _, scope := range n.Ancestors() {
		for _, v := range scopeVariables(scope) {
			if v.name == name {
				return semantic.Symbol{Kind: v.kind, Name: name, Type: idx.variableType(v, depth)}, true
			}
		}

		if td, ok := idx.decls[scope.Span()]; ok && td.node.Kind() == scope.Kind() {
			if sym, ok := td.members[name]; ok {
				return sym, true
			}
		}
	}

	return semantic.Unresolved, false
}

func (idx *Index) variableType(v variable, depth int) semantic.Type {
	if v.typeNode != nil && strings.TrimSpace(v.typeNode.Text()) == "var" {
		return idx.typeOf(v.init, depth+1)
	}

	return idx.typeOfTypeNode(v.typeNode)
}

// typeOf infers the static type of an expression.
func (idx *Index) typeOf(n *syntax.Node, depth int) semantic.Type {
	if n == nil || depth > maxInferenceDepth {
		return semantic.UnresolvedType
	}

	switch kind := n.Kind(); {
	case kind == syntax.LiteralExpression:
		return literalType(n.FirstToken())
	case kind == syntax.IdentifierName:
		if sym, ok := idx.lookup(n, n.Text(), depth); ok {
			return sym.Type
		}
	case kind == syntax.ParenthesizedExpression, kind == syntax.Argument, kind == syntax.EqualsValueClause:
		return idx.typeOf(firstNode(n), depth+1)
	case kind == syntax.CastExpression, kind == syntax.ObjectCreationExpression:
		return idx.typeOfTypeNode(firstNode(n))
	case kind == syntax.ThisExpression:
		if td := idx.enclosingType(n); td != nil {
			return td.symbol.Type
		}
	case kind == syntax.InvocationExpression:
		if sym, ok := idx.memberSymbol(firstNode(n), depth); ok && sym.Kind == semantic.SymbolMethod {
			return sym.Type
		}
	case kind == syntax.MemberAccessExpression:
		if sym, ok := idx.memberSymbol(n, depth); ok && sym.Kind != semantic.SymbolMethod {
			return sym.Type
		}
	case kind == syntax.SimpleAssignmentExpression, syntax.IsCompoundAssignment(kind):
		return idx.typeOf(firstNode(n), depth+1)
	case kind == syntax.PrefixUnaryExpression:
		if n.ChildOfKind(syntax.ExclamationToken) != nil {
			return boolType
		}

		return idx.typeOf(firstNode(n), depth+1)
	case kind == syntax.BinaryExpression:
		return idx.binaryType(n, depth)
	}

	return semantic.UnresolvedType
}

// memberSymbol binds a callee or member access: a simple name in scope or
// the member named on the right of "receiver.Name".
func (idx *Index) memberSymbol(n *syntax.Node, depth int) (semantic.Symbol, bool) {
	if n == nil {
		return semantic.Unresolved, false
	}

	switch n.Kind() {
	case syntax.IdentifierName:
		return idx.lookup(n, n.Text(), depth)
	case syntax.MemberAccessExpression:
		parts := n.NodeChildren()
		if len(parts) != 2 {
			return semantic.Unresolved, false
		}

		receiver, name := parts[0], parts[1].Text()

		var recvType semantic.Type

		if _, isVar := idx.lookup(receiver, receiver.Text(), depth); !isVar && receiver.Is(syntax.IdentifierName) {
			recvType = idx.typeNamed(receiver.Text())
		} else {
			recvType = idx.typeOf(receiver, depth+1)
		}

		td, ok := idx.types[recvType.Name]
		if !ok {
			return semantic.Unresolved, false
		}

		sym, ok := td.members[name]

		return sym, ok
	}

	return semantic.Unresolved, false
}

var (
	boolType   = semantic.Type{Name: "bool", Kind: semantic.TypeStruct}
	stringType = semantic.Type{Name: "string", Kind: semantic.TypeClass}
	charType   = semantic.Type{Name: "char", Kind: semantic.TypeStruct}
)

func literalType(tok *syntax.Node) semantic.Type {
	if tok == nil {
		return semantic.UnresolvedType
	}

	switch tok.Kind() {
	case syntax.NumericLiteralToken:
		return numericLiteralType(tok.Text())
	case syntax.StringLiteralToken:
		return stringType
	case syntax.CharacterLiteralToken:
		return charType
	case syntax.TrueKeyword, syntax.FalseKeyword:
		return boolType
	default:
		return semantic.UnresolvedType
	}
}

func numericLiteralType(text string) semantic.Type {
	lower := strings.ToLower(strings.ReplaceAll(text, "_", ""))
	hex := strings.HasPrefix(lower, "0x") || strings.HasPrefix(lower, "0b")

	name := "int"

	switch {
	case strings.HasSuffix(lower, "ul"), strings.HasSuffix(lower, "lu"):
		name = "ulong"
	case strings.HasSuffix(lower, "l"):
		name = "long"
	case strings.HasSuffix(lower, "u"):
		name = "uint"
	case strings.HasSuffix(lower, "m"):
		name = "decimal"
	case !hex && strings.HasSuffix(lower, "f"):
		name = "float"
	case !hex && (strings.HasSuffix(lower, "d") || strings.ContainsAny(lower, ".e")):
		name = "double"
	}

	return semantic.Type{Name: name, Kind: semantic.TypeStruct}
}

// numericRank orders the types binary numeric promotion widens to; smaller
// integral types promote to int.
var numericRank = map[string]int{
	"sbyte": 0, "byte": 0, "short": 0, "ushort": 0, "char": 0,
	"int": 1, "uint": 2, "long": 3, "ulong": 4, "float": 5, "double": 6, "decimal": 7,
}

var rankNames = [...]string{"int", "int", "uint", "long", "ulong", "float", "double", "decimal"}

func (idx *Index) binaryType(n *syntax.Node, depth int) semantic.Type {
	parts := n.Children()
	if len(parts) != 3 {
		return semantic.UnresolvedType
	}

	switch parts[1].Kind() {
	case syntax.EqualsEqualsToken, syntax.ExclamationEqualsToken, syntax.LessThanToken,
		syntax.GreaterThanToken, syntax.AmpersandAmpersandToken, syntax.BarBarToken:
		return boolType
	}

	lt, rt := idx.typeOf(parts[0], depth+1), idx.typeOf(parts[2], depth+1)

	switch {
	case parts[1].Is(syntax.QuestionQuestionToken):
		if lt.Resolved() {
			return lt
		}

		return rt
	case parts[1].Is(syntax.PlusToken) && (lt.Equal(stringType) || rt.Equal(stringType)):
		return stringType
	case !lt.Resolved() || !rt.Resolved():
		return semantic.UnresolvedType
	}

	lr, lok := numericRank[lt.Name]
	rr, rok := numericRank[rt.Name]

	switch {
	case lok && rok:
		return semantic.Type{Name: rankNames[max(lr, rr)], Kind: semantic.TypeStruct}
	case lt.Equal(rt):
		return lt
	default:
		return semantic.UnresolvedType
	}
}
