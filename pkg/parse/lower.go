package parse

import (
	"slices"
	"strings"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/Sumatoshi-tech/codemend/pkg/syntax"
)

// nodeKinds maps tree-sitter node types to syntax kinds. Unlisted named
// nodes lower to UnknownNode with their children intact.
var nodeKinds = map[string]syntax.Kind{
	"compilation_unit":                  syntax.CompilationUnit,
	"namespace_declaration":             syntax.NamespaceDeclaration,
	"file_scoped_namespace_declaration": syntax.NamespaceDeclaration,
	"using_directive":                   syntax.UsingDirective,
	"class_declaration":                 syntax.ClassDeclaration,
	"struct_declaration":                syntax.StructDeclaration,
	"interface_declaration":             syntax.InterfaceDeclaration,
	"enum_declaration":                  syntax.EnumDeclaration,
	"method_declaration":                syntax.MethodDeclaration,
	"constructor_declaration":           syntax.ConstructorDeclaration,
	"field_declaration":                 syntax.FieldDeclaration,
	"property_declaration":              syntax.PropertyDeclaration,
	"accessor_list":                     syntax.AccessorList,
	"parameter_list":                    syntax.ParameterList,
	"parameter":                         syntax.Parameter,
	"variable_declaration":              syntax.VariableDeclaration,
	"variable_declarator":               syntax.VariableDeclarator,
	"equals_value_clause":               syntax.EqualsValueClause,
	"block":                             syntax.Block,
	"expression_statement":              syntax.ExpressionStatement,
	"local_declaration_statement":       syntax.LocalDeclarationStatement,
	"using_statement":                   syntax.UsingStatement,
	"return_statement":                  syntax.ReturnStatement,
	"if_statement":                      syntax.IfStatement,
	"empty_statement":                   syntax.EmptyStatement,
	"invocation_expression":             syntax.InvocationExpression,
	"argument_list":                     syntax.ArgumentList,
	"argument":                          syntax.Argument,
	"attribute_list":                    syntax.AttributeList,
	"attribute":                         syntax.Attribute,
	"attribute_argument_list":           syntax.AttributeArgumentList,
	"attribute_argument":                syntax.AttributeArgument,
	"generic_name":                      syntax.GenericName,
	"type_argument_list":                syntax.TypeArgumentList,
	"qualified_name":                    syntax.QualifiedName,
	"array_type":                        syntax.ArrayType,
	"member_access_expression":          syntax.MemberAccessExpression,
	"parenthesized_expression":          syntax.ParenthesizedExpression,
	"cast_expression":                   syntax.CastExpression,
	"binary_expression":                 syntax.BinaryExpression,
	"prefix_unary_expression":           syntax.PrefixUnaryExpression,
	"object_creation_expression":        syntax.ObjectCreationExpression,
	"assignment_expression":             syntax.SimpleAssignmentExpression,
}

type leafSpec struct {
	token syntax.Kind // KindNone classifies by text
	wrap  syntax.Kind // KindNone leaves the token bare
}

// leafKinds lists node types lowered as a single token regardless of their
// internal structure.
var leafKinds = map[string]leafSpec{
	"identifier":                     {syntax.IdentifierToken, syntax.IdentifierName},
	"implicit_type":                  {syntax.IdentifierToken, syntax.IdentifierName},
	"integer_literal":                {syntax.NumericLiteralToken, syntax.LiteralExpression},
	"real_literal":                   {syntax.NumericLiteralToken, syntax.LiteralExpression},
	"string_literal":                 {syntax.StringLiteralToken, syntax.LiteralExpression},
	"verbatim_string_literal":        {syntax.StringLiteralToken, syntax.LiteralExpression},
	"raw_string_literal":             {syntax.StringLiteralToken, syntax.LiteralExpression},
	"interpolated_string_expression": {syntax.StringLiteralToken, syntax.LiteralExpression},
	"character_literal":              {syntax.CharacterLiteralToken, syntax.LiteralExpression},
	"boolean_literal":                {syntax.KindNone, syntax.LiteralExpression},
	"null_literal":                   {syntax.KindNone, syntax.LiteralExpression},
	"predefined_type":                {syntax.PredefinedTypeKeyword, syntax.PredefinedType},
	"void_keyword":                   {syntax.VoidKeyword, syntax.PredefinedType},
	"this_expression":                {syntax.ThisKeyword, syntax.ThisExpression},
	"this":                           {syntax.ThisKeyword, syntax.ThisExpression},
}

// bareIdentifierParents hold identifiers as tokens rather than names.
var bareIdentifierParents = map[string]bool{
	"parameter":               true,
	"variable_declarator":     true,
	"generic_name":            true,
	"type_parameter":          true,
	"enum_member_declaration": true,
}

// transparent node types contribute their children to the parent.
var transparent = map[string]bool{
	"declaration_list":             true,
	"enum_member_declaration_list": true,
	"assignment_operator":          true,
	"global_statement":             true,
}

// modifierOwners group their leading modifiers into a ModifierList.
var modifierOwners = map[string]bool{
	"class_declaration":       true,
	"struct_declaration":      true,
	"interface_declaration":   true,
	"enum_declaration":        true,
	"method_declaration":      true,
	"constructor_declaration": true,
	"field_declaration":       true,
	"property_declaration":    true,
}

type draft struct {
	kind     syntax.Kind
	token    bool
	modifier bool
	start    int
	end      int
	text     string
	children []*draft
	missing  *syntax.Node
	leading  []syntax.Trivia
	trailing []syntax.Trivia
}

func (d *draft) isMissing() bool {
	if d.missing != nil {
		return true
	}

	if d.token || len(d.children) == 0 {
		return false
	}

	for _, c := range d.children {
		if !c.isMissing() {
			return false
		}
	}

	return true
}

type lowerer struct {
	src    []byte
	tokens []*draft
}

// lower converts a tree-sitter tree to a syntax tree whose full text is src.
func lower(root sitter.Node, src []byte) *syntax.Node {
	l := &lowerer{src: src}

	unit := l.node(root, "")
	if unit == nil || unit.kind != syntax.CompilationUnit {
		wrapped := &draft{kind: syntax.CompilationUnit}
		if unit != nil {
			wrapped.children = []*draft{unit}
		}

		unit = wrapped
	}

	eof := &draft{kind: syntax.EndOfFileToken, token: true, start: len(src), end: len(src)}
	l.tokens = append(l.tokens, eof)
	unit.children = append(unit.children, eof)

	l.attachTrivia()

	return build(unit)
}

// attachTrivia distributes the text between tokens: the gap before the
// first token leads it, every other gap is split at its first line break.
func (l *lowerer) attachTrivia() {
	var (
		prev int
		last *draft
	)

	for _, tok := range l.tokens {
		if tok.start < prev {
			tok.start = prev
		}

		if tok.end < tok.start {
			tok.end = tok.start
		}

		tok.text = string(l.src[tok.start:tok.end])
		gap := syntax.ScanTrivia(string(l.src[prev:tok.start]))

		if last == nil {
			tok.leading = gap
		} else {
			last.trailing, tok.leading = syntax.SplitTrivia(gap)
		}

		prev, last = tok.end, tok
	}
}

func build(d *draft) *syntax.Node {
	if d.missing != nil {
		return d.missing
	}

	if d.token {
		return syntax.TokenWithTrivia(d.kind, d.text, d.leading, d.trailing)
	}

	children := make([]*syntax.Node, 0, len(d.children))
	for _, c := range d.children {
		children = append(children, build(c))
	}

	return syntax.NewNode(d.kind, children...)
}

func (l *lowerer) token(n sitter.Node, kind syntax.Kind) *draft {
	start, end := int(n.StartByte()), int(n.EndByte())

	if kind == syntax.KindNone {
		kind = syntax.KindForText(string(l.src[start:end]))
	}

	tok := &draft{kind: kind, token: true, start: start, end: end}
	l.tokens = append(l.tokens, tok)

	return tok
}

func (l *lowerer) node(n sitter.Node, parent string) *draft {
	typ := n.Type()

	switch {
	case n.IsMissing():
		return missingDraft(typ)
	case typ == "comment" || strings.HasPrefix(typ, "preproc"):
		return nil
	}

	if spec, ok := leafKinds[typ]; ok {
		return l.leaf(n, typ, parent, spec)
	}

	if n.ChildCount() == 0 {
		return l.token(n, syntax.KindNone)
	}

	kind, ok := nodeKinds[typ]
	if !ok {
		kind = syntax.UnknownNode
	}

	d := &draft{kind: kind, children: l.children(n, typ)}

	switch {
	case modifierOwners[typ]:
		d.children = groupModifiers(d.children)
	case typ == "assignment_expression":
		d.kind = assignmentKind(d.children)
	case typ == "argument_list":
		d.children = fillMissing(d.children, syntax.Argument, syntax.NewMissingArgument)
	case typ == "attribute_argument_list":
		d.children = fillMissing(d.children, syntax.AttributeArgument, syntax.NewMissingAttributeArgument)
	case typ == "variable_declarator":
		d.children = equalsValueClause(d.children)
	}

	return d
}

func (l *lowerer) leaf(n sitter.Node, typ, parent string, spec leafSpec) *draft {
	kind := spec.token
	if typ == "predefined_type" && strings.TrimSpace(string(l.src[n.StartByte():n.EndByte()])) == "void" {
		kind = syntax.VoidKeyword
	}

	tok := l.token(n, kind)

	if spec.wrap == syntax.KindNone || (typ == "identifier" && bareIdentifierParents[parent]) {
		return tok
	}

	return &draft{kind: spec.wrap, children: []*draft{tok}}
}

func (l *lowerer) children(n sitter.Node, typ string) []*draft {
	var out []*draft

	for i := range n.ChildCount() {
		child := n.Child(i)
		childType := child.Type()

		switch {
		case transparent[childType] && !child.IsMissing():
			out = append(out, l.children(child, childType)...)
		case childType == "modifier":
			for _, m := range l.children(child, childType) {
				m.modifier = true
				out = append(out, m)
			}
		case childType == "ERROR" && (typ == "argument_list" || typ == "attribute_argument_list"):
			out = append(out, l.children(child, typ)...)
		default:
			if d := l.node(child, typ); d != nil {
				out = append(out, d)
			}
		}
	}

	return out
}

func missingDraft(typ string) *draft {
	if typ == "identifier" {
		return &draft{missing: syntax.NewMissingNode(syntax.IdentifierName, syntax.MissingToken(syntax.IdentifierToken))}
	}

	return &draft{missing: syntax.MissingToken(syntax.KindForText(typ))}
}

func isModifierKind(k syntax.Kind) bool {
	switch k {
	case syntax.PublicKeyword, syntax.PrivateKeyword, syntax.ProtectedKeyword, syntax.InternalKeyword,
		syntax.StaticKeyword, syntax.AbstractKeyword, syntax.SealedKeyword, syntax.PartialKeyword,
		syntax.ReadOnlyKeyword, syntax.ConstKeyword, syntax.VirtualKeyword, syntax.OverrideKeyword,
		syntax.AsyncKeyword, syntax.NewKeyword:
		return true
	default:
		return false
	}
}

// groupModifiers collects the modifier run after any attribute lists into a
// ModifierList, inserting an empty one when the declaration has none.
func groupModifiers(children []*draft) []*draft {
	at := 0
	for at < len(children) && children[at].kind == syntax.AttributeList {
		at++
	}

	end := at
	for end < len(children) && (children[end].modifier || (children[end].token && isModifierKind(children[end].kind))) {
		end++
	}

	mods := &draft{kind: syntax.ModifierList, children: slices.Clone(children[at:end])}

	out := make([]*draft, 0, len(children)-(end-at)+1)
	out = append(out, children[:at]...)
	out = append(out, mods)

	return append(out, children[end:]...)
}

func assignmentKind(children []*draft) syntax.Kind {
	if len(children) != 3 || !children[1].token {
		return syntax.UnknownNode
	}

	kind, ok := syntax.AssignmentKindForOperator(children[1].kind)
	if !ok {
		return syntax.UnknownNode
	}

	return kind
}

// equalsValueClause wraps "= value" of a declarator into a clause.
func equalsValueClause(children []*draft) []*draft {
	for i, c := range children {
		if i > 0 && c.token && c.kind == syntax.EqualsToken && i+1 < len(children) {
			clause := &draft{kind: syntax.EqualsValueClause, children: slices.Clone(children[i:])}

			return append(slices.Clone(children[:i]), clause)
		}
	}

	return children
}

// fillMissing normalizes a separated argument list so that every slot
// between "(" or "," and the next "," or ")" holds an item, inserting a
// missing placeholder into empty slots.
func fillMissing(children []*draft, itemKind syntax.Kind, placeholder func() *syntax.Node) []*draft {
	out := make([]*draft, 0, len(children)+1)
	expectItem := false
	sawSeparator := false

	for _, c := range children {
		kind, isToken := c.kind, c.token
		if c.missing != nil && c.missing.IsToken() {
			kind, isToken = c.missing.Kind(), true
		}

		switch {
		case isToken && (kind == syntax.OpenParenToken || kind == syntax.OpenBracketToken):
			expectItem = true
		case isToken && kind == syntax.CommaToken:
			if expectItem {
				out = append(out, &draft{missing: placeholder()})
			}

			expectItem, sawSeparator = true, true
		case isToken && (kind == syntax.CloseParenToken || kind == syntax.CloseBracketToken):
			if expectItem && sawSeparator {
				out = append(out, &draft{missing: placeholder()})
			}

			expectItem = false
		default:
			switch {
			case c.isMissing():
				c = &draft{missing: placeholder()}
			case c.kind != itemKind:
				c = &draft{kind: itemKind, children: []*draft{c}}
			}

			expectItem = false
		}

		out = append(out, c)
	}

	return out
}
