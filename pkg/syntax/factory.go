package syntax

// The constructors below build detached trees with canonical single-line
// spacing: separators and keywords carry one trailing space, nothing else
// carries trivia. Callers move trivia over from the nodes they replace.

// Token builds a token. An empty text falls back to the fixed spelling of kind.
func Token(kind Kind, text string) *Node {
	if text == "" {
		text = TokenText(kind)
	}

	return newRoot(newTokenGreen(kind, text, nil, nil, false))
}

// TokenWithTrivia builds a token with explicit trivia.
func TokenWithTrivia(kind Kind, text string, leading, trailing []Trivia) *Node {
	return newRoot(newTokenGreen(kind, text, leading, trailing, false))
}

// MissingToken builds a zero-width token flagged as missing.
func MissingToken(kind Kind) *Node {
	return newRoot(newTokenGreen(kind, "", nil, nil, true))
}

// NewNode builds a node from children. Nil children are skipped.
func NewNode(kind Kind, children ...*Node) *Node {
	return newRoot(newNodeGreen(kind, greens(children), false))
}

// NewMissingNode builds a node flagged as missing.
func NewMissingNode(kind Kind, children ...*Node) *Node {
	return newRoot(newNodeGreen(kind, greens(children), true))
}

func greens(nodes []*Node) []*green {
	out := make([]*green, 0, len(nodes))
	for _, n := range nodes {
		if n != nil {
			out = append(out, n.green)
		}
	}

	return out
}

func spaced(n *Node) *Node {
	return n.WithTrailingTrivia(Space)
}

func spacedTok(kind Kind) *Node {
	return TokenWithTrivia(kind, TokenText(kind), nil, []Trivia{Space})
}

// NewIdentifierName builds a simple name.
func NewIdentifierName(name string) *Node {
	return NewNode(IdentifierName, Token(IdentifierToken, name))
}

// NewPredefinedType builds a built-in type such as int or void.
func NewPredefinedType(keyword string) *Node {
	kind := PredefinedTypeKeyword
	if keyword == "void" {
		kind = VoidKeyword
	}

	return NewNode(PredefinedType, Token(kind, keyword))
}

// NewTypeName builds a type reference from its display text. Built-in
// keywords become predefined types, anything else a single name.
func NewTypeName(text string) *Node {
	if text == "void" || IsPredefinedTypeName(text) {
		return NewPredefinedType(text)
	}

	return NewIdentifierName(text)
}

// NewLiteral builds a literal expression from its source text.
func NewLiteral(text string) *Node {
	return NewNode(LiteralExpression, Token(KindForText(text), text))
}

// NewThis builds a this expression.
func NewThis() *Node {
	return NewNode(ThisExpression, Token(ThisKeyword, ""))
}

// NewArgument wraps an expression in an argument.
func NewArgument(expr *Node) *Node {
	return NewNode(Argument, expr)
}

// NewMissingArgument builds the placeholder a parser leaves between two
// adjacent separators.
func NewMissingArgument() *Node {
	return NewMissingNode(Argument, NewMissingNode(IdentifierName, MissingToken(IdentifierToken)))
}

// NewAttributeArgument wraps an expression in an attribute argument.
func NewAttributeArgument(expr *Node) *Node {
	return NewNode(AttributeArgument, expr)
}

// NewMissingAttributeArgument builds an empty attribute argument placeholder.
func NewMissingAttributeArgument() *Node {
	return NewMissingNode(AttributeArgument, NewMissingNode(IdentifierName, MissingToken(IdentifierToken)))
}

// NewArgumentList builds "(a, b)" from arguments.
func NewArgumentList(args ...*Node) *Node {
	return NewNode(ArgumentList, separated(OpenParenToken, CloseParenToken, args)...)
}

// NewAttributeArgumentList builds "(a, b)" from attribute arguments.
func NewAttributeArgumentList(args ...*Node) *Node {
	return NewNode(AttributeArgumentList, separated(OpenParenToken, CloseParenToken, args)...)
}

func separated(open, closeKind Kind, items []*Node) []*Node {
	out := make([]*Node, 0, 2*len(items)+1)
	out = append(out, Token(open, ""))

	for i, item := range items {
		if i > 0 {
			out = append(out, spacedTok(CommaToken))
		}

		out = append(out, item)
	}

	return append(out, Token(closeKind, ""))
}

// NewInvocation builds "expr(args)". Plain expressions are wrapped in arguments.
func NewInvocation(expr *Node, args ...*Node) *Node {
	wrapped := make([]*Node, len(args))
	for i, a := range args {
		if a.Is(Argument) {
			wrapped[i] = a
		} else {
			wrapped[i] = NewArgument(a)
		}
	}

	return NewNode(InvocationExpression, expr, NewArgumentList(wrapped...))
}

// NewMemberAccess builds "expr.name".
func NewMemberAccess(expr *Node, name string) *Node {
	return NewNode(MemberAccessExpression, expr, Token(DotToken, ""), NewIdentifierName(name))
}

// NewParenthesized builds "(expr)".
func NewParenthesized(expr *Node) *Node {
	return NewNode(ParenthesizedExpression, Token(OpenParenToken, ""), expr, Token(CloseParenToken, ""))
}

// NewCast builds "(type)expr".
func NewCast(typ, expr *Node) *Node {
	return NewNode(CastExpression, Token(OpenParenToken, ""), typ, Token(CloseParenToken, ""), expr)
}

// NewObjectCreation builds "new T(args)".
func NewObjectCreation(typ *Node, args ...*Node) *Node {
	call := NewInvocation(typ, args...)

	return NewNode(ObjectCreationExpression, spacedTok(NewKeyword), typ, call.Child(1))
}

// NewBinary builds "left op right".
func NewBinary(op Kind, left, right *Node) *Node {
	return NewNode(BinaryExpression, spaced(left), spacedTok(op), right)
}

// NewAssignment builds an assignment of the given kind, e.g. "x = y" or "x += y".
func NewAssignment(kind Kind, left, right *Node) *Node {
	op := EqualsToken
	if ops, ok := compoundAssignmentOperators[kind]; ok {
		op = ops[0]
	}

	return NewNode(kind, spaced(left), spacedTok(op), right)
}

// NewExpressionStatement builds "expr;".
func NewExpressionStatement(expr *Node) *Node {
	return NewNode(ExpressionStatement, expr, Token(SemicolonToken, ""))
}

// NewVariableDeclarator builds "name" or "name = value".
func NewVariableDeclarator(name string, value *Node) *Node {
	if value == nil {
		return NewNode(VariableDeclarator, Token(IdentifierToken, name))
	}

	return NewNode(VariableDeclarator,
		TokenWithTrivia(IdentifierToken, name, nil, []Trivia{Space}),
		NewNode(EqualsValueClause, spacedTok(EqualsToken), value))
}

// NewVariableDeclaration builds "Type a = x, b".
func NewVariableDeclaration(typ *Node, declarators ...*Node) *Node {
	children := []*Node{spaced(typ)}
	for i, d := range declarators {
		if i > 0 {
			children = append(children, spacedTok(CommaToken))
		}

		children = append(children, d)
	}

	return NewNode(VariableDeclaration, children...)
}

// NewLocalDeclaration builds "Type name = value;".
func NewLocalDeclaration(typ *Node, name string, value *Node) *Node {
	return NewNode(LocalDeclarationStatement,
		NewVariableDeclaration(typ, NewVariableDeclarator(name, value)),
		Token(SemicolonToken, ""))
}

// NewReturn builds "return expr;" or "return;".
func NewReturn(expr *Node) *Node {
	if expr == nil {
		return NewNode(ReturnStatement, Token(ReturnKeyword, ""), Token(SemicolonToken, ""))
	}

	return NewNode(ReturnStatement, spacedTok(ReturnKeyword), expr, Token(SemicolonToken, ""))
}

// NewBlock builds "{ s1 s2 }".
func NewBlock(statements ...*Node) *Node {
	children := []*Node{spacedTok(OpenBraceToken)}
	for _, s := range statements {
		children = append(children, spaced(s))
	}

	return NewNode(Block, append(children, Token(CloseBraceToken, ""))...)
}

// NewUsing builds "using (r1, r2) body".
func NewUsing(resources []*Node, body *Node) *Node {
	children := []*Node{spacedTok(UsingKeyword), Token(OpenParenToken, "")}
	for i, r := range resources {
		if i > 0 {
			children = append(children, spacedTok(CommaToken))
		}

		children = append(children, r)
	}

	children = append(children, spacedTok(CloseParenToken), body)

	return NewNode(UsingStatement, children...)
}

// NewModifiers builds a modifier list such as "public static ".
func NewModifiers(kinds ...Kind) *Node {
	toks := make([]*Node, len(kinds))
	for i, k := range kinds {
		toks[i] = spacedTok(k)
	}

	return NewNode(ModifierList, toks...)
}

// NewParameter builds "Type name".
func NewParameter(typ *Node, name string) *Node {
	return NewNode(Parameter, spaced(typ), Token(IdentifierToken, name))
}

// NewParameterList builds "(Type a, Type b)".
func NewParameterList(params ...*Node) *Node {
	return NewNode(ParameterList, separated(OpenParenToken, CloseParenToken, params)...)
}

// NewMethod builds "mods ReturnType Name(params) { ... }".
func NewMethod(mods *Node, returnType *Node, name string, params *Node, body *Node) *Node {
	if mods == nil {
		mods = NewModifiers()
	}

	if params == nil {
		params = NewParameterList()
	}

	return NewNode(MethodDeclaration, mods, spaced(returnType), NewIdentifierName(name), spaced(params), body)
}

// NewConstructor builds "mods Name(params) { ... }".
func NewConstructor(mods *Node, name string, params *Node, body *Node) *Node {
	if mods == nil {
		mods = NewModifiers()
	}

	if params == nil {
		params = NewParameterList()
	}

	return NewNode(ConstructorDeclaration, mods, NewIdentifierName(name), spaced(params), body)
}

// NewField builds "mods Type name;" or "mods Type name = value;".
func NewField(mods *Node, typ *Node, name string, value *Node) *Node {
	if mods == nil {
		mods = NewModifiers()
	}

	return NewNode(FieldDeclaration, mods,
		NewVariableDeclaration(typ, NewVariableDeclarator(name, value)),
		Token(SemicolonToken, ""))
}

// NewProperty builds "mods Type Name { get; set; }".
func NewProperty(mods *Node, typ *Node, name string) *Node {
	if mods == nil {
		mods = NewModifiers()
	}

	accessors := NewNode(AccessorList,
		spacedTok(OpenBraceToken),
		TokenWithTrivia(IdentifierToken, "get", nil, nil), TokenWithTrivia(SemicolonToken, ";", nil, []Trivia{Space}),
		TokenWithTrivia(IdentifierToken, "set", nil, nil), TokenWithTrivia(SemicolonToken, ";", nil, []Trivia{Space}),
		Token(CloseBraceToken, ""))

	return NewNode(PropertyDeclaration, mods, spaced(typ), spaced(NewIdentifierName(name)), accessors)
}

// NewClass builds "mods class Name { members }".
func NewClass(mods *Node, name string, members ...*Node) *Node {
	return newTypeDeclaration(ClassDeclaration, ClassKeyword, mods, name, members)
}

// NewStruct builds "mods struct Name { members }".
func NewStruct(mods *Node, name string, members ...*Node) *Node {
	return newTypeDeclaration(StructDeclaration, StructKeyword, mods, name, members)
}

func newTypeDeclaration(kind, keyword Kind, mods *Node, name string, members []*Node) *Node {
	if mods == nil {
		mods = NewModifiers()
	}

	children := []*Node{mods, spacedTok(keyword), spaced(NewIdentifierName(name)), spacedTok(OpenBraceToken)}
	for _, m := range members {
		children = append(children, spaced(m))
	}

	return NewNode(kind, append(children, Token(CloseBraceToken, ""))...)
}

// NewAttributeList builds "[Name(args)]".
func NewAttributeList(name string, args *Node) *Node {
	return NewNode(AttributeList,
		Token(OpenBracketToken, ""),
		NewNode(Attribute, NewIdentifierName(name), args),
		Token(CloseBracketToken, ""))
}

// NewCompilationUnit builds a root from top-level members separated by
// single spaces and terminated by an end-of-file token.
func NewCompilationUnit(members ...*Node) *Node {
	children := make([]*Node, 0, len(members)+1)
	for i, m := range members {
		if i < len(members)-1 {
			m = spaced(m)
		}

		children = append(children, m)
	}

	return NewNode(CompilationUnit, append(children, Token(EndOfFileToken, ""))...)
}
