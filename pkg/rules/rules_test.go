package rules_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/codemend/pkg/refactor"
	"github.com/Sumatoshi-tech/codemend/pkg/rules"
	"github.com/Sumatoshi-tech/codemend/pkg/semantic"
	"github.com/Sumatoshi-tech/codemend/pkg/syntax"
)

var (
	intType  = semantic.Type{Name: "int", Kind: semantic.TypeStruct}
	longType = semantic.Type{Name: "long", Kind: semantic.TypeStruct}
)

func ident(name string) *syntax.Node { return syntax.NewIdentifierName(name) }

func call(name string, args ...*syntax.Node) *syntax.Node {
	return syntax.NewInvocation(ident(name), args...)
}

func stmt(expr *syntax.Node) *syntax.Node { return syntax.NewExpressionStatement(expr) }

func using(resource string, body ...*syntax.Node) *syntax.Node {
	return syntax.NewUsing([]*syntax.Node{ident(resource)}, syntax.NewBlock(body...))
}

// find returns the first node of kind whose text is text.
func find(t *testing.T, root *syntax.Node, kind syntax.Kind, text string) *syntax.Node {
	t.Helper()

	for n := range root.DescendantsAndSelf() {
		if n.Is(kind) && n.Text() == text {
			return n
		}
	}

	require.FailNow(t, "node not found", "%s %q", kind, text)

	return nil
}

// caret returns an empty span shift bytes past the first occurrence of needle.
func caret(t *testing.T, root *syntax.Node, needle string, shift int) syntax.Span {
	t.Helper()

	pos := strings.Index(root.FullText(), needle)
	require.GreaterOrEqual(t, pos, 0, "needle %q", needle)

	return syntax.NewSpan(pos+shift, 0)
}

var engine = refactor.NewEngine(rules.Default())

// actionFor dispatches the full catalog and returns the action of ruleID.
func actionFor(t *testing.T, doc *refactor.Document, span syntax.Span, ruleID string) (refactor.Action, bool) {
	t.Helper()

	res, err := engine.Dispatch(context.Background(), refactor.Request{Document: doc, Span: span})
	require.NoError(t, err)
	require.Empty(t, res.Failures)

	for _, a := range res.Actions {
		if a.RuleID == ruleID {
			return a, true
		}
	}

	return refactor.Action{}, false
}

func apply(t *testing.T, a refactor.Action) *refactor.Document {
	t.Helper()

	out, err := a.Compute(context.Background())
	require.NoError(t, err)

	return out
}

func TestCatalog(t *testing.T) {
	t.Parallel()

	assert.Same(t, rules.Default(), rules.Default())
	assert.Equal(t, []string{
		rules.SimplifyNestedUsingID,
		rules.IntroduceLocalFromStatementID,
		rules.MarkClassAsStaticID,
		rules.DuplicateArgumentID,
		rules.AddCastExpressionID,
		rules.ExpandAssignmentExpressionID,
	}, rules.IDs())

	for _, r := range rules.All() {
		assert.NotEmpty(t, r.Kinds(), r.ID())
		assert.NotEmpty(t, r.Title(), r.ID())
	}

	_, semanticCast := rules.All()[4].(refactor.SemanticRule)
	assert.True(t, semanticCast)

	_, semanticDup := rules.All()[3].(refactor.SemanticRule)
	assert.False(t, semanticDup)
}

func TestSimplifyNestedUsing(t *testing.T) {
	t.Parallel()

	t.Run("two levels", func(t *testing.T) {
		t.Parallel()

		root := syntax.NewCompilationUnit(using("a", using("b", stmt(call("Foo")))))
		doc := refactor.NewDocument("a.cs", root, nil)

		a, ok := actionFor(t, doc, caret(t, root, "(a", 1), rules.SimplifyNestedUsingID)
		require.True(t, ok)
		assert.Equal(t, "Remove braces from 'using' statement", a.Title)
		assert.Equal(t, "using (a, b) { Foo(); }", apply(t, a).Text())
	})

	t.Run("three levels pluralize", func(t *testing.T) {
		t.Parallel()

		root := syntax.NewCompilationUnit(using("a", using("b", using("c", stmt(call("Foo"))))))
		doc := refactor.NewDocument("a.cs", root, nil)

		a, ok := actionFor(t, doc, caret(t, root, "using", 0), rules.SimplifyNestedUsingID)
		require.True(t, ok)
		assert.Equal(t, "Remove braces from 'using' statements", a.Title)
		assert.Equal(t, "using (a, b, c) { Foo(); }", apply(t, a).Text())
	})

	t.Run("embedded statement body", func(t *testing.T) {
		t.Parallel()

		inner := using("b", stmt(call("Foo")))
		root := syntax.NewCompilationUnit(syntax.NewUsing([]*syntax.Node{ident("a")}, inner))
		doc := refactor.NewDocument("a.cs", root, nil)

		a, ok := actionFor(t, doc, caret(t, root, "(a", 1), rules.SimplifyNestedUsingID)
		require.True(t, ok)
		assert.Equal(t, "using (a, b) { Foo(); }", apply(t, a).Text())
	})

	t.Run("intervening statement", func(t *testing.T) {
		t.Parallel()

		root := syntax.NewCompilationUnit(using("a", stmt(call("Bar")), using("b", stmt(call("Foo")))))
		doc := refactor.NewDocument("a.cs", root, nil)

		_, ok := actionFor(t, doc, caret(t, root, "(a", 1), rules.SimplifyNestedUsingID)
		assert.False(t, ok)
	})

	t.Run("selection in body", func(t *testing.T) {
		t.Parallel()

		root := syntax.NewCompilationUnit(using("a", using("b", stmt(call("Foo")))))
		doc := refactor.NewDocument("a.cs", root, nil)

		_, ok := actionFor(t, doc, caret(t, root, "Foo", 0), rules.SimplifyNestedUsingID)
		assert.False(t, ok)
	})

	t.Run("reindents multi-line source", func(t *testing.T) {
		t.Parallel()

		tok := func(kind syntax.Kind, text string, trailing ...syntax.Trivia) *syntax.Node {
			return syntax.TokenWithTrivia(kind, text, nil, trailing)
		}
		lead := func(n *syntax.Node, indent string) *syntax.Node {
			return n.WithLeadingTrivia(syntax.Whitespace(indent))
		}

		// using (a)
		// {
		//     using (b)
		//     {
		//         Foo();
		//     }
		// }
		innerBody := syntax.NewNode(syntax.Block,
			lead(tok(syntax.OpenBraceToken, "{", syntax.Newline), "    "),
			lead(stmt(call("Foo")).WithTrailingTrivia(syntax.Newline), "        "),
			lead(tok(syntax.CloseBraceToken, "}", syntax.Newline), "    "))
		innerUsing := syntax.NewNode(syntax.UsingStatement,
			lead(tok(syntax.UsingKeyword, "using", syntax.Space), "    "),
			tok(syntax.OpenParenToken, "("), ident("b"), tok(syntax.CloseParenToken, ")", syntax.Newline),
			innerBody)
		outer := syntax.NewNode(syntax.UsingStatement,
			tok(syntax.UsingKeyword, "using", syntax.Space),
			tok(syntax.OpenParenToken, "("), ident("a"), tok(syntax.CloseParenToken, ")", syntax.Newline),
			syntax.NewNode(syntax.Block, tok(syntax.OpenBraceToken, "{", syntax.Newline), innerUsing, tok(syntax.CloseBraceToken, "}")))

		root := syntax.NewCompilationUnit(outer)
		require.Equal(t, "using (a)\n{\n    using (b)\n    {\n        Foo();\n    }\n}", root.FullText())

		a, ok := actionFor(t, refactor.NewDocument("a.cs", root, nil), caret(t, root, "(a", 1), rules.SimplifyNestedUsingID)
		require.True(t, ok)
		assert.Equal(t, "using (a, b)\n{\n    Foo();\n}", apply(t, a).Text())
	})
}

func introduceLocalDoc(t *testing.T, typ semantic.Type, names ...string) (*refactor.Document, syntax.Span) {
	t.Helper()

	root := syntax.NewCompilationUnit(stmt(call("Compute")))
	fixture := semantic.NewFixture().
		BindType(find(t, root, syntax.InvocationExpression, "Compute()"), typ).
		DeclareNames(names...)

	return refactor.NewDocument("a.cs", root, semantic.Static(fixture)), caret(t, root, "Compute", 0)
}

func TestIntroduceLocalFromStatement(t *testing.T) {
	t.Parallel()

	result := semantic.Type{Name: "Result", Kind: semantic.TypeClass}

	t.Run("introduces typed local", func(t *testing.T) {
		t.Parallel()

		doc, span := introduceLocalDoc(t, result)

		a, ok := actionFor(t, doc, span, rules.IntroduceLocalFromStatementID)
		require.True(t, ok)
		assert.Equal(t, "Introduce local for 'Compute()'", a.Title)

		out := apply(t, a)
		assert.Equal(t, "Result result = Compute();", out.Text())

		target, ok := out.RenameTarget()
		require.True(t, ok)
		assert.Equal(t, "result", out.Text()[target.Start:target.End])
	})

	t.Run("dedupes against names in scope", func(t *testing.T) {
		t.Parallel()

		doc, span := introduceLocalDoc(t, result, "result", "result1")

		a, ok := actionFor(t, doc, span, rules.IntroduceLocalFromStatementID)
		require.True(t, ok)
		assert.Equal(t, "Result result2 = Compute();", apply(t, a).Text())
	})

	t.Run("void yields nothing", func(t *testing.T) {
		t.Parallel()

		doc, span := introduceLocalDoc(t, semantic.VoidType)

		_, ok := actionFor(t, doc, span, rules.IntroduceLocalFromStatementID)
		assert.False(t, ok)
	})

	t.Run("error type yields nothing", func(t *testing.T) {
		t.Parallel()

		doc, span := introduceLocalDoc(t, semantic.ErrorType("Missing"))

		_, ok := actionFor(t, doc, span, rules.IntroduceLocalFromStatementID)
		assert.False(t, ok)
	})

	t.Run("unresolved yields nothing", func(t *testing.T) {
		t.Parallel()

		doc, span := introduceLocalDoc(t, semantic.UnresolvedType)

		_, ok := actionFor(t, doc, span, rules.IntroduceLocalFromStatementID)
		assert.False(t, ok)
	})

	t.Run("no semantic model", func(t *testing.T) {
		t.Parallel()

		root := syntax.NewCompilationUnit(stmt(call("Compute")))

		_, ok := actionFor(t, refactor.NewDocument("a.cs", root, nil), caret(t, root, "Compute", 0), rules.IntroduceLocalFromStatementID)
		assert.False(t, ok)
	})
}

func TestIntroduceLocal_CancelledDuringResolution(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	blocking := semantic.ProviderFunc(func(ctx context.Context, _ *syntax.Node) (semantic.Oracle, error) {
		cancel()
		<-ctx.Done()

		return nil, ctx.Err()
	})

	root := syntax.NewCompilationUnit(stmt(call("Compute")))
	res, err := refactor.NewEngine(rules.Default()).Dispatch(ctx, refactor.Request{
		Document: refactor.NewDocument("a.cs", root, blocking),
		Span:     caret(t, root, "Compute", 0),
	})

	require.NoError(t, err)
	assert.True(t, res.Cancelled)
	assert.Empty(t, res.Actions)
	assert.Empty(t, res.Failures)
}

func TestIdentifierForType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		typ  string
		want string
	}{
		{"Result", "result"},
		{"List<int>", "list"},
		{"System.Text.StringBuilder", "stringBuilder"},
		{"Foo[]", "foo"},
		{"Point?", "point"},
		{"int", "x"},
		{"String", "x"},
		{"", "x"},
		{"Ünicode", "ünicode"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, rules.IdentifierForType(tt.typ), tt.typ)
	}
}

func TestUniqueName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "result", rules.UniqueName("result", nil))
	assert.Equal(t, "result1", rules.UniqueName("result", []string{"result"}))
	assert.Equal(t, "result2", rules.UniqueName("result", []string{"result", "result1", "other"}))
}

func member(kind semantic.SymbolKind, name string, static bool) semantic.Symbol {
	return semantic.Symbol{Kind: kind, Name: name, Static: static, Type: intType}
}

func classSymbol(members ...semantic.Symbol) semantic.Symbol {
	implicitCtor := semantic.Symbol{Kind: semantic.SymbolConstructor, Name: ".ctor", Implicit: true}

	return semantic.Symbol{
		Kind:     semantic.SymbolNamedType,
		Name:     "C",
		TypeKind: semantic.TypeClass,
		Members:  append(members, implicitCtor),
	}
}

func markStaticDoc(t *testing.T, class *syntax.Node, sym semantic.Symbol) (*refactor.Document, syntax.Span) {
	t.Helper()

	root := syntax.NewCompilationUnit(class)
	decl := find(t, root, syntax.ClassDeclaration, class.Text())
	fixture := semantic.NewFixture().BindSymbol(decl, sym)

	return refactor.NewDocument("a.cs", root, semantic.Static(fixture)), caret(t, root, "C {", 0)
}

func TestMarkClassAsStatic(t *testing.T) {
	t.Parallel()

	staticMembers := []*syntax.Node{
		syntax.NewMethod(syntax.NewModifiers(syntax.StaticKeyword), syntax.NewPredefinedType("void"), "A", nil, syntax.NewBlock()),
		syntax.NewField(syntax.NewModifiers(syntax.StaticKeyword), syntax.NewPredefinedType("int"), "b", nil),
	}
	eligible := classSymbol(member(semantic.SymbolMethod, "A", true), member(semantic.SymbolField, "b", true))

	t.Run("after accessibility modifier", func(t *testing.T) {
		t.Parallel()

		class := syntax.NewClass(syntax.NewModifiers(syntax.PublicKeyword), "C", staticMembers...)
		doc, span := markStaticDoc(t, class, eligible)

		a, ok := actionFor(t, doc, span, rules.MarkClassAsStaticID)
		require.True(t, ok)
		assert.Equal(t, "Mark class as static", a.Title)
		assert.Equal(t, "public static class C { static void A() { } static int b; }", apply(t, a).Text())
	})

	t.Run("no modifiers keeps leading trivia first", func(t *testing.T) {
		t.Parallel()

		class := syntax.NewClass(nil, "C", staticMembers...).
			WithLeadingTrivia(syntax.Comment("// helpers"), syntax.Newline)
		doc, span := markStaticDoc(t, class, eligible)

		a, ok := actionFor(t, doc, span, rules.MarkClassAsStaticID)
		require.True(t, ok)
		assert.Equal(t, "// helpers\nstatic class C { static void A() { } static int b; }", apply(t, a).Text())
	})

	t.Run("before other modifiers", func(t *testing.T) {
		t.Parallel()

		class := syntax.NewClass(syntax.NewModifiers(syntax.InternalKeyword, syntax.PartialKeyword), "C", staticMembers...)
		doc, span := markStaticDoc(t, class, eligible)

		a, ok := actionFor(t, doc, span, rules.MarkClassAsStaticID)
		require.True(t, ok)
		assert.Equal(t, "internal static partial class C { static void A() { } static int b; }", apply(t, a).Text())
	})

	t.Run("instance member blocks", func(t *testing.T) {
		t.Parallel()

		members := append([]*syntax.Node{}, staticMembers...)
		members = append(members, syntax.NewField(nil, syntax.NewPredefinedType("int"), "c", nil))
		class := syntax.NewClass(syntax.NewModifiers(syntax.PublicKeyword), "C", members...)
		sym := classSymbol(member(semantic.SymbolMethod, "A", true), member(semantic.SymbolField, "b", true),
			member(semantic.SymbolField, "c", false))
		doc, span := markStaticDoc(t, class, sym)

		_, ok := actionFor(t, doc, span, rules.MarkClassAsStaticID)
		assert.False(t, ok)
	})

	t.Run("error member blocks", func(t *testing.T) {
		t.Parallel()

		class := syntax.NewClass(nil, "C", staticMembers...)
		sym := classSymbol(member(semantic.SymbolMethod, "A", true), semantic.Symbol{Kind: semantic.SymbolErrorType, Name: "Bogus"})
		doc, span := markStaticDoc(t, class, sym)

		_, ok := actionFor(t, doc, span, rules.MarkClassAsStaticID)
		assert.False(t, ok)
	})

	t.Run("field of unresolved type blocks", func(t *testing.T) {
		t.Parallel()

		class := syntax.NewClass(nil, "C", staticMembers...)
		unknown := semantic.Symbol{Kind: semantic.SymbolField, Name: "b", Static: true}
		doc, span := markStaticDoc(t, class, classSymbol(member(semantic.SymbolMethod, "A", true), unknown))

		_, ok := actionFor(t, doc, span, rules.MarkClassAsStaticID)
		assert.False(t, ok)
	})

	t.Run("already static", func(t *testing.T) {
		t.Parallel()

		class := syntax.NewClass(syntax.NewModifiers(syntax.StaticKeyword), "C", staticMembers...)
		sym := eligible
		sym.Static = true
		doc, span := markStaticDoc(t, class, sym)

		_, ok := actionFor(t, doc, span, rules.MarkClassAsStaticID)
		assert.False(t, ok)
	})

	t.Run("selection in body", func(t *testing.T) {
		t.Parallel()

		class := syntax.NewClass(nil, "C", staticMembers...)
		doc, _ := markStaticDoc(t, class, eligible)

		_, ok := actionFor(t, doc, caret(t, doc.Root(), "int b", 0), rules.MarkClassAsStaticID)
		assert.False(t, ok)
	})
}

func TestDuplicateArgument(t *testing.T) {
	t.Parallel()

	t.Run("invocation", func(t *testing.T) {
		t.Parallel()

		root := syntax.NewCompilationUnit(stmt(call("F", ident("x"), syntax.NewMissingArgument())))
		require.Equal(t, "F(x, );", root.FullText())
		doc := refactor.NewDocument("a.cs", root, nil)

		a, ok := actionFor(t, doc, caret(t, root, ")", 0), rules.DuplicateArgumentID)
		require.True(t, ok)
		assert.Equal(t, "Duplicate argument", a.Title)
		assert.Equal(t, "F(x, x);", apply(t, a).Text())
	})

	t.Run("attribute", func(t *testing.T) {
		t.Parallel()

		args := syntax.NewAttributeArgumentList(
			syntax.NewAttributeArgument(syntax.NewLiteral(`"a"`)),
			syntax.NewMissingAttributeArgument())
		root := syntax.NewCompilationUnit(syntax.NewAttributeList("Obsolete", args))
		doc := refactor.NewDocument("a.cs", root, nil)

		a, ok := actionFor(t, doc, caret(t, root, ")", 0), rules.DuplicateArgumentID)
		require.True(t, ok)
		assert.Equal(t, `[Obsolete("a", "a")]`, apply(t, a).Text())
	})

	t.Run("non-empty selection", func(t *testing.T) {
		t.Parallel()

		root := syntax.NewCompilationUnit(stmt(call("F", ident("x"), syntax.NewMissingArgument())))
		doc := refactor.NewDocument("a.cs", root, nil)

		_, ok := actionFor(t, doc, syntax.NewSpan(0, 5), rules.DuplicateArgumentID)
		assert.False(t, ok)
	})

	t.Run("caret off the slot", func(t *testing.T) {
		t.Parallel()

		root := syntax.NewCompilationUnit(stmt(call("F", ident("x"), syntax.NewMissingArgument())))
		doc := refactor.NewDocument("a.cs", root, nil)

		_, ok := actionFor(t, doc, caret(t, root, "x", 0), rules.DuplicateArgumentID)
		assert.False(t, ok)
	})

	t.Run("previous slot missing too", func(t *testing.T) {
		t.Parallel()

		root := syntax.NewCompilationUnit(stmt(call("F", syntax.NewMissingArgument(), syntax.NewMissingArgument())))
		doc := refactor.NewDocument("a.cs", root, nil)

		_, ok := actionFor(t, doc, caret(t, root, ")", 0), rules.DuplicateArgumentID)
		assert.False(t, ok)
	})
}

func castDoc(t *testing.T, right *syntax.Node, lt, rt semantic.Type) (*refactor.Document, *syntax.Node) {
	t.Helper()

	root := syntax.NewCompilationUnit(stmt(syntax.NewAssignment(syntax.SimpleAssignmentExpression, ident("x"), right)))
	assign := find(t, root, syntax.SimpleAssignmentExpression, "x = "+right.Text())
	fixture := semantic.NewFixture().
		BindType(assign.Child(0), lt).
		BindType(assign.Child(2), rt)

	return refactor.NewDocument("a.cs", root, semantic.Static(fixture)), root
}

func TestAddCastExpression(t *testing.T) {
	t.Parallel()

	t.Run("casts primary operand", func(t *testing.T) {
		t.Parallel()

		doc, root := castDoc(t, ident("y"), intType, longType)

		a, ok := actionFor(t, doc, caret(t, root, "y", 0), rules.AddCastExpressionID)
		require.True(t, ok)
		assert.Equal(t, "Cast to 'int'", a.Title)
		assert.Equal(t, "add-cast-expression.int", a.EquivalenceKey)
		assert.Equal(t, "x = (int)y;", apply(t, a).Text())
	})

	t.Run("parenthesizes binary operand", func(t *testing.T) {
		t.Parallel()

		doc, root := castDoc(t, syntax.NewBinary(syntax.PlusToken, ident("a"), ident("b")), intType, longType)

		a, ok := actionFor(t, doc, caret(t, root, "a", 0), rules.AddCastExpressionID)
		require.True(t, ok)
		assert.Equal(t, "x = (int)(a + b);", apply(t, a).Text())
	})

	t.Run("same type", func(t *testing.T) {
		t.Parallel()

		doc, root := castDoc(t, ident("y"), intType, intType)

		_, ok := actionFor(t, doc, caret(t, root, "y", 0), rules.AddCastExpressionID)
		assert.False(t, ok)
	})

	t.Run("unresolved right side", func(t *testing.T) {
		t.Parallel()

		doc, root := castDoc(t, ident("y"), intType, semantic.UnresolvedType)

		_, ok := actionFor(t, doc, caret(t, root, "y", 0), rules.AddCastExpressionID)
		assert.False(t, ok)
	})

	t.Run("error left side", func(t *testing.T) {
		t.Parallel()

		doc, root := castDoc(t, ident("y"), semantic.ErrorType("Nope"), longType)

		_, ok := actionFor(t, doc, caret(t, root, "y", 0), rules.AddCastExpressionID)
		assert.False(t, ok)
	})

	t.Run("selection on left side", func(t *testing.T) {
		t.Parallel()

		doc, root := castDoc(t, ident("y"), intType, longType)

		_, ok := actionFor(t, doc, caret(t, root, "x", 0), rules.AddCastExpressionID)
		assert.False(t, ok)
	})
}

func TestExpandAssignmentExpression(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		kind  syntax.Kind
		right *syntax.Node
		op    string
		want  string
	}{
		{"add", syntax.AddAssignmentExpression, ident("b"), "+=", "a = a + b;"},
		{"shift", syntax.LeftShiftAssignmentExpression, syntax.NewLiteral("2"), "<<=", "a = a << 2;"},
		{"coalesce", syntax.CoalesceAssignmentExpression, ident("b"), "??=", "a = a ?? b;"},
		{"binary right", syntax.MultiplyAssignmentExpression, syntax.NewBinary(syntax.PlusToken, ident("b"), ident("c")), "*=", "a = a * (b + c);"},
		{"assignment right", syntax.MultiplyAssignmentExpression, syntax.NewAssignment(syntax.SimpleAssignmentExpression, ident("y"), syntax.NewLiteral("3")), "*=", "a = a * (y = 3);"},
		{"invocation right", syntax.AddAssignmentExpression, call("F"), "+=", "a = a + F();"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root := syntax.NewCompilationUnit(stmt(syntax.NewAssignment(tt.kind, ident("a"), tt.right)))
			doc := refactor.NewDocument("a.cs", root, nil)

			a, ok := actionFor(t, doc, caret(t, root, tt.op, 1), rules.ExpandAssignmentExpressionID)
			require.True(t, ok)
			assert.Equal(t, "Expand assignment expression", a.Title)
			assert.Equal(t, tt.want, apply(t, a).Text())
		})
	}

	t.Run("selection off operator", func(t *testing.T) {
		t.Parallel()

		root := syntax.NewCompilationUnit(stmt(syntax.NewAssignment(syntax.AddAssignmentExpression, ident("a"), ident("b"))))

		_, ok := actionFor(t, refactor.NewDocument("a.cs", root, nil), caret(t, root, "b", 0), rules.ExpandAssignmentExpressionID)
		assert.False(t, ok)
	})
}

func TestRules_DisabledBySettings(t *testing.T) {
	t.Parallel()

	root := syntax.NewCompilationUnit(stmt(syntax.NewAssignment(syntax.AddAssignmentExpression, ident("a"), ident("b"))))

	res, err := engine.Dispatch(context.Background(), refactor.Request{
		Document: refactor.NewDocument("a.cs", root, nil),
		Span:     caret(t, root, "+=", 0),
		Settings: refactor.DisableRules(rules.ExpandAssignmentExpressionID),
	})

	require.NoError(t, err)
	assert.Empty(t, res.Actions)
}
