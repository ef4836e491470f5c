package syntax_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/codemend/pkg/syntax"
)

func callStatement(name string, args ...*syntax.Node) *syntax.Node {
	return syntax.NewExpressionStatement(syntax.NewInvocation(syntax.NewIdentifierName(name), args...))
}

func TestFactory_CanonicalText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		node *syntax.Node
		want string
	}{
		{
			name: "invocation statement",
			node: callStatement("Foo", syntax.NewIdentifierName("x"), syntax.NewLiteral("1")),
			want: "Foo(x, 1);",
		},
		{
			name: "nested using",
			node: syntax.NewUsing([]*syntax.Node{syntax.NewIdentifierName("a")},
				syntax.NewBlock(syntax.NewUsing([]*syntax.Node{syntax.NewIdentifierName("b")},
					syntax.NewBlock(callStatement("Foo"))))),
			want: "using (a) { using (b) { Foo(); } }",
		},
		{
			name: "class with members",
			node: syntax.NewClass(syntax.NewModifiers(syntax.PublicKeyword), "C",
				syntax.NewMethod(syntax.NewModifiers(syntax.StaticKeyword), syntax.NewPredefinedType("void"), "A", nil, syntax.NewBlock()),
				syntax.NewField(syntax.NewModifiers(syntax.StaticKeyword), syntax.NewPredefinedType("int"), "b", nil)),
			want: "public class C { static void A() { } static int b; }",
		},
		{
			name: "missing argument",
			node: syntax.NewInvocation(syntax.NewIdentifierName("F"), syntax.NewIdentifierName("x"), syntax.NewMissingArgument()),
			want: "F(x, )",
		},
		{
			name: "local declaration",
			node: syntax.NewLocalDeclaration(syntax.NewTypeName("Result"), "result",
				syntax.NewInvocation(syntax.NewIdentifierName("Compute"))),
			want: "Result result = Compute();",
		},
		{
			name: "compound assignment",
			node: syntax.NewAssignment(syntax.AddAssignmentExpression, syntax.NewIdentifierName("a"), syntax.NewIdentifierName("b")),
			want: "a += b",
		},
		{
			name: "cast",
			node: syntax.NewCast(syntax.NewTypeName("long"), syntax.NewIdentifierName("y")),
			want: "(long)y",
		},
		{
			name: "property",
			node: syntax.NewProperty(nil, syntax.NewTypeName("int"), "P"),
			want: "int P { get; set; }",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.node.FullText())
		})
	}
}

func TestNode_SpansExcludeOuterTrivia(t *testing.T) {
	t.Parallel()

	stmt := callStatement("Foo").
		WithLeadingTrivia(syntax.Newline, syntax.Whitespace("    ")).
		WithTrailingTrivia(syntax.Space)

	assert.Equal(t, syntax.Span{Start: 0, End: 12}, stmt.FullSpan())
	assert.Equal(t, syntax.Span{Start: 5, End: 11}, stmt.Span())
	assert.Equal(t, "Foo();", stmt.Text())
	assert.Equal(t, "\n    Foo(); ", stmt.FullText())
}

func TestNode_ChildSpansNestInsideParent(t *testing.T) {
	t.Parallel()

	root := syntax.NewCompilationUnit(syntax.NewClass(nil, "C",
		syntax.NewMethod(nil, syntax.NewPredefinedType("void"), "M", nil,
			syntax.NewBlock(callStatement("Foo", syntax.NewIdentifierName("x"))))))

	for n := range root.Descendants() {
		parent := n.Parent()
		assert.True(t, parent.FullSpan().Contains(n.FullSpan()), "%s inside %s", n.Kind(), parent.Kind())
		assert.True(t, parent.Span().Contains(n.Span()) || n.Span().IsEmpty(), "%s inside %s", n.Kind(), parent.Kind())
	}
}

func TestNode_ChildIdentityIsStable(t *testing.T) {
	t.Parallel()

	stmt := callStatement("Foo")

	first := stmt.Children()
	second := stmt.Children()

	require.Len(t, first, 2)
	assert.Same(t, first[0], second[0])
	assert.Same(t, stmt, first[0].Parent())
}

func TestNode_FindNode(t *testing.T) {
	t.Parallel()

	// F(x, )
	call := syntax.NewInvocation(syntax.NewIdentifierName("F"), syntax.NewIdentifierName("x"), syntax.NewMissingArgument())

	t.Run("caret at missing argument", func(t *testing.T) {
		t.Parallel()

		found := call.FindNode(syntax.Span{Start: 5, End: 5})
		require.NotNil(t, found)
		assert.NotNil(t, found.FirstAncestorOrSelf(syntax.ArgumentList))
		assert.True(t, found.FirstAncestorOrSelf(syntax.Argument).IsMissing())
	})

	t.Run("selection of identifier", func(t *testing.T) {
		t.Parallel()

		found := call.FindNode(syntax.Span{Start: 2, End: 3})
		require.NotNil(t, found)
		assert.Equal(t, syntax.IdentifierName, found.Kind())
		assert.Equal(t, "x", found.Text())
	})

	t.Run("outside", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, call.FindNode(syntax.Span{Start: 10, End: 11}))
	})
}

func TestNode_FindToken(t *testing.T) {
	t.Parallel()

	call := syntax.NewInvocation(syntax.NewIdentifierName("Foo"), syntax.NewIdentifierName("x"))

	tok := call.FindToken(4)
	require.NotNil(t, tok)
	assert.Equal(t, "x", tok.Text())

	last := call.FindToken(100)
	require.NotNil(t, last)
	assert.Equal(t, syntax.CloseParenToken, last.Kind())
}

func TestNode_ReplaceDescendantSharesUntouchedSubtrees(t *testing.T) {
	t.Parallel()

	block := syntax.NewBlock(callStatement("A"), callStatement("B"))
	second := block.Child(2)
	first := block.Child(1)

	out, err := block.ReplaceDescendant(second, callStatement("C").WithTrailingTrivia(syntax.Space))
	require.NoError(t, err)

	assert.Equal(t, "{ A(); C(); }", out.FullText())
	assert.Equal(t, "{ A(); B(); }", block.FullText())
	assert.True(t, out.Child(1).EquivalentTo(first))
}

func TestNode_ReplaceDescendantRejectsForeignNode(t *testing.T) {
	t.Parallel()

	block := syntax.NewBlock(callStatement("A"))
	other := callStatement("B")

	_, err := block.ReplaceDescendant(other.Child(0), syntax.NewIdentifierName("z"))
	require.ErrorIs(t, err, syntax.ErrNotInTree)
}

func TestNode_ReplaceDescendants(t *testing.T) {
	t.Parallel()

	block := syntax.NewBlock(callStatement("A"), callStatement("B"))
	a := block.Child(1).Child(0).Child(0)
	b := block.Child(2).Child(0).Child(0)

	out, err := block.ReplaceDescendants(map[*syntax.Node]*syntax.Node{
		a: syntax.NewIdentifierName("X"),
		b: syntax.NewIdentifierName("Y"),
	})
	require.NoError(t, err)
	assert.Equal(t, "{ X(); Y(); }", out.FullText())

	_, err = block.ReplaceDescendants(map[*syntax.Node]*syntax.Node{
		block.Child(1): callStatement("P"),
		a:              syntax.NewIdentifierName("Q"),
	})
	require.ErrorIs(t, err, syntax.ErrOverlap)
}

func TestNode_TriviaAndAnnotations(t *testing.T) {
	t.Parallel()

	name := syntax.NewIdentifierName("x").
		WithLeadingTrivia(syntax.Comment("/* c */"), syntax.Space).
		WithAnnotations(syntax.RenameAnnotation)

	assert.Equal(t, "/* c */ x", name.FullText())
	assert.True(t, name.HasAnnotation(syntax.RenameAnnotation))
	assert.False(t, name.HasAnnotation(syntax.FormatAnnotation))

	stripped := name.WithoutTrivia().WithoutAnnotations(syntax.RenameAnnotation)
	assert.Equal(t, "x", stripped.FullText())
	assert.False(t, stripped.HasAnnotation(syntax.RenameAnnotation))
}

func TestNode_MapTokens(t *testing.T) {
	t.Parallel()

	stmt := callStatement("Foo", syntax.NewIdentifierName("x"))

	out := stmt.MapTokens(func(tok *syntax.Node) *syntax.Node {
		if tok.Kind() == syntax.IdentifierToken {
			return syntax.Token(syntax.IdentifierToken, tok.Text()+"1")
		}

		return tok
	})

	assert.Equal(t, "Foo1(x1);", out.FullText())
	assert.Equal(t, "Foo(x);", stmt.FullText())
}

func TestNode_Navigation(t *testing.T) {
	t.Parallel()

	root := syntax.NewCompilationUnit(syntax.NewClass(nil, "C",
		syntax.NewMethod(nil, syntax.NewPredefinedType("void"), "M", nil,
			syntax.NewBlock(callStatement("Foo")))))

	var invocation *syntax.Node

	for n := range root.Descendants() {
		if n.Is(syntax.InvocationExpression) {
			invocation = n

			break
		}
	}

	require.NotNil(t, invocation)
	assert.Equal(t, root, invocation.Root())
	assert.True(t, invocation.IsDescendantOf(root))

	method := invocation.FirstAncestorOrSelf(syntax.MethodDeclaration)
	require.NotNil(t, method)
	assert.Equal(t, "void M() { Foo(); }", method.Text())

	kinds := make([]syntax.Kind, 0)
	for _, a := range invocation.Ancestors() {
		kinds = append(kinds, a.Kind())
	}

	assert.Equal(t, []syntax.Kind{
		syntax.ExpressionStatement, syntax.Block, syntax.MethodDeclaration,
		syntax.ClassDeclaration, syntax.CompilationUnit,
	}, kinds)

	assert.Equal(t, syntax.ClassKeyword, root.FirstToken().Kind())
	assert.Equal(t, syntax.EndOfFileToken, root.LastToken().Kind())
}
