package rewrite_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/codemend/pkg/rewrite"
	"github.com/Sumatoshi-tech/codemend/pkg/syntax"
)

func call(name string) *syntax.Node {
	return syntax.NewExpressionStatement(syntax.NewInvocation(syntax.NewIdentifierName(name)))
}

func TestReplaceNode_PreservesTextOutsideTarget(t *testing.T) {
	t.Parallel()

	root := syntax.NewCompilationUnit(syntax.NewClass(nil, "C",
		syntax.NewMethod(nil, syntax.NewPredefinedType("void"), "M", nil, syntax.NewBlock(call("A"), call("B")))))

	var target *syntax.Node

	for n := range root.Descendants() {
		if n.Is(syntax.ExpressionStatement) && n.Text() == "B();" {
			target = n
		}
	}

	require.NotNil(t, target)

	replacement := rewrite.WithTriviaFrom(call("Replaced"), target)

	out, err := rewrite.ReplaceNode(root, target, replacement)
	require.NoError(t, err)

	before := root.FullText()
	after := out.FullText()
	full := target.FullSpan()

	assert.Equal(t, before[:full.Start], after[:full.Start])
	assert.Equal(t, before[full.End:], after[len(after)-(len(before)-full.End):])
	assert.Equal(t, "class C { void M() { A(); Replaced(); } }", after)
	assert.Equal(t, "class C { void M() { A(); B(); } }", before)
}

func TestReplaceNode_Errors(t *testing.T) {
	t.Parallel()

	root := syntax.NewBlock(call("A"))

	_, err := rewrite.ReplaceNode(root, call("B"), call("C"))
	require.ErrorIs(t, err, rewrite.ErrNotInTree)

	_, err = rewrite.ReplaceNode(root, nil, call("C"))
	require.ErrorIs(t, err, rewrite.ErrNotInTree)
}

func TestReplaceNodes(t *testing.T) {
	t.Parallel()

	root := syntax.NewBlock(call("A"), call("B"))

	out, err := rewrite.ReplaceNodes(root, map[*syntax.Node]*syntax.Node{
		root.Child(1): rewrite.WithTriviaFrom(call("X"), root.Child(1)),
		root.Child(2): rewrite.WithTriviaFrom(call("Y"), root.Child(2)),
	})
	require.NoError(t, err)
	assert.Equal(t, "{ X(); Y(); }", out.FullText())

	same, err := rewrite.ReplaceNodes(root, nil)
	require.NoError(t, err)
	assert.Same(t, root, same)
}

func TestWithTriviaFrom(t *testing.T) {
	t.Parallel()

	old := call("A").WithLeadingTrivia(syntax.Whitespace("  "), syntax.Comment("/* x */"), syntax.Space).
		WithTrailingTrivia(syntax.Space, syntax.Comment("// tail"))

	out := rewrite.WithTriviaFrom(call("B"), old)
	assert.Equal(t, "  /* x */ B(); // tail", out.FullText())
}

func TestRenameTarget(t *testing.T) {
	t.Parallel()

	decl := syntax.NewLocalDeclaration(syntax.NewTypeName("int"), "x", syntax.NewLiteral("1"))
	declarator := decl.Child(0).Child(1)
	name := declarator.Child(0)

	root, err := rewrite.ReplaceNode(decl, name, name.WithAnnotations(syntax.RenameAnnotation))
	require.NoError(t, err)

	span, ok := rewrite.RenameTarget(root)
	require.True(t, ok)
	assert.Equal(t, "x", root.FullText()[span.Start:span.End])

	_, ok = rewrite.RenameTarget(decl)
	assert.False(t, ok)
}

func TestFormat_ReindentsAnnotatedSubtree(t *testing.T) {
	t.Parallel()

	nl := func(indent string) []syntax.Trivia {
		if indent == "" {
			return nil
		}

		return []syntax.Trivia{syntax.Whitespace(indent)}
	}

	// using (a)
	//         {
	//                 Foo();
	//         }
	tok := func(kind syntax.Kind, text string, leading string, eol bool) *syntax.Node {
		var trailing []syntax.Trivia
		if eol {
			trailing = []syntax.Trivia{syntax.Newline}
		}

		return syntax.TokenWithTrivia(kind, text, nl(leading), trailing)
	}

	body := syntax.NewNode(syntax.Block,
		tok(syntax.OpenBraceToken, "{", "        ", true),
		syntax.NewExpressionStatement(syntax.NewInvocation(syntax.NewIdentifierName("Foo"))).
			WithLeadingTrivia(syntax.Whitespace("                ")).
			WithTrailingTrivia(syntax.Newline),
		tok(syntax.CloseBraceToken, "}", "        ", false))

	using := syntax.NewNode(syntax.UsingStatement,
		tok(syntax.UsingKeyword, "using", "    ", false).WithTrailingTrivia(syntax.Space),
		tok(syntax.OpenParenToken, "(", "", false),
		syntax.NewIdentifierName("a"),
		tok(syntax.CloseParenToken, ")", "", true),
		body,
	).WithAnnotations(syntax.FormatAnnotation)

	out, err := rewrite.Format(using, rewrite.DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, "    using (a)\n    {\n        Foo();\n    }", out.FullText())
	assert.False(t, out.HasAnnotation(syntax.FormatAnnotation))
}

func TestFormat_NoAnnotationIsIdentity(t *testing.T) {
	t.Parallel()

	root := syntax.NewBlock(call("A"))

	out, err := rewrite.Format(root, rewrite.Options{})
	require.NoError(t, err)
	assert.Same(t, root, out)
}

func TestFormat_SingleLineUnchanged(t *testing.T) {
	t.Parallel()

	root := syntax.NewBlock(call("A")).WithAnnotations(syntax.FormatAnnotation)

	out, err := rewrite.Format(root, rewrite.Options{IndentUnit: "\t"})
	require.NoError(t, err)
	assert.Equal(t, "{ A(); }", out.FullText())
}

func TestEdits_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		old, new string
	}{
		{"insert", "F(x, )", "F(x, x)"},
		{"replace", "x = y;", "x = (long)y;"},
		{"delete", "using (a) { using (b) { Foo(); } }", "using (a, b) { Foo(); }"},
		{"identical", "same", "same"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			edits := rewrite.Edits(tt.old, tt.new)
			assert.Equal(t, tt.new, rewrite.Apply(tt.old, edits))

			for i := 1; i < len(edits); i++ {
				assert.LessOrEqual(t, edits[i-1].Span.End, edits[i].Span.Start)
			}
		})
	}
}

func TestUnifiedDiff(t *testing.T) {
	t.Parallel()

	lines := rewrite.UnifiedDiff("a\nb\nc\n", "a\nB\nc\n")

	assert.Equal(t, []rewrite.DiffLine{
		{Op: rewrite.DiffContext, Text: "a"},
		{Op: rewrite.DiffRemoved, Text: "b"},
		{Op: rewrite.DiffAdded, Text: "B"},
		{Op: rewrite.DiffContext, Text: "c"},
	}, lines)
}
