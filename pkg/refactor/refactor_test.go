package refactor_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Sumatoshi-tech/codemend/pkg/refactor"
	"github.com/Sumatoshi-tech/codemend/pkg/semantic"
	"github.com/Sumatoshi-tech/codemend/pkg/syntax"
)

type stubRule struct {
	id       string
	kinds    []syntax.Kind
	variant  string
	panics   bool
	buildErr error
}

func (r *stubRule) ID() string           { return r.id }
func (r *stubRule) Title() string        { return "Stub " + r.id }
func (r *stubRule) Kinds() []syntax.Kind { return r.kinds }

func (r *stubRule) Applicable(_ *refactor.Context, node *syntax.Node) *syntax.Node {
	if r.panics {
		panic("boom")
	}

	return node
}

func (r *stubRule) Describe(target *syntax.Node, _ refactor.Facts) (title, variant string) {
	return r.id + " on " + target.Kind().String(), r.variant
}

// Build renames every identifier "Foo" to "Bar".
func (r *stubRule) Build(_ context.Context, doc *refactor.Document, _ *syntax.Node, _ refactor.Facts) (*refactor.Document, error) {
	if r.buildErr != nil {
		return nil, r.buildErr
	}

	root := doc.Root().MapTokens(func(tok *syntax.Node) *syntax.Node {
		if tok.Kind() == syntax.IdentifierToken && tok.Text() == "Foo" {
			return syntax.TokenWithTrivia(syntax.IdentifierToken, "Bar", tok.LeadingTrivia(), tok.TrailingTrivia())
		}

		return tok
	})

	return doc.WithRoot(root), nil
}

type staticTypeRule struct {
	stubRule
}

func (r *staticTypeRule) Gate(ctx context.Context, rc *refactor.Context, target *syntax.Node) (refactor.Facts, bool, error) {
	o, err := rc.Oracle(ctx)
	if err != nil {
		return refactor.Facts{}, false, err
	}

	typ, err := o.TypeOf(ctx, target)
	if err != nil {
		return refactor.Facts{}, false, err
	}

	return refactor.Facts{Type: typ}, typ.Resolved(), nil
}

func (r *staticTypeRule) Describe(_ *syntax.Node, facts refactor.Facts) (title, variant string) {
	return "typed " + facts.Type.Name, ""
}

// sampleTree is "class C { void A() { Foo(x); } }".
func sampleTree() *syntax.Node {
	call := syntax.NewInvocation(syntax.NewIdentifierName("Foo"), syntax.NewIdentifierName("x"))
	method := syntax.NewMethod(nil, syntax.NewPredefinedType("void"), "A", nil,
		syntax.NewBlock(syntax.NewExpressionStatement(call)))

	return syntax.NewCompilationUnit(syntax.NewClass(nil, "C", method))
}

func caretAt(t *testing.T, root *syntax.Node, needle string) syntax.Span {
	t.Helper()

	pos := strings.Index(root.FullText(), needle)
	require.GreaterOrEqual(t, pos, 0, "needle %q", needle)

	return syntax.NewSpan(pos, 0)
}

func dispatch(t *testing.T, eng *refactor.Engine, doc *refactor.Document, span syntax.Span, settings refactor.Settings) refactor.Result {
	t.Helper()

	res, err := eng.Dispatch(context.Background(), refactor.Request{Document: doc, Span: span, Settings: settings})
	require.NoError(t, err)

	return res
}

func keys(actions []refactor.Action) []string {
	out := make([]string, len(actions))
	for i, a := range actions {
		out[i] = a.EquivalenceKey
	}

	return out
}

func TestEngine_OrdersInnermostFirstThenRegistration(t *testing.T) {
	t.Parallel()

	reg, err := refactor.NewRegistry(
		&stubRule{id: "outer", kinds: []syntax.Kind{syntax.ClassDeclaration}},
		&stubRule{id: "inner-a", kinds: []syntax.Kind{syntax.InvocationExpression}},
		&stubRule{id: "inner-b", kinds: []syntax.Kind{syntax.InvocationExpression}},
	)
	require.NoError(t, err)

	root := sampleTree()
	doc := refactor.NewDocument("a.cs", root, nil)

	res := dispatch(t, refactor.NewEngine(reg), doc, caretAt(t, root, "Foo"), refactor.DefaultSettings())

	assert.False(t, res.Cancelled)
	assert.Empty(t, res.Failures)
	assert.Equal(t, []string{"inner-a", "inner-b", "outer"}, keys(res.Actions))
	assert.Equal(t, "inner-a on InvocationExpression", res.Actions[0].Title)
}

func TestEngine_DeduplicatesEquivalenceKeys(t *testing.T) {
	t.Parallel()

	reg := refactor.MustRegistry(&stubRule{
		id:    "anywhere",
		kinds: []syntax.Kind{syntax.InvocationExpression, syntax.ExpressionStatement, syntax.Block},
	})

	root := sampleTree()
	res := dispatch(t, refactor.NewEngine(reg), refactor.NewDocument("a.cs", root, nil),
		caretAt(t, root, "Foo"), refactor.DefaultSettings())

	require.Len(t, res.Actions, 1)
	assert.Equal(t, "anywhere on InvocationExpression", res.Actions[0].Title)
}

func TestEngine_VariantsKeepDistinctKeys(t *testing.T) {
	t.Parallel()

	reg := refactor.MustRegistry(&stubRule{id: "variant", kinds: []syntax.Kind{syntax.InvocationExpression}, variant: "multi"})

	root := sampleTree()
	res := dispatch(t, refactor.NewEngine(reg), refactor.NewDocument("a.cs", root, nil),
		caretAt(t, root, "Foo"), refactor.DefaultSettings())

	assert.Equal(t, []string{"variant.multi"}, keys(res.Actions))
}

func TestEngine_SkipsDisabledRules(t *testing.T) {
	t.Parallel()

	reg := refactor.MustRegistry(
		&stubRule{id: "kept", kinds: []syntax.Kind{syntax.InvocationExpression}},
		&stubRule{id: "dropped", kinds: []syntax.Kind{syntax.InvocationExpression}},
	)

	root := sampleTree()
	settings := refactor.SettingsFromEnablement(map[string]bool{"kept": true, "dropped": false})
	res := dispatch(t, refactor.NewEngine(reg), refactor.NewDocument("a.cs", root, nil),
		caretAt(t, root, "Foo"), settings)

	assert.Equal(t, []string{"kept"}, keys(res.Actions))
}

func TestEngine_IsolatesPanickingRule(t *testing.T) {
	t.Parallel()

	reg := refactor.MustRegistry(
		&stubRule{id: "broken", kinds: []syntax.Kind{syntax.InvocationExpression}, panics: true},
		&stubRule{id: "healthy", kinds: []syntax.Kind{syntax.InvocationExpression}},
	)

	root := sampleTree()
	res := dispatch(t, refactor.NewEngine(reg), refactor.NewDocument("a.cs", root, nil),
		caretAt(t, root, "Foo"), refactor.DefaultSettings())

	assert.Equal(t, []string{"healthy"}, keys(res.Actions))
	require.Len(t, res.Failures, 1)
	assert.Equal(t, "broken", res.Failures[0].RuleID)
	assert.ErrorIs(t, res.Failures[0].Err, refactor.ErrRuleDefect)
}

func TestEngine_SemanticRuleNeedsProvider(t *testing.T) {
	t.Parallel()

	reg := refactor.MustRegistry(&staticTypeRule{stubRule{id: "typed", kinds: []syntax.Kind{syntax.InvocationExpression}}})
	eng := refactor.NewEngine(reg)
	root := sampleTree()
	caret := caretAt(t, root, "Foo")

	res := dispatch(t, eng, refactor.NewDocument("a.cs", root, nil), caret, refactor.DefaultSettings())
	assert.Empty(t, res.Actions)

	call := root.FindNode(caret).FirstAncestorOrSelf(syntax.InvocationExpression)
	require.NotNil(t, call)

	fixture := semantic.NewFixture().BindType(call, semantic.Type{Name: "Result", Kind: semantic.TypeClass})
	res = dispatch(t, eng, refactor.NewDocument("a.cs", root, semantic.Static(fixture)), caret, refactor.DefaultSettings())

	require.Len(t, res.Actions, 1)
	assert.Equal(t, "typed Result", res.Actions[0].Title)
}

func TestEngine_SemanticGateRejectsUnresolved(t *testing.T) {
	t.Parallel()

	reg := refactor.MustRegistry(&staticTypeRule{stubRule{id: "typed", kinds: []syntax.Kind{syntax.InvocationExpression}}})
	root := sampleTree()

	res := dispatch(t, refactor.NewEngine(reg), refactor.NewDocument("a.cs", root, semantic.Static(semantic.NewFixture())),
		caretAt(t, root, "Foo"), refactor.DefaultSettings())

	assert.Empty(t, res.Actions)
	assert.Empty(t, res.Failures)
}

func TestEngine_CancellationYieldsEmptyResult(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	blocking := semantic.ProviderFunc(func(ctx context.Context, _ *syntax.Node) (semantic.Oracle, error) {
		cancel()
		<-ctx.Done()

		return nil, ctx.Err()
	})

	reg := refactor.MustRegistry(
		&stubRule{id: "plain", kinds: []syntax.Kind{syntax.InvocationExpression}},
		&staticTypeRule{stubRule{id: "typed", kinds: []syntax.Kind{syntax.InvocationExpression}}},
	)

	root := sampleTree()
	res, err := refactor.NewEngine(reg, refactor.WithMaxConcurrency(1)).Dispatch(ctx, refactor.Request{
		Document: refactor.NewDocument("a.cs", root, blocking),
		Span:     caretAt(t, root, "Foo"),
	})

	require.NoError(t, err)
	assert.True(t, res.Cancelled)
	assert.Empty(t, res.Actions)
	assert.Empty(t, res.Failures)
}

func TestEngine_RejectsBadRequests(t *testing.T) {
	t.Parallel()

	eng := refactor.NewEngine(refactor.MustRegistry())

	_, err := eng.Dispatch(context.Background(), refactor.Request{})
	require.ErrorIs(t, err, refactor.ErrNoDocument)

	root := sampleTree()
	doc := refactor.NewDocument("a.cs", root, nil)

	_, err = eng.Dispatch(context.Background(), refactor.Request{Document: doc, Span: syntax.Span{Start: 0, End: root.FullSpan().End + 1}})
	require.ErrorIs(t, err, refactor.ErrSpanOutOfRange)

	_, err = eng.Dispatch(context.Background(), refactor.Request{Document: doc, Span: syntax.Span{Start: 4, End: 2}})
	require.ErrorIs(t, err, refactor.ErrSpanOutOfRange)
}

func TestAction_ComputeIsLazyAndImmutable(t *testing.T) {
	t.Parallel()

	exporter := tracetest.NewInMemoryExporter()
	tp := trace.NewTracerProvider(trace.WithSyncer(exporter))

	reg := refactor.MustRegistry(&stubRule{id: "rename", kinds: []syntax.Kind{syntax.InvocationExpression}})
	eng := refactor.NewEngine(reg, refactor.WithTracer(tp.Tracer("test")))

	root := sampleTree()
	doc := refactor.NewDocument("a.cs", root, nil)
	res := dispatch(t, eng, doc, caretAt(t, root, "Foo"), refactor.DefaultSettings())
	require.Len(t, res.Actions, 1)

	out, err := res.Actions[0].Compute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "class C { void A() { Bar(x); } }", out.Text())
	assert.Equal(t, 1, out.Version())
	assert.Equal(t, "class C { void A() { Foo(x); } }", doc.Text())
	assert.Equal(t, 0, doc.Version())

	again, err := res.Actions[0].Compute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, out.Text(), again.Text())

	var names []string
	for _, s := range exporter.GetSpans() {
		names = append(names, s.Name)
	}

	assert.Contains(t, names, "refactor.dispatch")
	assert.Contains(t, names, "refactor.compute")
}

func TestAction_ComputeHonorsCancellation(t *testing.T) {
	t.Parallel()

	reg := refactor.MustRegistry(&stubRule{id: "rename", kinds: []syntax.Kind{syntax.InvocationExpression}})
	root := sampleTree()
	doc := refactor.NewDocument("a.cs", root, nil)
	res := dispatch(t, refactor.NewEngine(reg), doc, caretAt(t, root, "Foo"), refactor.DefaultSettings())
	require.Len(t, res.Actions, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := res.Actions[0].Compute(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Same(t, doc, out)
}

func TestAction_ComputeWrapsBuildErrors(t *testing.T) {
	t.Parallel()

	cause := errors.New("no such node")
	reg := refactor.MustRegistry(&stubRule{id: "failing", kinds: []syntax.Kind{syntax.InvocationExpression}, buildErr: cause})
	root := sampleTree()
	doc := refactor.NewDocument("a.cs", root, nil)
	res := dispatch(t, refactor.NewEngine(reg), doc, caretAt(t, root, "Foo"), refactor.DefaultSettings())
	require.Len(t, res.Actions, 1)

	out, err := res.Actions[0].Compute(context.Background())
	require.ErrorIs(t, err, refactor.ErrRuleDefect)
	require.ErrorIs(t, err, cause)
	assert.Same(t, doc, out)
}

func TestRegistry_Validation(t *testing.T) {
	t.Parallel()

	invocation := []syntax.Kind{syntax.InvocationExpression}

	_, err := refactor.NewRegistry(&stubRule{id: "same", kinds: invocation}, &stubRule{id: "same", kinds: invocation})
	require.ErrorIs(t, err, refactor.ErrDuplicateRule)

	_, err = refactor.NewRegistry(&stubRule{id: "empty"})
	require.ErrorIs(t, err, refactor.ErrInvalidRule)

	_, err = refactor.NewRegistry(&stubRule{id: "Not Kebab", kinds: invocation})
	require.ErrorIs(t, err, refactor.ErrInvalidRule)

	_, err = refactor.NewRegistry(&stubRule{id: "token", kinds: []syntax.Kind{syntax.IdentifierToken}})
	require.ErrorIs(t, err, refactor.ErrInvalidRule)

	reg, err := refactor.NewRegistry(
		&stubRule{id: "first", kinds: invocation},
		&stubRule{id: "second", kinds: []syntax.Kind{syntax.Block, syntax.InvocationExpression}},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, reg.IDs())
	assert.Len(t, reg.ForKind(syntax.InvocationExpression), 2)
	assert.Len(t, reg.ForKind(syntax.Block), 1)
	assert.Empty(t, reg.ForKind(syntax.ClassDeclaration))

	got, ok := reg.Lookup("second")
	require.True(t, ok)
	assert.Equal(t, "Stub second", got.Title)
}

func TestSettings(t *testing.T) {
	t.Parallel()

	assert.True(t, refactor.DefaultSettings().Enabled("anything"))
	assert.False(t, refactor.DisableRules("a", "b").Enabled("b"))

	s := refactor.SettingsFromEnablement(map[string]bool{"on": true, "off": false})
	assert.True(t, s.Enabled("on"))
	assert.False(t, s.Enabled("off"))
	assert.True(t, s.Enabled("unlisted"))
}

func TestContext_RegisterOutsideCollection(t *testing.T) {
	t.Parallel()

	rc := refactor.NewContext(refactor.NewDocument("a.cs", sampleTree(), nil), syntax.Span{}, refactor.DefaultSettings())
	assert.Equal(t, refactor.StateIdle, rc.State())

	_, err := rc.Register(refactor.Action{EquivalenceKey: "x"})
	require.ErrorIs(t, err, refactor.ErrContextClosed)

	assert.Empty(t, rc.Actions())
	assert.Equal(t, refactor.StateClosed, rc.State())

	_, err = rc.Register(refactor.Action{EquivalenceKey: "x"})
	require.ErrorIs(t, err, refactor.ErrContextClosed)
}
