package refactor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"github.com/Sumatoshi-tech/codemend/pkg/observability"
	"github.com/Sumatoshi-tech/codemend/pkg/rewrite"
	"github.com/Sumatoshi-tech/codemend/pkg/syntax"
)

// Request errors.
var (
	ErrNoDocument     = errors.New("no document")
	ErrSpanOutOfRange = errors.New("span out of range")
)

// Request is one code-action query.
type Request struct {
	Document *Document
	Span     syntax.Span
	Settings Settings
}

// Failure records a rule that was skipped because it misbehaved.
type Failure struct {
	RuleID string
	Err    error
}

// Result is the outcome of a dispatch.
type Result struct {
	Actions   []Action
	Failures  []Failure
	Cancelled bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithTracer sets the tracer for dispatch and compute spans.
func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) {
		if t != nil {
			e.tracer = t
		}
	}
}

// WithMetrics sets the metric instruments.
func WithMetrics(m *observability.RefactorMetrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithMaxConcurrency bounds how many rules are evaluated at once.
func WithMaxConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxConcurrency = n
		}
	}
}

// WithFormatOptions sets the options of the post-build formatter pass.
func WithFormatOptions(opts rewrite.Options) Option {
	return func(e *Engine) { e.format = opts }
}

// Engine dispatches rules from a registry against selections.
type Engine struct {
	registry       *Registry
	logger         *slog.Logger
	tracer         trace.Tracer
	metrics        *observability.RefactorMetrics
	maxConcurrency int
	format         rewrite.Options
}

// NewEngine creates an engine over reg.
func NewEngine(reg *Registry, opts ...Option) *Engine {
	e := &Engine{
		registry:       reg,
		logger:         slog.New(slog.DiscardHandler),
		tracer:         noop.NewTracerProvider().Tracer(""),
		maxConcurrency: runtime.GOMAXPROCS(0),
		format:         rewrite.DefaultOptions(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Registry returns the rule registry.
func (e *Engine) Registry() *Registry { return e.registry }

type candidate struct {
	reg  Registration
	node *syntax.Node
}

type evaluation struct {
	action  *Action
	failure *Failure
}

// Dispatch evaluates every enabled rule registered for the node covering
// the span and its ancestors, innermost first. Actions are returned in
// (node depth, registration order) order with duplicate equivalence keys
// dropped. A cancelled dispatch returns an empty result flagged Cancelled.
func (e *Engine) Dispatch(ctx context.Context, req Request) (Result, error) {
	if req.Document == nil || req.Document.Root() == nil {
		return Result{}, ErrNoDocument
	}

	full := req.Document.Root().FullSpan()
	if req.Span.Start > req.Span.End || req.Span.Start < full.Start || req.Span.End > full.End {
		return Result{}, fmt.Errorf("%w: %s not within %s", ErrSpanOutOfRange, req.Span, full)
	}

	ctx, span := e.tracer.Start(ctx, "refactor.dispatch", trace.WithAttributes(
		attribute.String("document.path", req.Document.Path()),
		attribute.Int("span.start", req.Span.Start),
		attribute.Int("span.end", req.Span.End),
	))
	defer span.End()

	done := e.metrics.TrackInflight(ctx)
	defer done()

	start := time.Now()
	rc := NewContext(req.Document, req.Span, req.Settings)

	err := rc.transition(StateIdle, StateDispatched)
	if err != nil {
		return Result{}, err
	}

	cands := e.candidates(rc)
	slots := make([]evaluation, len(cands))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.maxConcurrency)

	for i, c := range cands {
		g.Go(func() error {
			slots[i] = e.evaluate(gctx, rc, c)

			return nil
		})
	}

	_ = g.Wait()

	if ctx.Err() != nil {
		_ = rc.Actions() // closes the context
		e.metrics.RecordDispatch(ctx, time.Since(start), 0, true)
		span.SetAttributes(attribute.Bool("cancelled", true))
		e.logger.DebugContext(ctx, "dispatch cancelled", "path", req.Document.Path())

		return Result{Cancelled: true}, nil
	}

	err = rc.transition(StateDispatched, StateCollecting)
	if err != nil {
		return Result{}, err
	}

	var failures []Failure

	for _, s := range slots {
		if s.failure != nil {
			failures = append(failures, *s.failure)

			continue
		}

		if s.action == nil {
			continue
		}

		if _, regErr := rc.Register(*s.action); regErr != nil {
			return Result{}, regErr
		}
	}

	actions := rc.Actions()

	e.metrics.RecordDispatch(ctx, time.Since(start), len(actions), false)
	span.SetAttributes(
		attribute.Int("candidates", len(cands)),
		attribute.Int("actions", len(actions)),
		attribute.Int("failures", len(failures)),
	)

	if len(failures) > 0 {
		span.SetStatus(codes.Error, "rule defects")
	}

	return Result{Actions: actions, Failures: failures}, nil
}

func (e *Engine) candidates(rc *Context) []candidate {
	node := rc.Document().Root().FindNode(rc.Span())
	if node == nil {
		return nil
	}

	var out []candidate

	for _, n := range node.AncestorsAndSelf() {
		for _, reg := range e.registry.ForKind(n.Kind()) {
			if rc.IsRuleEnabled(reg.ID) {
				out = append(out, candidate{reg: reg, node: n})
			}
		}
	}

	return out
}

func (e *Engine) evaluate(ctx context.Context, rc *Context, c candidate) (res evaluation) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%w: rule %s panicked: %v", ErrRuleDefect, c.reg.ID, r)
			e.logger.ErrorContext(ctx, "rule panicked", "rule", c.reg.ID, "panic", r)
			e.metrics.RecordEvaluation(ctx, c.reg.ID, observability.OutcomeDefect)
			res = evaluation{failure: &Failure{RuleID: c.reg.ID, Err: err}}
		}
	}()

	if ctx.Err() != nil {
		return evaluation{}
	}

	rule := c.reg.Rule

	target := rule.Applicable(rc, c.node)
	if target == nil {
		e.metrics.RecordEvaluation(ctx, c.reg.ID, observability.OutcomeSkipped)

		return evaluation{}
	}

	var facts Facts

	if sr, ok := rule.(SemanticRule); ok {
		if !rc.SupportsSemantics() {
			e.metrics.RecordEvaluation(ctx, c.reg.ID, observability.OutcomeSkipped)

			return evaluation{}
		}

		f, pass, err := sr.Gate(ctx, rc, target)

		switch {
		case err != nil && ctx.Err() != nil:
			return evaluation{}
		case err != nil:
			e.logger.WarnContext(ctx, "semantic gate failed", "rule", c.reg.ID, "error", err)
			e.metrics.RecordEvaluation(ctx, c.reg.ID, observability.OutcomeDefect)

			return evaluation{failure: &Failure{RuleID: c.reg.ID, Err: fmt.Errorf("%w: rule %s: %w", ErrRuleDefect, c.reg.ID, err)}}
		case !pass:
			e.metrics.RecordEvaluation(ctx, c.reg.ID, observability.OutcomeSkipped)

			return evaluation{}
		}

		facts = f
	}

	title, variant := rule.Describe(target, facts)
	if title == "" {
		title = c.reg.Title
	}

	e.metrics.RecordEvaluation(ctx, c.reg.ID, observability.OutcomeMatched)

	action := Action{
		Title:          title,
		EquivalenceKey: EquivalenceKey(c.reg.ID, variant),
		RuleID:         c.reg.ID,
		Span:           target.Span(),
		compute:        e.computeFunc(rc.Document(), c.reg, target, facts),
	}

	return evaluation{action: &action}
}

func (e *Engine) computeFunc(doc *Document, reg Registration, target *syntax.Node, facts Facts) func(context.Context) (*Document, error) {
	return func(ctx context.Context) (out *Document, err error) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			e.metrics.RecordCompute(ctx, reg.ID, observability.StatusCancelled)

			return doc, ctxErr
		}

		ctx, span := e.tracer.Start(ctx, "refactor.compute", trace.WithAttributes(
			attribute.String("rule", reg.ID),
			attribute.String("document.path", doc.Path()),
		))
		defer span.End()

		defer func() {
			if r := recover(); r != nil {
				e.logger.ErrorContext(ctx, "rule panicked during build", "rule", reg.ID, "panic", r)
				out, err = doc, fmt.Errorf("%w: rule %s panicked: %v", ErrRuleDefect, reg.ID, r)
			}

			e.finishCompute(ctx, span, reg.ID, err)
		}()

		built, err := reg.Rule.Build(ctx, doc, target, facts)

		switch {
		case err != nil && ctx.Err() != nil:
			return doc, ctx.Err()
		case err != nil:
			return doc, fmt.Errorf("%w: rule %s: %w", ErrRuleDefect, reg.ID, err)
		case built == nil:
			return doc, fmt.Errorf("%w: rule %s built no document", ErrRuleDefect, reg.ID)
		}

		formatted, err := rewrite.Format(built.Root(), e.format)
		if err != nil {
			return doc, fmt.Errorf("format %s result: %w", reg.ID, err)
		}

		return built.withFormattedRoot(formatted), nil
	}
}

func (e *Engine) finishCompute(ctx context.Context, span trace.Span, ruleID string, err error) {
	switch {
	case err == nil:
		e.metrics.RecordCompute(ctx, ruleID, observability.StatusOK)
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		e.metrics.RecordCompute(ctx, ruleID, observability.StatusCancelled)
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		e.metrics.RecordCompute(ctx, ruleID, observability.StatusError)
	}
}
