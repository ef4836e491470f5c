package semantic

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/codemend/pkg/syntax"
)

// Traced records a span around every oracle call.
type Traced struct {
	inner  Oracle
	tracer trace.Tracer
}

// WithTracing wraps inner so each call emits a "semantic.*" span.
func WithTracing(inner Oracle, tracer trace.Tracer) *Traced {
	return &Traced{inner: inner, tracer: tracer}
}

// SymbolOf implements Oracle.
func (t *Traced) SymbolOf(ctx context.Context, n *syntax.Node) (Symbol, error) {
	ctx, span := t.tracer.Start(ctx, "semantic.symbol_of", trace.WithAttributes(
		attribute.String("syntax.kind", n.Kind().String()),
		attribute.Int("syntax.start", n.Span().Start),
	))
	defer span.End()

	sym, err := t.inner.SymbolOf(ctx, n)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return sym, err
	}

	span.SetAttributes(
		attribute.Bool("semantic.resolved", sym.Resolved()),
		attribute.String("semantic.symbol_kind", sym.Kind.String()),
	)

	return sym, nil
}

// TypeOf implements Oracle.
func (t *Traced) TypeOf(ctx context.Context, n *syntax.Node) (Type, error) {
	ctx, span := t.tracer.Start(ctx, "semantic.type_of", trace.WithAttributes(
		attribute.String("syntax.kind", n.Kind().String()),
		attribute.Int("syntax.start", n.Span().Start),
	))
	defer span.End()

	typ, err := t.inner.TypeOf(ctx, n)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return typ, err
	}

	span.SetAttributes(
		attribute.Bool("semantic.resolved", typ.Resolved()),
		attribute.String("semantic.type", typ.String()),
	)

	return typ, nil
}

// NamesInScope implements Oracle.
func (t *Traced) NamesInScope(ctx context.Context, pos int) ([]string, error) {
	ctx, span := t.tracer.Start(ctx, "semantic.names_in_scope", trace.WithAttributes(
		attribute.Int("syntax.position", pos),
	))
	defer span.End()

	names, err := t.inner.NamesInScope(ctx, pos)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return nil, err
	}

	span.SetAttributes(attribute.Int("semantic.names", len(names)))

	return names, nil
}

// TracingProvider wraps every oracle produced by inner with tracing.
func TracingProvider(inner Provider, tracer trace.Tracer) Provider {
	return ProviderFunc(func(ctx context.Context, root *syntax.Node) (Oracle, error) {
		ctx, span := tracer.Start(ctx, "semantic.resolve")
		defer span.End()

		o, err := inner.Oracle(ctx, root)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())

			return nil, err
		}

		return WithTracing(o, tracer), nil
	})
}
