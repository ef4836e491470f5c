package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricDispatchTotal    = "codemend.dispatch.total"
	metricDispatchDuration = "codemend.dispatch.duration.seconds"
	metricEvaluationsTotal = "codemend.rule.evaluations.total"
	metricActionsTotal     = "codemend.actions.total"
	metricDefectsTotal     = "codemend.rule.defects.total"
	metricComputeTotal     = "codemend.compute.total"
	metricInflight         = "codemend.dispatch.inflight"
	metricRequestsTotal    = "codemend.requests.total"
	metricRequestDuration  = "codemend.request.duration.seconds"

	attrRule    = "rule"
	attrOutcome = "outcome"
	attrStatus  = "status"
	attrOp      = "op"

	// OutcomeMatched marks an evaluation that registered an action.
	OutcomeMatched = "matched"
	// OutcomeSkipped marks an evaluation that declined.
	OutcomeSkipped = "skipped"
	// OutcomeDefect marks an evaluation that panicked or failed.
	OutcomeDefect = "defect"

	// StatusOK marks a completed dispatch or computation.
	StatusOK = "ok"
	// StatusCancelled marks a cancelled dispatch or computation.
	StatusCancelled = "cancelled"
	// StatusError marks a failed computation.
	StatusError = "error"
)

// dispatchBuckets covers 100µs to 5s: dispatch is interactive.
var dispatchBuckets = []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}

// RefactorMetrics holds the instruments of the refactoring engine. A nil
// *RefactorMetrics is valid and records nothing.
type RefactorMetrics struct {
	dispatchTotal    metric.Int64Counter
	dispatchDuration metric.Float64Histogram
	evaluationsTotal metric.Int64Counter
	actionsTotal     metric.Int64Counter
	defectsTotal     metric.Int64Counter
	computeTotal     metric.Int64Counter
	inflight         metric.Int64UpDownCounter
	requestsTotal    metric.Int64Counter
	requestDuration  metric.Float64Histogram
}

// NewRefactorMetrics creates the engine instruments from mt.
func NewRefactorMetrics(mt metric.Meter) (*RefactorMetrics, error) {
	b := newMetricBuilder(mt)

	m := &RefactorMetrics{
		dispatchTotal:    b.counter(metricDispatchTotal, "Refactoring dispatches", "{dispatch}"),
		dispatchDuration: b.histogram(metricDispatchDuration, "Dispatch duration in seconds", "s", dispatchBuckets...),
		evaluationsTotal: b.counter(metricEvaluationsTotal, "Rule evaluations by outcome", "{evaluation}"),
		actionsTotal:     b.counter(metricActionsTotal, "Actions registered", "{action}"),
		defectsTotal:     b.counter(metricDefectsTotal, "Rule defects recovered", "{defect}"),
		computeTotal:     b.counter(metricComputeTotal, "Deferred action computations", "{computation}"),
		inflight:         b.upDownCounter(metricInflight, "Dispatches in flight", "{dispatch}"),
		requestsTotal:    b.counter(metricRequestsTotal, "Host requests by operation", "{request}"),
		requestDuration:  b.histogram(metricRequestDuration, "Host request duration in seconds", "s", dispatchBuckets...),
	}

	if b.err != nil {
		return nil, b.err
	}

	return m, nil
}

// RecordDispatch records a finished dispatch.
func (m *RefactorMetrics) RecordDispatch(ctx context.Context, duration time.Duration, actions int, cancelled bool) {
	if m == nil {
		return
	}

	status := StatusOK
	if cancelled {
		status = StatusCancelled
	}

	attrs := metric.WithAttributes(attribute.String(attrStatus, status))

	m.dispatchTotal.Add(ctx, 1, attrs)
	m.dispatchDuration.Record(ctx, duration.Seconds(), attrs)
	m.actionsTotal.Add(ctx, int64(actions))
}

// RecordEvaluation records one (node, rule) evaluation.
func (m *RefactorMetrics) RecordEvaluation(ctx context.Context, ruleID, outcome string) {
	if m == nil {
		return
	}

	m.evaluationsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrRule, ruleID),
		attribute.String(attrOutcome, outcome),
	))

	if outcome == OutcomeDefect {
		m.defectsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrRule, ruleID)))
	}
}

// RecordCompute records a deferred action computation.
func (m *RefactorMetrics) RecordCompute(ctx context.Context, ruleID, status string) {
	if m == nil {
		return
	}

	m.computeTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrRule, ruleID),
		attribute.String(attrStatus, status),
	))

	if status == StatusError {
		m.defectsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrRule, ruleID)))
	}
}

// TrackInflight increments the in-flight gauge and returns the decrement.
func (m *RefactorMetrics) TrackInflight(ctx context.Context) func() {
	if m == nil {
		return func() {}
	}

	m.inflight.Add(ctx, 1)

	return func() { m.inflight.Add(ctx, -1) }
}

// RecordRequest records one host request such as an MCP tool call.
func (m *RefactorMetrics) RecordRequest(ctx context.Context, op, status string, duration time.Duration) {
	if m == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String(attrOp, op), attribute.String(attrStatus, status))

	m.requestsTotal.Add(ctx, 1, attrs)
	m.requestDuration.Record(ctx, duration.Seconds(), attrs)
}
