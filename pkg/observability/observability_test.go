package observability_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Sumatoshi-tech/codemend/pkg/observability"
)

func TestTracingHandler_InjectsTraceContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	cfg := observability.DefaultConfig()
	cfg.LogJSON = true
	cfg.LogLevel = slog.LevelInfo
	cfg.Mode = observability.ModeLSP
	cfg.Environment = "test"

	logger := observability.NewLogger(&buf, cfg)

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	t.Cleanup(func() { require.NoError(t, tp.Shutdown(context.Background())) })

	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	logger.InfoContext(ctx, "hello")
	span.End()

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	assert.Equal(t, "hello", record["msg"])
	assert.Equal(t, "codemend", record["service"])
	assert.Equal(t, "lsp", record["mode"])
	assert.Equal(t, "test", record["env"])
	assert.Equal(t, span.SpanContext().TraceID().String(), record["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), record["span_id"])
}

func TestTracingHandler_NoSpan(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	cfg := observability.DefaultConfig()
	cfg.LogLevel = slog.LevelInfo

	logger := observability.NewLogger(&buf, cfg).WithGroup("g").With("k", "v")
	logger.Info("plain")

	out := buf.String()
	assert.Contains(t, out, "msg=plain")
	assert.Contains(t, out, "service=codemend")
	assert.Contains(t, out, "g.k=v")
	assert.NotContains(t, out, "trace_id")
}

func TestInit_DefaultsAreNoop(t *testing.T) {
	t.Parallel()

	providers, err := observability.Init(observability.DefaultConfig())
	require.NoError(t, err)

	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.Logger)
	assert.Nil(t, providers.MetricsHandler)
	require.NoError(t, providers.Shutdown(context.Background()))
}

func TestInit_PrometheusServesRefactorMetrics(t *testing.T) {
	t.Parallel()

	cfg := observability.DefaultConfig()
	cfg.Prometheus = true

	providers, err := observability.Init(cfg)
	require.NoError(t, err)

	t.Cleanup(func() { require.NoError(t, providers.Shutdown(context.Background())) })
	require.NotNil(t, providers.MetricsHandler)

	metrics, err := observability.NewRefactorMetrics(providers.Meter)
	require.NoError(t, err)

	metrics.RecordDispatch(context.Background(), 2*time.Millisecond, 3, false)

	srv := httptest.NewServer(providers.MetricsHandler)
	t.Cleanup(srv.Close)

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL, http.NoBody)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "codemend_dispatch")
}

func TestRefactorMetrics_Records(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	t.Cleanup(func() { require.NoError(t, mp.Shutdown(context.Background())) })

	metrics, err := observability.NewRefactorMetrics(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	done := metrics.TrackInflight(ctx)
	metrics.RecordEvaluation(ctx, "duplicate-argument", observability.OutcomeMatched)
	metrics.RecordEvaluation(ctx, "mark-class-as-static", observability.OutcomeDefect)
	metrics.RecordCompute(ctx, "duplicate-argument", observability.StatusOK)
	metrics.RecordDispatch(ctx, time.Millisecond, 1, false)
	metrics.RecordRequest(ctx, "mcp.codemend_list", observability.StatusOK, time.Millisecond)
	done()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	names := make(map[string]bool)

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			names[m.Name] = true
		}
	}

	for _, want := range []string{
		"codemend.dispatch.total", "codemend.dispatch.duration.seconds", "codemend.rule.evaluations.total",
		"codemend.actions.total", "codemend.rule.defects.total", "codemend.compute.total", "codemend.dispatch.inflight",
		"codemend.requests.total", "codemend.request.duration.seconds",
	} {
		assert.True(t, names[want], want)
	}
}

func TestRefactorMetrics_NilIsSafe(t *testing.T) {
	t.Parallel()

	var metrics *observability.RefactorMetrics

	ctx := context.Background()

	assert.NotPanics(t, func() {
		metrics.RecordDispatch(ctx, time.Second, 0, true)
		metrics.RecordEvaluation(ctx, "x", observability.OutcomeSkipped)
		metrics.RecordCompute(ctx, "x", observability.StatusError)
		metrics.TrackInflight(ctx)()
		metrics.RecordRequest(ctx, "x", observability.StatusOK, time.Second)
	})
}

func TestParseOTLPHeaders(t *testing.T) {
	t.Parallel()

	assert.Nil(t, observability.ParseOTLPHeaders(""))
	assert.Nil(t, observability.ParseOTLPHeaders("garbage"))
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, observability.ParseOTLPHeaders(" a = 1 ,b=2"))
}

func TestServeMetrics_StopsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)

	go func() {
		errCh <- observability.ServeMetrics(ctx, "127.0.0.1:0", http.NotFoundHandler(),
			slog.New(slog.NewTextHandler(io.Discard, nil)))
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("metrics server did not stop")
	}
}
