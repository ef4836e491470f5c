package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Sumatoshi-tech/codemend/pkg/config"
	"github.com/Sumatoshi-tech/codemend/pkg/observability"
	"github.com/Sumatoshi-tech/codemend/pkg/parse"
	"github.com/Sumatoshi-tech/codemend/pkg/refactor"
	"github.com/Sumatoshi-tech/codemend/pkg/rules"
	"github.com/Sumatoshi-tech/codemend/pkg/semantic"
	"github.com/Sumatoshi-tech/codemend/pkg/semantic/declindex"
	"github.com/Sumatoshi-tech/codemend/pkg/syntax"
	"github.com/Sumatoshi-tech/codemend/pkg/version"
)

// app is everything a subcommand needs to dispatch refactorings.
type app struct {
	cfg       *config.Config
	providers observability.Providers
	metrics   *observability.RefactorMetrics
	engine    *refactor.Engine
	parser    parse.Parser
	provider  semantic.Provider
	settings  refactor.Settings
	logger    *slog.Logger
}

// newApp loads configuration and wires telemetry, the parser, the oracle
// and the engine for one run mode.
func newApp(ctx context.Context, opts *rootOptions, mode observability.AppMode) (*app, error) {
	cfg, err := config.LoadConfig(opts.configFile)
	if err != nil {
		return nil, err
	}

	obsCfg := cfg.Observability(mode, version.Version)

	switch {
	case opts.verbose:
		obsCfg.LogLevel = slog.LevelDebug
	case opts.quiet:
		obsCfg.LogLevel = slog.LevelError
	}

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return nil, fmt.Errorf("init observability: %w", err)
	}

	metrics, err := observability.NewRefactorMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("create metrics: %w", err)
	}

	if providers.MetricsHandler != nil && cfg.Telemetry.MetricsAddr != "" {
		go func() {
			serveErr := observability.ServeMetrics(ctx, cfg.Telemetry.MetricsAddr, providers.MetricsHandler, providers.Logger)
			if serveErr != nil {
				providers.Logger.Error("metrics endpoint stopped", "error", serveErr)
			}
		}()
	}

	provider := semantic.TracingProvider(
		semantic.CachingProvider(declindex.Provider(), cfg.Engine.OracleCacheSize),
		providers.Tracer,
	)

	engine := refactor.NewEngine(rules.Default(),
		refactor.WithLogger(providers.Logger),
		refactor.WithTracer(providers.Tracer),
		refactor.WithMetrics(metrics),
		refactor.WithMaxConcurrency(cfg.Engine.MaxConcurrency),
		refactor.WithFormatOptions(cfg.Format.RewriteOptions()),
	)

	return &app{
		cfg:       cfg,
		providers: providers,
		metrics:   metrics,
		engine:    engine,
		parser:    parse.NewCSharp(),
		provider:  provider,
		settings:  cfg.Rules.Settings(),
		logger:    providers.Logger,
	}, nil
}

// close flushes telemetry.
func (a *app) close() {
	shutdownErr := a.providers.Shutdown(context.Background())
	if shutdownErr != nil {
		a.logger.Warn("observability shutdown failed", "error", shutdownErr)
	}
}

// document parses src into a refactoring document.
func (a *app) document(ctx context.Context, path string, src []byte) (*refactor.Document, error) {
	root, err := a.parser.Parse(ctx, path, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return refactor.NewDocument(path, root, a.provider), nil
}

// dispatch lists the actions at span and logs rule failures.
func (a *app) dispatch(ctx context.Context, doc *refactor.Document, span syntax.Span) (refactor.Result, error) {
	res, err := a.engine.Dispatch(ctx, refactor.Request{Document: doc, Span: span, Settings: a.settings})
	if err != nil {
		return refactor.Result{}, fmt.Errorf("dispatch: %w", err)
	}

	for _, failure := range res.Failures {
		a.logger.ErrorContext(ctx, "rule failed", "rule", failure.RuleID, "path", doc.Path(), "error", failure.Err)
	}

	return res, nil
}
