package main

import (
	"math"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/codemend/pkg/mcp"
	"github.com/Sumatoshi-tech/codemend/pkg/observability"
	"github.com/Sumatoshi-tech/codemend/pkg/version"
)

func mcpCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

The MCP server exposes codemend refactorings as tools that AI agents can
discover and invoke:
  - codemend_list: List the refactorings available at a selection
  - codemend_apply: Apply one refactoring and return the rewritten code
  - codemend_rules: List the rule catalog`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx, opts, observability.ModeMCP)
			if err != nil {
				return err
			}
			defer a.close()

			srv := mcp.NewServer(mcp.ServerDeps{
				Engine:       a.engine,
				Parser:       a.parser,
				Provider:     a.provider,
				Settings:     a.settings,
				Logger:       a.logger,
				Metrics:      a.metrics,
				Tracer:       a.providers.Tracer,
				MaxCodeBytes: int(min(a.cfg.Limits.MaxDocumentBytes, math.MaxInt32)),
				Version:      version.Version,
			})

			return srv.Run(ctx)
		},
	}

	return cmd
}
