package main

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/codemend/pkg/lsp"
	"github.com/Sumatoshi-tech/codemend/pkg/observability"
	"github.com/Sumatoshi-tech/codemend/pkg/version"
)

func lspCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the language server (LSP, stdio)",
		Long: `Start a language server on stdio that offers codemend refactorings as
code actions (kind refactor.rewrite). Edits are computed on codeAction/resolve.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx, opts, observability.ModeLSP)
			if err != nil {
				return err
			}
			defer a.close()

			srv := lsp.NewServer(lsp.Deps{
				Engine:           a.engine,
				Parser:           a.parser,
				Provider:         a.provider,
				Settings:         a.settings,
				Logger:           a.logger,
				MaxDocumentBytes: a.cfg.Limits.MaxDocumentBytes,
				Version:          version.Version,
			})

			return srv.Run(ctx)
		},
	}

	return cmd
}
