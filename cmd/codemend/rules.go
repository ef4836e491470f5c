package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/codemend/pkg/config"
	"github.com/Sumatoshi-tech/codemend/pkg/rules"
)

// ruleRow describes one catalog rule for listings.
type ruleRow struct {
	ID        string   `yaml:"id"`
	Title     string   `yaml:"title"`
	ConfigKey string   `yaml:"config_key"`
	Kinds     []string `yaml:"kinds"`
	Enabled   bool     `yaml:"enabled"`
}

func rulesCmd(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the rule catalog",
		Long: `List every refactoring rule, the node kinds it triggers on and whether
the loaded configuration enables it.

Examples:
  codemend rules               # Table
  codemend rules -f yaml       # YAML, keyed like the rules: config section`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRules(cmd.OutOrStdout(), opts, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format (table, yaml)")

	return cmd
}

func runRules(w io.Writer, opts *rootOptions, format string) error {
	cfg, err := config.LoadConfig(opts.configFile)
	if err != nil {
		return err
	}

	settings := cfg.Rules.Settings()
	regs := rules.Default().Registrations()
	rows := make([]ruleRow, len(regs))

	for i, reg := range regs {
		kinds := make([]string, len(reg.Kinds))
		for j, k := range reg.Kinds {
			kinds[j] = k.String()
		}

		rows[i] = ruleRow{
			ID:        reg.ID,
			Title:     reg.Title,
			ConfigKey: config.RuleKey(reg.ID),
			Kinds:     kinds,
			Enabled:   settings.Enabled(reg.ID),
		}
	}

	switch format {
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		if err := enc.Encode(rows); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}

		return enc.Close()
	case formatTable:
		tbl := table.NewWriter()
		tbl.SetOutputMirror(w)
		tbl.SetStyle(table.StyleLight)
		tbl.Style().Options.DrawBorder = false

		tbl.AppendHeader(table.Row{"ID", "Title", "Kinds", "Enabled"})

		for _, row := range rows {
			tbl.AppendRow(table.Row{row.ID, row.Title, strings.Join(row.Kinds, ", "), row.Enabled})
		}

		tbl.Render()

		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}
