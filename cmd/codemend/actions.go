package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/codemend/pkg/observability"
	"github.com/Sumatoshi-tech/codemend/pkg/refactor"
)

// ErrUnsupportedFormat is returned for an unknown --format value.
var ErrUnsupportedFormat = errors.New("unsupported format")

// actionRow is the JSON shape of one listed action.
type actionRow struct {
	Title string `json:"title"`
	Key   string `json:"key"`
	Rule  string `json:"rule"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

func actionsCmd(opts *rootOptions) *cobra.Command {
	var (
		sel    selectionFlags
		format string
	)

	cmd := &cobra.Command{
		Use:   "actions FILE",
		Short: "List the refactorings available at a position",
		Long: `List the refactorings available at a caret or selection in a C# file.

Examples:
  codemend actions Program.cs --offset 120            # Caret at byte 120
  codemend actions Program.cs --line 12 --column 9    # Caret at line 12, column 9
  codemend actions Program.cs --line 12 -f json       # JSON output`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runActions(cmd, opts, args[0], &sel, format)
		},
	}

	sel.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format (table, json)")

	return cmd
}

func runActions(cmd *cobra.Command, opts *rootOptions, file string, sel *selectionFlags, format string) error {
	if format != formatTable && format != formatJSON {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	ctx := cmd.Context()

	a, err := newApp(ctx, opts, observability.ModeCLI)
	if err != nil {
		return err
	}
	defer a.close()

	res, _, err := a.actionsAt(ctx, file, sel)
	if err != nil {
		return err
	}

	if !opts.quiet {
		reportFailures(cmd.ErrOrStderr(), res.Failures)
	}

	rows := make([]actionRow, len(res.Actions))
	for i, action := range res.Actions {
		rows[i] = actionRow{
			Title: action.Title,
			Key:   action.EquivalenceKey,
			Rule:  action.RuleID,
			Start: action.Span.Start,
			End:   action.Span.End,
		}
	}

	if format == formatJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")

		if encodeErr := enc.Encode(rows); encodeErr != nil {
			return fmt.Errorf("failed to encode JSON: %w", encodeErr)
		}

		return nil
	}

	renderActions(cmd.OutOrStdout(), rows)

	return nil
}

// actionsAt reads file and dispatches at the selection.
func (a *app) actionsAt(ctx context.Context, file string, sel *selectionFlags) (refactor.Result, *refactor.Document, error) {
	src, path, err := safeReadFile(file, a.cfg.Limits.MaxDocumentBytes)
	if err != nil {
		return refactor.Result{}, nil, err
	}

	span, err := sel.span(src)
	if err != nil {
		return refactor.Result{}, nil, err
	}

	doc, err := a.document(ctx, path, src)
	if err != nil {
		return refactor.Result{}, nil, err
	}

	res, err := a.dispatch(ctx, doc, span)
	if err != nil {
		return refactor.Result{}, nil, err
	}

	return res, doc, nil
}

func renderActions(w io.Writer, rows []actionRow) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No refactorings available here.")

		return
	}

	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.DrawBorder = false

	tbl.AppendHeader(table.Row{"#", "Title", "Key", "Span"})

	for i, row := range rows {
		tbl.AppendRow(table.Row{i + 1, row.Title, row.Key, fmt.Sprintf("[%d..%d)", row.Start, row.End)})
	}

	tbl.AppendFooter(table.Row{"", fmt.Sprintf("Total: %d", len(rows))})
	tbl.Render()
}

func reportFailures(w io.Writer, failures []refactor.Failure) {
	warn := color.New(color.FgYellow)

	for _, failure := range failures {
		warn.Fprintf(w, "skipped %s: %v\n", failure.RuleID, failure.Err)
	}
}
