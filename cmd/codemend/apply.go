package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/codemend/pkg/observability"
	"github.com/Sumatoshi-tech/codemend/pkg/refactor"
	"github.com/Sumatoshi-tech/codemend/pkg/rewrite"
)

// Sentinel errors for the apply command.
var (
	ErrActionNotOffered = errors.New("no matching refactoring at this position")
	ErrAmbiguousAction  = errors.New("several refactorings match; pass the full key")
	ErrConflictingModes = errors.New("--write and --diff are mutually exclusive")
)

func applyCmd(opts *rootOptions) *cobra.Command {
	var (
		sel   selectionFlags
		key   string
		write bool
		diff  bool
	)

	cmd := &cobra.Command{
		Use:   "apply FILE --key KEY",
		Short: "Apply one refactoring",
		Long: `Apply the refactoring identified by KEY at a caret or selection.

KEY is an equivalence key printed by "codemend actions", or a rule id when
only one action of that rule is offered.

Examples:
  codemend apply Program.cs --line 12 --column 9 --key duplicate-argument
  codemend apply Program.cs --offset 120 --key add-cast-expression.int --diff
  codemend apply Program.cs --offset 120 --key mark-class-as-static --write`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if write && diff {
				return ErrConflictingModes
			}

			return runApply(cmd, opts, args[0], &sel, key, write, diff)
		},
	}

	sel.register(cmd)
	cmd.Flags().StringVarP(&key, "key", "k", "", "equivalence key or rule id of the refactoring")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the result back to FILE")
	cmd.Flags().BoolVarP(&diff, "diff", "d", false, "print a line diff instead of the rewritten file")

	_ = cmd.MarkFlagRequired("key")

	return cmd
}

func runApply(cmd *cobra.Command, opts *rootOptions, file string, sel *selectionFlags, key string, write, diff bool) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, opts, observability.ModeCLI)
	if err != nil {
		return err
	}
	defer a.close()

	res, doc, err := a.actionsAt(ctx, file, sel)
	if err != nil {
		return err
	}

	if !opts.quiet {
		reportFailures(cmd.ErrOrStderr(), res.Failures)
	}

	action, err := pickAction(res.Actions, key)
	if err != nil {
		return err
	}

	rewritten, err := action.Compute(ctx)
	if err != nil {
		return fmt.Errorf("apply %s: %w", action.EquivalenceKey, err)
	}

	out := cmd.OutOrStdout()

	switch {
	case diff:
		printDiff(out, doc.Text(), rewritten.Text())
	case write:
		if err := writeFileKeepMode(doc.Path(), []byte(rewritten.Text())); err != nil {
			return err
		}

		if !opts.quiet {
			edits := rewrite.Edits(doc.Text(), rewritten.Text())
			color.New(color.FgGreen).Fprintf(out, "%s: %s (%d edits)\n", doc.Path(), action.Title, len(edits))
		}
	default:
		fmt.Fprint(out, rewritten.Text())
	}

	if span, ok := rewritten.RenameTarget(); ok && opts.verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "rename target: %q at %s\n", rewritten.Text()[span.Start:span.End], span)
	}

	return nil
}

// pickAction selects by exact equivalence key first, then by unique rule id.
func pickAction(actions []refactor.Action, key string) (refactor.Action, error) {
	var byRule []refactor.Action

	for _, action := range actions {
		if action.EquivalenceKey == key {
			return action, nil
		}

		if action.RuleID == key {
			byRule = append(byRule, action)
		}
	}

	switch len(byRule) {
	case 0:
		return refactor.Action{}, fmt.Errorf("%w: %s", ErrActionNotOffered, key)
	case 1:
		return byRule[0], nil
	default:
		return refactor.Action{}, fmt.Errorf("%w: %s", ErrAmbiguousAction, key)
	}
}

func printDiff(w io.Writer, oldText, newText string) {
	added := color.New(color.FgGreen)
	removed := color.New(color.FgRed)

	for _, line := range rewrite.UnifiedDiff(oldText, newText) {
		switch line.Op {
		case rewrite.DiffAdded:
			added.Fprintf(w, "+%s\n", line.Text)
		case rewrite.DiffRemoved:
			removed.Fprintf(w, "-%s\n", line.Text)
		case rewrite.DiffContext:
			fmt.Fprintf(w, " %s\n", line.Text)
		}
	}
}
