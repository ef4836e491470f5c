package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// ErrUnsupportedShell is returned when an unsupported shell is specified.
var ErrUnsupportedShell = errors.New("unsupported shell")

func completionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [shell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for codemend.

Examples:
  codemend completion bash                  # Generate bash completion
  codemend completion zsh                   # Generate zsh completion
  codemend completion fish                  # Generate fish completion`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			out := cmd.OutOrStdout()

			var err error

			switch args[0] {
			case "bash":
				err = root.GenBashCompletion(out)
			case "zsh":
				err = root.GenZshCompletion(out)
			case "fish":
				err = root.GenFishCompletion(out, true)
			case "powershell":
				err = root.GenPowerShellCompletion(out)
			default:
				return fmt.Errorf("%w: %s", ErrUnsupportedShell, args[0])
			}

			if err != nil {
				return fmt.Errorf("generate %s completion: %w", args[0], err)
			}

			return nil
		},
	}

	return cmd
}
