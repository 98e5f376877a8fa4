// Package completion implements the completion command.
package completion

import (
	"github.com/spf13/cobra"

	"github.com/fvarrui/dbtools/internal/cmd/constants"
	"github.com/fvarrui/dbtools/pkg/errors"
)

// NewCommand creates the completion command.
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "completion [bash|zsh|fish|powershell]",
		GroupID: "management",
		Short:   "Generate shell completion script",
		Long: `To load completions:

Bash:

  $ source <(dbtools completion bash)

  # To load completions for each session, execute once:
  $ dbtools completion bash > /etc/bash_completion.d/dbtools

Zsh:

  # To load completions for each session, execute once:
  $ dbtools completion zsh > "${fpath[1]}/_dbtools"

Fish:

  $ dbtools completion fish | source

PowerShell:

  PS> dbtools completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             constants.Shells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			out := cmd.OutOrStdout()
			switch args[0] {
			case constants.ShellBash:
				return root.GenBashCompletionV2(out, true)
			case constants.ShellZsh:
				return root.GenZshCompletion(out)
			case constants.ShellFish:
				return root.GenFishCompletion(out, true)
			case constants.ShellPowerShell:
				return root.GenPowerShellCompletionWithDesc(out)
			}
			return errors.Unsupported("shell", args[0])
		},
	}
}
