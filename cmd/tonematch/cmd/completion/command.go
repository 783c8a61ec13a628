// Package completion provides the shell completion command.
package completion

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/tonematch/internal/cmd/constants"
)

// generators maps each supported shell to its cobra script generator.
var generators = map[string]func(root *cobra.Command, w io.Writer) error{
	constants.ShellBash: func(root *cobra.Command, w io.Writer) error {
		return root.GenBashCompletionV2(w, true)
	},
	constants.ShellZsh: func(root *cobra.Command, w io.Writer) error {
		return root.GenZshCompletion(w)
	},
	constants.ShellFish: func(root *cobra.Command, w io.Writer) error {
		return root.GenFishCompletion(w, true)
	},
	constants.ShellPowerShell: func(root *cobra.Command, w io.Writer) error {
		return root.GenPowerShellCompletionWithDesc(w)
	},
}

// NewCommand creates the completion command. It replaces cobra's
// auto-generated one so that it sits in the management group.
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "completion [bash|zsh|fish|powershell]",
		GroupID: constants.GroupManagement,
		Short:   "Generate shell completion scripts",
		Long: `Generate the autocompletion script for the given shell.

To load completions in your current shell session:

  bash:        source <(tonematch completion bash)
  zsh:         source <(tonematch completion zsh)
  fish:        tonematch completion fish | source
  powershell:  tonematch completion powershell | Out-String | Invoke-Expression

To load completions for every new session, write the script to your
shell's completion directory, for example:

  tonematch completion bash > /etc/bash_completion.d/tonematch
  tonematch completion zsh > "${fpath[1]}/_tonematch"
  tonematch completion fish > ~/.config/fish/completions/tonematch.fish`,
		ValidArgs:             []string{constants.ShellBash, constants.ShellZsh, constants.ShellFish, constants.ShellPowerShell},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return generators[args[0]](cmd.Root(), cmd.OutOrStdout())
		},
	}
}
