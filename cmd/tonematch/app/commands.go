package app

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/tonematch/cmd/tonematch/cmd/bundle"
	"github.com/agentstation/tonematch/cmd/tonematch/cmd/compare"
	"github.com/agentstation/tonematch/cmd/tonematch/cmd/completion"
	"github.com/agentstation/tonematch/cmd/tonematch/cmd/fields"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(compare.NewCommand(a))
	rootCmd.AddCommand(bundle.NewCommand(a))

	// Management commands
	rootCmd.AddCommand(fields.NewCommand(a))
	rootCmd.AddCommand(completion.NewCommand())

	// Utility commands
	rootCmd.AddCommand(a.NewVersionCommand())
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("tonematch %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
			}
		},
	}
}
