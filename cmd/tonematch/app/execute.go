package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/tonematch/internal/cmd/constants"
	"github.com/agentstation/tonematch/internal/cmd/globals"
	"github.com/agentstation/tonematch/pkg/errors"
)

// Execute runs the tonematch CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "tonematch",
		Short:   "Tone group agreement across speakers",
		Version: a.version,
		Long: `Tonematch compares how several speakers sorted the same word list
into tone groups.

It reads one result archive per speaker, reports which words every
speaker placed together, lists the words they disagree on, and suggests
pairs of groups that probably mean the same category. It can also pack
a word list and its audio into a bundle for a new sorting session.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    constants.GroupCore,
		Title: "Core Commands:",
	})

	rootCmd.AddGroup(&cobra.Group{
		ID:    constants.GroupManagement,
		Title: "Management Commands:",
	})

	// Add global flags
	rootCmd.PersistentFlags().String("config", "", "config file (default is $HOME/.tonematch.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringP("format", "o", "", "output format: table, json, yaml, wide")
	rootCmd.PersistentFlags().String("log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	rootCmd.SetVersionTemplate("tonematch {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	flags := globals.Parse(cmd)

	// An explicit config file replaces the one found at startup
	if flags.Config != "" {
		config, err := LoadConfig(flags.Config)
		if err != nil {
			return errors.WrapResource("load", "config", flags.Config, err)
		}
		a.config = config
	}

	a.config.UpdateFromFlags(flags.Verbose, flags.Quiet, flags.NoColor, flags.Format, flags.LogLevel)

	// Reinitialize logger with updated config
	logger := NewLogger(a.config)
	a.logger = &logger

	return nil
}

// ExitOnError is a helper that prints an error and exits with status 1.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		//nolint:errcheck // Ignoring write error since we're exiting anyway
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}
