// Package globals provides shared flag structures and utilities for CLI commands.
package globals

import "github.com/spf13/cobra"

// Flags holds global common flags across all commands.
type Flags struct {
	Config   string
	Format   string
	Quiet    bool
	Verbose  bool
	NoColor  bool
	LogLevel string
}

// Parse extracts global flags from the command hierarchy.
// This is useful for subcommands that need to access global flags when
// they weren't passed the flags struct directly.
func Parse(cmd *cobra.Command) *Flags {
	// Walk up the command hierarchy to find persistent flags
	root := cmd.Root()

	config, _ := root.PersistentFlags().GetString("config")
	format, _ := root.PersistentFlags().GetString("format")
	quiet, _ := root.PersistentFlags().GetBool("quiet")
	verbose, _ := root.PersistentFlags().GetBool("verbose")
	noColor, _ := root.PersistentFlags().GetBool("no-color")
	logLevel, _ := root.PersistentFlags().GetString("log-level")

	return &Flags{
		Config:   config,
		Format:   format,
		Quiet:    quiet,
		Verbose:  verbose,
		NoColor:  noColor,
		LogLevel: logLevel,
	}
}
