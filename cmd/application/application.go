// Package application provides the application interface for tonematch commands.
//
// The Application interface defines the contract between the application layer and
// command implementations, enabling dependency injection and testability.
//
// Usage in Commands:
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            defaults := app.Analysis()
//	            results, err := archive.LoadAll(cmd.Context(), args,
//	                archive.WithGroupColumn(defaults.GroupColumn))
//	            // ...
//	        },
//	    }
//	}
//
// Testing with Mocks:
//
//	mock := &application.Mock{
//	    OutputFormatFunc: func() string { return "json" },
//	}
//	cmd := compare.NewCommand(mock)
package application

import (
	"github.com/rs/zerolog"
)

// Application provides the application interface that commands need.
// The App struct from cmd/tonematch/app implements this interface.
type Application interface {
	// Logger returns the configured logger instance.
	// Commands should use this for all logging operations.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table, wide).
	OutputFormat() string

	// NoColor reports whether colored output is disabled.
	NoColor() bool

	// Analysis returns the configured analysis defaults. Command flags
	// override them.
	Analysis() AnalysisConfig

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}

// AnalysisConfig holds the analysis defaults loaded from configuration.
type AnalysisConfig struct {
	KeyField       string
	GroupField     string
	GroupColumn    string
	MergeThreshold float64
	Concurrency    int
}
