// Package app provides the application context and dependency management
// for the tonematch CLI. It centralizes configuration, logging and
// lifecycle so that commands only see the application.Application interface.
package app

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/tonematch/cmd/application"
	"github.com/agentstation/tonematch/pkg/errors"
)

// App represents the tonematch application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger
}

var _ application.Application = (*App)(nil)

// New creates a new App instance with the given version information.
// The app is initialized with configuration from the default locations that
// can be customized using functional options.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	// Load configuration
	config, err := LoadConfig("")
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	// Initialize logger
	logger := NewLogger(config)
	app.logger = &logger

	// Apply any custom options
	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// NoColor reports whether colored output is disabled.
func (a *App) NoColor() bool {
	return a.config.NoColor
}

// Analysis returns the configured analysis defaults.
func (a *App) Analysis() application.AnalysisConfig {
	return application.AnalysisConfig{
		KeyField:       a.config.KeyField,
		GroupField:     a.config.GroupField,
		GroupColumn:    a.config.GroupColumn,
		MergeThreshold: a.config.MergeThreshold,
		Concurrency:    a.config.Concurrency,
	}
}

// Shutdown performs graceful shutdown of the application.
// Commands hold no background work past their RunE, so there is
// nothing to stop beyond flushing a final log line.
func (a *App) Shutdown(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return errors.WrapResource("shutdown", "application", "", err)
	}
	a.logger.Debug().Msg("Shutdown complete")
	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		if config == nil {
			return errors.NewConfigError("app", "config cannot be nil", errors.ErrInvalidInput)
		}
		if err := config.Validate(); err != nil {
			return err
		}
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}
