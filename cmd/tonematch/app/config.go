package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/tonematch/pkg/constants"
	"github.com/agentstation/tonematch/pkg/errors"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Analysis defaults
	KeyField       string
	GroupField     string
	GroupColumn    string
	MergeThreshold float64
	Concurrency    int

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (applied later by UpdateFromFlags)
// 2. Environment variables
// 3. .env files
// 4. Config file (configFile, or .tonematch.yaml in $HOME or the working directory)
// 5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	v.SetDefault("key_field", constants.DefaultKeyField)
	v.SetDefault("group_field", constants.DefaultGroupField)
	v.SetDefault("group_column", constants.DefaultGroupColumn)
	v.SetDefault("merge_threshold", constants.DefaultMergeThreshold)
	v.SetDefault("concurrency", constants.DefaultConcurrency)
	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config", "failed to read "+configFile, err)
		}
	} else {
		// Search for config in standard locations
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".tonematch")

		// Read config file (ignore error if not found)
		_ = v.ReadInConfig()
	}

	config := &Config{
		// Global flags (may be overridden by cobra flags later)
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color") || os.Getenv("NO_COLOR") != "",
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		KeyField:       v.GetString("key_field"),
		GroupField:     v.GetString("group_field"),
		GroupColumn:    v.GetString("group_column"),
		MergeThreshold: v.GetFloat64("merge_threshold"),
		Concurrency:    v.GetInt("concurrency"),

		// An empty level lets -v/-q decide
		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),
		LogOutput: v.GetString("log_output"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the analysis defaults.
func (c *Config) Validate() error {
	if c.KeyField == "" {
		return errors.NewConfigError("key_field", "cannot be empty", errors.ErrInvalidInput)
	}
	if c.GroupField == "" {
		return errors.NewConfigError("group_field", "cannot be empty", errors.ErrInvalidInput)
	}
	if c.GroupColumn == "" {
		return errors.NewConfigError("group_column", "cannot be empty", errors.ErrInvalidInput)
	}
	if c.MergeThreshold < 0 || c.MergeThreshold > 100 {
		return errors.NewConfigError("merge_threshold", "must be between 0 and 100", errors.ErrInvalidInput)
	}
	if c.Concurrency < 1 || c.Concurrency > constants.MaxConcurrency {
		return errors.NewConfigError("concurrency", "must be between 1 and 64", errors.ErrInvalidInput)
	}
	return nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = c.Verbose || verbose
	c.Quiet = c.Quiet || quiet
	c.NoColor = c.NoColor || noColor
	if format != "" {
		c.Format = format
	}
	switch {
	case logLevel != "":
		c.LogLevel = logLevel
	case verbose || quiet:
		// Shortcut flags outrank a level from the environment
		c.LogLevel = ""
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local is loaded first so that it wins: godotenv never overrides
// variables that are already set.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}
