// Package application provides test doubles for the command application interface.
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/tonematch/cmd/application"
	"github.com/agentstation/tonematch/pkg/constants"
)

// Mock provides a mock implementation of application.Application for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default value.
//
// Example Usage:
//
//	mock := &application.Mock{
//	    OutputFormatFunc: func() string { return "json" },
//	}
//	cmd := compare.NewCommand(mock)
type Mock struct {
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	NoColorFunc      func() bool
	AnalysisFunc     func() application.AnalysisConfig
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string
}

var _ application.Application = (*Mock)(nil)

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns output format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// NoColor returns the mock function's value or true.
func (m *Mock) NoColor() bool {
	if m.NoColorFunc != nil {
		return m.NoColorFunc()
	}
	return true
}

// Analysis returns analysis defaults using the mock function or the
// built-in defaults.
func (m *Mock) Analysis() application.AnalysisConfig {
	if m.AnalysisFunc != nil {
		return m.AnalysisFunc()
	}
	return application.AnalysisConfig{
		KeyField:       constants.DefaultKeyField,
		GroupField:     constants.DefaultGroupField,
		GroupColumn:    constants.DefaultGroupColumn,
		MergeThreshold: constants.DefaultMergeThreshold,
		Concurrency:    constants.DefaultConcurrency,
	}
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builtBy using the mock function or "test".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "test"
}
