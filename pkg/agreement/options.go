package agreement

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/tonematch/pkg/constants"
	"github.com/agentstation/tonematch/pkg/errors"
	"github.com/agentstation/tonematch/pkg/logging"
)

// options configures an Analyzer.
type options struct {
	fields      Fields
	threshold   float64
	concurrency int
	logger      *zerolog.Logger
}

func defaultOptions() *options {
	return &options{
		fields:      DefaultFields(),
		threshold:   constants.DefaultMergeThreshold,
		concurrency: constants.DefaultConcurrency,
		logger:      logging.Default(),
	}
}

// Option is a function that configures an Analyzer.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// newOptions returns analyzer options with default values.
func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithFields sets the record fields holding the word key and group number.
func WithFields(fields Fields) Option {
	return func(o *options) error {
		if fields.Key == "" {
			return &errors.ValidationError{
				Field:   "fields.key",
				Message: "cannot be empty",
			}
		}
		if fields.Group == "" {
			return &errors.ValidationError{
				Field:   "fields.group",
				Message: "cannot be empty",
			}
		}
		o.fields = fields
		return nil
	}
}

// WithThreshold sets the overlap percentage a group pair must exceed to be
// reported as merged.
func WithThreshold(threshold float64) Option {
	return func(o *options) error {
		if threshold < 0 || threshold > 100 {
			return &errors.ValidationError{
				Field:   "threshold",
				Value:   threshold,
				Message: "must be between 0 and 100",
			}
		}
		o.threshold = threshold
		return nil
	}
}

// WithConcurrency sets how many speaker pairs are compared at once.
func WithConcurrency(n int) Option {
	return func(o *options) error {
		if n < 1 || n > constants.MaxConcurrency {
			return &errors.ValidationError{
				Field:   "concurrency",
				Value:   n,
				Message: "must be between 1 and 64",
			}
		}
		o.concurrency = n
		return nil
	}
}

// WithLogger sets the logger used for run diagnostics.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) error {
		if logger == nil {
			return &errors.ValidationError{
				Field:   "logger",
				Message: "cannot be nil",
			}
		}
		o.logger = logger
		return nil
	}
}
