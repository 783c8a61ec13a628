package archive

import (
	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"

	"github.com/agentstation/tonematch/pkg/constants"
	"github.com/agentstation/tonematch/pkg/errors"
	"github.com/agentstation/tonematch/pkg/logging"
)

// options configures archive reading.
type options struct {
	groupColumn string
	csvPattern  string
	xmlPattern  string
	concurrency int
	logger      *zerolog.Logger
}

func defaultOptions() *options {
	return &options{
		groupColumn: constants.DefaultGroupColumn,
		csvPattern:  constants.CSVMemberPattern,
		xmlPattern:  constants.XMLMemberPattern,
		concurrency: constants.MaxConcurrentArchives,
		logger:      logging.Default(),
	}
}

// Option is a function that configures archive reading.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithGroupColumn sets the tone group table column holding the group number.
func WithGroupColumn(column string) Option {
	return func(o *options) error {
		if column == "" {
			return &errors.ValidationError{
				Field:   "group_column",
				Message: "cannot be empty",
			}
		}
		o.groupColumn = column
		return nil
	}
}

// WithMemberPatterns sets the glob patterns used to find the tone group
// table and the record source among the archive members.
func WithMemberPatterns(csvPattern, xmlPattern string) Option {
	return func(o *options) error {
		for field, p := range map[string]string{"csv_pattern": csvPattern, "xml_pattern": xmlPattern} {
			if !validPattern(p) {
				return &errors.ValidationError{
					Field:   field,
					Value:   p,
					Message: "is not a valid glob pattern",
				}
			}
		}
		o.csvPattern = csvPattern
		o.xmlPattern = xmlPattern
		return nil
	}
}

// WithConcurrency sets how many archives LoadAll opens at once.
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

// WithLogger sets the logger used while reading archives.
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

func validPattern(p string) bool {
	return p != "" && doublestar.ValidatePattern(p)
}
