package bundle

import (
	"github.com/agentstation/utc"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/agentstation/tonematch/pkg/constants"
	"github.com/agentstation/tonematch/pkg/errors"
	"github.com/agentstation/tonematch/pkg/logging"
)

// options configures bundle assembly.
type options struct {
	keyField       string
	soundFileField string
	filterData     bool
	now            func() utc.Time
	newID          func() string
	logger         *zerolog.Logger
}

func defaultOptions() *options {
	return &options{
		keyField:       constants.DefaultKeyField,
		soundFileField: constants.DefaultSoundFileField,
		now:            utc.Now,
		newID:          uuid.NewString,
		logger:         logging.Default(),
	}
}

// Option is a function that configures bundle assembly.
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

// WithKeyField sets the record field matched against reference numbers.
func WithKeyField(field string) Option {
	return func(o *options) error {
		if field == "" {
			return &errors.ValidationError{Field: "key_field", Message: "cannot be empty"}
		}
		o.keyField = field
		return nil
	}
}

// WithSoundFileField sets the record field naming each record's audio asset.
func WithSoundFileField(field string) Option {
	return func(o *options) error {
		if field == "" {
			return &errors.ValidationError{Field: "sound_file_field", Message: "cannot be empty"}
		}
		o.soundFileField = field
		return nil
	}
}

// WithFilteredData writes only the selected records to data.xml instead of
// copying the source document unchanged.
func WithFilteredData(enabled bool) Option {
	return func(o *options) error {
		o.filterData = enabled
		return nil
	}
}

// WithClock sets the time source for the bundle's creation timestamp.
func WithClock(now func() utc.Time) Option {
	return func(o *options) error {
		if now == nil {
			return &errors.ValidationError{Field: "clock", Message: "cannot be nil"}
		}
		o.now = now
		return nil
	}
}

// WithIDGenerator sets the generator for bundle identifiers.
func WithIDGenerator(newID func() string) Option {
	return func(o *options) error {
		if newID == nil {
			return &errors.ValidationError{Field: "id_generator", Message: "cannot be nil"}
		}
		o.newID = newID
		return nil
	}
}

// WithLogger sets the logger used during assembly.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) error {
		if logger == nil {
			return &errors.ValidationError{Field: "logger", Message: "cannot be nil"}
		}
		o.logger = logger
		return nil
	}
}
