package errors_test

import (
	"errors"
	"fmt"
	"testing"

	pkgerrors "github.com/agentstation/tonematch/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{
			Field:   "threshold",
			Message: "must be between 0 and 100",
		}
		assert.Equal(t, "validation failed for field threshold: must be between 0 and 100", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrInvalidInput))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Message: "no speakers"}
		assert.Equal(t, "validation failed: no speakers", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})
}

func TestArchiveError(t *testing.T) {
	t.Run("names the speaker and member", func(t *testing.T) {
		err := pkgerrors.NewArchiveError("alice", "/tmp/alice.zip", "csv", "no CSV file found", nil)
		assert.Equal(t, "archive alice (csv member): no CSV file found", err.Error())
		assert.True(t, pkgerrors.IsMalformedArchive(err))
	})

	t.Run("falls back to the wrapped message", func(t *testing.T) {
		base := errors.New("zip: not a valid zip file")
		err := pkgerrors.NewArchiveError("bob", "/tmp/bob.zip", "", "", base)
		assert.Equal(t, "archive bob: zip: not a valid zip file", err.Error())
		assert.Equal(t, base, errors.Unwrap(err))
	})
}

func TestParseError(t *testing.T) {
	t.Run("with file and position", func(t *testing.T) {
		err := &pkgerrors.ParseError{
			Format:  "xml",
			File:    "data.xml",
			Line:    10,
			Column:  5,
			Message: "unexpected EOF",
		}
		assert.Contains(t, err.Error(), "data.xml:10:5")
	})

	t.Run("malformed records sentinel survives wrapping", func(t *testing.T) {
		err := pkgerrors.NewParseError("xml", "data.xml", "missing phon_data element", pkgerrors.ErrMalformedRecords)
		assert.True(t, pkgerrors.IsMalformedRecords(fmt.Errorf("load: %w", err)))
		assert.Equal(t, "parse error in xml file data.xml: missing phon_data element", err.Error())
	})

	t.Run("wrap helper", func(t *testing.T) {
		assert.Nil(t, pkgerrors.WrapParse("csv", "groups.csv", nil))
		err := pkgerrors.WrapParse("csv", "groups.csv", errors.New("bare quote"))
		var parseErr *pkgerrors.ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, "csv", parseErr.Format)
	})
}

func TestIOError(t *testing.T) {
	baseErr := errors.New("disk full")
	err := pkgerrors.WrapIO("write", "/data/bundle.zip", baseErr)
	ioErr, ok := err.(*pkgerrors.IOError)
	require.True(t, ok)
	assert.Equal(t, "write", ioErr.Operation)
	assert.Equal(t, baseErr, ioErr.Unwrap())
	assert.Contains(t, err.Error(), "/data/bundle.zip")
}

func TestResourceError(t *testing.T) {
	err := pkgerrors.WrapResource("load", "config", "", errors.New("bad yaml"))
	resErr, ok := err.(*pkgerrors.ResourceError)
	require.True(t, ok)
	assert.Equal(t, "failed to load config: bad yaml", resErr.Error())
	assert.Nil(t, pkgerrors.WrapResource("load", "config", "", nil))
}

func TestConfigError(t *testing.T) {
	err := pkgerrors.NewConfigError("compare", "group field cannot be empty", nil)
	assert.Equal(t, "configuration error in compare: group field cannot be empty", err.Error())
}
