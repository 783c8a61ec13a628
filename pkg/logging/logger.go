// Package logging provides structured logging for tonematch using zerolog.
// Console output is used on terminals and JSON everywhere else.
//
// Example usage:
//
//	ctx := logging.WithAnnotator(context.Background(), "alice")
//	logging.FromContext(ctx).Debug().Int("records", 120).Msg("Decoded records")
package logging

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// defaultLogger backs FromContext when no logger was attached.
var defaultLogger zerolog.Logger

func init() {
	defaultLogger = NewLoggerFromConfig(ConfigFromEnv())
}

// Default returns the default global logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault sets the default global logger.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger
}

// isTerminal reports whether w is a terminal file.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
