package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// Recorder is a trace-level JSON logger that keeps its output in memory.
type Recorder struct {
	Logger *zerolog.Logger
	buf    *bytes.Buffer
}

// NewRecorder returns a Recorder and lifts the global level to trace for the
// rest of the test.
func NewRecorder(t testing.TB) *Recorder {
	t.Helper()

	prev := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	buf := &bytes.Buffer{}
	logger := zerolog.New(buf).Level(zerolog.TraceLevel)
	return &Recorder{Logger: &logger, buf: buf}
}

// String returns everything logged so far.
func (r *Recorder) String() string {
	return r.buf.String()
}

// Entries decodes each logged line. Lines that are not JSON objects are
// skipped.
func (r *Recorder) Entries() []map[string]any {
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(r.buf.String()), "\n") {
		entry := map[string]any{}
		if err := json.Unmarshal([]byte(line), &entry); err == nil {
			entries = append(entries, entry)
		}
	}
	return entries
}

// Reset discards the recorded output.
func (r *Recorder) Reset() {
	r.buf.Reset()
}
