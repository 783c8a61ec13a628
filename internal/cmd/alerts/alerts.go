// Package alerts provides a structured system for status notifications.
package alerts

import (
	"fmt"
	"io"

	"github.com/agentstation/utc"
)

// Alert represents a status notification shown after a command.
type Alert struct {
	Level     Level
	Message   string
	Details   []string
	Timestamp utc.Time
	Err       error
}

// New creates a new alert with the given level and message.
func New(level Level, message string) *Alert {
	return &Alert{
		Level:     level,
		Message:   message,
		Timestamp: utc.Now(),
	}
}

// NewError creates a new error alert.
func NewError(message string) *Alert {
	return New(LevelError, message)
}

// NewWarning creates a new warning alert.
func NewWarning(message string) *Alert {
	return New(LevelWarning, message)
}

// NewInfo creates a new info alert.
func NewInfo(message string) *Alert {
	return New(LevelInfo, message)
}

// NewSuccess creates a new success alert.
func NewSuccess(message string) *Alert {
	return New(LevelSuccess, message)
}

// WithError adds an underlying error to the alert.
func (a *Alert) WithError(err error) *Alert {
	a.Err = err
	return a
}

// WithDetails adds additional context details to the alert.
func (a *Alert) WithDetails(details ...string) *Alert {
	a.Details = append(a.Details, details...)
	return a
}

// WithLimitedDetails adds at most max details, followed by a line counting
// the ones left out.
func (a *Alert) WithLimitedDetails(max int, details ...string) *Alert {
	if len(details) <= max {
		return a.WithDetails(details...)
	}
	a.Details = append(a.Details, details[:max]...)
	a.Details = append(a.Details, fmt.Sprintf("...and %d more", len(details)-max))
	return a
}

// String returns a string representation of the alert.
func (a *Alert) String() string {
	message := fmt.Sprintf("%s %s", a.Level.Icon(), a.Message)
	if a.Err != nil {
		message += fmt.Sprintf(": %v", a.Err)
	}
	return message
}

// Writer handles alert output to different formats and destinations.
type Writer interface {
	WriteAlert(alert *Alert) error
}

// WriterFunc is an adapter to allow functions to be used as Writers.
type WriterFunc func(*Alert) error

// WriteAlert calls the function.
func (f WriterFunc) WriteAlert(alert *Alert) error {
	return f(alert)
}

// DiscardWriter is a Writer that discards all alerts.
var DiscardWriter Writer = WriterFunc(func(*Alert) error { return nil })

// NewWriterTo creates a Writer that writes the alert and its details to an
// io.Writer as plain text.
func NewWriterTo(w io.Writer) Writer {
	return WriterFunc(func(alert *Alert) error {
		if _, err := fmt.Fprintln(w, alert.String()); err != nil {
			return err
		}
		for _, d := range alert.Details {
			if _, err := fmt.Fprintf(w, "   %s\n", d); err != nil {
				return err
			}
		}
		return nil
	})
}
