package bundle

import (
	"regexp"
	"strings"

	"github.com/agentstation/utc"

	"github.com/agentstation/tonematch/internal/utils/ptr"
	"github.com/agentstation/tonematch/pkg/constants"
	"github.com/agentstation/tonematch/pkg/errors"
)

// Settings configures the tone matching task shipped in a bundle. It is
// written to settings.json inside the bundle.
type Settings struct {
	// WrittenFormElements are the record fields shown to the speaker as the
	// written form of each word. At least one is required.
	WrittenFormElements []string `json:"writtenFormElements" yaml:"written_form_elements"`

	// ShowWrittenForm displays the written form next to the audio prompt.
	ShowWrittenForm bool `json:"showWrittenForm" yaml:"show_written_form"`

	// AudioFileSuffix is inserted into every sound file name before its
	// extension. Nil means no suffix.
	AudioFileSuffix *string `json:"audioFileSuffix" yaml:"audio_file_suffix"`

	// ReferenceNumbers restricts the bundle to these records. Empty keeps
	// every record.
	ReferenceNumbers []string `json:"referenceNumbers" yaml:"reference_numbers"`

	// RequireUserSpelling asks the speaker to type a spelling for each word.
	RequireUserSpelling bool `json:"requireUserSpelling" yaml:"require_user_spelling"`

	// UserSpellingElement is the record field that receives typed spellings.
	UserSpellingElement string `json:"userSpellingElement" yaml:"user_spelling_element"`

	// ToneGroupElement is the record field that receives group numbers.
	ToneGroupElement string `json:"toneGroupElement" yaml:"tone_group_element"`

	// BundleID and CreatedAt identify the bundle. Assemble fills them in.
	BundleID  string   `json:"bundleId" yaml:"bundle_id"`
	CreatedAt utc.Time `json:"createdAt" yaml:"created_at"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		WrittenFormElements: []string{constants.DefaultWrittenFormField},
		ReferenceNumbers:    []string{},
		ToneGroupElement:    constants.DefaultGroupField,
	}
}

// Validate checks that the settings describe a usable task.
func (s *Settings) Validate() error {
	if len(s.WrittenFormElements) == 0 {
		return &errors.ValidationError{
			Field:   "writtenFormElements",
			Message: "select at least one written form element",
		}
	}
	for _, e := range s.WrittenFormElements {
		if strings.TrimSpace(e) == "" {
			return &errors.ValidationError{
				Field:   "writtenFormElements",
				Value:   e,
				Message: "cannot contain empty names",
			}
		}
	}
	if s.RequireUserSpelling && s.UserSpellingElement == "" {
		return &errors.ValidationError{
			Field:   "userSpellingElement",
			Message: "required when user spelling is enabled",
		}
	}
	return nil
}

// Suffix returns the audio file suffix, or "" when none is set.
func (s *Settings) Suffix() string {
	return ptr.Value(s.AudioFileSuffix)
}

// SetSuffix sets the audio file suffix. Blank values clear it.
func (s *Settings) SetSuffix(suffix string) {
	s.AudioFileSuffix = ptr.NonZero(strings.TrimSpace(suffix))
}

var referenceSeparators = regexp.MustCompile(`[\n,\s]+`)

// ParseReferenceNumbers splits free text into reference numbers. Newlines,
// commas and whitespace all separate entries; empty entries are dropped.
func ParseReferenceNumbers(text string) []string {
	refs := []string{}
	if strings.TrimSpace(text) == "" {
		return refs
	}
	for _, ref := range referenceSeparators.Split(text, -1) {
		if ref = strings.TrimSpace(ref); ref != "" {
			refs = append(refs, ref)
		}
	}
	return refs
}

// ApplySuffix inserts suffix before the last "." of name, or appends it when
// name has no extension.
func ApplySuffix(name, suffix string) string {
	if suffix == "" {
		return name
	}
	if dot := strings.LastIndex(name, "."); dot != -1 {
		return name[:dot] + suffix + name[dot:]
	}
	return name + suffix
}
