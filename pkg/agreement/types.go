package agreement

import (
	"github.com/agentstation/tonematch/pkg/constants"
)

// ItemKey identifies one elicited word across all speakers.
type ItemKey string

// String returns the string representation of an item key.
func (k ItemKey) String() string {
	return string(k)
}

// GroupNumber is the tone group a speaker assigned to a word.
type GroupNumber int

// Record is one structured record: field name to string value.
type Record map[string]string

// Get returns the value of a field and whether it was present.
func (r Record) Get(field string) (string, bool) {
	if r == nil {
		return "", false
	}
	v, ok := r[field]
	return v, ok
}

// Clone returns a copy of the record. A nil record stays nil.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// GroupDefinition is one row of a speaker's tone group table.
// Label is the raw group column text; Exemplar is the row chosen to
// represent the group and may be nil.
type GroupDefinition struct {
	Label    string `json:"label" yaml:"label"`
	Exemplar Record `json:"exemplar,omitempty" yaml:"exemplar,omitempty"`
}

// NewGroupDefinition creates a definition for a numbered group.
func NewGroupDefinition(number GroupNumber, exemplar Record) GroupDefinition {
	return GroupDefinition{
		Label:    formatGroupNumber(number),
		Exemplar: exemplar,
	}
}

// Number parses the definition's label. Rows with a label that is not a
// group number never match an exemplar lookup.
func (d GroupDefinition) Number() (GroupNumber, bool) {
	return ParseGroupNumber(d.Label)
}

// AnnotatorResult is one speaker's submission.
type AnnotatorResult struct {
	// ID is derived from the source file identity and unique within a run.
	ID string `json:"id" yaml:"id"`

	// Groups are the speaker's tone group rows in input order.
	Groups []GroupDefinition `json:"groups" yaml:"groups"`

	// Records are the speaker's word records in input order.
	Records []Record `json:"records" yaml:"records"`
}

// Fields names the two record fields the engine reads.
type Fields struct {
	Key   string `json:"key" yaml:"key"`
	Group string `json:"group" yaml:"group"`
}

// DefaultFields returns the field names used by the speaker record sources.
func DefaultFields() Fields {
	return Fields{
		Key:   constants.DefaultKeyField,
		Group: constants.DefaultGroupField,
	}
}

// Agreement tags a word's cross-speaker agreement.
type Agreement string

const (
	// AgreementFull means at least two speakers classified the word and all
	// of them chose the same group.
	AgreementFull Agreement = "full"

	// AgreementPartial covers everything else.
	AgreementPartial Agreement = "partial"
)

// String returns the string representation of an agreement tag.
func (a Agreement) String() string {
	return string(a)
}

// Assignment is one speaker's group for a word.
type Assignment struct {
	Annotator string      `json:"speaker" yaml:"speaker"`
	Group     GroupNumber `json:"group" yaml:"group"`
}

// WordAgreement is the agreement entry for a single word.
type WordAgreement struct {
	Key          ItemKey      `json:"word" yaml:"word"`
	Assignments  []Assignment `json:"speaker_groups" yaml:"speaker_groups"`
	Agreement    Agreement    `json:"agreement" yaml:"agreement"`
	Disagreement bool         `json:"disagreement" yaml:"disagreement"`
}

// GroupOf returns the group the given speaker assigned, if any.
func (w WordAgreement) GroupOf(annotator string) (GroupNumber, bool) {
	for _, a := range w.Assignments {
		if a.Annotator == annotator {
			return a.Group, true
		}
	}
	return 0, false
}

// MergedGroup is a pair of groups from two different speakers whose
// directional overlap exceeded the threshold. Exemplars may be nil.
type MergedGroup struct {
	Annotator1 string      `json:"speaker1" yaml:"speaker1"`
	Group1     GroupNumber `json:"group1" yaml:"group1"`
	Exemplar1  Record      `json:"exemplar1,omitempty" yaml:"exemplar1,omitempty"`

	Annotator2 string      `json:"speaker2" yaml:"speaker2"`
	Group2     GroupNumber `json:"group2" yaml:"group2"`
	Exemplar2  Record      `json:"exemplar2,omitempty" yaml:"exemplar2,omitempty"`

	// SharedWords counts words of Group1 that the second speaker put in Group2.
	SharedWords int `json:"shared_words" yaml:"shared_words"`

	// GroupSize is the number of words the first speaker put in Group1.
	GroupSize int `json:"group_size" yaml:"group_size"`

	// OverlapRatio is SharedWords / GroupSize * 100.
	OverlapRatio float64 `json:"overlap_ratio" yaml:"overlap_ratio"`

	// OverlapPercent is OverlapRatio formatted with one decimal.
	OverlapPercent string `json:"overlap_percent" yaml:"overlap_percent"`
}

// AnnotatorSummary describes one speaker's contribution to a run.
type AnnotatorSummary struct {
	ID          string `json:"speaker" yaml:"speaker"`
	GroupCount  int    `json:"group_count" yaml:"group_count"`
	WordCount   int    `json:"word_count" yaml:"word_count"`
	RecordCount int    `json:"record_count" yaml:"record_count"`
}
