// Package agreement reconciles independent tone group labelings produced by
// several speakers over a shared word list.
//
// Each speaker partitions a subset of words into numbered groups. Analyze
// reports, for every word, whether the speakers that classified it agree;
// aggregates those tags into run statistics; and detects pairs of groups from
// different speakers whose membership overlaps enough to suggest the same
// category under different numbers.
//
// The package is pure: it performs no I/O and never mutates its inputs.
//
//	result, err := agreement.Analyze(speakers)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("%d/%d words agree (%.1f%%)\n",
//	    result.AgreedWords, result.TotalWords, result.AgreementPercentage)
package agreement

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/tonematch/pkg/errors"
)

// Result is the outcome of one analysis run. It is never modified after
// Analyze returns.
type Result struct {
	TotalWords          int     `json:"total_words" yaml:"total_words"`
	AgreedWords         int     `json:"agreed_words" yaml:"agreed_words"`
	DisagreedWords      int     `json:"disagreed_words" yaml:"disagreed_words"`
	AgreementPercentage float64 `json:"agreement_percentage" yaml:"agreement_percentage"`

	// Disagreements lists only words classified by two or more speakers
	// into different groups.
	Disagreements []WordAgreement `json:"disagreements" yaml:"disagreements"`

	// MergedGroups lists candidates ordered by speaker pair, then group.
	MergedGroups []MergedGroup `json:"merged_groups" yaml:"merged_groups"`

	// Annotators summarizes each speaker in input order.
	Annotators []AnnotatorSummary `json:"speakers" yaml:"speakers"`

	// Threshold is the overlap percentage merged groups had to exceed.
	Threshold float64 `json:"threshold" yaml:"threshold"`
}

// HasDisagreements returns true if any word was classified inconsistently.
func (r *Result) HasDisagreements() bool {
	return len(r.Disagreements) > 0
}

// HasMergedGroups returns true if any merged group candidate was found.
func (r *Result) HasMergedGroups() bool {
	return len(r.MergedGroups) > 0
}

// Analyzer runs agreement analyses with a fixed configuration.
type Analyzer struct {
	fields      Fields
	threshold   float64
	concurrency int
	logger      *zerolog.Logger
}

// New creates a new Analyzer with options.
func New(opts ...Option) (*Analyzer, error) {
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &Analyzer{
		fields:      options.fields,
		threshold:   options.threshold,
		concurrency: options.concurrency,
		logger:      options.logger,
	}, nil
}

// Analyze runs a one-off analysis with the given options.
func Analyze(results []AnnotatorResult, opts ...Option) (*Result, error) {
	a, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return a.Analyze(results)
}

// Fields returns the record fields the analyzer reads.
func (a *Analyzer) Fields() Fields {
	return a.fields
}

// Threshold returns the merge threshold.
func (a *Analyzer) Threshold() float64 {
	return a.threshold
}

// Analyze compares the speakers' labelings. Speaker IDs must be non-empty
// and unique; an empty list yields an empty result.
func (a *Analyzer) Analyze(results []AnnotatorResult) (*Result, error) {
	if err := validateResults(results); err != nil {
		return nil, err
	}

	annotators := make([]Annotator, len(results))
	summaries := make([]AnnotatorSummary, len(results))
	for i, r := range results {
		annotators[i] = NewAnnotator(r, a.fields)
		summaries[i] = AnnotatorSummary{
			ID:          r.ID,
			GroupCount:  len(r.Groups),
			WordCount:   annotators[i].Map.Len(),
			RecordCount: len(r.Records),
		}
		a.logger.Debug().
			Str("annotator", r.ID).
			Int("records", len(r.Records)).
			Int("classified", annotators[i].Map.Len()).
			Msg("Built assignment map")
	}

	words := AnalyzeWords(annotators)
	stats := Summarize(words)
	merged := FindMergedGroups(annotators, a.threshold, a.concurrency)

	a.logger.Debug().
		Int("annotators", len(annotators)).
		Int("words", stats.TotalWords).
		Int("agreed", stats.AgreedWords).
		Int("disagreed", stats.DisagreedWords).
		Int("merged_groups", len(merged)).
		Msg("Analysis complete")

	return &Result{
		TotalWords:          stats.TotalWords,
		AgreedWords:         stats.AgreedWords,
		DisagreedWords:      stats.DisagreedWords,
		AgreementPercentage: stats.AgreementPercentage,
		Disagreements:       Disagreements(words),
		MergedGroups:        merged,
		Annotators:          summaries,
		Threshold:           a.threshold,
	}, nil
}

func validateResults(results []AnnotatorResult) error {
	seen := make(map[string]struct{}, len(results))
	for i, r := range results {
		if r.ID == "" {
			return &errors.ValidationError{
				Field:   "annotator.id",
				Value:   i,
				Message: "cannot be empty",
			}
		}
		if _, dup := seen[r.ID]; dup {
			return &errors.ValidationError{
				Field:   "annotator.id",
				Value:   r.ID,
				Message: "must be unique within a run",
			}
		}
		seen[r.ID] = struct{}{}
	}
	return nil
}
