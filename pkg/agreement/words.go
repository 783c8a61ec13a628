package agreement

import "math"

// Universe returns the union of all classified words, ordered by the first
// speaker (in input order) that classified each one.
func Universe(annotators []Annotator) []ItemKey {
	seen := make(map[ItemKey]struct{})
	var keys []ItemKey
	for _, a := range annotators {
		for _, k := range a.Map.order {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
	}
	return keys
}

// AnalyzeWords builds an agreement entry for every word in the universe.
// Assignments within an entry follow speaker input order.
func AnalyzeWords(annotators []Annotator) []WordAgreement {
	universe := Universe(annotators)
	words := make([]WordAgreement, 0, len(universe))
	for _, key := range universe {
		words = append(words, analyzeWord(key, annotators))
	}
	return words
}

func analyzeWord(key ItemKey, annotators []Annotator) WordAgreement {
	var assignments []Assignment
	for _, a := range annotators {
		if g, ok := a.Map.Get(key); ok {
			assignments = append(assignments, Assignment{Annotator: a.ID, Group: g})
		}
	}

	allAgree := len(assignments) >= 2
	for _, as := range assignments {
		if as.Group != assignments[0].Group {
			allAgree = false
			break
		}
	}

	w := WordAgreement{
		Key:         key,
		Assignments: assignments,
		Agreement:   AgreementPartial,
	}
	if allAgree {
		w.Agreement = AgreementFull
	}
	w.Disagreement = !allAgree && len(assignments) >= 2
	return w
}

// Statistics aggregates word agreement entries.
type Statistics struct {
	TotalWords          int     `json:"total_words" yaml:"total_words"`
	AgreedWords         int     `json:"agreed_words" yaml:"agreed_words"`
	DisagreedWords      int     `json:"disagreed_words" yaml:"disagreed_words"`
	SingleWords         int     `json:"single_words" yaml:"single_words"`
	AgreementPercentage float64 `json:"agreement_percentage" yaml:"agreement_percentage"`
}

// Summarize counts agreement tags. AgreementPercentage is rounded to one
// decimal place and is 0 for an empty universe.
func Summarize(words []WordAgreement) Statistics {
	stats := Statistics{TotalWords: len(words)}
	for _, w := range words {
		switch {
		case w.Agreement == AgreementFull:
			stats.AgreedWords++
		case w.Disagreement:
			stats.DisagreedWords++
		default:
			stats.SingleWords++
		}
	}
	if stats.TotalWords > 0 {
		pct := float64(stats.AgreedWords) / float64(stats.TotalWords) * 100
		stats.AgreementPercentage = math.Round(pct*10) / 10
	}
	return stats
}

// Disagreements keeps only the entries flagged as disagreements.
func Disagreements(words []WordAgreement) []WordAgreement {
	out := []WordAgreement{}
	for _, w := range words {
		if w.Disagreement {
			out = append(out, w)
		}
	}
	return out
}
