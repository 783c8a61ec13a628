package table

import (
	"fmt"

	"github.com/agentstation/tonematch/internal/cmd/emoji"
	"github.com/agentstation/tonematch/pkg/agreement"
	"github.com/agentstation/tonematch/pkg/constants"
)

// StatisticsToTableData converts run statistics to a two-column table.
func StatisticsToTableData(result *agreement.Result) Data {
	return Data{
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Speakers", FormatNumber(len(result.Annotators))},
			{"Total Words", FormatNumber(result.TotalWords)},
			{"Full Agreement", FormatNumber(result.AgreedWords)},
			{"Disagreements", FormatNumber(result.DisagreedWords)},
			{"Agreement Rate", FormatPercent(result.AgreementPercentage)},
			{"Merged Group Candidates", FormatNumber(len(result.MergedGroups))},
		},
		ColumnAlignment: []Align{AlignLeft, AlignRight},
	}
}

// SpeakersToTableData converts speaker summaries to table format.
func SpeakersToTableData(speakers []agreement.AnnotatorSummary, showDetails bool) Data {
	headers := []string{"Speaker", "Tone Groups", "Words Grouped"}
	align := []Align{AlignLeft, AlignRight, AlignRight}
	if showDetails {
		headers = append(headers, "Records")
		align = append(align, AlignRight)
	}

	rows := make([][]string, 0, len(speakers))
	for _, s := range speakers {
		row := []string{s.ID, FormatNumber(s.GroupCount), FormatNumber(s.WordCount)}
		if showDetails {
			row = append(row, FormatNumber(s.RecordCount))
		}
		rows = append(rows, row)
	}

	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// DisagreementsToTableData builds the disagreement matrix: one row per word
// and one column per speaker. Speakers that did not classify a word show a
// dash.
func DisagreementsToTableData(words []agreement.WordAgreement, speakers []agreement.AnnotatorSummary) Data {
	headers := make([]string, 0, len(speakers)+1)
	headers = append(headers, "Word")
	for _, s := range speakers {
		headers = append(headers, s.ID)
	}

	rows := make([][]string, 0, len(words))
	for _, w := range words {
		row := make([]string, 0, len(headers))
		row = append(row, w.Key.String())
		for _, s := range speakers {
			if g, ok := w.GroupOf(s.ID); ok {
				row = append(row, GroupLabel(g))
			} else {
				row = append(row, emoji.Optional)
			}
		}
		rows = append(rows, row)
	}

	return Data{Headers: headers, Rows: rows}
}

// MergedGroupsToTableData converts merged group candidates to table format.
// The wide view adds the group size and the raw ratio.
func MergedGroupsToTableData(merged []agreement.MergedGroup, wide bool) Data {
	headers := []string{"Overlap", "Speaker 1", "Group", "Exemplar", "Speaker 2", "Group", "Exemplar"}
	align := []Align{AlignRight, AlignLeft, AlignLeft, AlignLeft, AlignLeft, AlignLeft, AlignLeft}
	if wide {
		headers = append(headers, "Shared", "Group Size")
		align = append(align, AlignRight, AlignRight)
	}

	rows := make([][]string, 0, len(merged))
	for _, m := range merged {
		row := []string{
			OverlapLabel(m),
			m.Annotator1,
			GroupLabel(m.Group1),
			Truncate(ExemplarLabel(m.Exemplar1), constants.MaxExemplarLength),
			m.Annotator2,
			GroupLabel(m.Group2),
			Truncate(ExemplarLabel(m.Exemplar2), constants.MaxExemplarLength),
		}
		if wide {
			row = append(row, FormatNumber(m.SharedWords), FormatNumber(m.GroupSize))
		}
		rows = append(rows, row)
	}

	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// GroupLabel formats a group number for display.
func GroupLabel(g agreement.GroupNumber) string {
	return fmt.Sprintf("Group %d", g)
}

// OverlapLabel formats a candidate's overlap, e.g. "100.0% (5 words)".
func OverlapLabel(m agreement.MergedGroup) string {
	noun := "words"
	if m.SharedWords == 1 {
		noun = "word"
	}
	return fmt.Sprintf("%s%% (%d %s)", m.OverlapPercent, m.SharedWords, noun)
}

// ExemplarLabel names an exemplar by its written form, falling back to its
// reference number, then to "Unknown".
func ExemplarLabel(exemplar agreement.Record) string {
	if v, _ := exemplar.Get(constants.DefaultExemplarFormColumn); v != "" {
		return v
	}
	if v, _ := exemplar.Get(constants.DefaultExemplarRefColumn); v != "" {
		return v
	}
	return "Unknown"
}
