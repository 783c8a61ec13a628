package compare

import (
	"fmt"
	"io"

	"github.com/agentstation/tonematch/cmd/application"
	"github.com/agentstation/tonematch/internal/cmd/alerts"
	"github.com/agentstation/tonematch/internal/cmd/output"
	"github.com/agentstation/tonematch/internal/cmd/table"
	"github.com/agentstation/tonematch/pkg/agreement"
)

// printResult writes the analysis in the configured format. Structured
// formats carry the whole result; table formats render one section per
// part of the report followed by summary alerts.
func printResult(w io.Writer, app application.Application, result *agreement.Result, opts *options) error {
	format, err := output.ParseFormat(app.OutputFormat())
	if err != nil {
		return err
	}
	format = output.DetectFormat(string(format))

	switch format {
	case output.FormatJSON, output.FormatYAML:
		return output.NewFormatter(format).Format(w, result)
	}

	wide := format == output.FormatWide
	err = output.WriteSections(w, false,
		output.Section{Title: "Summary", Data: table.StatisticsToTableData(result)},
		output.Section{Title: "Speakers", Data: table.SpeakersToTableData(result.Annotators, opts.details || wide)},
		output.Section{Title: "Disagreements", Data: table.DisagreementsToTableData(result.Disagreements, result.Annotators)},
		output.Section{Title: "Merged Group Candidates", Data: table.MergedGroupsToTableData(result.MergedGroups, wide)},
	)
	if err != nil {
		return err
	}

	var notes []*alerts.Alert
	if !result.HasDisagreements() {
		notes = append(notes, alerts.NewSuccess("All words have full agreement!"))
	}
	if !result.HasMergedGroups() && len(result.Annotators) > 1 {
		msg := fmt.Sprintf("No merged group candidates above %s overlap", table.FormatPercent(result.Threshold))
		notes = append(notes, alerts.NewInfo(msg))
	}
	if len(notes) == 0 {
		return nil
	}

	writer := alerts.NewFormatWriter(w, output.FormatTable)
	if app.NoColor() {
		writer = writer.WithColor(false)
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	for _, a := range notes {
		if err := writer.WriteAlert(a); err != nil {
			return err
		}
	}
	return nil
}
