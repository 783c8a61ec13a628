package bundle

import (
	"fmt"
	"io"

	"github.com/agentstation/tonematch/cmd/application"
	"github.com/agentstation/tonematch/internal/cmd/alerts"
	"github.com/agentstation/tonematch/internal/cmd/output"
	"github.com/agentstation/tonematch/internal/cmd/table"
	"github.com/agentstation/tonematch/pkg/bundle"
	"github.com/agentstation/tonematch/pkg/constants"
)

// printSummary reports the assembled bundle.
func printSummary(w io.Writer, app application.Application, summary *bundle.Summary) error {
	format, err := output.ParseFormat(app.OutputFormat())
	if err != nil {
		return err
	}
	format = output.DetectFormat(string(format))

	switch format {
	case output.FormatJSON, output.FormatYAML:
		return output.NewFormatter(format).Format(w, summary)
	}

	writer := alerts.NewFormatWriter(w, output.FormatTable)
	if app.NoColor() {
		writer = writer.WithColor(false)
	}

	success := alerts.NewSuccess("Bundle created successfully!").WithDetails(
		"Output: "+summary.OutputPath,
		"Records: "+table.FormatNumber(summary.RecordCount),
		"Audio files: "+table.FormatNumber(summary.AssetCount),
	)
	if err := writer.WriteAlert(success); err != nil {
		return err
	}

	if !summary.Complete() {
		msg := fmt.Sprintf("%s audio files not found", table.FormatNumber(len(summary.Unresolved)))
		warning := alerts.NewWarning(msg).WithLimitedDetails(constants.MaxListedMissingAssets, summary.Unresolved...)
		if err := writer.WriteAlert(warning); err != nil {
			return err
		}
	}

	if format == output.FormatWide {
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
		return output.NewFormatter(format).Format(w, summary)
	}
	return nil
}
