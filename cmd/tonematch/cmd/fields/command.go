// Package fields provides the fields command, which lists the record
// elements of a word list so bundle settings can name them.
package fields

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/tonematch/cmd/application"
	"github.com/agentstation/tonematch/internal/cmd/alerts"
	"github.com/agentstation/tonematch/internal/cmd/constants"
	"github.com/agentstation/tonematch/internal/cmd/output"
	"github.com/agentstation/tonematch/internal/cmd/table"
	"github.com/agentstation/tonematch/pkg/records"
)

// Listing is the structured form of the command output.
type Listing struct {
	Source  string   `json:"source" yaml:"source"`
	Records int      `json:"records" yaml:"records"`
	Fields  []string `json:"fields" yaml:"fields"`
}

// NewCommand creates the fields command with app dependencies.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "fields <data.xml>",
		GroupID: constants.GroupManagement,
		Short:   "List the fields of a word list",
		Long: `Fields reads a word list XML file and prints the element names of
its first record. Use them for --written-form, --user-spelling-element
and --tone-group-element when creating a bundle.`,
		Example: `  tonematch fields data_form.xml
  tonematch fields -o json data_form.xml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := records.ReadFile(args[0])
			if err != nil {
				return err
			}
			names, err := doc.Fields()
			if err != nil {
				return err
			}
			app.Logger().Debug().
				Str("source", args[0]).
				Int("records", doc.Len()).
				Int("fields", len(names)).
				Msg("Read record fields")

			return printListing(cmd.OutOrStdout(), app, Listing{
				Source:  args[0],
				Records: doc.Len(),
				Fields:  names,
			})
		},
	}
}

func printListing(w io.Writer, app application.Application, listing Listing) error {
	format, err := output.ParseFormat(app.OutputFormat())
	if err != nil {
		return err
	}
	format = output.DetectFormat(string(format))

	switch format {
	case output.FormatJSON, output.FormatYAML:
		return output.NewFormatter(format).Format(w, listing)
	}

	writer := alerts.NewFormatWriter(w, output.FormatTable)
	if app.NoColor() {
		writer = writer.WithColor(false)
	}
	loaded := alerts.NewSuccess("Loaded " + table.FormatNumber(listing.Records) + " records")
	if err := writer.WriteAlert(loaded); err != nil {
		return err
	}

	data := output.Data{Headers: []string{"#", "Field"}}
	for i, name := range listing.Fields {
		data.Rows = append(data.Rows, []string{table.FormatNumber(i + 1), name})
	}
	return output.NewFormatter(format).Format(w, data)
}
