// Package bundle provides the bundle command, which packs a word list and
// its audio into a zip for a new tone sorting session.
package bundle

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/tonematch/cmd/application"
	cliconstants "github.com/agentstation/tonematch/internal/cmd/constants"
	"github.com/agentstation/tonematch/pkg/bundle"
	"github.com/agentstation/tonematch/pkg/constants"
	"github.com/agentstation/tonematch/pkg/errors"
	"github.com/agentstation/tonematch/pkg/logging"
)

// NewCommand creates the bundle command with app dependencies.
func NewCommand(app application.Application) *cobra.Command {
	defaults := bundle.DefaultSettings()

	cmd := &cobra.Command{
		Use:     "bundle",
		GroupID: cliconstants.GroupCore,
		Short:   "Create a sorting bundle from a word list and audio",
		Long: `Bundle packs a word list, its audio recordings and the session
settings into one zip that a speaker can open to sort words into
tone groups.

The bundle holds data.xml (the word list), settings.json and an audio/
directory with every recording the selected words reference. Audio files
that cannot be found are reported but do not stop the bundle.`,
		Example: `  tonematch bundle --xml data_form.xml --audio-dir audio/
  tonematch bundle --xml data_form.xml --audio-dir audio/ --references "0001, 0002 0005"
  tonematch bundle --xml data_form.xml --audio-dir audio/ --audio-suffix -clip --out session1.zip`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, opts, err := buildRequest(cmd, app)
			if err != nil {
				return err
			}
			ctx := logging.WithOperation(logging.WithLogger(cmd.Context(), app.Logger()), "bundle")
			opts = append(opts, bundle.WithLogger(logging.FromContext(ctx)))
			summary, err := bundle.Assemble(ctx, *req, opts...)
			if err != nil {
				return err
			}
			return printSummary(cmd.OutOrStdout(), app, summary)
		},
	}

	cmd.Flags().String("xml", "", "word list XML file")
	cmd.Flags().String("audio-dir", "", "directory holding the audio files")
	cmd.Flags().String("out", constants.DefaultBundleName, "output bundle path")
	cmd.Flags().StringSlice("written-form", defaults.WrittenFormElements, "record elements shown as the written form")
	cmd.Flags().Bool("show-written-form", false, "show the written form while sorting")
	cmd.Flags().String("audio-suffix", "", "suffix inserted before the audio file extension")
	cmd.Flags().String("references", "", "reference numbers to include, separated by commas, spaces or newlines")
	cmd.Flags().String("references-file", "", "file listing the reference numbers to include")
	cmd.Flags().Bool("require-user-spelling", false, "ask the speaker to spell each word")
	cmd.Flags().String("user-spelling-element", "", "record element receiving the speaker's spelling")
	cmd.Flags().String("tone-group-element", "", "record element receiving the tone group (default from config)")
	cmd.Flags().String("key-field", "", "record field holding the reference number (default from config)")
	cmd.Flags().Bool("filter-data", false, "store only the selected records in data.xml")

	_ = cmd.MarkFlagRequired("xml")
	_ = cmd.MarkFlagRequired("audio-dir")

	return cmd
}

// buildRequest turns the command flags into a bundle request.
func buildRequest(cmd *cobra.Command, app application.Application) (*bundle.Request, []bundle.Option, error) {
	flags := cmd.Flags()
	defaults := app.Analysis()

	source, _ := flags.GetString("xml")
	assetDir, _ := flags.GetString("audio-dir")
	out, _ := flags.GetString("out")

	settings := bundle.DefaultSettings()
	settings.WrittenFormElements, _ = flags.GetStringSlice("written-form")
	settings.ShowWrittenForm, _ = flags.GetBool("show-written-form")
	settings.RequireUserSpelling, _ = flags.GetBool("require-user-spelling")
	settings.UserSpellingElement, _ = flags.GetString("user-spelling-element")

	suffix, _ := flags.GetString("audio-suffix")
	settings.SetSuffix(suffix)

	settings.ToneGroupElement = defaults.GroupField
	if element, _ := flags.GetString("tone-group-element"); element != "" {
		settings.ToneGroupElement = element
	}

	refs, err := referenceNumbers(cmd)
	if err != nil {
		return nil, nil, err
	}
	settings.ReferenceNumbers = refs

	keyField := defaults.KeyField
	if field, _ := flags.GetString("key-field"); field != "" {
		keyField = field
	}
	filter, _ := flags.GetBool("filter-data")

	req := &bundle.Request{
		SourcePath: source,
		AssetDir:   assetDir,
		OutputPath: out,
		Settings:   settings,
	}
	opts := []bundle.Option{
		bundle.WithKeyField(keyField),
		bundle.WithFilteredData(filter),
	}
	return req, opts, nil
}

// referenceNumbers merges the --references list with the contents of
// --references-file, keeping first occurrences.
func referenceNumbers(cmd *cobra.Command) ([]string, error) {
	text, _ := cmd.Flags().GetString("references")
	refs := bundle.ParseReferenceNumbers(text)

	if path, _ := cmd.Flags().GetString("references-file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.WrapIO("read", path, err)
		}
		refs = append(refs, bundle.ParseReferenceNumbers(string(data))...)
	}

	seen := make(map[string]struct{}, len(refs))
	unique := refs[:0]
	for _, r := range refs {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		unique = append(unique, r)
	}
	return unique, nil
}
