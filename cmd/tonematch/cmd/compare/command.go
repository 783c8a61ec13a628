// Package compare provides the compare command, which scores how far several
// speakers agree on the tone groups of a shared word list.
package compare

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/agentstation/tonematch/cmd/application"
	"github.com/agentstation/tonematch/internal/cmd/constants"
	"github.com/agentstation/tonematch/pkg/agreement"
	"github.com/agentstation/tonematch/pkg/archive"
	"github.com/agentstation/tonematch/pkg/errors"
	"github.com/agentstation/tonematch/pkg/logging"
)

// options holds the resolved settings for one compare run.
type options struct {
	threshold   float64
	keyField    string
	groupField  string
	groupColumn string
	concurrency int
	details     bool
}

// NewCommand creates the compare command with app dependencies.
func NewCommand(app application.Application) *cobra.Command {
	defaults := app.Analysis()

	cmd := &cobra.Command{
		Use:     "compare <speaker.zip>...",
		GroupID: constants.GroupCore,
		Short:   "Compare tone groupings across speakers",
		Long: `Compare reads one result archive per speaker and reports how well
their tone groupings agree.

Each archive must contain a tone group table (CSV) and the word records
(XML) the speaker sorted. The speaker is named after the archive file.

The report lists every word the speakers placed in different groups and
pairs of groups from two speakers that share more than --threshold
percent of their words. Those pairs are likely the same tone category
under different numbers.`,
		Example: `  tonematch compare alice.zip bob.zip carol.zip
  tonematch compare --threshold 90 results/*.zip
  tonematch compare -o json alice.zip bob.zip > report.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := resolveOptions(cmd, app)
			if err != nil {
				return err
			}
			result, err := run(cmd, app, opts, args)
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), app, result, opts)
		},
	}

	cmd.Flags().Float64("threshold", defaults.MergeThreshold, "overlap percentage a group pair must exceed to be reported")
	cmd.Flags().String("key-field", defaults.KeyField, "record field identifying a word")
	cmd.Flags().String("group-field", defaults.GroupField, "record field holding the tone group number")
	cmd.Flags().String("group-column", defaults.GroupColumn, "tone group table column holding the group number")
	cmd.Flags().Int("concurrency", defaults.Concurrency, "number of speaker pairs compared in parallel")
	cmd.Flags().BoolP("details", "d", false, "show per-speaker record counts")

	return cmd
}

// resolveOptions reads the command flags. Flags left unset take the
// application's analysis defaults, which may come from a config file
// loaded after the command was built.
func resolveOptions(cmd *cobra.Command, app application.Application) (*options, error) {
	defaults := app.Analysis()
	opts := &options{
		threshold:   defaults.MergeThreshold,
		keyField:    defaults.KeyField,
		groupField:  defaults.GroupField,
		groupColumn: defaults.GroupColumn,
		concurrency: defaults.Concurrency,
	}

	flags := cmd.Flags()
	var err error
	if flags.Changed("threshold") {
		if opts.threshold, err = flags.GetFloat64("threshold"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("key-field") {
		if opts.keyField, err = flags.GetString("key-field"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("group-field") {
		if opts.groupField, err = flags.GetString("group-field"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("group-column") {
		if opts.groupColumn, err = flags.GetString("group-column"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("concurrency") {
		if opts.concurrency, err = flags.GetInt("concurrency"); err != nil {
			return nil, err
		}
	}
	if opts.details, err = flags.GetBool("details"); err != nil {
		return nil, err
	}
	return opts, nil
}

// run loads the archives and analyzes them.
func run(cmd *cobra.Command, app application.Application, opts *options, paths []string) (*agreement.Result, error) {
	ctx := logging.WithOperation(logging.WithLogger(cmd.Context(), app.Logger()), "compare")
	ctx = logging.WithRunID(ctx, uuid.NewString())
	ctx = logging.WithFields(ctx, map[string]any{
		"speakers":  len(paths),
		"threshold": opts.threshold,
	})
	logger := logging.FromContext(ctx)

	results, err := archive.LoadAll(ctx, paths,
		archive.WithGroupColumn(opts.groupColumn),
		archive.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	result, err := agreement.Analyze(results,
		agreement.WithFields(agreement.Fields{Key: opts.keyField, Group: opts.groupField}),
		agreement.WithThreshold(opts.threshold),
		agreement.WithConcurrency(opts.concurrency),
		agreement.WithLogger(logger),
	)
	if err != nil {
		return nil, errors.WrapResource("analyze", "speakers", "", err)
	}
	return result, nil
}
