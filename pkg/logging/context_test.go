package logging_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/tonematch/pkg/logging"
)

func TestContextFunctions(t *testing.T) {
	t.Run("FromContext falls back to the default logger", func(t *testing.T) {
		assert.Same(t, logging.Default(), logging.FromContext(context.Background()))
		//nolint:staticcheck // nil context is part of the contract
		assert.Same(t, logging.Default(), logging.FromContext(nil))
		assert.Same(t, logging.Default(), logging.FromContext(logging.WithLogger(context.Background(), nil)))
	})

	t.Run("annotator and operation fields are attached", func(t *testing.T) {
		rec := logging.NewRecorder(t)
		ctx := logging.WithLogger(context.Background(), rec.Logger)
		ctx = logging.WithAnnotator(ctx, "alice")
		ctx = logging.WithOperation(ctx, "compare")
		ctx = logging.WithArchive(ctx, "/tmp/alice.zip")

		logging.FromContext(ctx).Info().Msg("loaded")

		entries := rec.Entries()
		require.Len(t, entries, 1)
		assert.Equal(t, "alice", entries[0]["annotator"])
		assert.Equal(t, "compare", entries[0]["operation"])
		assert.Equal(t, "/tmp/alice.zip", entries[0]["archive"])
	})

	t.Run("parent logger is left alone", func(t *testing.T) {
		rec := logging.NewRecorder(t)
		parent := logging.WithLogger(context.Background(), rec.Logger)
		_ = logging.WithAnnotator(parent, "alice")

		logging.FromContext(parent).Info().Msg("plain")
		assert.NotContains(t, rec.String(), "annotator")
	})

	t.Run("WithFields handles typed values", func(t *testing.T) {
		rec := logging.NewRecorder(t)
		ctx := logging.WithLogger(context.Background(), rec.Logger)
		ctx = logging.WithFields(ctx, map[string]any{
			"speakers":  3,
			"threshold": 80.0,
			"parallel":  true,
		})

		logging.FromContext(ctx).Info().Msg("run")

		assert.Contains(t, rec.String(), `"speakers":3`)
		assert.Contains(t, rec.String(), `"threshold":80`)
		assert.Contains(t, rec.String(), `"parallel":true`)
	})

	t.Run("WithError ignores nil", func(t *testing.T) {
		ctx := context.Background()
		assert.Equal(t, ctx, logging.WithError(ctx, nil))

		rec := logging.NewRecorder(t)
		ctx = logging.WithLogger(ctx, rec.Logger)
		ctx = logging.WithError(ctx, errors.New("boom"))
		logging.FromContext(ctx).Warn().Msg("failed")
		assert.Contains(t, rec.String(), `"error":"boom"`)
	})

	t.Run("run id round trips", func(t *testing.T) {
		rec := logging.NewRecorder(t)
		ctx := logging.WithLogger(context.Background(), rec.Logger)
		ctx = logging.WithRunID(ctx, "run-1")
		assert.Equal(t, "run-1", logging.RunID(ctx))
		assert.Empty(t, logging.RunID(context.Background()))

		logging.FromContext(ctx).Info().Msg("tagged")
		assert.Contains(t, rec.String(), `"run_id":"run-1"`)
	})
}
