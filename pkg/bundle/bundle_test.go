package bundle_test

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/agentstation/utc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/tonematch/pkg/agreement"
	"github.com/agentstation/tonematch/pkg/bundle"
	"github.com/agentstation/tonematch/pkg/errors"
	"github.com/agentstation/tonematch/pkg/records"
)

type fixture struct {
	source   string
	assets   string
	output   string
	original []byte
}

func newFixture(t *testing.T, sounds []string, present ...string) fixture {
	t.Helper()
	dir := t.TempDir()

	recs := make([]agreement.Record, len(sounds))
	for i, s := range sounds {
		recs[i] = agreement.Record{
			"Reference": string(rune('1' + i)),
			"Phonetic":  "form",
			"SoundFile": s,
		}
	}
	var buf bytes.Buffer
	require.NoError(t, records.Encode(&buf, records.NewDocument([]string{"Reference", "Phonetic", "SoundFile"}, recs...)))

	f := fixture{
		source:   filepath.Join(dir, "data_form.xml"),
		assets:   filepath.Join(dir, "audio"),
		output:   filepath.Join(dir, "out", "bundle.zip"),
		original: buf.Bytes(),
	}
	require.NoError(t, os.WriteFile(f.source, f.original, 0o644))
	require.NoError(t, os.MkdirAll(f.assets, 0o755))
	for _, name := range present {
		require.NoError(t, os.WriteFile(filepath.Join(f.assets, name), []byte("RIFF"+name), 0o644))
	}
	return f
}

func (f fixture) request(settings bundle.Settings) bundle.Request {
	return bundle.Request{
		SourcePath: f.source,
		AssetDir:   f.assets,
		OutputPath: f.output,
		Settings:   settings,
	}
}

func readZip(t *testing.T, path string) map[string][]byte {
	t.Helper()
	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer func() { _ = zr.Close() }()

	out := make(map[string][]byte)
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		_ = rc.Close()
		out[f.Name] = data
	}
	return out
}

func names(m map[string][]byte) []string {
	var out []string
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func fixedOptions() []bundle.Option {
	created := utc.New(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	return []bundle.Option{
		bundle.WithClock(func() utc.Time { return created }),
		bundle.WithIDGenerator(func() string { return "bundle-1" }),
	}
}

func TestAssemble(t *testing.T) {
	f := newFixture(t, []string{"a.wav", "b.wav", "a.wav", "c.wav"}, "a.wav", "b.wav")

	summary, err := bundle.Assemble(context.Background(), f.request(bundle.DefaultSettings()), fixedOptions()...)
	require.NoError(t, err)

	assert.Equal(t, 4, summary.RecordCount)
	assert.Equal(t, 2, summary.AssetCount)
	assert.Equal(t, []string{"a.wav", "b.wav"}, summary.Assets)
	assert.Equal(t, []string{"c.wav"}, summary.Unresolved)
	assert.False(t, summary.Complete())
	assert.Equal(t, "bundle-1", summary.BundleID)

	members := readZip(t, f.output)
	assert.Equal(t, []string{"audio/a.wav", "audio/b.wav", "data.xml", "settings.json"}, names(members))
	assert.Equal(t, f.original, members["data.xml"])
	assert.Equal(t, []byte("RIFFa.wav"), members["audio/a.wav"])

	var settings map[string]any
	require.NoError(t, json.Unmarshal(members["settings.json"], &settings))
	assert.Equal(t, []any{"Phonetic"}, settings["writtenFormElements"])
	assert.Nil(t, settings["audioFileSuffix"])
	assert.Equal(t, []any{}, settings["referenceNumbers"])
	assert.Equal(t, "bundle-1", settings["bundleId"])
	assert.Contains(t, settings, "createdAt")
	assert.Contains(t, string(members["settings.json"]), "\n  \"showWrittenForm\": false")
}

func TestAssembleSuffixAndFilter(t *testing.T) {
	f := newFixture(t, []string{"a.wav", "b.wav", "c"}, "a_x.wav", "c_x")

	settings := bundle.DefaultSettings()
	settings.SetSuffix("_x")
	settings.ReferenceNumbers = bundle.ParseReferenceNumbers("1, 3")

	summary, err := bundle.Assemble(context.Background(), f.request(settings), fixedOptions()...)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.RecordCount)
	assert.Equal(t, []string{"a_x.wav", "c_x"}, summary.Assets)
	assert.Nil(t, summary.Unresolved)
	assert.True(t, summary.Complete())

	members := readZip(t, f.output)
	assert.Contains(t, members, "audio/a_x.wav")
	assert.Contains(t, members, "audio/c_x")

	var decoded bundle.Settings
	require.NoError(t, json.Unmarshal(members["settings.json"], &decoded))
	assert.Equal(t, "_x", decoded.Suffix())
	assert.Equal(t, []string{"1", "3"}, decoded.ReferenceNumbers)
}

func TestAssembleFilteredData(t *testing.T) {
	f := newFixture(t, []string{"a.wav", "b.wav"}, "a.wav")

	settings := bundle.DefaultSettings()
	settings.ReferenceNumbers = []string{"2"}

	opts := append(fixedOptions(), bundle.WithFilteredData(true))
	_, err := bundle.Assemble(context.Background(), f.request(settings), opts...)
	require.NoError(t, err)

	doc, err := records.DecodeBytes(readZip(t, f.output)["data.xml"])
	require.NoError(t, err)
	require.Equal(t, 1, doc.Len())
	assert.Equal(t, "b.wav", doc.Records[0]["SoundFile"])
}

func TestAssembleErrors(t *testing.T) {
	f := newFixture(t, []string{"a.wav"}, "a.wav")

	t.Run("no written form elements", func(t *testing.T) {
		settings := bundle.DefaultSettings()
		settings.WrittenFormElements = nil
		_, err := bundle.Assemble(context.Background(), f.request(settings))
		assert.True(t, errors.IsValidationError(err))
		assert.NoFileExists(t, f.output)
	})

	t.Run("missing paths", func(t *testing.T) {
		_, err := bundle.Assemble(context.Background(), bundle.Request{Settings: bundle.DefaultSettings()})
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("missing source", func(t *testing.T) {
		req := f.request(bundle.DefaultSettings())
		req.SourcePath = filepath.Join(t.TempDir(), "none.xml")
		_, err := bundle.Assemble(context.Background(), req)
		var ioe *errors.IOError
		assert.True(t, errors.As(err, &ioe))
	})

	t.Run("malformed source", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.xml")
		require.NoError(t, os.WriteFile(bad, []byte("<root/>"), 0o644))
		req := f.request(bundle.DefaultSettings())
		req.SourcePath = bad
		_, err := bundle.Assemble(context.Background(), req)
		assert.True(t, errors.IsMalformedRecords(err))
	})

	t.Run("source without records", func(t *testing.T) {
		empty := filepath.Join(t.TempDir(), "empty.xml")
		require.NoError(t, os.WriteFile(empty, []byte("<phon_data/>"), 0o644))
		req := f.request(bundle.DefaultSettings())
		req.SourcePath = empty
		_, err := bundle.Assemble(context.Background(), req)
		assert.True(t, errors.Is(err, errors.ErrNoRecords))
	})

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := bundle.Assemble(ctx, f.request(bundle.DefaultSettings()))
		assert.True(t, errors.IsCanceled(err))
		assert.NoFileExists(t, f.output)
	})

	t.Run("invalid options", func(t *testing.T) {
		_, err := bundle.Assemble(context.Background(), f.request(bundle.DefaultSettings()), bundle.WithKeyField(""))
		assert.True(t, errors.IsValidationError(err))
	})
}
