package archive_test

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/tonematch/pkg/agreement"
	"github.com/agentstation/tonematch/pkg/archive"
	"github.com/agentstation/tonematch/pkg/errors"
	"github.com/agentstation/tonematch/pkg/records"
)

type member struct {
	name string
	data []byte
}

const groupsCSV = "Tone Group,Written Form,Reference Number\n" +
	"1,ba,0001\n" +
	"2,,0002\n" +
	"x,junk,\n" +
	"1,second,0003\n"

func recordsXML(t *testing.T, rows ...[2]string) []byte {
	t.Helper()
	recs := make([]agreement.Record, len(rows))
	for i, r := range rows {
		recs[i] = agreement.Record{"Reference": r[0], "SurfaceMelodyGroup": r[1]}
	}
	var buf bytes.Buffer
	require.NoError(t, records.Encode(&buf, records.NewDocument([]string{"Reference", "SurfaceMelodyGroup"}, recs...)))
	return buf.Bytes()
}

func zipBytes(t *testing.T, members ...member) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, m := range members {
		w, err := zw.Create(m.name)
		require.NoError(t, err)
		_, err = w.Write(m.data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func writeArchive(t *testing.T, dir, name string, members ...member) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, zipBytes(t, members...), 0o644))
	return path
}

func TestSpeakerID(t *testing.T) {
	assert.Equal(t, "alice", archive.SpeakerID("/tmp/results/alice.zip"))
	assert.Equal(t, "bob.v2", archive.SpeakerID("bob.v2.zip"))
	assert.Equal(t, "carol", archive.SpeakerID("carol"))
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	path := writeArchive(t, dir, "alice.zip",
		member{"results/tone_groups.csv", []byte(groupsCSV)},
		member{"results/data_form.xml", recordsXML(t, [2]string{"0001", "1"}, [2]string{"0002", "2"})},
	)

	result, err := archive.Open(path)
	require.NoError(t, err)

	assert.Equal(t, "alice", result.ID)
	require.Len(t, result.Groups, 4)
	assert.Equal(t, "1", result.Groups[0].Label)
	assert.Equal(t, agreement.Record{
		"Tone Group":       "1",
		"Written Form":     "ba",
		"Reference Number": "0001",
	}, result.Groups[0].Exemplar)
	assert.Equal(t, "x", result.Groups[2].Label)

	require.Len(t, result.Records, 2)
	assert.Equal(t, "0002", result.Records[1]["Reference"])

	t.Run("exemplar is the first matching row", func(t *testing.T) {
		a := agreement.NewAnnotator(result, agreement.DefaultFields())
		assert.Equal(t, "ba", a.Exemplar(1)["Written Form"])
		assert.Equal(t, "0002", a.Exemplar(2)["Reference Number"])
	})
}

func TestReadMissingMembers(t *testing.T) {
	xml := recordsXML(t, [2]string{"w1", "1"})

	tests := []struct {
		name    string
		members []member
		member  string
		message string
	}{
		{"no csv", []member{{"data.xml", xml}}, "csv", "no CSV file found in alice"},
		{"no xml", []member{{"groups.csv", []byte(groupsCSV)}}, "xml", "no XML file found in alice"},
		{"empty", nil, "csv", "no CSV file found in alice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := zipBytes(t, tt.members...)
			_, err := archive.Read("alice", bytes.NewReader(data), int64(len(data)))
			require.Error(t, err)
			assert.True(t, errors.IsMalformedArchive(err))

			var ae *errors.ArchiveError
			require.True(t, errors.As(err, &ae))
			assert.Equal(t, "alice", ae.Annotator)
			assert.Equal(t, tt.member, ae.Member)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestReadMalformed(t *testing.T) {
	t.Run("not a zip", func(t *testing.T) {
		data := []byte("plain text")
		_, err := archive.Read("alice", bytes.NewReader(data), int64(len(data)))
		assert.True(t, errors.IsMalformedArchive(err))
	})

	t.Run("record source without phon_data", func(t *testing.T) {
		data := zipBytes(t,
			member{"groups.csv", []byte(groupsCSV)},
			member{"data.xml", []byte("<other/>")},
		)
		_, err := archive.Read("alice", bytes.NewReader(data), int64(len(data)))
		require.Error(t, err)
		assert.True(t, errors.IsMalformedArchive(err))
		assert.True(t, errors.IsMalformedRecords(err))
		assert.Contains(t, err.Error(), "missing phon_data")
	})

	t.Run("utf-8 record source", func(t *testing.T) {
		data := zipBytes(t,
			member{"groups.csv", []byte(groupsCSV)},
			member{"data.xml", []byte("<phon_data><data_form><Reference>w1</Reference></data_form></phon_data>")},
		)
		result, err := archive.Read("alice", bytes.NewReader(data), int64(len(data)))
		require.NoError(t, err)
		assert.Len(t, result.Records, 1)
	})
}

func TestMemberSelection(t *testing.T) {
	data := zipBytes(t,
		member{"dir/", nil},
		member{"notes.txt", []byte("hello")},
		member{"a/first.csv", []byte("Tone Group\n1\n")},
		member{"second.csv", []byte("Tone Group\n1\n2\n")},
		member{"data.xml", recordsXML(t)},
	)

	result, err := archive.Read("alice", bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.Len(t, result.Groups, 1)

	t.Run("custom patterns", func(t *testing.T) {
		result, err := archive.Read("alice", bytes.NewReader(data), int64(len(data)),
			archive.WithMemberPatterns("second.csv", "*.xml"))
		require.NoError(t, err)
		assert.Len(t, result.Groups, 2)
	})
}

func TestParseGroups(t *testing.T) {
	t.Run("custom column and bom", func(t *testing.T) {
		csv := "\xEF\xBB\xBFGroup,Form\n3,ka\n4\n"
		groups, err := archive.ParseGroups(strings.NewReader(csv), "Group")
		require.NoError(t, err)
		require.Len(t, groups, 2)
		assert.Equal(t, "3", groups[0].Label)
		assert.Equal(t, agreement.Record{"Group": "4"}, groups[1].Exemplar)
	})

	t.Run("empty input", func(t *testing.T) {
		groups, err := archive.ParseGroups(strings.NewReader(""), "Tone Group")
		require.NoError(t, err)
		assert.Empty(t, groups)
	})

	t.Run("header only", func(t *testing.T) {
		groups, err := archive.ParseGroups(strings.NewReader("Tone Group\n"), "Tone Group")
		require.NoError(t, err)
		assert.Empty(t, groups)
	})
}

func TestOptionValidation(t *testing.T) {
	tests := []struct {
		name string
		opt  archive.Option
	}{
		{"empty group column", archive.WithGroupColumn("")},
		{"bad pattern", archive.WithMemberPatterns("[", "*.xml")},
		{"empty pattern", archive.WithMemberPatterns("*.csv", "")},
		{"zero concurrency", archive.WithConcurrency(0)},
		{"nil logger", archive.WithLogger(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := archive.Open("unused.zip", tt.opt)
			assert.True(t, errors.IsValidationError(err))
		})
	}
}

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"s1.zip", "s2.zip", "s3.zip", "s4.zip"} {
		paths = append(paths, writeArchive(t, dir, name,
			member{"groups.csv", []byte(groupsCSV)},
			member{"data.xml", recordsXML(t, [2]string{"w1", "1"})},
		))
	}

	results, err := archive.LoadAll(context.Background(), paths, archive.WithConcurrency(2))
	require.NoError(t, err)
	require.Len(t, results, 4)
	for i, want := range []string{"s1", "s2", "s3", "s4"} {
		assert.Equal(t, want, results[i].ID)
	}

	t.Run("failure names the archive", func(t *testing.T) {
		bad := writeArchive(t, dir, "broken.zip", member{"groups.csv", []byte(groupsCSV)})
		_, err := archive.LoadAll(context.Background(), append(paths, bad))
		require.Error(t, err)

		var ae *errors.ArchiveError
		require.True(t, errors.As(err, &ae))
		assert.Equal(t, "broken", ae.Annotator)
		assert.Equal(t, bad, ae.Path)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := archive.LoadAll(context.Background(), []string{filepath.Join(dir, "nope.zip")})
		var ioe *errors.IOError
		assert.True(t, errors.As(err, &ioe))
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := archive.LoadAll(ctx, paths)
		assert.True(t, errors.IsCanceled(err))
	})

	t.Run("no paths", func(t *testing.T) {
		results, err := archive.LoadAll(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}
