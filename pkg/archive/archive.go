// Package archive reads speaker result archives.
//
// A speaker archive is a zip file holding a tone group table (CSV with a
// header row) and a record source (phon_data XML). The speaker is named
// after the archive file without its .zip extension.
package archive

import (
	"archive/zip"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/agentstation/tonematch/pkg/agreement"
	"github.com/agentstation/tonematch/pkg/constants"
	"github.com/agentstation/tonematch/pkg/errors"
	"github.com/agentstation/tonematch/pkg/logging"
	"github.com/agentstation/tonematch/pkg/records"
)

// SpeakerID derives the speaker name from an archive path.
func SpeakerID(path string) string {
	return strings.TrimSuffix(filepath.Base(path), constants.ArchiveExtension)
}

// Open reads the speaker archive at path.
func Open(path string, opts ...Option) (agreement.AnnotatorResult, error) {
	o, err := newOptions(opts...)
	if err != nil {
		return agreement.AnnotatorResult{}, err
	}
	return open(path, o)
}

func open(path string, o *options) (agreement.AnnotatorResult, error) {
	id := SpeakerID(path)

	f, err := os.Open(path)
	if err != nil {
		return agreement.AnnotatorResult{}, errors.WrapIO("open", path, err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return agreement.AnnotatorResult{}, errors.WrapIO("stat", path, err)
	}

	result, err := read(id, f, info.Size(), o)
	if err != nil {
		var ae *errors.ArchiveError
		if errors.As(err, &ae) {
			ae.Path = path
		}
		return agreement.AnnotatorResult{}, err
	}
	return result, nil
}

// Read reads a speaker archive of the given size. id names the speaker.
func Read(id string, r io.ReaderAt, size int64, opts ...Option) (agreement.AnnotatorResult, error) {
	o, err := newOptions(opts...)
	if err != nil {
		return agreement.AnnotatorResult{}, err
	}
	return read(id, r, size, o)
}

func read(id string, r io.ReaderAt, size int64, o *options) (agreement.AnnotatorResult, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return agreement.AnnotatorResult{}, errors.NewArchiveError(id, "", "", "not a zip archive", err)
	}

	csvFile := findMember(zr, o.csvPattern)
	if csvFile == nil {
		return agreement.AnnotatorResult{}, errors.NewArchiveError(id, "", "csv", "no CSV file found in "+id, nil)
	}
	groups, err := readGroups(csvFile, o.groupColumn)
	if err != nil {
		return agreement.AnnotatorResult{}, errors.NewArchiveError(id, "", csvFile.Name, "", err)
	}

	xmlFile := findMember(zr, o.xmlPattern)
	if xmlFile == nil {
		return agreement.AnnotatorResult{}, errors.NewArchiveError(id, "", "xml", "no XML file found in "+id, nil)
	}
	doc, err := readRecords(xmlFile)
	if err != nil {
		return agreement.AnnotatorResult{}, errors.NewArchiveError(id, "", xmlFile.Name, "", err)
	}

	o.logger.Debug().
		Str("annotator", id).
		Str("csv", csvFile.Name).
		Str("xml", xmlFile.Name).
		Int("groups", len(groups)).
		Int("records", doc.Len()).
		Msg("Read speaker archive")

	return agreement.AnnotatorResult{
		ID:      id,
		Groups:  groups,
		Records: doc.Records,
	}, nil
}

// findMember returns the first regular member whose name matches pattern.
func findMember(zr *zip.Reader, pattern string) *zip.File {
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if ok, _ := doublestar.Match(pattern, f.Name); ok {
			return f
		}
	}
	return nil
}

func readRecords(f *zip.File) (*records.Document, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, errors.WrapIO("read", f.Name, err)
	}
	defer func() { _ = rc.Close() }()

	doc, err := records.Decode(rc)
	if err != nil {
		var pe *errors.ParseError
		if errors.As(err, &pe) {
			pe.File = f.Name
		}
		return nil, err
	}
	return doc, nil
}

// LoadAll reads several archives concurrently. Results follow the order of
// paths; the first failure cancels the remaining reads.
func LoadAll(ctx context.Context, paths []string, opts ...Option) ([]agreement.AnnotatorResult, error) {
	o, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}

	results := make([]agreement.AnnotatorResult, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return errors.ErrCanceled
			}
			actx := logging.WithLogger(ctx, o.logger)
			actx = logging.WithArchive(logging.WithAnnotator(actx, SpeakerID(path)), path)

			result, err := open(path, o)
			if err != nil {
				logging.FromContext(logging.WithError(actx, err)).Debug().Msg("Failed to read speaker archive")
				return err
			}
			logging.FromContext(actx).Debug().
				Int("groups", len(result.Groups)).
				Int("records", len(result.Records)).
				Msg("Read speaker archive")
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	o.logger.Info().
		Int("archives", len(paths)).
		Msg("Loaded speaker archives")
	return results, nil
}
