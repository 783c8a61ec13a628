package archive

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"io"

	"github.com/agentstation/tonematch/pkg/agreement"
	"github.com/agentstation/tonematch/pkg/errors"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func readGroups(f *zip.File, groupColumn string) ([]agreement.GroupDefinition, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, errors.WrapIO("read", f.Name, err)
	}
	defer func() { _ = rc.Close() }()

	groups, err := ParseGroups(rc, groupColumn)
	if err != nil {
		var pe *errors.ParseError
		if errors.As(err, &pe) {
			pe.File = f.Name
		}
		return nil, err
	}
	return groups, nil
}

// ParseGroups reads a tone group table. The first row is the header. Every
// following row becomes a group definition labeled by groupColumn, with the
// whole row (column name to value) as its exemplar. Rows whose label is not
// a number are kept; they never match an exemplar lookup.
func ParseGroups(r io.Reader, groupColumn string) ([]agreement.GroupDefinition, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.WrapIO("read", "", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return []agreement.GroupDefinition{}, nil
	}
	if err != nil {
		return nil, parseError(err)
	}

	groups := []agreement.GroupDefinition{}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			return groups, nil
		}
		if err != nil {
			return nil, parseError(err)
		}

		record := make(agreement.Record, len(header))
		for i, name := range header {
			if i < len(row) {
				record[name] = row[i]
			}
		}
		groups = append(groups, agreement.GroupDefinition{
			Label:    record[groupColumn],
			Exemplar: record,
		})
	}
}

func parseError(err error) error {
	pe := errors.NewParseError("csv", "", err.Error(), err)
	var ce *csv.ParseError
	if errors.As(err, &ce) {
		pe.Line = ce.Line
		pe.Column = ce.Column
	}
	return pe
}
