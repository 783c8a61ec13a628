// Package records decodes the structured word records a speaker exports:
// a phon_data root holding one data_form element per word. Each child
// element of a data_form becomes a field named after the element; attributes
// become fields prefixed with "@_".
//
// Sources are usually UTF-16LE with a byte order mark. UTF-16BE and UTF-8
// are detected too.
package records

import (
	"bytes"
	"encoding/xml"
	"io"
	"os"
	"slices"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/agentstation/tonematch/pkg/agreement"
	"github.com/agentstation/tonematch/pkg/constants"
	"github.com/agentstation/tonematch/pkg/errors"
)

// Document is a decoded record source.
type Document struct {
	// Records holds one entry per data_form, in document order.
	Records []agreement.Record

	// order holds each record's field names in document order.
	order [][]string
}

// Len returns the number of records.
func (d *Document) Len() int {
	return len(d.Records)
}

// Fields returns the element names of the first record in document order,
// leaving out attributes. It returns ErrNoRecords for an empty document.
func (d *Document) Fields() ([]string, error) {
	if len(d.Records) == 0 {
		return nil, &errors.ParseError{
			Format:  "xml",
			Message: "no data_form elements found",
			Err:     errors.ErrNoRecords,
		}
	}
	var fields []string
	for _, name := range d.order[0] {
		if !strings.HasPrefix(name, constants.AttributePrefix) {
			fields = append(fields, name)
		}
	}
	return fields, nil
}

// Filter returns a document holding only the records whose field value is
// in keep. An empty keep list returns every record.
func (d *Document) Filter(field string, keep []string) *Document {
	if len(keep) == 0 {
		return d
	}
	allowed := make(map[string]struct{}, len(keep))
	for _, k := range keep {
		allowed[k] = struct{}{}
	}

	out := &Document{}
	for i, r := range d.Records {
		if _, ok := allowed[r[field]]; ok {
			out.Records = append(out.Records, r)
			out.order = append(out.order, d.order[i])
		}
	}
	return out
}

// ReadFile decodes the record source at path.
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	doc, err := DecodeBytes(data)
	if err != nil {
		var pe *errors.ParseError
		if errors.As(err, &pe) {
			pe.File = path
		}
		return nil, err
	}
	return doc, nil
}

// Decode reads and decodes a record source.
func Decode(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.WrapIO("read", "", err)
	}
	return DecodeBytes(data)
}

// DecodeBytes decodes a record source held in memory.
func DecodeBytes(data []byte) (*Document, error) {
	text, err := toUTF8(data)
	if err != nil {
		return nil, errors.NewParseError("xml", "", "invalid text encoding", errors.ErrMalformedRecords)
	}

	dec := xml.NewDecoder(bytes.NewReader(text))
	// The bytes are already UTF-8 whatever the declaration says.
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	root, err := firstElement(dec)
	if err != nil {
		return nil, err
	}
	if root.Name.Local != constants.RootElement {
		return nil, errors.NewParseError("xml", "", "missing phon_data element", errors.ErrMalformedRecords)
	}

	doc := &Document{}
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, errors.NewParseError("xml", "", "unexpected end of document", errors.ErrMalformedRecords)
		}
		if err != nil {
			return nil, malformed(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != constants.RecordElement {
				if err := dec.Skip(); err != nil {
					return nil, malformed(err)
				}
				continue
			}
			record, order, err := decodeRecord(dec, t)
			if err != nil {
				return nil, err
			}
			doc.Records = append(doc.Records, record)
			doc.order = append(doc.order, order)
		case xml.EndElement:
			return doc, nil
		}
	}
}

// firstElement returns the document's root element.
func firstElement(dec *xml.Decoder) (xml.StartElement, error) {
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return xml.StartElement{}, errors.NewParseError("xml", "", "missing phon_data element", errors.ErrMalformedRecords)
		}
		if err != nil {
			return xml.StartElement{}, malformed(err)
		}
		if se, ok := tok.(xml.StartElement); ok {
			return se, nil
		}
	}
}

func decodeRecord(dec *xml.Decoder, start xml.StartElement) (agreement.Record, []string, error) {
	record := make(agreement.Record)
	var order []string
	set := func(name, value string) {
		if _, ok := record[name]; !ok {
			order = append(order, name)
		}
		record[name] = value
	}

	for _, attr := range start.Attr {
		set(constants.AttributePrefix+attr.Name.Local, attr.Value)
	}

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, malformed(err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			value, err := elementText(dec)
			if err != nil {
				return nil, nil, err
			}
			set(t.Name.Local, value)
		case xml.EndElement:
			return record, order, nil
		}
	}
}

// elementText collects the character data of the current element and its
// descendants.
func elementText(dec *xml.Decoder) (string, error) {
	var sb strings.Builder
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return "", malformed(err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
	return strings.TrimSpace(sb.String()), nil
}

func malformed(err error) error {
	pe := errors.NewParseError("xml", "", err.Error(), errors.ErrMalformedRecords)
	var se *xml.SyntaxError
	if errors.As(err, &se) {
		pe.Line = se.Line
	}
	return pe
}

// toUTF8 converts the source to UTF-8. A byte order mark wins; without one
// a zero second byte is taken as UTF-16LE, anything else as UTF-8.
func toUTF8(data []byte) ([]byte, error) {
	var t transform.Transformer
	switch {
	case bytes.HasPrefix(data, []byte{0xFF, 0xFE}), bytes.HasPrefix(data, []byte{0xFE, 0xFF}),
		bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}):
		t = unicode.BOMOverride(unicode.UTF8.NewDecoder())
	case len(data) >= 2 && data[0] != 0 && data[1] == 0:
		t = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	default:
		return data, nil
	}
	out, _, err := transform.Bytes(t, data)
	return out, err
}

// Encode writes records as a UTF-16LE document with a byte order mark.
// Fields follow the document's recorded order; fields added later are
// appended in name order.
func Encode(w io.Writer, doc *Document) error {
	tw := transform.NewWriter(w, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder())

	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-16"?>` + "\n")
	buf.WriteString("<" + constants.RootElement + ">\n")
	for i, record := range doc.Records {
		var order []string
		if i < len(doc.order) {
			order = doc.order[i]
		}
		writeRecord(&buf, record, order)
	}
	buf.WriteString("</" + constants.RootElement + ">\n")

	if _, err := tw.Write(buf.Bytes()); err != nil {
		return errors.WrapIO("write", "", err)
	}
	if err := tw.Close(); err != nil {
		return errors.WrapIO("write", "", err)
	}
	return nil
}

// NewDocument builds a document from records, keeping each record's fields
// in the given order.
func NewDocument(fields []string, records ...agreement.Record) *Document {
	doc := &Document{Records: records}
	for range records {
		doc.order = append(doc.order, fields)
	}
	return doc
}

func writeRecord(buf *bytes.Buffer, record agreement.Record, order []string) {
	names := fieldOrder(record, order)

	buf.WriteString("  <" + constants.RecordElement)
	for _, name := range names {
		if attr, ok := strings.CutPrefix(name, constants.AttributePrefix); ok {
			buf.WriteString(" " + attr + `="`)
			_ = xml.EscapeText(buf, []byte(record[name]))
			buf.WriteString(`"`)
		}
	}
	buf.WriteString(">\n")

	for _, name := range names {
		if strings.HasPrefix(name, constants.AttributePrefix) {
			continue
		}
		buf.WriteString("    <" + name + ">")
		_ = xml.EscapeText(buf, []byte(record[name]))
		buf.WriteString("</" + name + ">\n")
	}
	buf.WriteString("  </" + constants.RecordElement + ">\n")
}

func fieldOrder(record agreement.Record, order []string) []string {
	names := make([]string, 0, len(record))
	seen := make(map[string]struct{}, len(record))
	for _, name := range order {
		if _, ok := record[name]; ok {
			names = append(names, name)
			seen[name] = struct{}{}
		}
	}
	var rest []string
	for name := range record {
		if _, ok := seen[name]; !ok {
			rest = append(rest, name)
		}
	}
	slices.Sort(rest)
	return append(names, rest...)
}
