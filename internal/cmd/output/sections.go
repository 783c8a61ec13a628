package output

import (
	"fmt"
	"io"
)

// Section is a titled table within a larger report.
type Section struct {
	Title string
	Data  Data
}

// WriteSections renders each section as a title line followed by its table.
// Sections without rows are skipped unless keepEmpty is set.
func WriteSections(w io.Writer, keepEmpty bool, sections ...Section) error {
	f := &TableFormatter{}
	written := 0
	for _, s := range sections {
		if s.Data.Empty() && !keepEmpty {
			continue
		}
		if written > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if s.Title != "" {
			if _, err := fmt.Fprintln(w, s.Title); err != nil {
				return err
			}
		}
		if err := f.formatTable(w, s.Data); err != nil {
			return err
		}
		written++
	}
	return nil
}
