// Package exporter serializes a document back into delimiter-separated
// text, one blob per category. Values are written in the canonical
// textual form the importer accepts, so feeding an export back through
// the import pipeline with identity mapping reconstructs the same
// records for every field that was set.
package exporter

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/detcover/detcover/pkg/document"
	"github.com/detcover/detcover/pkg/schema"
	"github.com/detcover/detcover/pkg/validate"
)

// utf8BOM for Excel compatibility.
const utf8BOM = "\xEF\xBB\xBF"

// Options configures export behavior.
type Options struct {
	// Delimiter sets the field delimiter. Comma when zero.
	Delimiter rune

	// ExcelCompatible prepends a UTF-8 BOM so Excel renders non-ASCII
	// correctly. The importer strips the BOM, so round-trips are
	// unaffected.
	ExcelCompatible bool

	// SanitizeFormulas prefixes cells starting with = + - @ TAB CR
	// with a quote to prevent formula execution in spreadsheets.
	// Off by default because the prefix is not round-trip clean.
	SanitizeFormulas bool

	// IncludeDerived appends recomputed derived columns (success
	// rate) to repeating categories that have them. Derived columns
	// are presentation only; the importer leaves them unmapped.
	IncludeDerived bool
}

// Export serializes every category of the document.
// Categories with no data still produce a blob (header row only, or
// empty key/value table), keeping the output shape predictable for
// the archiving layer.
func Export(reg *schema.Registry, doc *document.Document, opts Options) (map[schema.Category][]byte, error) {
	out := make(map[schema.Category][]byte, 6)
	for _, cat := range schema.Categories() {
		blob, err := ExportCategory(reg, cat, doc, opts)
		if err != nil {
			return nil, err
		}
		out[cat] = blob
	}
	return out, nil
}

// ExportCategory serializes one category.
func ExportCategory(reg *schema.Registry, cat schema.Category, doc *document.Document, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if opts.ExcelCompatible {
		buf.WriteString(utf8BOM)
	}

	w := csv.NewWriter(&buf)
	if opts.Delimiter != 0 {
		w.Comma = opts.Delimiter
	}

	var err error
	if cat.Scalar() {
		err = writeScalar(w, reg, cat, doc.Scalar(cat), opts)
	} else {
		err = writeRows(w, reg, cat, doc.Rows(cat), opts)
	}
	if err != nil {
		return nil, err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("exporter: %s: %w", cat, err)
	}
	return buf.Bytes(), nil
}

// writeScalar emits a two-column key/value table of the set fields,
// in declaration order, with no header row.
func writeScalar(w *csv.Writer, reg *schema.Registry, cat schema.Category, rec document.Record, opts Options) error {
	for _, fd := range reg.Fields(cat) {
		v := rec.Get(fd.Name)
		if !v.IsSet() {
			continue
		}
		if err := w.Write([]string{fd.Name, cell(v.Canonical(), opts)}); err != nil {
			return err
		}
	}
	return nil
}

// writeRows emits one header row of canonical field names followed by
// one row per record in stored order.
func writeRows(w *csv.Writer, reg *schema.Registry, cat schema.Category, rows []document.Record, opts Options) error {
	fds := reg.Fields(cat)

	headers := make([]string, 0, len(fds)+1)
	for _, fd := range fds {
		headers = append(headers, fd.Name)
	}
	derived := opts.IncludeDerived && cat == schema.MitreTactics
	if derived {
		headers = append(headers, validate.DerivedSuccessRate)
	}
	if err := w.Write(headers); err != nil {
		return err
	}

	for _, rec := range rows {
		cells := make([]string, 0, len(headers))
		for _, fd := range fds {
			cells = append(cells, cell(rec.Get(fd.Name).Canonical(), opts))
		}
		if derived {
			cells = append(cells, derivedCell(cat, rec))
		}
		if err := w.Write(cells); err != nil {
			return err
		}
	}
	return nil
}

// derivedCell recomputes the success rate for one row; empty while
// the row's counters are inconsistent.
func derivedCell(cat schema.Category, rec document.Record) string {
	if rate, ok := validate.Derived(cat, rec)[validate.DerivedSuccessRate]; ok {
		return document.Float(rate).Canonical()
	}
	return ""
}

// cell applies formula sanitization when enabled.
func cell(s string, opts Options) string {
	if !opts.SanitizeFormulas || len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}
