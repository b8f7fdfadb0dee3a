// Package importer drives delimiter-separated uploads through an
// explicit pipeline: delimiter detection, header parsing, mapping
// suggestion, mapping confirmation, row parsing, validation, and
// commit. Any caller — CLI, web handler, or test — can step the
// pipeline without UI involvement.
//
// File-level problems reject the whole import; cell-level problems
// degrade to per-row findings and a partial commit, so no row is ever
// dropped silently.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/detcover/detcover/pkg/document"
	"github.com/detcover/detcover/pkg/finding"
	"github.com/detcover/detcover/pkg/headermap"
	"github.com/detcover/detcover/pkg/schema"
	"github.com/detcover/detcover/pkg/validate"
)

// delimiterCandidates in fixed priority order.
var delimiterCandidates = []rune{',', ';', '\t', '|'}

// sampleRows is how many leading rows delimiter detection inspects.
const sampleRows = 5

// utf8BOM is stripped from uploads; spreadsheet exports routinely
// prepend it.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Row is one parsed data row with its validation findings.
type Row struct {
	// Line is the 1-based line number in the source file
	// (the header row is line 1).
	Line int `json:"line"`

	// Record holds the coerced field values.
	Record document.Record `json:"-"`

	// Findings lists coercion and validation outcomes for this row.
	Findings []finding.Finding `json:"findings,omitempty"`
}

// Committable reports whether the row is free of error-severity
// findings.
func (r Row) Committable() bool {
	return !finding.HasErrors(r.Findings)
}

// Result summarizes a finished import for the caller.
type Result struct {
	ImportID   uuid.UUID
	State      State
	Category   schema.Category
	Delimiter  rune
	Committed  int
	Rows       []Row
	Unresolved []string // raw headers needing manual mapping
}

// Import is one in-flight import of one file into one category.
// Not safe for concurrent use; a session runs one import at a time.
type Import struct {
	// ID tags this pipeline run in reports and logs.
	ID uuid.UUID

	reg *schema.Registry
	cat schema.Category

	state State
	err   error

	data      []byte
	delimiter rune

	rawHeaders []string
	dataRows   [][]string
	firstLine  int // 1-based line number of the first data row

	suggestions []headermap.MappingCandidate
	mapping     map[string]string // field name -> raw header
	unresolved  []string

	rows []Row
}

// New stages an upload for import into one category. The bytes are
// the caller's responsibility to acquire; a UTF-8 BOM is tolerated
// and stripped. Empty or non-UTF-8 uploads reject immediately.
func New(reg *schema.Registry, cat schema.Category, data []byte) (*Import, error) {
	imp := &Import{
		ID:    uuid.New(),
		reg:   reg,
		cat:   cat,
		state: StateUploaded,
	}
	if !cat.IsValid() {
		return imp, imp.reject(fmt.Errorf("importer: unknown category %q", cat))
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return imp, imp.reject(ErrEmptyFile)
	}
	if !utf8.Valid(data) {
		return imp, imp.reject(ErrInvalidEncoding)
	}
	imp.data = data
	return imp, nil
}

// State returns the pipeline's current state.
func (imp *Import) State() State { return imp.state }

// Err returns the rejection cause, nil unless the state is Rejected.
func (imp *Import) Err() error { return imp.err }

// reject moves the pipeline to its terminal failure state.
func (imp *Import) reject(err error) error {
	imp.state = StateRejected
	imp.err = err
	return err
}

func (imp *Import) requireState(want State) error {
	if imp.state != want {
		return fmt.Errorf("%w: have %s, want %s", ErrBadState, imp.state, want)
	}
	return nil
}

// DetectDelimiter tries the candidate delimiters in priority order
// (comma, semicolon, tab, pipe) and selects the first one that parses
// the leading sample of rows into a consistent multi-column shape.
// A single-column fallback to comma covers files with no delimiter at
// all; otherwise the import rejects as delimiter-ambiguous.
func (imp *Import) DetectDelimiter() error {
	if err := imp.requireState(StateUploaded); err != nil {
		return err
	}

	sample := sampleLines(imp.data, sampleRows)
	for _, delim := range delimiterCandidates {
		if cols, ok := consistentColumns(sample, delim); ok && cols > 1 {
			imp.delimiter = delim
			imp.state = StateDelimiterDetected
			return nil
		}
	}
	if _, ok := consistentColumns(sample, ','); ok {
		imp.delimiter = ','
		imp.state = StateDelimiterDetected
		return nil
	}
	return imp.reject(ErrDelimiterAmbiguous)
}

// sampleLines returns up to n leading non-blank lines.
func sampleLines(data []byte, n int) []string {
	var out []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
		if len(out) == n {
			break
		}
	}
	return out
}

// consistentColumns parses the sample with the given delimiter and
// reports the shared column count, false when rows disagree or do not
// parse.
func consistentColumns(sample []string, delim rune) (int, bool) {
	r := csv.NewReader(strings.NewReader(strings.Join(sample, "\n")))
	r.Comma = delim
	recs, err := r.ReadAll()
	if err != nil || len(recs) == 0 {
		return 0, false
	}
	cols := len(recs[0])
	for _, rec := range recs[1:] {
		if len(rec) != cols {
			return 0, false
		}
	}
	return cols, true
}

// ParseHeaders reads the full file with the detected delimiter. The
// first row is always treated as headers; they must be non-empty and
// unique after normalization. Scalar categories have no header row
// and must go through RunScalar instead.
func (imp *Import) ParseHeaders() error {
	if err := imp.requireState(StateDelimiterDetected); err != nil {
		return err
	}
	if imp.cat.Scalar() {
		return fmt.Errorf("%w: scalar category %s has no header row", ErrBadState, imp.cat)
	}

	records, err := imp.readAll()
	if err != nil {
		return imp.reject(err)
	}
	if len(records) == 0 {
		return imp.reject(ErrEmptyFile)
	}

	headers := records[0]
	seen := make(map[string]string, len(headers))
	for _, h := range headers {
		norm := headermap.Normalize(h)
		if norm == "" {
			return imp.reject(fmt.Errorf("%w: %q", ErrEmptyHeader, h))
		}
		if prev, dup := seen[norm]; dup {
			return imp.reject(fmt.Errorf("%w: %q and %q collide as %q", ErrDuplicateHeader, prev, h, norm))
		}
		seen[norm] = h
	}

	imp.rawHeaders = headers
	imp.dataRows = records[1:]
	imp.firstLine = 2
	imp.state = StateHeadersParsed
	return nil
}

// readAll parses the staged bytes with the detected delimiter.
// Ragged rows are tolerated here; the shape was already vetted on the
// sample and short rows degrade to unset cells during row parsing.
func (imp *Import) readAll() ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(imp.data))
	r.Comma = imp.delimiter
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("importer: parse: %w", err)
	}
	return records, nil
}

// Suggest scores every header against the category's alias vocabulary
// and returns the mapping proposal. Unresolved headers are surfaced
// for manual confirmation.
func (imp *Import) Suggest() ([]headermap.MappingCandidate, error) {
	if err := imp.requireState(StateHeadersParsed); err != nil {
		return nil, err
	}

	imp.suggestions = headermap.SuggestMapping(imp.reg, imp.cat, imp.rawHeaders)
	imp.mapping = make(map[string]string, len(imp.suggestions))
	imp.unresolved = nil
	for _, mc := range imp.suggestions {
		if mc.Resolved() {
			imp.mapping[mc.BestField] = mc.RawHeader
		} else {
			imp.unresolved = append(imp.unresolved, mc.RawHeader)
		}
	}
	imp.state = StateMappingSuggested
	return imp.suggestions, nil
}

// Confirm applies caller overrides to the suggested mapping and
// freezes it. Overrides map field names to raw headers; an empty
// header clears the field's mapping. The final mapping must assign
// each raw header to at most one field and cover every required
// field, or the category import rejects.
//
// Passing no overrides accepts the suggestions as-is.
func (imp *Import) Confirm(overrides map[string]string) error {
	if err := imp.requireState(StateMappingSuggested); err != nil {
		return err
	}

	for field, raw := range overrides {
		if _, ok := imp.reg.Field(imp.cat, field); !ok {
			return imp.reject(fmt.Errorf("%w: category %s has no field %q", ErrMappingConflict, imp.cat, field))
		}
		if raw == "" {
			delete(imp.mapping, field)
			continue
		}
		if !containsHeader(imp.rawHeaders, raw) {
			return imp.reject(fmt.Errorf("%w: file has no column %q", ErrMappingConflict, raw))
		}
		imp.mapping[field] = raw
	}

	// One header may serve at most one field.
	used := make(map[string]string, len(imp.mapping))
	for field, raw := range imp.mapping {
		if other, dup := used[raw]; dup {
			return imp.reject(fmt.Errorf("%w: column %q mapped to both %s and %s", ErrMappingConflict, raw, other, field))
		}
		used[raw] = field
	}

	for _, fd := range imp.reg.Required(imp.cat) {
		if _, ok := imp.mapping[fd.Name]; !ok {
			return imp.reject(fmt.Errorf("%w: %s", ErrRequiredUnmapped, fd.Name))
		}
	}

	imp.refreshUnresolved()
	imp.state = StateMappingConfirmed
	return nil
}

func containsHeader(headers []string, h string) bool {
	for _, have := range headers {
		if have == h {
			return true
		}
	}
	return false
}

// refreshUnresolved recomputes which raw headers remain unmapped
// after overrides.
func (imp *Import) refreshUnresolved() {
	mapped := make(map[string]bool, len(imp.mapping))
	for _, raw := range imp.mapping {
		mapped[raw] = true
	}
	imp.unresolved = nil
	for _, raw := range imp.rawHeaders {
		if !mapped[raw] {
			imp.unresolved = append(imp.unresolved, raw)
		}
	}
}

// ParseRows converts each data row into a record by reading mapped
// columns and coercing to the declared types. A cell that fails
// coercion attaches an error finding to its row; the row is kept,
// marked invalid, never silently dropped.
func (imp *Import) ParseRows() error {
	if err := imp.requireState(StateMappingConfirmed); err != nil {
		return err
	}

	colIndex := make(map[string]int, len(imp.rawHeaders))
	for i, h := range imp.rawHeaders {
		colIndex[h] = i
	}

	imp.rows = make([]Row, 0, len(imp.dataRows))
	for i, cells := range imp.dataRows {
		row := Row{Line: imp.firstLine + i, Record: document.NewRecord()}
		for field, raw := range imp.mapping {
			idx := colIndex[raw]
			if idx >= len(cells) {
				continue // short row, field stays unset
			}
			fd, _ := imp.reg.Field(imp.cat, field)
			v, err := document.Coerce(fd, cells[idx])
			if err != nil {
				row.Findings = append(row.Findings,
					finding.Errorf(field, finding.RuleTypeMismatch, "%v", err))
				continue
			}
			row.Record.Set(field, v)
		}
		imp.rows = append(imp.rows, row)
	}
	imp.state = StateRowsParsed
	return nil
}

// Validate runs the validator over every parsed row and accumulates
// findings per row, including duplicate-row warnings across the batch.
func (imp *Import) Validate() error {
	if err := imp.requireState(StateRowsParsed); err != nil {
		return err
	}

	records := make([]document.Record, len(imp.rows))
	for i := range imp.rows {
		records[i] = imp.rows[i].Record
	}

	perRow := validate.Sequence(imp.reg, imp.cat, records)
	for i := range imp.rows {
		imp.rows[i].Findings = mergeFindings(imp.rows[i].Findings, perRow[i])
	}
	imp.state = StateValidated
	return nil
}

// mergeFindings appends validation findings after coercion findings,
// dropping missing-field noise for fields that already failed
// coercion: reporting "required field is not set" on top of the cell
// error would double-count one broken cell.
func mergeFindings(coercion, validation []finding.Finding) []finding.Finding {
	if len(coercion) == 0 {
		return validation
	}
	failed := make(map[string]bool, len(coercion))
	for _, f := range coercion {
		failed[f.Field] = true
	}
	out := coercion
	for _, f := range validation {
		if failed[f.Field] && (f.RuleID == finding.RuleRequiredMissing || f.RuleID == finding.RuleOptionalMissing) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Commit appends every committable row to the target category's
// sequence in source order. Rows carrying error findings are excluded
// from the document but returned in the result so nothing is lost
// silently.
func (imp *Import) Commit(doc *document.Document) (Result, error) {
	if err := imp.requireState(StateValidated); err != nil {
		return imp.result(), err
	}

	committed := 0
	for _, row := range imp.rows {
		if row.Committable() {
			doc.Append(imp.cat, row.Record)
			committed++
		}
	}
	imp.state = StateCommitted
	res := imp.result()
	res.Committed = committed
	return res, nil
}

func (imp *Import) result() Result {
	return Result{
		ImportID:   imp.ID,
		State:      imp.state,
		Category:   imp.cat,
		Delimiter:  imp.delimiter,
		Rows:       imp.rows,
		Unresolved: imp.unresolved,
	}
}

// Run drives a repeating-category import end to end: detect, parse,
// suggest, confirm with the given overrides (nil accepts the
// suggestions), parse rows, validate, and commit into doc.
// Scalar categories go through RunScalar.
func Run(reg *schema.Registry, cat schema.Category, data []byte, overrides map[string]string, doc *document.Document) (Result, error) {
	if cat.Scalar() {
		return RunScalar(reg, cat, data, doc)
	}

	imp, err := New(reg, cat, data)
	if err != nil {
		return imp.result(), err
	}
	if err := imp.DetectDelimiter(); err != nil {
		return imp.result(), err
	}
	if err := imp.ParseHeaders(); err != nil {
		return imp.result(), err
	}
	if _, err := imp.Suggest(); err != nil {
		return imp.result(), err
	}
	if err := imp.Confirm(overrides); err != nil {
		return imp.result(), err
	}
	if err := imp.ParseRows(); err != nil {
		return imp.result(), err
	}
	if err := imp.Validate(); err != nil {
		return imp.result(), err
	}
	return imp.Commit(doc)
}
