package importer

import (
	"github.com/detcover/detcover/pkg/document"
	"github.com/detcover/detcover/pkg/finding"
	"github.com/detcover/detcover/pkg/headermap"
	"github.com/detcover/detcover/pkg/schema"
	"github.com/detcover/detcover/pkg/validate"
)

// RunScalar imports a scalar category (GeneralInfo, TestResults) from
// a two-column key/value table with no header row. Keys are matched
// onto fields through the same scoring machinery as column headers,
// so exported canonical names map back with confidence 1.0 and loose
// spellings still resolve.
//
// The whole table builds one record; it replaces the document's
// scalar record only when free of error findings.
func RunScalar(reg *schema.Registry, cat schema.Category, data []byte, doc *document.Document) (Result, error) {
	imp, err := New(reg, cat, data)
	if err != nil {
		return imp.result(), err
	}
	if err := imp.DetectDelimiter(); err != nil {
		return imp.result(), err
	}

	records, err := imp.readAll()
	if err != nil {
		return imp.result(), imp.reject(err)
	}
	if len(records) == 0 {
		return imp.result(), imp.reject(ErrEmptyFile)
	}

	keys := make([]string, len(records))
	for i, cells := range records {
		keys[i] = cells[0]
	}

	rec := document.NewRecord()
	row := Row{Line: 1, Record: rec}

	candidates := headermap.SuggestMapping(reg, cat, keys)
	for i, mc := range candidates {
		if !mc.Resolved() {
			imp.unresolved = append(imp.unresolved, mc.RawHeader)
			continue
		}
		value := ""
		if len(records[i]) > 1 {
			value = records[i][1]
		}
		fd, _ := reg.Field(cat, mc.BestField)
		v, cerr := document.Coerce(fd, value)
		if cerr != nil {
			row.Findings = append(row.Findings,
				finding.Errorf(mc.BestField, finding.RuleTypeMismatch, "%v", cerr))
			continue
		}
		rec.Set(mc.BestField, v)
	}
	imp.state = StateRowsParsed

	row.Findings = mergeFindings(row.Findings, validate.Record(reg, cat, rec))
	imp.rows = []Row{row}
	imp.state = StateValidated

	res := imp.result()
	if row.Committable() {
		doc.SetScalar(cat, rec)
		res.Committed = 1
	}
	imp.state = StateCommitted
	res.State = StateCommitted
	return res, nil
}
