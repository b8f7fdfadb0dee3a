package validate

import (
	"github.com/spaolacci/murmur3"

	"github.com/detcover/detcover/pkg/document"
	"github.com/detcover/detcover/pkg/finding"
	"github.com/detcover/detcover/pkg/schema"
)

// Sequence validates an ordered row sequence of a repeating category
// and returns one findings list per row, index-aligned with rows.
//
// On top of per-row validation it flags duplicate rows: a row whose
// required fields are byte-identical to an earlier row's gets a
// warning. Duplicates are kept, never dropped; the policy is to
// preserve user-entered data and merely flag it.
func Sequence(reg *schema.Registry, cat schema.Category, rows []document.Record) [][]finding.Finding {
	out := make([][]finding.Finding, len(rows))

	required := reg.Required(cat)
	seen := make(map[uint64]int, len(rows)) // fingerprint -> first row index

	for i, row := range rows {
		out[i] = Record(reg, cat, row)

		fp := fingerprint(required, row)
		if first, dup := seen[fp]; dup {
			out[i] = append(out[i], finding.Warnf("", finding.RuleDuplicateRow,
				"row %d repeats the required fields of row %d", i+1, first+1))
		} else {
			seen[fp] = i
		}
	}
	return out
}

// fingerprint hashes the canonical forms of a row's required fields.
// Field name and value are both hashed so an unset field cannot
// collide with an empty neighbour.
func fingerprint(required []schema.FieldDescriptor, row document.Record) uint64 {
	h := murmur3.New64()
	for _, fd := range required {
		h.Write([]byte(fd.Name))
		h.Write([]byte{0})
		h.Write([]byte(row.Get(fd.Name).Canonical()))
		h.Write([]byte{0})
	}
	return h.Sum64()
}
