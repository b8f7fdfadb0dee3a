package document

import (
	"fmt"

	"github.com/detcover/detcover/pkg/schema"
)

// Document is the session-scoped aggregate of all assessment data.
// Scalar categories hold one record each; repeating categories hold
// ordered row sequences whose order is meaningful (display priority)
// and preserved across import/export round-trips.
//
// A Document is owned by exactly one session. It is not safe for
// concurrent mutation; callers serialize imports into the same
// document.
type Document struct {
	General     Record
	TestResults Record

	Tactics         []Record
	TriggeredRules  []Record
	Undetected      []Record
	Recommendations []Record
}

// New returns an empty document with initialized scalar records.
func New() *Document {
	return &Document{
		General:     NewRecord(),
		TestResults: NewRecord(),
	}
}

// Scalar returns the single record of a scalar category.
// It panics for repeating categories; callers branch on
// Category.Scalar first.
func (d *Document) Scalar(c schema.Category) Record {
	switch c {
	case schema.GeneralInfo:
		return d.General
	case schema.TestResults:
		return d.TestResults
	}
	panic(fmt.Sprintf("document: %s is not a scalar category", c))
}

// Rows returns the row sequence of a repeating category.
func (d *Document) Rows(c schema.Category) []Record {
	switch c {
	case schema.MitreTactics:
		return d.Tactics
	case schema.TriggeredRules:
		return d.TriggeredRules
	case schema.UndetectedTechniques:
		return d.Undetected
	case schema.Recommendations:
		return d.Recommendations
	}
	panic(fmt.Sprintf("document: %s is not a repeating category", c))
}

// Append adds rows to the end of a repeating category's sequence,
// preserving their order.
func (d *Document) Append(c schema.Category, rows ...Record) {
	switch c {
	case schema.MitreTactics:
		d.Tactics = append(d.Tactics, rows...)
	case schema.TriggeredRules:
		d.TriggeredRules = append(d.TriggeredRules, rows...)
	case schema.UndetectedTechniques:
		d.Undetected = append(d.Undetected, rows...)
	case schema.Recommendations:
		d.Recommendations = append(d.Recommendations, rows...)
	default:
		panic(fmt.Sprintf("document: %s is not a repeating category", c))
	}
}

// SetScalar replaces the record of a scalar category.
func (d *Document) SetScalar(c schema.Category, rec Record) {
	switch c {
	case schema.GeneralInfo:
		d.General = rec
	case schema.TestResults:
		d.TestResults = rec
	default:
		panic(fmt.Sprintf("document: %s is not a scalar category", c))
	}
}

// Clone returns a deep copy, giving a new session an independent
// document with no shared mutable state.
func (d *Document) Clone() *Document {
	out := &Document{
		General:     d.General.Clone(),
		TestResults: d.TestResults.Clone(),
	}
	out.Tactics = cloneRows(d.Tactics)
	out.TriggeredRules = cloneRows(d.TriggeredRules)
	out.Undetected = cloneRows(d.Undetected)
	out.Recommendations = cloneRows(d.Recommendations)
	return out
}

func cloneRows(rows []Record) []Record {
	if rows == nil {
		return nil
	}
	out := make([]Record, len(rows))
	for i, r := range rows {
		out[i] = r.Clone()
	}
	return out
}
