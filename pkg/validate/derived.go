package validate

import (
	"github.com/detcover/detcover/pkg/document"
	"github.com/detcover/detcover/pkg/schema"
)

// Derived field names, keyed into the map returned by Derived.
const (
	DerivedCoverageRate = "coverage_rate" // tested/total as a percentage
	DerivedSuccessRate  = "success_rate"  // triggered/tested as a percentage
	DerivedNotTested    = "not_tested"    // total - tested
	DerivedFailed       = "failed"        // tested - triggered
)

// Derived recomputes the category's derived values from the stored
// fields. The result is never persisted; consumers call this on every
// read so an edit can never leave a stale rate behind.
//
// A derived value is omitted from the map while any field it depends
// on is unset, mistyped, or violates an invariant: no rate is ever
// reported for a record whose counters are inconsistent.
func Derived(cat schema.Category, rec document.Record) map[string]float64 {
	out := map[string]float64{}

	intOK := func(name string) (int, bool) {
		v := rec.Get(name)
		if v.Kind() != document.KindInt || v.IntVal() < 0 {
			return 0, false
		}
		return v.IntVal(), true
	}

	switch cat {
	case schema.TestResults:
		total, okT := intOK("total_rules")
		tested, okD := intOK("tested_rules")
		triggered, okG := intOK("triggered_rules")

		if okT && okD && tested <= total {
			out[DerivedNotTested] = float64(total - tested)
			out[DerivedCoverageRate] = rate(tested, total)
		}
		if okD && okG && triggered <= tested {
			out[DerivedFailed] = float64(tested - triggered)
			out[DerivedSuccessRate] = rate(triggered, tested)
		}

	case schema.MitreTactics:
		tested, okD := intOK("tested")
		triggered, okG := intOK("triggered")
		if okD && okG && triggered <= tested {
			out[DerivedSuccessRate] = rate(triggered, tested)
		}
	}

	return out
}

// rate returns part/whole as a 0-100 percentage; 0 when whole is 0.
func rate(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
