package finding

import "fmt"

// Stable rule identifiers. One per validation rule family; the finding
// message carries the specifics.
const (
	RuleTypeMismatch    = "type-mismatch"    // value does not coerce to the declared type
	RuleBounds          = "bounds"           // numeric value outside declared range
	RulePattern         = "pattern"          // identifier does not match its pattern
	RuleEnumDomain      = "enum-domain"      // value outside the declared enum domain
	RuleMaxLength       = "max-length"       // string exceeds declared rune limit
	RuleRequiredMissing = "required-missing" // required field unset
	RuleOptionalMissing = "optional-missing" // optional field unset (warning)
	RuleCrossField      = "cross-field"      // dependent-field invariant violated
	RuleDuplicateRow    = "duplicate-row"    // row repeats another row's required fields
)

// Finding is a single validation outcome attached to one field.
type Finding struct {
	// Field is the canonical field name the finding concerns.
	// Empty for record-level findings (e.g. duplicate rows).
	Field string `json:"field,omitempty"`

	// Severity is error or warning.
	Severity Severity `json:"severity"`

	// RuleID identifies the violated rule family.
	RuleID string `json:"rule_id"`

	// Message is a human-readable description.
	Message string `json:"message"`
}

// Errorf builds an error-severity finding.
func Errorf(field, ruleID, format string, args ...any) Finding {
	return Finding{Field: field, Severity: Error, RuleID: ruleID, Message: fmt.Sprintf(format, args...)}
}

// Warnf builds a warning-severity finding.
func Warnf(field, ruleID, format string, args ...any) Finding {
	return Finding{Field: field, Severity: Warning, RuleID: ruleID, Message: fmt.Sprintf(format, args...)}
}

// String renders the finding in the one-line report form.
func (f Finding) String() string {
	if f.Field == "" {
		return fmt.Sprintf("[%s] [%s] %s", f.Severity, f.RuleID, f.Message)
	}
	return fmt.Sprintf("[%s] [%s] %s: %s", f.Severity, f.RuleID, f.Field, f.Message)
}

// HasErrors reports whether any finding in the list has error severity.
func HasErrors(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == Error {
			return true
		}
	}
	return false
}

// Errors returns only the error-severity findings, preserving order.
func Errors(findings []Finding) []Finding {
	var out []Finding
	for _, f := range findings {
		if f.Severity == Error {
			out = append(out, f)
		}
	}
	return out
}

// Warnings returns only the warning-severity findings, preserving order.
func Warnings(findings []Finding) []Finding {
	var out []Finding
	for _, f := range findings {
		if f.Severity == Warning {
			out = append(out, f)
		}
	}
	return out
}
