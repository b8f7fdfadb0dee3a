// Package validate evaluates field-level and cross-field rules against
// assessment records. Validation is pure and total: it never mutates
// its input and never fails on malformed values; anything outside the
// declared type becomes a type-mismatch finding instead of an error
// return.
package validate

import (
	"strconv"
	"unicode/utf8"

	"github.com/detcover/detcover/pkg/document"
	"github.com/detcover/detcover/pkg/finding"
	"github.com/detcover/detcover/pkg/schema"
)

// Record runs every field-level rule and then the category's
// cross-field rules against one record. Findings come back in
// declaration order, field-level first.
//
// Cross-field rules are skipped for any field that already failed its
// own field-level check, so a bad "tested" value does not additionally
// produce a nonsensical "triggered exceeds tested" finding.
func Record(reg *schema.Registry, cat schema.Category, rec document.Record) []finding.Finding {
	var findings []finding.Finding

	// fieldOK tracks which fields survive field-level validation
	// with a set, well-typed, in-range value.
	fieldOK := make(map[string]bool, 8)

	for _, fd := range reg.Fields(cat) {
		fs := checkField(fd, rec.Get(fd.Name))
		findings = append(findings, fs...)
		fieldOK[fd.Name] = rec.Has(fd.Name) && !finding.HasErrors(fs)
	}

	findings = append(findings, crossField(cat, rec, fieldOK)...)
	return findings
}

// checkField evaluates one field's type, bounds, pattern, enum
// membership, and length rules.
func checkField(fd schema.FieldDescriptor, v document.Value) []finding.Finding {
	if !v.IsSet() {
		if fd.Required {
			return []finding.Finding{finding.Errorf(fd.Name, finding.RuleRequiredMissing, "required field is not set")}
		}
		return []finding.Finding{finding.Warnf(fd.Name, finding.RuleOptionalMissing, "optional field is not set")}
	}

	switch fd.Type {
	case schema.TypeInteger:
		if v.Kind() != document.KindInt {
			return []finding.Finding{typeMismatch(fd, v, "whole number")}
		}
		if !fd.InRange(v.IntVal()) {
			return []finding.Finding{finding.Errorf(fd.Name, finding.RuleBounds,
				"value %d is outside the allowed range %s", v.IntVal(), rangeText(fd))}
		}

	case schema.TypePercentage:
		if v.Kind() != document.KindFloat && v.Kind() != document.KindInt {
			return []finding.Finding{typeMismatch(fd, v, "number")}
		}
		if f := v.FloatVal(); f < 0 || f > 100 {
			return []finding.Finding{finding.Errorf(fd.Name, finding.RuleBounds,
				"percentage %.1f is outside 0-100", f)}
		}

	case schema.TypeIdentifier:
		if v.Kind() != document.KindString {
			return []finding.Finding{typeMismatch(fd, v, "identifier")}
		}
		if fd.Pattern != nil && !fd.Pattern.MatchString(v.StringVal()) {
			return []finding.Finding{finding.Errorf(fd.Name, finding.RulePattern,
				"%q does not match the expected format (e.g. T1059, T1059.001, TA0002)", v.StringVal())}
		}

	case schema.TypeEnum:
		if v.Kind() != document.KindString {
			return []finding.Finding{typeMismatch(fd, v, "enum value")}
		}
		if !fd.EnumContains(v.StringVal()) {
			return []finding.Finding{finding.Errorf(fd.Name, finding.RuleEnumDomain,
				"%q is not one of %v", v.StringVal(), fd.Enum)}
		}

	case schema.TypeString:
		if v.Kind() != document.KindString {
			return []finding.Finding{typeMismatch(fd, v, "text")}
		}
		if fd.MaxLen > 0 && utf8.RuneCountInString(v.StringVal()) > fd.MaxLen {
			return []finding.Finding{finding.Errorf(fd.Name, finding.RuleMaxLength,
				"text exceeds %d characters", fd.MaxLen)}
		}
	}

	return nil
}

// crossField enforces the dependent-field invariants of a category.
// Rules fire only when every field they read passed its own
// field-level check.
func crossField(cat schema.Category, rec document.Record, fieldOK map[string]bool) []finding.Finding {
	var findings []finding.Finding

	lte := func(lo, hi, ruleField, msg string) {
		if !fieldOK[lo] || !fieldOK[hi] {
			return
		}
		if rec.Get(lo).IntVal() > rec.Get(hi).IntVal() {
			findings = append(findings, finding.Errorf(ruleField, finding.RuleCrossField, "%s", msg))
		}
	}

	switch cat {
	case schema.TestResults:
		lte("tested_rules", "total_rules", "tested_rules", "tested rules cannot exceed total rules")
		lte("triggered_rules", "tested_rules", "triggered_rules", "triggered rules cannot exceed tested rules")
	case schema.MitreTactics:
		lte("triggered", "tested", "triggered", "triggered count cannot exceed tested count")
	}

	return findings
}

func typeMismatch(fd schema.FieldDescriptor, v document.Value, want string) finding.Finding {
	return finding.Errorf(fd.Name, finding.RuleTypeMismatch,
		"value %q is not a %s", v.Canonical(), want)
}

func rangeText(fd schema.FieldDescriptor) string {
	switch {
	case fd.Min != nil && fd.Max != nil:
		return strconv.Itoa(*fd.Min) + "-" + strconv.Itoa(*fd.Max)
	case fd.Min != nil:
		return ">= " + strconv.Itoa(*fd.Min)
	case fd.Max != nil:
		return "<= " + strconv.Itoa(*fd.Max)
	}
	return "(unbounded)"
}
