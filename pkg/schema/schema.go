// Package schema declares the fixed field set for every assessment
// data category: field types, constraints, and the header alias
// vocabulary used by CSV import mapping.
//
// Descriptors are declared once at startup and never mutated afterwards,
// except for alias extension via Registry.AddAliases before the first
// import. Declaration order is meaningful: it is the canonical column
// order on export and the tie-break order during header matching.
package schema

import "regexp"

// Category identifies one logical table of assessment data.
// All values are lowercase snake_case strings matching the
// serialized session snapshot keys.
type Category string

const (
	// GeneralInfo holds report metadata (scalar, single instance).
	GeneralInfo Category = "general_info"

	// TestResults holds the aggregate rule-test counters (scalar).
	TestResults Category = "test_results"

	// MitreTactics holds per-tactic coverage rows.
	MitreTactics Category = "mitre_tactics"

	// TriggeredRules holds rows for rules that fired during testing.
	TriggeredRules Category = "triggered_rules"

	// UndetectedTechniques holds rows for techniques no rule caught.
	UndetectedTechniques Category = "undetected_techniques"

	// Recommendations holds prioritized remediation rows.
	Recommendations Category = "recommendations"
)

// IsValid reports whether c is a recognized category.
func (c Category) IsValid() bool {
	switch c {
	case GeneralInfo, TestResults, MitreTactics, TriggeredRules,
		UndetectedTechniques, Recommendations:
		return true
	}
	return false
}

// Scalar reports whether the category holds exactly one record
// rather than an ordered row sequence.
func (c Category) Scalar() bool {
	return c == GeneralInfo || c == TestResults
}

// String returns the category as a string.
func (c Category) String() string {
	return string(c)
}

// Categories returns all categories in declaration order.
func Categories() []Category {
	return []Category{
		GeneralInfo,
		TestResults,
		MitreTactics,
		TriggeredRules,
		UndetectedTechniques,
		Recommendations,
	}
}

// FieldType is the declared value type of a field.
type FieldType string

const (
	// TypeInteger is a whole number, optionally bounded.
	TypeInteger FieldType = "integer"

	// TypePercentage is a 0-100 decimal; a trailing "%" is tolerated
	// on input and never written on output.
	TypePercentage FieldType = "percentage"

	// TypeString is free text, optionally length-bounded.
	TypeString FieldType = "string"

	// TypeEnum takes values from a finite declared domain.
	TypeEnum FieldType = "enum"

	// TypeIdentifier matches a fixed pattern (MITRE technique/tactic IDs).
	TypeIdentifier FieldType = "identifier"
)

// FieldDescriptor declares one named, typed, constrained attribute
// within a category.
type FieldDescriptor struct {
	// Name is the canonical field name (snake_case). It is also the
	// column header written on export.
	Name string

	// Type is the declared value type.
	Type FieldType

	// Required marks fields that must be set for a record to be complete.
	Required bool

	// Min and Max bound integer and percentage values inclusively.
	// A nil pointer means unbounded on that side.
	Min, Max *int

	// Pattern constrains identifier fields. Nil for other types.
	Pattern *regexp.Regexp

	// Enum lists the canonical domain values for enum fields,
	// in display order.
	Enum []string

	// Synonyms maps normalized input spellings to canonical enum
	// values. Keys are pre-folded (lowercase, diacritics stripped).
	Synonyms map[string]string

	// MaxLen bounds string fields in runes. Zero means unbounded.
	MaxLen int

	// Aliases is the ordered set of normalized header spellings
	// accepted as synonyms for this field during import mapping.
	// The canonical Name is always implied and need not be listed.
	Aliases []string
}

// InRange reports whether n satisfies the descriptor's numeric bounds.
func (fd FieldDescriptor) InRange(n int) bool {
	if fd.Min != nil && n < *fd.Min {
		return false
	}
	if fd.Max != nil && n > *fd.Max {
		return false
	}
	return true
}

// EnumContains reports whether v is one of the canonical enum values.
func (fd FieldDescriptor) EnumContains(v string) bool {
	for _, e := range fd.Enum {
		if e == v {
			return true
		}
	}
	return false
}
