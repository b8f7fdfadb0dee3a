package schema

import (
	"fmt"
	"regexp"
)

// mitreIDPattern accepts technique IDs (T1059, T1059.001) and tactic
// IDs (TA0002). Input is upper-cased during coercion before matching.
var mitreIDPattern = regexp.MustCompile(`^(?:TA\d{4}|T\d{4}(?:\.\d{3})?)$`)

func intp(n int) *int { return &n }

// criticalitySynonyms accepts the Turkish spellings found in legacy
// assessment exports alongside the canonical English levels.
// Keys are normalized (lowercase, diacritics stripped).
var criticalitySynonyms = map[string]string{
	"critical": "Critical",
	"high":     "High",
	"medium":   "Medium",
	"low":      "Low",
	"kritik":   "Critical",
	"yuksek":   "High",
	"orta":     "Medium",
	"dusuk":    "Low",
}

var prioritySynonyms = map[string]string{
	"p1": "P1", "p2": "P2", "p3": "P3", "p4": "P4",
	"1": "P1", "2": "P2", "3": "P3", "4": "P4",
}

var recCategorySynonyms = map[string]string{
	"detection": "detection",
	"logging":   "logging",
	"process":   "process",
	"tooling":   "tooling",
}

// Registry owns the field descriptors of every category.
// Construct with NewRegistry; lookups are cheap and the registry is
// safe for concurrent reads once alias extension is done.
type Registry struct {
	fields map[Category][]FieldDescriptor
}

// NewRegistry returns a registry populated with the built-in schema.
func NewRegistry() *Registry {
	r := &Registry{fields: make(map[Category][]FieldDescriptor, 6)}

	r.fields[GeneralInfo] = []FieldDescriptor{
		{Name: "company_name", Type: TypeString, Required: true, MaxLen: 200,
			Aliases: []string{"company name", "company", "organization", "org name", "client", "customer"}},
		{Name: "report_date", Type: TypeString, Required: true, MaxLen: 50,
			Aliases: []string{"report date", "date", "assessment date"}},
		{Name: "prepared_by", Type: TypeString, MaxLen: 200,
			Aliases: []string{"prepared by", "tester", "analyst", "assessor", "author"}},
		{Name: "report_id", Type: TypeString, MaxLen: 100,
			Aliases: []string{"report id", "reference", "reference id"}},
		{Name: "report_title", Type: TypeString, MaxLen: 300,
			Aliases: []string{"report title", "title"}},
		{Name: "classification", Type: TypeString, MaxLen: 100,
			Aliases: []string{"classification", "confidentiality"}},
	}

	r.fields[TestResults] = []FieldDescriptor{
		{Name: "total_rules", Type: TypeInteger, Required: true, Min: intp(0),
			Aliases: []string{"total rules", "total", "rule count", "total rule count"}},
		{Name: "tested_rules", Type: TypeInteger, Required: true, Min: intp(0),
			Aliases: []string{"tested rules", "tested", "tested count"}},
		{Name: "triggered_rules", Type: TypeInteger, Required: true, Min: intp(0),
			Aliases: []string{"triggered rules", "triggered", "triggered count", "detected"}},
	}

	r.fields[MitreTactics] = []FieldDescriptor{
		{Name: "tactic_name", Type: TypeString, Required: true, MaxLen: 100,
			Aliases: []string{"tactic name", "tactic", "mitre tactic", "attack tactic"}},
		{Name: "tested", Type: TypeInteger, Required: true, Min: intp(0),
			Aliases: []string{"tested", "tested count", "test count", "tests"}},
		{Name: "triggered", Type: TypeInteger, Required: true, Min: intp(0),
			Aliases: []string{"triggered", "triggered count", "detections", "detected count"}},
	}

	r.fields[TriggeredRules] = []FieldDescriptor{
		{Name: "rule_name", Type: TypeString, Required: true, MaxLen: 300,
			Aliases: []string{"rule name", "rule", "name", "detection", "alert", "signature"}},
		{Name: "mitre_id", Type: TypeIdentifier, Required: true, Pattern: mitreIDPattern,
			Aliases: []string{"mitre id", "mitre", "technique id", "attack id", "id"}},
		{Name: "tactic", Type: TypeString, MaxLen: 100,
			Aliases: []string{"tactic", "mitre tactic"}},
		{Name: "confidence", Type: TypeInteger, Min: intp(0), Max: intp(100),
			Aliases: []string{"confidence", "confidence score", "score"}},
	}

	r.fields[UndetectedTechniques] = []FieldDescriptor{
		{Name: "mitre_id", Type: TypeIdentifier, Required: true, Pattern: mitreIDPattern,
			Aliases: []string{"mitre id", "mitre", "technique id", "attack id", "id"}},
		{Name: "technique_name", Type: TypeString, Required: true, MaxLen: 300,
			Aliases: []string{"technique name", "technique", "name", "attack technique"}},
		{Name: "tactic", Type: TypeString, MaxLen: 100,
			Aliases: []string{"tactic", "mitre tactic"}},
		{Name: "criticality", Type: TypeEnum,
			Enum:     []string{"Critical", "High", "Medium", "Low"},
			Synonyms: criticalitySynonyms,
			Aliases:  []string{"criticality", "severity", "priority", "level"}},
	}

	r.fields[Recommendations] = []FieldDescriptor{
		{Name: "priority", Type: TypeEnum,
			Enum:     []string{"P1", "P2", "P3", "P4"},
			Synonyms: prioritySynonyms,
			Aliases:  []string{"priority", "rank", "order"}},
		{Name: "category", Type: TypeEnum,
			Enum:     []string{"detection", "logging", "process", "tooling"},
			Synonyms: recCategorySynonyms,
			Aliases:  []string{"category", "area", "domain"}},
		{Name: "text", Type: TypeString, Required: true, MaxLen: 2000,
			Aliases: []string{"text", "recommendation", "description", "details", "action"}},
	}

	return r
}

// Fields returns the descriptors of a category in declaration order.
// It panics for an unknown category: every caller reaches the registry
// through a validated Category, so a miss is a programming error.
func (r *Registry) Fields(c Category) []FieldDescriptor {
	fds, ok := r.fields[c]
	if !ok {
		panic(fmt.Sprintf("schema: unknown category %q", c))
	}
	return fds
}

// Field looks up a single descriptor by canonical name.
func (r *Registry) Field(c Category, name string) (FieldDescriptor, bool) {
	for _, fd := range r.Fields(c) {
		if fd.Name == name {
			return fd, true
		}
	}
	return FieldDescriptor{}, false
}

// Required returns the required descriptors of a category in
// declaration order.
func (r *Registry) Required(c Category) []FieldDescriptor {
	var out []FieldDescriptor
	for _, fd := range r.Fields(c) {
		if fd.Required {
			out = append(out, fd)
		}
	}
	return out
}

// AddAliases appends extra header aliases to one field. Aliases are
// stored as given; callers should pass already-normalized spellings.
// Intended for startup-time extension from user configuration.
func (r *Registry) AddAliases(c Category, field string, aliases ...string) error {
	if !c.IsValid() {
		return fmt.Errorf("schema: unknown category %q", c)
	}
	fds := r.fields[c]
	for i := range fds {
		if fds[i].Name == field {
			fds[i].Aliases = append(fds[i].Aliases, aliases...)
			return nil
		}
	}
	return fmt.Errorf("schema: category %s has no field %q", c, field)
}
