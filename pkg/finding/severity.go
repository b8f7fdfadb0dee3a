package finding

// Severity represents the severity of a validation finding.
// Values are lowercase strings, matching the serialized report format.
type Severity string

const (
	// Error marks an invariant violation; the record is not committable
	// while one stands.
	Error Severity = "error"

	// Warning marks a soft issue (duplicate row, unset optional field);
	// the record remains committable.
	Warning Severity = "warning"
)

// IsValid reports whether s is a recognized severity.
func (s Severity) IsValid() bool {
	return s == Error || s == Warning
}

// Blocks reports whether the severity prevents a record from being
// committed.
func (s Severity) Blocks() bool {
	return s == Error
}

// String returns the severity as a string.
func (s Severity) String() string {
	return string(s)
}
