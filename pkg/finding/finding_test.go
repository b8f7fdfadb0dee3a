package finding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeverity(t *testing.T) {
	t.Parallel()

	assert.True(t, Error.IsValid())
	assert.True(t, Warning.IsValid())
	assert.False(t, Severity("fatal").IsValid())

	assert.True(t, Error.Blocks())
	assert.False(t, Warning.Blocks())
}

func TestString(t *testing.T) {
	t.Parallel()

	f := Errorf("mitre_id", RulePattern, "does not match the MITRE ID format")
	assert.Equal(t, "[error] [pattern] mitre_id: does not match the MITRE ID format", f.String())

	dup := Warnf("", RuleDuplicateRow, "row 3 repeats the required fields of row 2")
	assert.Equal(t, "[warning] [duplicate-row] row 3 repeats the required fields of row 2", dup.String())
}

func TestErrorsAndWarnings(t *testing.T) {
	t.Parallel()

	findings := []Finding{
		Errorf("a", RuleBounds, "out of range"),
		Warnf("b", RuleOptionalMissing, "not set"),
		Errorf("c", RuleEnumDomain, "unknown value"),
	}

	assert.True(t, HasErrors(findings))
	assert.Len(t, Errors(findings), 2)
	assert.Len(t, Warnings(findings), 1)
	assert.Equal(t, "a", Errors(findings)[0].Field)

	assert.False(t, HasErrors(nil))
	assert.Empty(t, Errors(nil))
}
