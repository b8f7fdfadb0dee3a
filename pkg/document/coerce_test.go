package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/detcover/detcover/pkg/schema"
)

func fieldFor(t *testing.T, cat schema.Category, name string) schema.FieldDescriptor {
	t.Helper()
	fd, ok := schema.NewRegistry().Field(cat, name)
	require.True(t, ok)
	return fd
}

func TestCoerce_Integer(t *testing.T) {
	t.Parallel()

	fd := fieldFor(t, schema.TestResults, "total_rules")

	v, err := Coerce(fd, " 120 ")
	require.NoError(t, err)
	assert.Equal(t, Int(120), v)

	// Range violations are the validator's job, not coercion's.
	v, err = Coerce(fd, "-3")
	require.NoError(t, err)
	assert.Equal(t, Int(-3), v)

	_, err = Coerce(fd, "many")
	assert.Error(t, err)

	_, err = Coerce(fd, "12.5")
	assert.Error(t, err)
}

func TestCoerce_ConfidencePercentSign(t *testing.T) {
	t.Parallel()

	fd := fieldFor(t, schema.TriggeredRules, "confidence")
	v, err := Coerce(fd, "85%")
	require.NoError(t, err)
	assert.Equal(t, Int(85), v)
}

func TestCoerce_IdentifierUppercased(t *testing.T) {
	t.Parallel()

	fd := fieldFor(t, schema.TriggeredRules, "mitre_id")
	v, err := Coerce(fd, " t1059.001 ")
	require.NoError(t, err)
	assert.Equal(t, String("T1059.001"), v)
}

func TestCoerce_EnumSynonyms(t *testing.T) {
	t.Parallel()

	fd := fieldFor(t, schema.UndetectedTechniques, "criticality")

	tests := []struct {
		raw  string
		want string
	}{
		{"High", "High"},
		{"high", "High"},
		{"Yüksek", "High"},   // Turkish, with diacritics
		{"KRİTİK", "Critical"}, // Turkish dotted capital İ
		{"Orta", "Medium"},
		{"düşük", "Low"},
	}
	for _, tt := range tests {
		v, err := Coerce(fd, tt.raw)
		require.NoError(t, err, "raw %q", tt.raw)
		assert.Equal(t, String(tt.want), v, "raw %q", tt.raw)
	}

	// Unknown spellings pass through; validation reports the domain
	// violation with the original value visible.
	v, err := Coerce(fd, "Severe")
	require.NoError(t, err)
	assert.Equal(t, String("Severe"), v)
}

func TestCoerce_BlankIsUnset(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"rule_name", "mitre_id", "confidence"} {
		fd := fieldFor(t, schema.TriggeredRules, name)
		v, err := Coerce(fd, "   ")
		require.NoError(t, err)
		assert.False(t, v.IsSet(), "field %s", name)
	}
}

func TestValue_Canonical(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "42", Int(42).Canonical())
	assert.Equal(t, "87.5", Float(87.5).Canonical())
	assert.Equal(t, "75.0", Float(75).Canonical())
	assert.Equal(t, "Execution", String("Execution").Canonical())
	assert.Equal(t, "", Value{}.Canonical())
}

func TestRecord_SetGetClone(t *testing.T) {
	t.Parallel()

	rec := NewRecord()
	rec.Set("tested", Int(5))
	assert.True(t, rec.Has("tested"))
	assert.Equal(t, 5, rec.Get("tested").IntVal())
	assert.False(t, rec.Has("triggered"))

	clone := rec.Clone()
	clone.Set("tested", Int(9))
	assert.Equal(t, 5, rec.Get("tested").IntVal(), "clone must not alias the original")

	rec.Set("tested", Value{})
	assert.False(t, rec.Has("tested"), "setting unset clears the field")
}

func TestRecord_EqualFields(t *testing.T) {
	t.Parallel()

	a := NewRecord()
	b := NewRecord()
	a.Set("tactic_name", String("Execution"))
	b.Set("tactic_name", String("Execution"))

	fields := []string{"tactic_name", "tested"}
	assert.True(t, a.EqualFields(b, fields), "mutually unset fields are equal")

	b.Set("tested", Int(1))
	assert.False(t, a.EqualFields(b, fields))
}
