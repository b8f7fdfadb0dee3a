package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategories(t *testing.T) {
	t.Parallel()

	cats := Categories()
	assert.Len(t, cats, 6)
	for _, c := range cats {
		assert.True(t, c.IsValid())
	}
	assert.True(t, GeneralInfo.Scalar())
	assert.True(t, TestResults.Scalar())
	assert.False(t, MitreTactics.Scalar())
	assert.False(t, Category("rules").IsValid())
}

// Every category must be fully declared: at least one required field,
// unique names, and constraint data matching the declared type.
func TestRegistry_DescriptorsWellFormed(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	for _, cat := range Categories() {
		fds := reg.Fields(cat)
		require.NotEmpty(t, fds, "category %s", cat)
		require.NotEmpty(t, reg.Required(cat), "category %s needs a required field", cat)

		seen := map[string]bool{}
		for _, fd := range fds {
			assert.False(t, seen[fd.Name], "%s.%s declared twice", cat, fd.Name)
			seen[fd.Name] = true

			switch fd.Type {
			case TypeEnum:
				assert.NotEmpty(t, fd.Enum, "%s.%s", cat, fd.Name)
			case TypeIdentifier:
				assert.NotNil(t, fd.Pattern, "%s.%s", cat, fd.Name)
			}
		}
	}
}

func TestRegistry_FieldLookup(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()

	fd, ok := reg.Field(TriggeredRules, "confidence")
	require.True(t, ok)
	assert.Equal(t, TypeInteger, fd.Type)
	assert.True(t, fd.InRange(0))
	assert.True(t, fd.InRange(100))
	assert.False(t, fd.InRange(101))
	assert.False(t, fd.InRange(-1))

	_, ok = reg.Field(TriggeredRules, "nonexistent")
	assert.False(t, ok)
}

func TestMitreIDPattern(t *testing.T) {
	t.Parallel()

	assert.True(t, mitreIDPattern.MatchString("T1059"))
	assert.True(t, mitreIDPattern.MatchString("T1059.001"))
	assert.True(t, mitreIDPattern.MatchString("TA0002"))
	assert.False(t, mitreIDPattern.MatchString("TA0002.001"), "tactic IDs have no sub-technique")
	assert.False(t, mitreIDPattern.MatchString("T1059.1"))
	assert.False(t, mitreIDPattern.MatchString("t1059"))
}

func TestRegistry_AddAliases(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	require.NoError(t, reg.AddAliases(MitreTactics, "tested", "simulation runs"))

	fd, ok := reg.Field(MitreTactics, "tested")
	require.True(t, ok)
	assert.Contains(t, fd.Aliases, "simulation runs")

	assert.Error(t, reg.AddAliases(MitreTactics, "no_such_field", "x"))
	assert.Error(t, reg.AddAliases(Category("bogus"), "tested", "x"))
}

func TestRegistry_UnknownCategoryPanics(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	assert.Panics(t, func() { reg.Fields(Category("bogus")) })
}

func TestCriticalitySynonyms(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	fd, ok := reg.Field(UndetectedTechniques, "criticality")
	require.True(t, ok)

	assert.Equal(t, "High", fd.Synonyms["yuksek"])
	assert.Equal(t, "Critical", fd.Synonyms["kritik"])
	assert.True(t, fd.EnumContains("Medium"))
	assert.False(t, fd.EnumContains("orta"), "synonyms are not domain values")
}
