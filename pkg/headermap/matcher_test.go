package headermap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/detcover/detcover/pkg/schema"
)

// The canonical tactic-coverage header set must auto-map with high
// confidence; this is the baseline import every SIEM export variant
// degrades from.
func TestSuggestMapping_TacticHeaders(t *testing.T) {
	t.Parallel()

	reg := schema.NewRegistry()
	got := SuggestMapping(reg, schema.MitreTactics, []string{"Tactic", "Tested Count", "Triggered Count"})
	require.Len(t, got, 3)

	wantFields := []string{"tactic_name", "tested", "triggered"}
	for i, mc := range got {
		assert.True(t, mc.Resolved(), "header %q unresolved", mc.RawHeader)
		assert.Equal(t, wantFields[i], mc.BestField)
		assert.GreaterOrEqual(t, mc.Confidence, 0.5, "header %q", mc.RawHeader)
	}
}

// A second header competing for an already-claimed field must fall
// back to its next-best unclaimed field or end up unresolved, never
// silently overwrite the first claim.
func TestSuggestMapping_ClaimedFieldNotReused(t *testing.T) {
	t.Parallel()

	reg := schema.NewRegistry()
	got := SuggestMapping(reg, schema.MitreTactics, []string{"Tested", "Tested Count", "Tactic"})
	require.Len(t, got, 3)

	assert.Equal(t, "tested", got[0].BestField)
	assert.False(t, got[1].Resolved(), "second tested column must be unresolved")
	assert.Equal(t, "tactic_name", got[2].BestField)
}

func TestSuggestMapping_LowScoreUnresolved(t *testing.T) {
	t.Parallel()

	reg := schema.NewRegistry()
	got := SuggestMapping(reg, schema.MitreTactics, []string{"Quarterly Revenue"})
	require.Len(t, got, 1)
	assert.False(t, got[0].Resolved())
	assert.Zero(t, got[0].Confidence)
	// Alternatives still ranked for manual resolution.
	assert.Len(t, got[0].Alternatives, 3)
}

// suggestMapping must be a pure function of its input: identical
// headers and category give identical candidates and confidences.
func TestSuggestMapping_Deterministic(t *testing.T) {
	t.Parallel()

	reg := schema.NewRegistry()
	headers := []string{"Tactic", "Tested Count", "Triggered Count", "Notes"}

	first := SuggestMapping(reg, schema.MitreTactics, headers)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, SuggestMapping(reg, schema.MitreTactics, headers))
	}
}

// Identity mapping: canonical field names map back onto themselves
// with full confidence. The export round-trip depends on this.
func TestSuggestMapping_IdentityHeaders(t *testing.T) {
	t.Parallel()

	reg := schema.NewRegistry()
	for _, cat := range []schema.Category{
		schema.MitreTactics, schema.TriggeredRules,
		schema.UndetectedTechniques, schema.Recommendations,
	} {
		var headers []string
		for _, fd := range reg.Fields(cat) {
			headers = append(headers, fd.Name)
		}
		got := SuggestMapping(reg, cat, headers)
		require.Len(t, got, len(headers), "category %s", cat)
		for i, mc := range got {
			assert.Equal(t, headers[i], mc.BestField, "category %s header %q", cat, mc.RawHeader)
			assert.Equal(t, 1.0, mc.Confidence, "category %s header %q", cat, mc.RawHeader)
		}
	}
}

func TestSuggestMapping_AliasExtension(t *testing.T) {
	t.Parallel()

	reg := schema.NewRegistry()
	require.NoError(t, reg.AddAliases(schema.MitreTactics, "tested", "simulation runs"))

	got := SuggestMapping(reg, schema.MitreTactics, []string{"Simulation Runs"})
	require.Len(t, got, 1)
	assert.Equal(t, "tested", got[0].BestField)
	assert.Equal(t, 1.0, got[0].Confidence)
}
