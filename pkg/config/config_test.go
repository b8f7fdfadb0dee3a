package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/detcover/detcover/pkg/document"
	"github.com/detcover/detcover/pkg/importer"
	"github.com/detcover/detcover/pkg/schema"
)

func TestApplyAliases(t *testing.T) {
	t.Parallel()

	yamlDoc := `
mitre_tactics:
  tested:
    - "Test Runs"
    - "EXECUTIONS!"
triggered_rules:
  rule_name:
    - "sigma rule"
`
	reg := schema.NewRegistry()
	require.NoError(t, ApplyAliases([]byte(yamlDoc), reg))

	fd, ok := reg.Field(schema.MitreTactics, "tested")
	require.True(t, ok)
	assert.Contains(t, fd.Aliases, "test runs")
	assert.Contains(t, fd.Aliases, "executions")

	fd, ok = reg.Field(schema.TriggeredRules, "rule_name")
	require.True(t, ok)
	assert.Contains(t, fd.Aliases, "sigma rule")
}

// An extended vocabulary must carry through to real imports: house
// column names resolve without manual -map flags.
func TestApplyAliases_DrivesImport(t *testing.T) {
	t.Parallel()

	yamlDoc := `
mitre_tactics:
  tested:
    - "test runs"
  triggered:
    - "alerts fired"
`
	reg := schema.NewRegistry()
	require.NoError(t, ApplyAliases([]byte(yamlDoc), reg))

	csv := "Tactic,Test Runs,Alerts Fired\nExecution,5,3\n"
	doc := document.New()
	res, err := importer.Run(reg, schema.MitreTactics, []byte(csv), nil, doc)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Committed)
	assert.Empty(t, res.Unresolved)
	assert.Equal(t, 5, doc.Tactics[0].Get("tested").IntVal())
	assert.Equal(t, 3, doc.Tactics[0].Get("triggered").IntVal())
}

func TestApplyAliases_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		yaml string
	}{
		{"unknown category", "attack_matrix:\n  tested:\n    - x\n"},
		{"unknown field", "mitre_tactics:\n  hit_count:\n    - x\n"},
		{"alias normalizes to nothing", "mitre_tactics:\n  tested:\n    - \"!!!\"\n"},
		{"wrong shape", "mitre_tactics: not-a-map\n"},
		{"malformed yaml", "\tmitre_tactics:\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ApplyAliases([]byte(tt.yaml), schema.NewRegistry())
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoadAliases(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "aliases.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mitre_tactics:\n  tested:\n    - \"test runs\"\n"), 0o644))

	reg := schema.NewRegistry()
	require.NoError(t, LoadAliases(path, reg))

	fd, _ := reg.Field(schema.MitreTactics, "tested")
	assert.Contains(t, fd.Aliases, "test runs")
}

func TestLoadAliases_MissingFile(t *testing.T) {
	t.Parallel()

	err := LoadAliases(filepath.Join(t.TempDir(), "absent.yaml"), schema.NewRegistry())
	require.ErrorIs(t, err, ErrInvalidConfig)
}
