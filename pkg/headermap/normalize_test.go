package headermap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"lowercases", "Tactic Name", "tactic name"},
		{"strips punctuation", "Triggered-Count (%)", "triggered count"},
		{"collapses whitespace runs", "  rule\t\tname  ", "rule name"},
		{"turkish diacritics", "Yüksek Öncelik", "yuksek oncelik"},
		{"dotless i", "Kritiklık", "kritiklik"},
		{"german sharp s", "Straße", "strasse"},
		{"accents collide with plain ascii", "Sévérité", "severite"},
		{"digits survive", "Top 10 Rules", "top 10 rules"},
		{"only punctuation", "---", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Normalize(tt.raw))
		})
	}
}

// Header variants differing only by case or diacritics must collide to
// the same token, otherwise duplicate-header detection misses them.
func TestNormalize_VariantsCollide(t *testing.T) {
	t.Parallel()

	variants := []string{"Tested Count", "tested_count", "TESTED-COUNT", "Tésted Count"}
	want := Normalize(variants[0])
	for _, v := range variants[1:] {
		assert.Equal(t, want, Normalize(v), "variant %q", v)
	}
}

func TestTokens(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"tested", "count"}, Tokens("Tested Count"))
	assert.Equal(t, []string{"count"}, Tokens("Count / count"), "duplicate tokens collapse")
	assert.Empty(t, Tokens("!!!"))
}

func TestJaccard(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1.0, jaccard([]string{"tested", "count"}, []string{"tested", "count"}))
	assert.InDelta(t, 1.0/3.0, jaccard([]string{"tested", "count"}, []string{"triggered", "count"}), 1e-9)
	assert.Equal(t, 0.0, jaccard(nil, []string{"count"}))
	assert.Equal(t, 0.0, jaccard([]string{"a"}, []string{"b"}))
}
