package strutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		in     string
		maxLen int
		want   string
	}{
		{"shorter than limit", "abc", 10, "abc"},
		{"exactly at limit", "abcde", 5, "abcde"},
		{"truncated with ellipsis", "abcdefghij", 6, "abc..."},
		{"tiny limit skips ellipsis", "abcdef", 3, "abc"},
		{"zero limit", "abc", 0, ""},
		{"negative limit", "abc", -1, ""},
		{"multi-byte runes intact", "güvenlik değerlendirmesi", 10, "güvenli..."},
		{"empty string", "", 5, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Truncate(tt.in, tt.maxLen))
		})
	}
}
