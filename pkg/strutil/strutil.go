// Package strutil provides shared string helpers for report
// rendering.
package strutil

import "unicode/utf8"

// Truncate returns s cut to maxLen runes, appending "..." (counted
// inside maxLen) when anything was removed. Rune-aware: never splits
// a multi-byte character. maxLen <= 0 yields the empty string.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
