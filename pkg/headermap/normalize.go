// Package headermap matches arbitrary external CSV column headers onto
// the fixed schema field set.
//
// Matching is two-stage: Normalize folds a raw header into a canonical
// token string (case, punctuation, and diacritics collapse), then
// SuggestMapping scores the token set against every field's alias
// vocabulary and resolves claims so each field receives at most one
// header. Both stages are pure and deterministic.
package headermap

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransformer strips combining marks after canonical decomposition,
// so "Yüksek" and "Yuksek" collide to the same token.
var foldTransformer = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// asciiFold maps letters with no combining-mark decomposition onto
// their base Latin form. Dotless ı shows up in Turkish-locale exports.
var asciiFold = strings.NewReplacer(
	"ı", "i",
	"ø", "o",
	"ß", "ss",
	"æ", "ae",
	"đ", "d",
	"ł", "l",
)

// Normalize folds a raw header into its canonical token string:
// lower-cased, diacritics transliterated to base Latin, punctuation
// and whitespace runs collapsed to single spaces.
//
//	Normalize("Triggered-Count (%)") == "triggered count"
//	Normalize("Yüksek Öncelik")      == "yuksek oncelik"
func Normalize(raw string) string {
	s := strings.ToLower(raw)
	if folded, _, err := transform.String(foldTransformer, s); err == nil {
		s = folded
	}
	s = asciiFold.Replace(s)

	var b strings.Builder
	b.Grow(len(s))
	pendingSpace := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
		} else {
			pendingSpace = true
		}
	}
	return b.String()
}

// Tokens normalizes raw and splits it into its token set.
// The returned slice preserves first-occurrence order; duplicates
// within one header are dropped.
func Tokens(raw string) []string {
	fields := strings.Fields(Normalize(raw))
	if len(fields) < 2 {
		return fields
	}
	seen := make(map[string]struct{}, len(fields))
	out := fields[:0]
	for _, tok := range fields {
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}

// jaccard computes |a∩b| / |a∪b| over two token slices.
// Returns 0 when either side is empty.
func jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(a))
	for _, t := range a {
		set[t] = struct{}{}
	}
	inter := 0
	union := len(a)
	for _, t := range b {
		if _, ok := set[t]; ok {
			inter++
		} else {
			union++
		}
	}
	return float64(inter) / float64(union)
}
