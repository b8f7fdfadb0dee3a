package headermap

import (
	"sort"

	"github.com/detcover/detcover/pkg/schema"
)

// AcceptThreshold is the minimum score a candidate must exceed to be
// auto-accepted without manual confirmation.
const AcceptThreshold = 0.5

// AmbiguityMargin is the minimum lead the best field must hold over
// the runner-up; a closer race marks the header unresolved.
const AmbiguityMargin = 0.05

// ScoredField is one field candidate for a raw header.
type ScoredField struct {
	// Field is the canonical field name.
	Field string `json:"field"`

	// Score is the token-overlap similarity in [0,1].
	Score float64 `json:"score"`
}

// MappingCandidate is the scored mapping proposal for one raw header.
type MappingCandidate struct {
	// RawHeader is the header exactly as read from the file.
	RawHeader string `json:"raw_header"`

	// BestField is the auto-accepted field name, or empty when the
	// header is unresolved (low score, ambiguity, or field already
	// claimed by a stronger header).
	BestField string `json:"best_field,omitempty"`

	// Confidence is the score of BestField, 0 when unresolved.
	Confidence float64 `json:"confidence"`

	// Alternatives ranks every field of the category by score,
	// descending, for manual resolution. Includes BestField.
	Alternatives []ScoredField `json:"alternatives,omitempty"`
}

// Resolved reports whether the header was auto-accepted.
func (mc MappingCandidate) Resolved() bool {
	return mc.BestField != ""
}

// scoreHeader ranks every field of the category against one header.
// Score per field is the best Jaccard overlap across the field's alias
// spellings (the canonical name is an implicit alias). Ties keep
// declaration order, which sort.SliceStable preserves.
func scoreHeader(fds []schema.FieldDescriptor, rawHeader string) []ScoredField {
	headerTokens := Tokens(rawHeader)
	ranked := make([]ScoredField, 0, len(fds))
	for _, fd := range fds {
		best := jaccard(headerTokens, Tokens(fd.Name))
		for _, alias := range fd.Aliases {
			if s := jaccard(headerTokens, Tokens(alias)); s > best {
				best = s
			}
		}
		ranked = append(ranked, ScoredField{Field: fd.Name, Score: best})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// SuggestMapping proposes one MappingCandidate per raw header, in input
// order. Each field is claimed by at most one header: once claimed,
// later headers fall back to their next-best unclaimed alternative,
// recursively, and end up unresolved when no acceptable field remains.
//
// A candidate is accepted only when its score exceeds AcceptThreshold
// and leads the next unclaimed field by at least AmbiguityMargin.
// Output is deterministic for identical input.
func SuggestMapping(reg *schema.Registry, cat schema.Category, rawHeaders []string) []MappingCandidate {
	fds := reg.Fields(cat)
	claimed := make(map[string]bool, len(fds))

	out := make([]MappingCandidate, 0, len(rawHeaders))
	for _, raw := range rawHeaders {
		ranked := scoreHeader(fds, raw)
		mc := MappingCandidate{RawHeader: raw, Alternatives: ranked}

		for i, cand := range ranked {
			if claimed[cand.Field] {
				continue
			}
			if cand.Score <= AcceptThreshold {
				break // everything below is weaker still
			}
			if next, ok := nextUnclaimed(ranked[i+1:], claimed); ok && cand.Score-next.Score < AmbiguityMargin {
				break // ambiguous between two live fields
			}
			mc.BestField = cand.Field
			mc.Confidence = cand.Score
			claimed[cand.Field] = true
			break
		}
		out = append(out, mc)
	}
	return out
}

func nextUnclaimed(rest []ScoredField, claimed map[string]bool) (ScoredField, bool) {
	for _, sf := range rest {
		if !claimed[sf.Field] {
			return sf, true
		}
	}
	return ScoredField{}, false
}
