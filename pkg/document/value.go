// Package document holds the session-scoped assessment data aggregate:
// typed field values, records, and the per-category sequences they
// live in. A Document is always passed explicitly; nothing in this
// module keeps ambient global state.
package document

import "strconv"

// Kind discriminates the value union. The zero Kind is "unset".
type Kind int

const (
	KindUnset Kind = iota
	KindInt
	KindFloat
	KindString
)

// Value is a typed field value or explicit unset. The zero Value is
// unset and safe to use.
type Value struct {
	kind Kind
	i    int
	f    float64
	s    string
}

// Int wraps an integer value.
func Int(n int) Value { return Value{kind: KindInt, i: n} }

// Float wraps a floating-point value (percentages).
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// String wraps a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// IsSet reports whether the value carries data.
func (v Value) IsSet() bool { return v.kind != KindUnset }

// Kind returns the value's kind.
func (v Value) Kind() Kind { return v.kind }

// IntVal returns the integer payload; zero for other kinds.
func (v Value) IntVal() int { return v.i }

// FloatVal returns the float payload; for integer values it returns
// the integer widened, so numeric reads need not branch on kind.
func (v Value) FloatVal() float64 {
	if v.kind == KindInt {
		return float64(v.i)
	}
	return v.f
}

// StringVal returns the string payload; zero for other kinds.
func (v Value) StringVal() string { return v.s }

// Canonical returns the canonical textual form written on export and
// accepted back on import: integers without separators, floats with
// one decimal and no percent sign, strings verbatim. Unset renders
// as the empty string.
func (v Value) Canonical() string {
	switch v.kind {
	case KindInt:
		return strconv.Itoa(v.i)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', 1, 64)
	case KindString:
		return v.s
	default:
		return ""
	}
}

// Equal reports whether two values have the same kind and payload.
func (v Value) Equal(o Value) bool { return v == o }
