package document

// Record maps canonical field names to typed values. Absent keys and
// explicitly unset values are equivalent. The zero Record is not
// usable; construct with NewRecord.
type Record struct {
	values map[string]Value
}

// NewRecord returns an empty record.
func NewRecord() Record {
	return Record{values: make(map[string]Value, 8)}
}

// Set stores a value under the canonical field name. Setting an unset
// Value clears the field.
func (r Record) Set(field string, v Value) {
	if !v.IsSet() {
		delete(r.values, field)
		return
	}
	r.values[field] = v
}

// Get returns the value stored under field; the unset Value when absent.
func (r Record) Get(field string) Value {
	return r.values[field]
}

// Has reports whether field carries a set value.
func (r Record) Has(field string) bool {
	return r.values[field].IsSet()
}

// Len returns the number of set fields.
func (r Record) Len() int { return len(r.values) }

// Clone returns an independent copy of the record.
func (r Record) Clone() Record {
	out := Record{values: make(map[string]Value, len(r.values))}
	for k, v := range r.values {
		out.values[k] = v
	}
	return out
}

// EqualFields reports whether both records store identical values for
// every name in fields. Fields unset on both sides count as equal.
func (r Record) EqualFields(o Record, fields []string) bool {
	for _, f := range fields {
		if !r.Get(f).Equal(o.Get(f)) {
			return false
		}
	}
	return true
}
