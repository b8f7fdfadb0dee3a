// Package snapshot serializes a whole session document to JSON and
// back. The core owns no persistence; callers decide where the bytes
// live. Category keys and field names in the JSON match the schema's
// canonical names, and row order is preserved, so a snapshot is a
// faithful session copy rather than a report format.
package snapshot

import (
	"fmt"

	"github.com/detcover/detcover/pkg/document"
	"github.com/detcover/detcover/pkg/jsonutil"
	"github.com/detcover/detcover/pkg/schema"
)

// Marshal encodes the document as indented JSON. Unset fields are
// omitted; they come back unset on load.
func Marshal(reg *schema.Registry, doc *document.Document) ([]byte, error) {
	out := make(map[string]any, 6)
	for _, cat := range schema.Categories() {
		if cat.Scalar() {
			out[cat.String()] = recordToMap(reg, cat, doc.Scalar(cat))
			continue
		}
		rows := doc.Rows(cat)
		arr := make([]map[string]any, len(rows))
		for i, rec := range rows {
			arr[i] = recordToMap(reg, cat, rec)
		}
		out[cat.String()] = arr
	}
	return jsonutil.MarshalIndent(out, "  ")
}

// Unmarshal decodes a snapshot into a fresh document. Unknown
// category keys and unknown fields are ignored so older snapshots
// with extra data still load; a value of the wrong JSON type fails
// the whole load.
func Unmarshal(reg *schema.Registry, data []byte) (*document.Document, error) {
	var raw map[string]any
	if err := jsonutil.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("snapshot: decode: %w", err)
	}

	doc := document.New()
	for _, cat := range schema.Categories() {
		entry, ok := raw[cat.String()]
		if !ok {
			continue
		}
		if cat.Scalar() {
			obj, ok := entry.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("snapshot: %s: expected an object", cat)
			}
			rec, err := mapToRecord(reg, cat, obj)
			if err != nil {
				return nil, err
			}
			doc.SetScalar(cat, rec)
			continue
		}
		arr, ok := entry.([]any)
		if !ok {
			return nil, fmt.Errorf("snapshot: %s: expected an array", cat)
		}
		for i, item := range arr {
			obj, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("snapshot: %s[%d]: expected an object", cat, i)
			}
			rec, err := mapToRecord(reg, cat, obj)
			if err != nil {
				return nil, fmt.Errorf("snapshot: %s[%d]: %w", cat, i, err)
			}
			doc.Append(cat, rec)
		}
	}
	return doc, nil
}

func recordToMap(reg *schema.Registry, cat schema.Category, rec document.Record) map[string]any {
	out := make(map[string]any, rec.Len())
	for _, fd := range reg.Fields(cat) {
		v := rec.Get(fd.Name)
		if !v.IsSet() {
			continue
		}
		switch v.Kind() {
		case document.KindInt:
			out[fd.Name] = v.IntVal()
		case document.KindFloat:
			out[fd.Name] = v.FloatVal()
		default:
			out[fd.Name] = v.StringVal()
		}
	}
	return out
}

func mapToRecord(reg *schema.Registry, cat schema.Category, obj map[string]any) (document.Record, error) {
	rec := document.NewRecord()
	for _, fd := range reg.Fields(cat) {
		raw, ok := obj[fd.Name]
		if !ok || raw == nil {
			continue
		}
		v, err := valueFromJSON(fd, raw)
		if err != nil {
			return rec, err
		}
		rec.Set(fd.Name, v)
	}
	return rec, nil
}

// valueFromJSON converts a decoded JSON scalar into a typed Value.
// JSON numbers arrive as float64; integer fields reject fractional
// values instead of truncating.
func valueFromJSON(fd schema.FieldDescriptor, raw any) (document.Value, error) {
	switch fd.Type {
	case schema.TypeInteger:
		f, ok := raw.(float64)
		if !ok || f != float64(int(f)) {
			return document.Value{}, fmt.Errorf("%s: expected a whole number, got %v", fd.Name, raw)
		}
		return document.Int(int(f)), nil
	case schema.TypePercentage:
		f, ok := raw.(float64)
		if !ok {
			return document.Value{}, fmt.Errorf("%s: expected a number, got %v", fd.Name, raw)
		}
		return document.Float(f), nil
	default:
		s, ok := raw.(string)
		if !ok {
			return document.Value{}, fmt.Errorf("%s: expected a string, got %v", fd.Name, raw)
		}
		return document.String(s), nil
	}
}
