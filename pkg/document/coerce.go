package document

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/detcover/detcover/pkg/headermap"
	"github.com/detcover/detcover/pkg/schema"
)

// Coerce converts one raw cell into a typed Value per the field's
// declared type. It returns the unset Value with a nil error for
// blank cells, and a descriptive error when the cell cannot be
// converted; range and pattern enforcement is the validator's job,
// so e.g. -5 coerces fine and fails validation afterwards.
//
// Coercion is forgiving about presentation:
//   - integers and percentages tolerate surrounding space and a
//     trailing "%"
//   - identifiers are upper-cased and trimmed
//   - enums accept declared synonyms, matched case- and
//     diacritic-insensitively, and store the canonical spelling
func Coerce(fd schema.FieldDescriptor, raw string) (Value, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Value{}, nil
	}

	switch fd.Type {
	case schema.TypeInteger:
		n, err := strconv.Atoi(strings.TrimSuffix(trimmed, "%"))
		if err != nil {
			return Value{}, fmt.Errorf("%q is not a whole number", trimmed)
		}
		return Int(n), nil

	case schema.TypePercentage:
		f, err := strconv.ParseFloat(strings.TrimSuffix(trimmed, "%"), 64)
		if err != nil {
			return Value{}, fmt.Errorf("%q is not a number", trimmed)
		}
		return Float(f), nil

	case schema.TypeIdentifier:
		return String(strings.ToUpper(trimmed)), nil

	case schema.TypeEnum:
		if fd.EnumContains(trimmed) {
			return String(trimmed), nil
		}
		if canonical, ok := fd.Synonyms[headermap.Normalize(trimmed)]; ok {
			return String(canonical), nil
		}
		// Keep the raw spelling; validation reports the domain violation.
		return String(trimmed), nil

	case schema.TypeString:
		return String(trimmed), nil

	default:
		return Value{}, fmt.Errorf("field %s has unsupported type %q", fd.Name, fd.Type)
	}
}
