package importer

import "errors"

// Sentinel errors for import failure modes. Callers should use
// errors.Is() to check for these.
//
// Structural errors reject the whole file; mapping errors reject only
// the targeted category. Cell-level problems never surface here: they
// degrade to per-row findings and a partial commit.
var (
	// ErrEmptyFile indicates the upload contained no data rows at all.
	ErrEmptyFile = errors.New("importer: empty file")

	// ErrInvalidEncoding indicates the upload is not valid UTF-8.
	ErrInvalidEncoding = errors.New("importer: file is not valid UTF-8")

	// ErrDelimiterAmbiguous indicates no candidate delimiter produced
	// a consistent column count across the sampled rows.
	ErrDelimiterAmbiguous = errors.New("importer: cannot detect a consistent delimiter")

	// ErrEmptyHeader indicates a header cell was empty after
	// normalization.
	ErrEmptyHeader = errors.New("importer: empty column header")

	// ErrDuplicateHeader indicates two header cells collided after
	// normalization.
	ErrDuplicateHeader = errors.New("importer: duplicate column header")

	// ErrRequiredUnmapped indicates a required field has no confirmed
	// header mapping.
	ErrRequiredUnmapped = errors.New("importer: required field is not mapped")

	// ErrMappingConflict indicates the confirmed mapping assigns one
	// raw header to more than one field, or names an unknown field or
	// header.
	ErrMappingConflict = errors.New("importer: conflicting mapping")

	// ErrBadState indicates a pipeline step was invoked out of order.
	// This is a caller bug, not bad input.
	ErrBadState = errors.New("importer: step not valid in current state")
)

// structural errors abort the whole file with no partial commit.
var structural = []error{ErrEmptyFile, ErrInvalidEncoding, ErrDelimiterAmbiguous, ErrEmptyHeader, ErrDuplicateHeader}

// mapping errors abort only the targeted category's import.
var mapping = []error{ErrRequiredUnmapped, ErrMappingConflict}

// IsStructural reports whether err is a whole-file rejection.
func IsStructural(err error) bool { return isAny(err, structural) }

// IsMapping reports whether err is a category-level mapping rejection.
func IsMapping(err error) bool { return isAny(err, mapping) }

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}
