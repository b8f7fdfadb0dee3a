// Package finding provides the shared validation outcome types used
// across the validator, import pipeline, and CLI reporting.
//
// A Finding is one validation outcome (error or warning) attached to a
// field of a record. Rule IDs are stable strings so downstream
// consumers can filter or suppress without string-matching messages.
package finding
