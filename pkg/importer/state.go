package importer

// State names one step of the import pipeline's finite state machine.
//
//	Uploaded → DelimiterDetected → HeadersParsed → MappingSuggested →
//	MappingConfirmed → RowsParsed → Validated → Committed
//
// Rejected is terminal and reachable from any step on unrecoverable
// failure. Scalar categories have no header row to map, so their
// pipeline skips the header and mapping states.
type State string

const (
	StateUploaded          State = "uploaded"
	StateDelimiterDetected State = "delimiter_detected"
	StateHeadersParsed     State = "headers_parsed"
	StateMappingSuggested  State = "mapping_suggested"
	StateMappingConfirmed  State = "mapping_confirmed"
	StateRowsParsed        State = "rows_parsed"
	StateValidated         State = "validated"
	StateCommitted         State = "committed"
	StateRejected          State = "rejected"
)

// Terminal reports whether the pipeline has finished, successfully
// or not.
func (s State) Terminal() bool {
	return s == StateCommitted || s == StateRejected
}

// String returns the state as a string.
func (s State) String() string { return string(s) }
