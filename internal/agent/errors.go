package agent

// ErrorCategory tags a turn failure so the error handler can pick a
// response template without inspecting the message text.
type ErrorCategory int

const (
	// CategoryNone means the turn has no recorded failure.
	CategoryNone ErrorCategory = iota

	// CategoryValidation covers malformed turn input (blank or oversized
	// message).
	CategoryValidation

	// CategoryClassification covers intent provider failures and
	// unparseable classifier output.
	CategoryClassification

	// CategoryRetrieval covers embedding and vector index failures.
	CategoryRetrieval

	// CategoryTrackingValidation covers malformed tracking identifiers,
	// including a tracking turn with no identifier at all.
	CategoryTrackingValidation

	// CategoryTrackingProvider covers carrier timeouts, not-found
	// responses, and other upstream failures.
	CategoryTrackingProvider

	// CategorySynthesis covers completion provider failures while
	// generating the final reply.
	CategorySynthesis
)

// String returns the category name for logging.
func (c ErrorCategory) String() string {
	switch c {
	case CategoryNone:
		return "none"
	case CategoryValidation:
		return "validation"
	case CategoryClassification:
		return "classification"
	case CategoryRetrieval:
		return "retrieval"
	case CategoryTrackingValidation:
		return "tracking_validation"
	case CategoryTrackingProvider:
		return "tracking_provider"
	case CategorySynthesis:
		return "synthesis"
	default:
		return "unknown"
	}
}
