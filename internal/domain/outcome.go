package domain

// Outcome reports what a mutation did, so callers can tell "refused on
// validation" apart from "target no longer exists" without exceptions.
type Outcome int

const (
	// OutcomeApplied means the record was mutated and needs persisting.
	OutcomeApplied Outcome = iota
	// OutcomeRejected means input validation refused the mutation; the
	// record is untouched.
	OutcomeRejected
	// OutcomeNotFound means the referenced entity is no longer present;
	// the record is untouched.
	OutcomeNotFound
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeRejected:
		return "rejected"
	case OutcomeNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}
