package usecase

// OutcomeKind classifies how one unit of sync work finished. Sync functions
// return these instead of signalling the scheduler through errors, so the
// retry decision is always an explicit value inspection.
type OutcomeKind int

const (
	// OutcomeSuccess covers real success and deliberate no-ops (permanent
	// data-shape problems that retrying would never fix are logged and
	// reported as success so the unit leaves the queue).
	OutcomeSuccess OutcomeKind = iota
	// OutcomeRetryable asks the scheduler to run the same unit again, subject
	// to its retry policy.
	OutcomeRetryable
	// OutcomePermanent means the unit failed and must not be re-run.
	OutcomePermanent
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeRetryable:
		return "retryable"
	case OutcomePermanent:
		return "permanent"
	default:
		return "unknown"
	}
}

// Outcome is the result of one sync unit.
type Outcome struct {
	Kind   OutcomeKind
	Reason string
	Err    error
}

func Success() Outcome {
	return Outcome{Kind: OutcomeSuccess}
}

func Retryable(reason string, err error) Outcome {
	return Outcome{Kind: OutcomeRetryable, Reason: reason, Err: err}
}

func Permanent(reason string, err error) Outcome {
	return Outcome{Kind: OutcomePermanent, Reason: reason, Err: err}
}
