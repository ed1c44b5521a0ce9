package env

import "errors"

// ErrJoinInProgress is returned by every mutating operation invoked
// while network propagation is under way — the Go form of spec.md's
// join-operation-in-progress guard. It is a borrow/lease token rather
// than a global flag: Environment raises it around the single
// synchronous call tree of a top-level Assert/Retract/Modify/LoadFacts
// and lowers it when that tree has fully quiesced. DefineTemplate does
// not raise it, but refuses to run while it is held.
// Cascading operations driven from inside propagation (logical
// support's cascade retraction, for instance) never go through the
// guarded entry points, so they are not blocked by their own lease.
var ErrJoinInProgress = errors.New("join-operation-in-progress")

// StatusError wraps one of the typed status sentinels (fact package's
// ErrCouldNotAssert, ErrCouldNotModify, ErrCouldNotRetract,
// ErrRuleNetworkError, or this package's ErrJoinInProgress) with the
// operation-specific detail that produced it. errors.Is against the
// wrapped sentinel still matches; callers that only care about the
// status category never need to type-assert StatusError itself.
type StatusError struct {
	Status error
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail == "" {
		return e.Status.Error()
	}
	return e.Status.Error() + ": " + e.Detail
}

func (e *StatusError) Unwrap() error { return e.Status }

func statusErr(status error, detail string) error {
	return &StatusError{Status: status, Detail: detail}
}

// IntegrityError reports a violated invariant (I1–I5) found by
// ValidateFactIntegrity. spec.md calls for aborting the host process
// on a corrupted invariant; this is the Go-idiomatic relaxation
// recorded in DESIGN.md: validation returns a typed report instead of
// panicking, so a caller can decide whether "abort" means os.Exit,
// a panic of its own, or simply surfacing the report to an operator.
type IntegrityError struct {
	Invariant string // e.g. "I2", "I4"
	Detail    string
}

func (e *IntegrityError) Error() string {
	return "integrity violation " + e.Invariant + ": " + e.Detail
}
