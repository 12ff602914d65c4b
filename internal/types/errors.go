package types

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a session cannot be loaded for a tenant.
// Tenant mismatches are collapsed into this error before reaching callers;
// the distinction only exists in internal logs.
var ErrNotFound = errors.New("session not found")

// ValidationError reports malformed user input. Recoverable; the user is
// re-prompted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Reason)
}

// IllegalTransitionError reports a stage-sequencing logic error. This is a
// defect, never silently ignored.
type IllegalTransitionError struct {
	From Stage
	To   Stage
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal stage transition %s -> %s", e.From, e.To)
}

// TenantMismatchError reports that a fetched session belongs to a different
// tenant than the caller. Callers never see this error; the state machine
// logs it and surfaces ErrNotFound instead.
type TenantMismatchError struct {
	Want string
	Got  string
}

func (e *TenantMismatchError) Error() string {
	return fmt.Sprintf("session org %q does not match caller org %q", e.Got, e.Want)
}

// CollaboratorError wraps any failure from a generation collaborator call:
// transport errors, malformed responses, explicit error payloads.
type CollaboratorError struct {
	Phase string
	Err   error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("collaborator call failed in phase %q: %v", e.Phase, e.Err)
}

func (e *CollaboratorError) Unwrap() error { return e.Err }

// OrchestrationTimeoutError reports that the bounded orchestration poll was
// exhausted without observing completion. Distinct from CollaboratorError so
// callers can offer "try again later" instead of "retry".
type OrchestrationTimeoutError struct {
	Attempts int
	Interval time.Duration
}

func (e *OrchestrationTimeoutError) Error() string {
	return fmt.Sprintf("orchestration not observed after %d polls at %s intervals",
		e.Attempts, e.Interval)
}
