package announcement

import (
	"fmt"

	"crowdship/internal/pkg/errs"
)

// Status represents the lifecycle state of an announcement.
//
// State transitions:
//
//	DRAFT ───┐
//	         ├──> PUBLISHED ──> ASSIGNED ──> IN_PROGRESS ──> COMPLETED
//	PENDING ─┘
//
// CANCELLED is reachable from every non-terminal state. COMPLETED and
// CANCELLED are terminal. All transitions go through the central table
// consulted by TransitionTo; no caller compares statuses ad hoc.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Draft is an announcement the requester is still editing.
	Draft

	// Pending is the initial status after creation, awaiting publication.
	Pending

	// Published announcements are discoverable by couriers and open for
	// applications.
	Published

	// Assigned means an application was accepted and a delivery exists.
	Assigned

	// InProgress means the assigned courier has picked the goods up.
	InProgress

	// Completed is the terminal success state.
	Completed

	// Cancelled is the terminal failure state.
	Cancelled
)

func statusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "UNKNOWN",
		Draft:      "DRAFT",
		Pending:    "PENDING",
		Published:  "PUBLISHED",
		Assigned:   "ASSIGNED",
		InProgress: "IN_PROGRESS",
		Completed:  "COMPLETED",
		Cancelled:  "CANCELLED",
	}
}

// transitionTable is the single source of truth for allowed status edges.
// CANCELLED appears as a target on every non-terminal state.
func transitionTable() map[Status][]Status {
	return map[Status][]Status{
		Draft:      {Published, Cancelled},
		Pending:    {Published, Cancelled},
		Published:  {Assigned, Cancelled},
		Assigned:   {InProgress, Cancelled},
		InProgress: {Completed, Cancelled},
		Completed:  {},
		Cancelled:  {},
	}
}

// Validate checks that the Status holds one of the defined values.
func (s Status) Validate() error {
	if s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid announcement status", s))
	}
	if _, ok := statusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid announcement status", s))
	}
	return nil
}

// String returns the closed-set wire name of the status.
func (s Status) String() string {
	if str, ok := statusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// StatusFromString parses a wire name back into a Status.
func StatusFromString(s string) (Status, error) {
	for status, name := range statusStrings() {
		if name == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid announcement status", s))
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}

// IsModifiable reports whether the requester may still edit the announcement.
func (s Status) IsModifiable() bool {
	return s == Draft || s == Pending
}

// IsOpenForApplications reports whether couriers may apply.
func (s Status) IsOpenForApplications() bool {
	return s == Published || s == Pending
}

// CanTransitionTo consults the transition table for the edge s -> target.
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range transitionTable()[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// TransitionTo returns target when the edge s -> target is in the transition
// table, and an InvalidStateTransitionError otherwise.
func (s Status) TransitionTo(target Status) (Status, error) {
	if err := target.Validate(); err != nil {
		return Unknown, err
	}
	if !s.CanTransitionTo(target) {
		return Unknown, errs.NewInvalidStateTransitionError("announcement", s.String(), target.String())
	}
	return target, nil
}
