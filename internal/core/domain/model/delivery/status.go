package delivery

import (
	"fmt"

	"crowdship/internal/pkg/errs"
)

// Status is the state of a delivery. ACCEPTED is the entry state set at
// creation, mirroring the owning announcement's ASSIGNED status.
type Status int

const (
	Unknown Status = iota
	Pending
	Accepted
	PickedUp
	InTransit
	Delivered
	Confirmed
	Cancelled
	Failed
	Disputed
)

func statusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "UNKNOWN",
		Pending:   "PENDING",
		Accepted:  "ACCEPTED",
		PickedUp:  "PICKED_UP",
		InTransit: "IN_TRANSIT",
		Delivered: "DELIVERED",
		Confirmed: "CONFIRMED",
		Cancelled: "CANCELLED",
		Failed:    "FAILED",
		Disputed:  "DISPUTED",
	}
}

// transitionTable is the single source of truth for delivery status edges.
// Every mutating operation goes through TransitionTo; no caller compares
// status values ad hoc.
func transitionTable() map[Status][]Status {
	return map[Status][]Status{
		Pending:   {Accepted, Cancelled, Failed, Disputed},
		Accepted:  {PickedUp, Cancelled, Failed, Disputed},
		PickedUp:  {InTransit, Cancelled, Failed, Disputed},
		InTransit: {Delivered, Cancelled, Failed, Disputed},
		Delivered: {Confirmed, Cancelled, Failed, Disputed},
		Disputed:  {Confirmed, Cancelled, Failed},
		Confirmed: {},
		Cancelled: {},
		Failed:    {},
	}
}

func (s Status) Validate() error {
	if s == Unknown {
		return errs.NewValueIsRequiredError("delivery status")
	}
	if _, ok := statusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("delivery status",
			fmt.Errorf("%d is not a known status", int(s)))
	}
	return nil
}

func (s Status) String() string {
	if name, ok := statusStrings()[s]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// StatusFromString parses the wire name of a status.
func StatusFromString(name string) (Status, error) {
	for status, n := range statusStrings() {
		if n == name {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("delivery status",
		fmt.Errorf("%q is not a known status", name))
}

// IsTerminal reports whether a delivery in this status is immutable.
func (s Status) IsTerminal() bool {
	return len(transitionTable()[s]) == 0 && s != Unknown
}

// CanTransitionTo consults the transition table.
func (s Status) CanTransitionTo(to Status) bool {
	for _, allowed := range transitionTable()[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// TransitionTo returns the target status if the edge is allowed.
func (s Status) TransitionTo(to Status) (Status, error) {
	if err := to.Validate(); err != nil {
		return Unknown, err
	}
	if !s.CanTransitionTo(to) {
		return Unknown, errs.NewInvalidStateTransitionError("delivery",
			s.String(), to.String())
	}
	return to, nil
}
