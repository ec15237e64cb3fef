package application

import (
	"fmt"

	"crowdship/internal/pkg/errs"
)

// Status is the lifecycle state of a courier's application.
type Status int

const (
	Unknown Status = iota
	Pending
	Accepted
	Rejected
)

func statusStrings() map[Status]string {
	return map[Status]string{
		Unknown:  "UNKNOWN",
		Pending:  "PENDING",
		Accepted: "ACCEPTED",
		Rejected: "REJECTED",
	}
}

func (s Status) Validate() error {
	if s == Unknown {
		return errs.NewValueIsRequiredError("application status")
	}
	if _, ok := statusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("application status",
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
	return Unknown, errs.NewValueIsInvalidErrorWithCause("application status",
		fmt.Errorf("%q is not a known status", name))
}

// IsPending reports whether the application can still be decided on.
func (s Status) IsPending() bool {
	return s == Pending
}
