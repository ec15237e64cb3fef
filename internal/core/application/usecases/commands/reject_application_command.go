package commands

import (
	"errors"

	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/pkg/guard"
)

var ErrRejectApplicationCommandIsNotConstructed = errors.New(
	"RejectApplicationCommand must be created via NewRejectApplicationCommand constructor",
)

// RejectApplicationCommand declines a pending application.
type RejectApplicationCommand struct { //nolint:recvcheck //using for validation
	applicationID kernel.UUID
	requesterID   kernel.UUID

	guard guard.ConstructorGuard
}

// NewRejectApplicationCommand creates a command to reject an application.
func NewRejectApplicationCommand(applicationID, requesterID kernel.UUID) (RejectApplicationCommand, error) {
	cmd := RejectApplicationCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setApplicationID(applicationID),
		cmd.setRequesterID(requesterID),
	); err != nil {
		return RejectApplicationCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RejectApplicationCommand) Validate() error {
	return c.guard.Validate(ErrRejectApplicationCommandIsNotConstructed)
}

func (c RejectApplicationCommand) ApplicationID() kernel.UUID { return c.applicationID }
func (c RejectApplicationCommand) RequesterID() kernel.UUID   { return c.requesterID }

func (c *RejectApplicationCommand) setApplicationID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.applicationID = id
	return nil
}

func (c *RejectApplicationCommand) setRequesterID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.requesterID = id
	return nil
}
