package commands

import (
	"errors"

	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/pkg/guard"
)

var ErrAcceptApplicationCommandIsNotConstructed = errors.New(
	"AcceptApplicationCommand must be created via NewAcceptApplicationCommand constructor",
)

// AcceptApplicationCommand selects the winning application for an
// announcement.
type AcceptApplicationCommand struct { //nolint:recvcheck //using for validation
	applicationID kernel.UUID
	requesterID   kernel.UUID

	guard guard.ConstructorGuard
}

// NewAcceptApplicationCommand creates a command to accept an application.
func NewAcceptApplicationCommand(applicationID, requesterID kernel.UUID) (AcceptApplicationCommand, error) {
	cmd := AcceptApplicationCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setApplicationID(applicationID),
		cmd.setRequesterID(requesterID),
	); err != nil {
		return AcceptApplicationCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AcceptApplicationCommand) Validate() error {
	return c.guard.Validate(ErrAcceptApplicationCommandIsNotConstructed)
}

func (c AcceptApplicationCommand) ApplicationID() kernel.UUID { return c.applicationID }
func (c AcceptApplicationCommand) RequesterID() kernel.UUID   { return c.requesterID }

func (c *AcceptApplicationCommand) setApplicationID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.applicationID = id
	return nil
}

func (c *AcceptApplicationCommand) setRequesterID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.requesterID = id
	return nil
}
