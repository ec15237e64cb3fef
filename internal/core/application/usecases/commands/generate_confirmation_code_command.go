package commands

import (
	"errors"

	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/pkg/guard"
)

var ErrGenerateConfirmationCodeCommandIsNotConstructed = errors.New(
	"GenerateConfirmationCodeCommand must be created via NewGenerateConfirmationCodeCommand constructor",
)

// GenerateConfirmationCodeCommand issues a fresh proof-of-delivery code.
// Regenerating before use invalidates the previous code.
type GenerateConfirmationCodeCommand struct { //nolint:recvcheck //using for validation
	deliveryID  kernel.UUID
	requesterID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGenerateConfirmationCodeCommand creates a command to generate a code.
func NewGenerateConfirmationCodeCommand(deliveryID, requesterID kernel.UUID) (GenerateConfirmationCodeCommand, error) {
	cmd := GenerateConfirmationCodeCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDeliveryID(deliveryID),
		cmd.setRequesterID(requesterID),
	); err != nil {
		return GenerateConfirmationCodeCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c GenerateConfirmationCodeCommand) Validate() error {
	return c.guard.Validate(ErrGenerateConfirmationCodeCommandIsNotConstructed)
}

func (c GenerateConfirmationCodeCommand) DeliveryID() kernel.UUID  { return c.deliveryID }
func (c GenerateConfirmationCodeCommand) RequesterID() kernel.UUID { return c.requesterID }

func (c *GenerateConfirmationCodeCommand) setDeliveryID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.deliveryID = id
	return nil
}

func (c *GenerateConfirmationCodeCommand) setRequesterID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.requesterID = id
	return nil
}
