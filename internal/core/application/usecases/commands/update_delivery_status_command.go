package commands

import (
	"errors"

	"crowdship/internal/core/domain/model/delivery"
	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/pkg/guard"
)

var ErrUpdateDeliveryStatusCommandIsNotConstructed = errors.New(
	"UpdateDeliveryStatusCommand must be created via NewUpdateDeliveryStatusCommand constructor",
)

// UpdateDeliveryStatusCommand moves a delivery along its state machine. The
// pickup code is consulted only for the PICKED_UP edge; the checkpoint is
// consulted for PICKED_UP (as alternative proof) and required for DELIVERED.
type UpdateDeliveryStatusCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID
	actorID    kernel.UUID
	target     delivery.Status
	pickupCode string
	checkpoint *CheckpointInput

	guard guard.ConstructorGuard
}

// NewUpdateDeliveryStatusCommand creates a command to transition a delivery.
func NewUpdateDeliveryStatusCommand(
	deliveryID kernel.UUID,
	actorID kernel.UUID,
	target delivery.Status,
	pickupCode string,
	checkpoint *CheckpointInput,
) (UpdateDeliveryStatusCommand, error) {
	cmd := UpdateDeliveryStatusCommand{
		pickupCode: pickupCode,
		checkpoint: checkpoint,
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDeliveryID(deliveryID),
		cmd.setActorID(actorID),
		cmd.setTarget(target),
	); err != nil {
		return UpdateDeliveryStatusCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateDeliveryStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateDeliveryStatusCommandIsNotConstructed)
}

func (c UpdateDeliveryStatusCommand) DeliveryID() kernel.UUID     { return c.deliveryID }
func (c UpdateDeliveryStatusCommand) ActorID() kernel.UUID        { return c.actorID }
func (c UpdateDeliveryStatusCommand) Target() delivery.Status     { return c.target }
func (c UpdateDeliveryStatusCommand) PickupCode() string          { return c.pickupCode }
func (c UpdateDeliveryStatusCommand) Checkpoint() *CheckpointInput { return c.checkpoint }

func (c *UpdateDeliveryStatusCommand) setDeliveryID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.deliveryID = id
	return nil
}

func (c *UpdateDeliveryStatusCommand) setActorID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.actorID = id
	return nil
}

func (c *UpdateDeliveryStatusCommand) setTarget(target delivery.Status) error {
	if err := target.Validate(); err != nil {
		return err
	}
	c.target = target
	return nil
}
