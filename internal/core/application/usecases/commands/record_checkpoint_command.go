package commands

import (
	"errors"

	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/pkg/guard"
)

var ErrRecordCheckpointCommandIsNotConstructed = errors.New(
	"RecordCheckpointCommand must be created via NewRecordCheckpointCommand constructor",
)

// RecordCheckpointCommand appends a waypoint event to a delivery's history.
type RecordCheckpointCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID
	courierID  kernel.UUID
	checkpoint CheckpointInput

	guard guard.ConstructorGuard
}

// NewRecordCheckpointCommand creates a command to record a checkpoint.
func NewRecordCheckpointCommand(
	deliveryID kernel.UUID,
	courierID kernel.UUID,
	checkpoint CheckpointInput,
) (RecordCheckpointCommand, error) {
	cmd := RecordCheckpointCommand{
		checkpoint: checkpoint,
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDeliveryID(deliveryID),
		cmd.setCourierID(courierID),
		checkpoint.Type.Validate(),
	); err != nil {
		return RecordCheckpointCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RecordCheckpointCommand) Validate() error {
	return c.guard.Validate(ErrRecordCheckpointCommandIsNotConstructed)
}

func (c RecordCheckpointCommand) DeliveryID() kernel.UUID      { return c.deliveryID }
func (c RecordCheckpointCommand) CourierID() kernel.UUID       { return c.courierID }
func (c RecordCheckpointCommand) Checkpoint() CheckpointInput  { return c.checkpoint }

func (c *RecordCheckpointCommand) setDeliveryID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.deliveryID = id
	return nil
}

func (c *RecordCheckpointCommand) setCourierID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.courierID = id
	return nil
}
