package commands

import (
	"errors"
	"time"

	"crowdship/internal/core/domain/model/delivery"
	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/pkg/guard"
)

var ErrRecordLocationCommandIsNotConstructed = errors.New(
	"RecordLocationCommand must be created via NewRecordLocationCommand constructor",
)

// RecordLocationCommand ingests one location update for a delivery, from
// either the push stream or the fallback poll.
type RecordLocationCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID
	courierID  kernel.UUID
	position   delivery.Position

	guard guard.ConstructorGuard
}

// NewRecordLocationCommand creates a command to record a location update.
func NewRecordLocationCommand(
	deliveryID kernel.UUID,
	courierID kernel.UUID,
	point kernel.GeoPoint,
	accuracyM *float64,
	heading *float64,
	speedKmh *float64,
	recordedAt time.Time,
	source delivery.Source,
) (RecordLocationCommand, error) {
	position, err := delivery.NewPosition(point, accuracyM, heading, speedKmh, recordedAt, source)
	if err != nil {
		return RecordLocationCommand{}, err
	}

	cmd := RecordLocationCommand{
		position: position,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDeliveryID(deliveryID),
		cmd.setCourierID(courierID),
	); err != nil {
		return RecordLocationCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RecordLocationCommand) Validate() error {
	return c.guard.Validate(ErrRecordLocationCommandIsNotConstructed)
}

func (c RecordLocationCommand) DeliveryID() kernel.UUID      { return c.deliveryID }
func (c RecordLocationCommand) CourierID() kernel.UUID       { return c.courierID }
func (c RecordLocationCommand) Position() delivery.Position  { return c.position }

func (c *RecordLocationCommand) setDeliveryID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.deliveryID = id
	return nil
}

func (c *RecordLocationCommand) setCourierID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.courierID = id
	return nil
}
