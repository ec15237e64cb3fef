package commands

import (
	"errors"
	"fmt"

	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/pkg/errs"
	"crowdship/internal/pkg/guard"
)

var ErrApplyToAnnouncementCommandIsNotConstructed = errors.New(
	"ApplyToAnnouncementCommand must be created via NewApplyToAnnouncementCommand constructor",
)

// ApplyToAnnouncementCommand represents a courier's competitive bid on a
// published announcement.
type ApplyToAnnouncementCommand struct { //nolint:recvcheck //using for validation
	applicationID  kernel.UUID
	announcementID kernel.UUID
	courierID      kernel.UUID
	proposedPrice  float64
	message        string

	guard guard.ConstructorGuard
}

// NewApplyToAnnouncementCommand creates a command to apply to an
// announcement. The proposed price must be positive.
func NewApplyToAnnouncementCommand(
	applicationID kernel.UUID,
	announcementID kernel.UUID,
	courierID kernel.UUID,
	proposedPrice float64,
	message string,
) (ApplyToAnnouncementCommand, error) {
	cmd := ApplyToAnnouncementCommand{
		message: message,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setApplicationID(applicationID),
		cmd.setAnnouncementID(announcementID),
		cmd.setCourierID(courierID),
		cmd.setProposedPrice(proposedPrice),
	); err != nil {
		return ApplyToAnnouncementCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ApplyToAnnouncementCommand) Validate() error {
	return c.guard.Validate(ErrApplyToAnnouncementCommandIsNotConstructed)
}

func (c ApplyToAnnouncementCommand) ApplicationID() kernel.UUID  { return c.applicationID }
func (c ApplyToAnnouncementCommand) AnnouncementID() kernel.UUID { return c.announcementID }
func (c ApplyToAnnouncementCommand) CourierID() kernel.UUID      { return c.courierID }
func (c ApplyToAnnouncementCommand) ProposedPrice() float64      { return c.proposedPrice }
func (c ApplyToAnnouncementCommand) Message() string             { return c.message }

func (c *ApplyToAnnouncementCommand) setApplicationID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.applicationID = id
	return nil
}

func (c *ApplyToAnnouncementCommand) setAnnouncementID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.announcementID = id
	return nil
}

func (c *ApplyToAnnouncementCommand) setCourierID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.courierID = id
	return nil
}

func (c *ApplyToAnnouncementCommand) setProposedPrice(price float64) error {
	if price <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("proposedPrice",
			fmt.Errorf("%f is not greater than 0", price))
	}
	c.proposedPrice = price
	return nil
}
