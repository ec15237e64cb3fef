package commands

import (
	"errors"
	"time"

	"crowdship/internal/core/domain/model/announcement"
	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/pkg/guard"
)

var ErrCreateAnnouncementCommandIsNotConstructed = errors.New(
	"CreateAnnouncementCommand must be created via NewCreateAnnouncementCommand constructor",
)

// CreateAnnouncementCommand represents a requester's request to post a new
// delivery announcement. Field validation beyond identity happens in the
// Announcement constructor, so domain rules live in exactly one place.
type CreateAnnouncementCommand struct { //nolint:recvcheck //using for validation
	announcementID kernel.UUID
	requesterID    kernel.UUID
	title          string
	description    string
	aType          announcement.Type
	priority       announcement.Priority
	pickup         announcement.Address
	dropoff        announcement.Address
	attrs          announcement.PhysicalAttributes
	pickupAt       *time.Time
	deliveryAt     *time.Time
	suggestedPrice float64
	negotiable     bool
	tags           []string

	guard guard.ConstructorGuard
}

// NewCreateAnnouncementCommand creates the command. The identifiers must be
// valid UUIDs; everything else is carried through to the aggregate
// constructor.
func NewCreateAnnouncementCommand(
	announcementID kernel.UUID,
	requesterID kernel.UUID,
	title string,
	description string,
	aType announcement.Type,
	priority announcement.Priority,
	pickup announcement.Address,
	dropoff announcement.Address,
	attrs announcement.PhysicalAttributes,
	pickupAt *time.Time,
	deliveryAt *time.Time,
	suggestedPrice float64,
	negotiable bool,
	tags []string,
) (CreateAnnouncementCommand, error) {
	cmd := CreateAnnouncementCommand{
		title:          title,
		description:    description,
		aType:          aType,
		priority:       priority,
		pickup:         pickup,
		dropoff:        dropoff,
		attrs:          attrs,
		pickupAt:       pickupAt,
		deliveryAt:     deliveryAt,
		suggestedPrice: suggestedPrice,
		negotiable:     negotiable,
		tags:           tags,
		guard:          guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setAnnouncementID(announcementID),
		cmd.setRequesterID(requesterID),
	); err != nil {
		return CreateAnnouncementCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateAnnouncementCommand) Validate() error {
	return c.guard.Validate(ErrCreateAnnouncementCommandIsNotConstructed)
}

func (c CreateAnnouncementCommand) AnnouncementID() kernel.UUID { return c.announcementID }
func (c CreateAnnouncementCommand) RequesterID() kernel.UUID    { return c.requesterID }
func (c CreateAnnouncementCommand) Title() string               { return c.title }
func (c CreateAnnouncementCommand) Description() string         { return c.description }
func (c CreateAnnouncementCommand) Type() announcement.Type     { return c.aType }
func (c CreateAnnouncementCommand) Priority() announcement.Priority { return c.priority }
func (c CreateAnnouncementCommand) Pickup() announcement.Address    { return c.pickup }
func (c CreateAnnouncementCommand) Dropoff() announcement.Address   { return c.dropoff }
func (c CreateAnnouncementCommand) Attributes() announcement.PhysicalAttributes { return c.attrs }
func (c CreateAnnouncementCommand) PickupAt() *time.Time        { return c.pickupAt }
func (c CreateAnnouncementCommand) DeliveryAt() *time.Time      { return c.deliveryAt }
func (c CreateAnnouncementCommand) SuggestedPrice() float64     { return c.suggestedPrice }
func (c CreateAnnouncementCommand) Negotiable() bool            { return c.negotiable }
func (c CreateAnnouncementCommand) Tags() []string              { return c.tags }

func (c *CreateAnnouncementCommand) setAnnouncementID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.announcementID = id
	return nil
}

func (c *CreateAnnouncementCommand) setRequesterID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.requesterID = id
	return nil
}
