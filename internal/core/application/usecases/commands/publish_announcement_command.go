package commands

import (
	"errors"

	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/pkg/guard"
)

var ErrPublishAnnouncementCommandIsNotConstructed = errors.New(
	"PublishAnnouncementCommand must be created via NewPublishAnnouncementCommand constructor",
)

// PublishAnnouncementCommand opens an announcement for courier applications.
type PublishAnnouncementCommand struct { //nolint:recvcheck //using for validation
	announcementID kernel.UUID
	requesterID    kernel.UUID

	guard guard.ConstructorGuard
}

// NewPublishAnnouncementCommand creates a command to publish an announcement.
func NewPublishAnnouncementCommand(announcementID, requesterID kernel.UUID) (PublishAnnouncementCommand, error) {
	cmd := PublishAnnouncementCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setAnnouncementID(announcementID),
		cmd.setRequesterID(requesterID),
	); err != nil {
		return PublishAnnouncementCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c PublishAnnouncementCommand) Validate() error {
	return c.guard.Validate(ErrPublishAnnouncementCommandIsNotConstructed)
}

func (c PublishAnnouncementCommand) AnnouncementID() kernel.UUID { return c.announcementID }
func (c PublishAnnouncementCommand) RequesterID() kernel.UUID    { return c.requesterID }

func (c *PublishAnnouncementCommand) setAnnouncementID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.announcementID = id
	return nil
}

func (c *PublishAnnouncementCommand) setRequesterID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.requesterID = id
	return nil
}
