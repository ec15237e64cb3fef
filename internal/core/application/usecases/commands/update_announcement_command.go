package commands

import (
	"errors"

	"crowdship/internal/core/domain/model/announcement"
	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/pkg/guard"
)

var ErrUpdateAnnouncementCommandIsNotConstructed = errors.New(
	"UpdateAnnouncementCommand must be created via NewUpdateAnnouncementCommand constructor",
)

// UpdateAnnouncementCommand carries a partial edit of an announcement.
// Allowed only while the announcement is still DRAFT or PENDING.
type UpdateAnnouncementCommand struct { //nolint:recvcheck //using for validation
	announcementID kernel.UUID
	requesterID    kernel.UUID
	patch          announcement.UpdatePatch

	guard guard.ConstructorGuard
}

// NewUpdateAnnouncementCommand creates a command to edit an announcement.
func NewUpdateAnnouncementCommand(
	announcementID kernel.UUID,
	requesterID kernel.UUID,
	patch announcement.UpdatePatch,
) (UpdateAnnouncementCommand, error) {
	cmd := UpdateAnnouncementCommand{
		patch: patch,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setAnnouncementID(announcementID),
		cmd.setRequesterID(requesterID),
	); err != nil {
		return UpdateAnnouncementCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateAnnouncementCommand) Validate() error {
	return c.guard.Validate(ErrUpdateAnnouncementCommandIsNotConstructed)
}

func (c UpdateAnnouncementCommand) AnnouncementID() kernel.UUID       { return c.announcementID }
func (c UpdateAnnouncementCommand) RequesterID() kernel.UUID          { return c.requesterID }
func (c UpdateAnnouncementCommand) Patch() announcement.UpdatePatch   { return c.patch }

func (c *UpdateAnnouncementCommand) setAnnouncementID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.announcementID = id
	return nil
}

func (c *UpdateAnnouncementCommand) setRequesterID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.requesterID = id
	return nil
}
