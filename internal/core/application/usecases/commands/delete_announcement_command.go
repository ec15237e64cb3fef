package commands

import (
	"errors"

	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/pkg/guard"
)

var ErrDeleteAnnouncementCommandIsNotConstructed = errors.New(
	"DeleteAnnouncementCommand must be created via NewDeleteAnnouncementCommand constructor",
)

// DeleteAnnouncementCommand removes an announcement together with its
// pending applications. Admins may delete announcements they do not own.
type DeleteAnnouncementCommand struct { //nolint:recvcheck //using for validation
	announcementID kernel.UUID
	actorID        kernel.UUID
	isAdmin        bool

	guard guard.ConstructorGuard
}

// NewDeleteAnnouncementCommand creates a command to delete an announcement.
func NewDeleteAnnouncementCommand(announcementID, actorID kernel.UUID, isAdmin bool) (DeleteAnnouncementCommand, error) {
	cmd := DeleteAnnouncementCommand{
		isAdmin: isAdmin,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setAnnouncementID(announcementID),
		cmd.setActorID(actorID),
	); err != nil {
		return DeleteAnnouncementCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c DeleteAnnouncementCommand) Validate() error {
	return c.guard.Validate(ErrDeleteAnnouncementCommandIsNotConstructed)
}

func (c DeleteAnnouncementCommand) AnnouncementID() kernel.UUID { return c.announcementID }
func (c DeleteAnnouncementCommand) ActorID() kernel.UUID        { return c.actorID }
func (c DeleteAnnouncementCommand) IsAdmin() bool               { return c.isAdmin }

func (c *DeleteAnnouncementCommand) setAnnouncementID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.announcementID = id
	return nil
}

func (c *DeleteAnnouncementCommand) setActorID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.actorID = id
	return nil
}
