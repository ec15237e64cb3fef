package commands

import (
	"context"
	"errors"

	"crowdship/internal/pkg/errs"
)

// ErrAnnouncementNotDeletable is returned when deletion is attempted while a
// delivery is underway (ASSIGNED or IN_PROGRESS).
var ErrAnnouncementNotDeletable = errors.New(
	"announcement cannot be deleted while a delivery is underway")

// DeleteAnnouncementCommandHandler removes an announcement and cascades the
// deletion of its pending applications in the same atomic unit.
type DeleteAnnouncementCommandHandler struct {
	uowFactory MatchingUoWFactory
}

// NewDeleteAnnouncementCommandHandler creates a handler for announcement
// deletion.
func NewDeleteAnnouncementCommandHandler(uowFactory MatchingUoWFactory) DeleteAnnouncementCommandHandler {
	return DeleteAnnouncementCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle checks ownership (or admin), the deletability rule, then removes
// pending applications and the announcement in one transaction.
func (h DeleteAnnouncementCommandHandler) Handle(ctx context.Context, command DeleteAnnouncementCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	announcementRepo := uow.AnnouncementRepository()

	a, err := announcementRepo.Get(ctx, command.AnnouncementID())
	if err != nil {
		return err
	}

	if !command.IsAdmin() && !a.IsOwnedBy(command.ActorID()) {
		return errs.NewForbiddenError(command.ActorID().String(), "delete the announcement")
	}

	if !a.IsDeletable() {
		return ErrAnnouncementNotDeletable
	}

	if err := uow.ApplicationRepository().DeletePending(ctx, a.ID()); err != nil {
		return err
	}

	if err := announcementRepo.Delete(ctx, a.ID()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
