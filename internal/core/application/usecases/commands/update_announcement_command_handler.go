package commands

import (
	"context"

	"crowdship/internal/pkg/errs"
)

// UpdateAnnouncementCommandHandler applies a partial edit to an announcement
// that has not been published yet.
type UpdateAnnouncementCommandHandler struct {
	uowFactory AnnouncementUoWFactory
}

// NewUpdateAnnouncementCommandHandler creates a handler for announcement
// edits.
func NewUpdateAnnouncementCommandHandler(uowFactory AnnouncementUoWFactory) UpdateAnnouncementCommandHandler {
	return UpdateAnnouncementCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle loads the announcement, checks ownership, applies the patch and
// commits. The aggregate rejects edits once the announcement left the
// modifiable statuses.
func (h UpdateAnnouncementCommandHandler) Handle(ctx context.Context, command UpdateAnnouncementCommand) error {
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

	repo := uow.AnnouncementRepository()

	a, err := repo.Get(ctx, command.AnnouncementID())
	if err != nil {
		return err
	}

	if !a.IsOwnedBy(command.RequesterID()) {
		return errs.NewForbiddenError(command.RequesterID().String(), "update the announcement")
	}

	if err := a.ApplyPatch(command.Patch()); err != nil {
		return err
	}

	if err := repo.Update(ctx, a); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
