package commands

import (
	"context"
	"time"

	"crowdship/internal/core/ports"
	"crowdship/internal/pkg/errs"
)

// PublishAnnouncementCommandHandler transitions an announcement from
// DRAFT or PENDING to PUBLISHED. Only the owning requester may publish.
type PublishAnnouncementCommandHandler struct {
	uowFactory     AnnouncementUoWFactory
	eventPublisher ports.EventPublisher
}

// NewPublishAnnouncementCommandHandler creates a handler for publishing.
func NewPublishAnnouncementCommandHandler(
	uowFactory AnnouncementUoWFactory,
	eventPublisher ports.EventPublisher,
) PublishAnnouncementCommandHandler {
	return PublishAnnouncementCommandHandler{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
	}
}

// Handle loads the announcement, checks ownership, applies the transition
// and commits. The status-change event is published after the commit.
func (h PublishAnnouncementCommandHandler) Handle(ctx context.Context, command PublishAnnouncementCommand) error {
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
		return errs.NewForbiddenError(command.RequesterID().String(), "publish the announcement")
	}

	if err := a.Publish(time.Now().UTC()); err != nil {
		return err
	}

	if err := repo.Update(ctx, a); err != nil {
		return err
	}

	if err := uow.Commit(ctx); err != nil {
		return err
	}

	// best effort after commit; the publisher logs its own failures
	_ = h.eventPublisher.PublishAnnouncementStatusChanged(ctx, a)

	return nil
}
