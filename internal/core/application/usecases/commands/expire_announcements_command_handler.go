package commands

import (
	"context"

	"crowdship/internal/core/domain/model/announcement"
	"crowdship/internal/core/ports"
)

// ExpireAnnouncementsCommandHandler cancels announcements that outlived
// their publication window. Announcements that a concurrent accept moved to
// ASSIGNED between the read and the write are skipped by the status guard;
// committed accepts are never undone.
type ExpireAnnouncementsCommandHandler struct {
	uowFactory     AnnouncementUoWFactory
	eventPublisher ports.EventPublisher
}

// NewExpireAnnouncementsCommandHandler creates a handler for the expiry
// sweep.
func NewExpireAnnouncementsCommandHandler(
	uowFactory AnnouncementUoWFactory,
	eventPublisher ports.EventPublisher,
) ExpireAnnouncementsCommandHandler {
	return ExpireAnnouncementsCommandHandler{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
	}
}

// Handle cancels every PUBLISHED announcement older than the cutoff, each
// behind a conditional write so racing accepts win.
func (h ExpireAnnouncementsCommandHandler) Handle(ctx context.Context, command ExpireAnnouncementsCommand) error {
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

	stale, err := repo.GetPublishedBefore(ctx, command.Cutoff())
	if err != nil {
		return err
	}

	expired := make([]*announcement.Announcement, 0, len(stale))
	for _, a := range stale {
		priorStatus := a.Status()

		if err := a.Cancel(); err != nil {
			return err
		}

		if err := repo.UpdateGuarded(ctx, a, priorStatus); err != nil {
			// a concurrent accept assigned this announcement first
			continue
		}

		expired = append(expired, a)
	}

	if err := uow.Commit(ctx); err != nil {
		return err
	}

	// best effort after commit; the publisher logs its own failures
	for _, a := range expired {
		_ = h.eventPublisher.PublishAnnouncementStatusChanged(ctx, a)
	}

	return nil
}
