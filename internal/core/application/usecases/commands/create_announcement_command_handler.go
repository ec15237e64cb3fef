package commands

import (
	"context"

	"crowdship/internal/core/domain/model/announcement"
)

// CreateAnnouncementCommandHandler persists a new announcement in PENDING
// status with both counters at zero.
type CreateAnnouncementCommandHandler struct {
	uowFactory AnnouncementUoWFactory
}

// NewCreateAnnouncementCommandHandler creates a handler for announcement
// creation.
func NewCreateAnnouncementCommandHandler(uowFactory AnnouncementUoWFactory) CreateAnnouncementCommandHandler {
	return CreateAnnouncementCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle builds the aggregate and persists it in a single transaction.
func (h CreateAnnouncementCommandHandler) Handle(ctx context.Context, command CreateAnnouncementCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	a, err := announcement.NewAnnouncement(
		command.AnnouncementID(),
		command.RequesterID(),
		command.Title(),
		command.Description(),
		command.Type(),
		command.Priority(),
		command.Pickup(),
		command.Dropoff(),
		command.Attributes(),
		command.PickupAt(),
		command.DeliveryAt(),
		command.SuggestedPrice(),
		command.Negotiable(),
		command.Tags(),
	)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.AnnouncementRepository().Add(ctx, a); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
