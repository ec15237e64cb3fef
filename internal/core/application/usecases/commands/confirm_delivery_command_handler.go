package commands

import (
	"context"
	"errors"
	"time"

	"crowdship/internal/core/domain/model/announcement"
	"crowdship/internal/core/domain/model/delivery"
	"crowdship/internal/core/ports"
)

// ConfirmDeliveryCommandHandler validates the proof-of-delivery code and
// closes the delivery. On success the owning announcement completes in the
// same transaction and the confirmed event triggers the external payment
// release.
type ConfirmDeliveryCommandHandler struct {
	uowFactory     LifecycleUoWFactory
	eventPublisher ports.EventPublisher
	maxAttempts    int
}

// NewConfirmDeliveryCommandHandler creates a handler for delivery
// confirmation.
func NewConfirmDeliveryCommandHandler(
	uowFactory LifecycleUoWFactory,
	eventPublisher ports.EventPublisher,
	maxAttempts int,
) ConfirmDeliveryCommandHandler {
	return ConfirmDeliveryCommandHandler{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		maxAttempts:    maxAttempts,
	}
}

// Handle validates the code against the delivery. A mismatch commits the
// incremented attempt counter before surfacing the error, so the lockout
// threshold holds across requests.
func (h ConfirmDeliveryCommandHandler) Handle(ctx context.Context, command ConfirmDeliveryCommand) error {
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

	deliveryRepo := uow.DeliveryRepository()

	d, err := deliveryRepo.Get(ctx, command.DeliveryID())
	if err != nil {
		return err
	}

	confirmErr := d.Confirm(command.RequesterID(), command.Code(), h.maxAttempts, time.Now().UTC())
	if errors.Is(confirmErr, delivery.ErrConfirmationMismatch) {
		// The counter rides on a single UPDATE instead of a whole-aggregate
		// write, so concurrent wrong codes never under-count the lockout.
		if err := deliveryRepo.IncrementConfirmationAttempts(ctx, d.ID()); err != nil {
			return err
		}
		if err := uow.Commit(ctx); err != nil {
			return err
		}
		return confirmErr
	}
	if confirmErr != nil {
		return confirmErr
	}

	if err := deliveryRepo.Update(ctx, d); err != nil {
		return err
	}

	a, err := h.completeAnnouncement(ctx, uow, d)
	if err != nil {
		return err
	}

	if err := uow.Commit(ctx); err != nil {
		return err
	}

	// best effort after commit; the publisher logs its own failures
	_ = h.eventPublisher.PublishDeliveryConfirmed(ctx, d)
	_ = h.eventPublisher.PublishAnnouncementStatusChanged(ctx, a)

	return nil
}

func (h ConfirmDeliveryCommandHandler) completeAnnouncement(
	ctx context.Context,
	uow LifecycleUoW,
	d *delivery.Delivery,
) (*announcement.Announcement, error) {
	repo := uow.AnnouncementRepository()

	a, err := repo.Get(ctx, d.AnnouncementID())
	if err != nil {
		return nil, err
	}

	if err := a.Complete(); err != nil {
		return nil, err
	}

	if err := repo.Update(ctx, a); err != nil {
		return nil, err
	}

	return a, nil
}
