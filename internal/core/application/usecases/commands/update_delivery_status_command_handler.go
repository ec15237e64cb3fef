package commands

import (
	"context"
	"time"

	"crowdship/internal/core/domain/model/announcement"
	"crowdship/internal/core/domain/model/delivery"
	"crowdship/internal/core/ports"
	"crowdship/internal/pkg/errs"
)

// UpdateDeliveryStatusCommandHandler applies a delivery transition and
// mirrors the relevant ones onto the owning announcement: pickup starts the
// announcement, cancellation and failure cancel it. Confirmation goes
// through ConfirmDeliveryCommandHandler instead.
type UpdateDeliveryStatusCommandHandler struct {
	uowFactory     LifecycleUoWFactory
	eventPublisher ports.EventPublisher
}

// NewUpdateDeliveryStatusCommandHandler creates a handler for delivery
// transitions.
func NewUpdateDeliveryStatusCommandHandler(
	uowFactory LifecycleUoWFactory,
	eventPublisher ports.EventPublisher,
) UpdateDeliveryStatusCommandHandler {
	return UpdateDeliveryStatusCommandHandler{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
	}
}

// Handle runs the requested transition inside one transaction and publishes
// the status events after the commit.
func (h UpdateDeliveryStatusCommandHandler) Handle(ctx context.Context, command UpdateDeliveryStatusCommand) error {
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

	now := time.Now().UTC()

	mirrored, err := h.applyTransition(d, command, now)
	if err != nil {
		return err
	}

	if err := deliveryRepo.Update(ctx, d); err != nil {
		return err
	}

	var a *announcement.Announcement
	if mirrored != announcement.Unknown {
		if a, err = h.mirrorOnAnnouncement(ctx, uow, d, mirrored, now); err != nil {
			return err
		}
	}

	if err := uow.Commit(ctx); err != nil {
		return err
	}

	// best effort after commit; the publisher logs its own failures
	_ = h.eventPublisher.PublishDeliveryStatusChanged(ctx, d)
	if a != nil {
		_ = h.eventPublisher.PublishAnnouncementStatusChanged(ctx, a)
	}

	return nil
}

// applyTransition dispatches to the aggregate operation behind the target
// status and returns the announcement status to mirror, or Unknown when the
// transition has no announcement side.
func (h UpdateDeliveryStatusCommandHandler) applyTransition(
	d *delivery.Delivery,
	command UpdateDeliveryStatusCommand,
	now time.Time,
) (announcement.Status, error) {
	switch command.Target() {
	case delivery.PickedUp:
		proof, err := h.optionalCheckpoint(command, now)
		if err != nil {
			return announcement.Unknown, err
		}
		if err := d.MarkPickedUp(command.ActorID(), command.PickupCode(), proof, now); err != nil {
			return announcement.Unknown, err
		}
		return announcement.InProgress, nil

	case delivery.InTransit:
		return announcement.Unknown, d.StartTransit(command.ActorID())

	case delivery.Delivered:
		if command.Checkpoint() == nil {
			return announcement.Unknown, delivery.ErrProofRequired
		}
		proof, err := command.Checkpoint().toCheckpoint(now)
		if err != nil {
			return announcement.Unknown, err
		}
		return announcement.Unknown, d.MarkDelivered(command.ActorID(), proof, now)

	case delivery.Cancelled:
		return announcement.Cancelled, d.Cancel(command.ActorID())

	case delivery.Failed:
		return announcement.Cancelled, d.Fail(command.ActorID())

	case delivery.Disputed:
		return announcement.Unknown, d.Dispute(command.ActorID())

	default:
		return announcement.Unknown, errs.NewInvalidStateTransitionError("delivery",
			d.Status().String(), command.Target().String())
	}
}

func (h UpdateDeliveryStatusCommandHandler) optionalCheckpoint(
	command UpdateDeliveryStatusCommand,
	now time.Time,
) (*delivery.Checkpoint, error) {
	if command.Checkpoint() == nil {
		return nil, nil
	}
	cp, err := command.Checkpoint().toCheckpoint(now)
	if err != nil {
		return nil, err
	}
	return &cp, nil
}

func (h UpdateDeliveryStatusCommandHandler) mirrorOnAnnouncement(
	ctx context.Context,
	uow LifecycleUoW,
	d *delivery.Delivery,
	target announcement.Status,
	_ time.Time,
) (*announcement.Announcement, error) {
	repo := uow.AnnouncementRepository()

	a, err := repo.Get(ctx, d.AnnouncementID())
	if err != nil {
		return nil, err
	}

	switch target {
	case announcement.InProgress:
		err = a.Start()
	case announcement.Cancelled:
		err = a.Cancel()
	}
	if err != nil {
		return nil, err
	}

	if err := repo.Update(ctx, a); err != nil {
		return nil, err
	}

	return a, nil
}
