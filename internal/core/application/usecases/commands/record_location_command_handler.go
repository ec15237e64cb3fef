package commands

import (
	"context"

	"crowdship/internal/core/ports"
	"crowdship/internal/pkg/errs"
)

// RecordLocationCommandHandler ingests a location update. The full history
// is appended regardless of ordering; the current-location pointer moves only
// when the update's timestamp is strictly newer than the stored one. The
// conditional update is scoped per delivery id, so concurrent writers for
// different deliveries never contend and concurrent writers for the same
// delivery resolve by timestamp. A stale or duplicate update is a silent
// no-op, not an error.
type RecordLocationCommandHandler struct {
	uowFactory DeliveryUoWFactory
	tracker    ports.LocationTracker
}

// NewRecordLocationCommandHandler creates a handler for location updates.
func NewRecordLocationCommandHandler(
	uowFactory DeliveryUoWFactory,
	tracker ports.LocationTracker,
) RecordLocationCommandHandler {
	return RecordLocationCommandHandler{
		uowFactory: uowFactory,
		tracker:    tracker,
	}
}

// Handle verifies the courier, appends the position to the history, applies
// the conditional current-location update and refreshes the fast-path
// tracker after the commit.
func (h RecordLocationCommandHandler) Handle(ctx context.Context, command RecordLocationCommand) error {
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

	repo := uow.DeliveryRepository()

	d, err := repo.Get(ctx, command.DeliveryID())
	if err != nil {
		return err
	}

	if !d.CourierID().IsEqual(command.CourierID()) {
		return errs.NewForbiddenError(command.CourierID().String(), "record a location for the delivery")
	}

	// terminal deliveries take no further location updates
	if d.Status().IsTerminal() {
		return errs.NewInvalidStateTransitionError("delivery",
			d.Status().String(), d.Status().String())
	}

	if err := repo.AppendPosition(ctx, d.ID(), command.Position()); err != nil {
		return err
	}

	if _, err := repo.UpdateCurrentLocation(ctx, d.ID(), command.Position()); err != nil {
		return err
	}

	if err := uow.Commit(ctx); err != nil {
		return err
	}

	// fast-path cache; the tracker applies the same newer-wins rule
	_, _ = h.tracker.Update(ctx, d.ID(), command.Position())

	return nil
}
