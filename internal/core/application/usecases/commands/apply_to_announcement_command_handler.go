package commands

import (
	"context"
	"errors"

	"crowdship/internal/core/domain/model/application"
	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/core/ports"
	"crowdship/internal/pkg/errs"
)

// ErrAnnouncementNotOpen is returned when the announcement is no longer
// accepting applications.
var ErrAnnouncementNotOpen = errors.New("announcement is not open for applications")

// ErrTooManyActiveDeliveries is returned when the courier already carries the
// configured maximum of concurrent deliveries.
var ErrTooManyActiveDeliveries = errors.New("courier has too many active deliveries")

// ApplyToAnnouncementCommandHandler records a courier's bid. The duplicate
// check and the insert are a single statement in storage, so two concurrent
// identical submissions cannot both succeed; the loser surfaces
// application.ErrDuplicateApplication. The applications counter is
// incremented in the same transaction.
type ApplyToAnnouncementCommandHandler struct {
	uowFactory          MatchingUoWFactory
	courierGateway      ports.CourierGateway
	maxActiveDeliveries int
}

// NewApplyToAnnouncementCommandHandler creates a handler for courier
// applications.
func NewApplyToAnnouncementCommandHandler(
	uowFactory MatchingUoWFactory,
	courierGateway ports.CourierGateway,
	maxActiveDeliveries int,
) ApplyToAnnouncementCommandHandler {
	return ApplyToAnnouncementCommandHandler{
		uowFactory:          uowFactory,
		courierGateway:      courierGateway,
		maxActiveDeliveries: maxActiveDeliveries,
	}
}

// Handle verifies courier eligibility, the announcement's openness and the
// courier's workload cap, then inserts the application and bumps the counter
// atomically.
func (h ApplyToAnnouncementCommandHandler) Handle(ctx context.Context, command ApplyToAnnouncementCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	if err := h.courierGateway.VerifyEligibility(ctx, command.CourierID()); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	a, err := uow.AnnouncementRepository().Get(ctx, command.AnnouncementID())
	if err != nil {
		return err
	}

	if !a.Status().IsOpenForApplications() {
		return ErrAnnouncementNotOpen
	}

	if a.IsOwnedBy(command.CourierID()) {
		return application.ErrOwnAnnouncement
	}

	if err := h.checkWorkload(ctx, uow, command.CourierID()); err != nil {
		return err
	}

	app, err := application.NewApplication(
		command.ApplicationID(),
		command.AnnouncementID(),
		command.CourierID(),
		command.ProposedPrice(),
		command.Message(),
	)
	if err != nil {
		return err
	}

	if err := uow.ApplicationRepository().Add(ctx, app); err != nil {
		return err
	}

	if err := uow.AnnouncementRepository().IncrementApplicationsCount(ctx, a.ID()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func (h ApplyToAnnouncementCommandHandler) checkWorkload(ctx context.Context, uow MatchingUoW, courierID kernel.UUID) error {
	if h.maxActiveDeliveries <= 0 {
		return nil
	}

	active, err := uow.DeliveryRepository().CountActiveByCourier(ctx, courierID)
	if err != nil {
		return err
	}
	if active >= h.maxActiveDeliveries {
		return errs.NewForbiddenErrorWithCause(courierID.String(), "apply to the announcement",
			ErrTooManyActiveDeliveries)
	}
	return nil
}
