package commands

import (
	"context"
	"time"

	"crowdship/internal/core/domain/model/announcement"
	"crowdship/internal/core/domain/model/delivery"
	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/core/domain/services"
	"crowdship/internal/core/ports"
	"crowdship/internal/pkg/errs"
)

// AcceptApplicationCommandHandler runs the acceptance workflow as one atomic
// unit: the winning application flips to ACCEPTED, every pending sibling is
// rejected, the announcement transitions to ASSIGNED with the courier bound,
// and exactly one delivery row is created. The announcement write is guarded
// on the PUBLISHED status, so of two concurrent accepts on the same
// announcement only the first commit wins; the second fails the guard and
// rolls back entirely. A unique index on the delivery's announcement id backs
// the guard up in storage.
type AcceptApplicationCommandHandler struct {
	uowFactory      MatchingUoWFactory
	priceCalculator services.PriceCalculator
	eventPublisher  ports.EventPublisher
	codeLength      int
}

// NewAcceptApplicationCommandHandler creates a handler for application
// acceptance.
func NewAcceptApplicationCommandHandler(
	uowFactory MatchingUoWFactory,
	priceCalculator services.PriceCalculator,
	eventPublisher ports.EventPublisher,
	codeLength int,
) AcceptApplicationCommandHandler {
	return AcceptApplicationCommandHandler{
		uowFactory:      uowFactory,
		priceCalculator: priceCalculator,
		eventPublisher:  eventPublisher,
		codeLength:      codeLength,
	}
}

// Handle executes the acceptance transaction and publishes status events
// after the commit.
func (h AcceptApplicationCommandHandler) Handle(ctx context.Context, command AcceptApplicationCommand) error {
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

	applicationRepo := uow.ApplicationRepository()
	announcementRepo := uow.AnnouncementRepository()

	app, err := applicationRepo.Get(ctx, command.ApplicationID())
	if err != nil {
		return err
	}

	a, err := announcementRepo.Get(ctx, app.AnnouncementID())
	if err != nil {
		return err
	}

	if !a.IsOwnedBy(command.RequesterID()) {
		return errs.NewForbiddenError(command.RequesterID().String(), "accept the application")
	}

	now := time.Now().UTC()

	if err := app.Accept(now); err != nil {
		return err
	}

	if err := applicationRepo.Update(ctx, app); err != nil {
		return err
	}

	if err := applicationRepo.RejectPendingSiblings(ctx, a.ID(), app.ID()); err != nil {
		return err
	}

	priorStatus := a.Status()

	if err := a.Assign(app.CourierID(), app.ProposedPrice()); err != nil {
		return err
	}

	// conditional write: fails when a concurrent accept moved the
	// announcement out of PUBLISHED first
	if err := announcementRepo.UpdateGuarded(ctx, a, priorStatus); err != nil {
		return err
	}

	d, err := h.newDelivery(a, app.CourierID(), now)
	if err != nil {
		return err
	}

	if err := uow.DeliveryRepository().Add(ctx, d); err != nil {
		return err
	}

	if err := uow.Commit(ctx); err != nil {
		return err
	}

	// best effort after commit; the publisher logs its own failures
	_ = h.eventPublisher.PublishAnnouncementStatusChanged(ctx, a)
	_ = h.eventPublisher.PublishDeliveryStatusChanged(ctx, d)

	return nil
}

func (h AcceptApplicationCommandHandler) newDelivery(
	a *announcement.Announcement,
	courierID kernel.UUID,
	now time.Time,
) (*delivery.Delivery, error) {
	price, err := h.priceCalculator.Calculate(*a.FinalPrice())
	if err != nil {
		return nil, err
	}

	return delivery.NewDelivery(
		kernel.NewUUID(),
		a.ID(),
		a.RequesterID(),
		courierID,
		delivery.NewTrackingCode(now),
		delivery.NewConfirmationCode(h.codeLength),
		a.Dropoff().Point(),
		price,
	)
}
