package commands

import (
	"context"
	"time"

	"crowdship/internal/core/domain/model/delivery"
	"crowdship/internal/core/domain/model/rating"
	"crowdship/internal/pkg/errs"
)

// RateDeliveryCommandHandler records a rating once a delivery is CONFIRMED.
// The (delivery, rater) uniqueness is enforced by storage; a second rating by
// the same party surfaces rating.ErrDuplicateRating.
type RateDeliveryCommandHandler struct {
	uowFactory RatingUoWFactory
}

// NewRateDeliveryCommandHandler creates a handler for delivery ratings.
func NewRateDeliveryCommandHandler(uowFactory RatingUoWFactory) RateDeliveryCommandHandler {
	return RateDeliveryCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle checks that the rater is a bound party of a CONFIRMED delivery,
// derives the rating target as the opposite party, and inserts the rating.
func (h RateDeliveryCommandHandler) Handle(ctx context.Context, command RateDeliveryCommand) error {
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

	d, err := uow.DeliveryRepository().Get(ctx, command.DeliveryID())
	if err != nil {
		return err
	}

	if !d.IsParty(command.RaterID()) {
		return errs.NewForbiddenError(command.RaterID().String(), "rate the delivery")
	}

	if d.Status() != delivery.Confirmed {
		return errs.NewInvalidStateTransitionError("delivery",
			d.Status().String(), delivery.Confirmed.String())
	}

	targetID := d.CourierID()
	if d.CourierID().IsEqual(command.RaterID()) {
		targetID = d.RequesterID()
	}

	r, err := rating.NewRating(
		command.RatingID(),
		command.DeliveryID(),
		command.RaterID(),
		targetID,
		command.Score(),
		command.Comment(),
		time.Now().UTC(),
	)
	if err != nil {
		return err
	}

	if err := uow.RatingRepository().Add(ctx, r); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
