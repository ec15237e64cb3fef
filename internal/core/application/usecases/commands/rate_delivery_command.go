package commands

import (
	"errors"

	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/core/domain/model/rating"
	"crowdship/internal/pkg/errs"
	"crowdship/internal/pkg/guard"
)

var ErrRateDeliveryCommandIsNotConstructed = errors.New(
	"RateDeliveryCommand must be created via NewRateDeliveryCommand constructor",
)

// RateDeliveryCommand records one party's score of the other after a
// confirmed delivery.
type RateDeliveryCommand struct { //nolint:recvcheck //using for validation
	ratingID   kernel.UUID
	deliveryID kernel.UUID
	raterID    kernel.UUID
	score      int
	comment    string

	guard guard.ConstructorGuard
}

// NewRateDeliveryCommand creates a command to rate a delivery. The target of
// the rating is derived from the delivery's parties, not supplied by the
// caller.
func NewRateDeliveryCommand(
	ratingID kernel.UUID,
	deliveryID kernel.UUID,
	raterID kernel.UUID,
	score int,
	comment string,
) (RateDeliveryCommand, error) {
	cmd := RateDeliveryCommand{
		comment: comment,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setRatingID(ratingID),
		cmd.setDeliveryID(deliveryID),
		cmd.setRaterID(raterID),
		cmd.setScore(score),
	); err != nil {
		return RateDeliveryCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RateDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrRateDeliveryCommandIsNotConstructed)
}

func (c RateDeliveryCommand) RatingID() kernel.UUID   { return c.ratingID }
func (c RateDeliveryCommand) DeliveryID() kernel.UUID { return c.deliveryID }
func (c RateDeliveryCommand) RaterID() kernel.UUID    { return c.raterID }
func (c RateDeliveryCommand) Score() int              { return c.score }
func (c RateDeliveryCommand) Comment() string         { return c.comment }

func (c *RateDeliveryCommand) setRatingID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.ratingID = id
	return nil
}

func (c *RateDeliveryCommand) setDeliveryID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.deliveryID = id
	return nil
}

func (c *RateDeliveryCommand) setRaterID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.raterID = id
	return nil
}

func (c *RateDeliveryCommand) setScore(score int) error {
	if score < rating.MinScore || score > rating.MaxScore {
		return errs.NewValueIsOutOfRangeError("score", score, rating.MinScore, rating.MaxScore)
	}
	c.score = score
	return nil
}
