package rating

import (
	"errors"
	"time"

	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/pkg/errs"
	"crowdship/internal/pkg/guard"
)

const (
	MinScore = 1
	MaxScore = 5
)

var (
	// ErrRatingIsNotConstructed is returned when a Rating was not created
	// through NewRating or RestoreRating.
	ErrRatingIsNotConstructed = errors.New(
		"Rating must be created via NewRating or RestoreRating")

	// ErrDuplicateRating is returned when a rater rates the same delivery
	// twice. Storage enforces this with a unique index and maps the
	// constraint violation to this error.
	ErrDuplicateRating = errors.New("rater has already rated this delivery")

	// ErrSelfRating is returned when the rater and the target are the same
	// party.
	ErrSelfRating = errors.New("rater cannot rate themselves")
)

// Rating is one party's score of the other after a confirmed delivery.
// Immutable once created.
type Rating struct {
	id         kernel.UUID
	deliveryID kernel.UUID
	raterID    kernel.UUID
	targetID   kernel.UUID
	score      int
	comment    string
	createdAt  time.Time

	guard guard.ConstructorGuard
}

// NewRating validates the score range and that the rater is not rating
// themselves. Eligibility (delivery CONFIRMED, rater is a bound party) is
// checked by the command handler against the delivery.
func NewRating(
	id kernel.UUID,
	deliveryID kernel.UUID,
	raterID kernel.UUID,
	targetID kernel.UUID,
	score int,
	comment string,
	createdAt time.Time,
) (*Rating, error) {
	r := &Rating{
		comment:   comment,
		createdAt: createdAt,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		r.setID(id),
		r.setDeliveryID(deliveryID),
		r.setParties(raterID, targetID),
		r.setScore(score),
	); err != nil {
		return nil, err
	}

	return r, nil
}

// RestoreRating reconstructs a rating from persistence.
func RestoreRating(
	id kernel.UUID,
	deliveryID kernel.UUID,
	raterID kernel.UUID,
	targetID kernel.UUID,
	score int,
	comment string,
	createdAt time.Time,
) *Rating {
	return &Rating{
		id:         id,
		deliveryID: deliveryID,
		raterID:    raterID,
		targetID:   targetID,
		score:      score,
		comment:    comment,
		createdAt:  createdAt,
		guard:      guard.NewConstructorGuard(),
	}
}

// Validate ensures the entity was built via a constructor.
func (r *Rating) Validate() error {
	if r == nil {
		return ErrRatingIsNotConstructed
	}
	return r.guard.Validate(ErrRatingIsNotConstructed)
}

func (r *Rating) ID() kernel.UUID         { return r.id }
func (r *Rating) DeliveryID() kernel.UUID { return r.deliveryID }
func (r *Rating) RaterID() kernel.UUID    { return r.raterID }
func (r *Rating) TargetID() kernel.UUID   { return r.targetID }
func (r *Rating) Score() int              { return r.score }
func (r *Rating) Comment() string         { return r.comment }
func (r *Rating) CreatedAt() time.Time    { return r.createdAt }

// IsEqual compares ratings by identifier.
func (r *Rating) IsEqual(other *Rating) bool {
	return other != nil && r.id.IsEqual(other.id)
}

func (r *Rating) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	r.id = id
	return nil
}

func (r *Rating) setDeliveryID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("deliveryId", err)
	}
	r.deliveryID = id
	return nil
}

func (r *Rating) setParties(raterID, targetID kernel.UUID) error {
	if err := raterID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("raterId", err)
	}
	if err := targetID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("targetId", err)
	}
	if raterID.IsEqual(targetID) {
		return ErrSelfRating
	}
	r.raterID = raterID
	r.targetID = targetID
	return nil
}

func (r *Rating) setScore(score int) error {
	if score < MinScore || score > MaxScore {
		return errs.NewValueIsOutOfRangeError("score", score, MinScore, MaxScore)
	}
	r.score = score
	return nil
}
