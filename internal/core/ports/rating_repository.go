package ports

import (
	"context"

	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/core/domain/model/rating"
)

// RatingRepository defines the persistence contract for delivery ratings.
type RatingRepository interface {
	// Add persists a new rating. The storage layer enforces the unique
	// (deliveryId, raterId) pair and returns rating.ErrDuplicateRating on a
	// constraint violation.
	Add(ctx context.Context, r *rating.Rating) error

	// GetByDelivery returns all ratings recorded for a delivery.
	GetByDelivery(ctx context.Context, deliveryID kernel.UUID) ([]*rating.Rating, error)
}
