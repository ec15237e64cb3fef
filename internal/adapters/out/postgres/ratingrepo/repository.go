package ratingrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/core/domain/model/rating"
)

// Postgres error code for unique constraint violations.
const uniqueViolationCode = "23505"

// GormRatingRepository implements ports.RatingRepository using GORM.
type GormRatingRepository struct {
	db *gorm.DB
}

// NewGormRatingRepository creates a new GORM rating repository.
func NewGormRatingRepository(db *gorm.DB) *GormRatingRepository {
	return &GormRatingRepository{db: db}
}

// Add saves a new rating. A violation of the (delivery_id, rater_id) unique
// index maps to rating.ErrDuplicateRating.
func (r *GormRatingRepository) Add(ctx context.Context, aggregate *rating.Rating) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return rating.ErrDuplicateRating
		}
		return err
	}

	return nil
}

// GetByDelivery returns all ratings recorded for a delivery.
func (r *GormRatingRepository) GetByDelivery(
	ctx context.Context,
	deliveryID kernel.UUID,
) ([]*rating.Rating, error) {
	if err := deliveryID.Validate(); err != nil {
		return nil, err
	}

	var dtos []RatingDTO
	err := r.db.WithContext(ctx).
		Where("delivery_id = ?", deliveryID.Bytes()).
		Order("created_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	ratings := make([]*rating.Rating, 0, len(dtos))
	for _, dto := range dtos {
		rt, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		ratings = append(ratings, rt)
	}

	return ratings, nil
}
