// Package ratingrepo provides data transfer objects and mapping functions
// for rating persistence. The composite unique index on (delivery_id,
// rater_id) enforces one rating per party per delivery.
package ratingrepo

import (
	"time"

	"github.com/google/uuid"

	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/core/domain/model/rating"
)

// RatingDTO is the database row for a rating.
type RatingDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	DeliveryID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_ratings_delivery_rater"`
	RaterID    uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_ratings_delivery_rater"`
	TargetID   uuid.UUID `gorm:"type:uuid;index"`
	Score      int
	Comment    string
	CreatedAt  time.Time
}

// TableName overrides GORM's default naming to use "ratings".
func (RatingDTO) TableName() string {
	return "ratings"
}

func fromDomain(r *rating.Rating) RatingDTO {
	return RatingDTO{
		ID:         r.ID().Bytes(),
		DeliveryID: r.DeliveryID().Bytes(),
		RaterID:    r.RaterID().Bytes(),
		TargetID:   r.TargetID().Bytes(),
		Score:      r.Score(),
		Comment:    r.Comment(),
		CreatedAt:  r.CreatedAt(),
	}
}

func toDomain(dto RatingDTO) (*rating.Rating, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	deliveryID, err := kernel.UUIDFromBytes(dto.DeliveryID[:])
	if err != nil {
		return nil, err
	}
	raterID, err := kernel.UUIDFromBytes(dto.RaterID[:])
	if err != nil {
		return nil, err
	}
	targetID, err := kernel.UUIDFromBytes(dto.TargetID[:])
	if err != nil {
		return nil, err
	}

	return rating.RestoreRating(
		id, deliveryID, raterID, targetID,
		dto.Score, dto.Comment, dto.CreatedAt,
	), nil
}
