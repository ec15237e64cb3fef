// Package applicationrepo provides data transfer objects and mapping
// functions for courier application persistence. The composite unique index
// on (announcement_id, courier_id) closes the race between two concurrent
// identical submissions at the database level.
package applicationrepo

import (
	"time"

	"github.com/google/uuid"

	"crowdship/internal/core/domain/model/application"
	"crowdship/internal/core/domain/model/kernel"
)

// ApplicationDTO is the database row for a courier application.
type ApplicationDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	AnnouncementID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_applications_announcement_courier"`
	CourierID      uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_applications_announcement_courier"`
	ProposedPrice  float64
	Message        string
	Status         int `gorm:"index"`
	DecidedAt      *time.Time
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

// TableName overrides GORM's default naming to use "applications".
func (ApplicationDTO) TableName() string {
	return "applications"
}

func fromDomain(a *application.Application) ApplicationDTO {
	return ApplicationDTO{
		ID:             a.ID().Bytes(),
		AnnouncementID: a.AnnouncementID().Bytes(),
		CourierID:      a.CourierID().Bytes(),
		ProposedPrice:  a.ProposedPrice(),
		Message:        a.Message(),
		Status:         int(a.Status()),
		DecidedAt:      a.DecidedAt(),
	}
}

func toDomain(dto ApplicationDTO) (*application.Application, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	announcementID, err := kernel.UUIDFromBytes(dto.AnnouncementID[:])
	if err != nil {
		return nil, err
	}
	courierID, err := kernel.UUIDFromBytes(dto.CourierID[:])
	if err != nil {
		return nil, err
	}

	return application.RestoreApplication(
		id,
		announcementID,
		courierID,
		dto.ProposedPrice,
		dto.Message,
		application.Status(dto.Status),
		dto.DecidedAt,
	)
}
