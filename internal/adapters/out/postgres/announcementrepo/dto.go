// Package announcementrepo provides data transfer objects and mapping
// functions for announcement persistence. It converts between the
// announcement domain aggregate and its relational representation.
package announcementrepo

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"crowdship/internal/core/domain/model/announcement"
	"crowdship/internal/core/domain/model/kernel"
)

// AnnouncementDTO is the database row for an announcement aggregate.
// ViewCount and ApplicationsCount are owned by single-statement SQL
// increments; mapping still reads them so restored aggregates carry the
// counters.
type AnnouncementDTO struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	RequesterID uuid.UUID  `gorm:"type:uuid;index"`
	DelivererID *uuid.UUID `gorm:"type:uuid;index"`
	Title       string
	Description string
	Type        int `gorm:"index"`
	Priority    int
	Status      int `gorm:"index"`

	Pickup     AddressDTO    `gorm:"embedded;embeddedPrefix:pickup_"`
	Dropoff    AddressDTO    `gorm:"embedded;embeddedPrefix:dropoff_"`
	Attributes AttributesDTO `gorm:"embedded"`

	PickupAt   *time.Time
	DeliveryAt *time.Time

	SuggestedPrice float64
	FinalPrice     *float64
	Negotiable     bool

	PublishedAt       *time.Time `gorm:"index"`
	ViewCount         int
	ApplicationsCount int

	Tags pq.StringArray `gorm:"type:text[]"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName overrides GORM's default naming to use "announcements".
func (AnnouncementDTO) TableName() string {
	return "announcements"
}

// AddressDTO is an embedded address with optional coordinates.
type AddressDTO struct {
	Line string
	Lat  *float64
	Lng  *float64
}

// AttributesDTO is the embedded physical description of the cargo.
type AttributesDTO struct {
	WeightKg     float64
	LengthCm     float64
	WidthCm      float64
	HeightCm     float64
	Fragile      bool
	NeedsCooling bool
}

func fromDomain(a *announcement.Announcement) AnnouncementDTO {
	var delivererID *uuid.UUID
	if id := a.DelivererID(); id != nil {
		raw := id.Bytes()
		delivererID = &raw
	}

	attrs := a.Attributes()

	return AnnouncementDTO{
		ID:          a.ID().Bytes(),
		RequesterID: a.RequesterID().Bytes(),
		DelivererID: delivererID,
		Title:       a.Title(),
		Description: a.Description(),
		Type:        int(a.Type()),
		Priority:    int(a.Priority()),
		Status:      int(a.Status()),
		Pickup:      addressToDTO(a.Pickup()),
		Dropoff:     addressToDTO(a.Dropoff()),
		Attributes: AttributesDTO{
			WeightKg:     attrs.WeightKg,
			LengthCm:     attrs.LengthCm,
			WidthCm:      attrs.WidthCm,
			HeightCm:     attrs.HeightCm,
			Fragile:      attrs.Fragile,
			NeedsCooling: attrs.NeedsCooling,
		},
		PickupAt:          a.PickupAt(),
		DeliveryAt:        a.DeliveryAt(),
		SuggestedPrice:    a.SuggestedPrice(),
		FinalPrice:        a.FinalPrice(),
		Negotiable:        a.Negotiable(),
		PublishedAt:       a.PublishedAt(),
		ViewCount:         a.ViewCount(),
		ApplicationsCount: a.ApplicationsCount(),
		Tags:              a.Tags(),
	}
}

func addressToDTO(addr announcement.Address) AddressDTO {
	dto := AddressDTO{Line: addr.Line()}
	if point := addr.Point(); point != nil {
		lat, lng := point.Lat(), point.Lng()
		dto.Lat = &lat
		dto.Lng = &lng
	}
	return dto
}

func toDomain(dto AnnouncementDTO) (*announcement.Announcement, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	requesterID, err := kernel.UUIDFromBytes(dto.RequesterID[:])
	if err != nil {
		return nil, err
	}

	var delivererID *kernel.UUID
	if dto.DelivererID != nil {
		dID, delivererErr := kernel.UUIDFromBytes((*dto.DelivererID)[:])
		if delivererErr != nil {
			return nil, delivererErr
		}
		delivererID = &dID
	}

	pickup, err := addressFromDTO(dto.Pickup)
	if err != nil {
		return nil, err
	}
	dropoff, err := addressFromDTO(dto.Dropoff)
	if err != nil {
		return nil, err
	}

	return announcement.RestoreAnnouncement(
		id,
		requesterID,
		delivererID,
		dto.Title,
		dto.Description,
		announcement.Type(dto.Type),
		announcement.Priority(dto.Priority),
		pickup,
		dropoff,
		announcement.PhysicalAttributes{
			WeightKg:     dto.Attributes.WeightKg,
			LengthCm:     dto.Attributes.LengthCm,
			WidthCm:      dto.Attributes.WidthCm,
			HeightCm:     dto.Attributes.HeightCm,
			Fragile:      dto.Attributes.Fragile,
			NeedsCooling: dto.Attributes.NeedsCooling,
		},
		dto.PickupAt,
		dto.DeliveryAt,
		dto.SuggestedPrice,
		dto.FinalPrice,
		dto.Negotiable,
		announcement.Status(dto.Status),
		dto.PublishedAt,
		dto.ViewCount,
		dto.ApplicationsCount,
		dto.Tags,
	)
}

func addressFromDTO(dto AddressDTO) (announcement.Address, error) {
	var point *kernel.GeoPoint
	if dto.Lat != nil && dto.Lng != nil {
		p, err := kernel.NewGeoPoint(*dto.Lat, *dto.Lng)
		if err != nil {
			return announcement.Address{}, err
		}
		point = &p
	}
	return announcement.NewAddress(dto.Line, point)
}
