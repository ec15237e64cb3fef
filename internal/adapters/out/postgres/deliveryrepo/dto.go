// Package deliveryrepo provides data transfer objects and mapping functions
// for delivery persistence: the aggregate row, its append-only checkpoint log
// and the position history.
package deliveryrepo

import (
	"time"

	"github.com/google/uuid"

	"crowdship/internal/core/domain/model/delivery"
	"crowdship/internal/core/domain/model/kernel"
)

// DeliveryDTO is the database row for a delivery aggregate. The unique index
// on announcement_id guarantees at most one delivery per announcement even if
// the accept transaction's status guard were ever bypassed.
type DeliveryDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	AnnouncementID uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	RequesterID    uuid.UUID `gorm:"type:uuid;index"`
	CourierID      uuid.UUID `gorm:"type:uuid;index"`
	Status         int       `gorm:"index"`

	TrackingCode string `gorm:"uniqueIndex"`
	PickupCode   string

	ConfirmationCode     string
	ConfirmationConsumed bool
	ConfirmationAttempts int

	DropoffLat *float64
	DropoffLng *float64

	Price PriceDTO `gorm:"embedded;embeddedPrefix:price_"`

	Current CurrentPositionDTO `gorm:"embedded;embeddedPrefix:current_"`

	PickedUpAt  *time.Time
	DeliveredAt *time.Time
	ConfirmedAt *time.Time

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName overrides GORM's default naming to use "deliveries".
func (DeliveryDTO) TableName() string {
	return "deliveries"
}

// PriceDTO is the embedded price breakdown agreed at acceptance.
type PriceDTO struct {
	Base         float64
	CourierShare float64
	PlatformFee  float64
}

// CurrentPositionDTO is the embedded current-location pointer. All fields
// are nullable: the pointer is empty until the first location update wins.
type CurrentPositionDTO struct {
	Lat        *float64
	Lng        *float64
	AccuracyM  *float64
	Heading    *float64
	SpeedKmh   *float64
	RecordedAt *time.Time
	Source     *int
}

// CheckpointDTO is one row of the append-only checkpoint log.
type CheckpointDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	DeliveryID   uuid.UUID `gorm:"type:uuid;index"`
	Type         int
	PlannedAt    *time.Time
	ActualAt     time.Time
	Lat          *float64
	Lng          *float64
	PhotoURL     string
	SignatureURL string
	Note         string
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

// TableName overrides GORM's default naming to use "delivery_checkpoints".
func (CheckpointDTO) TableName() string {
	return "delivery_checkpoints"
}

// PositionDTO is one row of the append-only position history. Every update
// lands here whether or not it won the current-location pointer.
type PositionDTO struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	DeliveryID uuid.UUID `gorm:"type:uuid;index"`
	Lat        float64
	Lng        float64
	AccuracyM  *float64
	Heading    *float64
	SpeedKmh   *float64
	RecordedAt time.Time `gorm:"index"`
	Source     int
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

// TableName overrides GORM's default naming to use "delivery_positions".
func (PositionDTO) TableName() string {
	return "delivery_positions"
}

func fromDomain(d *delivery.Delivery) DeliveryDTO {
	dto := DeliveryDTO{
		ID:             d.ID().Bytes(),
		AnnouncementID: d.AnnouncementID().Bytes(),
		RequesterID:    d.RequesterID().Bytes(),
		CourierID:      d.CourierID().Bytes(),
		Status:         int(d.Status()),

		TrackingCode: d.TrackingCode(),
		PickupCode:   d.PickupCode(),

		ConfirmationCode:     d.ConfirmationCode(),
		ConfirmationConsumed: d.ConfirmationConsumed(),
		ConfirmationAttempts: d.ConfirmationAttempts(),

		Price: PriceDTO{
			Base:         d.Price().Base(),
			CourierShare: d.Price().CourierShare(),
			PlatformFee:  d.Price().PlatformFee(),
		},

		PickedUpAt:  d.PickedUpAt(),
		DeliveredAt: d.DeliveredAt(),
		ConfirmedAt: d.ConfirmedAt(),
	}

	if point := d.DropoffPoint(); point != nil {
		lat, lng := point.Lat(), point.Lng()
		dto.DropoffLat = &lat
		dto.DropoffLng = &lng
	}

	if position := d.CurrentPosition(); position != nil {
		dto.Current = positionToCurrentDTO(*position)
	}

	return dto
}

func positionToCurrentDTO(position delivery.Position) CurrentPositionDTO {
	lat, lng := position.Point().Lat(), position.Point().Lng()
	recordedAt := position.RecordedAt()
	source := int(position.Source())

	return CurrentPositionDTO{
		Lat:        &lat,
		Lng:        &lng,
		AccuracyM:  position.AccuracyM(),
		Heading:    position.Heading(),
		SpeedKmh:   position.SpeedKmh(),
		RecordedAt: &recordedAt,
		Source:     &source,
	}
}

func checkpointFromDomain(deliveryID kernel.UUID, c delivery.Checkpoint) CheckpointDTO {
	dto := CheckpointDTO{
		ID:           c.ID().Bytes(),
		DeliveryID:   deliveryID.Bytes(),
		Type:         int(c.Type()),
		PlannedAt:    c.PlannedAt(),
		ActualAt:     c.ActualAt(),
		PhotoURL:     c.PhotoURL(),
		SignatureURL: c.SignatureURL(),
		Note:         c.Note(),
	}

	if point := c.Point(); point != nil {
		lat, lng := point.Lat(), point.Lng()
		dto.Lat = &lat
		dto.Lng = &lng
	}

	return dto
}

func positionFromDomain(deliveryID kernel.UUID, p delivery.Position) PositionDTO {
	return PositionDTO{
		DeliveryID: deliveryID.Bytes(),
		Lat:        p.Point().Lat(),
		Lng:        p.Point().Lng(),
		AccuracyM:  p.AccuracyM(),
		Heading:    p.Heading(),
		SpeedKmh:   p.SpeedKmh(),
		RecordedAt: p.RecordedAt(),
		Source:     int(p.Source()),
	}
}

func toDomain(dto DeliveryDTO, checkpointDTOs []CheckpointDTO) (*delivery.Delivery, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	announcementID, err := kernel.UUIDFromBytes(dto.AnnouncementID[:])
	if err != nil {
		return nil, err
	}
	requesterID, err := kernel.UUIDFromBytes(dto.RequesterID[:])
	if err != nil {
		return nil, err
	}
	courierID, err := kernel.UUIDFromBytes(dto.CourierID[:])
	if err != nil {
		return nil, err
	}

	var dropoffPoint *kernel.GeoPoint
	if dto.DropoffLat != nil && dto.DropoffLng != nil {
		point, pointErr := kernel.NewGeoPoint(*dto.DropoffLat, *dto.DropoffLng)
		if pointErr != nil {
			return nil, pointErr
		}
		dropoffPoint = &point
	}

	price, err := delivery.NewPriceBreakdown(dto.Price.Base, dto.Price.CourierShare, dto.Price.PlatformFee)
	if err != nil {
		return nil, err
	}

	currentPosition, err := currentPositionToDomain(dto.Current)
	if err != nil {
		return nil, err
	}

	checkpoints := make([]delivery.Checkpoint, 0, len(checkpointDTOs))
	for _, c := range checkpointDTOs {
		checkpoint, checkpointErr := checkpointToDomain(c)
		if checkpointErr != nil {
			return nil, checkpointErr
		}
		checkpoints = append(checkpoints, checkpoint)
	}

	return delivery.RestoreDelivery(
		id,
		announcementID,
		requesterID,
		courierID,
		delivery.Status(dto.Status),
		dto.TrackingCode,
		dto.PickupCode,
		dto.ConfirmationCode,
		dto.ConfirmationConsumed,
		dto.ConfirmationAttempts,
		dropoffPoint,
		price,
		currentPosition,
		checkpoints,
		dto.PickedUpAt,
		dto.DeliveredAt,
		dto.ConfirmedAt,
	)
}

func currentPositionToDomain(dto CurrentPositionDTO) (*delivery.Position, error) {
	if dto.Lat == nil || dto.Lng == nil || dto.RecordedAt == nil || dto.Source == nil {
		return nil, nil
	}

	point, err := kernel.NewGeoPoint(*dto.Lat, *dto.Lng)
	if err != nil {
		return nil, err
	}

	position, err := delivery.NewPosition(
		point, dto.AccuracyM, dto.Heading, dto.SpeedKmh,
		*dto.RecordedAt, delivery.Source(*dto.Source))
	if err != nil {
		return nil, err
	}

	return &position, nil
}

func checkpointToDomain(dto CheckpointDTO) (delivery.Checkpoint, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return delivery.Checkpoint{}, err
	}

	var point *kernel.GeoPoint
	if dto.Lat != nil && dto.Lng != nil {
		p, pointErr := kernel.NewGeoPoint(*dto.Lat, *dto.Lng)
		if pointErr != nil {
			return delivery.Checkpoint{}, pointErr
		}
		point = &p
	}

	return delivery.NewCheckpoint(
		id,
		delivery.CheckpointType(dto.Type),
		dto.PlannedAt,
		dto.ActualAt,
		point,
		dto.PhotoURL,
		dto.SignatureURL,
		dto.Note,
	)
}

func positionToDomain(dto PositionDTO) (delivery.Position, error) {
	point, err := kernel.NewGeoPoint(dto.Lat, dto.Lng)
	if err != nil {
		return delivery.Position{}, err
	}

	return delivery.NewPosition(
		point, dto.AccuracyM, dto.Heading, dto.SpeedKmh,
		dto.RecordedAt, delivery.Source(dto.Source))
}
