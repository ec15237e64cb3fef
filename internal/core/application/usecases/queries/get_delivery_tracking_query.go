package queries

import (
	"errors"
	"time"

	"crowdship/internal/core/domain/model/delivery"
	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/pkg/errs"
	"crowdship/internal/pkg/guard"
)

var (
	ErrGetDeliveryTrackingQueryIsNotConstructed = errors.New(
		"GetDeliveryTrackingQuery must be created via NewGetDeliveryTrackingQuery constructor",
	)
)

// GetDeliveryTrackingQuery retrieves the tracking view of a delivery:
// its current location, the recorded path and the checkpoint log.
// The delivery is addressed either by id or by its public tracking code.
type GetDeliveryTrackingQuery struct {
	deliveryID   *kernel.UUID
	trackingCode string
	since        *time.Time

	guard guard.ConstructorGuard
}

// NewGetDeliveryTrackingQuery creates a tracking query. Exactly one of
// deliveryID and trackingCode must be set. A non-nil since trims the
// position history to updates recorded after that instant.
func NewGetDeliveryTrackingQuery(
	deliveryID *kernel.UUID,
	trackingCode string,
	since *time.Time,
) (GetDeliveryTrackingQuery, error) {
	if deliveryID == nil && trackingCode == "" {
		return GetDeliveryTrackingQuery{}, errs.NewValueIsRequiredError("deliveryID")
	}
	if deliveryID != nil {
		if trackingCode != "" {
			return GetDeliveryTrackingQuery{}, errs.NewValueIsInvalidError("trackingCode")
		}
		if err := deliveryID.Validate(); err != nil {
			return GetDeliveryTrackingQuery{}, err
		}
	}

	return GetDeliveryTrackingQuery{
		deliveryID:   deliveryID,
		trackingCode: trackingCode,
		since:        since,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (q GetDeliveryTrackingQuery) DeliveryID() *kernel.UUID { return q.deliveryID }
func (q GetDeliveryTrackingQuery) TrackingCode() string     { return q.trackingCode }
func (q GetDeliveryTrackingQuery) Since() *time.Time        { return q.since }

// Validate ensures the query was created through the constructor.
func (q GetDeliveryTrackingQuery) Validate() error {
	return q.guard.Validate(ErrGetDeliveryTrackingQueryIsNotConstructed)
}

// PositionView is one recorded location of the courier.
type PositionView struct {
	Point      kernel.GeoPoint
	AccuracyM  *float64
	Heading    *float64
	SpeedKmh   *float64
	RecordedAt time.Time
	Source     delivery.Source
}

// CheckpointView is one entry of the checkpoint log.
type CheckpointView struct {
	ID           kernel.UUID
	Type         delivery.CheckpointType
	PlannedAt    *time.Time
	ActualAt     time.Time
	Point        *kernel.GeoPoint
	PhotoURL     string
	SignatureURL string
	Note         string
}

// GetDeliveryTrackingQueryResponse is the tracking view of one delivery.
// Current may be nil before the first location update arrives.
type GetDeliveryTrackingQueryResponse struct {
	DeliveryID     kernel.UUID
	AnnouncementID kernel.UUID
	TrackingCode   string
	Status         delivery.Status
	Current        *PositionView
	Path           []PositionView
	Checkpoints    []CheckpointView
}
