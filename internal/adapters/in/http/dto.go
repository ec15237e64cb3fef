package http

import (
	"time"

	"github.com/samber/lo"

	"crowdship/internal/core/application/usecases/commands"
	"crowdship/internal/core/application/usecases/queries"
	"crowdship/internal/core/domain/model/announcement"
	"crowdship/internal/core/domain/model/delivery"
	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/pkg/errs"
)

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// CreatedResponse returns the server-generated identifier of a new resource.
type CreatedResponse struct {
	ID string `json:"id"`
}

// GeoPointDTO is a lat/lng pair on the wire.
type GeoPointDTO struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func geoPointFromDTO(dto *GeoPointDTO) (*kernel.GeoPoint, error) {
	if dto == nil {
		return nil, nil
	}
	point, err := kernel.NewGeoPoint(dto.Lat, dto.Lng)
	if err != nil {
		return nil, err
	}
	return &point, nil
}

func geoPointToDTO(point *kernel.GeoPoint) *GeoPointDTO {
	if point == nil {
		return nil
	}
	return &GeoPointDTO{Lat: point.Lat(), Lng: point.Lng()}
}

// AddressDTO is a free-text address with optional coordinates.
type AddressDTO struct {
	Line  string       `json:"line"`
	Point *GeoPointDTO `json:"point,omitempty"`
}

func addressFromDTO(dto AddressDTO) (announcement.Address, error) {
	point, err := geoPointFromDTO(dto.Point)
	if err != nil {
		return announcement.Address{}, err
	}
	return announcement.NewAddress(dto.Line, point)
}

// AttributesDTO is the physical description of the cargo.
type AttributesDTO struct {
	WeightKg     float64 `json:"weight_kg,omitempty"`
	LengthCm     float64 `json:"length_cm,omitempty"`
	WidthCm      float64 `json:"width_cm,omitempty"`
	HeightCm     float64 `json:"height_cm,omitempty"`
	Fragile      bool    `json:"fragile,omitempty"`
	NeedsCooling bool    `json:"needs_cooling,omitempty"`
}

func attributesFromDTO(dto AttributesDTO) announcement.PhysicalAttributes {
	return announcement.PhysicalAttributes{
		WeightKg:     dto.WeightKg,
		LengthCm:     dto.LengthCm,
		WidthCm:      dto.WidthCm,
		HeightCm:     dto.HeightCm,
		Fragile:      dto.Fragile,
		NeedsCooling: dto.NeedsCooling,
	}
}

// CreateAnnouncementRequest is the body of POST /announcements.
type CreateAnnouncementRequest struct {
	Title          string        `json:"title"`
	Description    string        `json:"description,omitempty"`
	Type           string        `json:"type"`
	Priority       string        `json:"priority"`
	Pickup         AddressDTO    `json:"pickup"`
	Dropoff        AddressDTO    `json:"dropoff"`
	Attributes     AttributesDTO `json:"attributes,omitempty"`
	PickupAt       *time.Time    `json:"pickup_at,omitempty"`
	DeliveryAt     *time.Time    `json:"delivery_at,omitempty"`
	SuggestedPrice float64       `json:"suggested_price"`
	Negotiable     bool          `json:"negotiable,omitempty"`
	Tags           []string      `json:"tags,omitempty"`
}

// UpdateAnnouncementRequest is the body of PATCH /announcements/:id.
// Absent fields stay untouched.
type UpdateAnnouncementRequest struct {
	Title          *string    `json:"title,omitempty"`
	Description    *string    `json:"description,omitempty"`
	Priority       *string    `json:"priority,omitempty"`
	SuggestedPrice *float64   `json:"suggested_price,omitempty"`
	PickupAt       *time.Time `json:"pickup_at,omitempty"`
	DeliveryAt     *time.Time `json:"delivery_at,omitempty"`
	Tags           []string   `json:"tags,omitempty"`
}

func (r UpdateAnnouncementRequest) toPatch() (announcement.UpdatePatch, error) {
	patch := announcement.UpdatePatch{
		Title:          r.Title,
		Description:    r.Description,
		SuggestedPrice: r.SuggestedPrice,
		PickupAt:       r.PickupAt,
		DeliveryAt:     r.DeliveryAt,
		Tags:           r.Tags,
	}

	if r.Priority != nil {
		priority, err := announcement.PriorityFromString(*r.Priority)
		if err != nil {
			return announcement.UpdatePatch{}, err
		}
		patch.Priority = &priority
	}

	return patch, nil
}

// ApplyRequest is the body of POST /announcements/:id/applications.
type ApplyRequest struct {
	ProposedPrice float64 `json:"proposed_price"`
	Message       string  `json:"message,omitempty"`
}

// UpdateDeliveryStatusRequest is the body of POST /deliveries/:id/status.
type UpdateDeliveryStatusRequest struct {
	Status     string         `json:"status"`
	PickupCode string         `json:"pickup_code,omitempty"`
	Checkpoint *CheckpointDTO `json:"checkpoint,omitempty"`
}

// CheckpointDTO is a checkpoint on the wire.
type CheckpointDTO struct {
	Type         string       `json:"type"`
	PlannedAt    *time.Time   `json:"planned_at,omitempty"`
	Point        *GeoPointDTO `json:"point,omitempty"`
	PhotoURL     string       `json:"photo_url,omitempty"`
	SignatureURL string       `json:"signature_url,omitempty"`
	Note         string       `json:"note,omitempty"`
}

func checkpointInputFromDTO(dto CheckpointDTO) (commands.CheckpointInput, error) {
	cType, err := delivery.CheckpointTypeFromString(dto.Type)
	if err != nil {
		return commands.CheckpointInput{}, err
	}

	point, err := geoPointFromDTO(dto.Point)
	if err != nil {
		return commands.CheckpointInput{}, err
	}

	return commands.CheckpointInput{
		Type:         cType,
		PlannedAt:    dto.PlannedAt,
		Point:        point,
		PhotoURL:     dto.PhotoURL,
		SignatureURL: dto.SignatureURL,
		Note:         dto.Note,
	}, nil
}

// RecordLocationRequest is the body of POST /deliveries/:id/locations.
type RecordLocationRequest struct {
	Point      GeoPointDTO `json:"point"`
	AccuracyM  *float64    `json:"accuracy_m,omitempty"`
	Heading    *float64    `json:"heading,omitempty"`
	SpeedKmh   *float64    `json:"speed_kmh,omitempty"`
	RecordedAt time.Time   `json:"recorded_at"`
	Source     string      `json:"source,omitempty"`
}

// ConfirmDeliveryRequest is the body of POST /deliveries/:id/confirm.
type ConfirmDeliveryRequest struct {
	Code string `json:"code"`
}

// RateDeliveryRequest is the body of POST /deliveries/:id/ratings.
type RateDeliveryRequest struct {
	Score   int    `json:"score"`
	Comment string `json:"comment,omitempty"`
}

// AnnouncementSummaryDTO is one search result item.
type AnnouncementSummaryDTO struct {
	ID                string       `json:"id"`
	RequesterID       string       `json:"requester_id"`
	Title             string       `json:"title"`
	Type              string       `json:"type"`
	Priority          string       `json:"priority"`
	Status            string       `json:"status"`
	PickupLine        string       `json:"pickup_line"`
	PickupPoint       *GeoPointDTO `json:"pickup_point,omitempty"`
	DropoffLine       string       `json:"dropoff_line"`
	SuggestedPrice    *float64     `json:"suggested_price,omitempty"`
	Negotiable        bool         `json:"negotiable"`
	PublishedAt       *time.Time   `json:"published_at,omitempty"`
	ViewCount         int          `json:"view_count"`
	ApplicationsCount int          `json:"applications_count"`
	Tags              []string     `json:"tags,omitempty"`
	DistanceKm        *float64     `json:"distance_km,omitempty"`
}

// SearchResponse is one page of search results.
type SearchResponse struct {
	Items   []AnnouncementSummaryDTO `json:"items"`
	HasMore bool                     `json:"has_more"`
}

func searchResponseFromResult(result queries.SearchAnnouncementsQueryResponse) SearchResponse {
	return SearchResponse{
		Items: lo.Map(result.Items, func(item queries.AnnouncementSummary, _ int) AnnouncementSummaryDTO {
			return AnnouncementSummaryDTO{
				ID:                item.ID.String(),
				RequesterID:       item.RequesterID.String(),
				Title:             item.Title,
				Type:              item.Type.String(),
				Priority:          item.Priority.String(),
				Status:            item.Status.String(),
				PickupLine:        item.PickupLine,
				PickupPoint:       geoPointToDTO(item.PickupPoint),
				DropoffLine:       item.DropoffLine,
				SuggestedPrice:    item.SuggestedPrice,
				Negotiable:        item.Negotiable,
				PublishedAt:       item.PublishedAt,
				ViewCount:         item.ViewCount,
				ApplicationsCount: item.ApplicationsCount,
				Tags:              item.Tags,
				DistanceKm:        item.DistanceKm,
			}
		}),
		HasMore: result.HasMore,
	}
}

// AnnouncementDetailDTO is the full announcement read model.
type AnnouncementDetailDTO struct {
	ID                string        `json:"id"`
	RequesterID       string        `json:"requester_id"`
	DelivererID       *string       `json:"deliverer_id,omitempty"`
	Title             string        `json:"title"`
	Description       string        `json:"description,omitempty"`
	Type              string        `json:"type"`
	Priority          string        `json:"priority"`
	Status            string        `json:"status"`
	Pickup            AddressDTO    `json:"pickup"`
	Dropoff           AddressDTO    `json:"dropoff"`
	Attributes        AttributesDTO `json:"attributes"`
	PickupAt          *time.Time    `json:"pickup_at,omitempty"`
	DeliveryAt        *time.Time    `json:"delivery_at,omitempty"`
	SuggestedPrice    *float64      `json:"suggested_price,omitempty"`
	FinalPrice        *float64      `json:"final_price,omitempty"`
	Negotiable        bool          `json:"negotiable"`
	PublishedAt       *time.Time    `json:"published_at,omitempty"`
	ViewCount         int           `json:"view_count"`
	ApplicationsCount int           `json:"applications_count"`
	Tags              []string      `json:"tags,omitempty"`
}

func announcementDetailFromResult(detail queries.GetAnnouncementQueryResponse) AnnouncementDetailDTO {
	dto := AnnouncementDetailDTO{
		ID:          detail.ID.String(),
		RequesterID: detail.RequesterID.String(),
		Title:       detail.Title,
		Description: detail.Description,
		Type:        detail.Type.String(),
		Priority:    detail.Priority.String(),
		Status:      detail.Status.String(),
		Pickup:      AddressDTO{Line: detail.PickupLine, Point: geoPointToDTO(detail.PickupPoint)},
		Dropoff:     AddressDTO{Line: detail.DropoffLine, Point: geoPointToDTO(detail.DropoffPoint)},
		Attributes: AttributesDTO{
			WeightKg:     detail.Attributes.WeightKg,
			LengthCm:     detail.Attributes.LengthCm,
			WidthCm:      detail.Attributes.WidthCm,
			HeightCm:     detail.Attributes.HeightCm,
			Fragile:      detail.Attributes.Fragile,
			NeedsCooling: detail.Attributes.NeedsCooling,
		},
		PickupAt:          detail.PickupAt,
		DeliveryAt:        detail.DeliveryAt,
		SuggestedPrice:    detail.SuggestedPrice,
		FinalPrice:        detail.FinalPrice,
		Negotiable:        detail.Negotiable,
		PublishedAt:       detail.PublishedAt,
		ViewCount:         detail.ViewCount,
		ApplicationsCount: detail.ApplicationsCount,
		Tags:              detail.Tags,
	}

	if detail.DelivererID != nil {
		id := detail.DelivererID.String()
		dto.DelivererID = &id
	}

	return dto
}

// PositionDTO is one recorded location on the wire.
type PositionDTO struct {
	Point      GeoPointDTO `json:"point"`
	AccuracyM  *float64    `json:"accuracy_m,omitempty"`
	Heading    *float64    `json:"heading,omitempty"`
	SpeedKmh   *float64    `json:"speed_kmh,omitempty"`
	RecordedAt time.Time   `json:"recorded_at"`
	Source     string      `json:"source"`
}

func positionToDTO(view queries.PositionView) PositionDTO {
	return PositionDTO{
		Point:      GeoPointDTO{Lat: view.Point.Lat(), Lng: view.Point.Lng()},
		AccuracyM:  view.AccuracyM,
		Heading:    view.Heading,
		SpeedKmh:   view.SpeedKmh,
		RecordedAt: view.RecordedAt,
		Source:     view.Source.String(),
	}
}

// TrackingCheckpointDTO is one checkpoint log entry on the wire.
type TrackingCheckpointDTO struct {
	ID           string       `json:"id"`
	Type         string       `json:"type"`
	PlannedAt    *time.Time   `json:"planned_at,omitempty"`
	ActualAt     time.Time    `json:"actual_at"`
	Point        *GeoPointDTO `json:"point,omitempty"`
	PhotoURL     string       `json:"photo_url,omitempty"`
	SignatureURL string       `json:"signature_url,omitempty"`
	Note         string       `json:"note,omitempty"`
}

// TrackingResponse is the tracking view of a delivery.
type TrackingResponse struct {
	DeliveryID     string                  `json:"delivery_id"`
	AnnouncementID string                  `json:"announcement_id"`
	TrackingCode   string                  `json:"tracking_code"`
	Status         string                  `json:"status"`
	Current        *PositionDTO            `json:"current,omitempty"`
	Path           []PositionDTO           `json:"path"`
	Checkpoints    []TrackingCheckpointDTO `json:"checkpoints"`
}

func trackingResponseFromResult(view queries.GetDeliveryTrackingQueryResponse) TrackingResponse {
	response := TrackingResponse{
		DeliveryID:     view.DeliveryID.String(),
		AnnouncementID: view.AnnouncementID.String(),
		TrackingCode:   view.TrackingCode,
		Status:         view.Status.String(),
		Path: lo.Map(view.Path, func(p queries.PositionView, _ int) PositionDTO {
			return positionToDTO(p)
		}),
		Checkpoints: lo.Map(view.Checkpoints, func(c queries.CheckpointView, _ int) TrackingCheckpointDTO {
			return TrackingCheckpointDTO{
				ID:           c.ID.String(),
				Type:         c.Type.String(),
				PlannedAt:    c.PlannedAt,
				ActualAt:     c.ActualAt,
				Point:        geoPointToDTO(c.Point),
				PhotoURL:     c.PhotoURL,
				SignatureURL: c.SignatureURL,
				Note:         c.Note,
			}
		}),
	}

	if view.Current != nil {
		current := positionToDTO(*view.Current)
		response.Current = &current
	}

	return response
}

// parseActorID reads and validates a UUID, typically from the X-User-ID
// header or a path parameter.
func parseActorID(raw string) (kernel.UUID, error) {
	if raw == "" {
		return kernel.UUID{}, errs.NewValueIsRequiredError("X-User-ID header")
	}
	return kernel.UUIDFromString(raw)
}
