package queries

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"crowdship/internal/core/domain/model/announcement"
	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/pkg/errs"
)

// GetAnnouncementQueryHandler loads a single announcement read model.
// Each successful read bumps view_count in a single UPDATE statement so
// concurrent readers never lose an increment.
//
// Example:
//
//	handler := queries.NewGetAnnouncementQueryHandler(db)
//	detail, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("%s viewed %d times\n", detail.Title, detail.ViewCount)
type GetAnnouncementQueryHandler struct {
	db *gorm.DB
}

// NewGetAnnouncementQueryHandler creates a handler bound to a GORM
// database connection.
func NewGetAnnouncementQueryHandler(db *gorm.DB) GetAnnouncementQueryHandler {
	return GetAnnouncementQueryHandler{db: db}
}

// Handle increments the view counter and returns the announcement.
// Returns errs.ObjectNotFoundError when the id does not exist.
func (h GetAnnouncementQueryHandler) Handle(
	ctx context.Context,
	query GetAnnouncementQuery,
) (GetAnnouncementQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetAnnouncementQueryResponse{}, err
	}

	id := query.AnnouncementID().Bytes()

	increment := h.db.WithContext(ctx).Exec(
		`UPDATE announcements SET view_count = view_count + 1 WHERE id = ?`, id)
	if increment.Error != nil {
		return GetAnnouncementQueryResponse{}, increment.Error
	}
	if increment.RowsAffected == 0 {
		return GetAnnouncementQueryResponse{},
			errs.NewObjectNotFoundError("announcement", query.AnnouncementID())
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			requester_id,
			deliverer_id,
			title,
			description,
			type,
			priority,
			status,
			pickup_line,
			pickup_lat,
			pickup_lng,
			dropoff_line,
			dropoff_lat,
			dropoff_lng,
			weight_kg,
			length_cm,
			width_cm,
			height_cm,
			fragile,
			needs_cooling,
			pickup_at,
			delivery_at,
			suggested_price,
			final_price,
			negotiable,
			published_at,
			view_count,
			applications_count,
			tags
		FROM announcements
		WHERE id = ?
	`, id).Row()

	return scanAnnouncementDetail(row, query.AnnouncementID())
}

func scanAnnouncementDetail(
	row *sql.Row,
	announcementID kernel.UUID,
) (GetAnnouncementQueryResponse, error) {
	var (
		id             uuid.UUID
		requesterID    uuid.UUID
		delivererID    uuid.NullUUID
		title          string
		description    string
		aType          int
		priority       int
		status         int
		pickupLine     string
		pickupLat      sql.NullFloat64
		pickupLng      sql.NullFloat64
		dropoffLine    string
		dropoffLat     sql.NullFloat64
		dropoffLng     sql.NullFloat64
		weightKg       float64
		lengthCm       float64
		widthCm        float64
		heightCm       float64
		fragile        bool
		needsCooling   bool
		pickupAt       sql.NullTime
		deliveryAt     sql.NullTime
		suggestedPrice sql.NullFloat64
		finalPrice     sql.NullFloat64
		negotiable     bool
		publishedAt    sql.NullTime
		viewCount      int
		appsCount      int
		tags           pq.StringArray
	)

	err := row.Scan(
		&id,
		&requesterID,
		&delivererID,
		&title,
		&description,
		&aType,
		&priority,
		&status,
		&pickupLine,
		&pickupLat,
		&pickupLng,
		&dropoffLine,
		&dropoffLat,
		&dropoffLng,
		&weightKg,
		&lengthCm,
		&widthCm,
		&heightCm,
		&fragile,
		&needsCooling,
		&pickupAt,
		&deliveryAt,
		&suggestedPrice,
		&finalPrice,
		&negotiable,
		&publishedAt,
		&viewCount,
		&appsCount,
		&tags,
	)
	if err == sql.ErrNoRows {
		return GetAnnouncementQueryResponse{},
			errs.NewObjectNotFoundError("announcement", announcementID)
	}
	if err != nil {
		return GetAnnouncementQueryResponse{}, fmt.Errorf("scan announcement row: %w", err)
	}

	itemID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetAnnouncementQueryResponse{}, err
	}
	ownerID, err := kernel.UUIDFromBytes(requesterID[:])
	if err != nil {
		return GetAnnouncementQueryResponse{}, err
	}

	detail := GetAnnouncementQueryResponse{
		ID:          itemID,
		RequesterID: ownerID,
		Title:       title,
		Description: description,
		Type:        announcement.Type(aType),
		Priority:    announcement.Priority(priority),
		Status:      announcement.Status(status),
		PickupLine:  pickupLine,
		DropoffLine: dropoffLine,
		Attributes: announcement.PhysicalAttributes{
			WeightKg:     weightKg,
			LengthCm:     lengthCm,
			WidthCm:      widthCm,
			HeightCm:     heightCm,
			Fragile:      fragile,
			NeedsCooling: needsCooling,
		},
		Negotiable:        negotiable,
		ViewCount:         viewCount,
		ApplicationsCount: appsCount,
		Tags:              tags,
	}

	if delivererID.Valid {
		courierID, courierErr := kernel.UUIDFromBytes(delivererID.UUID[:])
		if courierErr != nil {
			return GetAnnouncementQueryResponse{}, courierErr
		}
		detail.DelivererID = &courierID
	}
	if pickupLat.Valid && pickupLng.Valid {
		point, pointErr := kernel.NewGeoPoint(pickupLat.Float64, pickupLng.Float64)
		if pointErr != nil {
			return GetAnnouncementQueryResponse{}, pointErr
		}
		detail.PickupPoint = &point
	}
	if dropoffLat.Valid && dropoffLng.Valid {
		point, pointErr := kernel.NewGeoPoint(dropoffLat.Float64, dropoffLng.Float64)
		if pointErr != nil {
			return GetAnnouncementQueryResponse{}, pointErr
		}
		detail.DropoffPoint = &point
	}
	if suggestedPrice.Valid {
		price := suggestedPrice.Float64
		detail.SuggestedPrice = &price
	}
	if finalPrice.Valid {
		price := finalPrice.Float64
		detail.FinalPrice = &price
	}
	if pickupAt.Valid {
		at := pickupAt.Time.UTC()
		detail.PickupAt = &at
	}
	if deliveryAt.Valid {
		at := deliveryAt.Time.UTC()
		detail.DeliveryAt = &at
	}
	if publishedAt.Valid {
		at := publishedAt.Time.UTC()
		detail.PublishedAt = &at
	}

	return detail, nil
}
