package queries

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"crowdship/internal/core/domain/model/delivery"
	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/core/ports"
	"crowdship/internal/pkg/errs"
)

// GetDeliveryTrackingQueryHandler assembles the tracking view of a delivery.
// The current location is served from the tracker cache when it holds a
// newer fix than the database row; the path and checkpoint log always come
// from the database.
//
// Example:
//
//	handler := queries.NewGetDeliveryTrackingQueryHandler(db, tracker)
//	view, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("%s: %d positions recorded\n", view.TrackingCode, len(view.Path))
type GetDeliveryTrackingQueryHandler struct {
	db      *gorm.DB
	tracker ports.LocationTracker
}

// NewGetDeliveryTrackingQueryHandler creates a handler bound to a GORM
// database connection and a location tracker.
func NewGetDeliveryTrackingQueryHandler(
	db *gorm.DB,
	tracker ports.LocationTracker,
) GetDeliveryTrackingQueryHandler {
	return GetDeliveryTrackingQueryHandler{db: db, tracker: tracker}
}

// Handle resolves the delivery, then loads its current location, position
// history and checkpoints. Returns errs.ObjectNotFoundError when neither
// the id nor the tracking code matches a delivery.
func (h GetDeliveryTrackingQueryHandler) Handle(
	ctx context.Context,
	query GetDeliveryTrackingQuery,
) (GetDeliveryTrackingQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetDeliveryTrackingQueryResponse{}, err
	}

	view, err := h.loadDeliveryHead(ctx, query)
	if err != nil {
		return GetDeliveryTrackingQueryResponse{}, err
	}

	// A terminal delivery no longer moves; the database row is the final
	// word and a leftover cache entry must not override it.
	if !view.Status.IsTerminal() {
		h.overlayTrackerPosition(ctx, &view)
	}

	view.Path, err = h.loadPath(ctx, view.DeliveryID, query)
	if err != nil {
		return GetDeliveryTrackingQueryResponse{}, err
	}

	view.Checkpoints, err = h.loadCheckpoints(ctx, view.DeliveryID)
	if err != nil {
		return GetDeliveryTrackingQueryResponse{}, err
	}

	return view, nil
}

func (h GetDeliveryTrackingQueryHandler) loadDeliveryHead(
	ctx context.Context,
	query GetDeliveryTrackingQuery,
) (GetDeliveryTrackingQueryResponse, error) {
	const head = `
		SELECT
			id,
			announcement_id,
			tracking_code,
			status,
			current_lat,
			current_lng,
			current_accuracy_m,
			current_heading,
			current_speed_kmh,
			current_recorded_at,
			current_source
		FROM deliveries
	`

	var row *sql.Row
	var lookupKey any
	if query.DeliveryID() != nil {
		lookupKey = query.DeliveryID().String()
		row = h.db.WithContext(ctx).Raw(head+`WHERE id = ?`, query.DeliveryID().Bytes()).Row()
	} else {
		lookupKey = query.TrackingCode()
		row = h.db.WithContext(ctx).Raw(head+`WHERE tracking_code = ?`, query.TrackingCode()).Row()
	}

	var (
		id             uuid.UUID
		announcementID uuid.UUID
		trackingCode   string
		status         int
		lat            sql.NullFloat64
		lng            sql.NullFloat64
		accuracyM      sql.NullFloat64
		heading        sql.NullFloat64
		speedKmh       sql.NullFloat64
		recordedAt     sql.NullTime
		source         sql.NullInt64
	)

	err := row.Scan(
		&id,
		&announcementID,
		&trackingCode,
		&status,
		&lat,
		&lng,
		&accuracyM,
		&heading,
		&speedKmh,
		&recordedAt,
		&source,
	)
	if err == sql.ErrNoRows {
		return GetDeliveryTrackingQueryResponse{},
			errs.NewObjectNotFoundError("delivery", lookupKey)
	}
	if err != nil {
		return GetDeliveryTrackingQueryResponse{}, fmt.Errorf("scan delivery row: %w", err)
	}

	deliveryID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetDeliveryTrackingQueryResponse{}, err
	}
	parentID, err := kernel.UUIDFromBytes(announcementID[:])
	if err != nil {
		return GetDeliveryTrackingQueryResponse{}, err
	}

	view := GetDeliveryTrackingQueryResponse{
		DeliveryID:     deliveryID,
		AnnouncementID: parentID,
		TrackingCode:   trackingCode,
		Status:         delivery.Status(status),
	}

	if lat.Valid && lng.Valid && recordedAt.Valid {
		point, pointErr := kernel.NewGeoPoint(lat.Float64, lng.Float64)
		if pointErr != nil {
			return GetDeliveryTrackingQueryResponse{}, pointErr
		}
		view.Current = &PositionView{
			Point:      point,
			AccuracyM:  nullableFloat(accuracyM),
			Heading:    nullableFloat(heading),
			SpeedKmh:   nullableFloat(speedKmh),
			RecordedAt: recordedAt.Time.UTC(),
			Source:     delivery.Source(source.Int64),
		}
	}

	return view, nil
}

// overlayTrackerPosition replaces the database current location with the
// tracker's when the cache holds a strictly newer fix. Tracker failures do
// not fail the query; the database value stands in.
func (h GetDeliveryTrackingQueryHandler) overlayTrackerPosition(
	ctx context.Context,
	view *GetDeliveryTrackingQueryResponse,
) {
	cached, err := h.tracker.Current(ctx, view.DeliveryID)
	if err != nil || cached == nil {
		return
	}
	if view.Current != nil && !cached.RecordedAt().After(view.Current.RecordedAt) {
		return
	}

	view.Current = &PositionView{
		Point:      cached.Point(),
		AccuracyM:  cached.AccuracyM(),
		Heading:    cached.Heading(),
		SpeedKmh:   cached.SpeedKmh(),
		RecordedAt: cached.RecordedAt(),
		Source:     cached.Source(),
	}
}

func (h GetDeliveryTrackingQueryHandler) loadPath(
	ctx context.Context,
	deliveryID kernel.UUID,
	query GetDeliveryTrackingQuery,
) ([]PositionView, error) {
	sqlText := `
		SELECT
			lat,
			lng,
			accuracy_m,
			heading,
			speed_kmh,
			recorded_at,
			source
		FROM delivery_positions
		WHERE delivery_id = ?`
	args := []any{deliveryID.Bytes()}

	if query.Since() != nil {
		sqlText += ` AND recorded_at > ?`
		args = append(args, *query.Since())
	}
	sqlText += ` ORDER BY recorded_at, id`

	rows, err := h.db.WithContext(ctx).Raw(sqlText, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	path := make([]PositionView, 0)
	for rows.Next() {
		var (
			lat        float64
			lng        float64
			accuracyM  sql.NullFloat64
			heading    sql.NullFloat64
			speedKmh   sql.NullFloat64
			recordedAt sql.NullTime
			source     int
		)

		if err = rows.Scan(&lat, &lng, &accuracyM, &heading, &speedKmh, &recordedAt, &source); err != nil {
			return nil, fmt.Errorf("scan position row: %w", err)
		}

		point, pointErr := kernel.NewGeoPoint(lat, lng)
		if pointErr != nil {
			return nil, pointErr
		}

		path = append(path, PositionView{
			Point:      point,
			AccuracyM:  nullableFloat(accuracyM),
			Heading:    nullableFloat(heading),
			SpeedKmh:   nullableFloat(speedKmh),
			RecordedAt: recordedAt.Time.UTC(),
			Source:     delivery.Source(source),
		})
	}

	return path, rows.Err()
}

func (h GetDeliveryTrackingQueryHandler) loadCheckpoints(
	ctx context.Context,
	deliveryID kernel.UUID,
) ([]CheckpointView, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			type,
			planned_at,
			actual_at,
			lat,
			lng,
			photo_url,
			signature_url,
			note
		FROM delivery_checkpoints
		WHERE delivery_id = ?
		ORDER BY actual_at, id
	`, deliveryID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	checkpoints := make([]CheckpointView, 0)
	for rows.Next() {
		var (
			id           uuid.UUID
			cType        int
			plannedAt    sql.NullTime
			actualAt     sql.NullTime
			lat          sql.NullFloat64
			lng          sql.NullFloat64
			photoURL     string
			signatureURL string
			note         string
		)

		if err = rows.Scan(&id, &cType, &plannedAt, &actualAt,
			&lat, &lng, &photoURL, &signatureURL, &note); err != nil {
			return nil, fmt.Errorf("scan checkpoint row: %w", err)
		}

		checkpointID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}

		view := CheckpointView{
			ID:           checkpointID,
			Type:         delivery.CheckpointType(cType),
			ActualAt:     actualAt.Time.UTC(),
			PhotoURL:     photoURL,
			SignatureURL: signatureURL,
			Note:         note,
		}
		if plannedAt.Valid {
			at := plannedAt.Time.UTC()
			view.PlannedAt = &at
		}
		if lat.Valid && lng.Valid {
			point, pointErr := kernel.NewGeoPoint(lat.Float64, lng.Float64)
			if pointErr != nil {
				return nil, pointErr
			}
			view.Point = &point
		}

		checkpoints = append(checkpoints, view)
	}

	return checkpoints, rows.Err()
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
