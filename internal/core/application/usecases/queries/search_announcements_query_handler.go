package queries

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"crowdship/internal/core/domain/model/announcement"
	"crowdship/internal/core/domain/model/kernel"
)

// SearchAnnouncementsQueryHandler runs announcement searches against the
// read database. Plain filters are pushed down to SQL; geo searches use a
// bounding-box prefilter in SQL and an exact haversine check in Go, because
// the box overshoots the circle at its corners.
//
// Example:
//
//	handler := queries.NewSearchAnnouncementsQueryHandler(db)
//	result, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return err
//	}
//	for _, item := range result.Items {
//	    fmt.Printf("%s (%s)\n", item.Title, item.Status)
//	}
type SearchAnnouncementsQueryHandler struct {
	db *gorm.DB
}

// NewSearchAnnouncementsQueryHandler creates a handler bound to a GORM
// database connection.
func NewSearchAnnouncementsQueryHandler(db *gorm.DB) SearchAnnouncementsQueryHandler {
	return SearchAnnouncementsQueryHandler{db: db}
}

// Handle executes the search and returns one result page plus a HasMore flag.
func (h SearchAnnouncementsQueryHandler) Handle(
	ctx context.Context,
	query SearchAnnouncementsQuery,
) (SearchAnnouncementsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return SearchAnnouncementsQueryResponse{}, err
	}

	sqlText, args := buildSearchSQL(query)

	rows, err := h.db.WithContext(ctx).Raw(sqlText, args...).Rows()
	if err != nil {
		return SearchAnnouncementsQueryResponse{}, err
	}
	defer rows.Close()

	items := make([]AnnouncementSummary, 0)
	for rows.Next() {
		item, scanErr := scanAnnouncementSummary(rows)
		if scanErr != nil {
			return SearchAnnouncementsQueryResponse{}, scanErr
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return SearchAnnouncementsQueryResponse{}, err
	}

	filters := query.Filters()
	if filters.Origin == nil {
		// SQL already ordered and paged with one extra row for HasMore.
		hasMore := len(items) > query.Limit()
		if hasMore {
			items = items[:query.Limit()]
		}
		return SearchAnnouncementsQueryResponse{Items: items, HasMore: hasMore}, nil
	}

	return pageGeoResults(items, query)
}

// pageGeoResults finishes a geo search in memory: exact radius check,
// optional distance sort, then offset/limit.
func pageGeoResults(
	candidates []AnnouncementSummary,
	query SearchAnnouncementsQuery,
) (SearchAnnouncementsQueryResponse, error) {
	filters := query.Filters()

	matched := make([]AnnouncementSummary, 0, len(candidates))
	for _, item := range candidates {
		if item.PickupPoint == nil {
			continue
		}
		distance, err := filters.Origin.DistanceKm(*item.PickupPoint)
		if err != nil {
			return SearchAnnouncementsQueryResponse{}, err
		}
		if distance > filters.RadiusKm {
			continue
		}
		d := distance
		item.DistanceKm = &d
		matched = append(matched, item)
	}

	if query.SortKey() == SortByDistance {
		sort.SliceStable(matched, func(i, j int) bool {
			return *matched[i].DistanceKm < *matched[j].DistanceKm
		})
	}

	start := query.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + query.Limit()
	if end > len(matched) {
		end = len(matched)
	}

	return SearchAnnouncementsQueryResponse{
		Items:   matched[start:end],
		HasMore: end < len(matched),
	}, nil
}

func buildSearchSQL(query SearchAnnouncementsQuery) (string, []any) {
	filters := query.Filters()

	var sb strings.Builder
	sb.WriteString(`
		SELECT
			id,
			requester_id,
			title,
			type,
			priority,
			status,
			pickup_line,
			pickup_lat,
			pickup_lng,
			dropoff_line,
			suggested_price,
			negotiable,
			published_at,
			view_count,
			applications_count,
			tags
		FROM announcements
		WHERE 1=1`)

	args := make([]any, 0, 8)

	if filters.Type != nil {
		sb.WriteString(" AND type = ?")
		args = append(args, *filters.Type)
	}
	if filters.Status != nil {
		sb.WriteString(" AND status = ?")
		args = append(args, *filters.Status)
	}
	if filters.Priority != nil {
		sb.WriteString(" AND priority = ?")
		args = append(args, *filters.Priority)
	}
	if filters.MinPrice != nil {
		sb.WriteString(" AND suggested_price >= ?")
		args = append(args, *filters.MinPrice)
	}
	if filters.MaxPrice != nil {
		sb.WriteString(" AND suggested_price <= ?")
		args = append(args, *filters.MaxPrice)
	}
	if filters.Keyword != "" {
		sb.WriteString(" AND (title ILIKE ? OR description ILIKE ?)")
		pattern := "%" + filters.Keyword + "%"
		args = append(args, pattern, pattern)
	}
	if filters.Tag != "" {
		sb.WriteString(" AND ? = ANY(tags)")
		args = append(args, filters.Tag)
	}
	if filters.Origin != nil {
		minLat, maxLat, minLng, maxLng := boundingBox(*filters.Origin, filters.RadiusKm)
		sb.WriteString(" AND pickup_lat BETWEEN ? AND ? AND pickup_lng BETWEEN ? AND ?")
		args = append(args, minLat, maxLat, minLng, maxLng)
	}

	sb.WriteString(orderClause(query.SortKey()))

	if filters.Origin == nil {
		// Fetch one extra row to detect a following page.
		sb.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, query.Limit()+1, query.Offset())
	}

	return sb.String(), args
}

func orderClause(key SortKey) string {
	switch key {
	case SortByPrice:
		return " ORDER BY suggested_price ASC NULLS LAST, id"
	case SortByCreatedAt:
		return " ORDER BY created_at DESC, id"
	default:
		// Distance ordering happens in Go after the exact radius check,
		// so the fetch order only needs to be stable.
		return " ORDER BY published_at DESC NULLS LAST, id"
	}
}

// boundingBox returns a lat/lng box enclosing the radius circle.
// One degree of latitude is close to 111 km everywhere; a degree of
// longitude shrinks with the cosine of the latitude.
func boundingBox(origin kernel.GeoPoint, radiusKm float64) (minLat, maxLat, minLng, maxLng float64) {
	const kmPerDegree = 111.0

	latDelta := radiusKm / kmPerDegree

	cosLat := math.Cos(origin.Lat() * math.Pi / 180)
	lngDelta := 180.0
	if cosLat > 0.01 {
		lngDelta = radiusKm / (kmPerDegree * cosLat)
	}

	return origin.Lat() - latDelta, origin.Lat() + latDelta,
		origin.Lng() - lngDelta, origin.Lng() + lngDelta
}

type announcementSummaryRow interface {
	Scan(dest ...any) error
}

func scanAnnouncementSummary(rows announcementSummaryRow) (AnnouncementSummary, error) {
	var (
		id             uuid.UUID
		requesterID    uuid.UUID
		title          string
		aType          int
		priority       int
		status         int
		pickupLine     string
		pickupLat      sql.NullFloat64
		pickupLng      sql.NullFloat64
		dropoffLine    string
		suggestedPrice sql.NullFloat64
		negotiable     bool
		publishedAt    sql.NullTime
		viewCount      int
		appsCount      int
		tags           pq.StringArray
	)

	err := rows.Scan(
		&id,
		&requesterID,
		&title,
		&aType,
		&priority,
		&status,
		&pickupLine,
		&pickupLat,
		&pickupLng,
		&dropoffLine,
		&suggestedPrice,
		&negotiable,
		&publishedAt,
		&viewCount,
		&appsCount,
		&tags,
	)
	if err != nil {
		return AnnouncementSummary{}, fmt.Errorf("scan announcement row: %w", err)
	}

	itemID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return AnnouncementSummary{}, err
	}
	ownerID, err := kernel.UUIDFromBytes(requesterID[:])
	if err != nil {
		return AnnouncementSummary{}, err
	}

	item := AnnouncementSummary{
		ID:                itemID,
		RequesterID:       ownerID,
		Title:             title,
		Type:              announcement.Type(aType),
		Priority:          announcement.Priority(priority),
		Status:            announcement.Status(status),
		PickupLine:        pickupLine,
		DropoffLine:       dropoffLine,
		Negotiable:        negotiable,
		ViewCount:         viewCount,
		ApplicationsCount: appsCount,
		Tags:              tags,
	}

	if pickupLat.Valid && pickupLng.Valid {
		point, pointErr := kernel.NewGeoPoint(pickupLat.Float64, pickupLng.Float64)
		if pointErr != nil {
			return AnnouncementSummary{}, pointErr
		}
		item.PickupPoint = &point
	}
	if suggestedPrice.Valid {
		price := suggestedPrice.Float64
		item.SuggestedPrice = &price
	}
	if publishedAt.Valid {
		publishedAtUTC := publishedAt.Time.UTC()
		item.PublishedAt = &publishedAtUTC
	}

	return item, nil
}
