package queries

import (
	"errors"
	"time"

	"crowdship/internal/core/domain/model/announcement"
	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/pkg/errs"
	"crowdship/internal/pkg/guard"
)

var (
	ErrSearchAnnouncementsQueryIsNotConstructed = errors.New(
		"SearchAnnouncementsQuery must be created via NewSearchAnnouncementsQuery constructor",
	)
)

// SortKey selects the ordering of announcement search results.
type SortKey string

const (
	SortByPublishedAt SortKey = "published_at"
	SortByPrice       SortKey = "price"
	SortByCreatedAt   SortKey = "created_at"
	SortByDistance    SortKey = "distance"
)

// Validate checks that the sort key is one of the supported values.
func (k SortKey) Validate() error {
	switch k {
	case SortByPublishedAt, SortByPrice, SortByCreatedAt, SortByDistance:
		return nil
	}
	return errs.NewValueIsInvalidError("sortKey")
}

const (
	// MaxSearchLimit caps a single result page.
	MaxSearchLimit = 100

	// DefaultSearchLimit is used when the caller does not ask for a page size.
	DefaultSearchLimit = 20
)

// SearchFilters narrows the announcement search. Every field is optional;
// zero values mean "no filter". Origin and RadiusKm come as a pair: setting
// one without the other is a validation error.
type SearchFilters struct {
	Type     *announcement.Type
	Status   *announcement.Status
	Priority *announcement.Priority
	MinPrice *float64
	MaxPrice *float64
	Keyword  string
	Tag      string
	Origin   *kernel.GeoPoint
	RadiusKm float64
}

// SearchAnnouncementsQuery retrieves announcements matching a set of filters,
// with pagination and a choice of sort order. Geo search filters by the
// distance between the filter origin and each announcement's pickup point.
//
// Example:
//
//	origin, _ := kernel.NewGeoPoint(48.8566, 2.3522)
//	query, err := queries.NewSearchAnnouncementsQuery(queries.SearchFilters{
//	    Origin:   &origin,
//	    RadiusKm: 10,
//	}, queries.SortByDistance, 20, 0)
//	if err != nil {
//	    return err
//	}
//
//	result, err := handler.Handle(ctx, query)
type SearchAnnouncementsQuery struct {
	filters SearchFilters
	sortKey SortKey
	limit   int
	offset  int

	guard guard.ConstructorGuard
}

// NewSearchAnnouncementsQuery builds a validated search query.
// A limit of 0 falls back to DefaultSearchLimit. Sorting by distance
// requires a geo filter.
func NewSearchAnnouncementsQuery(
	filters SearchFilters,
	sortKey SortKey,
	limit int,
	offset int,
) (SearchAnnouncementsQuery, error) {
	if limit == 0 {
		limit = DefaultSearchLimit
	}

	if err := errors.Join(
		validateFilters(filters),
		sortKey.Validate(),
		validatePage(limit, offset),
	); err != nil {
		return SearchAnnouncementsQuery{}, err
	}

	if sortKey == SortByDistance && filters.Origin == nil {
		return SearchAnnouncementsQuery{}, errs.NewValueIsRequiredError("filters.Origin")
	}

	return SearchAnnouncementsQuery{
		filters: filters,
		sortKey: sortKey,
		limit:   limit,
		offset:  offset,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func validateFilters(filters SearchFilters) error {
	var joined error

	if filters.Type != nil {
		joined = errors.Join(joined, filters.Type.Validate())
	}
	if filters.Status != nil {
		joined = errors.Join(joined, filters.Status.Validate())
	}
	if filters.Priority != nil {
		joined = errors.Join(joined, filters.Priority.Validate())
	}
	if filters.MinPrice != nil && *filters.MinPrice < 0 {
		joined = errors.Join(joined, errs.NewValueIsInvalidError("filters.MinPrice"))
	}
	if filters.MaxPrice != nil && *filters.MaxPrice < 0 {
		joined = errors.Join(joined, errs.NewValueIsInvalidError("filters.MaxPrice"))
	}
	if filters.MinPrice != nil && filters.MaxPrice != nil && *filters.MinPrice > *filters.MaxPrice {
		joined = errors.Join(joined, errs.NewValueIsInvalidError("filters.MinPrice"))
	}

	switch {
	case filters.Origin != nil && filters.RadiusKm <= 0,
		filters.Origin == nil && filters.RadiusKm != 0:
		joined = errors.Join(joined, errs.NewValueIsInvalidError("filters.RadiusKm"))
	case filters.Origin != nil && filters.RadiusKm > kernel.MaxSearchRadiusKm:
		joined = errors.Join(joined, errs.NewValueIsOutOfRangeError(
			"filters.RadiusKm", filters.RadiusKm, 0, kernel.MaxSearchRadiusKm))
	}

	return joined
}

func validatePage(limit, offset int) error {
	var joined error
	if limit < 1 || limit > MaxSearchLimit {
		joined = errors.Join(joined, errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxSearchLimit))
	}
	if offset < 0 {
		joined = errors.Join(joined, errs.NewValueIsInvalidError("offset"))
	}
	return joined
}

func (q SearchAnnouncementsQuery) Filters() SearchFilters { return q.filters }
func (q SearchAnnouncementsQuery) SortKey() SortKey       { return q.sortKey }
func (q SearchAnnouncementsQuery) Limit() int             { return q.limit }
func (q SearchAnnouncementsQuery) Offset() int            { return q.offset }

// Validate ensures the query was created through the constructor.
func (q SearchAnnouncementsQuery) Validate() error {
	return q.guard.Validate(ErrSearchAnnouncementsQueryIsNotConstructed)
}

// AnnouncementSummary is the read model returned by the search.
// DistanceKm is populated only for geo searches.
type AnnouncementSummary struct {
	ID                kernel.UUID
	RequesterID       kernel.UUID
	Title             string
	Type              announcement.Type
	Priority          announcement.Priority
	Status            announcement.Status
	PickupLine        string
	PickupPoint       *kernel.GeoPoint
	DropoffLine       string
	SuggestedPrice    *float64
	Negotiable        bool
	PublishedAt       *time.Time
	ViewCount         int
	ApplicationsCount int
	Tags              []string
	DistanceKm        *float64
}

// SearchAnnouncementsQueryResponse carries one result page.
// HasMore reports whether another page exists past Offset+len(Items).
type SearchAnnouncementsQueryResponse struct {
	Items   []AnnouncementSummary
	HasMore bool
}
