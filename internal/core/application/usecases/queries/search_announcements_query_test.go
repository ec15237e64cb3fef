package queries_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crowdship/internal/core/application/usecases/queries"
	"crowdship/internal/core/domain/model/announcement"
	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/pkg/errs"
)

func TestNewSearchAnnouncementsQuery_Defaults(t *testing.T) {
	query, err := queries.NewSearchAnnouncementsQuery(
		queries.SearchFilters{}, queries.SortByPublishedAt, 0, 0)

	require.NoError(t, err)
	assert.Equal(t, queries.DefaultSearchLimit, query.Limit())
	assert.Equal(t, 0, query.Offset())
	assert.NoError(t, query.Validate())
}

func TestNewSearchAnnouncementsQuery_WithFilters(t *testing.T) {
	origin, err := kernel.NewGeoPoint(48.8566, 2.3522)
	require.NoError(t, err)

	aType := announcement.TypePackage
	status := announcement.Published
	minPrice := 10.0
	maxPrice := 80.0

	query, err := queries.NewSearchAnnouncementsQuery(queries.SearchFilters{
		Type:     &aType,
		Status:   &status,
		MinPrice: &minPrice,
		MaxPrice: &maxPrice,
		Keyword:  "piano",
		Tag:      "fragile",
		Origin:   &origin,
		RadiusKm: 25,
	}, queries.SortByDistance, 50, 100)

	require.NoError(t, err)
	assert.Equal(t, 50, query.Limit())
	assert.Equal(t, 100, query.Offset())
	assert.Equal(t, queries.SortByDistance, query.SortKey())
}

func TestNewSearchAnnouncementsQuery_ValidationErrors(t *testing.T) {
	origin, err := kernel.NewGeoPoint(48.8566, 2.3522)
	require.NoError(t, err)

	minPrice := 50.0
	maxPrice := 10.0

	tests := map[string]struct {
		filters queries.SearchFilters
		sortKey queries.SortKey
		limit   int
		offset  int
	}{
		"radius without origin": {
			filters: queries.SearchFilters{RadiusKm: 10},
			sortKey: queries.SortByPublishedAt,
		},
		"origin without radius": {
			filters: queries.SearchFilters{Origin: &origin},
			sortKey: queries.SortByPublishedAt,
		},
		"radius over the cap": {
			filters: queries.SearchFilters{Origin: &origin, RadiusKm: kernel.MaxSearchRadiusKm + 1},
			sortKey: queries.SortByPublishedAt,
		},
		"min price above max price": {
			filters: queries.SearchFilters{MinPrice: &minPrice, MaxPrice: &maxPrice},
			sortKey: queries.SortByPublishedAt,
		},
		"distance sort without origin": {
			filters: queries.SearchFilters{},
			sortKey: queries.SortByDistance,
		},
		"unknown sort key": {
			filters: queries.SearchFilters{},
			sortKey: queries.SortKey("popularity"),
		},
		"limit over the cap": {
			filters: queries.SearchFilters{},
			sortKey: queries.SortByPublishedAt,
			limit:   queries.MaxSearchLimit + 1,
		},
		"negative offset": {
			filters: queries.SearchFilters{},
			sortKey: queries.SortByPublishedAt,
			offset:  -1,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := queries.NewSearchAnnouncementsQuery(tc.filters, tc.sortKey, tc.limit, tc.offset)
			require.Error(t, err)
		})
	}
}

func TestSearchAnnouncementsQuery_NotConstructed(t *testing.T) {
	var query queries.SearchAnnouncementsQuery

	err := query.Validate()

	assert.ErrorIs(t, err, queries.ErrSearchAnnouncementsQueryIsNotConstructed)
}

func TestNewGetAnnouncementQuery(t *testing.T) {
	id := kernel.NewUUID()

	query, err := queries.NewGetAnnouncementQuery(id)

	require.NoError(t, err)
	assert.True(t, query.AnnouncementID().IsEqual(id))
	assert.NoError(t, query.Validate())
}

func TestNewGetAnnouncementQuery_EmptyID(t *testing.T) {
	_, err := queries.NewGetAnnouncementQuery(kernel.UUID{})

	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}
