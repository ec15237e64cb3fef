package queries_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"crowdship/internal/adapters/out/memory"
	"crowdship/internal/adapters/out/postgres/announcementrepo"
	"crowdship/internal/adapters/out/postgres/applicationrepo"
	"crowdship/internal/adapters/out/postgres/deliveryrepo"
	"crowdship/internal/adapters/out/postgres/ratingrepo"
	"crowdship/internal/core/application/usecases/queries"
	"crowdship/internal/core/domain/model/announcement"
	"crowdship/internal/core/domain/model/delivery"
	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/pkg/errs"
)

// QueriesIntegrationTestSuite runs the read side against a real PostgreSQL:
// the search SQL with its bounding-box prefilter, the view-count side effect
// of the detail read and the tracking view assembly.
type QueriesIntegrationTestSuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	db        *gorm.DB
	tracker   *memory.LocationTracker
}

func (s *QueriesIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(dsn), &gorm.Config{})
	s.Require().NoError(err)
	s.db = db

	err = db.AutoMigrate(
		&announcementrepo.AnnouncementDTO{},
		&applicationrepo.ApplicationDTO{},
		&deliveryrepo.DeliveryDTO{},
		&deliveryrepo.CheckpointDTO{},
		&deliveryrepo.PositionDTO{},
		&ratingrepo.RatingDTO{},
	)
	s.Require().NoError(err)
}

func (s *QueriesIntegrationTestSuite) TearDownSuite() {
	if s.container != nil {
		s.Require().NoError(s.container.Terminate(context.Background()))
	}
}

func (s *QueriesIntegrationTestSuite) SetupTest() {
	err := s.db.Exec(`TRUNCATE announcements, applications, deliveries,
		delivery_checkpoints, delivery_positions, ratings`).Error
	s.Require().NoError(err)
	s.tracker = memory.NewLocationTracker()
}

type seedSpec struct {
	title       string
	description string
	pickupLat   float64
	pickupLng   float64
	price       float64
	tags        []string
	publishedAt *time.Time
}

func (s *QueriesIntegrationTestSuite) seedAnnouncement(spec seedSpec) *announcement.Announcement {
	point, err := kernel.NewGeoPoint(spec.pickupLat, spec.pickupLng)
	s.Require().NoError(err)
	pickup, err := announcement.NewAddress("pickup address", &point)
	s.Require().NoError(err)

	dropoffPoint, err := kernel.NewGeoPoint(45.7640, 4.8357)
	s.Require().NoError(err)
	dropoff, err := announcement.NewAddress("3 Place Bellecour, Lyon", &dropoffPoint)
	s.Require().NoError(err)

	a, err := announcement.NewAnnouncement(
		kernel.NewUUID(), kernel.NewUUID(),
		spec.title, spec.description,
		announcement.TypePackage, announcement.PriorityMedium,
		pickup, dropoff,
		announcement.PhysicalAttributes{WeightKg: 2},
		nil, nil, spec.price, true, spec.tags,
	)
	s.Require().NoError(err)

	if spec.publishedAt != nil {
		s.Require().NoError(a.Publish(*spec.publishedAt))
	}

	s.Require().NoError(announcementrepo.NewGormAnnouncementRepository(s.db).Add(context.Background(), a))
	return a
}

func (s *QueriesIntegrationTestSuite) seedDelivery() *delivery.Delivery {
	now := time.Now().UTC()
	a := s.seedAnnouncement(seedSpec{
		title: "Tracking seed", pickupLat: 48.8566, pickupLng: 2.3522,
		price: 40, publishedAt: &now,
	})

	price, err := delivery.NewPriceBreakdown(40.0, 34.0, 6.0)
	s.Require().NoError(err)

	dropoff, err := kernel.NewGeoPoint(45.7640, 4.8357)
	s.Require().NoError(err)

	d, err := delivery.NewDelivery(
		kernel.NewUUID(), a.ID(), a.RequesterID(), kernel.NewUUID(),
		delivery.NewTrackingCode(now), "917364", &dropoff, price,
	)
	s.Require().NoError(err)
	s.Require().NoError(deliveryrepo.NewGormDeliveryRepository(s.db).Add(context.Background(), d))

	return d
}

func (s *QueriesIntegrationTestSuite) position(lat float64, recordedAt time.Time) delivery.Position {
	point, err := kernel.NewGeoPoint(lat, 3.5)
	s.Require().NoError(err)

	p, err := delivery.NewPosition(point, nil, nil, nil, recordedAt, delivery.SourcePush)
	s.Require().NoError(err)
	return p
}

func (s *QueriesIntegrationTestSuite) search(query queries.SearchAnnouncementsQuery) queries.SearchAnnouncementsQueryResponse {
	handler := queries.NewSearchAnnouncementsQueryHandler(s.db)
	result, err := handler.Handle(context.Background(), query)
	s.Require().NoError(err)
	return result
}

func (s *QueriesIntegrationTestSuite) TestSearchFiltersByStatusAndKeyword() {
	now := time.Now().UTC()
	published := s.seedAnnouncement(seedSpec{
		title: "Ship a guitar to Lyon", description: "Acoustic, hard case",
		pickupLat: 48.8566, pickupLng: 2.3522, price: 30, publishedAt: &now,
	})
	s.seedAnnouncement(seedSpec{
		title: "Draft guitar move", pickupLat: 48.8566, pickupLng: 2.3522, price: 30,
	})

	status := announcement.Published
	query, err := queries.NewSearchAnnouncementsQuery(queries.SearchFilters{
		Status:  &status,
		Keyword: "guitar",
	}, queries.SortByPublishedAt, 0, 0)
	s.Require().NoError(err)

	result := s.search(query)
	s.Require().Len(result.Items, 1)
	s.True(result.Items[0].ID.IsEqual(published.ID()))
	s.False(result.HasMore)
}

func (s *QueriesIntegrationTestSuite) TestSearchFiltersByTagAndPriceRange() {
	now := time.Now().UTC()
	match := s.seedAnnouncement(seedSpec{
		title: "Parcel A", pickupLat: 48.85, pickupLng: 2.35,
		price: 30, tags: []string{"fragile", "parcel"}, publishedAt: &now,
	})
	s.seedAnnouncement(seedSpec{
		title: "Parcel B", pickupLat: 48.85, pickupLng: 2.35,
		price: 80, tags: []string{"fragile"}, publishedAt: &now,
	})
	s.seedAnnouncement(seedSpec{
		title: "Parcel C", pickupLat: 48.85, pickupLng: 2.35,
		price: 35, tags: []string{"bulky"}, publishedAt: &now,
	})

	minPrice, maxPrice := 20.0, 50.0
	query, err := queries.NewSearchAnnouncementsQuery(queries.SearchFilters{
		Tag:      "fragile",
		MinPrice: &minPrice,
		MaxPrice: &maxPrice,
	}, queries.SortByPrice, 0, 0)
	s.Require().NoError(err)

	result := s.search(query)
	s.Require().Len(result.Items, 1)
	s.True(result.Items[0].ID.IsEqual(match.ID()))
}

func (s *QueriesIntegrationTestSuite) TestSearchPaginatesWithHasMore() {
	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		publishedAt := base.Add(time.Duration(i) * time.Minute)
		s.seedAnnouncement(seedSpec{
			title: "Page item", pickupLat: 48.85, pickupLng: 2.35,
			price: 30, publishedAt: &publishedAt,
		})
	}

	query, err := queries.NewSearchAnnouncementsQuery(
		queries.SearchFilters{}, queries.SortByPublishedAt, 2, 0)
	s.Require().NoError(err)

	first := s.search(query)
	s.Len(first.Items, 2)
	s.True(first.HasMore)

	query, err = queries.NewSearchAnnouncementsQuery(
		queries.SearchFilters{}, queries.SortByPublishedAt, 2, 4)
	s.Require().NoError(err)

	last := s.search(query)
	s.Len(last.Items, 1)
	s.False(last.HasMore)
}

func (s *QueriesIntegrationTestSuite) TestSearchByRadiusSortsByDistance() {
	now := time.Now().UTC()
	paris := s.seedAnnouncement(seedSpec{
		title: "Paris pickup", pickupLat: 48.8566, pickupLng: 2.3522,
		price: 30, publishedAt: &now,
	})
	versailles := s.seedAnnouncement(seedSpec{
		title: "Versailles pickup", pickupLat: 48.8049, pickupLng: 2.1204,
		price: 30, publishedAt: &now,
	})
	s.seedAnnouncement(seedSpec{
		title: "Marseille pickup", pickupLat: 43.2965, pickupLng: 5.3698,
		price: 30, publishedAt: &now,
	})

	origin, err := kernel.NewGeoPoint(48.8566, 2.3522)
	s.Require().NoError(err)

	query, err := queries.NewSearchAnnouncementsQuery(queries.SearchFilters{
		Origin:   &origin,
		RadiusKm: 30,
	}, queries.SortByDistance, 0, 0)
	s.Require().NoError(err)

	result := s.search(query)
	s.Require().Len(result.Items, 2)
	s.True(result.Items[0].ID.IsEqual(paris.ID()))
	s.True(result.Items[1].ID.IsEqual(versailles.ID()))

	s.Require().NotNil(result.Items[1].DistanceKm)
	s.InDelta(18.0, *result.Items[1].DistanceKm, 3.0)
}

func (s *QueriesIntegrationTestSuite) TestGetAnnouncementCountsTheView() {
	now := time.Now().UTC()
	a := s.seedAnnouncement(seedSpec{
		title: "Viewed announcement", description: "with a description",
		pickupLat: 48.85, pickupLng: 2.35, price: 30,
		tags: []string{"parcel"}, publishedAt: &now,
	})

	handler := queries.NewGetAnnouncementQueryHandler(s.db)

	query, err := queries.NewGetAnnouncementQuery(a.ID())
	s.Require().NoError(err)

	first, err := handler.Handle(context.Background(), query)
	s.Require().NoError(err)
	s.Equal("Viewed announcement", first.Title)
	s.Equal(1, first.ViewCount)
	s.Equal([]string{"parcel"}, first.Tags)

	second, err := handler.Handle(context.Background(), query)
	s.Require().NoError(err)
	s.Equal(2, second.ViewCount)
}

func (s *QueriesIntegrationTestSuite) TestGetAnnouncementUnknownID() {
	handler := queries.NewGetAnnouncementQueryHandler(s.db)

	query, err := queries.NewGetAnnouncementQuery(kernel.NewUUID())
	s.Require().NoError(err)

	_, err = handler.Handle(context.Background(), query)
	s.ErrorIs(err, errs.ErrObjectNotFound)
}

func (s *QueriesIntegrationTestSuite) TestTrackingViewAssemblesPathAndCurrent() {
	ctx := context.Background()
	d := s.seedDelivery()
	repo := deliveryrepo.NewGormDeliveryRepository(s.db)

	base := time.Now().UTC().Truncate(time.Millisecond)
	for i, offset := range []time.Duration{0, time.Minute, 2 * time.Minute} {
		p := s.position(47.0+float64(i)*0.1, base.Add(offset))
		s.Require().NoError(repo.AppendPosition(ctx, d.ID(), p))
		_, err := repo.UpdateCurrentLocation(ctx, d.ID(), p)
		s.Require().NoError(err)
	}

	handler := queries.NewGetDeliveryTrackingQueryHandler(s.db, s.tracker)

	deliveryID := d.ID()
	query, err := queries.NewGetDeliveryTrackingQuery(&deliveryID, "", nil)
	s.Require().NoError(err)

	view, err := handler.Handle(ctx, query)
	s.Require().NoError(err)
	s.Equal(d.TrackingCode(), view.TrackingCode)
	s.Equal(delivery.Accepted, view.Status)
	s.Require().Len(view.Path, 3)
	s.Require().NotNil(view.Current)
	s.True(view.Current.RecordedAt.Equal(base.Add(2 * time.Minute)))

	// The since filter trims the already seen prefix of the path.
	since := base.Add(30 * time.Second)
	query, err = queries.NewGetDeliveryTrackingQuery(&deliveryID, "", &since)
	s.Require().NoError(err)

	view, err = handler.Handle(ctx, query)
	s.Require().NoError(err)
	s.Len(view.Path, 2)
}

func (s *QueriesIntegrationTestSuite) TestTrackingByCodePrefersNewerTrackerPosition() {
	ctx := context.Background()
	d := s.seedDelivery()
	repo := deliveryrepo.NewGormDeliveryRepository(s.db)

	base := time.Now().UTC().Truncate(time.Millisecond)

	stored := s.position(47.0, base)
	s.Require().NoError(repo.AppendPosition(ctx, d.ID(), stored))
	_, err := repo.UpdateCurrentLocation(ctx, d.ID(), stored)
	s.Require().NoError(err)

	fresher := s.position(47.5, base.Add(time.Minute))
	_, err = s.tracker.Update(ctx, d.ID(), fresher)
	s.Require().NoError(err)

	handler := queries.NewGetDeliveryTrackingQueryHandler(s.db, s.tracker)

	query, err := queries.NewGetDeliveryTrackingQuery(nil, d.TrackingCode(), nil)
	s.Require().NoError(err)

	view, err := handler.Handle(ctx, query)
	s.Require().NoError(err)
	s.Require().NotNil(view.Current)
	s.True(view.Current.RecordedAt.Equal(base.Add(time.Minute)))
	s.InDelta(47.5, view.Current.Point.Lat(), 0.0001)
}

func (s *QueriesIntegrationTestSuite) TestTrackingOnTerminalDeliveryIgnoresTrackerCache() {
	ctx := context.Background()
	d := s.seedDelivery()
	repo := deliveryrepo.NewGormDeliveryRepository(s.db)

	base := time.Now().UTC().Truncate(time.Millisecond)

	last := s.position(47.0, base)
	s.Require().NoError(repo.AppendPosition(ctx, d.ID(), last))
	_, err := repo.UpdateCurrentLocation(ctx, d.ID(), last)
	s.Require().NoError(err)

	s.Require().NoError(d.Cancel(d.RequesterID()))
	s.Require().NoError(repo.Update(ctx, d))

	// A cache entry that outlived the cancellation must not resurface.
	leftover := s.position(48.0, base.Add(time.Minute))
	_, err = s.tracker.Update(ctx, d.ID(), leftover)
	s.Require().NoError(err)

	handler := queries.NewGetDeliveryTrackingQueryHandler(s.db, s.tracker)

	query, err := queries.NewGetDeliveryTrackingQuery(nil, d.TrackingCode(), nil)
	s.Require().NoError(err)

	view, err := handler.Handle(ctx, query)
	s.Require().NoError(err)
	s.Equal(delivery.Cancelled, view.Status)
	s.Require().NotNil(view.Current)
	s.True(view.Current.RecordedAt.Equal(base))
	s.InDelta(47.0, view.Current.Point.Lat(), 0.0001)
}

func (s *QueriesIntegrationTestSuite) TestTrackingUnknownCode() {
	handler := queries.NewGetDeliveryTrackingQueryHandler(s.db, s.tracker)

	query, err := queries.NewGetDeliveryTrackingQuery(nil, "ECO0UNKNOWN", nil)
	s.Require().NoError(err)

	_, err = handler.Handle(context.Background(), query)
	s.ErrorIs(err, errs.ErrObjectNotFound)
}

func TestQueriesIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(QueriesIntegrationTestSuite))
}
