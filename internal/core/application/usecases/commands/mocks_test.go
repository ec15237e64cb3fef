package commands_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"crowdship/internal/core/application/usecases/commands"
	"crowdship/internal/core/domain/model/announcement"
	"crowdship/internal/core/domain/model/application"
	"crowdship/internal/core/domain/model/delivery"
	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/core/domain/model/rating"
	"crowdship/internal/core/ports"
)

type MockAnnouncementRepository struct{ mock.Mock }

func (m *MockAnnouncementRepository) Add(ctx context.Context, a *announcement.Announcement) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAnnouncementRepository) Update(ctx context.Context, a *announcement.Announcement) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAnnouncementRepository) UpdateGuarded(ctx context.Context, a *announcement.Announcement, expectedStatus announcement.Status) error {
	args := m.Called(ctx, a, expectedStatus)
	return args.Error(0)
}

func (m *MockAnnouncementRepository) Get(ctx context.Context, id kernel.UUID) (*announcement.Announcement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*announcement.Announcement), args.Error(1)
}

func (m *MockAnnouncementRepository) Delete(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAnnouncementRepository) IncrementViewCount(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAnnouncementRepository) IncrementApplicationsCount(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAnnouncementRepository) GetPublishedBefore(ctx context.Context, cutoff time.Time) ([]*announcement.Announcement, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*announcement.Announcement), args.Error(1)
}

type MockApplicationRepository struct{ mock.Mock }

func (m *MockApplicationRepository) Add(ctx context.Context, a *application.Application) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockApplicationRepository) Update(ctx context.Context, a *application.Application) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockApplicationRepository) Get(ctx context.Context, id kernel.UUID) (*application.Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.Application), args.Error(1)
}

func (m *MockApplicationRepository) GetByAnnouncement(ctx context.Context, announcementID kernel.UUID) ([]*application.Application, error) {
	args := m.Called(ctx, announcementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*application.Application), args.Error(1)
}

func (m *MockApplicationRepository) RejectPendingSiblings(ctx context.Context, announcementID, acceptedID kernel.UUID) error {
	args := m.Called(ctx, announcementID, acceptedID)
	return args.Error(0)
}

func (m *MockApplicationRepository) DeletePending(ctx context.Context, announcementID kernel.UUID) error {
	args := m.Called(ctx, announcementID)
	return args.Error(0)
}

type MockDeliveryRepository struct{ mock.Mock }

func (m *MockDeliveryRepository) Add(ctx context.Context, d *delivery.Delivery) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDeliveryRepository) Update(ctx context.Context, d *delivery.Delivery) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDeliveryRepository) Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Delivery), args.Error(1)
}

func (m *MockDeliveryRepository) GetByAnnouncement(ctx context.Context, announcementID kernel.UUID) (*delivery.Delivery, error) {
	args := m.Called(ctx, announcementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Delivery), args.Error(1)
}

func (m *MockDeliveryRepository) GetByTrackingCode(ctx context.Context, code string) (*delivery.Delivery, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Delivery), args.Error(1)
}

func (m *MockDeliveryRepository) UpdateCurrentLocation(ctx context.Context, deliveryID kernel.UUID, position delivery.Position) (bool, error) {
	args := m.Called(ctx, deliveryID, position)
	return args.Bool(0), args.Error(1)
}

func (m *MockDeliveryRepository) AppendPosition(ctx context.Context, deliveryID kernel.UUID, position delivery.Position) error {
	args := m.Called(ctx, deliveryID, position)
	return args.Error(0)
}

func (m *MockDeliveryRepository) IncrementConfirmationAttempts(ctx context.Context, deliveryID kernel.UUID) error {
	args := m.Called(ctx, deliveryID)
	return args.Error(0)
}

func (m *MockDeliveryRepository) ListPositions(ctx context.Context, deliveryID kernel.UUID, since *time.Time) ([]delivery.Position, error) {
	args := m.Called(ctx, deliveryID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]delivery.Position), args.Error(1)
}

func (m *MockDeliveryRepository) CountActiveByCourier(ctx context.Context, courierID kernel.UUID) (int, error) {
	args := m.Called(ctx, courierID)
	return args.Int(0), args.Error(1)
}

type MockRatingRepository struct{ mock.Mock }

func (m *MockRatingRepository) Add(ctx context.Context, r *rating.Rating) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRatingRepository) GetByDelivery(ctx context.Context, deliveryID kernel.UUID) ([]*rating.Rating, error) {
	args := m.Called(ctx, deliveryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*rating.Rating), args.Error(1)
}

// MockUoW implements every commands UoW interface so a single mock serves
// all handlers.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) AnnouncementRepository() ports.AnnouncementRepository {
	args := m.Called()
	return args.Get(0).(ports.AnnouncementRepository)
}

func (m *MockUoW) ApplicationRepository() ports.ApplicationRepository {
	args := m.Called()
	return args.Get(0).(ports.ApplicationRepository)
}

func (m *MockUoW) DeliveryRepository() ports.DeliveryRepository {
	args := m.Called()
	return args.Get(0).(ports.DeliveryRepository)
}

func (m *MockUoW) RatingRepository() ports.RatingRepository {
	args := m.Called()
	return args.Get(0).(ports.RatingRepository)
}

type MockAnnouncementUoWFactory struct{ mock.Mock }

func (m *MockAnnouncementUoWFactory) Create() commands.AnnouncementUoW {
	args := m.Called()
	return args.Get(0).(commands.AnnouncementUoW)
}

type MockMatchingUoWFactory struct{ mock.Mock }

func (m *MockMatchingUoWFactory) Create() commands.MatchingUoW {
	args := m.Called()
	return args.Get(0).(commands.MatchingUoW)
}

type MockDeliveryUoWFactory struct{ mock.Mock }

func (m *MockDeliveryUoWFactory) Create() commands.DeliveryUoW {
	args := m.Called()
	return args.Get(0).(commands.DeliveryUoW)
}

type MockLifecycleUoWFactory struct{ mock.Mock }

func (m *MockLifecycleUoWFactory) Create() commands.LifecycleUoW {
	args := m.Called()
	return args.Get(0).(commands.LifecycleUoW)
}

type MockRatingUoWFactory struct{ mock.Mock }

func (m *MockRatingUoWFactory) Create() commands.RatingUoW {
	args := m.Called()
	return args.Get(0).(commands.RatingUoW)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) PublishAnnouncementStatusChanged(ctx context.Context, a *announcement.Announcement) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishDeliveryStatusChanged(ctx context.Context, d *delivery.Delivery) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishDeliveryConfirmed(ctx context.Context, d *delivery.Delivery) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

type MockCourierGateway struct{ mock.Mock }

func (m *MockCourierGateway) VerifyEligibility(ctx context.Context, courierID kernel.UUID) error {
	args := m.Called(ctx, courierID)
	return args.Error(0)
}

type MockLocationTracker struct{ mock.Mock }

func (m *MockLocationTracker) Update(ctx context.Context, deliveryID kernel.UUID, position delivery.Position) (bool, error) {
	args := m.Called(ctx, deliveryID, position)
	return args.Bool(0), args.Error(1)
}

func (m *MockLocationTracker) Current(ctx context.Context, deliveryID kernel.UUID) (*delivery.Position, error) {
	args := m.Called(ctx, deliveryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Position), args.Error(1)
}
