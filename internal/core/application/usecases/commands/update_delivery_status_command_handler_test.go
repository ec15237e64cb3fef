package commands_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"crowdship/internal/core/application/usecases/commands"
	"crowdship/internal/core/domain/model/announcement"
	"crowdship/internal/core/domain/model/delivery"
	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/pkg/errs"
)

func lifecycleHandlerFixture(t *testing.T) (commands.UpdateDeliveryStatusCommandHandler, *MockUoW, *MockEventPublisher) {
	t.Helper()
	uow := new(MockUoW)
	factory := new(MockLifecycleUoWFactory)
	factory.On("Create").Return(uow).Once()

	publisher := new(MockEventPublisher)

	return commands.NewUpdateDeliveryStatusCommandHandler(factory, publisher), uow, publisher
}

func TestUpdateDeliveryStatusCommandHandler_Handle_PickedUp_StartsAnnouncement(t *testing.T) {
	ctx := t.Context()
	requesterID := kernel.NewUUID()
	courierID := kernel.NewUUID()
	d := acceptedDelivery(t, requesterID, courierID)
	a := publishedAnnouncement(t, requesterID)
	require.NoError(t, a.Assign(courierID, 40.0))

	h, uow, publisher := lifecycleHandlerFixture(t)

	deliveryRepo := new(MockDeliveryRepository)
	announcementRepo := new(MockAnnouncementRepository)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	uow.On("DeliveryRepository").Return(deliveryRepo)
	uow.On("AnnouncementRepository").Return(announcementRepo)

	deliveryRepo.On("Get", ctx, d.ID()).Return(d, nil).Once()
	deliveryRepo.On("Update", ctx, d).Return(nil).Once()
	announcementRepo.On("Get", ctx, d.AnnouncementID()).Return(a, nil).Once()
	announcementRepo.On("Update", ctx, a).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	publisher.On("PublishDeliveryStatusChanged", ctx, d).Return(nil).Once()
	publisher.On("PublishAnnouncementStatusChanged", ctx, a).Return(nil).Once()

	cmd, err := commands.NewUpdateDeliveryStatusCommand(
		d.ID(), courierID, delivery.PickedUp, d.PickupCode(), nil)
	require.NoError(t, err)

	err = h.Handle(ctx, cmd)

	require.NoError(t, err)
	require.Equal(t, delivery.PickedUp, d.Status())
	require.Equal(t, announcement.InProgress, a.Status())
	uow.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestUpdateDeliveryStatusCommandHandler_Handle_DeliveredBeforePickedUp(t *testing.T) {
	ctx := t.Context()
	courierID := kernel.NewUUID()
	d := acceptedDelivery(t, kernel.NewUUID(), courierID)

	h, uow, _ := lifecycleHandlerFixture(t)

	deliveryRepo := new(MockDeliveryRepository)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	uow.On("DeliveryRepository").Return(deliveryRepo)
	deliveryRepo.On("Get", ctx, d.ID()).Return(d, nil).Once()

	cmd, err := commands.NewUpdateDeliveryStatusCommand(
		d.ID(), courierID, delivery.Delivered, "",
		&commands.CheckpointInput{
			Type:     delivery.CheckpointDelivery,
			PhotoURL: "https://proofs.example/drop.jpg",
		})
	require.NoError(t, err)

	err = h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrInvalidStateTransition)
	require.Equal(t, delivery.Accepted, d.Status())
	uow.AssertNotCalled(t, "Commit", ctx)
}

func TestUpdateDeliveryStatusCommandHandler_Handle_DeliveredWithoutCheckpoint(t *testing.T) {
	ctx := t.Context()
	courierID := kernel.NewUUID()
	d := acceptedDelivery(t, kernel.NewUUID(), courierID)
	require.NoError(t, d.MarkPickedUp(courierID, d.PickupCode(), nil, timeNowUTC()))
	require.NoError(t, d.StartTransit(courierID))

	h, uow, _ := lifecycleHandlerFixture(t)

	deliveryRepo := new(MockDeliveryRepository)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	uow.On("DeliveryRepository").Return(deliveryRepo)
	deliveryRepo.On("Get", ctx, d.ID()).Return(d, nil).Once()

	cmd, err := commands.NewUpdateDeliveryStatusCommand(
		d.ID(), courierID, delivery.Delivered, "", nil)
	require.NoError(t, err)

	err = h.Handle(ctx, cmd)

	require.ErrorIs(t, err, delivery.ErrProofRequired)
}

func TestUpdateDeliveryStatusCommandHandler_Handle_Cancel_CancelsAnnouncement(t *testing.T) {
	ctx := t.Context()
	requesterID := kernel.NewUUID()
	courierID := kernel.NewUUID()
	d := acceptedDelivery(t, requesterID, courierID)
	a := publishedAnnouncement(t, requesterID)
	require.NoError(t, a.Assign(courierID, 40.0))

	h, uow, publisher := lifecycleHandlerFixture(t)

	deliveryRepo := new(MockDeliveryRepository)
	announcementRepo := new(MockAnnouncementRepository)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	uow.On("DeliveryRepository").Return(deliveryRepo)
	uow.On("AnnouncementRepository").Return(announcementRepo)

	deliveryRepo.On("Get", ctx, d.ID()).Return(d, nil).Once()
	deliveryRepo.On("Update", ctx, d).Return(nil).Once()
	announcementRepo.On("Get", ctx, d.AnnouncementID()).Return(a, nil).Once()
	announcementRepo.On("Update", ctx, a).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	publisher.On("PublishDeliveryStatusChanged", ctx, d).Return(nil).Once()
	publisher.On("PublishAnnouncementStatusChanged", ctx, a).Return(nil).Once()

	cmd, err := commands.NewUpdateDeliveryStatusCommand(
		d.ID(), requesterID, delivery.Cancelled, "", nil)
	require.NoError(t, err)

	err = h.Handle(ctx, cmd)

	require.NoError(t, err)
	require.Equal(t, delivery.Cancelled, d.Status())
	require.Equal(t, announcement.Cancelled, a.Status())
}

func TestUpdateDeliveryStatusCommandHandler_Handle_ConfirmedIsRejected(t *testing.T) {
	ctx := t.Context()
	requesterID := kernel.NewUUID()
	d := deliveredDelivery(t, requesterID, kernel.NewUUID())

	h, uow, _ := lifecycleHandlerFixture(t)

	deliveryRepo := new(MockDeliveryRepository)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	uow.On("DeliveryRepository").Return(deliveryRepo)
	deliveryRepo.On("Get", ctx, d.ID()).Return(d, nil).Once()

	// confirmation must go through the confirmation flow, not this command
	cmd, err := commands.NewUpdateDeliveryStatusCommand(
		d.ID(), requesterID, delivery.Confirmed, "", nil)
	require.NoError(t, err)

	err = h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrInvalidStateTransition)
}
