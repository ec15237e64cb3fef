package commands_test

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"crowdship/internal/core/application/usecases/commands"
	"crowdship/internal/core/domain/model/announcement"
	"crowdship/internal/core/domain/model/kernel"
)

func createAnnouncementCmd(t *testing.T) commands.CreateAnnouncementCommand {
	t.Helper()
	pickup, err := announcement.NewAddress("10 Rue de Rivoli, Paris", nil)
	require.NoError(t, err)
	dropoff, err := announcement.NewAddress("3 Place Bellecour, Lyon", nil)
	require.NoError(t, err)

	cmd, err := commands.NewCreateAnnouncementCommand(
		kernel.NewUUID(), kernel.NewUUID(),
		"Box of books to Lyon", "",
		announcement.TypePackage, announcement.PriorityMedium,
		pickup, dropoff,
		announcement.PhysicalAttributes{WeightKg: 12},
		nil, nil, 45.0, true, nil)
	require.NoError(t, err)
	return cmd
}

func TestNewCreateAnnouncementCommand_RequiresValidIDs(t *testing.T) {
	var zero kernel.UUID
	pickup, err := announcement.NewAddress("a", nil)
	require.NoError(t, err)

	_, err = commands.NewCreateAnnouncementCommand(
		zero, kernel.NewUUID(), "t", "",
		announcement.TypePackage, announcement.PriorityLow,
		pickup, pickup, announcement.PhysicalAttributes{},
		nil, nil, 10, false, nil)

	require.Error(t, err)
}

func TestCreateAnnouncementCommand_Validate_ZeroValue(t *testing.T) {
	var cmd commands.CreateAnnouncementCommand

	require.ErrorIs(t, cmd.Validate(), commands.ErrCreateAnnouncementCommandIsNotConstructed)
}

func TestCreateAnnouncementCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd := createAnnouncementCmd(t)

	uow := new(MockUoW)
	factory := new(MockAnnouncementUoWFactory)
	factory.On("Create").Return(uow).Once()

	repo := new(MockAnnouncementRepository)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("AnnouncementRepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*announcement.Announcement")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	h := commands.NewCreateAnnouncementCommandHandler(factory)
	err := h.Handle(ctx, cmd)

	require.NoError(t, err)

	created := repo.Calls[0].Arguments.Get(1).(*announcement.Announcement)
	require.Equal(t, announcement.Pending, created.Status())
	require.Zero(t, created.ViewCount())
	require.Zero(t, created.ApplicationsCount())
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestCreateAnnouncementCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	factory := new(MockAnnouncementUoWFactory)
	h := commands.NewCreateAnnouncementCommandHandler(factory)

	err := h.Handle(ctx, commands.CreateAnnouncementCommand{})

	require.Error(t, err)
	factory.AssertNotCalled(t, "Create")
}
