package commands_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"crowdship/internal/core/domain/model/announcement"
	"crowdship/internal/core/domain/model/application"
	"crowdship/internal/core/domain/model/delivery"
	"crowdship/internal/core/domain/model/kernel"
)

func timeNowUTC() time.Time {
	return time.Now().UTC()
}

func pendingAnnouncement(t *testing.T, requesterID kernel.UUID) *announcement.Announcement {
	t.Helper()
	pickup, err := announcement.NewAddress("10 Rue de Rivoli, Paris", nil)
	require.NoError(t, err)
	dropoff, err := announcement.NewAddress("3 Place Bellecour, Lyon", nil)
	require.NoError(t, err)

	a, err := announcement.NewAnnouncement(
		kernel.NewUUID(), requesterID,
		"Box of books to Lyon", "",
		announcement.TypePackage, announcement.PriorityMedium,
		pickup, dropoff,
		announcement.PhysicalAttributes{WeightKg: 12},
		nil, nil, 45.0, true, nil)
	require.NoError(t, err)
	return a
}

func publishedAnnouncement(t *testing.T, requesterID kernel.UUID) *announcement.Announcement {
	t.Helper()
	a := pendingAnnouncement(t, requesterID)
	require.NoError(t, a.Publish(time.Now().UTC()))
	return a
}

func pendingApplication(t *testing.T, announcementID, courierID kernel.UUID) *application.Application {
	t.Helper()
	app, err := application.NewApplication(
		kernel.NewUUID(), announcementID, courierID, 40.0, "Can pick up tomorrow")
	require.NoError(t, err)
	return app
}

func acceptedDelivery(t *testing.T, requesterID, courierID kernel.UUID) *delivery.Delivery {
	t.Helper()
	price, err := delivery.NewPriceBreakdown(40.0, 34.0, 6.0)
	require.NoError(t, err)

	d, err := delivery.NewDelivery(
		kernel.NewUUID(), kernel.NewUUID(), requesterID, courierID,
		delivery.NewTrackingCode(time.Now()), "731946", nil, price)
	require.NoError(t, err)
	return d
}

func deliveredDelivery(t *testing.T, requesterID, courierID kernel.UUID) *delivery.Delivery {
	t.Helper()
	d := acceptedDelivery(t, requesterID, courierID)
	require.NoError(t, d.MarkPickedUp(courierID, d.PickupCode(), nil, time.Now()))
	require.NoError(t, d.StartTransit(courierID))

	proof, err := delivery.NewCheckpoint(
		kernel.NewUUID(), delivery.CheckpointDelivery, nil, time.Now(), nil,
		"https://proofs.example/drop.jpg", "", "")
	require.NoError(t, err)
	require.NoError(t, d.MarkDelivered(courierID, proof, time.Now()))
	return d
}
