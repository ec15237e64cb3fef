package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisadapter "crowdship/internal/adapters/out/redis"
	"crowdship/internal/core/domain/model/delivery"
	"crowdship/internal/core/domain/model/kernel"
)

func newTracker(t *testing.T) *redisadapter.LocationTracker {
	t.Helper()

	server := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return redisadapter.NewLocationTracker(client, time.Hour)
}

func position(t *testing.T, lat, lng float64, recordedAt time.Time) delivery.Position {
	t.Helper()

	point, err := kernel.NewGeoPoint(lat, lng)
	require.NoError(t, err)

	speed := 42.5
	p, err := delivery.NewPosition(point, nil, nil, &speed, recordedAt, delivery.SourcePush)
	require.NoError(t, err)

	return p
}

func TestLocationTracker_FirstUpdateWins(t *testing.T) {
	tracker := newTracker(t)
	deliveryID := kernel.NewUUID()
	now := time.Now().UTC().Truncate(time.Microsecond)

	applied, err := tracker.Update(context.Background(), deliveryID, position(t, 48.85, 2.35, now))

	require.NoError(t, err)
	assert.True(t, applied)

	current, err := tracker.Current(context.Background(), deliveryID)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.InDelta(t, 48.85, current.Point().Lat(), 1e-9)
	assert.True(t, current.RecordedAt().Equal(now))
	require.NotNil(t, current.SpeedKmh())
	assert.InDelta(t, 42.5, *current.SpeedKmh(), 1e-9)
}

func TestLocationTracker_NewerTimestampReplacesOlder(t *testing.T) {
	tracker := newTracker(t)
	deliveryID := kernel.NewUUID()
	base := time.Now().UTC().Truncate(time.Microsecond)
	ctx := context.Background()

	applied, err := tracker.Update(ctx, deliveryID, position(t, 48.0, 2.0, base.Add(10*time.Second)))
	require.NoError(t, err)
	require.True(t, applied)

	// Stale update arrives late over the poll fallback.
	applied, err = tracker.Update(ctx, deliveryID, position(t, 40.0, 1.0, base.Add(5*time.Second)))
	require.NoError(t, err)
	assert.False(t, applied)

	applied, err = tracker.Update(ctx, deliveryID, position(t, 47.5, 2.5, base.Add(12*time.Second)))
	require.NoError(t, err)
	assert.True(t, applied)

	current, err := tracker.Current(ctx, deliveryID)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.True(t, current.RecordedAt().Equal(base.Add(12*time.Second)))
	assert.InDelta(t, 47.5, current.Point().Lat(), 1e-9)
}

func TestLocationTracker_DuplicateTimestampIsDiscarded(t *testing.T) {
	tracker := newTracker(t)
	deliveryID := kernel.NewUUID()
	now := time.Now().UTC().Truncate(time.Microsecond)
	ctx := context.Background()

	applied, err := tracker.Update(ctx, deliveryID, position(t, 48.0, 2.0, now))
	require.NoError(t, err)
	require.True(t, applied)

	applied, err = tracker.Update(ctx, deliveryID, position(t, 48.0, 2.0, now))
	require.NoError(t, err)
	assert.False(t, applied)
}

func TestLocationTracker_CurrentForUnknownDelivery(t *testing.T) {
	tracker := newTracker(t)

	current, err := tracker.Current(context.Background(), kernel.NewUUID())

	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestLocationTracker_DeliveriesAreIndependent(t *testing.T) {
	tracker := newTracker(t)
	ctx := context.Background()
	first := kernel.NewUUID()
	second := kernel.NewUUID()
	now := time.Now().UTC().Truncate(time.Microsecond)

	applied, err := tracker.Update(ctx, first, position(t, 48.0, 2.0, now.Add(10*time.Second)))
	require.NoError(t, err)
	require.True(t, applied)

	// An older timestamp on another delivery's key is not stale.
	applied, err = tracker.Update(ctx, second, position(t, 45.0, 4.0, now))
	require.NoError(t, err)
	assert.True(t, applied)
}
