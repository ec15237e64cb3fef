// Package redis provides the Redis-backed fast path for delivery current
// locations. The store is a cache in front of the deliveries table: lookups
// hit Redis first and the database row remains the durable copy.
package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	goredis "github.com/redis/go-redis/v9"

	"crowdship/internal/core/domain/model/delivery"
	"crowdship/internal/core/domain/model/kernel"
)

const keyPrefix = "crowdship:delivery:location:"

// DefaultLocationTTL bounds how long a current location outlives its last
// update. In-flight deliveries refresh the key constantly; finished ones age
// out on their own.
const DefaultLocationTTL = 24 * time.Hour

// updateScript applies newer-wins per key. The timestamp comparison and the
// write happen inside one script, so concurrent writers for the same
// delivery cannot interleave between the read and the write.
var updateScript = goredis.NewScript(`
	local stored = tonumber(redis.call('HGET', KEYS[1], 'ts'))
	local incoming = tonumber(ARGV[1])
	if stored and stored >= incoming then
		return 0
	end
	redis.call('HSET', KEYS[1], 'ts', ARGV[1], 'payload', ARGV[2])
	redis.call('PEXPIRE', KEYS[1], ARGV[3])
	return 1
`)

// positionPayload is the wire form of a position stored in Redis.
type positionPayload struct {
	Lat        float64  `json:"lat"`
	Lng        float64  `json:"lng"`
	AccuracyM  *float64 `json:"accuracy_m,omitempty"`
	Heading    *float64 `json:"heading,omitempty"`
	SpeedKmh   *float64 `json:"speed_kmh,omitempty"`
	RecordedAt int64    `json:"recorded_at_us"`
	Source     int      `json:"source"`
}

// LocationTracker implements ports.LocationTracker on Redis.
type LocationTracker struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewLocationTracker creates a tracker on the given client. A non-positive
// ttl falls back to DefaultLocationTTL.
func NewLocationTracker(client *goredis.Client, ttl time.Duration) *LocationTracker {
	if ttl <= 0 {
		ttl = DefaultLocationTTL
	}
	return &LocationTracker{client: client, ttl: ttl}
}

// Update stores the position if it is strictly newer than the cached one.
// Returns true when the position became current.
func (t *LocationTracker) Update(
	ctx context.Context,
	deliveryID kernel.UUID,
	position delivery.Position,
) (bool, error) {
	payload, err := json.Marshal(positionPayload{
		Lat:        position.Point().Lat(),
		Lng:        position.Point().Lng(),
		AccuracyM:  position.AccuracyM(),
		Heading:    position.Heading(),
		SpeedKmh:   position.SpeedKmh(),
		RecordedAt: position.RecordedAt().UnixMicro(),
		Source:     int(position.Source()),
	})
	if err != nil {
		return false, errors.Wrap(err, "marshal position")
	}

	result, err := updateScript.Run(ctx, t.client,
		[]string{keyPrefix + deliveryID.String()},
		position.RecordedAt().UnixMicro(),
		payload,
		t.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return false, errors.Wrap(err, "run location update script")
	}

	return result == 1, nil
}

// Current returns the cached position, or nil when the key is absent or
// expired.
func (t *LocationTracker) Current(
	ctx context.Context,
	deliveryID kernel.UUID,
) (*delivery.Position, error) {
	raw, err := t.client.HGet(ctx, keyPrefix+deliveryID.String(), "payload").Result()
	if err == goredis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read cached location")
	}

	var payload positionPayload
	if err = json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, errors.Wrap(err, "unmarshal cached location")
	}

	point, err := kernel.NewGeoPoint(payload.Lat, payload.Lng)
	if err != nil {
		return nil, err
	}

	position, err := delivery.NewPosition(
		point, payload.AccuracyM, payload.Heading, payload.SpeedKmh,
		time.UnixMicro(payload.RecordedAt).UTC(), delivery.Source(payload.Source))
	if err != nil {
		return nil, err
	}

	return &position, nil
}
