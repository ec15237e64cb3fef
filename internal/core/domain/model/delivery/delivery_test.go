package delivery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/pkg/errs"
)

const testMaxAttempts = 3

func mustPoint(t *testing.T, lat, lng float64) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(lat, lng)
	require.NoError(t, err)
	return p
}

func mustBreakdown(t *testing.T) PriceBreakdown {
	t.Helper()
	p, err := NewPriceBreakdown(50.0, 42.50, 7.50)
	require.NoError(t, err)
	return p
}

func newAcceptedDelivery(t *testing.T) *Delivery {
	t.Helper()
	dropoff := mustPoint(t, 45.7640, 4.8357)
	d, err := NewDelivery(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		NewTrackingCode(time.Now()), "731946", &dropoff, mustBreakdown(t))
	require.NoError(t, err)
	return d
}

func proofCheckpointAt(t *testing.T, cType CheckpointType, point *kernel.GeoPoint) Checkpoint {
	t.Helper()
	cp, err := NewCheckpoint(
		kernel.NewUUID(), cType, nil, time.Now(), point,
		"https://proofs.example/drop.jpg", "", "")
	require.NoError(t, err)
	return cp
}

// drives a fresh delivery up to DELIVERED through the courier's operations
func deliveredDelivery(t *testing.T) *Delivery {
	t.Helper()
	d := newAcceptedDelivery(t)
	courier := d.CourierID()
	require.NoError(t, d.MarkPickedUp(courier, d.PickupCode(), nil, time.Now()))
	require.NoError(t, d.StartTransit(courier))
	atDropoff := mustPoint(t, 45.7641, 4.8358)
	require.NoError(t, d.MarkDelivered(courier, proofCheckpointAt(t, CheckpointDelivery, &atDropoff), time.Now()))
	return d
}

func Test_NewDelivery_starts_accepted(t *testing.T) {
	// Given
	announcementID := kernel.NewUUID()

	// When
	d, err := NewDelivery(
		kernel.NewUUID(), announcementID, kernel.NewUUID(), kernel.NewUUID(),
		NewTrackingCode(time.Now()), "123456", nil, mustBreakdown(t))

	// Then
	require.NoError(t, err)
	assert.Equal(t, Accepted, d.Status())
	assert.Equal(t, announcementID, d.AnnouncementID())
	assert.Empty(t, d.ConfirmationCode())
	assert.Nil(t, d.CurrentPosition())
	assert.Empty(t, d.Checkpoints())
	assert.NoError(t, d.Validate())
}

func Test_NewDelivery_requires_tracking_code(t *testing.T) {
	_, err := NewDelivery(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		"", "123456", nil, mustBreakdown(t))

	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func Test_MarkPickedUp_with_matching_code(t *testing.T) {
	// Given
	d := newAcceptedDelivery(t)
	now := time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)

	// When
	err := d.MarkPickedUp(d.CourierID(), d.PickupCode(), nil, now)

	// Then
	require.NoError(t, err)
	assert.Equal(t, PickedUp, d.Status())
	require.NotNil(t, d.PickedUpAt())
	assert.Equal(t, now, *d.PickedUpAt())
}

func Test_MarkPickedUp_with_wrong_code_and_no_proof_fails(t *testing.T) {
	d := newAcceptedDelivery(t)

	err := d.MarkPickedUp(d.CourierID(), "000000", nil, time.Now())

	assert.ErrorIs(t, err, ErrPickupCodeMismatch)
	assert.Equal(t, Accepted, d.Status())
}

func Test_MarkPickedUp_with_proof_checkpoint_instead_of_code(t *testing.T) {
	// Given
	d := newAcceptedDelivery(t)
	proof := proofCheckpointAt(t, CheckpointPickup, nil)

	// When
	err := d.MarkPickedUp(d.CourierID(), "", &proof, time.Now())

	// Then
	require.NoError(t, err)
	assert.Equal(t, PickedUp, d.Status())
	assert.Len(t, d.Checkpoints(), 1)
}

func Test_MarkPickedUp_by_stranger_is_forbidden(t *testing.T) {
	d := newAcceptedDelivery(t)

	err := d.MarkPickedUp(kernel.NewUUID(), d.PickupCode(), nil, time.Now())

	assert.ErrorIs(t, err, errs.ErrForbidden)
}

func Test_MarkPickedUp_by_requester_is_forbidden(t *testing.T) {
	d := newAcceptedDelivery(t)

	err := d.MarkPickedUp(d.RequesterID(), d.PickupCode(), nil, time.Now())

	assert.ErrorIs(t, err, errs.ErrForbidden)
}

func Test_MarkDelivered_before_MarkPickedUp_fails(t *testing.T) {
	// Given
	d := newAcceptedDelivery(t)
	atDropoff := mustPoint(t, 45.7641, 4.8358)

	// When
	err := d.MarkDelivered(d.CourierID(), proofCheckpointAt(t, CheckpointDelivery, &atDropoff), time.Now())

	// Then
	assert.ErrorIs(t, err, errs.ErrInvalidStateTransition)
}

func Test_MarkDelivered_requires_proof(t *testing.T) {
	// Given
	d := newAcceptedDelivery(t)
	courier := d.CourierID()
	require.NoError(t, d.MarkPickedUp(courier, d.PickupCode(), nil, time.Now()))
	require.NoError(t, d.StartTransit(courier))
	noProof, err := NewCheckpoint(kernel.NewUUID(), CheckpointDelivery, nil, time.Now(), nil, "", "", "")
	require.NoError(t, err)

	// When
	err = d.MarkDelivered(courier, noProof, time.Now())

	// Then
	assert.ErrorIs(t, err, ErrProofRequired)
}

func Test_MarkDelivered_rejects_proof_far_from_dropoff(t *testing.T) {
	// Given
	d := newAcceptedDelivery(t)
	courier := d.CourierID()
	require.NoError(t, d.MarkPickedUp(courier, d.PickupCode(), nil, time.Now()))
	require.NoError(t, d.StartTransit(courier))
	// Paris, about 390km from the Lyon dropoff
	farAway := mustPoint(t, 48.8566, 2.3522)

	// When
	err := d.MarkDelivered(courier, proofCheckpointAt(t, CheckpointDelivery, &farAway), time.Now())

	// Then
	assert.ErrorIs(t, err, ErrProofTooFarFromDropoff)
	assert.Equal(t, InTransit, d.Status())
}

func Test_MarkDelivered_accepts_proof_near_dropoff(t *testing.T) {
	// Given
	d := newAcceptedDelivery(t)
	courier := d.CourierID()
	require.NoError(t, d.MarkPickedUp(courier, d.PickupCode(), nil, time.Now()))
	require.NoError(t, d.StartTransit(courier))
	now := time.Date(2026, 3, 3, 18, 0, 0, 0, time.UTC)
	atDropoff := mustPoint(t, 45.7641, 4.8358)

	// When
	err := d.MarkDelivered(courier, proofCheckpointAt(t, CheckpointDelivery, &atDropoff), now)

	// Then
	require.NoError(t, err)
	assert.Equal(t, Delivered, d.Status())
	require.NotNil(t, d.DeliveredAt())
	assert.Equal(t, now, *d.DeliveredAt())
	assert.Len(t, d.Checkpoints(), 1)
}

func Test_Confirm_happy_path(t *testing.T) {
	// Given
	d := deliveredDelivery(t)
	require.NoError(t, d.SetConfirmationCode(d.RequesterID(), "482913"))
	now := time.Date(2026, 3, 3, 19, 0, 0, 0, time.UTC)

	// When
	err := d.Confirm(d.RequesterID(), "482913", testMaxAttempts, now)

	// Then
	require.NoError(t, err)
	assert.Equal(t, Confirmed, d.Status())
	assert.True(t, d.ConfirmationConsumed())
	require.NotNil(t, d.ConfirmedAt())
	assert.Equal(t, now, *d.ConfirmedAt())
}

func Test_Confirm_with_consumed_code_fails_as_expired(t *testing.T) {
	// Given
	d := deliveredDelivery(t)
	require.NoError(t, d.SetConfirmationCode(d.RequesterID(), "482913"))
	require.NoError(t, d.Confirm(d.RequesterID(), "482913", testMaxAttempts, time.Now()))

	// When
	err := d.Confirm(d.RequesterID(), "482913", testMaxAttempts, time.Now())

	// Then
	assert.ErrorIs(t, err, errs.ErrInvalidStateTransition)
}

func Test_Confirm_mismatch_counts_attempts_then_locks_out(t *testing.T) {
	// Given
	d := deliveredDelivery(t)
	require.NoError(t, d.SetConfirmationCode(d.RequesterID(), "482913"))

	// When
	for i := 0; i < testMaxAttempts; i++ {
		assert.ErrorIs(t, d.Confirm(d.RequesterID(), "000000", testMaxAttempts, time.Now()), ErrConfirmationMismatch)
	}
	err := d.Confirm(d.RequesterID(), "482913", testMaxAttempts, time.Now())

	// Then
	assert.ErrorIs(t, err, ErrTooManyAttempts)
	assert.Equal(t, Delivered, d.Status())
}

func Test_Regenerating_code_resets_attempts_and_invalidates_previous(t *testing.T) {
	// Given
	d := deliveredDelivery(t)
	require.NoError(t, d.SetConfirmationCode(d.RequesterID(), "482913"))
	assert.ErrorIs(t, d.Confirm(d.RequesterID(), "111111", testMaxAttempts, time.Now()), ErrConfirmationMismatch)

	// When
	require.NoError(t, d.SetConfirmationCode(d.RequesterID(), "555444"))

	// Then
	assert.Zero(t, d.ConfirmationAttempts())
	assert.ErrorIs(t, d.Confirm(d.RequesterID(), "482913", testMaxAttempts, time.Now()), ErrConfirmationMismatch)
	assert.NoError(t, d.Confirm(d.RequesterID(), "555444", testMaxAttempts, time.Now()))
}

func Test_Confirm_before_delivered_fails(t *testing.T) {
	d := newAcceptedDelivery(t)
	require.NoError(t, d.SetConfirmationCode(d.RequesterID(), "482913"))

	err := d.Confirm(d.RequesterID(), "482913", testMaxAttempts, time.Now())

	assert.ErrorIs(t, err, errs.ErrInvalidStateTransition)
}

func Test_Confirm_without_generated_code_fails(t *testing.T) {
	d := deliveredDelivery(t)

	err := d.Confirm(d.RequesterID(), "482913", testMaxAttempts, time.Now())

	assert.ErrorIs(t, err, ErrConfirmationCodeNotGenerated)
}

func Test_Confirm_by_courier_is_forbidden(t *testing.T) {
	d := deliveredDelivery(t)
	require.NoError(t, d.SetConfirmationCode(d.RequesterID(), "482913"))

	err := d.Confirm(d.CourierID(), "482913", testMaxAttempts, time.Now())

	assert.ErrorIs(t, err, errs.ErrForbidden)
}

func Test_SetConfirmationCode_by_courier_is_forbidden(t *testing.T) {
	d := deliveredDelivery(t)

	err := d.SetConfirmationCode(d.CourierID(), "482913")

	assert.ErrorIs(t, err, errs.ErrForbidden)
}

func Test_ApplyPosition_monotonic_timestamp_wins(t *testing.T) {
	// Given
	d := newAcceptedDelivery(t)
	base := time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)
	at := func(sec int) Position {
		p, err := NewPosition(mustPoint(t, 45.76, 4.83), nil, nil, nil, base.Add(time.Duration(sec)*time.Second), SourcePush)
		require.NoError(t, err)
		return p
	}

	// When: t=10, then t=5 out of order, then t=12
	first := d.ApplyPosition(at(10))
	stale := d.ApplyPosition(at(5))
	latest := d.ApplyPosition(at(12))

	// Then
	assert.True(t, first)
	assert.False(t, stale)
	assert.True(t, latest)
	require.NotNil(t, d.CurrentPosition())
	assert.Equal(t, base.Add(12*time.Second), d.CurrentPosition().RecordedAt())
}

func Test_ApplyPosition_duplicate_timestamp_is_discarded(t *testing.T) {
	d := newAcceptedDelivery(t)
	recordedAt := time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)
	p, err := NewPosition(mustPoint(t, 45.76, 4.83), nil, nil, nil, recordedAt, SourcePoll)
	require.NoError(t, err)

	assert.True(t, d.ApplyPosition(p))
	assert.False(t, d.ApplyPosition(p))
}

func Test_ApplyPosition_on_terminal_delivery_is_discarded(t *testing.T) {
	// Given
	d := deliveredDelivery(t)
	require.NoError(t, d.SetConfirmationCode(d.RequesterID(), "482913"))
	require.NoError(t, d.Confirm(d.RequesterID(), "482913", testMaxAttempts, time.Now()))

	fresh, err := NewPosition(mustPoint(t, 45.76, 4.83), nil, nil, nil, time.Now().Add(time.Hour), SourcePush)
	require.NoError(t, err)

	// When
	applied := d.ApplyPosition(fresh)

	// Then
	assert.False(t, applied)
	assert.Nil(t, d.CurrentPosition())

	cancelled := newAcceptedDelivery(t)
	require.NoError(t, cancelled.Cancel(cancelled.RequesterID()))
	assert.False(t, cancelled.ApplyPosition(fresh))
}

func Test_AddCheckpoint_is_append_only_and_courier_owned(t *testing.T) {
	// Given
	d := newAcceptedDelivery(t)
	waypoint := proofCheckpointAt(t, CheckpointWaypoint, nil)

	// When
	err := d.AddCheckpoint(d.CourierID(), waypoint)

	// Then
	require.NoError(t, err)
	assert.Len(t, d.Checkpoints(), 1)

	assert.ErrorIs(t, d.AddCheckpoint(d.RequesterID(), waypoint), errs.ErrForbidden)
}

func Test_AddCheckpoint_on_terminal_delivery_fails(t *testing.T) {
	d := newAcceptedDelivery(t)
	require.NoError(t, d.Cancel(d.RequesterID()))

	err := d.AddCheckpoint(d.CourierID(), proofCheckpointAt(t, CheckpointWaypoint, nil))

	assert.ErrorIs(t, err, errs.ErrInvalidStateTransition)
}

func Test_Cancel_by_either_party(t *testing.T) {
	t.Run("requester", func(t *testing.T) {
		d := newAcceptedDelivery(t)

		assert.NoError(t, d.Cancel(d.RequesterID()))
		assert.Equal(t, Cancelled, d.Status())
	})

	t.Run("courier", func(t *testing.T) {
		d := newAcceptedDelivery(t)

		assert.NoError(t, d.Cancel(d.CourierID()))
		assert.Equal(t, Cancelled, d.Status())
	})

	t.Run("stranger_is_forbidden", func(t *testing.T) {
		d := newAcceptedDelivery(t)

		assert.ErrorIs(t, d.Cancel(kernel.NewUUID()), errs.ErrForbidden)
	})
}

func Test_Fail_is_courier_only(t *testing.T) {
	d := newAcceptedDelivery(t)

	assert.ErrorIs(t, d.Fail(d.RequesterID()), errs.ErrForbidden)
	assert.NoError(t, d.Fail(d.CourierID()))
	assert.Equal(t, Failed, d.Status())
}

func Test_Dispute_and_resolution_to_confirmed(t *testing.T) {
	// Given
	d := deliveredDelivery(t)
	require.NoError(t, d.SetConfirmationCode(d.RequesterID(), "482913"))
	require.NoError(t, d.Dispute(d.RequesterID()))
	assert.Equal(t, Disputed, d.Status())

	// When
	err := d.Confirm(d.RequesterID(), "482913", testMaxAttempts, time.Now())

	// Then
	require.NoError(t, err)
	assert.Equal(t, Confirmed, d.Status())
}

func Test_Delivery_zero_value_fails_validation(t *testing.T) {
	var d Delivery

	assert.ErrorIs(t, d.Validate(), ErrDeliveryIsNotConstructed)
}
