package announcement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/pkg/errs"
)

func mustAddress(t *testing.T, line string) Address {
	t.Helper()
	addr, err := NewAddress(line, nil)
	require.NoError(t, err)
	return addr
}

func newValidAnnouncement(t *testing.T) *Announcement {
	t.Helper()
	a, err := NewAnnouncement(
		kernel.NewUUID(),
		kernel.NewUUID(),
		"Box of books to Lyon",
		"Two sealed boxes, about 12kg total",
		TypePackage,
		PriorityMedium,
		mustAddress(t, "10 Rue de Rivoli, Paris"),
		mustAddress(t, "3 Place Bellecour, Lyon"),
		PhysicalAttributes{WeightKg: 12},
		nil,
		nil,
		45.0,
		true,
		[]string{"books", "fragile"},
	)
	require.NoError(t, err)
	return a
}

func Test_NewAnnouncement_creates_pending_announcement(t *testing.T) {
	// Given
	requesterID := kernel.NewUUID()

	// When
	a, err := NewAnnouncement(
		kernel.NewUUID(),
		requesterID,
		"Box of books to Lyon",
		"",
		TypePackage,
		PriorityMedium,
		mustAddress(t, "10 Rue de Rivoli, Paris"),
		mustAddress(t, "3 Place Bellecour, Lyon"),
		PhysicalAttributes{WeightKg: 12},
		nil,
		nil,
		45.0,
		false,
		nil,
	)

	// Then
	require.NoError(t, err)
	assert.Equal(t, Pending, a.Status())
	assert.Equal(t, requesterID, a.RequesterID())
	assert.Nil(t, a.DelivererID())
	assert.Nil(t, a.FinalPrice())
	assert.Nil(t, a.PublishedAt())
	assert.Zero(t, a.ViewCount())
	assert.Zero(t, a.ApplicationsCount())
	assert.NoError(t, a.Validate())
}

func Test_NewAnnouncement_validates_inputs(t *testing.T) {
	validID := kernel.NewUUID()
	validAddr := mustAddress(t, "somewhere")

	tests := []struct {
		name     string
		mutate   func() (*Announcement, error)
		expected error
	}{
		{
			name: "empty_title",
			mutate: func() (*Announcement, error) {
				return NewAnnouncement(validID, validID, "", "", TypePackage, PriorityLow,
					validAddr, validAddr, PhysicalAttributes{}, nil, nil, 10, false, nil)
			},
			expected: errs.ErrValueIsRequired,
		},
		{
			name: "unknown_type",
			mutate: func() (*Announcement, error) {
				return NewAnnouncement(validID, validID, "t", "", TypeUnknown, PriorityLow,
					validAddr, validAddr, PhysicalAttributes{}, nil, nil, 10, false, nil)
			},
			expected: errs.ErrValueIsInvalid,
		},
		{
			name: "unknown_priority",
			mutate: func() (*Announcement, error) {
				return NewAnnouncement(validID, validID, "t", "", TypePackage, PriorityUnknown,
					validAddr, validAddr, PhysicalAttributes{}, nil, nil, 10, false, nil)
			},
			expected: errs.ErrValueIsInvalid,
		},
		{
			name: "zero_price",
			mutate: func() (*Announcement, error) {
				return NewAnnouncement(validID, validID, "t", "", TypePackage, PriorityLow,
					validAddr, validAddr, PhysicalAttributes{}, nil, nil, 0, false, nil)
			},
			expected: errs.ErrValueIsInvalid,
		},
		{
			name: "negative_weight",
			mutate: func() (*Announcement, error) {
				return NewAnnouncement(validID, validID, "t", "", TypePackage, PriorityLow,
					validAddr, validAddr, PhysicalAttributes{WeightKg: -1}, nil, nil, 10, false, nil)
			},
			expected: errs.ErrValueIsInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.mutate()

			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func Test_NewAnnouncement_rejects_delivery_before_pickup(t *testing.T) {
	// Given
	pickupAt := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	deliveryAt := pickupAt.Add(-time.Hour)

	// When
	_, err := NewAnnouncement(
		kernel.NewUUID(), kernel.NewUUID(), "t", "", TypePackage, PriorityLow,
		mustAddress(t, "a"), mustAddress(t, "b"), PhysicalAttributes{},
		&pickupAt, &deliveryAt, 10, false, nil)

	// Then
	assert.ErrorIs(t, err, ErrDeliveryDateBeforePickup)
}

func Test_Announcement_Publish(t *testing.T) {
	// Given
	a := newValidAnnouncement(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// When
	err := a.Publish(now)

	// Then
	require.NoError(t, err)
	assert.Equal(t, Published, a.Status())
	require.NotNil(t, a.PublishedAt())
	assert.Equal(t, now, *a.PublishedAt())
}

func Test_Announcement_Publish_twice_fails(t *testing.T) {
	// Given
	a := newValidAnnouncement(t)
	require.NoError(t, a.Publish(time.Now()))

	// When
	err := a.Publish(time.Now())

	// Then
	assert.ErrorIs(t, err, errs.ErrInvalidStateTransition)
}

func Test_Announcement_ApplyPatch_updates_fields_while_pending(t *testing.T) {
	// Given
	a := newValidAnnouncement(t)
	title := "Box of books to Marseille"
	price := 60.0
	priority := PriorityUrgent

	// When
	err := a.ApplyPatch(UpdatePatch{
		Title:          &title,
		SuggestedPrice: &price,
		Priority:       &priority,
		Tags:           []string{"books"},
	})

	// Then
	require.NoError(t, err)
	assert.Equal(t, title, a.Title())
	assert.Equal(t, price, a.SuggestedPrice())
	assert.Equal(t, priority, a.Priority())
	assert.Equal(t, []string{"books"}, a.Tags())
}

func Test_Announcement_ApplyPatch_fails_once_published(t *testing.T) {
	// Given
	a := newValidAnnouncement(t)
	require.NoError(t, a.Publish(time.Now()))
	title := "new title"

	// When
	err := a.ApplyPatch(UpdatePatch{Title: &title})

	// Then
	assert.ErrorIs(t, err, errs.ErrInvalidStateTransition)
	assert.Equal(t, "Box of books to Lyon", a.Title())
}

func Test_Announcement_ApplyPatch_validates_schedule(t *testing.T) {
	// Given
	a := newValidAnnouncement(t)
	pickupAt := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	deliveryAt := pickupAt.Add(-time.Hour)

	// When
	err := a.ApplyPatch(UpdatePatch{PickupAt: &pickupAt, DeliveryAt: &deliveryAt})

	// Then
	assert.ErrorIs(t, err, ErrDeliveryDateBeforePickup)
}

func Test_Announcement_Assign(t *testing.T) {
	// Given
	a := newValidAnnouncement(t)
	require.NoError(t, a.Publish(time.Now()))
	courierID := kernel.NewUUID()

	// When
	err := a.Assign(courierID, 50.0)

	// Then
	require.NoError(t, err)
	assert.Equal(t, Assigned, a.Status())
	require.NotNil(t, a.DelivererID())
	assert.Equal(t, courierID, *a.DelivererID())
	require.NotNil(t, a.FinalPrice())
	assert.Equal(t, 50.0, *a.FinalPrice())
}

func Test_Announcement_Assign_fails_unless_published(t *testing.T) {
	// Given
	a := newValidAnnouncement(t)

	// When
	err := a.Assign(kernel.NewUUID(), 50.0)

	// Then
	assert.ErrorIs(t, err, errs.ErrInvalidStateTransition)
	assert.Nil(t, a.DelivererID())
}

func Test_Announcement_Assign_requires_positive_price(t *testing.T) {
	// Given
	a := newValidAnnouncement(t)
	require.NoError(t, a.Publish(time.Now()))

	// When
	err := a.Assign(kernel.NewUUID(), 0)

	// Then
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	assert.Equal(t, Published, a.Status())
}

func Test_Announcement_full_lifecycle(t *testing.T) {
	// Given
	a := newValidAnnouncement(t)

	// When
	require.NoError(t, a.Publish(time.Now()))
	require.NoError(t, a.Assign(kernel.NewUUID(), 50.0))
	require.NoError(t, a.Start())
	err := a.Complete()

	// Then
	require.NoError(t, err)
	assert.Equal(t, Completed, a.Status())
	assert.True(t, a.Status().IsTerminal())
}

func Test_Announcement_Cancel_from_any_active_state(t *testing.T) {
	t.Run("pending", func(t *testing.T) {
		a := newValidAnnouncement(t)

		assert.NoError(t, a.Cancel())
		assert.Equal(t, Cancelled, a.Status())
	})

	t.Run("in_progress", func(t *testing.T) {
		a := newValidAnnouncement(t)
		require.NoError(t, a.Publish(time.Now()))
		require.NoError(t, a.Assign(kernel.NewUUID(), 50.0))
		require.NoError(t, a.Start())

		assert.NoError(t, a.Cancel())
		assert.Equal(t, Cancelled, a.Status())
	})

	t.Run("completed_fails", func(t *testing.T) {
		a := newValidAnnouncement(t)
		require.NoError(t, a.Publish(time.Now()))
		require.NoError(t, a.Assign(kernel.NewUUID(), 50.0))
		require.NoError(t, a.Start())
		require.NoError(t, a.Complete())

		assert.ErrorIs(t, a.Cancel(), errs.ErrInvalidStateTransition)
	})
}

func Test_Announcement_IsDeletable(t *testing.T) {
	a := newValidAnnouncement(t)
	assert.True(t, a.IsDeletable())

	require.NoError(t, a.Publish(time.Now()))
	assert.True(t, a.IsDeletable())

	require.NoError(t, a.Assign(kernel.NewUUID(), 50.0))
	assert.False(t, a.IsDeletable())

	require.NoError(t, a.Start())
	assert.False(t, a.IsDeletable())

	require.NoError(t, a.Complete())
	assert.True(t, a.IsDeletable())
}

func Test_Announcement_IsOwnedBy(t *testing.T) {
	a := newValidAnnouncement(t)

	assert.True(t, a.IsOwnedBy(a.RequesterID()))
	assert.False(t, a.IsOwnedBy(kernel.NewUUID()))
}

func Test_RestoreAnnouncement_rebuilds_stored_state(t *testing.T) {
	// Given
	id := kernel.NewUUID()
	courierID := kernel.NewUUID()
	finalPrice := 55.0
	publishedAt := time.Date(2026, 2, 20, 8, 0, 0, 0, time.UTC)

	// When
	a, err := RestoreAnnouncement(
		id, kernel.NewUUID(), &courierID,
		"t", "", TypeDocuments, PriorityHigh,
		mustAddress(t, "a"), mustAddress(t, "b"), PhysicalAttributes{},
		nil, nil, 40.0, &finalPrice, true,
		Assigned, &publishedAt, 17, 4, nil)

	// Then
	require.NoError(t, err)
	assert.Equal(t, id, a.ID())
	assert.Equal(t, Assigned, a.Status())
	assert.Equal(t, 17, a.ViewCount())
	assert.Equal(t, 4, a.ApplicationsCount())
	assert.NoError(t, a.Validate())
}

func Test_RestoreAnnouncement_rejects_deliverer_on_open_announcement(t *testing.T) {
	courierID := kernel.NewUUID()

	_, err := RestoreAnnouncement(
		kernel.NewUUID(), kernel.NewUUID(), &courierID,
		"t", "", TypePackage, PriorityLow,
		mustAddress(t, "a"), mustAddress(t, "b"), PhysicalAttributes{},
		nil, nil, 40.0, nil, false,
		Published, nil, 0, 0, nil)

	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func Test_RestoreAnnouncement_rejects_assigned_without_deliverer(t *testing.T) {
	_, err := RestoreAnnouncement(
		kernel.NewUUID(), kernel.NewUUID(), nil,
		"t", "", TypePackage, PriorityLow,
		mustAddress(t, "a"), mustAddress(t, "b"), PhysicalAttributes{},
		nil, nil, 40.0, nil, false,
		Assigned, nil, 0, 0, nil)

	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func Test_Announcement_zero_value_fails_validation(t *testing.T) {
	var a Announcement

	assert.ErrorIs(t, a.Validate(), ErrAnnouncementIsNotConstructed)
}
