package ports

import (
	"context"
	"time"

	"crowdship/internal/core/domain/model/delivery"
	"crowdship/internal/core/domain/model/kernel"
)

// DeliveryRepository defines the persistence contract for delivery
// aggregates, their checkpoints and the append-only position history.
type DeliveryRepository interface {
	// Add persists a new delivery. Storage enforces a unique announcement_id
	// so at most one delivery ever exists per announcement, as a backstop to
	// the accept transaction's status guard.
	Add(ctx context.Context, d *delivery.Delivery) error

	// Update persists changes to an existing delivery, including newly
	// appended checkpoints.
	Update(ctx context.Context, d *delivery.Delivery) error

	// Get retrieves a delivery by its identifier with its checkpoints.
	Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error)

	// GetByAnnouncement retrieves the delivery bound to an announcement.
	GetByAnnouncement(ctx context.Context, announcementID kernel.UUID) (*delivery.Delivery, error)

	// GetByTrackingCode retrieves a delivery by its public tracking code.
	GetByTrackingCode(ctx context.Context, code string) (*delivery.Delivery, error)

	// UpdateCurrentLocation conditionally replaces the current-location
	// pointer. The statement only applies when recordedAt is strictly newer
	// than the stored timestamp; it returns true when the pointer moved and
	// false when the update was discarded as stale.
	UpdateCurrentLocation(ctx context.Context, deliveryID kernel.UUID, position delivery.Position) (bool, error)

	// AppendPosition adds a position to the history regardless of whether it
	// won the current-location pointer.
	AppendPosition(ctx context.Context, deliveryID kernel.UUID, position delivery.Position) error

	// IncrementConfirmationAttempts bumps the failed-confirmation counter in
	// a single UPDATE so concurrent wrong codes never lose an attempt.
	IncrementConfirmationAttempts(ctx context.Context, deliveryID kernel.UUID) error

	// ListPositions returns the position history ordered by recording time.
	ListPositions(ctx context.Context, deliveryID kernel.UUID, since *time.Time) ([]delivery.Position, error)

	// CountActiveByCourier counts the courier's deliveries in a non-terminal
	// status. Used to cap concurrent workload at apply time.
	CountActiveByCourier(ctx context.Context, courierID kernel.UUID) (int, error)
}
