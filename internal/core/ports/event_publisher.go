package ports

import (
	"context"

	"crowdship/internal/core/domain/model/announcement"
	"crowdship/internal/core/domain/model/delivery"
)

// EventPublisher emits integration events after a transaction commits.
// Notifications, analytics and payment release consume them; failures are
// logged by the caller and never roll the committed work back.
type EventPublisher interface {
	// PublishAnnouncementStatusChanged emits an event for every announcement
	// transition.
	PublishAnnouncementStatusChanged(ctx context.Context, a *announcement.Announcement) error

	// PublishDeliveryStatusChanged emits an event for every delivery
	// transition.
	PublishDeliveryStatusChanged(ctx context.Context, d *delivery.Delivery) error

	// PublishDeliveryConfirmed emits the closure event consumed by payment
	// release and rating eligibility.
	PublishDeliveryConfirmed(ctx context.Context, d *delivery.Delivery) error
}
