// Package ports defines the contracts between the crowdshipping core and its
// infrastructure: repositories, the unit of work, the event publisher and the
// external collaborator gateways. These interfaces enable dependency
// inversion and testability.
package ports

import (
	"context"
	"time"

	"crowdship/internal/core/domain/model/announcement"
	"crowdship/internal/core/domain/model/kernel"
)

// AnnouncementRepository defines the persistence contract for announcement
// aggregates.
type AnnouncementRepository interface {
	// Add persists a new announcement aggregate.
	Add(ctx context.Context, a *announcement.Announcement) error

	// Update persists changes to an existing announcement.
	Update(ctx context.Context, a *announcement.Announcement) error

	// UpdateGuarded persists changes only if the stored status still equals
	// expectedStatus, in a single conditional statement. It returns
	// ErrObjectNotFound-kind errors when the row is missing and an
	// InvalidStateTransition-kind error when the guard fails, which makes it
	// the arbiter between two concurrent accept calls on the same
	// announcement.
	UpdateGuarded(ctx context.Context, a *announcement.Announcement, expectedStatus announcement.Status) error

	// Get retrieves an announcement by its identifier.
	Get(ctx context.Context, id kernel.UUID) (*announcement.Announcement, error)

	// Delete removes an announcement. Pending applications are cascaded by
	// the same transaction through ApplicationRepository.DeletePending.
	Delete(ctx context.Context, id kernel.UUID) error

	// IncrementViewCount bumps the view counter atomically in storage
	// without loading the aggregate.
	IncrementViewCount(ctx context.Context, id kernel.UUID) error

	// IncrementApplicationsCount bumps the applications counter atomically
	// in storage. Runs inside the apply transaction.
	IncrementApplicationsCount(ctx context.Context, id kernel.UUID) error

	// GetPublishedBefore returns PUBLISHED announcements whose publication
	// timestamp is older than the cutoff. Used by the expiry job.
	GetPublishedBefore(ctx context.Context, cutoff time.Time) ([]*announcement.Announcement, error)
}
