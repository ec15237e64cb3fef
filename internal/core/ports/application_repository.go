package ports

import (
	"context"

	"crowdship/internal/core/domain/model/application"
	"crowdship/internal/core/domain/model/kernel"
)

// ApplicationRepository defines the persistence contract for courier
// applications.
type ApplicationRepository interface {
	// Add persists a new application. The storage layer enforces the unique
	// (announcementId, courierId) pair and returns
	// application.ErrDuplicateApplication on a constraint violation, closing
	// the race between two concurrent identical submissions.
	Add(ctx context.Context, a *application.Application) error

	// Update persists a status decision on an existing application.
	Update(ctx context.Context, a *application.Application) error

	// Get retrieves an application by its identifier.
	Get(ctx context.Context, id kernel.UUID) (*application.Application, error)

	// GetByAnnouncement returns all applications for an announcement.
	GetByAnnouncement(ctx context.Context, announcementID kernel.UUID) ([]*application.Application, error)

	// RejectPendingSiblings sets every PENDING application on the
	// announcement, except the accepted one, to REJECTED in a single
	// statement. Runs inside the accept transaction.
	RejectPendingSiblings(ctx context.Context, announcementID, acceptedID kernel.UUID) error

	// DeletePending removes all PENDING applications of an announcement.
	// Runs inside the announcement deletion transaction.
	DeletePending(ctx context.Context, announcementID kernel.UUID) error
}
