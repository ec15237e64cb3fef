package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each
// request/command. This ensures proper isolation between concurrent
// operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary. Multi-step
// operations such as application acceptance run entirely inside one unit so
// no intermediate state is externally observable.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	// AnnouncementRepository returns a repository bound to the current
	// transaction.
	AnnouncementRepository() AnnouncementRepository

	// ApplicationRepository returns a repository bound to the current
	// transaction.
	ApplicationRepository() ApplicationRepository

	// DeliveryRepository returns a repository bound to the current
	// transaction.
	DeliveryRepository() DeliveryRepository

	// RatingRepository returns a repository bound to the current
	// transaction.
	RatingRepository() RatingRepository
}
