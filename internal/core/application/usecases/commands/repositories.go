// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS
// architecture. All commands follow a consistent pattern: validation,
// transaction management, and persistence.
package commands

import (
	"context"

	"crowdship/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command
// handlers. Each handler depends only on the repositories it actually
// touches.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// AnnouncementRepoFactory provides access to the announcement repository
	// within a transaction.
	AnnouncementRepoFactory interface {
		AnnouncementRepository() ports.AnnouncementRepository
	}

	// ApplicationRepoFactory provides access to the application repository
	// within a transaction.
	ApplicationRepoFactory interface {
		ApplicationRepository() ports.ApplicationRepository
	}

	// DeliveryRepoFactory provides access to the delivery repository within
	// a transaction.
	DeliveryRepoFactory interface {
		DeliveryRepository() ports.DeliveryRepository
	}

	// RatingRepoFactory provides access to the rating repository within a
	// transaction.
	RatingRepoFactory interface {
		RatingRepository() ports.RatingRepository
	}

	// AnnouncementUoW manages transactions for announcement-only operations.
	AnnouncementUoW interface {
		TxManager
		AnnouncementRepoFactory
	}

	// AnnouncementUoWFactory creates new announcement unit of work
	// instances.
	AnnouncementUoWFactory interface {
		Create() AnnouncementUoW
	}

	// MatchingUoW spans announcements, applications and deliveries. The
	// apply and accept operations run entirely inside one such unit: sibling
	// rejection, the ASSIGNED transition and delivery creation are
	// all-or-nothing.
	MatchingUoW interface {
		TxManager
		AnnouncementRepoFactory
		ApplicationRepoFactory
		DeliveryRepoFactory
	}

	// MatchingUoWFactory creates new matching unit of work instances.
	MatchingUoWFactory interface {
		Create() MatchingUoW
	}

	// DeliveryUoW manages transactions for delivery-only operations.
	DeliveryUoW interface {
		TxManager
		DeliveryRepoFactory
	}

	// DeliveryUoWFactory creates new delivery unit of work instances.
	DeliveryUoWFactory interface {
		Create() DeliveryUoW
	}

	// LifecycleUoW spans deliveries and their owning announcements, for
	// transitions that mirror onto the announcement (pickup starts the
	// announcement, confirmation completes it).
	LifecycleUoW interface {
		TxManager
		AnnouncementRepoFactory
		DeliveryRepoFactory
	}

	// LifecycleUoWFactory creates new lifecycle unit of work instances.
	LifecycleUoWFactory interface {
		Create() LifecycleUoW
	}

	// RatingUoW spans deliveries and ratings so eligibility is checked in
	// the same transaction that records the rating.
	RatingUoW interface {
		TxManager
		DeliveryRepoFactory
		RatingRepoFactory
	}

	// RatingUoWFactory creates new rating unit of work instances.
	RatingUoWFactory interface {
		Create() RatingUoW
	}
)
