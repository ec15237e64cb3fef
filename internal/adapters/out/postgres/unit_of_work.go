// Package postgres provides the GORM-based implementation of the Unit of Work
// pattern. A unit of work spans every repository touched by one business
// transaction, so multi-step operations such as application acceptance either
// commit completely or leave no trace.
//
// Usage:
//
//	factory := postgres.NewGormUnitOfWorkFactory(db)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer uow.Rollback(ctx)
//
//	if err := uow.AnnouncementRepository().Update(ctx, a); err != nil {
//	    return err
//	}
//	if err := uow.DeliveryRepository().Add(ctx, d); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Each Create() call yields a fresh instance with its own transaction state,
// so concurrent commands never share a transaction. Rollback after a
// successful Commit returns gorm.ErrInvalidTransaction, which makes the
// defer-Rollback idiom above safe.
package postgres

import (
	"context"

	"gorm.io/gorm"

	"crowdship/internal/adapters/out/postgres/announcementrepo"
	"crowdship/internal/adapters/out/postgres/applicationrepo"
	"crowdship/internal/adapters/out/postgres/deliveryrepo"
	"crowdship/internal/adapters/out/postgres/ratingrepo"
	"crowdship/internal/core/ports"
)

// GormUnitOfWorkFactory creates UnitOfWork instances bound to one GORM
// database connection.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work
// instances.
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a new UnitOfWork ready for one business transaction.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{db: f.db}
}

// GormUnitOfWork coordinates a single database transaction across the
// announcement, application, delivery and rating repositories.
type GormUnitOfWork struct {
	db *gorm.DB
	tx *gorm.DB
}

// Begin starts the transaction. Calling Begin again on an active unit of
// work is a no-op rather than a nested transaction.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit finalizes all changes made within the current transaction.
// Returns gorm.ErrInvalidTransaction if no transaction is active.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards all changes made within the current transaction.
// Returns gorm.ErrInvalidTransaction if no transaction is active.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

// conn returns the transaction when one is active, otherwise the base
// connection.
func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

// AnnouncementRepository returns a repository bound to the current
// transaction.
func (uow *GormUnitOfWork) AnnouncementRepository() ports.AnnouncementRepository {
	return announcementrepo.NewGormAnnouncementRepository(uow.conn())
}

// ApplicationRepository returns a repository bound to the current
// transaction.
func (uow *GormUnitOfWork) ApplicationRepository() ports.ApplicationRepository {
	return applicationrepo.NewGormApplicationRepository(uow.conn())
}

// DeliveryRepository returns a repository bound to the current transaction.
func (uow *GormUnitOfWork) DeliveryRepository() ports.DeliveryRepository {
	return deliveryrepo.NewGormDeliveryRepository(uow.conn())
}

// RatingRepository returns a repository bound to the current transaction.
func (uow *GormUnitOfWork) RatingRepository() ports.RatingRepository {
	return ratingrepo.NewGormRatingRepository(uow.conn())
}
