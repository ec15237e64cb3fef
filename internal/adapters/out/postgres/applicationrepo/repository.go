package applicationrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"crowdship/internal/core/domain/model/application"
	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/pkg/errs"
)

// Postgres error code for unique constraint violations.
const uniqueViolationCode = "23505"

// GormApplicationRepository implements ports.ApplicationRepository using
// GORM.
type GormApplicationRepository struct {
	db *gorm.DB
}

// NewGormApplicationRepository creates a new GORM application repository.
func NewGormApplicationRepository(db *gorm.DB) *GormApplicationRepository {
	return &GormApplicationRepository{db: db}
}

// Add saves a new application. A violation of the (announcement_id,
// courier_id) unique index maps to application.ErrDuplicateApplication so
// the second of two concurrent identical submissions fails cleanly.
func (r *GormApplicationRepository) Add(ctx context.Context, aggregate *application.Application) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return application.ErrDuplicateApplication
		}
		return err
	}

	return nil
}

// Update saves a status decision on an existing application.
func (r *GormApplicationRepository) Update(ctx context.Context, aggregate *application.Application) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&ApplicationDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("application", aggregate.ID().String())
	}

	return nil
}

// Get retrieves an application by ID.
func (r *GormApplicationRepository) Get(ctx context.Context, id kernel.UUID) (*application.Application, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ApplicationDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("application", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByAnnouncement retrieves all applications for an announcement, oldest
// first.
func (r *GormApplicationRepository) GetByAnnouncement(
	ctx context.Context,
	announcementID kernel.UUID,
) ([]*application.Application, error) {
	if err := announcementID.Validate(); err != nil {
		return nil, err
	}

	var dtos []ApplicationDTO
	err := r.db.WithContext(ctx).
		Where("announcement_id = ?", announcementID.Bytes()).
		Order("created_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	applications := make([]*application.Application, 0, len(dtos))
	for _, dto := range dtos {
		a, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		applications = append(applications, a)
	}

	return applications, nil
}

// RejectPendingSiblings rejects every PENDING application on the
// announcement except the accepted one in a single statement. Zero affected
// rows is not an error: the accepted application may have been the only one.
func (r *GormApplicationRepository) RejectPendingSiblings(
	ctx context.Context,
	announcementID kernel.UUID,
	acceptedID kernel.UUID,
) error {
	if err := errors.Join(announcementID.Validate(), acceptedID.Validate()); err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Model(&ApplicationDTO{}).
		Where("announcement_id = ? AND id <> ? AND status = ?",
			announcementID.Bytes(), acceptedID.Bytes(), int(application.Pending)).
		Updates(map[string]any{
			"status":     int(application.Rejected),
			"decided_at": time.Now().UTC(),
		}).Error
}

// DeletePending removes all PENDING applications of an announcement. Runs
// inside the announcement deletion transaction.
func (r *GormApplicationRepository) DeletePending(ctx context.Context, announcementID kernel.UUID) error {
	if err := announcementID.Validate(); err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Where("announcement_id = ? AND status = ?", announcementID.Bytes(), int(application.Pending)).
		Delete(&ApplicationDTO{}).Error
}
