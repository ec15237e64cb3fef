package announcementrepo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"crowdship/internal/core/domain/model/announcement"
	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/pkg/errs"
)

// GormAnnouncementRepository implements ports.AnnouncementRepository using
// GORM.
type GormAnnouncementRepository struct {
	db *gorm.DB
}

// NewGormAnnouncementRepository creates a new GORM announcement repository.
func NewGormAnnouncementRepository(db *gorm.DB) *GormAnnouncementRepository {
	return &GormAnnouncementRepository{db: db}
}

// Add saves a new announcement to the database.
func (r *GormAnnouncementRepository) Add(ctx context.Context, aggregate *announcement.Announcement) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update saves an existing announcement. The view and application counters
// are excluded: those columns are owned by the increment statements and the
// in-memory aggregate may hold stale values.
func (r *GormAnnouncementRepository) Update(ctx context.Context, aggregate *announcement.Announcement) error {
	return r.update(ctx, aggregate, nil)
}

// UpdateGuarded saves an existing announcement only if the stored status
// still equals expectedStatus. The predicate rides on the UPDATE statement
// itself, so between two concurrent accepts exactly one write applies.
func (r *GormAnnouncementRepository) UpdateGuarded(
	ctx context.Context,
	aggregate *announcement.Announcement,
	expectedStatus announcement.Status,
) error {
	return r.update(ctx, aggregate, &expectedStatus)
}

func (r *GormAnnouncementRepository) update(
	ctx context.Context,
	aggregate *announcement.Announcement,
	expectedStatus *announcement.Status,
) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)

	stmt := r.db.WithContext(ctx).
		Model(&AnnouncementDTO{}).
		Where("id = ?", dto.ID)
	if expectedStatus != nil {
		stmt = stmt.Where("status = ?", int(*expectedStatus))
	}

	result := stmt.
		Select("*").
		Omit("id", "view_count", "applications_count", "created_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		if expectedStatus == nil {
			return errs.NewObjectNotFoundError("announcement", aggregate.ID().String())
		}
		// The row exists but left the expected status, or is gone entirely.
		// Either way the caller's transition lost the race.
		return errs.NewInvalidStateTransitionError(
			"announcement", expectedStatus.String(), aggregate.Status().String())
	}

	return nil
}

// Get retrieves an announcement by ID.
func (r *GormAnnouncementRepository) Get(ctx context.Context, id kernel.UUID) (*announcement.Announcement, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto AnnouncementDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("announcement", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// Delete removes an announcement row.
func (r *GormAnnouncementRepository) Delete(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Delete(&AnnouncementDTO{}, "id = ?", id.Bytes())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("announcement", id.String())
	}

	return nil
}

// IncrementViewCount bumps the view counter in a single UPDATE so
// concurrent readers never lose an increment.
func (r *GormAnnouncementRepository) IncrementViewCount(ctx context.Context, id kernel.UUID) error {
	return r.incrementCounter(ctx, id, "view_count")
}

// IncrementApplicationsCount bumps the applications counter in a single
// UPDATE.
func (r *GormAnnouncementRepository) IncrementApplicationsCount(ctx context.Context, id kernel.UUID) error {
	return r.incrementCounter(ctx, id, "applications_count")
}

func (r *GormAnnouncementRepository) incrementCounter(ctx context.Context, id kernel.UUID, column string) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&AnnouncementDTO{}).
		Where("id = ?", id.Bytes()).
		UpdateColumn(column, gorm.Expr(column+" + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("announcement", id.String())
	}

	return nil
}

// GetPublishedBefore retrieves PUBLISHED announcements published before the
// cutoff, oldest first. Used by the expiry job.
func (r *GormAnnouncementRepository) GetPublishedBefore(
	ctx context.Context,
	cutoff time.Time,
) ([]*announcement.Announcement, error) {
	var dtos []AnnouncementDTO
	err := r.db.WithContext(ctx).
		Where("status = ? AND published_at < ?", int(announcement.Published), cutoff).
		Order("published_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	announcements := make([]*announcement.Announcement, 0, len(dtos))
	for _, dto := range dtos {
		a, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		announcements = append(announcements, a)
	}

	return announcements, nil
}
