package deliveryrepo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"crowdship/internal/core/domain/model/delivery"
	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/pkg/errs"
)

// GormDeliveryRepository implements ports.DeliveryRepository using GORM.
type GormDeliveryRepository struct {
	db *gorm.DB
}

// NewGormDeliveryRepository creates a new GORM delivery repository.
func NewGormDeliveryRepository(db *gorm.DB) *GormDeliveryRepository {
	return &GormDeliveryRepository{db: db}
}

// Add saves a new delivery with its checkpoints.
func (r *GormDeliveryRepository) Add(ctx context.Context, aggregate *delivery.Delivery) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	return r.syncCheckpoints(ctx, aggregate)
}

// Update saves an existing delivery and appends any new checkpoints. The
// current_* columns are excluded: the current-location pointer is owned by
// UpdateCurrentLocation's conditional statement and the in-memory aggregate
// may hold an older fix.
func (r *GormDeliveryRepository) Update(ctx context.Context, aggregate *delivery.Delivery) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&DeliveryDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Omit("id", "created_at",
			"current_lat", "current_lng", "current_accuracy_m", "current_heading",
			"current_speed_kmh", "current_recorded_at", "current_source").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("delivery", aggregate.ID().String())
	}

	return r.syncCheckpoints(ctx, aggregate)
}

// IncrementConfirmationAttempts bumps the failed-confirmation counter in a
// single UPDATE so concurrent wrong codes never lose an attempt.
func (r *GormDeliveryRepository) IncrementConfirmationAttempts(ctx context.Context, deliveryID kernel.UUID) error {
	if err := deliveryID.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&DeliveryDTO{}).
		Where("id = ?", deliveryID.Bytes()).
		UpdateColumn("confirmation_attempts", gorm.Expr("confirmation_attempts + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("delivery", deliveryID.String())
	}

	return nil
}

// syncCheckpoints inserts checkpoints that are not yet persisted. The log is
// append-only, so existing rows are left untouched.
func (r *GormDeliveryRepository) syncCheckpoints(ctx context.Context, aggregate *delivery.Delivery) error {
	checkpoints := aggregate.Checkpoints()
	if len(checkpoints) == 0 {
		return nil
	}

	dtos := make([]CheckpointDTO, 0, len(checkpoints))
	for _, c := range checkpoints {
		dtos = append(dtos, checkpointFromDomain(aggregate.ID(), c))
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&dtos).Error
}

// Get retrieves a delivery by ID with its checkpoint log.
func (r *GormDeliveryRepository) Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return r.getOne(ctx, "id = ?", id.Bytes(), id.String())
}

// GetByAnnouncement retrieves the delivery bound to an announcement.
func (r *GormDeliveryRepository) GetByAnnouncement(
	ctx context.Context,
	announcementID kernel.UUID,
) (*delivery.Delivery, error) {
	if err := announcementID.Validate(); err != nil {
		return nil, err
	}
	return r.getOne(ctx, "announcement_id = ?", announcementID.Bytes(), announcementID.String())
}

// GetByTrackingCode retrieves a delivery by its public tracking code.
func (r *GormDeliveryRepository) GetByTrackingCode(ctx context.Context, code string) (*delivery.Delivery, error) {
	if code == "" {
		return nil, errs.NewValueIsRequiredError("trackingCode")
	}
	return r.getOne(ctx, "tracking_code = ?", code, code)
}

func (r *GormDeliveryRepository) getOne(
	ctx context.Context,
	condition string,
	value any,
	lookupKey string,
) (*delivery.Delivery, error) {
	var dto DeliveryDTO
	if err := r.db.WithContext(ctx).First(&dto, condition, value).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("delivery", lookupKey)
		}
		return nil, err
	}

	var checkpointDTOs []CheckpointDTO
	err := r.db.WithContext(ctx).
		Where("delivery_id = ?", dto.ID).
		Order("actual_at, id").
		Find(&checkpointDTOs).Error
	if err != nil {
		return nil, err
	}

	return toDomain(dto, checkpointDTOs)
}

// UpdateCurrentLocation replaces the current-location pointer only when the
// incoming fix is strictly newer than the stored one. The comparison rides
// on the UPDATE statement, so concurrent writers for the same delivery
// resolve without locks: the newest timestamp wins, stale updates report
// false and nothing else.
func (r *GormDeliveryRepository) UpdateCurrentLocation(
	ctx context.Context,
	deliveryID kernel.UUID,
	position delivery.Position,
) (bool, error) {
	if err := deliveryID.Validate(); err != nil {
		return false, err
	}

	result := r.db.WithContext(ctx).Exec(`
		UPDATE deliveries
		SET current_lat = ?,
		    current_lng = ?,
		    current_accuracy_m = ?,
		    current_heading = ?,
		    current_speed_kmh = ?,
		    current_recorded_at = ?,
		    current_source = ?
		WHERE id = ?
		  AND (current_recorded_at IS NULL OR current_recorded_at < ?)
	`,
		position.Point().Lat(),
		position.Point().Lng(),
		position.AccuracyM(),
		position.Heading(),
		position.SpeedKmh(),
		position.RecordedAt(),
		int(position.Source()),
		deliveryID.Bytes(),
		position.RecordedAt(),
	)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// AppendPosition adds a position to the history. Runs for every update
// regardless of whether it won the current-location pointer.
func (r *GormDeliveryRepository) AppendPosition(
	ctx context.Context,
	deliveryID kernel.UUID,
	position delivery.Position,
) error {
	if err := deliveryID.Validate(); err != nil {
		return err
	}

	dto := positionFromDomain(deliveryID, position)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// ListPositions returns the position history ordered by recording time.
func (r *GormDeliveryRepository) ListPositions(
	ctx context.Context,
	deliveryID kernel.UUID,
	since *time.Time,
) ([]delivery.Position, error) {
	if err := deliveryID.Validate(); err != nil {
		return nil, err
	}

	stmt := r.db.WithContext(ctx).Where("delivery_id = ?", deliveryID.Bytes())
	if since != nil {
		stmt = stmt.Where("recorded_at > ?", *since)
	}

	var dtos []PositionDTO
	if err := stmt.Order("recorded_at, id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	positions := make([]delivery.Position, 0, len(dtos))
	for _, dto := range dtos {
		position, err := positionToDomain(dto)
		if err != nil {
			return nil, err
		}
		positions = append(positions, position)
	}

	return positions, nil
}

// CountActiveByCourier counts the courier's deliveries still in flight.
func (r *GormDeliveryRepository) CountActiveByCourier(ctx context.Context, courierID kernel.UUID) (int, error) {
	if err := courierID.Validate(); err != nil {
		return 0, err
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&DeliveryDTO{}).
		Where("courier_id = ? AND status NOT IN ?", courierID.Bytes(), []int{
			int(delivery.Confirmed),
			int(delivery.Cancelled),
			int(delivery.Failed),
		}).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return int(count), nil
}
