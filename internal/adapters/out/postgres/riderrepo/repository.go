package riderrepo

import (
	"context"
	"errors"

	"fulfillment/internal/adapters/out/postgres/columns"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/rider"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormRiderRepository implements ports.RiderRepository using GORM.
type GormRiderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormRiderRepository(db *gorm.DB, tracker aggregateTracker) *GormRiderRepository {
	return &GormRiderRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormRiderRepository) Add(ctx context.Context, aggregate *rider.Rider) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return columns.TranslateInsertError(err, "rider", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update is version guarded so two dispatches cannot both take the same rider.
func (r *GormRiderRepository) Update(ctx context.Context, aggregate *rider.Rider) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.Version = aggregate.Version() + 1
	if err := columns.UpdateVersioned(ctx, r.db, &dto, "rider", dto.ID, aggregate.Version()); err != nil {
		return err
	}

	aggregate.IncrementVersion()
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormRiderRepository) Get(ctx context.Context, id kernel.UUID) (*rider.Rider, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto RiderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("rider", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllAvailable returns active, verified, available riders ordered by id.
// An empty vehicle matches every vehicle.
func (r *GormRiderRepository) GetAllAvailable(ctx context.Context, vehicle rider.VehicleType) ([]*rider.Rider, error) {
	query := r.db.WithContext(ctx).
		Where("is_active AND is_available AND verification = ?", string(rider.VerificationVerified))
	if vehicle != "" {
		query = query.Where("vehicle = ?", vehicle.String())
	}

	var dtos []RiderDTO
	if err := query.Order("id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	riders := make([]*rider.Rider, 0, len(dtos))
	for _, dto := range dtos {
		rd, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		riders = append(riders, rd)
	}

	return riders, nil
}
