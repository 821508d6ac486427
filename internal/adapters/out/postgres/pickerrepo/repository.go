package pickerrepo

import (
	"context"
	"errors"

	"fulfillment/internal/adapters/out/postgres/columns"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/picker"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPickerRepository implements ports.PickerRepository using GORM.
type GormPickerRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormPickerRepository(db *gorm.DB, tracker aggregateTracker) *GormPickerRepository {
	return &GormPickerRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormPickerRepository) Add(ctx context.Context, aggregate *picker.Picker) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return columns.TranslateInsertError(err, "picker", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes the picker row under the version guard, then upserts its
// store links. Links are never removed, only re-reviewed.
func (r *GormPickerRepository) Update(ctx context.Context, aggregate *picker.Picker) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.Version = aggregate.Version() + 1
	if err := columns.UpdateVersioned(ctx, r.db, &dto, "picker", dto.ID, aggregate.Version()); err != nil {
		return err
	}

	if len(dto.Stores) > 0 {
		if err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{UpdateAll: true}).
			Create(&dto.Stores).Error; err != nil {
			return err
		}
	}

	aggregate.IncrementVersion()
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormPickerRepository) Get(ctx context.Context, id kernel.UUID) (*picker.Picker, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto PickerDTO
	if err := r.db.WithContext(ctx).
		Preload("Stores", func(db *gorm.DB) *gorm.DB {
			return db.Order("requested_at ASC")
		}).
		First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("picker", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
