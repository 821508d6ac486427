package storerepo

import (
	"context"
	"errors"

	"fulfillment/internal/adapters/out/postgres/columns"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/store"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StoreDTO is a vendor's shop as seen by fulfillment. Stores are keyed by vendor id.
type StoreDTO struct {
	ID      uuid.UUID          `gorm:"type:uuid;primaryKey"`
	Name    string             `gorm:"type:varchar(255);not null"`
	Address columns.AddressDTO `gorm:"embedded;embeddedPrefix:address_"`
}

func (StoreDTO) TableName() string {
	return "vendor_stores"
}

// GormStoreRepository implements ports.StoreRepository using GORM.
type GormStoreRepository struct {
	db *gorm.DB
}

func NewGormStoreRepository(db *gorm.DB) *GormStoreRepository {
	return &GormStoreRepository{db: db}
}

func (r *GormStoreRepository) Add(ctx context.Context, aggregate *store.Store) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := StoreDTO{
		ID:      aggregate.ID().Bytes(),
		Name:    aggregate.Name(),
		Address: columns.FromAddress(aggregate.Address()),
	}
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return columns.TranslateInsertError(err, "store", aggregate.ID().String())
	}
	return nil
}

func (r *GormStoreRepository) Get(ctx context.Context, vendorID kernel.UUID) (*store.Store, error) {
	if err := vendorID.Validate(); err != nil {
		return nil, err
	}

	var dto StoreDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", vendorID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("store", vendorID.String())
		}
		return nil, err
	}

	id, err := columns.KernelUUID(dto.ID)
	if err != nil {
		return nil, err
	}
	address, err := dto.Address.ToAddress()
	if err != nil {
		return nil, err
	}
	return store.NewStore(id, dto.Name, address)
}
