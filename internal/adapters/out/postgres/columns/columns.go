// Package columns holds the embedded column groups and helpers shared by the
// gorm repositories: addresses, coordinates, nullable ids and version-guarded updates.
package columns

import (
	"context"
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const uniqueViolation = "23505"

// GeoDTO stores an optional point as two nullable columns.
type GeoDTO struct {
	Lat *float64
	Lng *float64
}

func FromGeo(p *kernel.GeoPoint) GeoDTO {
	if p == nil {
		return GeoDTO{}
	}
	lat, lng := p.Lat(), p.Lng()
	return GeoDTO{Lat: &lat, Lng: &lng}
}

func (g GeoDTO) ToGeo() (*kernel.GeoPoint, error) {
	return kernel.NewOptionalGeoPoint(g.Lat, g.Lng)
}

// AddressDTO is embedded with a prefix such as delivery_ or pickup_.
type AddressDTO struct {
	Street     string
	City       string
	State      string
	PostalCode string
	Geo        GeoDTO `gorm:"embedded"`
}

func FromAddress(a kernel.Address) AddressDTO {
	return AddressDTO{
		Street:     a.Street,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Geo:        FromGeo(a.Coordinates),
	}
}

func (a AddressDTO) ToAddress() (kernel.Address, error) {
	coords, err := a.Geo.ToGeo()
	if err != nil {
		return kernel.Address{}, err
	}
	return kernel.Address{
		Street:      a.Street,
		City:        a.City,
		State:       a.State,
		PostalCode:  a.PostalCode,
		Coordinates: coords,
	}, nil
}

func UUIDPtr(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func KernelUUID(id uuid.UUID) (kernel.UUID, error) {
	return kernel.UUIDFromBytes(id[:])
}

func KernelUUIDPtr(id *uuid.UUID) (*kernel.UUID, error) {
	if id == nil {
		return nil, nil
	}
	parsed, err := KernelUUID(*id)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// TranslateInsertError maps a unique violation to errs.ErrObjectAlreadyExist.
func TranslateInsertError(err error, object string, id any) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return errs.NewObjectAlreadyExistErrorWithCause(object, id, err)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.NewObjectAlreadyExistErrorWithCause(object, id, err)
	}
	return err
}

// UpdateVersioned writes every column of dto where id and the expected version
// match. dto must already carry expected+1. No matching row means either a
// missing aggregate or a concurrent write.
func UpdateVersioned(ctx context.Context, db *gorm.DB, dto any, object string, id uuid.UUID, expected int64) error {
	result := db.WithContext(ctx).
		Model(dto).
		Omit(clause.Associations).
		Select("*").
		Where("id = ? AND version = ?", id, expected).
		Updates(dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := db.WithContext(ctx).Model(dto).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError(object, id.String())
	}
	return errs.NewVersionIsInvalidErrorWithCause(object,
		fmt.Errorf("%s %s was modified concurrently (expected version %d)", object, id, expected))
}
