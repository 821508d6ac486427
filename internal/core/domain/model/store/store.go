package store

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrStoreIsNotConstructed = errors.New("Store must be created via NewStore constructor")
	ErrStoreHasNoCoordinates = errs.NewObjectNotFoundErrorWithCause("vendor location", "coordinates", errors.New("store address is not geocoded"))
)

// Store is the vendor's shop an order is picked at and collected from.
type Store struct {
	id      kernel.UUID
	name    string
	address kernel.Address
	guard   guard.ConstructorGuard
}

func NewStore(id kernel.UUID, name string, address kernel.Address) (*Store, error) {
	s := &Store{guard: guard.NewConstructorGuard()}

	var nameErr error
	if strings.TrimSpace(name) == "" {
		nameErr = errs.NewValueIsRequiredError("storeName")
	}
	if err := errors.Join(id.Validate(), nameErr, address.Validate()); err != nil {
		return nil, err
	}
	s.id = id
	s.name = name
	s.address = address
	return s, nil
}

func (s *Store) Validate() error {
	if s == nil {
		return ErrStoreIsNotConstructed
	}
	return s.guard.Validate(ErrStoreIsNotConstructed)
}

func (s *Store) ID() kernel.UUID {
	return s.id
}

func (s *Store) Name() string {
	return s.name
}

func (s *Store) Address() kernel.Address {
	return s.address
}

// Location returns the store coordinates or ErrStoreHasNoCoordinates.
func (s *Store) Location() (kernel.GeoPoint, error) {
	if s.address.Coordinates == nil {
		return kernel.GeoPoint{}, ErrStoreHasNoCoordinates
	}
	return *s.address.Coordinates, nil
}
