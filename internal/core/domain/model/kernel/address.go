package kernel

import (
	"errors"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// Address is a snapshot of a postal address with optional coordinates.
// Orders and deliveries copy addresses at creation time.
type Address struct {
	Street      string
	City        string
	State       string
	PostalCode  string
	Coordinates *GeoPoint
}

func (a Address) Validate() error {
	var street, city error
	if strings.TrimSpace(a.Street) == "" {
		street = errs.NewValueIsRequiredError("street")
	}
	if strings.TrimSpace(a.City) == "" {
		city = errs.NewValueIsRequiredError("city")
	}
	return errors.Join(street, city)
}

// HasCoordinates reports whether the address was geocoded.
func (a Address) HasCoordinates() bool {
	return a.Coordinates != nil
}

func (a Address) String() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{a.Street, a.City, a.State, a.PostalCode} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
