package delivery

import (
	"errors"
	"fmt"
	"math"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// Pricing is the fee split of one delivery.
type Pricing struct {
	baseFee       kernel.Money
	riderEarnings kernel.Money
	platformFee   kernel.Money
	distanceKm    float64
}

// NewPricing validates that the split adds up to the base fee.
func NewPricing(baseFee, riderEarnings, platformFee kernel.Money, distanceKm float64) (Pricing, error) {
	if err := errors.Join(baseFee.Validate(), riderEarnings.Validate(), platformFee.Validate()); err != nil {
		return Pricing{}, err
	}
	if riderEarnings+platformFee != baseFee {
		return Pricing{}, errs.NewValueIsInvalidErrorWithCause(
			"pricing",
			fmt.Errorf("rider earnings %s and platform fee %s do not add up to %s", riderEarnings, platformFee, baseFee),
		)
	}
	if distanceKm < 0 || math.IsNaN(distanceKm) {
		return Pricing{}, errs.NewValueIsInvalidErrorWithCause("distanceKm", fmt.Errorf("%f is negative", distanceKm))
	}
	return Pricing{
		baseFee:       baseFee,
		riderEarnings: riderEarnings,
		platformFee:   platformFee,
		distanceKm:    distanceKm,
	}, nil
}

func (p Pricing) BaseFee() kernel.Money       { return p.baseFee }
func (p Pricing) RiderEarnings() kernel.Money { return p.riderEarnings }
func (p Pricing) PlatformFee() kernel.Money   { return p.platformFee }
func (p Pricing) DistanceKm() float64         { return p.distanceKm }
