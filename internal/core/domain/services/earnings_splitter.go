package services

import "fulfillment/internal/core/domain/model/kernel"

// RiderSharePercent is the share of the delivery fee paid to the rider.
const RiderSharePercent = 80

// EarningsSplitter divides a delivery fee between the rider and the platform.
type EarningsSplitter struct {
	riderShare int64
}

func NewEarningsSplitter() EarningsSplitter {
	return EarningsSplitter{riderShare: RiderSharePercent}
}

// Split rounds the rider share to the nearest minor unit; the platform keeps the rest.
func (s EarningsSplitter) Split(fee kernel.Money) (riderEarnings, platformFee kernel.Money) {
	riderEarnings = fee.Percent(s.riderShare)
	return riderEarnings, fee - riderEarnings
}
