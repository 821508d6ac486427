package rider

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// VehicleType is the rider's means of transport.
type VehicleType string

const (
	Bicycle    VehicleType = "bicycle"
	Motorcycle VehicleType = "motorcycle"
	Car        VehicleType = "car"
	Scooter    VehicleType = "scooter"
	Van        VehicleType = "van"
)

// AllVehicleTypes lists the supported vehicles.
var AllVehicleTypes = []VehicleType{Bicycle, Motorcycle, Car, Scooter, Van}

func ParseVehicleType(s string) (VehicleType, error) {
	for _, v := range AllVehicleTypes {
		if string(v) == s {
			return v, nil
		}
	}
	return "", errs.NewValueIsInvalidErrorWithCause("vehicleType", fmt.Errorf("%q is not a supported vehicle", s))
}

func (v VehicleType) String() string {
	return string(v)
}

// VerificationStatus is the outcome of the rider's document check.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

func ParseVerificationStatus(s string) (VerificationStatus, error) {
	switch VerificationStatus(s) {
	case VerificationPending, VerificationVerified, VerificationRejected:
		return VerificationStatus(s), nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("verification", fmt.Errorf("%q is not a verification status", s))
	}
}
