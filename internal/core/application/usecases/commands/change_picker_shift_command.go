package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrChangePickerShiftCommandIsNotConstructed = errors.New(
	"ChangePickerShiftCommand must be created via NewChangePickerShiftCommand constructor",
)

// ChangePickerShiftCommand checks the calling picker in at or out of a store.
type ChangePickerShiftCommand struct { //nolint:recvcheck //using for validation
	vendorID  kernel.UUID
	checkIn   bool
	requester Requester

	guard guard.ConstructorGuard
}

func NewChangePickerShiftCommand(vendorID kernel.UUID, checkIn bool, requester Requester) (ChangePickerShiftCommand, error) {
	if err := errors.Join(vendorID.Validate(), requester.Validate()); err != nil {
		return ChangePickerShiftCommand{}, err
	}
	return ChangePickerShiftCommand{
		vendorID:  vendorID,
		checkIn:   checkIn,
		requester: requester,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c ChangePickerShiftCommand) Validate() error {
	return c.guard.Validate(ErrChangePickerShiftCommandIsNotConstructed)
}

func (c ChangePickerShiftCommand) VendorID() kernel.UUID {
	return c.vendorID
}

func (c ChangePickerShiftCommand) CheckIn() bool {
	return c.checkIn
}

func (c ChangePickerShiftCommand) Requester() Requester {
	return c.requester
}
