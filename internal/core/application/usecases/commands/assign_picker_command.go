package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrAssignPickerCommandIsNotConstructed = errors.New(
	"AssignPickerCommand must be created via NewAssignPickerCommand constructor",
)

// AssignPickerCommand is a vendor handing an order to a checked-in picker.
type AssignPickerCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	pickerID  kernel.UUID
	requester Requester

	guard guard.ConstructorGuard
}

func NewAssignPickerCommand(orderID, pickerID kernel.UUID, requester Requester) (AssignPickerCommand, error) {
	if err := errors.Join(orderID.Validate(), pickerID.Validate(), requester.Validate()); err != nil {
		return AssignPickerCommand{}, err
	}
	return AssignPickerCommand{
		orderID:   orderID,
		pickerID:  pickerID,
		requester: requester,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c AssignPickerCommand) Validate() error {
	return c.guard.Validate(ErrAssignPickerCommandIsNotConstructed)
}

func (c AssignPickerCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c AssignPickerCommand) PickerID() kernel.UUID {
	return c.pickerID
}

func (c AssignPickerCommand) Requester() Requester {
	return c.requester
}
