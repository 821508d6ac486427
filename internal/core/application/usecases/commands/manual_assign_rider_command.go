package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrManualAssignRiderCommandIsNotConstructed = errors.New(
	"ManualAssignRiderCommand must be created via NewManualAssignRiderCommand constructor",
)

// ManualAssignRiderCommand commits a chosen rider to a confirmed or
// ready_for_pickup order.
type ManualAssignRiderCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	riderID   kernel.UUID
	requester Requester

	guard guard.ConstructorGuard
}

func NewManualAssignRiderCommand(orderID, riderID kernel.UUID, requester Requester) (ManualAssignRiderCommand, error) {
	if err := errors.Join(orderID.Validate(), riderID.Validate(), requester.Validate()); err != nil {
		return ManualAssignRiderCommand{}, err
	}

	return ManualAssignRiderCommand{
		orderID:   orderID,
		riderID:   riderID,
		requester: requester,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c ManualAssignRiderCommand) Validate() error {
	return c.guard.Validate(ErrManualAssignRiderCommandIsNotConstructed)
}

func (c ManualAssignRiderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c ManualAssignRiderCommand) RiderID() kernel.UUID {
	return c.riderID
}

func (c ManualAssignRiderCommand) Requester() Requester {
	return c.requester
}
