package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/rider"
	"fulfillment/internal/pkg/guard"
)

var ErrAutoAssignRiderCommandIsNotConstructed = errors.New(
	"AutoAssignRiderCommand must be created via NewAutoAssignRiderCommand constructor",
)

// AutoAssignRiderCommand asks for the best rider to be committed to a confirmed order.
// An empty vehicle matches every vehicle type.
type AutoAssignRiderCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	vehicle   rider.VehicleType
	requester Requester

	guard guard.ConstructorGuard
}

func NewAutoAssignRiderCommand(orderID kernel.UUID, vehicle string, requester Requester) (AutoAssignRiderCommand, error) {
	cmd := AutoAssignRiderCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setVehicle(vehicle),
		requester.Validate(),
	); err != nil {
		return AutoAssignRiderCommand{}, err
	}
	cmd.requester = requester

	return cmd, nil
}

func (c AutoAssignRiderCommand) Validate() error {
	return c.guard.Validate(ErrAutoAssignRiderCommandIsNotConstructed)
}

func (c AutoAssignRiderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c AutoAssignRiderCommand) Vehicle() rider.VehicleType {
	return c.vehicle
}

func (c AutoAssignRiderCommand) Requester() Requester {
	return c.requester
}

func (c *AutoAssignRiderCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.orderID = id
	return nil
}

func (c *AutoAssignRiderCommand) setVehicle(vehicle string) error {
	if vehicle == "" {
		return nil
	}
	v, err := rider.ParseVehicleType(vehicle)
	if err != nil {
		return err
	}
	c.vehicle = v
	return nil
}
