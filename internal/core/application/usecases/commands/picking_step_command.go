package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrPickingStepCommandIsNotConstructed = errors.New(
	"PickingStepCommand must be created via NewPickingStepCommand constructor",
)

// PickingStep is a picker's move along the picking track.
type PickingStep int

const (
	StartPicking PickingStep = iota + 1
	FinishPicking
	PackOrder
)

// PickingStepCommand is the assigned picker starting, finishing or packing an order.
type PickingStepCommand struct { //nolint:recvcheck //using for validation
	step      PickingStep
	orderID   kernel.UUID
	requester Requester

	guard guard.ConstructorGuard
}

func NewPickingStepCommand(step PickingStep, orderID kernel.UUID, requester Requester) (PickingStepCommand, error) {
	var stepErr error
	if step < StartPicking || step > PackOrder {
		stepErr = errs.NewValueIsOutOfRangeError("step", int(step), int(StartPicking), int(PackOrder))
	}
	if err := errors.Join(stepErr, orderID.Validate(), requester.Validate()); err != nil {
		return PickingStepCommand{}, err
	}
	return PickingStepCommand{
		step:      step,
		orderID:   orderID,
		requester: requester,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c PickingStepCommand) Validate() error {
	return c.guard.Validate(ErrPickingStepCommandIsNotConstructed)
}

func (c PickingStepCommand) Step() PickingStep {
	return c.step
}

func (c PickingStepCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c PickingStepCommand) Requester() Requester {
	return c.requester
}
