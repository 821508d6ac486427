package commands

import (
	"errors"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

const MaxPendingBatch = 500

var ErrAssignPendingOrdersCommandIsNotConstructed = errors.New(
	"AssignPendingOrdersCommand must be created via NewAssignPendingOrdersCommand constructor",
)

// AssignPendingOrdersCommand is one sweep over confirmed orders still waiting
// for a rider.
type AssignPendingOrdersCommand struct { //nolint:recvcheck //using for validation
	batchSize int

	guard guard.ConstructorGuard
}

func NewAssignPendingOrdersCommand(batchSize int) (AssignPendingOrdersCommand, error) {
	if batchSize <= 0 || batchSize > MaxPendingBatch {
		return AssignPendingOrdersCommand{}, errs.NewValueIsOutOfRangeError("batchSize", batchSize, 1, MaxPendingBatch)
	}
	return AssignPendingOrdersCommand{batchSize: batchSize, guard: guard.NewConstructorGuard()}, nil
}

func (c AssignPendingOrdersCommand) Validate() error {
	return c.guard.Validate(ErrAssignPendingOrdersCommandIsNotConstructed)
}

func (c AssignPendingOrdersCommand) BatchSize() int {
	return c.batchSize
}
