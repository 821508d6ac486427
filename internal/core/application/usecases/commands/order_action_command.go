package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrOrderActionCommandIsNotConstructed = errors.New(
	"OrderActionCommand must be created via NewOrderActionCommand constructor",
)

// OrderAction is a lifecycle step applied to a whole order.
type OrderAction int

const (
	ConfirmOrder OrderAction = iota + 1
	CancelOrder
	CompleteOrder
)

// OrderActionCommand confirms, cancels or completes an order. Cancel requires a reason.
type OrderActionCommand struct { //nolint:recvcheck //using for validation
	action    OrderAction
	orderID   kernel.UUID
	reason    string
	requester Requester

	guard guard.ConstructorGuard
}

func NewOrderActionCommand(action OrderAction, orderID kernel.UUID, reason string, requester Requester) (OrderActionCommand, error) {
	cmd := OrderActionCommand{
		action:    action,
		orderID:   orderID,
		reason:    strings.TrimSpace(reason),
		requester: requester,
		guard:     guard.NewConstructorGuard(),
	}

	var actionErr error
	switch action {
	case ConfirmOrder, CompleteOrder:
	case CancelOrder:
		if cmd.reason == "" {
			actionErr = errs.NewValueIsRequiredError("reason")
		}
	default:
		actionErr = errs.NewValueIsOutOfRangeError("action", int(action), int(ConfirmOrder), int(CompleteOrder))
	}

	if err := errors.Join(actionErr, orderID.Validate(), requester.Validate()); err != nil {
		return OrderActionCommand{}, err
	}
	return cmd, nil
}

func (c OrderActionCommand) Validate() error {
	return c.guard.Validate(ErrOrderActionCommandIsNotConstructed)
}

func (c OrderActionCommand) Action() OrderAction {
	return c.action
}

func (c OrderActionCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c OrderActionCommand) Reason() string {
	return c.reason
}

func (c OrderActionCommand) Requester() Requester {
	return c.requester
}
