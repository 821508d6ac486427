package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrUpdatePickedItemCommandIsNotConstructed = errors.New(
	"UpdatePickedItemCommand must be created via NewUpdatePickedItemCommand constructor",
)

// UpdatePickedItemCommand records the picker's outcome for one order line.
type UpdatePickedItemCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	productID string
	update    order.ItemUpdate
	requester Requester

	guard guard.ConstructorGuard
}

func NewUpdatePickedItemCommand(
	orderID kernel.UUID,
	productID, status, substituteName string,
	substitutePrice *kernel.Money,
	issue string,
	requester Requester,
) (UpdatePickedItemCommand, error) {
	parsed, statusErr := order.ParseItemPickStatus(status)

	var productErr error
	productID = strings.TrimSpace(productID)
	if productID == "" {
		productErr = errs.NewValueIsRequiredError("productId")
	}

	if err := errors.Join(orderID.Validate(), productErr, statusErr, requester.Validate()); err != nil {
		return UpdatePickedItemCommand{}, err
	}

	return UpdatePickedItemCommand{
		orderID:   orderID,
		productID: productID,
		update: order.ItemUpdate{
			Status:          parsed,
			SubstituteName:  strings.TrimSpace(substituteName),
			SubstitutePrice: substitutePrice,
			Issue:           strings.TrimSpace(issue),
		},
		requester: requester,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c UpdatePickedItemCommand) Validate() error {
	return c.guard.Validate(ErrUpdatePickedItemCommandIsNotConstructed)
}

func (c UpdatePickedItemCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c UpdatePickedItemCommand) ProductID() string {
	return c.productID
}

func (c UpdatePickedItemCommand) Update() order.ItemUpdate {
	return c.update
}

func (c UpdatePickedItemCommand) Requester() Requester {
	return c.requester
}
