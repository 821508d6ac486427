package commands

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// OrderLine is one checkout line as submitted.
type OrderLine struct {
	ProductID string
	Name      string
	UnitPrice kernel.Money
	Quantity  int
}

// CreateOrderCommand represents a checkout handing a paid basket to fulfillment.
// Line prices are snapshots; pricing totals are always derived.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(customerID, vendorID, address, lines, 500, 120, 0)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	o, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	customerID kernel.UUID
	vendorID   kernel.UUID
	address    kernel.Address
	items      []order.Item
	pricing    order.Pricing

	guard guard.ConstructorGuard
}

func NewCreateOrderCommand(
	customerID, vendorID kernel.UUID,
	address kernel.Address,
	lines []OrderLine,
	deliveryFee, tax, discount kernel.Money,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		customerID: customerID,
		vendorID:   vendorID,
		address:    address,
		guard:      guard.NewConstructorGuard(),
	}

	pricing, pricingErr := order.NewPricing(deliveryFee, tax, discount)
	cmd.pricing = pricing

	if err := errors.Join(
		customerID.Validate(),
		vendorID.Validate(),
		address.Validate(),
		cmd.setItems(lines),
		pricingErr,
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) CustomerID() kernel.UUID {
	return c.customerID
}

func (c CreateOrderCommand) VendorID() kernel.UUID {
	return c.vendorID
}

func (c CreateOrderCommand) Address() kernel.Address {
	return c.address
}

func (c CreateOrderCommand) Items() []order.Item {
	return append([]order.Item(nil), c.items...)
}

func (c CreateOrderCommand) Pricing() order.Pricing {
	return c.pricing
}

func (c *CreateOrderCommand) setItems(lines []OrderLine) error {
	if len(lines) == 0 {
		return errs.NewValueIsRequiredError("items")
	}

	var lineErrs []error
	c.items = make([]order.Item, 0, len(lines))
	for i, line := range lines {
		item, err := order.NewItem(line.ProductID, line.Name, line.UnitPrice, line.Quantity)
		if err != nil {
			lineErrs = append(lineErrs, fmt.Errorf("items[%d]: %w", i, err))
			continue
		}
		c.items = append(c.items, item)
	}
	return errors.Join(lineErrs...)
}
