package order

import (
	"errors"
	"fmt"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// MaxQuantity bounds a single order line.
const MaxQuantity = 10_000

// Item is an order line with the product price captured at checkout.
type Item struct {
	productID string
	name      string
	unitPrice kernel.Money
	quantity  int
	subtotal  kernel.Money
}

func NewItem(productID, name string, unitPrice kernel.Money, quantity int) (Item, error) {
	it := Item{}
	if err := errors.Join(
		it.setProductID(productID),
		it.setName(name),
		it.setUnitPrice(unitPrice),
		it.setQuantity(quantity),
	); err != nil {
		return Item{}, err
	}
	if err := it.recompute(); err != nil {
		return Item{}, err
	}
	return it, nil
}

func (i Item) ProductID() string       { return i.productID }
func (i Item) Name() string            { return i.name }
func (i Item) UnitPrice() kernel.Money { return i.unitPrice }
func (i Item) Quantity() int           { return i.quantity }
func (i Item) Subtotal() kernel.Money  { return i.subtotal }

func (i *Item) recompute() error {
	subtotal, err := i.unitPrice.Times(i.quantity)
	if err != nil {
		return errs.NewValueIsOutOfRangeErrorWithCause("subtotal", i.productID, 0, kernel.MaxMoney.String(), err)
	}
	i.subtotal = subtotal
	return nil
}

func (i *Item) setProductID(id string) error {
	if strings.TrimSpace(id) == "" {
		return errs.NewValueIsRequiredError("productId")
	}
	i.productID = id
	return nil
}

func (i *Item) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errs.NewValueIsRequiredError("name")
	}
	i.name = name
	return nil
}

func (i *Item) setUnitPrice(price kernel.Money) error {
	if err := price.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("price", err)
	}
	i.unitPrice = price
	return nil
}

func (i *Item) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", quantity))
	}
	if quantity > MaxQuantity {
		return errs.NewValueIsOutOfRangeError("quantity", quantity, 1, MaxQuantity)
	}
	i.quantity = quantity
	return nil
}
