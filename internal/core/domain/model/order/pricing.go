package order

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// Pricing is the order price breakdown. Subtotal and Total are derived:
//
//	subtotal = sum(item.unitPrice * item.quantity)
//	total    = subtotal + deliveryFee + tax - discount
type Pricing struct {
	subtotal    kernel.Money
	deliveryFee kernel.Money
	tax         kernel.Money
	discount    kernel.Money
	total       kernel.Money
}

func NewPricing(deliveryFee, tax, discount kernel.Money) (Pricing, error) {
	var feeErr, taxErr, discountErr error
	if err := deliveryFee.Validate(); err != nil {
		feeErr = errs.NewValueIsInvalidErrorWithCause("deliveryFee", err)
	}
	if err := tax.Validate(); err != nil {
		taxErr = errs.NewValueIsInvalidErrorWithCause("tax", err)
	}
	if err := discount.Validate(); err != nil {
		discountErr = errs.NewValueIsInvalidErrorWithCause("discount", err)
	}
	if err := errors.Join(feeErr, taxErr, discountErr); err != nil {
		return Pricing{}, err
	}
	return Pricing{deliveryFee: deliveryFee, tax: tax, discount: discount}, nil
}

func (p Pricing) Subtotal() kernel.Money    { return p.subtotal }
func (p Pricing) DeliveryFee() kernel.Money { return p.deliveryFee }
func (p Pricing) Tax() kernel.Money         { return p.tax }
func (p Pricing) Discount() kernel.Money    { return p.discount }
func (p Pricing) Total() kernel.Money       { return p.total }

// recompute derives subtotal and total from items. Stored totals are never trusted.
func (p Pricing) recompute(items []Item) (Pricing, error) {
	var subtotal kernel.Money
	for i := range items {
		if err := items[i].recompute(); err != nil {
			return Pricing{}, err
		}
		sum, err := subtotal.Plus(items[i].subtotal)
		if err != nil {
			return Pricing{}, errs.NewValueIsOutOfRangeErrorWithCause("subtotal", len(items), 0, kernel.MaxMoney.String(), err)
		}
		subtotal = sum
	}

	gross, err := subtotal.Plus(p.deliveryFee)
	if err == nil {
		gross, err = gross.Plus(p.tax)
	}
	if err != nil {
		return Pricing{}, errs.NewValueIsOutOfRangeErrorWithCause("total", subtotal.String(), 0, kernel.MaxMoney.String(), err)
	}

	p.subtotal = subtotal
	p.total = gross - p.discount
	if p.total < 0 {
		return Pricing{}, errs.NewValueIsInvalidErrorWithCause(
			"discount",
			fmt.Errorf("discount %s exceeds subtotal, fee and tax", p.discount),
		)
	}
	return p, nil
}
