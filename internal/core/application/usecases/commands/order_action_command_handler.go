package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/rider"
	"fulfillment/internal/pkg/errs"
)

// OrderActionCommandHandler applies vendor and customer lifecycle steps.
// Cancelling an order with a live delivery leg also cancels the leg and frees
// its rider in the same transaction.
type OrderActionCommandHandler struct {
	uowFactory UoWFactory
	notifier   EventNotifier
}

func NewOrderActionCommandHandler(uowFactory UoWFactory, notifier EventNotifier) OrderActionCommandHandler {
	return OrderActionCommandHandler{uowFactory: uowFactory, notifier: notifier}
}

func (h *OrderActionCommandHandler) Handle(ctx context.Context, cmd OrderActionCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	requester := cmd.Requester()
	audience := deliveryAudience(o, o.Rider())
	var events []kernel.DomainEvent

	switch cmd.Action() {
	case ConfirmOrder:
		if err = requester.CanManageVendor(o.VendorID()); err != nil {
			return nil, err
		}
		err = o.Confirm(now)
	case CompleteOrder:
		err = o.CompleteByCustomer(requester.ID(), now)
	case CancelOrder:
		if err = h.canCancel(requester, o); err != nil {
			return nil, err
		}
		var dlv *delivery.Delivery
		if dlv, err = h.cancelLeg(ctx, uow, o, cmd.Reason(), requester.Actor(), now); err != nil {
			return nil, err
		}
		if dlv != nil {
			events = dlv.PullEvents()
		}
		err = o.Cancel(cmd.Reason(), now)
	}
	if err != nil {
		return nil, err
	}

	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.notifier.Notify(ctx, append(events, o.PullEvents()...), audience)
	return o, nil
}

func (h *OrderActionCommandHandler) canCancel(requester Requester, o *order.Order) error {
	if requester.Role() == RoleCustomer {
		if requester.ID().IsEqual(o.CustomerID()) {
			return nil
		}
		return order.ErrNotOrderOwner
	}
	return requester.CanManageVendor(o.VendorID())
}

// cancelLeg rejects the order's assigned or accepted delivery and frees its
// rider. It returns nil when the order has no live leg.
func (h *OrderActionCommandHandler) cancelLeg(
	ctx context.Context,
	uow UoW,
	o *order.Order,
	reason string,
	by delivery.Actor,
	now time.Time,
) (*delivery.Delivery, error) {
	if !o.Status().IsCancellable() {
		return nil, nil
	}

	dlv, err := uow.DeliveryRepository().FindActiveByOrder(ctx, o.ID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if dlv.Status() != delivery.Assigned && dlv.Status() != delivery.Accepted {
		return nil, nil
	}

	released, err := dlv.Cancel(reason, by, now)
	if err != nil {
		return nil, err
	}
	if err = uow.DeliveryRepository().Update(ctx, dlv); err != nil {
		return nil, err
	}

	if released != nil {
		var r *rider.Rider
		if r, err = uow.RiderRepository().Get(ctx, *released); err != nil {
			return nil, err
		}
		r.ReleaseDelivery()
		if err = uow.RiderRepository().Update(ctx, r); err != nil {
			return nil, err
		}
	}
	return dlv, nil
}
