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
	"fulfillment/internal/pkg/guard"
)

var ErrRiderDeliveryCommandIsNotConstructed = errors.New(
	"rider delivery command must be created via its constructor",
)

// riderDeliveryCommand carries what every rider-driven delivery step needs.
type riderDeliveryCommand struct {
	deliveryID kernel.UUID
	location   *kernel.GeoPoint
	requester  Requester

	guard guard.ConstructorGuard
}

func newRiderDeliveryCommand(deliveryID kernel.UUID, location *kernel.GeoPoint, requester Requester) (riderDeliveryCommand, error) {
	var locationErr error
	if location != nil {
		locationErr = location.Validate()
	}
	if err := errors.Join(deliveryID.Validate(), locationErr, requester.Validate()); err != nil {
		return riderDeliveryCommand{}, err
	}
	return riderDeliveryCommand{
		deliveryID: deliveryID,
		location:   location,
		requester:  requester,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c riderDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrRiderDeliveryCommandIsNotConstructed)
}

func (c riderDeliveryCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

func (c riderDeliveryCommand) Location() *kernel.GeoPoint {
	return c.location
}

func (c riderDeliveryCommand) Requester() Requester {
	return c.requester
}

// riderDeliveryScope is the state loaded for one step. The rider is loaded
// only when the step changes rider stats.
type riderDeliveryScope struct {
	delivery *delivery.Delivery
	order    *order.Order
	rider    *rider.Rider
	now      time.Time

	orderUnchanged bool
}

type riderDeliveryStep func(scope *riderDeliveryScope) error

// runRiderDeliveryStep loads the delivery, checks the caller is its rider,
// applies step and writes every touched aggregate in one transaction.
func runRiderDeliveryStep(
	ctx context.Context,
	uowFactory UoWFactory,
	notifier EventNotifier,
	cmd riderDeliveryCommand,
	loadRider bool,
	step riderDeliveryStep,
) (*delivery.Delivery, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	riderID := cmd.Requester().ID()
	dlv, err := uow.DeliveryRepository().Get(ctx, cmd.DeliveryID())
	if err != nil {
		return nil, err
	}
	if !dlv.IsRider(riderID) {
		return nil, delivery.ErrNotDeliveryRider
	}

	o, err := uow.OrderRepository().Get(ctx, dlv.OrderID())
	if err != nil {
		return nil, err
	}
	if o.Delivery().DeliveryID == nil || !o.Delivery().DeliveryID.IsEqual(dlv.ID()) {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"delivery", errors.New("delivery no longer belongs to the order's rider leg"),
		)
	}

	scope := &riderDeliveryScope{delivery: dlv, order: o, now: time.Now().UTC()}
	if loadRider {
		if scope.rider, err = uow.RiderRepository().Get(ctx, riderID); err != nil {
			return nil, err
		}
	}

	if err = step(scope); err != nil {
		return nil, err
	}

	if err = uow.DeliveryRepository().Update(ctx, dlv); err != nil {
		return nil, err
	}
	if !scope.orderUnchanged {
		if err = uow.OrderRepository().Update(ctx, o); err != nil {
			return nil, err
		}
	}
	if scope.rider != nil {
		if err = uow.RiderRepository().Update(ctx, scope.rider); err != nil {
			return nil, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	notifier.Notify(ctx, collectEvents(dlv, o), deliveryAudience(o, &riderID))
	return dlv, nil
}
