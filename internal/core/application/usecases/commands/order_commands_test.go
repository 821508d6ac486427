package commands_test

import (
	"errors"
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewCreateOrderCommand(t *testing.T) {
	address := kernel.Address{Street: "12 Allen Ave", City: "Lagos"}
	lines := []commands.OrderLine{{ProductID: "sku-1", Name: "Yam", UnitPrice: 1500, Quantity: 2}}

	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), kernel.NewUUID(), address, lines, 500, 100, 50)
	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
	require.Len(t, cmd.Items(), 1)

	_, err = commands.NewCreateOrderCommand(kernel.NewUUID(), kernel.NewUUID(), address, nil, 500, 0, 0)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	bad := []commands.OrderLine{{ProductID: "sku-1", Name: "Yam", UnitPrice: 1500, Quantity: 0}}
	_, err = commands.NewCreateOrderCommand(kernel.NewUUID(), kernel.NewUUID(), address, bad, 500, 0, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "items[0]")

	_, err = commands.NewCreateOrderCommand(kernel.NewUUID(), kernel.NewUUID(), kernel.Address{}, lines, 500, 0, 0)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestCreateOrderCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	s := newStore(t)
	lines := []commands.OrderLine{
		{ProductID: "sku-1", Name: "Yam", UnitPrice: 1500, Quantity: 2},
		{ProductID: "sku-2", Name: "Palm oil", UnitPrice: 2000, Quantity: 1},
	}

	uow := newMockUoW()
	expectTx(ctx, uow, true)
	uow.stores.On("Get", ctx, s.ID()).Return(s, nil).Once()
	uow.sequence.On("Next", ctx, mock.AnythingOfType("int")).Return(int64(42), nil).Once()
	uow.orders.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once()

	handler := commands.NewCreateOrderCommandHandler(MockUoWFactory{uow}, commands.NewEventNotifier(nil, nil))
	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), s.ID(), kernel.Address{Street: "12 Allen Ave", City: "Lagos"}, lines, 500, 250, 100)
	require.NoError(t, err)

	o, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	uow.assertExpectations(t)
	assert.Equal(t, order.Pending, o.Status())
	assert.Regexp(t, `^ORD-\d{4}-000042$`, o.OrderNumber())
	assert.Equal(t, kernel.Money(5000), o.Pricing().Subtotal())
	assert.Equal(t, kernel.Money(5650), o.Pricing().Total())
}

func TestCreateOrderCommandHandler_Handle_UnknownVendor(t *testing.T) {
	ctx := t.Context()
	vendorID := kernel.NewUUID()

	uow := newMockUoW()
	expectTx(ctx, uow, false)
	uow.stores.On("Get", ctx, vendorID).Return(nil, errs.NewObjectNotFoundError("vendor", vendorID)).Once()

	handler := commands.NewCreateOrderCommandHandler(MockUoWFactory{uow}, commands.NewEventNotifier(nil, nil))
	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), vendorID, kernel.Address{Street: "1", City: "Abuja"},
		[]commands.OrderLine{{ProductID: "sku-1", Name: "Rice", UnitPrice: 100, Quantity: 1}}, 0, 0, 0)
	require.NoError(t, err)

	_, err = handler.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	uow.assertExpectations(t)
}

func TestOrderActionCommandHandler_Confirm(t *testing.T) {
	ctx := t.Context()
	vendorID := kernel.NewUUID()
	o := pendingOrder(t, vendorID)

	uow := newMockUoW()
	expectTx(ctx, uow, true)
	uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
	uow.orders.On("Update", ctx, o).Return(nil).Once()

	handler := commands.NewOrderActionCommandHandler(MockUoWFactory{uow}, commands.NewEventNotifier(nil, nil))
	cmd, err := commands.NewOrderActionCommand(commands.ConfirmOrder, o.ID(), "", requester(t, vendorID, commands.RoleVendor, nil))
	require.NoError(t, err)

	_, err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	uow.assertExpectations(t)
	assert.Equal(t, order.Confirmed, o.Status())
}

func TestOrderActionCommandHandler_CancelReleasesRider(t *testing.T) {
	ctx := t.Context()
	o, dlv, r := dispatched(t)

	uow := newMockUoW()
	expectTx(ctx, uow, true)
	uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
	uow.deliveries.On("FindActiveByOrder", ctx, o.ID()).Return(dlv, nil).Once()
	uow.deliveries.On("Update", ctx, dlv).Return(nil).Once()
	uow.riders.On("Get", ctx, r.ID()).Return(r, nil).Once()
	uow.riders.On("Update", ctx, r).Return(nil).Once()
	uow.orders.On("Update", ctx, o).Return(nil).Once()

	customer := requester(t, o.CustomerID(), commands.RoleCustomer, nil)
	handler := commands.NewOrderActionCommandHandler(MockUoWFactory{uow}, commands.NewEventNotifier(nil, nil))
	cmd, err := commands.NewOrderActionCommand(commands.CancelOrder, o.ID(), "changed my mind", customer)
	require.NoError(t, err)

	_, err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	uow.assertExpectations(t)
	assert.Equal(t, order.Cancelled, o.Status())
	assert.Equal(t, "changed my mind", o.CancellationReason())
	assert.Nil(t, o.Rider())
	assert.Equal(t, delivery.Rejected, dlv.Status())
	assert.Equal(t, "changed my mind", dlv.RejectionReason())
	assert.True(t, r.IsAvailable())
	assert.Equal(t, 0, r.Stats().ActiveDeliveries)
}

func TestOrderActionCommandHandler_CancelWithoutLiveLeg(t *testing.T) {
	t.Run("should cancel an order that never had a delivery", func(t *testing.T) {
		// Given
		ctx := t.Context()
		o := confirmedOrder(t, kernel.NewUUID())

		uow := newMockUoW()
		expectTx(ctx, uow, true)
		uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
		uow.deliveries.On("FindActiveByOrder", ctx, o.ID()).
			Return(nil, errs.NewObjectNotFoundError("active delivery for order", o.ID().String())).Once()
		uow.orders.On("Update", ctx, o).Return(nil).Once()

		handler := commands.NewOrderActionCommandHandler(MockUoWFactory{uow}, commands.NewEventNotifier(nil, nil))
		cmd, err := commands.NewOrderActionCommand(commands.CancelOrder, o.ID(), "out of stock", requester(t, kernel.NewUUID(), commands.RoleAdmin, nil))
		require.NoError(t, err)

		// When
		_, err = handler.Handle(ctx, cmd)

		// Then
		require.NoError(t, err)
		uow.assertExpectations(t)
		uow.deliveries.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
		assert.Equal(t, order.Cancelled, o.Status())
	})

	t.Run("should surface a failed delivery lookup", func(t *testing.T) {
		// Given
		ctx := t.Context()
		o := confirmedOrder(t, kernel.NewUUID())
		lookupErr := errors.New("connection reset")

		uow := newMockUoW()
		expectTx(ctx, uow, false)
		uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
		uow.deliveries.On("FindActiveByOrder", ctx, o.ID()).Return(nil, lookupErr).Once()

		handler := commands.NewOrderActionCommandHandler(MockUoWFactory{uow}, commands.NewEventNotifier(nil, nil))
		cmd, err := commands.NewOrderActionCommand(commands.CancelOrder, o.ID(), "out of stock", requester(t, kernel.NewUUID(), commands.RoleAdmin, nil))
		require.NoError(t, err)

		// When
		_, err = handler.Handle(ctx, cmd)

		// Then
		require.ErrorIs(t, err, lookupErr)
		uow.assertExpectations(t)
		assert.Equal(t, order.Confirmed, o.Status())
	})
}

func TestOrderActionCommandHandler_CancelForbidden(t *testing.T) {
	ctx := t.Context()
	o := confirmedOrder(t, kernel.NewUUID())

	uow := newMockUoW()
	expectTx(ctx, uow, false)
	uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Twice()

	handler := commands.NewOrderActionCommandHandler(MockUoWFactory{uow}, commands.NewEventNotifier(nil, nil))

	stranger, err := commands.NewOrderActionCommand(commands.CancelOrder, o.ID(), "x", requester(t, kernel.NewUUID(), commands.RoleCustomer, nil))
	require.NoError(t, err)
	_, err = handler.Handle(ctx, stranger)
	require.ErrorIs(t, err, order.ErrNotOrderOwner)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	otherVendor, err := commands.NewOrderActionCommand(commands.CancelOrder, o.ID(), "x", requester(t, kernel.NewUUID(), commands.RoleVendor, nil))
	require.NoError(t, err)
	_, err = handler.Handle(ctx, otherVendor)
	require.ErrorIs(t, err, errs.ErrActionIsForbidden)

	uow.assertExpectations(t)
	assert.Equal(t, order.Confirmed, o.Status())
}

func TestOrderActionCommandHandler_CancelAfterPickup(t *testing.T) {
	ctx := t.Context()
	o, dlv, r := dispatched(t)
	require.NoError(t, dlv.Accept(r.ID(), nil, now))
	require.NoError(t, dlv.PickUp(r.ID(), nil, nil, now))
	require.NoError(t, o.MarkPickedUp(now))

	uow := newMockUoW()
	expectTx(ctx, uow, false)
	uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()

	handler := commands.NewOrderActionCommandHandler(MockUoWFactory{uow}, commands.NewEventNotifier(nil, nil))
	cmd, err := commands.NewOrderActionCommand(commands.CancelOrder, o.ID(), "too late", requester(t, kernel.NewUUID(), commands.RoleAdmin, nil))
	require.NoError(t, err)

	_, err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	uow.assertExpectations(t)
	assert.Equal(t, delivery.PickedUp, dlv.Status())
}

func TestNewOrderActionCommand(t *testing.T) {
	caller := requester(t, kernel.NewUUID(), commands.RoleAdmin, nil)

	_, err := commands.NewOrderActionCommand(commands.CancelOrder, kernel.NewUUID(), " ", caller)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = commands.NewOrderActionCommand(commands.OrderAction(9), kernel.NewUUID(), "", caller)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}
