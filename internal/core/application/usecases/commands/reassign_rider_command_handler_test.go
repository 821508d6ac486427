package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/rider"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReassignRiderCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	o, dlv, oldRider := dispatched(t)
	replacement := availableRider(t, nil, rider.Stats{})

	uow := newMockUoW()
	expectTx(ctx, uow, true)
	uow.deliveries.On("Get", ctx, dlv.ID()).Return(dlv, nil).Once()
	uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
	uow.riders.On("Get", ctx, oldRider.ID()).Return(oldRider, nil).Once()
	uow.riders.On("Get", ctx, replacement.ID()).Return(replacement, nil).Once()
	uow.deliveries.On("Update", ctx, dlv).Return(nil).Once()
	uow.orders.On("Update", ctx, o).Return(nil).Once()
	uow.riders.On("Update", ctx, replacement).Return(nil).Once()
	uow.riders.On("Update", ctx, oldRider).Return(nil).Once()

	vendor := requester(t, o.VendorID(), commands.RoleVendor, nil)
	handler := commands.NewReassignRiderCommandHandler(MockUoWFactory{uow}, commands.NewEventNotifier(nil, nil))
	cmd, err := commands.NewReassignRiderCommand(dlv.ID(), replacement.ID(), "rider unreachable", vendor)
	require.NoError(t, err)

	got, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	uow.assertExpectations(t)
	assert.True(t, got.IsRider(replacement.ID()))
	assert.True(t, o.Rider().IsEqual(replacement.ID()))
	assert.Equal(t, delivery.MarkerReassigned, got.Timeline()[len(got.Timeline())-1].Status)
	assert.Equal(t, 0, oldRider.Stats().ActiveDeliveries)
	assert.True(t, oldRider.IsAvailable())
	assert.Equal(t, 1, replacement.Stats().ActiveDeliveries)
	assert.False(t, replacement.IsAvailable())
}

func TestReassignRiderCommandHandler_Handle_NotAssigned(t *testing.T) {
	ctx := t.Context()
	o, dlv, oldRider := dispatched(t)
	require.NoError(t, dlv.Accept(oldRider.ID(), nil, now))
	replacement := availableRider(t, nil, rider.Stats{})

	uow := newMockUoW()
	expectTx(ctx, uow, false)
	uow.deliveries.On("Get", ctx, dlv.ID()).Return(dlv, nil).Once()
	uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
	uow.riders.On("Get", ctx, oldRider.ID()).Return(oldRider, nil).Once()
	uow.riders.On("Get", ctx, replacement.ID()).Return(replacement, nil).Once()

	handler := commands.NewReassignRiderCommandHandler(MockUoWFactory{uow}, commands.NewEventNotifier(nil, nil))
	cmd, err := commands.NewReassignRiderCommand(dlv.ID(), replacement.ID(), "late", requester(t, kernel.NewUUID(), commands.RoleAdmin, nil))
	require.NoError(t, err)

	_, err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	uow.assertExpectations(t)
	assert.True(t, dlv.IsRider(oldRider.ID()))
	assert.Equal(t, 1, oldRider.Stats().ActiveDeliveries)
}

func TestNewReassignRiderCommand_RequiresReason(t *testing.T) {
	_, err := commands.NewReassignRiderCommand(kernel.NewUUID(), kernel.NewUUID(), "", requester(t, kernel.NewUUID(), commands.RoleAdmin, nil))
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}
