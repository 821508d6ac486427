package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/picker"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func approvedPicker(t *testing.T, vendorID kernel.UUID) *picker.Picker {
	t.Helper()
	p, err := picker.NewPicker(kernel.NewUUID(), "Amaka")
	require.NoError(t, err)
	require.NoError(t, p.RequestStore(vendorID, picker.RolePicker, nil, now))
	require.NoError(t, p.Review(vendorID, picker.DecisionApprove, "", now))
	require.NoError(t, p.CheckIn(vendorID))
	return p
}

func TestRequestAndReviewStore(t *testing.T) {
	ctx := t.Context()
	vendorID := kernel.NewUUID()
	p, err := picker.NewPicker(kernel.NewUUID(), "Amaka")
	require.NoError(t, err)

	uow := newMockUoW()
	uow.On("Begin", ctx).Return(nil).Twice()
	uow.On("Commit", ctx).Return(nil).Twice()
	uow.On("Rollback", ctx).Return(nil).Twice()
	uow.pickers.On("Get", ctx, p.ID()).Return(p, nil).Twice()
	uow.pickers.On("Update", ctx, p).Return(nil).Twice()

	request := commands.NewRequestStoreCommandHandler(MockPickerUoWFactory{uow}, commands.NewEventNotifier(nil, nil))
	requestCmd, err := commands.NewRequestStoreCommand(vendorID, "", []string{"produce", " "}, requester(t, p.ID(), commands.RolePicker, nil))
	require.NoError(t, err)
	_, err = request.Handle(ctx, requestCmd)
	require.NoError(t, err)

	link, ok := p.Store(vendorID)
	require.True(t, ok)
	assert.Equal(t, picker.LinkPending, link.Status)
	assert.Equal(t, []string{"produce"}, link.Sections)

	review := commands.NewReviewPickerCommandHandler(MockPickerUoWFactory{uow}, commands.NewEventNotifier(nil, nil))
	reviewCmd, err := commands.NewReviewPickerCommand(p.ID(), nil, "approve", "welcome", requester(t, vendorID, commands.RoleVendor, nil))
	require.NoError(t, err)
	_, err = review.Handle(ctx, reviewCmd)
	require.NoError(t, err)

	uow.assertExpectations(t)
	link, _ = p.Store(vendorID)
	assert.Equal(t, picker.LinkApproved, link.Status)
}

func TestReviewPickerCommandHandler_OtherVendorForbidden(t *testing.T) {
	ctx := t.Context()
	uow := newMockUoW()

	handler := commands.NewReviewPickerCommandHandler(MockPickerUoWFactory{uow}, commands.NewEventNotifier(nil, nil))
	target := kernel.NewUUID()
	cmd, err := commands.NewReviewPickerCommand(kernel.NewUUID(), &target, "approve", "", requester(t, kernel.NewUUID(), commands.RoleVendor, nil))
	require.NoError(t, err)

	_, err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrActionIsForbidden)
	uow.assertExpectations(t)
}

func TestChangePickerShiftCommandHandler(t *testing.T) {
	ctx := t.Context()
	vendorID := kernel.NewUUID()
	p := approvedPicker(t, vendorID)
	p.CheckOut()

	uow := newMockUoW()
	uow.On("Begin", ctx).Return(nil).Times(3)
	uow.On("Commit", ctx).Return(nil).Twice()
	uow.On("Rollback", ctx).Return(nil).Times(3)
	uow.pickers.On("Get", ctx, p.ID()).Return(p, nil).Times(3)
	uow.pickers.On("Update", ctx, p).Return(nil).Twice()

	handler := commands.NewChangePickerShiftCommandHandler(MockPickerUoWFactory{uow})
	caller := requester(t, p.ID(), commands.RolePicker, nil)

	in, err := commands.NewChangePickerShiftCommand(vendorID, true, caller)
	require.NoError(t, err)
	_, err = handler.Handle(ctx, in)
	require.NoError(t, err)
	require.NotNil(t, p.CurrentStore())
	assert.True(t, p.IsAvailable())

	elsewhere, err := commands.NewChangePickerShiftCommand(kernel.NewUUID(), false, caller)
	require.NoError(t, err)
	_, err = handler.Handle(ctx, elsewhere)
	require.NoError(t, err)
	require.NotNil(t, p.CurrentStore())

	out, err := commands.NewChangePickerShiftCommand(vendorID, false, caller)
	require.NoError(t, err)
	_, err = handler.Handle(ctx, out)
	require.NoError(t, err)
	assert.Nil(t, p.CurrentStore())
	assert.False(t, p.IsAvailable())

	uow.assertExpectations(t)
}

func TestPickingFlow(t *testing.T) {
	ctx := t.Context()
	vendorID := kernel.NewUUID()
	o := confirmedOrder(t, vendorID)
	p := approvedPicker(t, vendorID)
	vendor := requester(t, vendorID, commands.RoleVendor, nil)
	caller := requester(t, p.ID(), commands.RolePicker, nil)

	uow := newMockUoW()
	uow.On("Begin", ctx).Return(nil)
	uow.On("Commit", ctx).Return(nil)
	uow.On("Rollback", ctx).Return(nil)
	uow.orders.On("Get", ctx, o.ID()).Return(o, nil)
	uow.orders.On("Update", ctx, o).Return(nil)
	uow.pickers.On("Get", ctx, p.ID()).Return(p, nil)
	uow.pickers.On("Update", ctx, p).Return(nil).Once()
	factory := MockUoWFactory{uow}
	notifier := commands.NewEventNotifier(nil, nil)

	assign := commands.NewAssignPickerCommandHandler(factory, notifier)
	assignCmd, err := commands.NewAssignPickerCommand(o.ID(), p.ID(), vendor)
	require.NoError(t, err)
	_, err = assign.Handle(ctx, assignCmd)
	require.NoError(t, err)
	assert.Equal(t, order.AssignedPicker, o.Status())
	require.Len(t, o.Picking().Items, 1)

	steps := commands.NewPickingStepCommandHandler(factory, notifier)
	step := func(s commands.PickingStep) error {
		cmd, err := commands.NewPickingStepCommand(s, o.ID(), caller)
		require.NoError(t, err)
		_, err = steps.Handle(ctx, cmd)
		return err
	}

	require.NoError(t, step(commands.StartPicking))
	assert.Equal(t, order.Picking, o.Status())

	err = step(commands.FinishPicking)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	items := commands.NewUpdatePickedItemCommandHandler(factory)
	itemCmd, err := commands.NewUpdatePickedItemCommand(o.ID(), "sku-1", "picked", "", nil, "", caller)
	require.NoError(t, err)
	_, err = items.Handle(ctx, itemCmd)
	require.NoError(t, err)

	require.NoError(t, step(commands.FinishPicking))
	assert.Equal(t, order.Picked, o.Status())
	assert.Equal(t, 1, p.Stats().OrdersPicked)
	assert.Equal(t, 1, p.Stats().ItemsPicked)

	require.NoError(t, step(commands.PackOrder))
	assert.Equal(t, order.ReadyForPickup, o.Status())
	assert.Equal(t, order.PickingPacked, o.Picking().Status)

	uow.pickers.AssertExpectations(t)
}

func TestPickingStep_OnlyAssignedPicker(t *testing.T) {
	ctx := t.Context()
	vendorID := kernel.NewUUID()
	o := confirmedOrder(t, vendorID)
	p := approvedPicker(t, vendorID)
	require.NoError(t, o.AssignPicker(p.ID(), now))

	uow := newMockUoW()
	expectTx(ctx, uow, false)
	uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()

	handler := commands.NewPickingStepCommandHandler(MockUoWFactory{uow}, commands.NewEventNotifier(nil, nil))
	cmd, err := commands.NewPickingStepCommand(commands.StartPicking, o.ID(), requester(t, kernel.NewUUID(), commands.RolePicker, nil))
	require.NoError(t, err)

	_, err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, order.ErrNotAssignedPicker)
	require.ErrorIs(t, err, errs.ErrActionIsForbidden)
	uow.assertExpectations(t)
}

func TestAssignPicker_NotCheckedIn(t *testing.T) {
	ctx := t.Context()
	vendorID := kernel.NewUUID()
	o := confirmedOrder(t, vendorID)
	p := approvedPicker(t, vendorID)
	p.CheckOut()

	uow := newMockUoW()
	expectTx(ctx, uow, false)
	uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
	uow.pickers.On("Get", ctx, p.ID()).Return(p, nil).Once()

	handler := commands.NewAssignPickerCommandHandler(MockUoWFactory{uow}, commands.NewEventNotifier(nil, nil))
	cmd, err := commands.NewAssignPickerCommand(o.ID(), p.ID(), requester(t, vendorID, commands.RoleVendor, nil))
	require.NoError(t, err)

	_, err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, picker.ErrNotCheckedIn)
	uow.assertExpectations(t)
	assert.Equal(t, order.Confirmed, o.Status())
}
