package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequester(t *testing.T) {
	id := kernel.NewUUID()

	vendor := requester(t, id, commands.RoleVendor, nil)
	require.NotNil(t, vendor.VendorID())
	assert.True(t, vendor.VendorID().IsEqual(id))

	_, err := commands.NewRequester(id, commands.Role("courier"), nil)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = commands.NewRequester(kernel.UUID{}, commands.RoleAdmin, nil)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	var zero commands.Requester
	require.ErrorIs(t, zero.Validate(), commands.ErrRequesterIsNotConstructed)
}

func TestRequester_CanManageVendor(t *testing.T) {
	vendorID := kernel.NewUUID()
	staff := kernel.NewUUID()

	require.NoError(t, requester(t, kernel.NewUUID(), commands.RoleAdmin, nil).CanManageVendor(vendorID))
	require.NoError(t, commands.SystemRequester().CanManageVendor(vendorID))
	require.NoError(t, requester(t, staff, commands.RoleVendor, &vendorID).CanManageVendor(vendorID))
	require.ErrorIs(t, requester(t, staff, commands.RoleVendor, nil).CanManageVendor(vendorID), errs.ErrActionIsForbidden)
	require.ErrorIs(t, requester(t, vendorID, commands.RoleCustomer, nil).CanManageVendor(vendorID), errs.ErrActionIsForbidden)
}

func TestRequester_Actor(t *testing.T) {
	id := kernel.NewUUID()
	actor := requester(t, id, commands.RoleRider, nil).Actor()
	assert.Equal(t, delivery.ActorRider, actor.Role)
	assert.True(t, actor.ID.IsEqual(id))

	assert.Equal(t, delivery.ActorSystem, commands.SystemRequester().Actor().Role)
}
