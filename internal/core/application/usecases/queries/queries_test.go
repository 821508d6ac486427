package queries_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderReader struct {
	mock.Mock
}

func (m *MockOrderReader) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if o, ok := args.Get(0).(*order.Order); ok {
		return o, args.Error(1)
	}
	return nil, args.Error(1)
}

func requester(t *testing.T, id kernel.UUID, role commands.Role) commands.Requester {
	t.Helper()
	r, err := commands.NewRequester(id, role, nil)
	require.NoError(t, err)
	return r
}

func TestNewGetAvailableRidersQuery_Defaults(t *testing.T) {
	admin := requester(t, kernel.NewUUID(), commands.RoleAdmin)

	q, err := queries.NewGetAvailableRidersQuery(kernel.NewUUID(), "", nil, admin)

	require.NoError(t, err)
	require.NoError(t, q.Validate())
	assert.InDelta(t, services.DefaultSearchRadiusKm, q.RadiusKm(), 1e-9)
	assert.Empty(t, q.Vehicle())
}

func TestNewGetAvailableRidersQuery_InvalidInput(t *testing.T) {
	admin := requester(t, kernel.NewUUID(), commands.RoleAdmin)
	zero, huge := 0.0, 500.0

	tests := []struct {
		name    string
		vehicle string
		radius  *float64
		target  error
	}{
		{"unknown vehicle", "rocket", nil, errs.ErrValueIsInvalid},
		{"zero radius", "", &zero, errs.ErrValueIsOutOfRange},
		{"radius too large", "car", &huge, errs.ErrValueIsOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := queries.NewGetAvailableRidersQuery(kernel.NewUUID(), tt.vehicle, tt.radius, admin)
			require.ErrorIs(t, err, tt.target)
		})
	}
}

func TestGetAvailableRidersQuery_NotConstructedViaConstructor(t *testing.T) {
	err := queries.GetAvailableRidersQuery{}.Validate()

	require.ErrorIs(t, err, queries.ErrGetAvailableRidersQueryIsNotConstructed)
}

func TestNewGetActiveDeliveriesQuery_ZeroRider_Fails(t *testing.T) {
	_, err := queries.NewGetActiveDeliveriesQuery(kernel.UUID{})

	require.Error(t, err)
}

func TestParseEarningsPeriod(t *testing.T) {
	p, err := queries.ParseEarningsPeriod("")
	require.NoError(t, err)
	assert.Equal(t, queries.PeriodToday, p)

	p, err = queries.ParseEarningsPeriod("month")
	require.NoError(t, err)
	assert.Equal(t, queries.PeriodMonth, p)

	_, err = queries.ParseEarningsPeriod("year")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestEarningsPeriod_Since(t *testing.T) {
	lagos := time.FixedZone("WAT", 3600)
	at := time.Date(2026, 3, 14, 0, 30, 0, 0, lagos)

	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, lagos), queries.PeriodToday.Since(at))
	assert.Equal(t, at.AddDate(0, 0, -7), queries.PeriodWeek.Since(at))
	assert.Equal(t, at.AddDate(0, 0, -30), queries.PeriodMonth.Since(at))
}

func TestGetOrderQueryHandler_Visibility(t *testing.T) {
	customerID := kernel.NewUUID()
	vendorID := kernel.NewUUID()
	riderID := kernel.NewUUID()
	o := newOrderForVendor(t, customerID, vendorID)
	require.NoError(t, o.Confirm(now))
	require.NoError(t, o.AssignRider(riderID, kernel.NewUUID(), now, now, false, now))

	vendor, err := commands.NewRequester(kernel.NewUUID(), commands.RoleVendor, &vendorID)
	require.NoError(t, err)

	tests := []struct {
		name    string
		caller  commands.Requester
		visible bool
	}{
		{"customer owner", requester(t, customerID, commands.RoleCustomer), true},
		{"other customer", requester(t, kernel.NewUUID(), commands.RoleCustomer), false},
		{"store vendor", vendor, true},
		{"other vendor", requester(t, kernel.NewUUID(), commands.RoleVendor), false},
		{"assigned rider", requester(t, riderID, commands.RoleRider), true},
		{"other rider", requester(t, kernel.NewUUID(), commands.RoleRider), false},
		{"unassigned picker", requester(t, kernel.NewUUID(), commands.RolePicker), false},
		{"admin", requester(t, kernel.NewUUID(), commands.RoleAdmin), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := new(MockOrderReader)
			reader.On("Get", mock.Anything, o.ID()).Return(o, nil)
			handler := queries.NewGetOrderQueryHandler(reader)
			q, err := queries.NewGetOrderQuery(o.ID(), tt.caller)
			require.NoError(t, err)

			got, err := handler.Handle(context.Background(), q)

			if tt.visible {
				require.NoError(t, err)
				assert.Same(t, o, got)
			} else {
				require.ErrorIs(t, err, errs.ErrActionIsForbidden)
				assert.Nil(t, got)
			}
			reader.AssertExpectations(t)
		})
	}
}

func TestGetOrderQueryHandler_NotFound(t *testing.T) {
	id := kernel.NewUUID()
	reader := new(MockOrderReader)
	reader.On("Get", mock.Anything, id).Return(nil, errs.NewObjectNotFoundError("order", id.String()))
	q, err := queries.NewGetOrderQuery(id, requester(t, kernel.NewUUID(), commands.RoleAdmin))
	require.NoError(t, err)

	_, err = queries.NewGetOrderQueryHandler(reader).Handle(context.Background(), q)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func newOrderForVendor(t *testing.T, customerID, vendorID kernel.UUID) *order.Order {
	t.Helper()
	item, err := order.NewItem("sku-1", "Garri 2kg", 1800, 1)
	require.NoError(t, err)
	pricing, err := order.NewPricing(500, 0, 0)
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), "ORD-2026-000042", customerID, vendorID,
		kernel.Address{Street: "3 Broad St", City: "Lagos"}, []order.Item{item}, pricing, now)
	require.NoError(t, err)
	return o
}
