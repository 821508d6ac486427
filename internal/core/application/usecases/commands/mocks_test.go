package commands_test

import (
	"context"
	"io"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/picker"
	"fulfillment/internal/core/domain/model/rider"
	"fulfillment/internal/core/domain/model/store"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindConfirmedWithoutRider(ctx context.Context, limit int) ([]*order.Order, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockDeliveryRepository struct{ mock.Mock }

func (m *MockDeliveryRepository) Add(ctx context.Context, d *delivery.Delivery) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDeliveryRepository) Update(ctx context.Context, d *delivery.Delivery) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDeliveryRepository) Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Delivery), args.Error(1)
}

func (m *MockDeliveryRepository) FindActiveByOrder(ctx context.Context, orderID kernel.UUID) (*delivery.Delivery, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Delivery), args.Error(1)
}

type MockRiderRepository struct{ mock.Mock }

func (m *MockRiderRepository) Add(ctx context.Context, r *rider.Rider) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRiderRepository) Update(ctx context.Context, r *rider.Rider) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRiderRepository) Get(ctx context.Context, id kernel.UUID) (*rider.Rider, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rider.Rider), args.Error(1)
}

func (m *MockRiderRepository) GetAllAvailable(ctx context.Context, vehicle rider.VehicleType) ([]*rider.Rider, error) {
	args := m.Called(ctx, vehicle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*rider.Rider), args.Error(1)
}

type MockPickerRepository struct{ mock.Mock }

func (m *MockPickerRepository) Add(ctx context.Context, p *picker.Picker) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPickerRepository) Update(ctx context.Context, p *picker.Picker) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPickerRepository) Get(ctx context.Context, id kernel.UUID) (*picker.Picker, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*picker.Picker), args.Error(1)
}

type MockStoreRepository struct{ mock.Mock }

func (m *MockStoreRepository) Add(ctx context.Context, s *store.Store) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockStoreRepository) Get(ctx context.Context, vendorID kernel.UUID) (*store.Store, error) {
	args := m.Called(ctx, vendorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Store), args.Error(1)
}

type MockOrderNumberSequence struct{ mock.Mock }

func (m *MockOrderNumberSequence) Next(ctx context.Context, year int) (int64, error) {
	args := m.Called(ctx, year)
	return args.Get(0).(int64), args.Error(1)
}

type MockUoW struct {
	mock.Mock

	orders     *MockOrderRepository
	deliveries *MockDeliveryRepository
	riders     *MockRiderRepository
	pickers    *MockPickerRepository
	stores     *MockStoreRepository
	sequence   *MockOrderNumberSequence
}

func newMockUoW() *MockUoW {
	return &MockUoW{
		orders:     &MockOrderRepository{},
		deliveries: &MockDeliveryRepository{},
		riders:     &MockRiderRepository{},
		pickers:    &MockPickerRepository{},
		stores:     &MockStoreRepository{},
		sequence:   &MockOrderNumberSequence{},
	}
}

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository { return m.orders }

func (m *MockUoW) DeliveryRepository() ports.DeliveryRepository { return m.deliveries }

func (m *MockUoW) RiderRepository() ports.RiderRepository { return m.riders }

func (m *MockUoW) PickerRepository() ports.PickerRepository { return m.pickers }

func (m *MockUoW) StoreRepository() ports.StoreRepository { return m.stores }

func (m *MockUoW) OrderNumberSequence() ports.OrderNumberSequence { return m.sequence }

func (m *MockUoW) assertExpectations(t *testing.T) {
	t.Helper()
	m.AssertExpectations(t)
	m.orders.AssertExpectations(t)
	m.deliveries.AssertExpectations(t)
	m.riders.AssertExpectations(t)
	m.pickers.AssertExpectations(t)
	m.stores.AssertExpectations(t)
	m.sequence.AssertExpectations(t)
}

type MockUoWFactory struct{ uow *MockUoW }

func (f MockUoWFactory) Create() commands.UoW { return f.uow }

type MockPickerUoWFactory struct{ uow *MockUoW }

func (f MockPickerUoWFactory) Create() commands.PickerUoW { return f.uow }

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) Publish(ctx context.Context, n ports.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

type MockProofStorage struct{ mock.Mock }

func (m *MockProofStorage) Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	args := m.Called(ctx, key, contentType, body, size)
	return args.String(0), args.Error(1)
}

// expectTx sets up a unit of work that begins, optionally commits and always rolls back.
func expectTx(ctx context.Context, uow *MockUoW, commit bool) {
	uow.On("Begin", ctx).Return(nil).Once()
	if commit {
		uow.On("Commit", ctx).Return(nil).Once()
	}
	uow.On("Rollback", ctx).Return(nil).Once()
}

var now = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func point(t *testing.T, lat, lng float64) *kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(lat, lng)
	require.NoError(t, err)
	return &p
}

func requester(t *testing.T, id kernel.UUID, role commands.Role, vendorID *kernel.UUID) commands.Requester {
	t.Helper()
	r, err := commands.NewRequester(id, role, vendorID)
	require.NoError(t, err)
	return r
}

func availableRider(t *testing.T, location *kernel.GeoPoint, stats rider.Stats) *rider.Rider {
	t.Helper()
	r, err := rider.RestoreRider(rider.RestoreParams{
		ID:              kernel.NewUUID(),
		Name:            "Tunde",
		IsActive:        true,
		Verification:    rider.VerificationVerified,
		IsAvailable:     true,
		Vehicle:         rider.Motorcycle,
		CurrentLocation: location,
		Stats:           stats,
	})
	require.NoError(t, err)
	return r
}

func newStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewStore(kernel.NewUUID(), "Corner Mart", kernel.Address{
		Street: "1 Market Rd", City: "Lagos", Coordinates: point(t, 6.5244, 3.3792),
	})
	require.NoError(t, err)
	return s
}

func pendingOrder(t *testing.T, vendorID kernel.UUID) *order.Order {
	t.Helper()
	item, err := order.NewItem("sku-1", "Yam", 1500, 2)
	require.NoError(t, err)
	pricing, err := order.NewPricing(500, 0, 0)
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), "ORD-2026-000010", kernel.NewUUID(), vendorID,
		kernel.Address{Street: "12 Allen Ave", City: "Lagos", Coordinates: point(t, 6.60, 3.35)},
		[]order.Item{item}, pricing, now)
	require.NoError(t, err)
	o.PullEvents()
	return o
}

func confirmedOrder(t *testing.T, vendorID kernel.UUID) *order.Order {
	t.Helper()
	o := pendingOrder(t, vendorID)
	require.NoError(t, o.Confirm(now))
	o.PullEvents()
	return o
}

// dispatched returns an order with a freshly assigned delivery and its rider.
func dispatched(t *testing.T) (*order.Order, *delivery.Delivery, *rider.Rider) {
	t.Helper()
	s := newStore(t)
	o := confirmedOrder(t, s.ID())
	r := availableRider(t, point(t, 6.53, 3.38), rider.Stats{})
	dlv, err := services.NewDeliveryDispatcher().Dispatch(o, s, r,
		delivery.Actor{ID: kernel.NewUUID(), Role: delivery.ActorSystem}, false, now)
	require.NoError(t, err)
	o.PullEvents()
	dlv.PullEvents()
	return o, dlv, r
}
