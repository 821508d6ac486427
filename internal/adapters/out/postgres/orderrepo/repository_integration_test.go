package orderrepo_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/pgtest"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"
)

type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

var now = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	pg         *pgtest.Database
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	pg, err := pgtest.Start(context.Background(),
		&orderrepo.OrderDTO{}, &orderrepo.OrderItemDTO{}, &orderrepo.OrderNumberSequenceDTO{})
	suite.Require().NoError(err)
	suite.pg = pg
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.pg.Truncate("order_items", "orders", "order_number_sequences"))

	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Maybe()
	suite.repository = orderrepo.NewGormOrderRepository(suite.pg.DB, suite.tracker)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.pg.Terminate(context.Background()))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_RoundTripsItemsAndPricing() {
	ctx := context.Background()
	o := suite.newOrder("ORD-2026-000001")

	suite.Require().NoError(suite.repository.Add(ctx, o))

	loaded, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(o.OrderNumber(), loaded.OrderNumber())
	suite.Equal(order.Pending, loaded.Status())
	suite.Require().Len(loaded.Items(), 2)
	suite.Equal("sku-yam", loaded.Items()[0].ProductID())
	suite.Equal("sku-oil", loaded.Items()[1].ProductID())
	suite.Equal(kernel.Money(6500), loaded.Pricing().Subtotal())
	suite.Equal(kernel.Money(7000), loaded.Pricing().Total())
	suite.Require().NotNil(loaded.DeliveryAddress().Coordinates)
	suite.InDelta(6.60, loaded.DeliveryAddress().Coordinates.Lat(), 1e-9)
	suite.Equal(order.PickingPending, loaded.Picking().Status)
	suite.tracker.AssertCalled(suite.T(), "TrackAggregate", o.ID(), o)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_DuplicateOrderNumber_AlreadyExists() {
	ctx := context.Background()
	suite.Require().NoError(suite.repository.Add(ctx, suite.newOrder("ORD-2026-000002")))

	err := suite.repository.Add(ctx, suite.newOrder("ORD-2026-000002"))

	suite.Require().ErrorIs(err, errs.ErrObjectAlreadyExist)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_PersistsPickingAndBumpsVersion() {
	ctx := context.Background()
	o := suite.newOrder("ORD-2026-000003")
	suite.Require().NoError(suite.repository.Add(ctx, o))

	pickerID := kernel.NewUUID()
	suite.Require().NoError(o.Confirm(now))
	suite.Require().NoError(o.AssignPicker(pickerID, now))
	suite.Require().NoError(o.StartPicking(pickerID, now))
	price := kernel.Money(3200)
	suite.Require().NoError(o.UpdatePickedItem(pickerID, "sku-oil", order.ItemUpdate{
		Status:          order.ItemSubstituted,
		SubstituteName:  "Groundnut oil 1L",
		SubstitutePrice: &price,
	}, now))

	suite.Require().NoError(suite.repository.Update(ctx, o))
	suite.Equal(int64(1), o.Version())

	loaded, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(int64(1), loaded.Version())
	suite.Equal(order.Picking, loaded.Status())
	picking := loaded.Picking()
	suite.Equal(order.PickingInProgress, picking.Status)
	suite.Require().NotNil(picking.PickerID)
	suite.True(picking.PickerID.IsEqual(pickerID))
	suite.Require().Len(picking.Items, 2)
	for _, it := range picking.Items {
		if it.ProductID == "sku-oil" {
			suite.Equal(order.ItemSubstituted, it.Status)
			suite.Require().NotNil(it.SubstitutePrice)
			suite.Equal(price, *it.SubstitutePrice)
		}
	}
	suite.Len(loaded.Items(), 2)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_StaleVersion_Conflict() {
	ctx := context.Background()
	o := suite.newOrder("ORD-2026-000004")
	suite.Require().NoError(suite.repository.Add(ctx, o))

	stale, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(o.Confirm(now))
	suite.Require().NoError(suite.repository.Update(ctx, o))

	suite.Require().NoError(stale.Cancel("changed my mind", now))
	err = suite.repository.Update(ctx, stale)

	suite.Require().ErrorIs(err, errs.ErrVersionIsInvalid)
	loaded, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Confirmed, loaded.Status())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_MissingOrder_NotFound() {
	o := suite.newOrder("ORD-2026-000005")

	err := suite.repository.Update(context.Background(), o)

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_Unknown_NotFound() {
	_, err := suite.repository.Get(context.Background(), kernel.NewUUID())

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestFindConfirmedWithoutRider_OldestFirst() {
	ctx := context.Background()
	var confirmed []*order.Order
	for i := range 3 {
		o := suite.newOrderAt(fmt.Sprintf("ORD-2026-00010%d", i), now.Add(time.Duration(i)*time.Minute))
		suite.Require().NoError(suite.repository.Add(ctx, o))
		suite.Require().NoError(o.Confirm(now))
		suite.Require().NoError(suite.repository.Update(ctx, o))
		confirmed = append(confirmed, o)
	}
	suite.Require().NoError(confirmed[0].AssignRider(kernel.NewUUID(), kernel.NewUUID(), now, now, false, now))
	suite.Require().NoError(suite.repository.Update(ctx, confirmed[0]))
	suite.Require().NoError(suite.repository.Add(ctx, suite.newOrder("ORD-2026-000199")))

	found, err := suite.repository.FindConfirmedWithoutRider(ctx, 10)

	suite.Require().NoError(err)
	suite.Require().Len(found, 2)
	suite.True(found[0].ID().IsEqual(confirmed[1].ID()))
	suite.True(found[1].ID().IsEqual(confirmed[2].ID()))
	suite.Len(found[0].Items(), 2)

	limited, err := suite.repository.FindConfirmedWithoutRider(ctx, 1)
	suite.Require().NoError(err)
	suite.Len(limited, 1)

	_, err = suite.repository.FindConfirmedWithoutRider(ctx, 0)
	suite.Require().ErrorIs(err, errs.ErrValueIsOutOfRange)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestOrderNumberSequence_PerYearAndConcurrent() {
	ctx := context.Background()
	sequence := orderrepo.NewGormOrderNumberSequence(suite.pg.DB)

	first, err := sequence.Next(ctx, 2026)
	suite.Require().NoError(err)
	second, err := sequence.Next(ctx, 2026)
	suite.Require().NoError(err)
	other, err := sequence.Next(ctx, 2027)
	suite.Require().NoError(err)

	suite.Equal(int64(1), first)
	suite.Equal(int64(2), second)
	suite.Equal(int64(1), other)
	suite.Equal("ORD-2026-000002", order.FormatOrderNumber(2026, second))

	const workers = 8
	results := make(chan int64, workers)
	g, gctx := errgroup.WithContext(ctx)
	for range workers {
		g.Go(func() error {
			v, nextErr := sequence.Next(gctx, 2028)
			results <- v
			return nextErr
		})
	}
	suite.Require().NoError(g.Wait())
	close(results)

	seen := make(map[int64]bool, workers)
	for v := range results {
		suite.False(seen[v], "duplicate sequence value %d", v)
		seen[v] = true
	}
	suite.Len(seen, workers)

	_, err = sequence.Next(ctx, 1999)
	suite.Require().ErrorIs(err, errs.ErrValueIsOutOfRange)
}

func (suite *OrderRepositoryIntegrationTestSuite) newOrder(number string) *order.Order {
	return suite.newOrderAt(number, now)
}

func (suite *OrderRepositoryIntegrationTestSuite) newOrderAt(number string, createdAt time.Time) *order.Order {
	yam, err := order.NewItem("sku-yam", "Yam tuber", 1500, 3)
	suite.Require().NoError(err)
	oil, err := order.NewItem("sku-oil", "Palm oil 1L", 2000, 1)
	suite.Require().NoError(err)
	pricing, err := order.NewPricing(500, 0, 0)
	suite.Require().NoError(err)
	coords, err := kernel.NewGeoPoint(6.60, 3.35)
	suite.Require().NoError(err)

	o, err := order.NewOrder(kernel.NewUUID(), number, kernel.NewUUID(), kernel.NewUUID(),
		kernel.Address{Street: "12 Allen Ave", City: "Lagos", State: "Lagos", Coordinates: &coords},
		[]order.Item{yam, oil}, pricing, createdAt)
	suite.Require().NoError(err)
	o.PullEvents()
	return o
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
