package postgres_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/pgtest"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/rider"
	"fulfillment/internal/core/domain/model/store"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

var now = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	pg      *pgtest.Database
	factory *postgres_adapter.GormUnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	pg, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.Require().NoError(postgres_adapter.Migrate(pg.DB))
	suite.pg = pg
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(pg.DB)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.pg.Truncate(postgres_adapter.Tables()...))
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.pg.Terminate(context.Background()))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_PersistsAcrossRepositories() {
	ctx := context.Background()
	s := suite.newStore()
	r := suite.newRider()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.StoreRepository().Add(ctx, s))
	suite.Require().NoError(uow.RiderRepository().Add(ctx, r))
	suite.Require().NoError(uow.Commit(ctx))

	_, err := suite.factory.Create().StoreRepository().Get(ctx, s.ID())
	suite.Require().NoError(err)
	_, err = suite.factory.Create().RiderRepository().Get(ctx, r.ID())
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_DiscardsEveryWrite() {
	ctx := context.Background()
	s := suite.newStore()
	r := suite.newRider()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.StoreRepository().Add(ctx, s))
	suite.Require().NoError(uow.RiderRepository().Add(ctx, r))
	suite.Require().Len(uow.(*postgres_adapter.GormUnitOfWork).TrackedIDs(), 1)
	suite.Require().NoError(uow.Rollback(ctx))

	_, err := suite.factory.Create().StoreRepository().Get(ctx, s.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	_, err = suite.factory.Create().RiderRepository().Get(ctx, r.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	suite.Empty(uow.(*postgres_adapter.GormUnitOfWork).TrackedIDs())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommitAndRollback_WithoutBegin_InvalidTransaction() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().ErrorIs(uow.Commit(ctx), gorm.ErrInvalidTransaction)
	suite.Require().ErrorIs(uow.Rollback(ctx), gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestBegin_Twice_KeepsOneTransaction() {
	ctx := context.Background()
	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.StoreRepository().Add(ctx, suite.newStore()))
	suite.Require().NoError(uow.Commit(ctx))

	suite.Require().ErrorIs(uow.Rollback(ctx), gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestAutoAssignRider_EndToEnd() {
	ctx := context.Background()
	s := suite.newStore()
	near := suite.newRiderAt(6.53, 3.38)
	far := suite.newRiderAt(6.70, 3.50)
	o := suite.newConfirmedOrder(s.ID())

	seed := suite.factory.Create()
	suite.Require().NoError(seed.Begin(ctx))
	suite.Require().NoError(seed.StoreRepository().Add(ctx, s))
	suite.Require().NoError(seed.RiderRepository().Add(ctx, near))
	suite.Require().NoError(seed.RiderRepository().Add(ctx, far))
	suite.Require().NoError(seed.OrderRepository().Add(ctx, o))
	suite.Require().NoError(seed.Commit(ctx))

	handler := commands.NewAutoAssignRiderCommandHandler(
		uowFactory{suite.factory}, commands.NewEventNotifier(nil, nil))
	cmd, err := commands.NewAutoAssignRiderCommand(o.ID(), "", commands.SystemRequester())
	suite.Require().NoError(err)

	result, err := handler.Handle(ctx, cmd)

	suite.Require().NoError(err)
	suite.True(result.Rider.RiderID.IsEqual(near.ID()))
	suite.Len(result.Candidates, 2)

	reader := suite.factory.Create()
	storedOrder, err := reader.OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Preparing, storedOrder.Status())
	suite.Require().NotNil(storedOrder.Delivery().DeliveryID)

	storedDelivery, err := reader.DeliveryRepository().Get(ctx, *storedOrder.Delivery().DeliveryID)
	suite.Require().NoError(err)
	suite.Equal(delivery.Assigned, storedDelivery.Status())
	suite.True(storedDelivery.IsRider(near.ID()))

	storedRider, err := reader.RiderRepository().Get(ctx, near.ID())
	suite.Require().NoError(err)
	suite.False(storedRider.IsAvailable())
	suite.Equal(1, storedRider.Stats().ActiveDeliveries)

	_, err = handler.Handle(ctx, cmd)
	suite.Require().ErrorIs(err, order.ErrRiderAlreadyAssigned)
}

func (suite *UnitOfWorkIntegrationTestSuite) newStore() *store.Store {
	coords, err := kernel.NewGeoPoint(6.5244, 3.3792)
	suite.Require().NoError(err)
	s, err := store.NewStore(kernel.NewUUID(), "Corner Mart", kernel.Address{
		Street: "1 Market Rd", City: "Lagos", Coordinates: &coords,
	})
	suite.Require().NoError(err)
	return s
}

func (suite *UnitOfWorkIntegrationTestSuite) newRider() *rider.Rider {
	return suite.newRiderAt(6.53, 3.38)
}

func (suite *UnitOfWorkIntegrationTestSuite) newRiderAt(lat, lng float64) *rider.Rider {
	r, err := rider.NewRider(kernel.NewUUID(), "Tunde", rider.Motorcycle)
	suite.Require().NoError(err)
	r.Verify()
	location, err := kernel.NewGeoPoint(lat, lng)
	suite.Require().NoError(err)
	suite.Require().NoError(r.UpdateLocation(location))
	return r
}

func (suite *UnitOfWorkIntegrationTestSuite) newConfirmedOrder(vendorID kernel.UUID) *order.Order {
	item, err := order.NewItem("sku-1", "Yam", 1500, 2)
	suite.Require().NoError(err)
	pricing, err := order.NewPricing(500, 0, 0)
	suite.Require().NoError(err)
	coords, err := kernel.NewGeoPoint(6.60, 3.35)
	suite.Require().NoError(err)
	o, err := order.NewOrder(kernel.NewUUID(), "ORD-2026-000001", kernel.NewUUID(), vendorID,
		kernel.Address{Street: "12 Allen Ave", City: "Lagos", Coordinates: &coords},
		[]order.Item{item}, pricing, now)
	suite.Require().NoError(err)
	suite.Require().NoError(o.Confirm(now))
	o.PullEvents()
	return o
}

type uowFactory struct {
	factory *postgres_adapter.GormUnitOfWorkFactory
}

func (f uowFactory) Create() commands.UoW {
	return f.factory.Create()
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
