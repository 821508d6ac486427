package riderrepo_test

import (
	"context"
	"testing"

	"fulfillment/internal/adapters/out/postgres/pgtest"
	"fulfillment/internal/adapters/out/postgres/riderrepo"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/rider"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

type RiderRepositoryIntegrationTestSuite struct {
	suite.Suite
	pg         *pgtest.Database
	repository *riderrepo.GormRiderRepository
	tracker    *MockAggregateTracker
}

func (suite *RiderRepositoryIntegrationTestSuite) SetupSuite() {
	pg, err := pgtest.Start(context.Background(), &riderrepo.RiderDTO{})
	suite.Require().NoError(err)
	suite.pg = pg
}

func (suite *RiderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.pg.Truncate("riders"))

	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Maybe()
	suite.repository = riderrepo.NewGormRiderRepository(suite.pg.DB, suite.tracker)
}

func (suite *RiderRepositoryIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.pg.Terminate(context.Background()))
}

func (suite *RiderRepositoryIntegrationTestSuite) TestAdd_Get_RoundTrip() {
	ctx := context.Background()
	vendorID := kernel.NewUUID()
	r := suite.newRider("Tunde", rider.Motorcycle, true)
	suite.Require().NoError(r.ConnectStore(vendorID))
	location, err := kernel.NewGeoPoint(6.5244, 3.3792)
	suite.Require().NoError(err)
	suite.Require().NoError(r.UpdateLocation(location))

	suite.Require().NoError(suite.repository.Add(ctx, r))

	loaded, err := suite.repository.Get(ctx, r.ID())
	suite.Require().NoError(err)
	suite.Equal("Tunde", loaded.Name())
	suite.Equal(rider.Motorcycle, loaded.Vehicle())
	suite.Equal(rider.VerificationVerified, loaded.Verification())
	suite.True(loaded.IsConnectedTo(vendorID))
	suite.Require().NotNil(loaded.CurrentLocation())
	suite.True(loaded.CurrentLocation().IsEqual(location))
	suite.tracker.AssertCalled(suite.T(), "TrackAggregate", r.ID(), r)
}

func (suite *RiderRepositoryIntegrationTestSuite) TestAdd_Duplicate_AlreadyExists() {
	ctx := context.Background()
	r := suite.newRider("Tunde", rider.Car, true)
	suite.Require().NoError(suite.repository.Add(ctx, r))

	err := suite.repository.Add(ctx, r)

	suite.Require().ErrorIs(err, errs.ErrObjectAlreadyExist)
}

func (suite *RiderRepositoryIntegrationTestSuite) TestUpdate_TakeAndCompleteDelivery() {
	ctx := context.Background()
	r := suite.newRider("Ada", rider.Bicycle, true)
	suite.Require().NoError(suite.repository.Add(ctx, r))

	suite.Require().NoError(r.TakeDelivery())
	suite.Require().NoError(suite.repository.Update(ctx, r))
	suite.Require().NoError(r.CompleteDelivery(640))
	suite.Require().NoError(suite.repository.Update(ctx, r))

	loaded, err := suite.repository.Get(ctx, r.ID())
	suite.Require().NoError(err)
	suite.Equal(int64(2), loaded.Version())
	suite.True(loaded.IsAvailable())
	suite.Equal(0, loaded.Stats().ActiveDeliveries)
	suite.Equal(1, loaded.Stats().CompletedDeliveries)
	suite.Equal(kernel.Money(640), loaded.Stats().TotalEarnings)
}

func (suite *RiderRepositoryIntegrationTestSuite) TestUpdate_ConcurrentDispatch_SecondWriterLoses() {
	ctx := context.Background()
	r := suite.newRider("Ada", rider.Bicycle, true)
	suite.Require().NoError(suite.repository.Add(ctx, r))

	first, err := suite.repository.Get(ctx, r.ID())
	suite.Require().NoError(err)
	second, err := suite.repository.Get(ctx, r.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(first.TakeDelivery())
	suite.Require().NoError(suite.repository.Update(ctx, first))
	suite.Require().NoError(second.TakeDelivery())
	err = suite.repository.Update(ctx, second)

	suite.Require().ErrorIs(err, errs.ErrVersionIsInvalid)
}

func (suite *RiderRepositoryIntegrationTestSuite) TestGetAllAvailable_FiltersAndVehicle() {
	ctx := context.Background()
	bike := suite.newRider("Bike", rider.Bicycle, true)
	car := suite.newRider("Car", rider.Car, true)
	unverified := suite.newRider("Pending", rider.Car, false)
	busy := suite.newRider("Busy", rider.Car, true)
	suite.Require().NoError(busy.TakeDelivery())
	inactive := suite.newRider("Gone", rider.Car, true)
	inactive.Deactivate()
	for _, r := range []*rider.Rider{bike, car, unverified, busy, inactive} {
		suite.Require().NoError(suite.repository.Add(ctx, r))
	}

	all, err := suite.repository.GetAllAvailable(ctx, "")
	suite.Require().NoError(err)
	suite.ElementsMatch([]string{"Bike", "Car"}, names(all))

	cars, err := suite.repository.GetAllAvailable(ctx, rider.Car)
	suite.Require().NoError(err)
	suite.Equal([]string{"Car"}, names(cars))
}

func (suite *RiderRepositoryIntegrationTestSuite) TestGet_Unknown_NotFound() {
	_, err := suite.repository.Get(context.Background(), kernel.NewUUID())

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *RiderRepositoryIntegrationTestSuite) newRider(name string, vehicle rider.VehicleType, verified bool) *rider.Rider {
	r, err := rider.NewRider(kernel.NewUUID(), name, vehicle)
	suite.Require().NoError(err)
	if verified {
		r.Verify()
	}
	return r
}

func names(riders []*rider.Rider) []string {
	out := make([]string, 0, len(riders))
	for _, r := range riders {
		out = append(out, r.Name())
	}
	return out
}

func TestRiderRepositoryIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RiderRepositoryIntegrationTestSuite))
}
