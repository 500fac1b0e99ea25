package riderrepo_test

import (
	"context"
	"testing"
	"time"

	"dispatch/internal/adapters/out/postgres/riderrepo"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/rider"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate interface{}) {
	m.Called(id, aggregate)
}

// RiderRepositoryIntegrationTestSuite provides integration tests for RiderRepository
// using PostgreSQL containers to verify database persistence behavior.
type RiderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *riderrepo.GormRiderRepository
	tracker    *MockAggregateTracker
}

func (suite *RiderRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&riderrepo.RiderDTO{}))
}

func (suite *RiderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE riders").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = riderrepo.NewGormRiderRepository(suite.db, suite.tracker)
}

func (suite *RiderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *RiderRepositoryIntegrationTestSuite) TestAddAndGet_RoundTrip() {
	ctx := context.Background()

	testRider, err := rider.NewRider(kernel.NewUUID(), "Ravi", "+911234567890")
	suite.Require().NoError(err)
	suite.Require().NoError(testRider.SetVerification(rider.VerificationApproved))

	suite.tracker.On("TrackAggregate", testRider.ID(), testRider).Once()
	suite.Require().NoError(suite.repository.Add(ctx, testRider))

	stored, err := suite.repository.Get(ctx, testRider.ID())
	suite.Require().NoError(err)
	suite.Equal(testRider.ID(), stored.ID())
	suite.Equal("Ravi", stored.Name())
	suite.Equal("+911234567890", stored.Contact())
	suite.True(stored.IsActive())
	suite.Equal(rider.VerificationApproved, stored.Verification())
	suite.Nil(stored.Location())
	suite.Empty(stored.AssignedOrders())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *RiderRepositoryIntegrationTestSuite) TestGet_NonExistentRider_ReturnsNotFoundError() {
	ctx := context.Background()

	stored, err := suite.repository.Get(ctx, kernel.NewUUID())
	suite.Nil(stored)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

func (suite *RiderRepositoryIntegrationTestSuite) TestUpdate_LocationAndAssignmentsPersist() {
	ctx := context.Background()

	testRider, err := rider.NewRider(kernel.NewUUID(), "Meena", "+919876543210")
	suite.Require().NoError(err)
	suite.Require().NoError(testRider.SetVerification(rider.VerificationApproved))

	suite.tracker.On("TrackAggregate", testRider.ID(), testRider).Twice()
	suite.Require().NoError(suite.repository.Add(ctx, testRider))

	location, err := kernel.NewGeoLocation(28.41, 77.01)
	suite.Require().NoError(err)
	seenAt := time.Now()
	suite.Require().NoError(testRider.UpdateLocation(location, seenAt))

	orderID := kernel.NewUUID()
	suite.Require().NoError(testRider.AcceptOrder(orderID))

	suite.Require().NoError(suite.repository.Update(ctx, testRider))

	stored, err := suite.repository.Get(ctx, testRider.ID())
	suite.Require().NoError(err)
	suite.Require().NotNil(stored.Location())
	suite.InDelta(28.41, stored.Location().Latitude(), 1e-9)
	suite.InDelta(77.01, stored.Location().Longitude(), 1e-9)
	suite.Require().NotNil(stored.LocationSeenAt())
	suite.Equal([]kernel.UUID{orderID}, stored.AssignedOrders())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *RiderRepositoryIntegrationTestSuite) TestUpdate_ReleasedOrderListPersists() {
	ctx := context.Background()

	testRider, err := rider.NewRider(kernel.NewUUID(), "Arjun", "+911112223334")
	suite.Require().NoError(err)
	suite.Require().NoError(testRider.SetVerification(rider.VerificationApproved))

	orderID := kernel.NewUUID()
	suite.Require().NoError(testRider.AcceptOrder(orderID))

	suite.tracker.On("TrackAggregate", testRider.ID(), testRider).Twice()
	suite.Require().NoError(suite.repository.Add(ctx, testRider))

	suite.Require().NoError(testRider.ReleaseOrder(orderID))
	suite.Require().NoError(suite.repository.Update(ctx, testRider))

	stored, err := suite.repository.Get(ctx, testRider.ID())
	suite.Require().NoError(err)
	suite.Empty(stored.AssignedOrders())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *RiderRepositoryIntegrationTestSuite) TestGetAllActive_FiltersInactive() {
	ctx := context.Background()

	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything).Times(3)

	active, err := rider.NewRider(kernel.NewUUID(), "Ravi", "+911234567890")
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Add(ctx, active))

	// Active but unverified riders are still returned; callers filter on
	// CanTakeAssignment when they need assignable riders.
	pending, err := rider.NewRider(kernel.NewUUID(), "Meena", "+919876543210")
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Add(ctx, pending))

	inactive, err := rider.NewRider(kernel.NewUUID(), "Arjun", "+911112223334")
	suite.Require().NoError(err)
	suite.Require().NoError(inactive.SetActive(false))
	suite.Require().NoError(suite.repository.Add(ctx, inactive))

	riders, err := suite.repository.GetAllActive(ctx)
	suite.Require().NoError(err)
	suite.Len(riders, 2)
	for _, r := range riders {
		suite.True(r.IsActive())
	}

	suite.tracker.AssertExpectations(suite.T())
}

func TestRiderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(RiderRepositoryIntegrationTestSuite))
}
