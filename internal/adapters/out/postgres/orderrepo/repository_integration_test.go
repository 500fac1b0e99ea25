package orderrepo_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
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

// OrderRepositoryIntegrationTestSuite provides integration tests for OrderRepository
// using PostgreSQL containers to verify database persistence behavior.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	// Start PostgreSQL container
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

	// Get connection string and connect to database
	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	// Auto-migrate the schema
	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	// Clean the database before each test
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders").Error)

	// Create fresh repository and tracker for each test
	suite.tracker = new(MockAggregateTracker)
	suite.repository = orderrepo.NewGormOrderRepository(suite.db, suite.tracker)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_ValidOrder_Success() {
	ctx := context.Background()

	testOrder := suite.createTestOrder()

	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Once()

	err := suite.repository.Add(ctx, testOrder)
	suite.Require().NoError(err)

	suite.assertOrderCount(1)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_ExistingOrder_ReturnsOrder() {
	ctx := context.Background()

	id := kernel.NewUUID()
	customerID := kernel.NewUUID()
	pickup, err := kernel.NewGeoLocation(28.40, 77.00)
	suite.Require().NoError(err)

	originalOrder, err := order.NewOrder(id, customerID, pickup, suite.testItems(), 50, nil)
	suite.Require().NoError(err)

	suite.tracker.On("TrackAggregate", id, originalOrder).Once()

	err = suite.repository.Add(ctx, originalOrder)
	suite.Require().NoError(err)

	retrievedOrder, err := suite.repository.Get(ctx, id)
	suite.Require().NoError(err)

	suite.Equal(id, retrievedOrder.ID())
	suite.Equal(customerID, retrievedOrder.CustomerID())
	suite.InDelta(pickup.Latitude(), retrievedOrder.PickupLocation().Latitude(), 1e-9)
	suite.InDelta(pickup.Longitude(), retrievedOrder.PickupLocation().Longitude(), 1e-9)
	suite.Equal(order.Created, retrievedOrder.Status())
	suite.Nil(retrievedOrder.Rider())
	suite.Len(retrievedOrder.Items(), 2)
	suite.InDelta(originalOrder.Subtotal(), retrievedOrder.Subtotal(), 1e-9)
	suite.InDelta(originalOrder.FinalAmount(), retrievedOrder.FinalAmount(), 1e-9)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_LegacyStatusRow_NormalizesOnRead() {
	ctx := context.Background()

	testOrder := suite.createTestOrder()
	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Once()

	err := suite.repository.Add(ctx, testOrder)
	suite.Require().NoError(err)

	// Rows written by the legacy system carry its status vocabulary.
	err = suite.db.Exec("UPDATE orders SET status = 'picked_up' WHERE id = ?",
		testOrder.ID().Bytes()).Error
	suite.Require().NoError(err)

	retrievedOrder, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.PickupCompleted, retrievedOrder.Status())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NonExistentOrder_ReturnsNotFoundError() {
	ctx := context.Background()

	nonExistentID := kernel.NewUUID()
	retrievedOrder, err := suite.repository.Get(ctx, nonExistentID)

	suite.Nil(retrievedOrder)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_StatusAndRiderPersist() {
	ctx := context.Background()

	testOrder := suite.createTestOrder()
	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Twice()

	err := suite.repository.Add(ctx, testOrder)
	suite.Require().NoError(err)

	riderID := kernel.NewUUID()
	suite.Require().NoError(testOrder.AssignRider(riderID))

	err = suite.repository.Update(ctx, testOrder)
	suite.Require().NoError(err)

	retrievedOrder, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.PickupAssigned, retrievedOrder.Status())
	suite.Require().NotNil(retrievedOrder.Rider())
	suite.Equal(riderID, *retrievedOrder.Rider())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_ClearedRiderPersistsAsNull() {
	ctx := context.Background()

	riderID := kernel.NewUUID()
	testOrder := suite.createTestOrderWithStatus(order.DeliveryAssigned, &riderID)
	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Twice()

	err := suite.repository.Add(ctx, testOrder)
	suite.Require().NoError(err)

	// Completing the order drops the rider reference.
	suite.Require().NoError(testOrder.AdvanceTo(order.Completed))
	err = suite.repository.Update(ctx, testOrder)
	suite.Require().NoError(err)

	retrievedOrder, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Completed, retrievedOrder.Status())
	suite.Nil(retrievedOrder.Rider())
	suite.NotNil(retrievedOrder.DeliveredAt())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_EditedItemsPersist() {
	ctx := context.Background()

	testOrder := suite.createTestOrder()
	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Twice()

	err := suite.repository.Add(ctx, testOrder)
	suite.Require().NoError(err)

	washFold, err := order.NewItem("Wash & Fold", 2, 150)
	suite.Require().NoError(err)
	ironing, err := order.NewItem("Ironing", 7, 50)
	suite.Require().NoError(err)
	suite.Require().NoError(testOrder.ApplyEdit([]order.Item{washFold, ironing}))

	err = suite.repository.Update(ctx, testOrder)
	suite.Require().NoError(err)

	retrievedOrder, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.InDelta(650, retrievedOrder.Subtotal(), 1e-9)
	suite.Len(retrievedOrder.Items(), 2)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_NonExistentOrder_ReturnsError() {
	ctx := context.Background()

	nonExistentOrder := suite.createTestOrder()

	// No expectations on tracker since operation should fail
	err := suite.repository.Update(ctx, nonExistentOrder)
	suite.Require().Error(err)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetAllInStatus_FiltersByStatus() {
	ctx := context.Background()

	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything).Times(4)

	riderID := kernel.NewUUID()
	suite.addOrderWithStatus(ctx, order.Created, nil)
	suite.addOrderWithStatus(ctx, order.Created, nil)
	suite.addOrderWithStatus(ctx, order.PickupAssigned, &riderID)
	suite.addOrderWithStatus(ctx, order.Completed, nil)

	createdOrders, err := suite.repository.GetAllInStatus(ctx, order.Created)
	suite.Require().NoError(err)
	suite.Len(createdOrders, 2)
	for _, o := range createdOrders {
		suite.Equal(order.Created, o.Status())
	}

	assignedOrders, err := suite.repository.GetAllInStatus(ctx, order.PickupAssigned)
	suite.Require().NoError(err)
	suite.Len(assignedOrders, 1)
	suite.Require().NotNil(assignedOrders[0].Rider())
	suite.Equal(riderID, *assignedOrders[0].Rider())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetAllInStatus_NoMatches_ReturnsEmptySlice() {
	ctx := context.Background()

	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything).Once()
	suite.addOrderWithStatus(ctx, order.Created, nil)

	cancelledOrders, err := suite.repository.GetAllInStatus(ctx, order.Cancelled)
	suite.Require().NoError(err)
	suite.Empty(cancelledOrders)

	suite.tracker.AssertExpectations(suite.T())
}

// TestOrderRepository_ErrorScenarios verifies error handling for various failure cases.
func (suite *OrderRepositoryIntegrationTestSuite) TestOrderRepository_ErrorScenarios() {
	testCases := []struct {
		name      string
		operation func() error
		expected  string
	}{
		{
			name: "get with invalid UUID",
			operation: func() error {
				invalidID := kernel.UUID{}
				_, err := suite.repository.Get(context.Background(), invalidID)
				return err
			},
			expected: "constructor",
		},
		{
			name: "get non-existent order",
			operation: func() error {
				nonExistentID := kernel.NewUUID()
				_, err := suite.repository.Get(context.Background(), nonExistentID)
				return err
			},
			expected: "not found",
		},
		{
			name: "update non-existent order",
			operation: func() error {
				nonExistentOrder := suite.createTestOrder()
				return suite.repository.Update(context.Background(), nonExistentOrder)
			},
			expected: "record not found",
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			err := tc.operation()
			suite.Require().Error(err)
			suite.Contains(strings.ToLower(err.Error()), strings.ToLower(tc.expected))
			suite.tracker.AssertExpectations(suite.T())
		})
	}
}

// testItems builds the default two-line item list used across the suite.
func (suite *OrderRepositoryIntegrationTestSuite) testItems() []order.Item {
	washFold, err := order.NewItem("Wash & Fold", 2, 150)
	suite.Require().NoError(err)
	ironing, err := order.NewItem("Ironing", 4, 50)
	suite.Require().NoError(err)
	return []order.Item{washFold, ironing}
}

// createTestOrder creates a basic test order with default values.
func (suite *OrderRepositoryIntegrationTestSuite) createTestOrder() *order.Order {
	id := kernel.NewUUID()
	customerID := kernel.NewUUID()
	pickup, err := kernel.NewGeoLocation(28.40, 77.00)
	suite.Require().NoError(err)
	testOrder, err := order.NewOrder(id, customerID, pickup, suite.testItems(), 50, nil)
	suite.Require().NoError(err)
	return testOrder
}

// createTestOrderWithStatus creates a test order with specified status and optional rider.
func (suite *OrderRepositoryIntegrationTestSuite) createTestOrderWithStatus(
	status order.Status, riderID *kernel.UUID,
) *order.Order {
	id := kernel.NewUUID()
	customerID := kernel.NewUUID()
	pickup, err := kernel.NewGeoLocation(28.40, 77.00)
	suite.Require().NoError(err)
	testOrder, err := order.RestoreOrder(
		id, customerID, riderID, nil, status, suite.testItems(), pickup, nil, nil, 0,
	)
	suite.Require().NoError(err)
	return testOrder
}

// addOrderWithStatus persists an order with the specified status.
func (suite *OrderRepositoryIntegrationTestSuite) addOrderWithStatus(
	ctx context.Context, status order.Status, riderID *kernel.UUID,
) *order.Order {
	testOrder := suite.createTestOrderWithStatus(status, riderID)
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))
	return testOrder
}

// assertOrderCount verifies the number of orders in the database.
func (suite *OrderRepositoryIntegrationTestSuite) assertOrderCount(expected int) {
	var count int64
	err := suite.db.Model(&orderrepo.OrderDTO{}).Count(&count).Error
	suite.Require().NoError(err)
	suite.Equal(int64(expected), count)
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
