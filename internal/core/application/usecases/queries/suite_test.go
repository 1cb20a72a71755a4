package queries_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "supplychain/internal/adapters/out/postgres"
	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/core/domain/model/order"
	"supplychain/internal/core/domain/model/product"
	"supplychain/internal/core/domain/model/shipment"
	"supplychain/internal/core/domain/model/stock"
	"supplychain/internal/core/ports"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// QueryHandlersTestSuite runs every read model against one PostgreSQL
// container. Fixtures are written through the repositories.
type QueryHandlersTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory

	producer kernel.Actor
	buyer    kernel.Actor
	carrier  kernel.Actor
}

func (suite *QueryHandlersTestSuite) SetupSuite() {
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

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(postgres_adapter.Migrate(db))
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

func (suite *QueryHandlersTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *QueryHandlersTestSuite) SetupTest() {
	err := suite.db.Exec(
		"TRUNCATE TABLE products, orders, shipments, stock_entries, attestations, telemetry_readings CASCADE",
	).Error
	suite.Require().NoError(err)

	suite.producer = suite.actor(kernel.RoleProducer)
	suite.buyer = suite.actor(kernel.RoleBuyer)
	suite.carrier = suite.actor(kernel.RoleCarrier)
}

func (suite *QueryHandlersTestSuite) actor(role kernel.Role) kernel.Actor {
	a, err := kernel.NewActor(kernel.NewUUID(), role)
	suite.Require().NoError(err)
	return a
}

func (suite *QueryHandlersTestSuite) quantity(v string) kernel.Quantity {
	q, err := kernel.ParseQuantity(v)
	suite.Require().NoError(err)
	return q
}

func (suite *QueryHandlersTestSuite) inTx(fn func(uow ports.UnitOfWork)) {
	ctx := context.Background()
	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	fn(uow)
	suite.Require().NoError(uow.Commit(ctx))
}

func (suite *QueryHandlersTestSuite) storeProduct(name, quantity string) *product.Product {
	price, err := kernel.ParseMoney("2.50")
	suite.Require().NoError(err)
	p, err := product.NewProduct(kernel.NewUUID(), suite.producer.ID, name, "grain", price, "kg",
		suite.quantity(quantity), time.Now().UTC())
	suite.Require().NoError(err)

	suite.inTx(func(uow ports.UnitOfWork) {
		suite.Require().NoError(uow.ProductRepository().Add(context.Background(), p))
	})
	return p
}

func (suite *QueryHandlersTestSuite) storeStock(buyerID, productID kernel.UUID, quantity string) {
	e, err := stock.NewEntry(kernel.NewUUID(), buyerID, productID, suite.quantity(quantity), time.Now().UTC())
	suite.Require().NoError(err)

	suite.inTx(func(uow ports.UnitOfWork) {
		suite.Require().NoError(uow.StockRepository().Upsert(context.Background(), e))
	})
}

// storeBoundOrder places, pays and binds an order to suite.carrier and
// returns both aggregates as stored.
func (suite *QueryHandlersTestSuite) storeBoundOrder(p *product.Product, quantity string) (*order.Order, *shipment.Shipment) {
	ctx := context.Background()
	now := time.Now().UTC()

	o, err := order.NewOrder(kernel.NewUUID(), p.ID(), suite.buyer.ID, p.OwnerID(), suite.quantity(quantity),
		p.UnitPrice(), now)
	suite.Require().NoError(err)
	suite.Require().NoError(o.MarkPaid("0xreceipt", now))

	weight := 950.0
	s, err := shipment.NewShipment(kernel.NewUUID(), o.ID(), suite.carrier.ID, p.ID(), suite.buyer.ID, &weight, now)
	suite.Require().NoError(err)
	suite.Require().NoError(o.Assign(suite.carrier.ID, s.ID(), now))

	suite.inTx(func(uow ports.UnitOfWork) {
		suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
		suite.Require().NoError(uow.ShipmentRepository().Add(ctx, s))
	})
	return o, s
}

func TestQueryHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(QueryHandlersTestSuite))
}
