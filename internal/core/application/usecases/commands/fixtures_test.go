package commands_test

import (
	"testing"
	"time"

	"supplychain/internal/core/application/usecases/commands"
	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/core/domain/model/product"
	"supplychain/internal/core/domain/model/telemetry"

	"github.com/stretchr/testify/require"
)

// supplyChain wires every handler to one in-memory store.
type supplyChain struct {
	store  *memoryStore
	feed   *memoryFeed
	ledger *fakeLedger

	producer kernel.Actor
	buyer    kernel.Actor
	carrier  kernel.Actor
	product  kernel.UUID

	placeOrder     commands.PlaceOrderCommandHandler
	recordPayment  commands.RecordPaymentCommandHandler
	bindCarrier    commands.BindCarrierCommandHandler
	startTransit   commands.StartTransitCommandHandler
	deliver        commands.DeliverShipmentCommandHandler
	sync           commands.SyncOrderWithShipmentCommandHandler
	reconcile      commands.ReconcileStockCommandHandler
	confirm        commands.ConfirmOrderDeliveryCommandHandler
	appendReading  commands.AppendReadingCommandHandler
	retry          commands.RetryAttestationCommandHandler
	emitter        commands.AttestationEmitter
	updateQuantity commands.UpdateProductQuantityCommandHandler
}

func newSupplyChain(t *testing.T) *supplyChain {
	t.Helper()

	store := newMemoryStore()
	sc := &supplyChain{
		store:    store,
		feed:     newMemoryFeed(),
		ledger:   &fakeLedger{},
		producer: actor(t, kernel.RoleProducer),
		buyer:    actor(t, kernel.RoleBuyer),
		carrier:  actor(t, kernel.RoleCarrier),
	}

	factory := memoryFactory{store}
	sc.emitter = commands.NewAttestationEmitter(memoryAttestationFactory{store}, sc.ledger)
	sc.placeOrder = commands.NewPlaceOrderCommandHandler(factory)
	sc.recordPayment = commands.NewRecordPaymentCommandHandler(factory)
	sc.bindCarrier = commands.NewBindCarrierCommandHandler(factory)
	sc.sync = commands.NewSyncOrderWithShipmentCommandHandler(factory)
	sc.reconcile = commands.NewReconcileStockCommandHandler(factory)
	sc.startTransit = commands.NewStartTransitCommandHandler(factory, sc.sync)
	sc.deliver = commands.NewDeliverShipmentCommandHandler(factory, sc.sync, sc.reconcile, sc.emitter)
	sc.confirm = commands.NewConfirmOrderDeliveryCommandHandler(factory, sc.emitter)
	sc.appendReading = commands.NewAppendReadingCommandHandler(factory, sc.feed)
	sc.retry = commands.NewRetryAttestationCommandHandler(sc.emitter)
	sc.updateQuantity = commands.NewUpdateProductQuantityCommandHandler(memoryProductFactory{store})

	price, err := kernel.ParseMoney("2.50")
	require.NoError(t, err)
	p, err := product.NewProduct(kernel.NewUUID(), sc.producer.ID, "Rice", "grain", price, "kg", qty(t, 100), time.Now().UTC())
	require.NoError(t, err)
	store.products[p.ID()] = p
	sc.product = p.ID()

	return sc
}

func actor(t *testing.T, role kernel.Role) kernel.Actor {
	t.Helper()
	a, err := kernel.NewActor(kernel.NewUUID(), role)
	require.NoError(t, err)
	return a
}

func qty(t *testing.T, v int64) kernel.Quantity {
	t.Helper()
	q, err := kernel.QuantityFromInt(v)
	require.NoError(t, err)
	return q
}

func (sc *supplyChain) placed(t *testing.T, amount int64) kernel.UUID {
	t.Helper()
	cmd, err := commands.NewPlaceOrderCommand(sc.buyer, sc.product, qty(t, amount))
	require.NoError(t, err)
	id, err := sc.placeOrder.Handle(t.Context(), cmd)
	require.NoError(t, err)
	return id
}

func (sc *supplyChain) paid(t *testing.T, amount int64) kernel.UUID {
	t.Helper()
	id := sc.placed(t, amount)
	cmd, err := commands.NewRecordPaymentCommand(sc.buyer, id, "0xreceipt")
	require.NoError(t, err)
	require.NoError(t, sc.recordPayment.Handle(t.Context(), cmd))
	return id
}

func (sc *supplyChain) bound(t *testing.T, amount int64) (kernel.UUID, kernel.UUID) {
	t.Helper()
	orderID := sc.paid(t, amount)
	weight := 950.0
	cmd, err := commands.NewBindCarrierCommand(sc.producer, orderID, sc.carrier.ID, &weight)
	require.NoError(t, err)
	shipmentID, err := sc.bindCarrier.Handle(t.Context(), cmd)
	require.NoError(t, err)
	return orderID, shipmentID
}

func (sc *supplyChain) inTransit(t *testing.T, amount int64) (kernel.UUID, kernel.UUID) {
	t.Helper()
	orderID, shipmentID := sc.bound(t, amount)
	cmd, err := commands.NewStartTransitCommand(sc.carrier, shipmentID)
	require.NoError(t, err)
	result, err := sc.startTransit.Handle(t.Context(), cmd)
	require.NoError(t, err)
	require.NoError(t, result.SyncErr)
	return orderID, shipmentID
}

func (sc *supplyChain) delivered(t *testing.T, amount int64) (kernel.UUID, kernel.UUID) {
	t.Helper()
	orderID, shipmentID := sc.inTransit(t, amount)
	cmd, err := commands.NewDeliverShipmentCommand(sc.carrier, shipmentID)
	require.NoError(t, err)
	result, err := sc.deliver.Handle(t.Context(), cmd)
	require.NoError(t, err)
	require.NoError(t, result.SyncErr)
	require.NoError(t, result.ReconcileErr)
	require.NoError(t, result.AttestationErr)
	return orderID, shipmentID
}

func reading(t *testing.T, shipmentID kernel.UUID, at time.Time) telemetry.Reading {
	t.Helper()
	loc, err := kernel.NewGeoPoint(11.34, 78.12)
	require.NoError(t, err)
	r, err := telemetry.NewReading(shipmentID, 24, 60, 10, 950, loc, at)
	require.NoError(t, err)
	return r
}
