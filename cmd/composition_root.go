package cmd

import (
	"context"
	"log/slog"

	"supplychain/internal/adapters/in/feed"
	httpin "supplychain/internal/adapters/in/http"
	"supplychain/internal/adapters/out/postgres"
	"supplychain/internal/core/application/usecases/commands"
	"supplychain/internal/core/application/usecases/queries"
	"supplychain/internal/core/domain/model/attestation"
	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/core/domain/model/shipment"
	"supplychain/internal/core/domain/services"
	"supplychain/internal/core/ports"
	"supplychain/internal/jobs"
	"supplychain/internal/pkg/metrics"

	"gorm.io/gorm"
)

// Adapters are the external collaborators opened by main.
type Adapters struct {
	Telemetry  ports.TelemetryFeed
	Ledger     ports.AttestationLedger
	ChangeFeed ports.ChangeFeed
}

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	adapters   Adapters
	logger     *slog.Logger

	jobMetrics    *metrics.CronJobMetrics
	domainMetrics *metrics.DomainMetrics
}

func NewCompositionRoot(
	config Config,
	gormDB *gorm.DB,
	adapters Adapters,
	logger *slog.Logger,
	jobMetrics *metrics.CronJobMetrics,
	domainMetrics *metrics.DomainMetrics,
) CompositionRoot {
	return CompositionRoot{
		config:        config,
		gormDB:        gormDB,
		uowFactory:    postgres.NewGormUnitOfWorkFactory(gormDB),
		adapters:      adapters,
		logger:        logger,
		jobMetrics:    jobMetrics,
		domainMetrics: domainMetrics,
	}
}

func (c *CompositionRoot) productUoWFactory() commands.ProductUoWFactory {
	return FuncProductUoWFactory(func() commands.ProductUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) attestationUoWFactory() commands.AttestationUoWFactory {
	return FuncAttestationUoWFactory(func() commands.AttestationUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) commandUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateProductCommandHandler() commands.CreateProductCommandHandler {
	return commands.NewCreateProductCommandHandler(c.productUoWFactory())
}

func (c *CompositionRoot) CreateUpdateProductQuantityCommandHandler() commands.UpdateProductQuantityCommandHandler {
	return commands.NewUpdateProductQuantityCommandHandler(c.productUoWFactory())
}

func (c *CompositionRoot) CreatePlaceOrderCommandHandler() commands.PlaceOrderCommandHandler {
	return commands.NewPlaceOrderCommandHandler(c.commandUoWFactory())
}

func (c *CompositionRoot) CreateRecordPaymentCommandHandler() commands.RecordPaymentCommandHandler {
	return commands.NewRecordPaymentCommandHandler(c.commandUoWFactory())
}

func (c *CompositionRoot) CreateBindCarrierCommandHandler() commands.BindCarrierCommandHandler {
	return commands.NewBindCarrierCommandHandler(c.commandUoWFactory())
}

func (c *CompositionRoot) CreateSyncOrderWithShipmentCommandHandler() commands.SyncOrderWithShipmentCommandHandler {
	return commands.NewSyncOrderWithShipmentCommandHandler(c.commandUoWFactory())
}

func (c *CompositionRoot) CreateReconcileStockCommandHandler() commands.ReconcileStockCommandHandler {
	return commands.NewReconcileStockCommandHandler(c.commandUoWFactory())
}

func (c *CompositionRoot) CreateDeliveryAttester() commands.DeliveryAttester {
	return observedAttester{
		next:    commands.NewAttestationEmitter(c.attestationUoWFactory(), c.adapters.Ledger),
		metrics: c.domainMetrics,
	}
}

func (c *CompositionRoot) CreateConfirmOrderDeliveryCommandHandler() commands.ConfirmOrderDeliveryCommandHandler {
	return commands.NewConfirmOrderDeliveryCommandHandler(c.commandUoWFactory(), c.CreateDeliveryAttester())
}

func (c *CompositionRoot) CreateStartTransitCommandHandler() commands.StartTransitCommandHandler {
	return commands.NewStartTransitCommandHandler(c.commandUoWFactory(), c.CreateSyncOrderWithShipmentCommandHandler())
}

func (c *CompositionRoot) CreateDeliverShipmentCommandHandler() commands.DeliverShipmentCommandHandler {
	return commands.NewDeliverShipmentCommandHandler(
		c.commandUoWFactory(),
		c.CreateSyncOrderWithShipmentCommandHandler(),
		c.CreateReconcileStockCommandHandler(),
		c.CreateDeliveryAttester(),
	)
}

func (c *CompositionRoot) CreateAppendReadingCommandHandler() commands.AppendReadingCommandHandler {
	return commands.NewAppendReadingCommandHandler(c.commandUoWFactory(), c.adapters.Telemetry)
}

func (c *CompositionRoot) CreateRetryAttestationCommandHandler() commands.RetryAttestationCommandHandler {
	return commands.NewRetryAttestationCommandHandler(c.CreateDeliveryAttester())
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListShipmentsQueryHandler() queries.ListShipmentsQueryHandler {
	return queries.NewListShipmentsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetProductAvailabilityQueryHandler() queries.GetProductAvailabilityQueryHandler {
	return queries.NewGetProductAvailabilityQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListBuyerStockQueryHandler() queries.ListBuyerStockQueryHandler {
	return queries.NewListBuyerStockQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetShipmentAlertsQueryHandler() queries.GetShipmentAlertsQueryHandler {
	return queries.NewGetShipmentAlertsQueryHandler(
		c.gormDB,
		c.adapters.Telemetry,
		services.NewAlertEvaluator(c.config.Thresholds()),
	)
}

func (c *CompositionRoot) CreateTelemetryTracker() *jobs.TelemetryTracker {
	return jobs.NewTelemetryTracker(
		c.CreateGetShipmentAlertsQueryHandler(),
		c.config.TelemetryInterval,
		c.logger,
		c.jobMetrics,
		c.domainMetrics,
	)
}

func (c *CompositionRoot) CreateSensorSimulationJob() *jobs.SensorSimulationJob {
	lister := FuncActiveShipmentLister(func(ctx context.Context) ([]*shipment.Shipment, error) {
		return c.uowFactory.Create().ShipmentRepository().ListActive(ctx)
	})
	return jobs.NewSensorSimulationJob(
		lister,
		c.CreateAppendReadingCommandHandler(),
		c.config.TelemetryInterval,
		c.logger,
		c.jobMetrics,
	)
}

func (c *CompositionRoot) CreateShipmentObserver() *feed.ShipmentObserver {
	return feed.NewShipmentObserver(
		c.adapters.ChangeFeed,
		c.CreateSyncOrderWithShipmentCommandHandler(),
		c.CreateReconcileStockCommandHandler(),
		c.logger,
		c.domainMetrics,
	)
}

func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(httpin.Handlers{
		CreateProduct:         c.CreateCreateProductCommandHandler(),
		UpdateProductQuantity: c.CreateUpdateProductQuantityCommandHandler(),
		PlaceOrder:            c.CreatePlaceOrderCommandHandler(),
		RecordPayment:         c.CreateRecordPaymentCommandHandler(),
		BindCarrier:           c.CreateBindCarrierCommandHandler(),
		ConfirmOrderDelivery:  c.CreateConfirmOrderDeliveryCommandHandler(),
		StartTransit:          c.CreateStartTransitCommandHandler(),
		DeliverShipment:       c.CreateDeliverShipmentCommandHandler(),
		AppendReading:         c.CreateAppendReadingCommandHandler(),
		RetryAttestation:      c.CreateRetryAttestationCommandHandler(),

		ListOrders:          c.CreateListOrdersQueryHandler(),
		ListShipments:       c.CreateListShipmentsQueryHandler(),
		ProductAvailability: c.CreateGetProductAvailabilityQueryHandler(),
		BuyerStock:          c.CreateListBuyerStockQueryHandler(),
		ShipmentAlerts:      c.CreateGetShipmentAlertsQueryHandler(),
		Telemetry:           c.CreateTelemetryTracker(),
	}, c.logger)
}

// observedAttester counts ledger outcomes per attestation kind.
type observedAttester struct {
	next    commands.DeliveryAttester
	metrics *metrics.DomainMetrics
}

func (a observedAttester) Emit(
	ctx context.Context,
	kind attestation.Kind,
	referenceID kernel.UUID,
	payload []byte,
) (*attestation.Attestation, error) {
	att, err := a.next.Emit(ctx, kind, referenceID, payload)
	a.observe(string(kind), att, err)
	return att, err
}

func (a observedAttester) Retry(ctx context.Context, id kernel.UUID) (*attestation.Attestation, error) {
	att, err := a.next.Retry(ctx, id)
	kind := "unknown"
	if att != nil {
		kind = string(att.Kind())
	}
	a.observe(kind, att, err)
	return att, err
}

func (a observedAttester) observe(kind string, att *attestation.Attestation, err error) {
	switch {
	case err != nil:
		a.metrics.IncAttestation(kind, metrics.OutcomeFailure)
	case att != nil && att.Status() == attestation.Recorded:
		a.metrics.IncAttestation(kind, metrics.OutcomeSuccess)
	default:
		a.metrics.IncAttestation(kind, metrics.OutcomeSkipped)
	}
}

type FuncProductUoWFactory func() commands.ProductUoW

func (f FuncProductUoWFactory) Create() commands.ProductUoW {
	return f()
}

type FuncAttestationUoWFactory func() commands.AttestationUoW

func (f FuncAttestationUoWFactory) Create() commands.AttestationUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

type FuncActiveShipmentLister func(ctx context.Context) ([]*shipment.Shipment, error)

func (f FuncActiveShipmentLister) ListActive(ctx context.Context) ([]*shipment.Shipment, error) {
	return f(ctx)
}
