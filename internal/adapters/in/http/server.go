package http

import (
	"context"
	"log/slog"
	"net/http"

	"supplychain/internal/core/application/usecases/commands"
	"supplychain/internal/core/application/usecases/queries"
	"supplychain/internal/core/domain/model/attestation"
	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/jobs"
	"supplychain/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Use cases served over HTTP.
type (
	CreateProductHandler interface {
		Handle(ctx context.Context, cmd commands.CreateProductCommand) (kernel.UUID, error)
	}
	UpdateProductQuantityHandler interface {
		Handle(ctx context.Context, cmd commands.UpdateProductQuantityCommand) error
	}
	PlaceOrderHandler interface {
		Handle(ctx context.Context, cmd commands.PlaceOrderCommand) (kernel.UUID, error)
	}
	RecordPaymentHandler interface {
		Handle(ctx context.Context, cmd commands.RecordPaymentCommand) error
	}
	BindCarrierHandler interface {
		Handle(ctx context.Context, cmd commands.BindCarrierCommand) (kernel.UUID, error)
	}
	ConfirmOrderDeliveryHandler interface {
		Handle(ctx context.Context, cmd commands.ConfirmOrderDeliveryCommand) (commands.ConfirmOrderDeliveryResult, error)
	}
	StartTransitHandler interface {
		Handle(ctx context.Context, cmd commands.StartTransitCommand) (commands.StartTransitResult, error)
	}
	DeliverShipmentHandler interface {
		Handle(ctx context.Context, cmd commands.DeliverShipmentCommand) (commands.DeliverShipmentResult, error)
	}
	AppendReadingHandler interface {
		Handle(ctx context.Context, cmd commands.AppendReadingCommand) error
	}
	RetryAttestationHandler interface {
		Handle(ctx context.Context, cmd commands.RetryAttestationCommand) (*attestation.Attestation, error)
	}

	ListOrdersHandler interface {
		Handle(ctx context.Context, query queries.ListOrdersQuery) ([]queries.OrderView, error)
	}
	ListShipmentsHandler interface {
		Handle(ctx context.Context, query queries.ListShipmentsQuery) ([]queries.ShipmentView, error)
	}
	ProductAvailabilityHandler interface {
		Handle(ctx context.Context, query queries.GetProductAvailabilityQuery) (queries.ProductAvailability, error)
	}
	BuyerStockHandler interface {
		Handle(ctx context.Context, query queries.ListBuyerStockQuery) ([]queries.StockView, error)
	}

	TelemetryStreamer interface {
		Track(ctx context.Context, shipmentID kernel.UUID, sink jobs.TelemetrySink) (*jobs.Tracking, error)
	}
)

// Handlers groups the use cases the server dispatches to.
type Handlers struct {
	CreateProduct         CreateProductHandler
	UpdateProductQuantity UpdateProductQuantityHandler
	PlaceOrder            PlaceOrderHandler
	RecordPayment         RecordPaymentHandler
	BindCarrier           BindCarrierHandler
	ConfirmOrderDelivery  ConfirmOrderDeliveryHandler
	StartTransit          StartTransitHandler
	DeliverShipment       DeliverShipmentHandler
	AppendReading         AppendReadingHandler
	RetryAttestation      RetryAttestationHandler

	ListOrders          ListOrdersHandler
	ListShipments       ListShipmentsHandler
	ProductAvailability ProductAvailabilityHandler
	BuyerStock          BuyerStockHandler
	ShipmentAlerts      jobs.ShipmentAlertsReader
	Telemetry           TelemetryStreamer
}

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	h      Handlers
	logger *slog.Logger
}

func NewServer(h Handlers, logger *slog.Logger) *Server {
	return &Server{
		h:      h,
		logger: logger.With("component", "http_server"),
	}
}

// Register mounts /health and the /api/v1 routes on e. Every API route
// requires the identity headers.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	api := e.Group("/api/v1", Identity())

	api.POST("/products", s.CreateProduct)
	api.PUT("/products/:id/quantity", s.UpdateProductQuantity)
	api.GET("/products/:id/availability", s.GetProductAvailability)

	api.GET("/orders", s.ListOrders)
	api.POST("/orders", s.PlaceOrder)
	api.POST("/orders/:id/payment", s.RecordPayment)
	api.POST("/orders/:id/carrier", s.BindCarrier)
	api.POST("/orders/:id/delivery", s.ConfirmOrderDelivery)

	api.GET("/shipments", s.ListShipments)
	api.POST("/shipments/:id/transit", s.StartTransit)
	api.POST("/shipments/:id/delivery", s.DeliverShipment)
	api.POST("/shipments/:id/readings", s.AppendReading)
	api.GET("/shipments/:id/alerts", s.GetShipmentAlerts)
	api.GET("/shipments/:id/telemetry", s.StreamTelemetry)

	api.GET("/stock", s.ListBuyerStock)

	api.POST("/attestations/:id/retry", s.RetryAttestation)
}

// bind decodes and validates the request body.
func (s *Server) bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	return c.Validate(req)
}

func pathID(c echo.Context) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("id", err)
	}
	return id, nil
}
