package ports

import (
	"context"

	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/core/domain/model/order"
	"supplychain/internal/core/domain/model/shipment"
)

// ShipmentRepository defines the persistence contract for shipment aggregates.
type ShipmentRepository interface {
	Add(ctx context.Context, aggregate *shipment.Shipment) error

	// Update writes the aggregate guarded on the stored status still being
	// expected. Exactly one of several concurrent callers succeeds; the others
	// get InvalidState.
	Update(ctx context.Context, aggregate *shipment.Shipment, expected shipment.Status) error

	Get(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error)

	// FindBoundToOrder returns every shipment that claims the order: shipments
	// carrying its id, the shipment it records, and for orders without a link the
	// shipments matching product, carrier and buyer.
	FindBoundToOrder(ctx context.Context, o *order.Order) ([]*shipment.Shipment, error)

	// ListActive returns pending and in-transit shipments.
	ListActive(ctx context.Context) ([]*shipment.Shipment, error)
}
