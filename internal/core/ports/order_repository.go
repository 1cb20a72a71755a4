// Package ports defines the contracts between the supply-chain core and its
// infrastructure: repositories, the unit of work, the telemetry feed, the
// change feed and the attestation ledger.
package ports

import (
	"context"
	"time"

	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/core/domain/model/order"
	"supplychain/internal/core/domain/model/shipment"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update writes the aggregate as a single conditional update guarded on
	// the stored status still being expected. When the guard fails it returns
	// InvalidState, or AlreadyAssigned when the order was bound concurrently.
	Update(ctx context.Context, aggregate *order.Order, expected order.Status) error

	// Get retrieves an order by identifier. Returns ObjectNotFound when absent.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// FindDeliveredForShipment returns the delivered orders that may be
	// reconciled by the shipment: orders bound to it by id, and orders without a
	// shipment link that match its product, carrier and buyer.
	FindDeliveredForShipment(ctx context.Context, s *shipment.Shipment) ([]*order.Order, error)

	// MarkReconciled sets the reconciled flag with a compare-and-set and reports
	// whether this call set it.
	MarkReconciled(ctx context.Context, id kernel.UUID, at time.Time) (bool, error)
}
