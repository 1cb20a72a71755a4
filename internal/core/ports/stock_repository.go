package ports

import (
	"context"

	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/core/domain/model/stock"
)

// StockRepository stores buyer stock entries, unique on (buyer, product).
type StockRepository interface {
	// Get returns the entry for (buyerID, productID) or ObjectNotFound.
	Get(ctx context.Context, buyerID, productID kernel.UUID) (*stock.Entry, error)

	// Upsert inserts the entry or raises the stored quantity to
	// max(stored, entry.Quantity()) in a single statement.
	Upsert(ctx context.Context, entry *stock.Entry) error

	// SumForProduct returns the total quantity stocked by buyers for a product.
	SumForProduct(ctx context.Context, productID kernel.UUID) (kernel.Quantity, error)
}
