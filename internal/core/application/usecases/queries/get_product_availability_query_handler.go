package queries

import (
	"context"

	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type GetProductAvailabilityQueryHandler struct {
	db *gorm.DB
}

func NewGetProductAvailabilityQueryHandler(db *gorm.DB) GetProductAvailabilityQueryHandler {
	return GetProductAvailabilityQueryHandler{db: db}
}

// Handle computes available = quantity - sum(stock), floored at zero.
func (h GetProductAvailabilityQueryHandler) Handle(
	ctx context.Context,
	query GetProductAvailabilityQuery,
) (ProductAvailability, error) {
	if err := query.Validate(); err != nil {
		return ProductAvailability{}, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			p.id,
			p.owner_id,
			p.name,
			p.category,
			p.unit,
			p.unit_price,
			p.quantity,
			COALESCE(SUM(s.quantity), 0)
		FROM products p
		LEFT JOIN stock_entries s ON s.product_id = p.id
		WHERE p.id = ?
		GROUP BY p.id
	`, query.ProductID().Bytes()).Rows()
	if err != nil {
		return ProductAvailability{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return ProductAvailability{}, err
		}
		return ProductAvailability{}, errs.NewObjectNotFoundError("product", query.ProductID().String())
	}

	var (
		id, ownerID              uuid.UUID
		price, quantity, stocked decimal.Decimal
		result                   ProductAvailability
	)
	if err = rows.Scan(&id, &ownerID, &result.Name, &result.Category, &result.Unit, &price, &quantity,
		&stocked); err != nil {
		return ProductAvailability{}, err
	}

	if err = scanIDs(idTarget{id, &result.ProductID}, idTarget{ownerID, &result.OwnerID}); err != nil {
		return ProductAvailability{}, err
	}
	if result.UnitPrice, err = kernel.NewMoney(price); err != nil {
		return ProductAvailability{}, err
	}
	if result.Quantity, err = kernel.NewQuantity(quantity); err != nil {
		return ProductAvailability{}, err
	}
	if result.Stocked, err = kernel.NewQuantity(stocked); err != nil {
		return ProductAvailability{}, err
	}
	result.Available = result.Quantity.Sub(result.Stocked)

	return result, rows.Err()
}
