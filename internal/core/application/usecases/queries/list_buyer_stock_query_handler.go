package queries

import (
	"context"

	"supplychain/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ListBuyerStockQueryHandler struct {
	db *gorm.DB
}

func NewListBuyerStockQueryHandler(db *gorm.DB) ListBuyerStockQueryHandler {
	return ListBuyerStockQueryHandler{db: db}
}

func (h ListBuyerStockQueryHandler) Handle(ctx context.Context, query ListBuyerStockQuery) ([]StockView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			s.product_id,
			COALESCE(p.name, ''),
			COALESCE(p.unit, ''),
			s.quantity,
			s.updated_at
		FROM stock_entries s
		LEFT JOIN products p ON p.id = s.product_id
		WHERE s.buyer_id = ?
		ORDER BY p.name, s.product_id
	`, query.BuyerID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stock := make([]StockView, 0)
	for rows.Next() {
		var (
			productID uuid.UUID
			quantity  decimal.Decimal
			view      StockView
		)
		if err = rows.Scan(&productID, &view.ProductName, &view.Unit, &quantity, &view.UpdatedAt); err != nil {
			return nil, err
		}
		if err = scanIDs(idTarget{productID, &view.ProductID}); err != nil {
			return nil, err
		}
		if view.Quantity, err = kernel.NewQuantity(quantity); err != nil {
			return nil, err
		}
		stock = append(stock, view)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return stock, nil
}
