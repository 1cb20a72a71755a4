package stockrepo

import (
	"time"

	"supplychain/internal/adapters/out/postgres/pgtypes"
	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/core/domain/model/stock"
	"supplychain/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockEntryDTO is one row per (buyer, product).
type StockEntryDTO struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	BuyerID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_buyer_product"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_buyer_product;index"`
	Quantity  decimal.Decimal `gorm:"type:numeric;not null"`
	CreatedAt time.Time       `gorm:"not null"`
	UpdatedAt time.Time       `gorm:"not null"`
}

func (StockEntryDTO) TableName() string {
	return "stock_entries"
}

func fromDomain(e *stock.Entry) StockEntryDTO {
	return StockEntryDTO{
		ID:        e.ID().Bytes(),
		BuyerID:   e.BuyerID().Bytes(),
		ProductID: e.ProductID().Bytes(),
		Quantity:  e.Quantity().Decimal(),
		CreatedAt: e.CreatedAt(),
		UpdatedAt: e.UpdatedAt(),
	}
}

func toDomain(dto StockEntryDTO) (*stock.Entry, error) {
	e, err := restore(dto)
	if err != nil {
		return nil, errs.NewMalformedDocumentError("stock_entries", dto.ID.String(), err)
	}
	return e, nil
}

func restore(dto StockEntryDTO) (*stock.Entry, error) {
	id, err := pgtypes.ID(dto.ID)
	if err != nil {
		return nil, err
	}
	buyerID, err := pgtypes.ID(dto.BuyerID)
	if err != nil {
		return nil, err
	}
	productID, err := pgtypes.ID(dto.ProductID)
	if err != nil {
		return nil, err
	}
	quantity, err := kernel.NewQuantity(dto.Quantity)
	if err != nil {
		return nil, err
	}

	return stock.RestoreEntry(id, buyerID, productID, quantity, dto.CreatedAt, dto.UpdatedAt)
}
