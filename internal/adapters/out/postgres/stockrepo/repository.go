package stockrepo

import (
	"context"
	"errors"

	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/core/domain/model/stock"
	"supplychain/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStockRepository implements StockRepository using GORM.
type GormStockRepository struct {
	db *gorm.DB
}

func NewGormStockRepository(db *gorm.DB) *GormStockRepository {
	return &GormStockRepository{db: db}
}

func (r *GormStockRepository) Get(ctx context.Context, buyerID, productID kernel.UUID) (*stock.Entry, error) {
	if err := errors.Join(buyerID.Validate(), productID.Validate()); err != nil {
		return nil, err
	}

	var dto StockEntryDTO
	err := r.db.WithContext(ctx).
		First(&dto, "buyer_id = ? AND product_id = ?", buyerID.Bytes(), productID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("stock", buyerID.String()+"/"+productID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// Upsert inserts the entry or raises the stored quantity to the larger of
// the two. A concurrent writer can never lower a quantity.
func (r *GormStockRepository) Upsert(ctx context.Context, entry *stock.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	dto := fromDomain(entry)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "buyer_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity":   gorm.Expr("GREATEST(stock_entries.quantity, EXCLUDED.quantity)"),
				"updated_at": gorm.Expr("EXCLUDED.updated_at"),
			}),
		}).
		Create(&dto).Error
}

func (r *GormStockRepository) SumForProduct(ctx context.Context, productID kernel.UUID) (kernel.Quantity, error) {
	if err := productID.Validate(); err != nil {
		return kernel.Quantity{}, err
	}

	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&StockEntryDTO{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("product_id = ?", productID.Bytes()).
		Row().
		Scan(&total)
	if err != nil {
		return kernel.Quantity{}, err
	}

	return kernel.NewQuantity(total)
}
