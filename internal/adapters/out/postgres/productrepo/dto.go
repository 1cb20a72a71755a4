package productrepo

import (
	"time"

	"supplychain/internal/adapters/out/postgres/pgtypes"
	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/core/domain/model/product"
	"supplychain/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductDTO struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OwnerID   uuid.UUID       `gorm:"type:uuid;index;not null"`
	Name      string          `gorm:"not null"`
	Category  string          `gorm:"index"`
	UnitPrice decimal.Decimal `gorm:"type:numeric;not null"`
	Unit      string          `gorm:"size:32;not null"`
	Quantity  decimal.Decimal `gorm:"type:numeric;not null"`
	CreatedAt time.Time       `gorm:"not null"`
	UpdatedAt time.Time       `gorm:"not null"`
}

func (ProductDTO) TableName() string {
	return "products"
}

func fromDomain(p *product.Product) ProductDTO {
	return ProductDTO{
		ID:        p.ID().Bytes(),
		OwnerID:   p.OwnerID().Bytes(),
		Name:      p.Name(),
		Category:  p.Category(),
		UnitPrice: p.UnitPrice().Decimal(),
		Unit:      p.Unit(),
		Quantity:  p.Quantity().Decimal(),
		CreatedAt: p.CreatedAt(),
		UpdatedAt: p.UpdatedAt(),
	}
}

func toDomain(dto ProductDTO) (*product.Product, error) {
	p, err := restore(dto)
	if err != nil {
		return nil, errs.NewMalformedDocumentError("products", dto.ID.String(), err)
	}
	return p, nil
}

func restore(dto ProductDTO) (*product.Product, error) {
	id, err := pgtypes.ID(dto.ID)
	if err != nil {
		return nil, err
	}
	ownerID, err := pgtypes.ID(dto.OwnerID)
	if err != nil {
		return nil, err
	}
	price, err := kernel.NewMoney(dto.UnitPrice)
	if err != nil {
		return nil, err
	}
	quantity, err := kernel.NewQuantity(dto.Quantity)
	if err != nil {
		return nil, err
	}

	return product.RestoreProduct(id, ownerID, dto.Name, dto.Category, price, dto.Unit, quantity,
		dto.CreatedAt, dto.UpdatedAt)
}
