package queries

import (
	"errors"
	"time"

	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/pkg/guard"
)

var ErrListBuyerStockQueryIsNotConstructed = errors.New(
	"ListBuyerStockQuery must be created via NewListBuyerStockQuery constructor",
)

// ListBuyerStockQuery returns the stock a buyer has received.
type ListBuyerStockQuery struct {
	buyerID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewListBuyerStockQuery(actor kernel.Actor) (ListBuyerStockQuery, error) {
	if err := actor.Require(kernel.RoleBuyer, "list stock"); err != nil {
		return ListBuyerStockQuery{}, err
	}
	return ListBuyerStockQuery{buyerID: actor.ID, guard: guard.NewConstructorGuard()}, nil
}

func (q ListBuyerStockQuery) Validate() error {
	return q.guard.Validate(ErrListBuyerStockQueryIsNotConstructed)
}

func (q ListBuyerStockQuery) BuyerID() kernel.UUID {
	return q.buyerID
}

type StockView struct {
	ProductID   kernel.UUID
	ProductName string
	Unit        string
	Quantity    kernel.Quantity
	UpdatedAt   time.Time
}
