package queries

import (
	"errors"

	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/pkg/guard"
)

var ErrGetProductAvailabilityQueryIsNotConstructed = errors.New(
	"GetProductAvailabilityQuery must be created via NewGetProductAvailabilityQuery constructor",
)

type GetProductAvailabilityQuery struct {
	productID kernel.UUID
	guard     guard.ConstructorGuard
}

func NewGetProductAvailabilityQuery(productID kernel.UUID) (GetProductAvailabilityQuery, error) {
	if err := productID.Validate(); err != nil {
		return GetProductAvailabilityQuery{}, err
	}
	return GetProductAvailabilityQuery{productID: productID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetProductAvailabilityQuery) Validate() error {
	return q.guard.Validate(ErrGetProductAvailabilityQueryIsNotConstructed)
}

func (q GetProductAvailabilityQuery) ProductID() kernel.UUID {
	return q.productID
}

// ProductAvailability is the listed quantity less what buyers already hold.
type ProductAvailability struct {
	ProductID kernel.UUID
	OwnerID   kernel.UUID
	Name      string
	Category  string
	Unit      string
	UnitPrice kernel.Money
	Quantity  kernel.Quantity
	Stocked   kernel.Quantity
	Available kernel.Quantity
}
