package queries

import (
	"errors"
	"time"

	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/core/domain/model/shipment"
	"supplychain/internal/pkg/guard"
)

var ErrListShipmentsQueryIsNotConstructed = errors.New(
	"ListShipmentsQuery must be created via NewListShipmentsQuery constructor",
)

// ListShipmentsQuery returns shipments bound to a carrier, addressed to a
// buyer, or carrying a producer's products.
type ListShipmentsQuery struct {
	actor kernel.Actor
	guard guard.ConstructorGuard
}

func NewListShipmentsQuery(actor kernel.Actor) (ListShipmentsQuery, error) {
	if err := actor.Validate(); err != nil {
		return ListShipmentsQuery{}, err
	}
	return ListShipmentsQuery{actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (q ListShipmentsQuery) Validate() error {
	return q.guard.Validate(ErrListShipmentsQueryIsNotConstructed)
}

func (q ListShipmentsQuery) Actor() kernel.Actor {
	return q.actor
}

type ShipmentView struct {
	ID             kernel.UUID
	OrderID        *kernel.UUID
	CarrierID      kernel.UUID
	ProductID      kernel.UUID
	ProductName    string
	BuyerID        kernel.UUID
	ExpectedWeight *float64
	Status         shipment.Status
	CreatedAt      time.Time
	InTransitAt    *time.Time
	DeliveredAt    *time.Time
}
