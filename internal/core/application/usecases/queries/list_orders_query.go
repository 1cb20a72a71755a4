package queries

import (
	"errors"
	"time"

	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/core/domain/model/order"
	"supplychain/internal/pkg/guard"
)

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via NewListOrdersQuery constructor",
)

// ListOrdersQuery returns the orders the actor is a party to: buyers see
// what they placed, producers what was placed for their products and
// carriers what they were bound to.
//
// Example:
//
//	query, err := NewListOrdersQuery(actor)
//	if err != nil {
//	    return err
//	}
//	orders, err := handler.Handle(ctx, query)
type ListOrdersQuery struct {
	actor kernel.Actor
	guard guard.ConstructorGuard
}

func NewListOrdersQuery(actor kernel.Actor) (ListOrdersQuery, error) {
	if err := actor.Validate(); err != nil {
		return ListOrdersQuery{}, err
	}
	return ListOrdersQuery{actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

func (q ListOrdersQuery) Actor() kernel.Actor {
	return q.actor
}

type OrderView struct {
	ID          kernel.UUID
	ProductID   kernel.UUID
	ProductName string
	BuyerID     kernel.UUID
	ProducerID  kernel.UUID
	CarrierID   *kernel.UUID
	ShipmentID  *kernel.UUID
	Quantity    kernel.Quantity
	Total       kernel.Money
	Status      order.Status
	PlacedAt    time.Time
	DeliveredAt *time.Time
}
