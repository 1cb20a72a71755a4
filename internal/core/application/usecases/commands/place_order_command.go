package commands

import (
	"errors"

	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/pkg/errs"
	"supplychain/internal/pkg/guard"
)

var ErrPlaceOrderCommandIsNotConstructed = errors.New(
	"PlaceOrderCommand must be created via NewPlaceOrderCommand constructor",
)

// PlaceOrderCommand is a buyer's request for a quantity of a listed product.
type PlaceOrderCommand struct {
	actor     kernel.Actor
	productID kernel.UUID
	quantity  kernel.Quantity

	guard guard.ConstructorGuard
}

func NewPlaceOrderCommand(
	actor kernel.Actor,
	productID kernel.UUID,
	quantity kernel.Quantity,
) (PlaceOrderCommand, error) {
	if err := errors.Join(
		actor.Require(kernel.RoleBuyer, "place order"),
		productID.Validate(),
		quantity.Validate(),
	); err != nil {
		return PlaceOrderCommand{}, err
	}
	if !quantity.IsPositive() {
		return PlaceOrderCommand{}, errs.NewValueIsInvalidError("quantity")
	}

	return PlaceOrderCommand{
		actor:     actor,
		productID: productID,
		quantity:  quantity,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c PlaceOrderCommand) Validate() error {
	return c.guard.Validate(ErrPlaceOrderCommandIsNotConstructed)
}

func (c PlaceOrderCommand) Actor() kernel.Actor {
	return c.actor
}

func (c PlaceOrderCommand) ProductID() kernel.UUID {
	return c.productID
}

func (c PlaceOrderCommand) Quantity() kernel.Quantity {
	return c.quantity
}
