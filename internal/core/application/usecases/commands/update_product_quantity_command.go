package commands

import (
	"errors"

	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/pkg/guard"
)

var ErrUpdateProductQuantityCommandIsNotConstructed = errors.New(
	"UpdateProductQuantityCommand must be created via NewUpdateProductQuantityCommand constructor",
)

// UpdateProductQuantityCommand sets the quantity on hand of a product.
type UpdateProductQuantityCommand struct {
	actor     kernel.Actor
	productID kernel.UUID
	quantity  kernel.Quantity

	guard guard.ConstructorGuard
}

func NewUpdateProductQuantityCommand(
	actor kernel.Actor,
	productID kernel.UUID,
	quantity kernel.Quantity,
) (UpdateProductQuantityCommand, error) {
	if err := errors.Join(
		actor.Require(kernel.RoleProducer, "update product quantity"),
		productID.Validate(),
		quantity.Validate(),
	); err != nil {
		return UpdateProductQuantityCommand{}, err
	}

	return UpdateProductQuantityCommand{
		actor:     actor,
		productID: productID,
		quantity:  quantity,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateProductQuantityCommand) Validate() error {
	return c.guard.Validate(ErrUpdateProductQuantityCommandIsNotConstructed)
}

func (c UpdateProductQuantityCommand) Actor() kernel.Actor {
	return c.actor
}

func (c UpdateProductQuantityCommand) ProductID() kernel.UUID {
	return c.productID
}

func (c UpdateProductQuantityCommand) Quantity() kernel.Quantity {
	return c.quantity
}
