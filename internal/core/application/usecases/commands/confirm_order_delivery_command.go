package commands

import (
	"errors"

	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/pkg/guard"
)

var ErrConfirmOrderDeliveryCommandIsNotConstructed = errors.New(
	"ConfirmOrderDeliveryCommand must be created via NewConfirmOrderDeliveryCommand constructor",
)

// ConfirmOrderDeliveryCommand is the buyer acknowledging receipt of an order.
type ConfirmOrderDeliveryCommand struct {
	actor   kernel.Actor
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewConfirmOrderDeliveryCommand(actor kernel.Actor, orderID kernel.UUID) (ConfirmOrderDeliveryCommand, error) {
	if err := errors.Join(
		actor.Require(kernel.RoleBuyer, "confirm delivery"),
		orderID.Validate(),
	); err != nil {
		return ConfirmOrderDeliveryCommand{}, err
	}

	return ConfirmOrderDeliveryCommand{
		actor:   actor,
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c ConfirmOrderDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrConfirmOrderDeliveryCommandIsNotConstructed)
}

func (c ConfirmOrderDeliveryCommand) Actor() kernel.Actor {
	return c.actor
}

func (c ConfirmOrderDeliveryCommand) OrderID() kernel.UUID {
	return c.orderID
}
