package commands

import (
	"errors"

	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/pkg/guard"
)

var ErrDeliverShipmentCommandIsNotConstructed = errors.New(
	"DeliverShipmentCommand must be created via NewDeliverShipmentCommand constructor",
)

// DeliverShipmentCommand is the carrier handing over an in-transit shipment.
type DeliverShipmentCommand struct {
	actor      kernel.Actor
	shipmentID kernel.UUID

	guard guard.ConstructorGuard
}

func NewDeliverShipmentCommand(actor kernel.Actor, shipmentID kernel.UUID) (DeliverShipmentCommand, error) {
	if err := errors.Join(
		actor.Require(kernel.RoleCarrier, "deliver shipment"),
		shipmentID.Validate(),
	); err != nil {
		return DeliverShipmentCommand{}, err
	}

	return DeliverShipmentCommand{
		actor:      actor,
		shipmentID: shipmentID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c DeliverShipmentCommand) Validate() error {
	return c.guard.Validate(ErrDeliverShipmentCommandIsNotConstructed)
}

func (c DeliverShipmentCommand) Actor() kernel.Actor {
	return c.actor
}

func (c DeliverShipmentCommand) ShipmentID() kernel.UUID {
	return c.shipmentID
}
