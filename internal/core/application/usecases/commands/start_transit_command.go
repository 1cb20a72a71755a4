package commands

import (
	"errors"

	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/pkg/guard"
)

var ErrStartTransitCommandIsNotConstructed = errors.New(
	"StartTransitCommand must be created via NewStartTransitCommand constructor",
)

// StartTransitCommand is the carrier picking up a pending shipment.
type StartTransitCommand struct {
	actor      kernel.Actor
	shipmentID kernel.UUID

	guard guard.ConstructorGuard
}

func NewStartTransitCommand(actor kernel.Actor, shipmentID kernel.UUID) (StartTransitCommand, error) {
	if err := errors.Join(
		actor.Require(kernel.RoleCarrier, "start transit"),
		shipmentID.Validate(),
	); err != nil {
		return StartTransitCommand{}, err
	}

	return StartTransitCommand{
		actor:      actor,
		shipmentID: shipmentID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c StartTransitCommand) Validate() error {
	return c.guard.Validate(ErrStartTransitCommandIsNotConstructed)
}

func (c StartTransitCommand) Actor() kernel.Actor {
	return c.actor
}

func (c StartTransitCommand) ShipmentID() kernel.UUID {
	return c.shipmentID
}
