package commands

import (
	"errors"

	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/pkg/guard"
)

var ErrSyncOrderWithShipmentCommandIsNotConstructed = errors.New(
	"SyncOrderWithShipmentCommand must be created via NewSyncOrderWithShipmentCommand constructor",
)

// SyncOrderWithShipmentCommand projects a shipment's status onto its bound order.
type SyncOrderWithShipmentCommand struct {
	shipmentID kernel.UUID

	guard guard.ConstructorGuard
}

func NewSyncOrderWithShipmentCommand(shipmentID kernel.UUID) (SyncOrderWithShipmentCommand, error) {
	if err := shipmentID.Validate(); err != nil {
		return SyncOrderWithShipmentCommand{}, err
	}

	return SyncOrderWithShipmentCommand{
		shipmentID: shipmentID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c SyncOrderWithShipmentCommand) Validate() error {
	return c.guard.Validate(ErrSyncOrderWithShipmentCommandIsNotConstructed)
}

func (c SyncOrderWithShipmentCommand) ShipmentID() kernel.UUID {
	return c.shipmentID
}
