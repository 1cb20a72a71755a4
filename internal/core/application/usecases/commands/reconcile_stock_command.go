package commands

import (
	"errors"

	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/pkg/guard"
)

var ErrReconcileStockCommandIsNotConstructed = errors.New(
	"ReconcileStockCommand must be created via NewReconcileStockCommand constructor",
)

// ReconcileStockCommand applies a delivered shipment to its buyer's stock.
type ReconcileStockCommand struct {
	shipmentID kernel.UUID

	guard guard.ConstructorGuard
}

func NewReconcileStockCommand(shipmentID kernel.UUID) (ReconcileStockCommand, error) {
	if err := shipmentID.Validate(); err != nil {
		return ReconcileStockCommand{}, err
	}

	return ReconcileStockCommand{
		shipmentID: shipmentID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c ReconcileStockCommand) Validate() error {
	return c.guard.Validate(ErrReconcileStockCommandIsNotConstructed)
}

func (c ReconcileStockCommand) ShipmentID() kernel.UUID {
	return c.shipmentID
}
