package queries

import (
	"errors"

	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/core/domain/model/shipment"
	"supplychain/internal/core/domain/model/telemetry"
	"supplychain/internal/core/domain/services"
	"supplychain/internal/pkg/guard"
)

var ErrGetShipmentAlertsQueryIsNotConstructed = errors.New(
	"GetShipmentAlertsQuery must be created via NewGetShipmentAlertsQuery constructor",
)

type GetShipmentAlertsQuery struct {
	shipmentID kernel.UUID
	guard      guard.ConstructorGuard
}

func NewGetShipmentAlertsQuery(shipmentID kernel.UUID) (GetShipmentAlertsQuery, error) {
	if err := shipmentID.Validate(); err != nil {
		return GetShipmentAlertsQuery{}, err
	}
	return GetShipmentAlertsQuery{shipmentID: shipmentID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetShipmentAlertsQuery) Validate() error {
	return q.guard.Validate(ErrGetShipmentAlertsQueryIsNotConstructed)
}

func (q GetShipmentAlertsQuery) ShipmentID() kernel.UUID {
	return q.shipmentID
}

// ShipmentAlerts is the alert state derived from the latest reading. Latest
// is nil and Alerts empty while the shipment has reported nothing.
type ShipmentAlerts struct {
	ShipmentID kernel.UUID
	Status     shipment.Status
	Latest     *telemetry.Reading
	Alerts     services.AlertSet
}
