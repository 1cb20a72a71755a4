package services

import (
	"errors"
	"time"

	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/core/domain/model/order"
	"supplychain/internal/core/domain/model/shipment"
	"supplychain/internal/pkg/errs"
)

// AssignmentBinder links a paid order to a carrier.
//
// Business rules:
//   - only the producer of the order may bind it
//   - the order must be paid and have no carrier yet
//   - exactly one pending shipment is created, carrying the order id, and the
//     order records the shipment id
//
// The binder only prepares both aggregates. Persisting them in one
// transaction, with the order update guarded on status == paid, is the
// caller's job.
type AssignmentBinder struct{}

func NewAssignmentBinder() AssignmentBinder {
	return AssignmentBinder{}
}

// Bind returns the new shipment and moves o to assigned. On any error o is
// left unchanged and no shipment is returned.
func (AssignmentBinder) Bind(
	actor kernel.Actor,
	o *order.Order,
	carrierID kernel.UUID,
	expectedWeight *float64,
	now time.Time,
) (*shipment.Shipment, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if !actor.Is(o.ProducerID(), kernel.RoleProducer) {
		return nil, errs.NewUnauthorizedError(actor.String(), "bind carrier to order "+o.ID().String())
	}
	if err := carrierID.Validate(); err != nil {
		return nil, errs.NewValueIsRequiredErrorWithCause("carrierID", err)
	}

	if _, err := o.Status().Assign(); err != nil {
		if errors.Is(err, errs.ErrAlreadyAssigned) {
			return nil, errs.NewAlreadyAssignedError(o.ID().String(), idString(o.CarrierID())).
				WithShipment(idString(o.ShipmentID()))
		}
		return nil, err
	}

	s, err := shipment.NewShipment(kernel.NewUUID(), o.ID(), carrierID, o.ProductID(), o.BuyerID(), expectedWeight, now)
	if err != nil {
		return nil, err
	}

	if err = o.Assign(carrierID, s.ID(), now); err != nil {
		return nil, err
	}

	return s, nil
}

func idString(id *kernel.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}
