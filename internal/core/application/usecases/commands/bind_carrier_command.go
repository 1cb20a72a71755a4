package commands

import (
	"errors"

	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/pkg/errs"
	"supplychain/internal/pkg/guard"
)

var ErrBindCarrierCommandIsNotConstructed = errors.New(
	"BindCarrierCommand must be created via NewBindCarrierCommand constructor",
)

// BindCarrierCommand asks the producer's paid order to be handed to a carrier.
// expectedWeight is optional and feeds the weight anomaly alert.
type BindCarrierCommand struct {
	actor          kernel.Actor
	orderID        kernel.UUID
	carrierID      kernel.UUID
	expectedWeight *float64

	guard guard.ConstructorGuard
}

func NewBindCarrierCommand(
	actor kernel.Actor,
	orderID kernel.UUID,
	carrierID kernel.UUID,
	expectedWeight *float64,
) (BindCarrierCommand, error) {
	var weightErr error
	if expectedWeight != nil && *expectedWeight <= 0 {
		weightErr = errs.NewValueIsInvalidError("expectedWeight")
	}

	if err := errors.Join(
		actor.Require(kernel.RoleProducer, "bind carrier"),
		orderID.Validate(),
		carrierID.Validate(),
		weightErr,
	); err != nil {
		return BindCarrierCommand{}, err
	}

	return BindCarrierCommand{
		actor:          actor,
		orderID:        orderID,
		carrierID:      carrierID,
		expectedWeight: expectedWeight,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

func (c BindCarrierCommand) Validate() error {
	return c.guard.Validate(ErrBindCarrierCommandIsNotConstructed)
}

func (c BindCarrierCommand) Actor() kernel.Actor {
	return c.actor
}

func (c BindCarrierCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c BindCarrierCommand) CarrierID() kernel.UUID {
	return c.carrierID
}

func (c BindCarrierCommand) ExpectedWeight() *float64 {
	return c.expectedWeight
}
