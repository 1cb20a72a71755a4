package commands

import (
	"errors"

	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/core/domain/model/telemetry"
	"supplychain/internal/pkg/guard"
)

var ErrAppendReadingCommandIsNotConstructed = errors.New(
	"AppendReadingCommand must be created via NewAppendReadingCommand constructor",
)

// AppendReadingCommand is a carrier's sensor reading for a shipment.
type AppendReadingCommand struct {
	actor   kernel.Actor
	reading telemetry.Reading

	guard guard.ConstructorGuard
}

func NewAppendReadingCommand(actor kernel.Actor, reading telemetry.Reading) (AppendReadingCommand, error) {
	if err := errors.Join(
		actor.Require(kernel.RoleCarrier, "report telemetry"),
		reading.Validate(),
	); err != nil {
		return AppendReadingCommand{}, err
	}

	return AppendReadingCommand{
		actor:   actor,
		reading: reading,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c AppendReadingCommand) Validate() error {
	return c.guard.Validate(ErrAppendReadingCommandIsNotConstructed)
}

func (c AppendReadingCommand) Actor() kernel.Actor {
	return c.actor
}

func (c AppendReadingCommand) Reading() telemetry.Reading {
	return c.reading
}
