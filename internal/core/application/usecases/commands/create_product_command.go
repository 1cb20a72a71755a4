package commands

import (
	"errors"
	"strings"

	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/pkg/errs"
	"supplychain/internal/pkg/guard"
)

var ErrCreateProductCommandIsNotConstructed = errors.New(
	"CreateProductCommand must be created via NewCreateProductCommand constructor",
)

// CreateProductCommand lists a new product in the catalog on behalf of a producer.
//
// Example:
//
//	price, _ := kernel.ParseMoney("5")
//	qty, _ := kernel.QuantityFromInt(100)
//	cmd, err := NewCreateProductCommand(actor, "Tomatoes", "vegetables", price, "kg", qty)
type CreateProductCommand struct { //nolint:recvcheck //using for validation
	actor     kernel.Actor
	name      string
	category  string
	unitPrice kernel.Money
	unit      string
	quantity  kernel.Quantity

	guard guard.ConstructorGuard
}

func NewCreateProductCommand(
	actor kernel.Actor,
	name string,
	category string,
	unitPrice kernel.Money,
	unit string,
	quantity kernel.Quantity,
) (CreateProductCommand, error) {
	cmd := CreateProductCommand{
		category: strings.TrimSpace(category),
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setActor(actor),
		cmd.setName(name),
		cmd.setUnit(unit),
		unitPrice.Validate(),
		quantity.Validate(),
	); err != nil {
		return CreateProductCommand{}, err
	}

	cmd.unitPrice = unitPrice
	cmd.quantity = quantity
	return cmd, nil
}

func (c CreateProductCommand) Validate() error {
	return c.guard.Validate(ErrCreateProductCommandIsNotConstructed)
}

func (c CreateProductCommand) Actor() kernel.Actor {
	return c.actor
}

func (c CreateProductCommand) Name() string {
	return c.name
}

func (c CreateProductCommand) Category() string {
	return c.category
}

func (c CreateProductCommand) UnitPrice() kernel.Money {
	return c.unitPrice
}

func (c CreateProductCommand) Unit() string {
	return c.unit
}

func (c CreateProductCommand) Quantity() kernel.Quantity {
	return c.quantity
}

func (c *CreateProductCommand) setActor(actor kernel.Actor) error {
	if err := actor.Require(kernel.RoleProducer, "create product"); err != nil {
		return err
	}
	c.actor = actor
	return nil
}

func (c *CreateProductCommand) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	c.name = name
	return nil
}

func (c *CreateProductCommand) setUnit(unit string) error {
	unit = strings.TrimSpace(unit)
	if unit == "" {
		return errs.NewValueIsRequiredError("unit")
	}
	c.unit = unit
	return nil
}
