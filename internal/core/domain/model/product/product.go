// Package product implements the catalog ledger: goods listed by a producer
// with a unit price and the quantity on hand.
package product

import (
	"errors"
	"strings"
	"time"

	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/pkg/errs"
	"supplychain/internal/pkg/guard"
)

var ErrProductIsNotConstructed = errors.New("Product must be created via NewProduct constructor")

// Product is a catalog entry owned by a producer. Only the owner changes its
// quantity and the quantity never goes negative.
type Product struct {
	id        kernel.UUID
	ownerID   kernel.UUID
	name      string
	category  string
	unitPrice kernel.Money
	unit      string
	quantity  kernel.Quantity
	createdAt time.Time
	updatedAt time.Time
	guard     guard.ConstructorGuard
}

func NewProduct(
	id kernel.UUID,
	ownerID kernel.UUID,
	name string,
	category string,
	unitPrice kernel.Money,
	unit string,
	quantity kernel.Quantity,
	createdAt time.Time,
) (*Product, error) {
	p := &Product{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(id),
		p.setOwnerID(ownerID),
		p.setName(name),
		p.setUnitPrice(unitPrice),
		p.setUnit(unit),
		p.setQuantity(quantity),
		p.setTimestamps(createdAt, createdAt),
	); err != nil {
		return nil, err
	}

	p.category = strings.TrimSpace(category)
	return p, nil
}

// RestoreProduct reconstructs a Product from persistent storage.
func RestoreProduct(
	id kernel.UUID,
	ownerID kernel.UUID,
	name string,
	category string,
	unitPrice kernel.Money,
	unit string,
	quantity kernel.Quantity,
	createdAt time.Time,
	updatedAt time.Time,
) (*Product, error) {
	p := &Product{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(id),
		p.setOwnerID(ownerID),
		p.setName(name),
		p.setUnitPrice(unitPrice),
		p.setUnit(unit),
		p.setQuantity(quantity),
		p.setTimestamps(createdAt, updatedAt),
	); err != nil {
		return nil, err
	}

	p.category = category
	return p, nil
}

func (p *Product) Validate() error {
	if p == nil {
		return ErrProductIsNotConstructed
	}
	return p.guard.Validate(ErrProductIsNotConstructed)
}

func (p *Product) ID() kernel.UUID {
	return p.id
}

func (p *Product) OwnerID() kernel.UUID {
	return p.ownerID
}

func (p *Product) Name() string {
	return p.name
}

func (p *Product) Category() string {
	return p.category
}

func (p *Product) UnitPrice() kernel.Money {
	return p.unitPrice
}

func (p *Product) Unit() string {
	return p.unit
}

func (p *Product) Quantity() kernel.Quantity {
	return p.quantity
}

func (p *Product) CreatedAt() time.Time {
	return p.createdAt
}

func (p *Product) UpdatedAt() time.Time {
	return p.updatedAt
}

// IsOwnedBy reports whether actor is the producer that listed the product.
func (p *Product) IsOwnedBy(actor kernel.Actor) bool {
	return actor.Is(p.ownerID, kernel.RoleProducer)
}

// ChangeQuantity sets the quantity on hand. Only the owning producer may do so.
func (p *Product) ChangeQuantity(actor kernel.Actor, quantity kernel.Quantity, at time.Time) error {
	if !p.IsOwnedBy(actor) {
		return errs.NewUnauthorizedError(actor.String(), "change quantity of product "+p.id.String())
	}
	if err := p.setQuantity(quantity); err != nil {
		return err
	}
	p.updatedAt = at
	return nil
}

// Available returns the quantity that may still be ordered once stocked has
// already been delivered to buyers. It is floored at zero.
func (p *Product) Available(stocked kernel.Quantity) kernel.Quantity {
	return p.quantity.Sub(stocked)
}

func (p *Product) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Product) setOwnerID(ownerID kernel.UUID) error {
	if err := ownerID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("ownerID", err)
	}
	p.ownerID = ownerID
	return nil
}

func (p *Product) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	p.name = name
	return nil
}

func (p *Product) setUnitPrice(price kernel.Money) error {
	if err := price.Validate(); err != nil {
		return err
	}
	p.unitPrice = price
	return nil
}

func (p *Product) setUnit(unit string) error {
	unit = strings.TrimSpace(unit)
	if unit == "" {
		return errs.NewValueIsRequiredError("unit")
	}
	p.unit = unit
	return nil
}

func (p *Product) setQuantity(quantity kernel.Quantity) error {
	if err := quantity.Validate(); err != nil {
		return err
	}
	p.quantity = quantity
	return nil
}

func (p *Product) setTimestamps(createdAt, updatedAt time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("createdAt")
	}
	if updatedAt.Before(createdAt) {
		updatedAt = createdAt
	}
	p.createdAt = createdAt
	p.updatedAt = updatedAt
	return nil
}
