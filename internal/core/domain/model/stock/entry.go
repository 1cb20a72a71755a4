// Package stock holds buyer-side stock derived from reconciled deliveries.
// There is at most one Entry per (buyer, product) and its quantity never
// decreases.
package stock

import (
	"errors"
	"time"

	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/pkg/errs"
	"supplychain/internal/pkg/guard"
)

var ErrEntryIsNotConstructed = errors.New("stock Entry must be created via NewEntry constructor")

// Outcome describes what reconciling an order did to an entry.
type Outcome string

const (
	Created   Outcome = "created"
	Raised    Outcome = "raised"
	Unchanged Outcome = "unchanged"
)

// Entry is the quantity of a product a buyer holds.
type Entry struct {
	id        kernel.UUID
	buyerID   kernel.UUID
	productID kernel.UUID
	quantity  kernel.Quantity
	createdAt time.Time
	updatedAt time.Time
	guard     guard.ConstructorGuard
}

func NewEntry(id, buyerID, productID kernel.UUID, quantity kernel.Quantity, at time.Time) (*Entry, error) {
	return RestoreEntry(id, buyerID, productID, quantity, at, at)
}

func RestoreEntry(
	id, buyerID, productID kernel.UUID,
	quantity kernel.Quantity,
	createdAt, updatedAt time.Time,
) (*Entry, error) {
	if err := errors.Join(
		id.Validate(),
		requiredID("buyerID", buyerID),
		requiredID("productID", productID),
		quantity.Validate(),
	); err != nil {
		return nil, err
	}
	if createdAt.IsZero() {
		return nil, errs.NewValueIsRequiredError("createdAt")
	}

	return &Entry{
		id:        id,
		buyerID:   buyerID,
		productID: productID,
		quantity:  quantity,
		createdAt: createdAt,
		updatedAt: updatedAt,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (e *Entry) Validate() error {
	if e == nil {
		return ErrEntryIsNotConstructed
	}
	return e.guard.Validate(ErrEntryIsNotConstructed)
}

func (e *Entry) ID() kernel.UUID {
	return e.id
}

func (e *Entry) BuyerID() kernel.UUID {
	return e.buyerID
}

func (e *Entry) ProductID() kernel.UUID {
	return e.productID
}

func (e *Entry) Quantity() kernel.Quantity {
	return e.quantity
}

func (e *Entry) CreatedAt() time.Time {
	return e.createdAt
}

func (e *Entry) UpdatedAt() time.Time {
	return e.updatedAt
}

// Raise applies a delivered order quantity: the entry becomes
// max(current, quantity). Quantities are never summed, so applying the same
// delivery twice is harmless.
func (e *Entry) Raise(quantity kernel.Quantity, at time.Time) Outcome {
	if !quantity.GreaterThan(e.quantity) {
		return Unchanged
	}
	e.quantity = quantity
	e.updatedAt = at
	return Raised
}

func requiredID(name string, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause(name, err)
	}
	return nil
}
