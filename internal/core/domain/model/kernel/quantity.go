package kernel

import (
	"fmt"

	"supplychain/internal/pkg/errs"
	"supplychain/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrQuantityIsNotConstructed = errs.NewValueIsRequiredError("quantity must be created via NewQuantity or QuantityFromInt")

// Quantity is a non-negative amount of goods measured in the product's unit.
// Units may be fractional (kilograms, litres), so it is backed by a decimal.
type Quantity struct {
	value decimal.Decimal
	guard guard.ConstructorGuard
}

// NewQuantity validates value and returns it as a Quantity.
func NewQuantity(value decimal.Decimal) (Quantity, error) {
	if value.IsNegative() {
		return Quantity{}, errs.NewValueIsOutOfRangeError("quantity", value, 0, "∞")
	}
	return Quantity{value: value, guard: guard.NewConstructorGuard()}, nil
}

// QuantityFromInt is a shorthand for whole-unit quantities.
func QuantityFromInt(value int64) (Quantity, error) {
	return NewQuantity(decimal.NewFromInt(value))
}

// ParseQuantity parses a decimal string such as "12.5".
func ParseQuantity(s string) (Quantity, error) {
	value, err := decimal.NewFromString(s)
	if err != nil {
		return Quantity{}, errs.NewValueIsInvalidErrorWithCause("quantity", err)
	}
	return NewQuantity(value)
}

// ZeroQuantity returns a constructed zero quantity.
func ZeroQuantity() Quantity {
	return Quantity{value: decimal.Zero, guard: guard.NewConstructorGuard()}
}

func (q Quantity) Validate() error {
	return q.guard.Validate(ErrQuantityIsNotConstructed)
}

func (q Quantity) Decimal() decimal.Decimal {
	return q.value
}

func (q Quantity) IsZero() bool {
	return q.value.IsZero()
}

func (q Quantity) IsPositive() bool {
	return q.value.IsPositive()
}

func (q Quantity) Equal(other Quantity) bool {
	return q.value.Equal(other.value)
}

func (q Quantity) LessThan(other Quantity) bool {
	return q.value.LessThan(other.value)
}

func (q Quantity) GreaterThan(other Quantity) bool {
	return q.value.GreaterThan(other.value)
}

// Max returns the larger of q and other.
func (q Quantity) Max(other Quantity) Quantity {
	if other.value.GreaterThan(q.value) {
		return other
	}
	return q
}

// Sub returns q - other floored at zero.
func (q Quantity) Sub(other Quantity) Quantity {
	diff := q.value.Sub(other.value)
	if diff.IsNegative() {
		diff = decimal.Zero
	}
	return Quantity{value: diff, guard: guard.NewConstructorGuard()}
}

func (q Quantity) Add(other Quantity) Quantity {
	return Quantity{value: q.value.Add(other.value), guard: guard.NewConstructorGuard()}
}

func (q Quantity) String() string {
	return q.value.String()
}

// GoString keeps %#v readable in test failure output.
func (q Quantity) GoString() string {
	return fmt.Sprintf("Quantity(%s)", q.value.String())
}
