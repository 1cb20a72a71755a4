package kernel

import (
	"supplychain/internal/pkg/errs"
	"supplychain/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrMoneyIsNotConstructed = errs.NewValueIsRequiredError("money must be created via NewMoney or ParseMoney")

// Money is a non-negative monetary amount. Currency is implicit and shared by
// the whole marketplace.
type Money struct {
	amount decimal.Decimal
	guard  guard.ConstructorGuard
}

func NewMoney(amount decimal.Decimal) (Money, error) {
	if amount.IsNegative() {
		return Money{}, errs.NewValueIsOutOfRangeError("amount", amount, 0, "∞")
	}
	return Money{amount: amount, guard: guard.NewConstructorGuard()}, nil
}

func ParseMoney(s string) (Money, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", err)
	}
	return NewMoney(amount)
}

func (m Money) Validate() error {
	return m.guard.Validate(ErrMoneyIsNotConstructed)
}

func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

// Times returns the price of q units at unit price m.
func (m Money) Times(q Quantity) Money {
	return Money{amount: m.amount.Mul(q.Decimal()), guard: guard.NewConstructorGuard()}
}

func (m Money) Equal(other Money) bool {
	return m.amount.Equal(other.amount)
}

func (m Money) String() string {
	return m.amount.StringFixed(2)
}
