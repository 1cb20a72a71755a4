package commands

import (
	"errors"
	"strings"

	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/pkg/errs"
	"supplychain/internal/pkg/guard"
)

var ErrRecordPaymentCommandIsNotConstructed = errors.New(
	"RecordPaymentCommand must be created via NewRecordPaymentCommand constructor",
)

// RecordPaymentCommand attaches a payment receipt to a placed order.
type RecordPaymentCommand struct {
	actor   kernel.Actor
	orderID kernel.UUID
	receipt string

	guard guard.ConstructorGuard
}

func NewRecordPaymentCommand(actor kernel.Actor, orderID kernel.UUID, receipt string) (RecordPaymentCommand, error) {
	receipt = strings.TrimSpace(receipt)

	var receiptErr error
	if receipt == "" {
		receiptErr = errs.NewValueIsRequiredError("receipt")
	}

	if err := errors.Join(
		actor.Require(kernel.RoleBuyer, "record payment"),
		orderID.Validate(),
		receiptErr,
	); err != nil {
		return RecordPaymentCommand{}, err
	}

	return RecordPaymentCommand{
		actor:   actor,
		orderID: orderID,
		receipt: receipt,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c RecordPaymentCommand) Validate() error {
	return c.guard.Validate(ErrRecordPaymentCommandIsNotConstructed)
}

func (c RecordPaymentCommand) Actor() kernel.Actor {
	return c.actor
}

func (c RecordPaymentCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c RecordPaymentCommand) Receipt() string {
	return c.receipt
}
