package commands

import (
	"context"
	"errors"
	"time"

	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/core/domain/model/order"
	"supplychain/internal/pkg/errs"
)

// RecordPaymentCommandHandler moves a placed order to paid.
type RecordPaymentCommandHandler struct {
	uowFactory UoWFactory
}

func NewRecordPaymentCommandHandler(uowFactory UoWFactory) RecordPaymentCommandHandler {
	return RecordPaymentCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle returns AlreadyPaid when the order is past placed, including when a
// concurrent payment won the conditional update.
func (h RecordPaymentCommandHandler) Handle(ctx context.Context, cmd RecordPaymentCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := repo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if !cmd.Actor().Is(o.BuyerID(), kernel.RoleBuyer) {
		return errs.NewUnauthorizedError(cmd.Actor().String(), "pay order "+o.ID().String())
	}

	if err = o.MarkPaid(cmd.Receipt(), time.Now().UTC()); err != nil {
		return err
	}

	if err = repo.Update(ctx, o, order.Placed); err != nil {
		if errors.Is(err, errs.ErrInvalidState) {
			return errs.NewAlreadyPaidError(o.ID().String(), order.Paid.String())
		}
		return err
	}

	return uow.Commit(ctx)
}
