package commands

import (
	"context"
	"errors"
	"time"

	"supplychain/internal/core/domain/model/attestation"
	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/core/domain/model/order"
	"supplychain/internal/core/ports"
	"supplychain/internal/pkg/errs"
)

// ConfirmOrderDeliveryResult reports whether this call delivered the order.
// AttestationErr is a warning; the confirmation stays committed.
type ConfirmOrderDeliveryResult struct {
	Changed        bool
	Attestation    *attestation.Attestation
	AttestationErr error
}

type ConfirmOrderDeliveryCommandHandler struct {
	uowFactory UoWFactory
	attester   DeliveryAttester
}

func NewConfirmOrderDeliveryCommandHandler(
	uowFactory UoWFactory,
	attester DeliveryAttester,
) ConfirmOrderDeliveryCommandHandler {
	return ConfirmOrderDeliveryCommandHandler{
		uowFactory: uowFactory,
		attester:   attester,
	}
}

// Handle is idempotent: confirming a delivered order succeeds with
// Changed == false and emits nothing. The order delivery attestation is only
// emitted by the call that performed the transition.
func (h ConfirmOrderDeliveryCommandHandler) Handle(
	ctx context.Context,
	cmd ConfirmOrderDeliveryCommand,
) (ConfirmOrderDeliveryResult, error) {
	if err := cmd.Validate(); err != nil {
		return ConfirmOrderDeliveryResult{}, err
	}

	o, changed, err := h.confirm(ctx, cmd)
	if err != nil || !changed {
		return ConfirmOrderDeliveryResult{}, err
	}

	result := ConfirmOrderDeliveryResult{Changed: true}

	payload, err := orderPayload(o)
	if err != nil {
		result.AttestationErr = err
		return result, nil
	}
	result.Attestation, result.AttestationErr = h.attester.Emit(ctx, attestation.OrderDelivery, o.ID(), payload)

	return result, nil
}

func (h ConfirmOrderDeliveryCommandHandler) confirm(
	ctx context.Context,
	cmd ConfirmOrderDeliveryCommand,
) (*order.Order, bool, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := repo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, false, err
	}

	if !cmd.Actor().Is(o.BuyerID(), kernel.RoleBuyer) {
		return nil, false, errs.NewUnauthorizedError(cmd.Actor().String(), "confirm delivery of order "+o.ID().String())
	}

	expected := o.Status()
	changed, err := o.ConfirmDelivery(time.Now().UTC())
	if err != nil || !changed {
		return o, false, err
	}

	if err = repo.Update(ctx, o, expected); err != nil {
		if errors.Is(err, errs.ErrInvalidState) {
			return h.settled(ctx, repo, o.ID())
		}
		return nil, false, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, false, err
	}

	return o, true, nil
}

// settled resolves a lost conditional update: if the order is now delivered,
// another path won and the confirmation is a no-op.
func (h ConfirmOrderDeliveryCommandHandler) settled(
	ctx context.Context,
	repo ports.OrderRepository,
	id kernel.UUID,
) (*order.Order, bool, error) {
	o, err := repo.Get(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if o.Status() != order.Delivered {
		return nil, false, errs.NewInvalidStateError("order", o.Status().String(), "confirm delivery")
	}
	return o, false, nil
}
