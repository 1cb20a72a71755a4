package commands

import (
	"context"
	"errors"
	"time"

	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/core/domain/model/order"
	"supplychain/internal/core/domain/model/shipment"
	"supplychain/internal/pkg/errs"
)

// SyncOrderResult reports what a sync did to the bound order. OrderID is nil
// for shipments written without an order link.
type SyncOrderResult struct {
	OrderID *kernel.UUID
	Status  order.Status
	Changed bool
}

// SyncOrderWithShipmentCommandHandler keeps the order status in step with its
// shipment: in transit implies in transit, delivered implies delivered.
type SyncOrderWithShipmentCommandHandler struct {
	uowFactory UoWFactory
}

func NewSyncOrderWithShipmentCommandHandler(uowFactory UoWFactory) SyncOrderWithShipmentCommandHandler {
	return SyncOrderWithShipmentCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle is idempotent. Losing the conditional update to a concurrent sync or
// buyer confirmation is reported as Changed == false.
func (h SyncOrderWithShipmentCommandHandler) Handle(
	ctx context.Context,
	cmd SyncOrderWithShipmentCommand,
) (SyncOrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return SyncOrderResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return SyncOrderResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	s, err := uow.ShipmentRepository().Get(ctx, cmd.ShipmentID())
	if err != nil {
		return SyncOrderResult{}, err
	}
	if s.OrderID() == nil {
		return SyncOrderResult{}, nil
	}

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, *s.OrderID())
	if err != nil {
		return SyncOrderResult{}, err
	}

	result := SyncOrderResult{OrderID: s.OrderID(), Status: o.Status()}

	if o.ShipmentID() != nil && !o.IsBoundTo(s.ID()) {
		return result, errs.NewAmbiguousBindingError(o.ID().String(), []string{o.ShipmentID().String(), s.ID().String()})
	}

	expected := o.Status()
	now := time.Now().UTC()

	var changed bool
	switch s.Status() {
	case shipment.InTransit:
		changed, err = o.MarkInTransit(now)
	case shipment.Delivered:
		changed, err = o.ConfirmDelivery(now)
	default:
		return result, nil
	}
	if err != nil {
		return result, err
	}
	if !changed {
		return result, nil
	}

	if err = orderRepo.Update(ctx, o, expected); err != nil {
		if errors.Is(err, errs.ErrInvalidState) {
			return result, nil
		}
		return result, err
	}

	if err = uow.Commit(ctx); err != nil {
		return result, err
	}

	result.Status = o.Status()
	result.Changed = true
	return result, nil
}
