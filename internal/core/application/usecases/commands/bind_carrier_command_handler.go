package commands

import (
	"context"
	"errors"
	"time"

	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/core/domain/model/order"
	"supplychain/internal/core/domain/services"
	"supplychain/internal/pkg/errs"
)

// BindCarrierCommandHandler runs the assignment binder in one transaction.
//
// Example:
//
//	handler := NewBindCarrierCommandHandler(uowFactory)
//	shipmentID, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrAlreadyAssigned):
//	    // another bind won, nothing was written; shipmentID is the winner's
//	case errors.Is(err, errs.ErrInvalidState):
//	    // order is not paid yet
//	}
type BindCarrierCommandHandler struct {
	uowFactory UoWFactory
	binder     services.AssignmentBinder
}

func NewBindCarrierCommandHandler(uowFactory UoWFactory) BindCarrierCommandHandler {
	return BindCarrierCommandHandler{
		uowFactory: uowFactory,
		binder:     services.NewAssignmentBinder(),
	}
}

// Handle inserts the pending shipment and moves the order to assigned, guarded
// on the order still being paid. Either both writes commit or neither does.
// It returns the id of the new shipment, or with AlreadyAssigned the id of the
// shipment the order is already bound to.
func (h BindCarrierCommandHandler) Handle(ctx context.Context, cmd BindCarrierCommand) (kernel.UUID, error) {
	shipmentID, err := h.bind(ctx, cmd)
	if err != nil {
		return boundShipment(err), err
	}
	return shipmentID, nil
}

func (h BindCarrierCommandHandler) bind(ctx context.Context, cmd BindCarrierCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	shipmentRepo := uow.ShipmentRepository()

	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return kernel.UUID{}, err
	}

	s, err := h.binder.Bind(cmd.Actor(), o, cmd.CarrierID(), cmd.ExpectedWeight(), time.Now().UTC())
	if err != nil {
		return kernel.UUID{}, err
	}

	if err = shipmentRepo.Add(ctx, s); err != nil {
		return kernel.UUID{}, err
	}

	if err = orderRepo.Update(ctx, o, order.Paid); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}

	return s.ID(), nil
}

func boundShipment(err error) kernel.UUID {
	var assigned *errs.AlreadyAssignedError
	if !errors.As(err, &assigned) || assigned.ShipmentID == "" {
		return kernel.UUID{}
	}
	id, parseErr := kernel.UUIDFromString(assigned.ShipmentID)
	if parseErr != nil {
		return kernel.UUID{}
	}
	return id
}
