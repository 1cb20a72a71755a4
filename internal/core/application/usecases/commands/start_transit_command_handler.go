package commands

import (
	"context"
	"time"

	"supplychain/internal/core/domain/model/shipment"
)

// OrderSyncer projects a shipment status onto its bound order.
type OrderSyncer interface {
	Handle(ctx context.Context, cmd SyncOrderWithShipmentCommand) (SyncOrderResult, error)
}

// StartTransitResult carries the order projection outcome. The transition is
// committed even when SyncErr is set; the change-feed observer retries it.
type StartTransitResult struct {
	Order   SyncOrderResult
	SyncErr error
}

type StartTransitCommandHandler struct {
	uowFactory UoWFactory
	syncer     OrderSyncer
}

func NewStartTransitCommandHandler(uowFactory UoWFactory, syncer OrderSyncer) StartTransitCommandHandler {
	return StartTransitCommandHandler{
		uowFactory: uowFactory,
		syncer:     syncer,
	}
}

// Handle moves the shipment from pending to in transit with a conditional
// update, then moves the bound order to in transit.
func (h StartTransitCommandHandler) Handle(ctx context.Context, cmd StartTransitCommand) (StartTransitResult, error) {
	if err := cmd.Validate(); err != nil {
		return StartTransitResult{}, err
	}

	if err := h.transit(ctx, cmd); err != nil {
		return StartTransitResult{}, err
	}

	var result StartTransitResult
	syncCmd, err := NewSyncOrderWithShipmentCommand(cmd.ShipmentID())
	if err != nil {
		result.SyncErr = err
		return result, nil
	}
	result.Order, result.SyncErr = h.syncer.Handle(ctx, syncCmd)
	return result, nil
}

func (h StartTransitCommandHandler) transit(ctx context.Context, cmd StartTransitCommand) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.ShipmentRepository()
	s, err := repo.Get(ctx, cmd.ShipmentID())
	if err != nil {
		return err
	}

	if err = s.StartTransit(cmd.Actor(), time.Now().UTC()); err != nil {
		return err
	}

	if err = repo.Update(ctx, s, shipment.Pending); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
