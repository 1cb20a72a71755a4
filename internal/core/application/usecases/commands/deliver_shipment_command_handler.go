package commands

import (
	"context"
	"time"

	"supplychain/internal/core/domain/model/attestation"
	"supplychain/internal/core/domain/model/shipment"
)

// StockReconciliation reconciles buyer stock for a delivered shipment.
type StockReconciliation interface {
	Handle(ctx context.Context, cmd ReconcileStockCommand) (ReconcileStockResult, error)
}

// DeliverShipmentResult describes the follow-up work of a delivery. The
// delivery itself is committed whenever Handle returns a nil error; the *Err
// fields are warnings that never undo it.
type DeliverShipmentResult struct {
	Order          SyncOrderResult
	Reconciliation ReconcileStockResult
	Attestation    *attestation.Attestation

	SyncErr        error
	ReconcileErr   error
	AttestationErr error
}

type DeliverShipmentCommandHandler struct {
	uowFactory UoWFactory
	syncer     OrderSyncer
	reconciler StockReconciliation
	attester   DeliveryAttester
}

func NewDeliverShipmentCommandHandler(
	uowFactory UoWFactory,
	syncer OrderSyncer,
	reconciler StockReconciliation,
	attester DeliveryAttester,
) DeliverShipmentCommandHandler {
	return DeliverShipmentCommandHandler{
		uowFactory: uowFactory,
		syncer:     syncer,
		reconciler: reconciler,
		attester:   attester,
	}
}

// Handle commits the in transit to delivered transition first. Of several
// concurrent calls exactly one commits; the others get InvalidState. The
// winner then delivers the bound order, reconciles stock and emits the
// shipment delivery attestation, in that order.
func (h DeliverShipmentCommandHandler) Handle(
	ctx context.Context,
	cmd DeliverShipmentCommand,
) (DeliverShipmentResult, error) {
	if err := cmd.Validate(); err != nil {
		return DeliverShipmentResult{}, err
	}

	s, err := h.deliver(ctx, cmd)
	if err != nil {
		return DeliverShipmentResult{}, err
	}

	var result DeliverShipmentResult

	syncCmd, err := NewSyncOrderWithShipmentCommand(s.ID())
	if err == nil {
		result.Order, result.SyncErr = h.syncer.Handle(ctx, syncCmd)
	} else {
		result.SyncErr = err
	}

	reconcileCmd, err := NewReconcileStockCommand(s.ID())
	if err == nil {
		result.Reconciliation, result.ReconcileErr = h.reconciler.Handle(ctx, reconcileCmd)
	} else {
		result.ReconcileErr = err
	}

	payload, err := shipmentPayload(s)
	if err != nil {
		result.AttestationErr = err
		return result, nil
	}
	result.Attestation, result.AttestationErr = h.attester.Emit(ctx, attestation.ShipmentDelivery, s.ID(), payload)

	return result, nil
}

func (h DeliverShipmentCommandHandler) deliver(ctx context.Context, cmd DeliverShipmentCommand) (*shipment.Shipment, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.ShipmentRepository()
	s, err := repo.Get(ctx, cmd.ShipmentID())
	if err != nil {
		return nil, err
	}

	if err = s.Deliver(cmd.Actor(), time.Now().UTC()); err != nil {
		return nil, err
	}

	if err = repo.Update(ctx, s, shipment.InTransit); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return s, nil
}
