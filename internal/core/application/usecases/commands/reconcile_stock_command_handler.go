package commands

import (
	"context"
	"errors"
	"time"

	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/core/domain/model/shipment"
	"supplychain/internal/core/domain/model/stock"
	"supplychain/internal/core/domain/services"
	"supplychain/internal/pkg/errs"
)

// OrderReconciliation is the outcome for one candidate order. Skipped is set
// when the order had already been reconciled by an earlier delivery event.
type OrderReconciliation struct {
	OrderID kernel.UUID
	Outcome stock.Outcome
	Skipped bool
	Err     error
}

type ReconcileStockResult struct {
	ShipmentID kernel.UUID
	Orders     []OrderReconciliation
}

// ReconcileStockCommandHandler derives buyer stock from a delivered shipment.
type ReconcileStockCommandHandler struct {
	uowFactory UoWFactory
	reconciler services.StockReconciler
}

func NewReconcileStockCommandHandler(uowFactory UoWFactory) ReconcileStockCommandHandler {
	return ReconcileStockCommandHandler{
		uowFactory: uowFactory,
		reconciler: services.NewStockReconciler(),
	}
}

// Handle reconciles every delivered order the shipment accounts for.
//
// Business rules:
//   - the shipment must be delivered (InvalidState otherwise)
//   - an order claimed by zero or several shipments halts with AmbiguousBinding;
//     the other orders still reconcile and the returned error joins the
//     per-order failures
//   - stock is raised to max(current, order quantity), so repeated runs are no-ops
//   - the order's reconciled flag is set with a compare-and-set
func (h ReconcileStockCommandHandler) Handle(
	ctx context.Context,
	cmd ReconcileStockCommand,
) (ReconcileStockResult, error) {
	if err := cmd.Validate(); err != nil {
		return ReconcileStockResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ReconcileStockResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	shipmentRepo := uow.ShipmentRepository()
	stockRepo := uow.StockRepository()

	s, err := shipmentRepo.Get(ctx, cmd.ShipmentID())
	if err != nil {
		return ReconcileStockResult{}, err
	}
	if s.Status() != shipment.Delivered {
		return ReconcileStockResult{}, errs.NewInvalidStateError("shipment", s.Status().String(), "reconcile stock")
	}

	delivered, err := orderRepo.FindDeliveredForShipment(ctx, s)
	if err != nil {
		return ReconcileStockResult{}, err
	}

	now := time.Now().UTC()
	result := ReconcileStockResult{ShipmentID: s.ID()}
	var orderErrs []error

	for _, o := range h.reconciler.Candidates(s, delivered) {
		item := OrderReconciliation{OrderID: o.ID(), Outcome: stock.Unchanged}

		if o.IsReconciled() {
			item.Skipped = true
			result.Orders = append(result.Orders, item)
			continue
		}

		bound, err := shipmentRepo.FindBoundToOrder(ctx, o)
		if err != nil {
			return ReconcileStockResult{}, err
		}
		if err = h.reconciler.CheckBinding(o, bound); err != nil {
			item.Err = err
			orderErrs = append(orderErrs, err)
			result.Orders = append(result.Orders, item)
			continue
		}

		existing, err := stockRepo.Get(ctx, o.BuyerID(), o.ProductID())
		if errors.Is(err, errs.ErrObjectNotFound) {
			existing = nil
		} else if err != nil {
			return ReconcileStockResult{}, err
		}

		entry, outcome, err := h.reconciler.Apply(o, existing, kernel.NewUUID(), now)
		if err != nil {
			return ReconcileStockResult{}, err
		}

		if outcome != stock.Unchanged {
			if err = stockRepo.Upsert(ctx, entry); err != nil {
				return ReconcileStockResult{}, err
			}
		}

		marked, err := orderRepo.MarkReconciled(ctx, o.ID(), now)
		if err != nil {
			return ReconcileStockResult{}, err
		}

		item.Outcome = outcome
		item.Skipped = !marked
		result.Orders = append(result.Orders, item)
	}

	if err = uow.Commit(ctx); err != nil {
		return ReconcileStockResult{}, err
	}

	return result, errors.Join(orderErrs...)
}
