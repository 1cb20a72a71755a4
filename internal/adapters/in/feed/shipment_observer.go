// Package feed reacts to committed shipment writes observed on the change
// feed. It repeats the order sync and stock reconciliation that the
// transition commands run inline, so a crash between commit and follow-up
// work is repaired by the next event.
package feed

import (
	"context"
	"errors"
	"log/slog"

	"supplychain/internal/core/application/usecases/commands"
	"supplychain/internal/core/domain/model/shipment"
	"supplychain/internal/core/ports"
	"supplychain/internal/pkg/errs"
	"supplychain/internal/pkg/metrics"
)

var ErrSubscriptionClosed = errors.New("change feed subscription closed")

type ShipmentObserver struct {
	feed       ports.ChangeFeed
	syncer     commands.OrderSyncer
	reconciler commands.StockReconciliation
	logger     *slog.Logger
	metrics    *metrics.DomainMetrics
}

func NewShipmentObserver(
	feed ports.ChangeFeed,
	syncer commands.OrderSyncer,
	reconciler commands.StockReconciliation,
	logger *slog.Logger,
	domainMetrics *metrics.DomainMetrics,
) *ShipmentObserver {
	return &ShipmentObserver{
		feed:       feed,
		syncer:     syncer,
		reconciler: reconciler,
		logger:     logger.With("component", "shipment_observer"),
		metrics:    domainMetrics,
	}
}

// Run consumes shipment changes until ctx is done. It returns
// ErrSubscriptionClosed if the feed ends the subscription first.
func (o *ShipmentObserver) Run(ctx context.Context) error {
	sub, err := o.feed.Subscribe(ctx, ports.ChangeQuery{Collection: ports.ShipmentsCollection})
	if err != nil {
		return err
	}
	defer sub.Close()

	o.logger.InfoContext(ctx, "Shipment observer started")
	for {
		select {
		case <-ctx.Done():
			return nil
		case change, ok := <-sub.Changes():
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return ErrSubscriptionClosed
			}
			if err := o.Handle(ctx, change); err != nil {
				o.metrics.IncChange(change.Collection, metrics.OutcomeFailure)
				continue
			}
			o.metrics.IncChange(change.Collection, metrics.OutcomeSuccess)
		}
	}
}

// Handle applies one change. Every failure is logged here.
func (o *ShipmentObserver) Handle(ctx context.Context, change ports.Change) error {
	status, err := shipment.ParseStatus(change.Status)
	if err != nil {
		o.logger.ErrorContext(ctx, "Dropping shipment change", "shipment_id", change.ID.String(), "error", err)
		return err
	}

	logger := o.logger.With("shipment_id", change.ID.String(), "status", status.String())

	switch status {
	case shipment.InTransit:
		return o.sync(ctx, logger, change)
	case shipment.Delivered:
		syncErr := o.sync(ctx, logger, change)
		return errors.Join(syncErr, o.reconcile(ctx, logger, change))
	default:
		return nil
	}
}

func (o *ShipmentObserver) sync(ctx context.Context, logger *slog.Logger, change ports.Change) error {
	cmd, err := commands.NewSyncOrderWithShipmentCommand(change.ID)
	if err != nil {
		return err
	}

	result, err := o.syncer.Handle(ctx, cmd)
	if err != nil {
		logger.ErrorContext(ctx, "Order sync failed", "error", err)
		return err
	}
	if result.Changed && result.OrderID != nil {
		logger.InfoContext(ctx, "Order synced with shipment",
			"order_id", result.OrderID.String(), "order_status", result.Status.String())
	}
	return nil
}

func (o *ShipmentObserver) reconcile(ctx context.Context, logger *slog.Logger, change ports.Change) error {
	cmd, err := commands.NewReconcileStockCommand(change.ID)
	if err != nil {
		return err
	}

	result, err := o.reconciler.Handle(ctx, cmd)
	for _, item := range result.Orders {
		switch {
		case item.Err != nil:
			o.metrics.IncReconciliation(metrics.OutcomeFailure)
			var ambiguous *errs.AmbiguousBindingError
			if errors.As(item.Err, &ambiguous) {
				logger.ErrorContext(ctx, "Ambiguous shipment binding, reconciliation halted for order",
					"order_id", ambiguous.OrderID, "bound_shipment_ids", ambiguous.ShipmentIDs)
				continue
			}
			logger.ErrorContext(ctx, "Order reconciliation failed", "order_id", item.OrderID.String(), "error", item.Err)
		case item.Skipped:
			o.metrics.IncReconciliation(metrics.OutcomeSkipped)
		default:
			o.metrics.IncReconciliation(metrics.OutcomeSuccess)
			logger.InfoContext(ctx, "Stock reconciled",
				"order_id", item.OrderID.String(), "outcome", string(item.Outcome))
		}
	}

	if err != nil && len(result.Orders) == 0 {
		logger.ErrorContext(ctx, "Stock reconciliation failed", "error", err)
	}
	return err
}
