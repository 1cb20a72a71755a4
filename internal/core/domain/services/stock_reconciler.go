package services

import (
	"time"

	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/core/domain/model/order"
	"supplychain/internal/core/domain/model/shipment"
	"supplychain/internal/core/domain/model/stock"
	"supplychain/internal/pkg/errs"
)

// StockReconciler derives buyer stock from delivered orders.
//
// The stock entry of (buyer, product) is only ever set to
// max(current, order.quantity). Running reconciliation again for the same
// delivery, or from several observers at once, leaves the entry unchanged.
type StockReconciler struct{}

func NewStockReconciler() StockReconciler {
	return StockReconciler{}
}

// Candidates selects the delivered orders a shipment delivery reconciles.
// Orders bound to the shipment by id are taken first; orders without a
// shipment link are matched on product, carrier and buyer.
func (StockReconciler) Candidates(s *shipment.Shipment, orders []*order.Order) []*order.Order {
	result := make([]*order.Order, 0, len(orders))
	seen := make(map[kernel.UUID]struct{}, len(orders))

	for _, o := range orders {
		if o.Status() != order.Delivered {
			continue
		}
		if _, ok := seen[o.ID()]; ok {
			continue
		}

		linked := o.IsBoundTo(s.ID()) || (s.OrderID() != nil && s.OrderID().IsEqual(o.ID()))
		legacy := o.ShipmentID() == nil && matchesLegacy(s, o)
		if linked || legacy {
			seen[o.ID()] = struct{}{}
			result = append(result, o)
		}
	}

	return result
}

// CheckBinding returns AmbiguousBinding unless exactly one of shipments is
// bound to o. shipments are the candidates the store returned for o.
func (StockReconciler) CheckBinding(o *order.Order, shipments []*shipment.Shipment) error {
	bound := make([]string, 0, len(shipments))
	seen := make(map[kernel.UUID]struct{}, len(shipments))

	for _, s := range shipments {
		if _, ok := seen[s.ID()]; ok {
			continue
		}
		if isBound(o, s) {
			seen[s.ID()] = struct{}{}
			bound = append(bound, s.ID().String())
		}
	}

	if len(bound) != 1 {
		return errs.NewAmbiguousBindingError(o.ID().String(), bound)
	}
	return nil
}

// Apply reconciles one order into its buyer's stock. existing is the current
// entry for (buyer, product) or nil; a new entry is created with newID.
func (StockReconciler) Apply(
	o *order.Order,
	existing *stock.Entry,
	newID kernel.UUID,
	now time.Time,
) (*stock.Entry, stock.Outcome, error) {
	if o.Status() != order.Delivered {
		return nil, stock.Unchanged, errs.NewInvalidStateError("order", o.Status().String(), "reconcile into stock")
	}

	if existing == nil {
		entry, err := stock.NewEntry(newID, o.BuyerID(), o.ProductID(), o.Quantity(), now)
		if err != nil {
			return nil, stock.Unchanged, err
		}
		return entry, stock.Created, nil
	}

	if !existing.BuyerID().IsEqual(o.BuyerID()) || !existing.ProductID().IsEqual(o.ProductID()) {
		return nil, stock.Unchanged, errs.NewValueIsInvalidError("stock entry does not belong to the order's buyer and product")
	}

	return existing, existing.Raise(o.Quantity(), now), nil
}

func isBound(o *order.Order, s *shipment.Shipment) bool {
	if o.IsBoundTo(s.ID()) {
		return true
	}
	if s.OrderID() != nil {
		return s.OrderID().IsEqual(o.ID())
	}
	return o.ShipmentID() == nil && matchesLegacy(s, o)
}

func matchesLegacy(s *shipment.Shipment, o *order.Order) bool {
	carrierID := o.CarrierID()
	return carrierID != nil && s.Matches(o.ProductID(), *carrierID) && s.BuyerID().IsEqual(o.BuyerID())
}
