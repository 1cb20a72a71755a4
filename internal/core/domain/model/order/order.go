package order

import (
	"errors"
	"fmt"
	"time"

	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/pkg/errs"
	"supplychain/internal/pkg/guard"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Order is a buyer's purchase of a product. It is the aggregate root that
// moves through payment, carrier binding and delivery.
//
// Order follows these invariants:
//   - quantity is positive and total is unitPrice × quantity
//   - carrierID and shipmentID are set together by Assign and never change afterwards
//   - every transition records its own timestamp
//   - a delivered order only changes its reconciliation bookkeeping
type Order struct {
	id         kernel.UUID
	productID  kernel.UUID
	buyerID    kernel.UUID
	producerID kernel.UUID

	// carrierID and shipmentID are nil until the order is bound.
	carrierID  *kernel.UUID
	shipmentID *kernel.UUID

	quantity kernel.Quantity
	total    kernel.Money
	status   Status

	paymentReceipt string

	placedAt    time.Time
	paidAt      *time.Time
	assignedAt  *time.Time
	inTransitAt *time.Time
	deliveredAt *time.Time

	reconciled   bool
	reconciledAt *time.Time

	guard guard.ConstructorGuard
}

// NewOrder places an order for quantity units of a product at unitPrice.
//
// Example:
//
//	o, err := order.NewOrder(kernel.NewUUID(), productID, buyerID, producerID, qty, price, time.Now())
func NewOrder(
	id kernel.UUID,
	productID kernel.UUID,
	buyerID kernel.UUID,
	producerID kernel.UUID,
	quantity kernel.Quantity,
	unitPrice kernel.Money,
	placedAt time.Time,
) (*Order, error) {
	o := &Order{
		status: Placed,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setParties(productID, buyerID, producerID),
		o.setQuantity(quantity),
		o.setPlacedAt(placedAt),
		unitPrice.Validate(),
	); err != nil {
		return nil, err
	}

	o.total = unitPrice.Times(quantity)
	return o, nil
}

// State is the full persisted state of an Order, used to rebuild it from storage.
type State struct {
	ID             kernel.UUID
	ProductID      kernel.UUID
	BuyerID        kernel.UUID
	ProducerID     kernel.UUID
	CarrierID      *kernel.UUID
	ShipmentID     *kernel.UUID
	Quantity       kernel.Quantity
	Total          kernel.Money
	Status         Status
	PaymentReceipt string
	PlacedAt       time.Time
	PaidAt         *time.Time
	AssignedAt     *time.Time
	InTransitAt    *time.Time
	DeliveredAt    *time.Time
	Reconciled     bool
	ReconciledAt   *time.Time
}

// RestoreOrder reconstructs an Order from persisted state. Besides field
// validation it checks that the binding is consistent with the status.
func RestoreOrder(s State) (*Order, error) {
	o := &Order{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setParties(s.ProductID, s.BuyerID, s.ProducerID),
		o.setQuantity(s.Quantity),
		o.setPlacedAt(s.PlacedAt),
		s.Total.Validate(),
		s.Status.Validate(),
	); err != nil {
		return nil, err
	}

	// Orders bound before shipments carried an explicit link have no shipmentID.
	if (s.Status >= Assigned) != (s.CarrierID != nil) || (s.Status < Assigned && s.ShipmentID != nil) {
		return nil, errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s order has inconsistent carrier binding", s.Status))
	}
	if s.Reconciled && s.Status != Delivered {
		return nil, errs.NewValueIsInvalidErrorWithCause("reconciled",
			fmt.Errorf("%s order cannot be reconciled", s.Status))
	}

	o.carrierID = s.CarrierID
	o.shipmentID = s.ShipmentID
	o.total = s.Total
	o.status = s.Status
	o.paymentReceipt = s.PaymentReceipt
	o.paidAt = s.PaidAt
	o.assignedAt = s.AssignedAt
	o.inTransitAt = s.InTransitAt
	o.deliveredAt = s.DeliveredAt
	o.reconciled = s.Reconciled
	o.reconciledAt = s.ReconciledAt
	return o, nil
}

// Snapshot returns the persisted state of o.
func (o *Order) Snapshot() State {
	return State{
		ID:             o.id,
		ProductID:      o.productID,
		BuyerID:        o.buyerID,
		ProducerID:     o.producerID,
		CarrierID:      o.carrierID,
		ShipmentID:     o.shipmentID,
		Quantity:       o.quantity,
		Total:          o.total,
		Status:         o.status,
		PaymentReceipt: o.paymentReceipt,
		PlacedAt:       o.placedAt,
		PaidAt:         o.paidAt,
		AssignedAt:     o.assignedAt,
		InTransitAt:    o.inTransitAt,
		DeliveredAt:    o.deliveredAt,
		Reconciled:     o.reconciled,
		ReconciledAt:   o.reconciledAt,
	}
}

func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) ProductID() kernel.UUID {
	return o.productID
}

func (o *Order) BuyerID() kernel.UUID {
	return o.buyerID
}

func (o *Order) ProducerID() kernel.UUID {
	return o.producerID
}

func (o *Order) CarrierID() *kernel.UUID {
	return o.carrierID
}

func (o *Order) ShipmentID() *kernel.UUID {
	return o.shipmentID
}

func (o *Order) Quantity() kernel.Quantity {
	return o.quantity
}

func (o *Order) Total() kernel.Money {
	return o.total
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) PaymentReceipt() string {
	return o.paymentReceipt
}

func (o *Order) PlacedAt() time.Time {
	return o.placedAt
}

func (o *Order) PaidAt() *time.Time {
	return o.paidAt
}

func (o *Order) AssignedAt() *time.Time {
	return o.assignedAt
}

func (o *Order) InTransitAt() *time.Time {
	return o.inTransitAt
}

func (o *Order) DeliveredAt() *time.Time {
	return o.deliveredAt
}

func (o *Order) IsReconciled() bool {
	return o.reconciled
}

func (o *Order) ReconciledAt() *time.Time {
	return o.reconciledAt
}

// IsBoundTo reports whether the order was bound to shipmentID by the
// assignment binder.
func (o *Order) IsBoundTo(shipmentID kernel.UUID) bool {
	return o.shipmentID != nil && o.shipmentID.IsEqual(shipmentID)
}

// MarkPaid records a successful payment attestation. A repeated payment
// returns AlreadyPaid and leaves the order untouched.
func (o *Order) MarkPaid(receipt string, at time.Time) error {
	if receipt == "" {
		return errs.NewValueIsRequiredError("receipt")
	}

	newStatus, err := o.status.Pay()
	if errors.Is(err, errs.ErrAlreadyPaid) {
		return errs.NewAlreadyPaidError(o.id.String(), o.status.String())
	}
	if err != nil {
		return err
	}

	o.status = newStatus
	o.paymentReceipt = receipt
	o.paidAt = &at
	return nil
}

// Assign binds the order to a carrier and the shipment created for it.
//
// Business rules:
//   - a placed (unpaid) order yields InvalidState
//   - an order that already has a carrier yields AlreadyAssigned
func (o *Order) Assign(carrierID, shipmentID kernel.UUID, at time.Time) error {
	if err := errors.Join(carrierID.Validate(), shipmentID.Validate()); err != nil {
		return err
	}

	newStatus, err := o.status.Assign()
	if errors.Is(err, errs.ErrAlreadyAssigned) {
		return o.alreadyAssigned()
	}
	if err != nil {
		return err
	}
	if o.carrierID != nil {
		return o.alreadyAssigned()
	}

	o.status = newStatus
	o.carrierID = &carrierID
	o.shipmentID = &shipmentID
	o.assignedAt = &at
	return nil
}

// MarkInTransit mirrors the bound shipment leaving. It reports whether the
// status changed; an order already in transit or delivered is a no-op.
func (o *Order) MarkInTransit(at time.Time) (bool, error) {
	newStatus, err := o.status.Transit()
	if err != nil {
		return false, err
	}
	if newStatus == o.status {
		return false, nil
	}

	o.status = newStatus
	o.inTransitAt = &at
	return true, nil
}

// ConfirmDelivery moves the order to Delivered from either the buyer's
// confirmation or the shipment's delivery. Repeated confirmation is a no-op
// and reports changed == false.
func (o *Order) ConfirmDelivery(at time.Time) (bool, error) {
	newStatus, err := o.status.Deliver()
	if err != nil {
		return false, err
	}
	if o.status == Delivered {
		return false, nil
	}

	o.status = newStatus
	o.deliveredAt = &at
	return true, nil
}

// MarkReconciled records that the order's quantity was applied to the buyer's
// stock. It reports whether the flag changed.
func (o *Order) MarkReconciled(at time.Time) (bool, error) {
	if o.status != Delivered {
		return false, errs.NewInvalidStateError("order", o.status.String(), "reconcile")
	}
	if o.reconciled {
		return false, nil
	}

	o.reconciled = true
	o.reconciledAt = &at
	return true, nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setParties(productID, buyerID, producerID kernel.UUID) error {
	if err := errors.Join(
		requiredID("productID", productID),
		requiredID("buyerID", buyerID),
		requiredID("producerID", producerID),
	); err != nil {
		return err
	}
	o.productID = productID
	o.buyerID = buyerID
	o.producerID = producerID
	return nil
}

func (o *Order) setQuantity(quantity kernel.Quantity) error {
	if err := quantity.Validate(); err != nil {
		return err
	}
	if !quantity.IsPositive() {
		return errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%s is not greater than 0", quantity))
	}
	o.quantity = quantity
	return nil
}

func (o *Order) setPlacedAt(at time.Time) error {
	if at.IsZero() {
		return errs.NewValueIsRequiredError("placedAt")
	}
	o.placedAt = at
	return nil
}

func requiredID(name string, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause(name, err)
	}
	return nil
}

func (o *Order) alreadyAssigned() error {
	carrier, shipmentID := "", ""
	if o.carrierID != nil {
		carrier = o.carrierID.String()
	}
	if o.shipmentID != nil {
		shipmentID = o.shipmentID.String()
	}
	return errs.NewAlreadyAssignedError(o.id.String(), carrier).WithShipment(shipmentID)
}
