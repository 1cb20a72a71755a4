package shipment

import (
	"errors"
	"fmt"
	"time"

	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/pkg/errs"
	"supplychain/internal/pkg/guard"
)

var ErrShipmentIsNotConstructed = errors.New("Shipment must be created via NewShipment constructor")

// Shipment is the physical transfer of an order's goods by a carrier. It is
// created pending by the assignment binder and driven to delivered by the
// bound carrier only.
type Shipment struct {
	id kernel.UUID

	// orderID is nil only for shipments written before the explicit link existed.
	orderID *kernel.UUID

	carrierID kernel.UUID
	productID kernel.UUID
	buyerID   kernel.UUID

	// expectedWeight is the cargo weight telemetry is compared against, if known.
	expectedWeight *float64

	status      Status
	createdAt   time.Time
	inTransitAt *time.Time
	deliveredAt *time.Time

	guard guard.ConstructorGuard
}

// NewShipment creates a pending shipment bound to orderID.
func NewShipment(
	id kernel.UUID,
	orderID kernel.UUID,
	carrierID kernel.UUID,
	productID kernel.UUID,
	buyerID kernel.UUID,
	expectedWeight *float64,
	createdAt time.Time,
) (*Shipment, error) {
	s := &Shipment{
		status: Pending,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		s.setID(id),
		s.setOrderID(&orderID),
		s.setParties(carrierID, productID, buyerID),
		s.setExpectedWeight(expectedWeight),
		s.setCreatedAt(createdAt),
	); err != nil {
		return nil, err
	}

	return s, nil
}

// State is the full persisted state of a Shipment.
type State struct {
	ID             kernel.UUID
	OrderID        *kernel.UUID
	CarrierID      kernel.UUID
	ProductID      kernel.UUID
	BuyerID        kernel.UUID
	ExpectedWeight *float64
	Status         Status
	CreatedAt      time.Time
	InTransitAt    *time.Time
	DeliveredAt    *time.Time
}

// RestoreShipment reconstructs a Shipment from persisted state.
func RestoreShipment(st State) (*Shipment, error) {
	s := &Shipment{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		s.setID(st.ID),
		s.setOrderID(st.OrderID),
		s.setParties(st.CarrierID, st.ProductID, st.BuyerID),
		s.setExpectedWeight(st.ExpectedWeight),
		s.setCreatedAt(st.CreatedAt),
		st.Status.Validate(),
	); err != nil {
		return nil, err
	}

	s.status = st.Status
	s.inTransitAt = st.InTransitAt
	s.deliveredAt = st.DeliveredAt
	return s, nil
}

// Snapshot returns the persisted state of s.
func (s *Shipment) Snapshot() State {
	return State{
		ID:             s.id,
		OrderID:        s.orderID,
		CarrierID:      s.carrierID,
		ProductID:      s.productID,
		BuyerID:        s.buyerID,
		ExpectedWeight: s.expectedWeight,
		Status:         s.status,
		CreatedAt:      s.createdAt,
		InTransitAt:    s.inTransitAt,
		DeliveredAt:    s.deliveredAt,
	}
}

func (s *Shipment) Validate() error {
	if s == nil {
		return ErrShipmentIsNotConstructed
	}
	return s.guard.Validate(ErrShipmentIsNotConstructed)
}

func (s *Shipment) IsEqual(other *Shipment) bool {
	return other != nil && s.id.IsEqual(other.id)
}

func (s *Shipment) ID() kernel.UUID {
	return s.id
}

func (s *Shipment) OrderID() *kernel.UUID {
	return s.orderID
}

func (s *Shipment) CarrierID() kernel.UUID {
	return s.carrierID
}

func (s *Shipment) ProductID() kernel.UUID {
	return s.productID
}

func (s *Shipment) BuyerID() kernel.UUID {
	return s.buyerID
}

func (s *Shipment) ExpectedWeight() *float64 {
	return s.expectedWeight
}

func (s *Shipment) Status() Status {
	return s.status
}

func (s *Shipment) CreatedAt() time.Time {
	return s.createdAt
}

func (s *Shipment) InTransitAt() *time.Time {
	return s.inTransitAt
}

func (s *Shipment) DeliveredAt() *time.Time {
	return s.deliveredAt
}

func (s *Shipment) IsActive() bool {
	return s.status.IsActive()
}

// Matches reports whether the shipment carries the given product for the
// given carrier. Orders without an explicit shipment link are matched this way.
func (s *Shipment) Matches(productID, carrierID kernel.UUID) bool {
	return s.productID.IsEqual(productID) && s.carrierID.IsEqual(carrierID)
}

// Authorize returns Unauthorized unless actor is the carrier bound to the shipment.
func (s *Shipment) Authorize(actor kernel.Actor, action string) error {
	if !actor.Is(s.carrierID, kernel.RoleCarrier) {
		return errs.NewUnauthorizedError(actor.String(), fmt.Sprintf("%s shipment %s", action, s.id))
	}
	return nil
}

// StartTransit moves a pending shipment in transit on behalf of its carrier.
func (s *Shipment) StartTransit(actor kernel.Actor, at time.Time) error {
	if err := s.Authorize(actor, "start transit of"); err != nil {
		return err
	}

	newStatus, err := s.status.Depart()
	if err != nil {
		return err
	}

	s.status = newStatus
	s.inTransitAt = &at
	return nil
}

// Deliver marks an in-transit shipment delivered on behalf of its carrier.
func (s *Shipment) Deliver(actor kernel.Actor, at time.Time) error {
	if err := s.Authorize(actor, "deliver"); err != nil {
		return err
	}

	newStatus, err := s.status.Arrive()
	if err != nil {
		return err
	}

	s.status = newStatus
	s.deliveredAt = &at
	return nil
}

func (s *Shipment) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	s.id = id
	return nil
}

func (s *Shipment) setOrderID(orderID *kernel.UUID) error {
	if orderID == nil {
		s.orderID = nil
		return nil
	}
	if err := orderID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("orderID", err)
	}
	id := *orderID
	s.orderID = &id
	return nil
}

func (s *Shipment) setParties(carrierID, productID, buyerID kernel.UUID) error {
	var joined error
	for name, id := range map[string]kernel.UUID{
		"carrierID": carrierID,
		"productID": productID,
		"buyerID":   buyerID,
	} {
		if err := id.Validate(); err != nil {
			joined = errors.Join(joined, errs.NewValueIsRequiredErrorWithCause(name, err))
		}
	}
	if joined != nil {
		return joined
	}

	s.carrierID = carrierID
	s.productID = productID
	s.buyerID = buyerID
	return nil
}

func (s *Shipment) setExpectedWeight(weight *float64) error {
	if weight == nil {
		s.expectedWeight = nil
		return nil
	}
	if *weight <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("expectedWeight", fmt.Errorf("%v is not greater than 0", *weight))
	}
	w := *weight
	s.expectedWeight = &w
	return nil
}

func (s *Shipment) setCreatedAt(at time.Time) error {
	if at.IsZero() {
		return errs.NewValueIsRequiredError("createdAt")
	}
	s.createdAt = at
	return nil
}
