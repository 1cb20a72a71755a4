package order

import (
	"fmt"

	"supplychain/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// State transitions:
//
//	Placed ──> Paid ──> Assigned ──> InTransit ──> Delivered
//	                        │                         ▲
//	                        └─────────────────────────┘
//	                    (direct delivery confirmation)
//
// Statuses are ordered, so "paid or later" is s >= Paid.
type Status int

const (
	// Unknown helps catch uninitialized Status values.
	Unknown Status = iota
	Placed
	Paid
	Assigned
	InTransit
	Delivered
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "unknown",
		Placed:    "placed",
		Paid:      "paid",
		Assigned:  "assigned",
		InTransit: "in_transit",
		Delivered: "delivered",
	}
}

// ParseStatus converts a persisted status name back into a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if status != Unknown && name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid order status", s))
}

// Validate reports Unknown and out-of-range values as invalid.
func (s Status) Validate() error {
	if s <= Unknown || s > Delivered {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid order status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Pay transitions Placed to Paid. Any later status means the payment was
// already recorded and yields AlreadyPaid.
func (s Status) Pay() (Status, error) {
	switch {
	case s == Placed:
		return Paid, nil
	case s >= Paid && s <= Delivered:
		return s, errs.ErrAlreadyPaid
	default:
		return Unknown, errs.NewInvalidStateError("order", s.String(), "pay")
	}
}

// Assign transitions Paid to Assigned.
func (s Status) Assign() (Status, error) {
	switch {
	case s == Paid:
		return Assigned, nil
	case s >= Assigned && s <= Delivered:
		return s, errs.ErrAlreadyAssigned
	default:
		return Unknown, errs.NewInvalidStateError("order", s.String(), "assign")
	}
}

// Transit projects the bound shipment's departure. InTransit and Delivered are
// returned unchanged.
func (s Status) Transit() (Status, error) {
	switch s {
	case Assigned:
		return InTransit, nil
	case InTransit, Delivered:
		return s, nil
	default:
		return Unknown, errs.NewInvalidStateError("order", s.String(), "move to in_transit")
	}
}

// Deliver transitions Assigned or InTransit to Delivered. Delivered is returned
// unchanged.
func (s Status) Deliver() (Status, error) {
	switch s {
	case Assigned, InTransit, Delivered:
		return Delivered, nil
	default:
		return Unknown, errs.NewInvalidStateError("order", s.String(), "confirm delivery")
	}
}
