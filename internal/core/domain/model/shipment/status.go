package shipment

import (
	"fmt"
	"strings"

	"supplychain/internal/pkg/errs"
)

// Status represents the lifecycle state of a shipment.
//
//	Pending ──> InTransit ──> Delivered
//
// Delivered is terminal.
type Status int

const (
	Unknown Status = iota
	Pending
	InTransit
	Delivered
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "unknown",
		Pending:   "pending",
		InTransit: "in_transit",
		Delivered: "delivered",
	}
}

// ParseStatus converts a persisted status name into a Status. Older documents
// spell the transit state "in transit"; both spellings are accepted.
func ParseStatus(s string) (Status, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(strings.ToLower(s)), " ", "_")
	for status, name := range getStatusStrings() {
		if status != Unknown && name == normalized {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid shipment status", s))
}

func (s Status) Validate() error {
	if s <= Unknown || s > Delivered {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid shipment status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsActive reports whether telemetry is still expected for the shipment.
func (s Status) IsActive() bool {
	return s == Pending || s == InTransit
}

// Depart transitions Pending to InTransit.
func (s Status) Depart() (Status, error) {
	if s != Pending {
		return Unknown, errs.NewInvalidStateError("shipment", s.String(), "start transit")
	}
	return InTransit, nil
}

// Arrive transitions InTransit to Delivered.
func (s Status) Arrive() (Status, error) {
	if s != InTransit {
		return Unknown, errs.NewInvalidStateError("shipment", s.String(), "deliver")
	}
	return Delivered, nil
}
