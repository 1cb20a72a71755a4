package errs

import (
	"errors"
	"fmt"
)

// Lifecycle and data-integrity error kinds shared by the order, shipment,
// stock and attestation flows.
var (
	ErrInvalidState      = errors.New("invalid state")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrAlreadyAssigned   = errors.New("already assigned")
	ErrAlreadyPaid       = errors.New("already paid")
	ErrAttestationFailed = errors.New("attestation failed")
	ErrAmbiguousBinding  = errors.New("ambiguous binding")
	ErrMalformedDocument = errors.New("malformed document")
)

// InvalidStateError is returned when a transition is requested from a state
// that does not allow it.
type InvalidStateError struct {
	Entity string
	State  string
	Action string
	Cause  error
}

func NewInvalidStateError(entity, state, action string) *InvalidStateError {
	return &InvalidStateError{
		Entity: entity,
		State:  state,
		Action: action,
	}
}

func NewInvalidStateErrorWithCause(entity, state, action string, cause error) *InvalidStateError {
	return &InvalidStateError{
		Entity: entity,
		State:  state,
		Action: action,
		Cause:  cause,
	}
}

func (e *InvalidStateError) Error() string {
	msg := fmt.Sprintf("%s: %s in state %s cannot %s", ErrInvalidState, e.Entity, e.State, e.Action)
	if e.Cause != nil {
		return fmt.Sprintf("%s (cause: %v)", msg, e.Cause)
	}
	return msg
}

func (e *InvalidStateError) Unwrap() error {
	return ErrInvalidState
}

// UnauthorizedError is returned when the calling actor may not perform an action.
type UnauthorizedError struct {
	Actor  string
	Action string
}

func NewUnauthorizedError(actor, action string) *UnauthorizedError {
	return &UnauthorizedError{
		Actor:  actor,
		Action: action,
	}
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("%s: %s cannot %s", ErrUnauthorized, e.Actor, e.Action)
}

func (e *UnauthorizedError) Unwrap() error {
	return ErrUnauthorized
}

// AlreadyAssignedError marks a bind request against an order that already has a carrier.
// Callers treat it as a no-op with a distinct outcome.
type AlreadyAssignedError struct {
	OrderID    string
	CarrierID  string
	ShipmentID string
}

func NewAlreadyAssignedError(orderID, carrierID string) *AlreadyAssignedError {
	return &AlreadyAssignedError{
		OrderID:   orderID,
		CarrierID: carrierID,
	}
}

// WithShipment records the shipment the order is already bound to.
func (e *AlreadyAssignedError) WithShipment(shipmentID string) *AlreadyAssignedError {
	e.ShipmentID = shipmentID
	return e
}

func (e *AlreadyAssignedError) Error() string {
	if e.CarrierID == "" {
		return fmt.Sprintf("%s: order %s", ErrAlreadyAssigned, e.OrderID)
	}
	return fmt.Sprintf("%s: order %s is bound to carrier %s", ErrAlreadyAssigned, e.OrderID, e.CarrierID)
}

func (e *AlreadyAssignedError) Unwrap() error {
	return ErrAlreadyAssigned
}

// AlreadyPaidError marks a repeated payment. Callers treat it as a no-op with a
// distinct outcome.
type AlreadyPaidError struct {
	OrderID string
	Status  string
}

func NewAlreadyPaidError(orderID, status string) *AlreadyPaidError {
	return &AlreadyPaidError{
		OrderID: orderID,
		Status:  status,
	}
}

func (e *AlreadyPaidError) Error() string {
	return fmt.Sprintf("%s: order %s is %s", ErrAlreadyPaid, e.OrderID, e.Status)
}

func (e *AlreadyPaidError) Unwrap() error {
	return ErrAlreadyPaid
}

// AttestationFailedError reports a rejected or failed ledger call. The delivery
// it attests is already committed.
type AttestationFailedError struct {
	AttestationID string
	ReferenceID   string
	Cause         error
}

func NewAttestationFailedError(attestationID, referenceID string, cause error) *AttestationFailedError {
	return &AttestationFailedError{
		AttestationID: attestationID,
		ReferenceID:   referenceID,
		Cause:         cause,
	}
}

func (e *AttestationFailedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: reference %s (cause: %v)", ErrAttestationFailed, e.ReferenceID, e.Cause)
	}
	return fmt.Sprintf("%s: reference %s", ErrAttestationFailed, e.ReferenceID)
}

func (e *AttestationFailedError) Unwrap() error {
	return ErrAttestationFailed
}

// AmbiguousBindingError reports an order that is not matched by exactly one shipment.
type AmbiguousBindingError struct {
	OrderID     string
	ShipmentIDs []string
}

func NewAmbiguousBindingError(orderID string, shipmentIDs []string) *AmbiguousBindingError {
	return &AmbiguousBindingError{
		OrderID:     orderID,
		ShipmentIDs: shipmentIDs,
	}
}

func (e *AmbiguousBindingError) Error() string {
	return fmt.Sprintf("%s: order %s matches %d shipments %v",
		ErrAmbiguousBinding, e.OrderID, len(e.ShipmentIDs), e.ShipmentIDs)
}

func (e *AmbiguousBindingError) Unwrap() error {
	return ErrAmbiguousBinding
}

// MalformedDocumentError is returned when a stored or received document cannot
// be parsed into its entity.
type MalformedDocumentError struct {
	Collection string
	ID         string
	Cause      error
}

func NewMalformedDocumentError(collection, id string, cause error) *MalformedDocumentError {
	return &MalformedDocumentError{
		Collection: collection,
		ID:         id,
		Cause:      cause,
	}
}

func (e *MalformedDocumentError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s/%s (cause: %v)", ErrMalformedDocument, e.Collection, e.ID, e.Cause)
	}
	return fmt.Sprintf("%s: %s/%s", ErrMalformedDocument, e.Collection, e.ID)
}

func (e *MalformedDocumentError) Unwrap() error {
	return ErrMalformedDocument
}
