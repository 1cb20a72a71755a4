// Package attestation tracks the immutable delivery records written to the
// external ledger. A record exists once per delivered reference; a failed
// ledger call is kept as failed until it is retried by hand.
package attestation

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/pkg/errs"
	"supplychain/internal/pkg/guard"
)

var (
	ErrAttestationIsNotConstructed = errors.New("Attestation must be created via NewAttestation constructor")
	// ErrOutcomeNotStored marks a pending record whose ledger attempt never
	// stored an outcome.
	ErrOutcomeNotStored = errors.New("ledger attempt has no stored outcome")
)

// StalePendingAfter is how long a record may stay pending before its attempt
// is considered interrupted and may be retried by hand.
const StalePendingAfter = 5 * time.Minute

// Kind names what was delivered.
type Kind string

const (
	// ShipmentDelivery is emitted by the carrier path, referenced by shipment id.
	ShipmentDelivery Kind = "shipment_delivery"
	// OrderDelivery is emitted by the buyer path, referenced by order id.
	OrderDelivery Kind = "order_delivery"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case ShipmentDelivery, OrderDelivery:
		return k, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("kind", fmt.Errorf("%q is not an attestation kind", s))
	}
}

type Status string

const (
	Pending  Status = "pending"
	Recorded Status = "recorded"
	Failed   Status = "failed"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case Pending, Recorded, Failed:
		return st, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not an attestation status", s))
	}
}

// Attestation is the local bookkeeping for one ledger write.
type Attestation struct {
	id          kernel.UUID
	kind        Kind
	referenceID kernel.UUID
	payload     json.RawMessage
	status      Status
	receipt     string
	lastError   string
	attempts    int
	createdAt   time.Time
	updatedAt   time.Time
	guard       guard.ConstructorGuard
}

// NewAttestation creates a pending record for referenceID. payload must be a
// JSON object.
func NewAttestation(id kernel.UUID, kind Kind, referenceID kernel.UUID, payload []byte, at time.Time) (*Attestation, error) {
	return RestoreAttestation(id, kind, referenceID, payload, Pending, "", "", 0, at, at)
}

func RestoreAttestation(
	id kernel.UUID,
	kind Kind,
	referenceID kernel.UUID,
	payload []byte,
	status Status,
	receipt string,
	lastError string,
	attempts int,
	createdAt time.Time,
	updatedAt time.Time,
) (*Attestation, error) {
	_, kindErr := ParseKind(string(kind))
	_, statusErr := ParseStatus(string(status))
	if err := errors.Join(id.Validate(), referenceID.Validate(), kindErr, statusErr, validPayload(payload)); err != nil {
		return nil, err
	}
	if attempts < 0 {
		return nil, errs.NewValueIsOutOfRangeError("attempts", attempts, 0, "∞")
	}

	return &Attestation{
		id:          id,
		kind:        kind,
		referenceID: referenceID,
		payload:     append(json.RawMessage(nil), payload...),
		status:      status,
		receipt:     receipt,
		lastError:   lastError,
		attempts:    attempts,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (a *Attestation) Validate() error {
	if a == nil {
		return ErrAttestationIsNotConstructed
	}
	return a.guard.Validate(ErrAttestationIsNotConstructed)
}

func (a *Attestation) ID() kernel.UUID {
	return a.id
}

func (a *Attestation) Kind() Kind {
	return a.kind
}

func (a *Attestation) ReferenceID() kernel.UUID {
	return a.referenceID
}

func (a *Attestation) Payload() json.RawMessage {
	return a.payload
}

func (a *Attestation) Status() Status {
	return a.status
}

func (a *Attestation) Receipt() string {
	return a.receipt
}

func (a *Attestation) LastError() string {
	return a.lastError
}

func (a *Attestation) Attempts() int {
	return a.attempts
}

func (a *Attestation) CreatedAt() time.Time {
	return a.createdAt
}

func (a *Attestation) UpdatedAt() time.Time {
	return a.updatedAt
}

// Record stores the ledger receipt of a pending attempt.
func (a *Attestation) Record(receipt string, at time.Time) error {
	if a.status != Pending {
		return errs.NewInvalidStateError("attestation", string(a.status), "record")
	}
	if receipt == "" {
		return errs.NewValueIsRequiredError("receipt")
	}
	a.status = Recorded
	a.receipt = receipt
	a.lastError = ""
	a.attempts++
	a.updatedAt = at
	return nil
}

// Fail stores the error of a pending attempt.
func (a *Attestation) Fail(cause error, at time.Time) error {
	if a.status != Pending {
		return errs.NewInvalidStateError("attestation", string(a.status), "fail")
	}
	a.status = Failed
	if cause != nil {
		a.lastError = cause.Error()
	}
	a.attempts++
	a.updatedAt = at
	return nil
}

// IsStale reports whether the record is pending since at least
// StalePendingAfter before now.
func (a *Attestation) IsStale(now time.Time) bool {
	return a.status == Pending && now.Sub(a.updatedAt) >= StalePendingAfter
}

// Interrupt fails a stale pending record so it can be retried. The ledger may
// or may not have received the interrupted attempt.
func (a *Attestation) Interrupt(at time.Time) error {
	if !a.IsStale(at) {
		return errs.NewInvalidStateError("attestation", string(a.status), "interrupt")
	}
	return a.Fail(ErrOutcomeNotStored, at)
}

// Retry returns a failed record to pending so exactly one more ledger call
// can be made for it.
func (a *Attestation) Retry(at time.Time) error {
	if a.status != Failed {
		return errs.NewInvalidStateError("attestation", string(a.status), "retry")
	}
	a.status = Pending
	a.updatedAt = at
	return nil
}

func validPayload(payload []byte) error {
	var object map[string]any
	if err := json.Unmarshal(payload, &object); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("payload", err)
	}
	if object == nil {
		return errs.NewValueIsInvalidErrorWithCause("payload", errors.New("payload must be a JSON object"))
	}
	return nil
}
