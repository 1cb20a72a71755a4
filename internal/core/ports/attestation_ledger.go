package ports

import "context"

// AttestationLedger is the external append-only delivery log. RecordDelivery
// is called exactly once per attempt and returns the ledger receipt.
type AttestationLedger interface {
	RecordDelivery(ctx context.Context, referenceID string, payload []byte) (receipt string, err error)
}
