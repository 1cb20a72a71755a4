package commands

import (
	"context"

	"supplychain/internal/core/domain/model/attestation"
	"supplychain/internal/core/domain/model/kernel"
)

// DeliveryAttester emits and retries delivery attestations.
type DeliveryAttester interface {
	Emit(ctx context.Context, kind attestation.Kind, referenceID kernel.UUID, payload []byte) (*attestation.Attestation, error)
	Retry(ctx context.Context, id kernel.UUID) (*attestation.Attestation, error)
}

type RetryAttestationCommandHandler struct {
	attester DeliveryAttester
}

func NewRetryAttestationCommandHandler(attester DeliveryAttester) RetryAttestationCommandHandler {
	return RetryAttestationCommandHandler{
		attester: attester,
	}
}

// Handle returns InvalidState unless the record is failed, and
// AttestationFailed when the new attempt fails as well.
func (h RetryAttestationCommandHandler) Handle(
	ctx context.Context,
	cmd RetryAttestationCommand,
) (*attestation.Attestation, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.attester.Retry(ctx, cmd.AttestationID())
}
