package ports

import (
	"context"

	"supplychain/internal/core/domain/model/attestation"
	"supplychain/internal/core/domain/model/kernel"
)

// AttestationRepository stores one attestation record per delivered reference.
type AttestationRepository interface {
	// Add inserts the record unless one already exists for its reference and
	// reports whether it was inserted.
	Add(ctx context.Context, aggregate *attestation.Attestation) (bool, error)

	// Update writes the record guarded on the stored status still being expected.
	Update(ctx context.Context, aggregate *attestation.Attestation, expected attestation.Status) error

	Get(ctx context.Context, id kernel.UUID) (*attestation.Attestation, error)
	GetByReference(ctx context.Context, referenceID kernel.UUID) (*attestation.Attestation, error)
}
