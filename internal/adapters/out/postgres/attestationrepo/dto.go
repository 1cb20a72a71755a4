package attestationrepo

import (
	"time"

	"supplychain/internal/adapters/out/postgres/pgtypes"
	"supplychain/internal/core/domain/model/attestation"
	"supplychain/internal/pkg/errs"

	"github.com/google/uuid"
)

// AttestationDTO stores one ledger write per delivered reference.
type AttestationDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Kind        string    `gorm:"size:32;not null"`
	ReferenceID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Payload     string    `gorm:"type:jsonb;not null"`
	Status      string    `gorm:"size:16;index;not null"`
	Receipt     string
	LastError   string
	Attempts    int       `gorm:"not null;default:0"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (AttestationDTO) TableName() string {
	return "attestations"
}

func fromDomain(a *attestation.Attestation) AttestationDTO {
	return AttestationDTO{
		ID:          a.ID().Bytes(),
		Kind:        string(a.Kind()),
		ReferenceID: a.ReferenceID().Bytes(),
		Payload:     string(a.Payload()),
		Status:      string(a.Status()),
		Receipt:     a.Receipt(),
		LastError:   a.LastError(),
		Attempts:    a.Attempts(),
		CreatedAt:   a.CreatedAt(),
		UpdatedAt:   a.UpdatedAt(),
	}
}

func toDomain(dto AttestationDTO) (*attestation.Attestation, error) {
	a, err := restore(dto)
	if err != nil {
		return nil, errs.NewMalformedDocumentError("attestations", dto.ID.String(), err)
	}
	return a, nil
}

func restore(dto AttestationDTO) (*attestation.Attestation, error) {
	id, err := pgtypes.ID(dto.ID)
	if err != nil {
		return nil, err
	}
	referenceID, err := pgtypes.ID(dto.ReferenceID)
	if err != nil {
		return nil, err
	}
	kind, err := attestation.ParseKind(dto.Kind)
	if err != nil {
		return nil, err
	}
	status, err := attestation.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return attestation.RestoreAttestation(id, kind, referenceID, []byte(dto.Payload), status,
		dto.Receipt, dto.LastError, dto.Attempts, dto.CreatedAt, dto.UpdatedAt)
}
