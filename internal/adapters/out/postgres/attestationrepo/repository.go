package attestationrepo

import (
	"context"
	"errors"

	"supplychain/internal/core/domain/model/attestation"
	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAttestationRepository implements AttestationRepository using GORM.
type GormAttestationRepository struct {
	db *gorm.DB
}

func NewGormAttestationRepository(db *gorm.DB) *GormAttestationRepository {
	return &GormAttestationRepository{db: db}
}

// Add inserts the record unless one already exists for its reference. It
// reports whether this call inserted it.
func (r *GormAttestationRepository) Add(ctx context.Context, aggregate *attestation.Attestation) (bool, error) {
	if err := aggregate.Validate(); err != nil {
		return false, err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "reference_id"}},
			DoNothing: true,
		}).
		Create(&dto)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

func (r *GormAttestationRepository) Update(
	ctx context.Context,
	aggregate *attestation.Attestation,
	expected attestation.Status,
) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&AttestationDTO{}).
		Where("id = ? AND status = ?", dto.ID, string(expected)).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		stored, err := r.Get(ctx, aggregate.ID())
		if err != nil {
			return err
		}
		return errs.NewInvalidStateError("attestation", string(stored.Status()), "update from "+string(expected))
	}

	return nil
}

func (r *GormAttestationRepository) Get(ctx context.Context, id kernel.UUID) (*attestation.Attestation, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *GormAttestationRepository) GetByReference(
	ctx context.Context,
	referenceID kernel.UUID,
) (*attestation.Attestation, error) {
	return r.first(ctx, "reference_id = ?", referenceID)
}

func (r *GormAttestationRepository) first(
	ctx context.Context,
	condition string,
	id kernel.UUID,
) (*attestation.Attestation, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto AttestationDTO
	if err := r.db.WithContext(ctx).First(&dto, condition, id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("attestation", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
