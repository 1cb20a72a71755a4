package shipmentrepo

import (
	"context"
	"errors"

	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/core/domain/model/order"
	"supplychain/internal/core/domain/model/shipment"
	"supplychain/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormShipmentRepository implements ShipmentRepository using GORM.
type GormShipmentRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormShipmentRepository(db *gorm.DB, tracker aggregateTracker) *GormShipmentRepository {
	return &GormShipmentRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormShipmentRepository) Add(ctx context.Context, aggregate *shipment.Shipment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes the aggregate only while the stored status equals expected.
// Legacy rows spelling the transit status "in transit" satisfy InTransit.
func (r *GormShipmentRepository) Update(
	ctx context.Context,
	aggregate *shipment.Shipment,
	expected shipment.Status,
) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	spellings := []string{expected.String()}
	if expected == shipment.InTransit {
		spellings = append(spellings, legacyInTransit)
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&ShipmentDTO{}).
		Where("id = ? AND status IN ?", dto.ID, spellings).
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
		return errs.NewInvalidStateError("shipment", stored.Status().String(), "update from "+expected.String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

const legacyInTransit = "in transit"

func (r *GormShipmentRepository) Get(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ShipmentDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("shipment", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// FindBoundToOrder returns every shipment that claims o: by its order link,
// by the order's shipment link, or for legacy orders with neither link, by
// carrier, product and buyer.
func (r *GormShipmentRepository) FindBoundToOrder(ctx context.Context, o *order.Order) ([]*shipment.Shipment, error) {
	claims := r.db.Where("order_id = ?", o.ID().Bytes())
	if o.ShipmentID() != nil {
		claims = claims.Or("id = ?", o.ShipmentID().Bytes())
	} else if o.CarrierID() != nil {
		claims = claims.Or("order_id IS NULL AND carrier_id = ? AND product_id = ? AND buyer_id = ?",
			o.CarrierID().Bytes(), o.ProductID().Bytes(), o.BuyerID().Bytes())
	}

	var dtos []ShipmentDTO
	if err := r.db.WithContext(ctx).Where(claims).Order("created_at").Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// ListActive returns shipments that are pending or in transit.
func (r *GormShipmentRepository) ListActive(ctx context.Context) ([]*shipment.Shipment, error) {
	active := []string{shipment.Pending.String(), shipment.InTransit.String(), legacyInTransit}

	var dtos []ShipmentDTO
	if err := r.db.WithContext(ctx).Where("status IN ?", active).Order("created_at").Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

func toDomainSlice(dtos []ShipmentDTO) ([]*shipment.Shipment, error) {
	shipments := make([]*shipment.Shipment, 0, len(dtos))
	for _, dto := range dtos {
		s, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		shipments = append(shipments, s)
	}
	return shipments, nil
}
