package orderrepo

import (
	"context"
	"errors"
	"time"

	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/core/domain/model/order"
	"supplychain/internal/core/domain/model/shipment"
	"supplychain/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
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

// Update writes the aggregate only while the stored status still equals
// expected. When the guard fails the stored row decides the error:
// ObjectNotFound, AlreadyAssigned for a lost bind race, InvalidState otherwise.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order, expected order.Status) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND status = ?", dto.ID, expected.String()).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return r.guardError(ctx, aggregate.ID(), expected)
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormOrderRepository) guardError(ctx context.Context, id kernel.UUID, expected order.Status) error {
	stored, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	if expected == order.Paid && stored.Status() >= order.Assigned {
		carrier, shipmentID := "", ""
		if stored.CarrierID() != nil {
			carrier = stored.CarrierID().String()
		}
		if stored.ShipmentID() != nil {
			shipmentID = stored.ShipmentID().String()
		}
		return errs.NewAlreadyAssignedError(id.String(), carrier).WithShipment(shipmentID)
	}

	return errs.NewInvalidStateError("order", stored.Status().String(), "update from "+expected.String())
}

func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// FindDeliveredForShipment returns delivered orders the shipment accounts for:
// orders linked to it in either direction, and legacy orders without a
// shipment link that match its product, carrier and buyer.
func (r *GormOrderRepository) FindDeliveredForShipment(
	ctx context.Context,
	s *shipment.Shipment,
) ([]*order.Order, error) {
	linked := r.db.Where("shipment_id = ?", s.ID().Bytes()).
		Or("shipment_id IS NULL AND carrier_id = ? AND product_id = ? AND buyer_id = ?",
			s.CarrierID().Bytes(), s.ProductID().Bytes(), s.BuyerID().Bytes())
	if s.OrderID() != nil {
		linked = linked.Or("id = ?", s.OrderID().Bytes())
	}

	var dtos []OrderDTO
	if err := r.db.WithContext(ctx).
		Where("status = ?", order.Delivered.String()).
		Where(linked).
		Order("placed_at").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}

// MarkReconciled sets the reconciled flag on a delivered order. It reports
// false when another delivery event already set it.
func (r *GormOrderRepository) MarkReconciled(ctx context.Context, id kernel.UUID, at time.Time) (bool, error) {
	if err := id.Validate(); err != nil {
		return false, err
	}

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND status = ? AND reconciled = ?", id.Bytes(), order.Delivered.String(), false).
		Updates(map[string]any{"reconciled": true, "reconciled_at": at})
	if result.Error != nil {
		return false, result.Error
	}

	if result.RowsAffected == 0 {
		if _, err := r.Get(ctx, id); err != nil {
			return false, err
		}
		return false, nil
	}

	return true, nil
}
