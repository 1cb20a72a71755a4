// Package orderrepo persists order aggregates. Statuses are stored as their
// names so documents stay readable by other consumers of the table.
package orderrepo

import (
	"fmt"
	"time"

	"supplychain/internal/adapters/out/postgres/pgtypes"
	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/core/domain/model/order"
	"supplychain/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO is the row layout of the orders table.
type OrderDTO struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProductID      uuid.UUID       `gorm:"type:uuid;index;not null"`
	BuyerID        uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProducerID     uuid.UUID       `gorm:"type:uuid;index;not null"`
	CarrierID      *uuid.UUID      `gorm:"type:uuid;index"`
	ShipmentID     *uuid.UUID      `gorm:"type:uuid;index"`
	Quantity       decimal.Decimal `gorm:"type:numeric;not null"`
	Total          decimal.Decimal `gorm:"type:numeric;not null"`
	Status         string          `gorm:"size:32;index;not null"`
	PaymentReceipt string
	PlacedAt       time.Time `gorm:"not null"`
	PaidAt         *time.Time
	AssignedAt     *time.Time
	InTransitAt    *time.Time
	DeliveredAt    *time.Time
	Reconciled     bool `gorm:"not null;default:false"`
	ReconciledAt   *time.Time
}

func (OrderDTO) TableName() string {
	return "orders"
}

func fromDomain(o *order.Order) OrderDTO {
	return OrderDTO{
		ID:             o.ID().Bytes(),
		ProductID:      o.ProductID().Bytes(),
		BuyerID:        o.BuyerID().Bytes(),
		ProducerID:     o.ProducerID().Bytes(),
		CarrierID:      pgtypes.RawID(o.CarrierID()),
		ShipmentID:     pgtypes.RawID(o.ShipmentID()),
		Quantity:       o.Quantity().Decimal(),
		Total:          o.Total().Decimal(),
		Status:         o.Status().String(),
		PaymentReceipt: o.PaymentReceipt(),
		PlacedAt:       o.PlacedAt(),
		PaidAt:         o.PaidAt(),
		AssignedAt:     o.AssignedAt(),
		InTransitAt:    o.InTransitAt(),
		DeliveredAt:    o.DeliveredAt(),
		Reconciled:     o.IsReconciled(),
		ReconciledAt:   o.ReconciledAt(),
	}
}

// toDomain rebuilds the aggregate. A row that cannot be restored, including
// one with an unknown status, is reported as MalformedDocument.
func toDomain(dto OrderDTO) (*order.Order, error) {
	o, err := restore(dto)
	if err != nil {
		return nil, errs.NewMalformedDocumentError("orders", dto.ID.String(), err)
	}
	return o, nil
}

func restore(dto OrderDTO) (*order.Order, error) {
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	quantity, err := kernel.NewQuantity(dto.Quantity)
	if err != nil {
		return nil, err
	}

	total, err := kernel.NewMoney(dto.Total)
	if err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, 4)
	for _, raw := range []uuid.UUID{dto.ID, dto.ProductID, dto.BuyerID, dto.ProducerID} {
		id, err := pgtypes.ID(raw)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	carrierID, err := pgtypes.NullableID(dto.CarrierID)
	if err != nil {
		return nil, fmt.Errorf("carrier_id: %w", err)
	}

	shipmentID, err := pgtypes.NullableID(dto.ShipmentID)
	if err != nil {
		return nil, fmt.Errorf("shipment_id: %w", err)
	}

	return order.RestoreOrder(order.State{
		ID:             ids[0],
		ProductID:      ids[1],
		BuyerID:        ids[2],
		ProducerID:     ids[3],
		CarrierID:      carrierID,
		ShipmentID:     shipmentID,
		Quantity:       quantity,
		Total:          total,
		Status:         status,
		PaymentReceipt: dto.PaymentReceipt,
		PlacedAt:       dto.PlacedAt,
		PaidAt:         dto.PaidAt,
		AssignedAt:     dto.AssignedAt,
		InTransitAt:    dto.InTransitAt,
		DeliveredAt:    dto.DeliveredAt,
		Reconciled:     dto.Reconciled,
		ReconciledAt:   dto.ReconciledAt,
	})
}
