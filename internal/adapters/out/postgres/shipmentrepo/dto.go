package shipmentrepo

import (
	"fmt"
	"time"

	"supplychain/internal/adapters/out/postgres/pgtypes"
	"supplychain/internal/core/domain/model/shipment"
	"supplychain/internal/pkg/errs"

	"github.com/google/uuid"
)

type ShipmentDTO struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID        *uuid.UUID `gorm:"type:uuid;index"`
	CarrierID      uuid.UUID  `gorm:"type:uuid;index;not null"`
	ProductID      uuid.UUID  `gorm:"type:uuid;index;not null"`
	BuyerID        uuid.UUID  `gorm:"type:uuid;index;not null"`
	ExpectedWeight *float64
	Status         string    `gorm:"size:32;index;not null"`
	CreatedAt      time.Time `gorm:"not null"`
	InTransitAt    *time.Time
	DeliveredAt    *time.Time
}

func (ShipmentDTO) TableName() string {
	return "shipments"
}

func fromDomain(s *shipment.Shipment) ShipmentDTO {
	return ShipmentDTO{
		ID:             s.ID().Bytes(),
		OrderID:        pgtypes.RawID(s.OrderID()),
		CarrierID:      s.CarrierID().Bytes(),
		ProductID:      s.ProductID().Bytes(),
		BuyerID:        s.BuyerID().Bytes(),
		ExpectedWeight: s.ExpectedWeight(),
		Status:         s.Status().String(),
		CreatedAt:      s.CreatedAt(),
		InTransitAt:    s.InTransitAt(),
		DeliveredAt:    s.DeliveredAt(),
	}
}

func toDomain(dto ShipmentDTO) (*shipment.Shipment, error) {
	s, err := restore(dto)
	if err != nil {
		return nil, errs.NewMalformedDocumentError("shipments", dto.ID.String(), err)
	}
	return s, nil
}

func restore(dto ShipmentDTO) (*shipment.Shipment, error) {
	// Legacy rows spell the transit status "in transit"; ParseStatus accepts both.
	status, err := shipment.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	orderID, err := pgtypes.NullableID(dto.OrderID)
	if err != nil {
		return nil, fmt.Errorf("order_id: %w", err)
	}

	state := shipment.State{
		OrderID:        orderID,
		ExpectedWeight: dto.ExpectedWeight,
		Status:         status,
		CreatedAt:      dto.CreatedAt,
		InTransitAt:    dto.InTransitAt,
		DeliveredAt:    dto.DeliveredAt,
	}
	if state.ID, err = pgtypes.ID(dto.ID); err != nil {
		return nil, err
	}
	if state.CarrierID, err = pgtypes.ID(dto.CarrierID); err != nil {
		return nil, fmt.Errorf("carrier_id: %w", err)
	}
	if state.ProductID, err = pgtypes.ID(dto.ProductID); err != nil {
		return nil, fmt.Errorf("product_id: %w", err)
	}
	if state.BuyerID, err = pgtypes.ID(dto.BuyerID); err != nil {
		return nil, fmt.Errorf("buyer_id: %w", err)
	}

	return shipment.RestoreShipment(state)
}
