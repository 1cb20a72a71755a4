package commands

import (
	"encoding/json"
	"time"

	"supplychain/internal/core/domain/model/order"
	"supplychain/internal/core/domain/model/shipment"
)

type shipmentDeliveryPayload struct {
	ShipmentID  string    `json:"shipmentId"`
	OrderID     string    `json:"orderId,omitempty"`
	CarrierID   string    `json:"carrierId"`
	ProductID   string    `json:"productId"`
	BuyerID     string    `json:"buyerId"`
	DeliveredAt time.Time `json:"deliveredAt"`
}

type orderDeliveryPayload struct {
	OrderID     string    `json:"orderId"`
	ShipmentID  string    `json:"shipmentId,omitempty"`
	ProductID   string    `json:"productId"`
	BuyerID     string    `json:"buyerId"`
	ProducerID  string    `json:"producerId"`
	Quantity    string    `json:"quantity"`
	Total       string    `json:"total"`
	DeliveredAt time.Time `json:"deliveredAt"`
}

func shipmentPayload(s *shipment.Shipment) ([]byte, error) {
	p := shipmentDeliveryPayload{
		ShipmentID: s.ID().String(),
		CarrierID:  s.CarrierID().String(),
		ProductID:  s.ProductID().String(),
		BuyerID:    s.BuyerID().String(),
	}
	if s.OrderID() != nil {
		p.OrderID = s.OrderID().String()
	}
	if s.DeliveredAt() != nil {
		p.DeliveredAt = *s.DeliveredAt()
	}
	return json.Marshal(p)
}

func orderPayload(o *order.Order) ([]byte, error) {
	p := orderDeliveryPayload{
		OrderID:    o.ID().String(),
		ProductID:  o.ProductID().String(),
		BuyerID:    o.BuyerID().String(),
		ProducerID: o.ProducerID().String(),
		Quantity:   o.Quantity().String(),
		Total:      o.Total().String(),
	}
	if o.ShipmentID() != nil {
		p.ShipmentID = o.ShipmentID().String()
	}
	if o.DeliveredAt() != nil {
		p.DeliveredAt = *o.DeliveredAt()
	}
	return json.Marshal(p)
}
