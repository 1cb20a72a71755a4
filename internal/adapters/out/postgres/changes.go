package postgres

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/core/domain/model/order"
	"supplychain/internal/core/domain/model/shipment"
	"supplychain/internal/core/ports"
	"supplychain/internal/pkg/errs"
)

// ChangesChannel is the NOTIFY channel carrying committed order and shipment writes.
const ChangesChannel = "supplychain_changes"

// changeNotification is the NOTIFY payload. Documents stay well below the
// 8000 byte payload limit.
type changeNotification struct {
	Collection string          `json:"collection"`
	ID         string          `json:"id"`
	Status     string          `json:"status"`
	Document   json.RawMessage `json:"document"`
}

type orderDocument struct {
	ID          string     `json:"id"`
	ProductID   string     `json:"productId"`
	BuyerID     string     `json:"buyerId"`
	ProducerID  string     `json:"producerId"`
	CarrierID   *string    `json:"carrierId,omitempty"`
	ShipmentID  *string    `json:"shipmentId,omitempty"`
	Quantity    string     `json:"quantity"`
	Total       string     `json:"total"`
	Status      string     `json:"status"`
	Reconciled  bool       `json:"reconciled"`
	DeliveredAt *time.Time `json:"deliveredAt,omitempty"`
}

type shipmentDocument struct {
	ID          string     `json:"id"`
	OrderID     *string    `json:"orderId,omitempty"`
	CarrierID   string     `json:"carrierId"`
	ProductID   string     `json:"productId"`
	BuyerID     string     `json:"buyerId"`
	Status      string     `json:"status"`
	InTransitAt *time.Time `json:"inTransitAt,omitempty"`
	DeliveredAt *time.Time `json:"deliveredAt,omitempty"`
}

// encodeChange builds the notification for an order or shipment. ok is false
// for aggregates that are not published.
func encodeChange(aggregate any) (payload []byte, ok bool, err error) {
	var n changeNotification
	var document any

	switch a := aggregate.(type) {
	case *order.Order:
		n = changeNotification{Collection: ports.OrdersCollection, ID: a.ID().String(), Status: a.Status().String()}
		document = orderDocument{
			ID:          a.ID().String(),
			ProductID:   a.ProductID().String(),
			BuyerID:     a.BuyerID().String(),
			ProducerID:  a.ProducerID().String(),
			CarrierID:   optionalID(a.CarrierID()),
			ShipmentID:  optionalID(a.ShipmentID()),
			Quantity:    a.Quantity().String(),
			Total:       a.Total().String(),
			Status:      a.Status().String(),
			Reconciled:  a.IsReconciled(),
			DeliveredAt: a.DeliveredAt(),
		}
	case *shipment.Shipment:
		n = changeNotification{Collection: ports.ShipmentsCollection, ID: a.ID().String(), Status: a.Status().String()}
		document = shipmentDocument{
			ID:          a.ID().String(),
			OrderID:     optionalID(a.OrderID()),
			CarrierID:   a.CarrierID().String(),
			ProductID:   a.ProductID().String(),
			BuyerID:     a.BuyerID().String(),
			Status:      a.Status().String(),
			InTransitAt: a.InTransitAt(),
			DeliveredAt: a.DeliveredAt(),
		}
	default:
		return nil, false, nil
	}

	if n.Document, err = json.Marshal(document); err != nil {
		return nil, false, err
	}
	if payload, err = json.Marshal(n); err != nil {
		return nil, false, err
	}
	return payload, true, nil
}

// decodeChange parses a NOTIFY payload. Anything that does not describe a
// known collection, a valid id and a known status is MalformedDocument.
func decodeChange(payload string) (ports.Change, error) {
	var n changeNotification
	if err := json.Unmarshal([]byte(payload), &n); err != nil {
		return ports.Change{}, errs.NewMalformedDocumentError("changes", "", err)
	}

	id, err := kernel.UUIDFromString(n.ID)
	if err != nil {
		return ports.Change{}, errs.NewMalformedDocumentError(n.Collection, n.ID, err)
	}

	var status fmt.Stringer
	switch n.Collection {
	case ports.OrdersCollection:
		status, err = order.ParseStatus(n.Status)
	case ports.ShipmentsCollection:
		status, err = shipment.ParseStatus(n.Status)
	default:
		err = fmt.Errorf("unknown collection %q", n.Collection)
	}
	if err != nil {
		return ports.Change{}, errs.NewMalformedDocumentError(n.Collection, n.ID, err)
	}

	if len(n.Document) == 0 || !json.Valid(n.Document) {
		return ports.Change{}, errs.NewMalformedDocumentError(n.Collection, n.ID,
			errors.New("document is missing or not JSON"))
	}

	return ports.Change{
		Collection: n.Collection,
		ID:         id,
		Status:     status.String(),
		Document:   n.Document,
	}, nil
}

func optionalID(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
