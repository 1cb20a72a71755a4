package http

import (
	"time"

	"supplychain/internal/core/application/usecases/commands"
	"supplychain/internal/core/application/usecases/queries"
	"supplychain/internal/core/domain/model/attestation"
	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/core/domain/model/telemetry"
)

// Amounts travel as decimal strings.

type createProductRequest struct {
	Name      string `json:"name" validate:"required,max=200"`
	Category  string `json:"category" validate:"max=100"`
	UnitPrice string `json:"unitPrice" validate:"required,numeric"`
	Unit      string `json:"unit" validate:"required,max=20"`
	Quantity  string `json:"quantity" validate:"required,numeric"`
}

type updateQuantityRequest struct {
	Quantity string `json:"quantity" validate:"required,numeric"`
}

type placeOrderRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Quantity  string `json:"quantity" validate:"required,numeric"`
}

type recordPaymentRequest struct {
	Receipt string `json:"receipt" validate:"required,max=200"`
}

type bindCarrierRequest struct {
	CarrierID      string   `json:"carrierId" validate:"required,uuid"`
	ExpectedWeight *float64 `json:"expectedWeight" validate:"omitempty,gt=0"`
}

type appendReadingRequest struct {
	Temperature *float64   `json:"temperature" validate:"required"`
	Humidity    *float64   `json:"humidity" validate:"required"`
	GasLevel    *float64   `json:"gasLevel" validate:"required"`
	Weight      *float64   `json:"weight" validate:"required"`
	Lat         *float64   `json:"lat" validate:"required"`
	Lng         *float64   `json:"lng" validate:"required"`
	RecordedAt  *time.Time `json:"recordedAt"`
}

type idResponse struct {
	ID string `json:"id"`
}

// Payment outcomes.
const (
	paymentRecorded    = "paid"
	paymentAlreadyPaid = "already_paid"
)

type paymentResponse struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

// Bind outcomes.
const (
	bindingAssigned        = "assigned"
	bindingAlreadyAssigned = "already_assigned"
)

type bindCarrierResponse struct {
	OrderID    string `json:"orderId"`
	ShipmentID string `json:"shipmentId,omitempty"`
	Status     string `json:"status"`
}

type productAvailabilityResponse struct {
	ProductID string `json:"productId"`
	OwnerID   string `json:"ownerId"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Unit      string `json:"unit"`
	UnitPrice string `json:"unitPrice"`
	Quantity  string `json:"quantity"`
	Stocked   string `json:"stocked"`
	Available string `json:"available"`
}

type orderResponse struct {
	ID          string     `json:"id"`
	ProductID   string     `json:"productId"`
	ProductName string     `json:"productName"`
	BuyerID     string     `json:"buyerId"`
	ProducerID  string     `json:"producerId"`
	CarrierID   *string    `json:"carrierId,omitempty"`
	ShipmentID  *string    `json:"shipmentId,omitempty"`
	Quantity    string     `json:"quantity"`
	Total       string     `json:"total"`
	Status      string     `json:"status"`
	PlacedAt    time.Time  `json:"placedAt"`
	DeliveredAt *time.Time `json:"deliveredAt,omitempty"`
}

type shipmentResponse struct {
	ID             string     `json:"id"`
	OrderID        *string    `json:"orderId,omitempty"`
	CarrierID      string     `json:"carrierId"`
	ProductID      string     `json:"productId"`
	ProductName    string     `json:"productName"`
	BuyerID        string     `json:"buyerId"`
	ExpectedWeight *float64   `json:"expectedWeight,omitempty"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"createdAt"`
	InTransitAt    *time.Time `json:"inTransitAt,omitempty"`
	DeliveredAt    *time.Time `json:"deliveredAt,omitempty"`
}

type stockResponse struct {
	ProductID   string    `json:"productId"`
	ProductName string    `json:"productName"`
	Unit        string    `json:"unit"`
	Quantity    string    `json:"quantity"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type readingResponse struct {
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	GasLevel    float64   `json:"gasLevel"`
	Weight      float64   `json:"weight"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	RecordedAt  time.Time `json:"recordedAt"`
}

type alertsResponse struct {
	ShipmentID string           `json:"shipmentId"`
	Status     string           `json:"status"`
	Latest     *readingResponse `json:"latest"`
	Alerts     []string         `json:"alerts"`
}

type attestationResponse struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	ReferenceID string    `json:"referenceId"`
	Status      string    `json:"status"`
	Receipt     string    `json:"receipt,omitempty"`
	LastError   string    `json:"lastError,omitempty"`
	Attempts    int       `json:"attempts"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type orderSyncResponse struct {
	OrderID *string `json:"orderId,omitempty"`
	Status  string  `json:"status,omitempty"`
	Changed bool    `json:"changed"`
}

type transitResponse struct {
	ShipmentID string            `json:"shipmentId"`
	Order      orderSyncResponse `json:"order"`
	Warnings   []string          `json:"warnings"`
}

type reconciliationResponse struct {
	OrderID string `json:"orderId"`
	Outcome string `json:"outcome"`
	Skipped bool   `json:"skipped"`
	Error   string `json:"error,omitempty"`
}

type shipmentDeliveryResponse struct {
	ShipmentID     string                   `json:"shipmentId"`
	Order          orderSyncResponse        `json:"order"`
	Reconciliation []reconciliationResponse `json:"reconciliation"`
	Attestation    *attestationResponse     `json:"attestation,omitempty"`
	Warnings       []string                 `json:"warnings"`
}

type orderDeliveryResponse struct {
	OrderID     string               `json:"orderId"`
	Changed     bool                 `json:"changed"`
	Attestation *attestationResponse `json:"attestation,omitempty"`
	Warnings    []string             `json:"warnings"`
}

func optionalID(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func warnings(failures ...error) []string {
	out := []string{}
	for _, err := range failures {
		if err != nil {
			out = append(out, err.Error())
		}
	}
	return out
}

func toOrderResponse(v queries.OrderView) orderResponse {
	return orderResponse{
		ID:          v.ID.String(),
		ProductID:   v.ProductID.String(),
		ProductName: v.ProductName,
		BuyerID:     v.BuyerID.String(),
		ProducerID:  v.ProducerID.String(),
		CarrierID:   optionalID(v.CarrierID),
		ShipmentID:  optionalID(v.ShipmentID),
		Quantity:    v.Quantity.String(),
		Total:       v.Total.String(),
		Status:      v.Status.String(),
		PlacedAt:    v.PlacedAt,
		DeliveredAt: v.DeliveredAt,
	}
}

func toShipmentResponse(v queries.ShipmentView) shipmentResponse {
	return shipmentResponse{
		ID:             v.ID.String(),
		OrderID:        optionalID(v.OrderID),
		CarrierID:      v.CarrierID.String(),
		ProductID:      v.ProductID.String(),
		ProductName:    v.ProductName,
		BuyerID:        v.BuyerID.String(),
		ExpectedWeight: v.ExpectedWeight,
		Status:         v.Status.String(),
		CreatedAt:      v.CreatedAt,
		InTransitAt:    v.InTransitAt,
		DeliveredAt:    v.DeliveredAt,
	}
}

func toAvailabilityResponse(v queries.ProductAvailability) productAvailabilityResponse {
	return productAvailabilityResponse{
		ProductID: v.ProductID.String(),
		OwnerID:   v.OwnerID.String(),
		Name:      v.Name,
		Category:  v.Category,
		Unit:      v.Unit,
		UnitPrice: v.UnitPrice.String(),
		Quantity:  v.Quantity.String(),
		Stocked:   v.Stocked.String(),
		Available: v.Available.String(),
	}
}

func toStockResponse(v queries.StockView) stockResponse {
	return stockResponse{
		ProductID:   v.ProductID.String(),
		ProductName: v.ProductName,
		Unit:        v.Unit,
		Quantity:    v.Quantity.String(),
		UpdatedAt:   v.UpdatedAt,
	}
}

func toReadingResponse(r *telemetry.Reading) *readingResponse {
	if r == nil {
		return nil
	}
	return &readingResponse{
		Temperature: r.Temperature(),
		Humidity:    r.Humidity(),
		GasLevel:    r.GasLevel(),
		Weight:      r.Weight(),
		Lat:         r.Location().Lat(),
		Lng:         r.Location().Lng(),
		RecordedAt:  r.RecordedAt(),
	}
}

func toAlertsResponse(v queries.ShipmentAlerts) alertsResponse {
	alerts := make([]string, 0, len(v.Alerts))
	for _, code := range v.Alerts {
		alerts = append(alerts, string(code))
	}
	return alertsResponse{
		ShipmentID: v.ShipmentID.String(),
		Status:     v.Status.String(),
		Latest:     toReadingResponse(v.Latest),
		Alerts:     alerts,
	}
}

func toAttestationResponse(a *attestation.Attestation) *attestationResponse {
	if a == nil {
		return nil
	}
	return &attestationResponse{
		ID:          a.ID().String(),
		Kind:        string(a.Kind()),
		ReferenceID: a.ReferenceID().String(),
		Status:      string(a.Status()),
		Receipt:     a.Receipt(),
		LastError:   a.LastError(),
		Attempts:    a.Attempts(),
		UpdatedAt:   a.UpdatedAt(),
	}
}

func toOrderSyncResponse(r commands.SyncOrderResult) orderSyncResponse {
	response := orderSyncResponse{OrderID: optionalID(r.OrderID), Changed: r.Changed}
	if r.OrderID != nil {
		response.Status = r.Status.String()
	}
	return response
}

func toReconciliationResponse(r commands.ReconcileStockResult) []reconciliationResponse {
	out := make([]reconciliationResponse, 0, len(r.Orders))
	for _, item := range r.Orders {
		response := reconciliationResponse{
			OrderID: item.OrderID.String(),
			Outcome: string(item.Outcome),
			Skipped: item.Skipped,
		}
		if item.Err != nil {
			response.Error = item.Err.Error()
		}
		out = append(out, response)
	}
	return out
}
