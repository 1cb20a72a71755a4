package http

import (
	"errors"
	"net/http"

	"supplychain/internal/core/application/usecases/commands"
	"supplychain/internal/core/application/usecases/queries"
	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// ListOrders handles GET /api/v1/orders.
func (s *Server) ListOrders(c echo.Context) error {
	query, err := queries.NewListOrdersQuery(actorFrom(c))
	if err != nil {
		return s.fail(c, err)
	}
	orders, err := s.h.ListOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}

	response := make([]orderResponse, len(orders))
	for i, v := range orders {
		response[i] = toOrderResponse(v)
	}
	return c.JSON(http.StatusOK, response)
}

// PlaceOrder handles POST /api/v1/orders.
func (s *Server) PlaceOrder(c echo.Context) error {
	var req placeOrderRequest
	if err := s.bind(c, &req); err != nil {
		return s.fail(c, err)
	}

	productID, err := kernel.UUIDFromString(req.ProductID)
	if err != nil {
		return s.fail(c, errs.NewValueIsInvalidErrorWithCause("productId", err))
	}
	quantity, err := kernel.ParseQuantity(req.Quantity)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewPlaceOrderCommand(actorFrom(c), productID, quantity)
	if err != nil {
		return s.fail(c, err)
	}
	id, err := s.h.PlaceOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, idResponse{ID: id.String()})
}

// RecordPayment handles POST /api/v1/orders/:id/payment. Paying an order
// that is already paid succeeds with status "already_paid".
func (s *Server) RecordPayment(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}

	var req recordPaymentRequest
	if err := s.bind(c, &req); err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewRecordPaymentCommand(actorFrom(c), id, req.Receipt)
	if err != nil {
		return s.fail(c, err)
	}

	err = s.h.RecordPayment.Handle(c.Request().Context(), cmd)
	switch {
	case errors.Is(err, errs.ErrAlreadyPaid):
		return c.JSON(http.StatusOK, paymentResponse{OrderID: id.String(), Status: paymentAlreadyPaid})
	case err != nil:
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, paymentResponse{OrderID: id.String(), Status: paymentRecorded})
}

// BindCarrier handles POST /api/v1/orders/:id/carrier and returns the id of
// the new shipment. A repeated bind answers 200 with the shipment already bound.
func (s *Server) BindCarrier(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}

	var req bindCarrierRequest
	if err := s.bind(c, &req); err != nil {
		return s.fail(c, err)
	}
	carrierID, err := kernel.UUIDFromString(req.CarrierID)
	if err != nil {
		return s.fail(c, errs.NewValueIsInvalidErrorWithCause("carrierId", err))
	}

	cmd, err := commands.NewBindCarrierCommand(actorFrom(c), id, carrierID, req.ExpectedWeight)
	if err != nil {
		return s.fail(c, err)
	}
	shipmentID, err := s.h.BindCarrier.Handle(c.Request().Context(), cmd)
	switch {
	case errors.Is(err, errs.ErrAlreadyAssigned):
		resp := bindCarrierResponse{OrderID: id.String(), Status: bindingAlreadyAssigned}
		if !shipmentID.IsZero() {
			resp.ShipmentID = shipmentID.String()
		}
		return c.JSON(http.StatusOK, resp)
	case err != nil:
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, bindCarrierResponse{
		OrderID:    id.String(),
		ShipmentID: shipmentID.String(),
		Status:     bindingAssigned,
	})
}

// ConfirmOrderDelivery handles POST /api/v1/orders/:id/delivery.
func (s *Server) ConfirmOrderDelivery(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewConfirmOrderDeliveryCommand(actorFrom(c), id)
	if err != nil {
		return s.fail(c, err)
	}
	result, err := s.h.ConfirmOrderDelivery.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}

	if result.AttestationErr != nil {
		s.logger.WarnContext(c.Request().Context(), "Order delivery attestation failed",
			"order_id", id.String(), "error", result.AttestationErr)
	}
	return c.JSON(http.StatusOK, orderDeliveryResponse{
		OrderID:     id.String(),
		Changed:     result.Changed,
		Attestation: toAttestationResponse(result.Attestation),
		Warnings:    warnings(result.AttestationErr),
	})
}
