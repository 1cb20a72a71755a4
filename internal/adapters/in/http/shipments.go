package http

import (
	"net/http"

	"supplychain/internal/core/application/usecases/commands"
	"supplychain/internal/core/application/usecases/queries"

	"github.com/labstack/echo/v4"
)

// ListShipments handles GET /api/v1/shipments.
func (s *Server) ListShipments(c echo.Context) error {
	query, err := queries.NewListShipmentsQuery(actorFrom(c))
	if err != nil {
		return s.fail(c, err)
	}
	shipments, err := s.h.ListShipments.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}

	response := make([]shipmentResponse, len(shipments))
	for i, v := range shipments {
		response[i] = toShipmentResponse(v)
	}
	return c.JSON(http.StatusOK, response)
}

// StartTransit handles POST /api/v1/shipments/:id/transit.
func (s *Server) StartTransit(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewStartTransitCommand(actorFrom(c), id)
	if err != nil {
		return s.fail(c, err)
	}
	result, err := s.h.StartTransit.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, transitResponse{
		ShipmentID: id.String(),
		Order:      toOrderSyncResponse(result.Order),
		Warnings:   warnings(result.SyncErr),
	})
}

// DeliverShipment handles POST /api/v1/shipments/:id/delivery. Follow-up
// failures are returned as warnings; the delivery itself stays committed.
func (s *Server) DeliverShipment(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewDeliverShipmentCommand(actorFrom(c), id)
	if err != nil {
		return s.fail(c, err)
	}
	result, err := s.h.DeliverShipment.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}

	response := shipmentDeliveryResponse{
		ShipmentID:     id.String(),
		Order:          toOrderSyncResponse(result.Order),
		Reconciliation: toReconciliationResponse(result.Reconciliation),
		Attestation:    toAttestationResponse(result.Attestation),
		Warnings:       warnings(result.SyncErr, result.ReconcileErr, result.AttestationErr),
	}
	if len(response.Warnings) > 0 {
		s.logger.WarnContext(c.Request().Context(), "Shipment delivered with warnings",
			"shipment_id", id.String(), "warnings", response.Warnings)
	}
	return c.JSON(http.StatusOK, response)
}

// RetryAttestation handles POST /api/v1/attestations/:id/retry.
func (s *Server) RetryAttestation(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewRetryAttestationCommand(id)
	if err != nil {
		return s.fail(c, err)
	}
	a, err := s.h.RetryAttestation.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, toAttestationResponse(a))
}
