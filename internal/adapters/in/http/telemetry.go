package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"supplychain/internal/core/application/usecases/commands"
	"supplychain/internal/core/application/usecases/queries"
	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/core/domain/model/telemetry"

	"github.com/labstack/echo/v4"
)

const telemetryEvent = "telemetry"

// AppendReading handles POST /api/v1/shipments/:id/readings. recordedAt
// defaults to the time of the request.
func (s *Server) AppendReading(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}

	var req appendReadingRequest
	if err := s.bind(c, &req); err != nil {
		return s.fail(c, err)
	}

	location, err := kernel.NewGeoPoint(*req.Lat, *req.Lng)
	if err != nil {
		return s.fail(c, err)
	}
	recordedAt := time.Now().UTC()
	if req.RecordedAt != nil {
		recordedAt = req.RecordedAt.UTC()
	}
	reading, err := telemetry.NewReading(id, *req.Temperature, *req.Humidity, *req.GasLevel, *req.Weight,
		location, recordedAt)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewAppendReadingCommand(actorFrom(c), reading)
	if err != nil {
		return s.fail(c, err)
	}
	if err := s.h.AppendReading.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusAccepted)
}

// GetShipmentAlerts handles GET /api/v1/shipments/:id/alerts.
func (s *Server) GetShipmentAlerts(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}

	query, err := queries.NewGetShipmentAlertsQuery(id)
	if err != nil {
		return s.fail(c, err)
	}
	alerts, err := s.h.ShipmentAlerts.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, toAlertsResponse(alerts))
}

// StreamTelemetry handles GET /api/v1/shipments/:id/telemetry as a
// server-sent event stream. The stream ends when the client disconnects or
// the shipment is delivered.
func (s *Server) StreamTelemetry(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}

	query, err := queries.NewGetShipmentAlertsQuery(id)
	if err != nil {
		return s.fail(c, err)
	}
	if _, err := s.h.ShipmentAlerts.Handle(c.Request().Context(), query); err != nil {
		return s.fail(c, err)
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")

	// The sink is the only writer once tracking starts.
	tracking, err := s.h.Telemetry.Track(c.Request().Context(), id,
		func(_ context.Context, snapshot queries.ShipmentAlerts) error {
			payload, err := json.Marshal(toAlertsResponse(snapshot))
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(res, "event: %s\ndata: %s\n\n", telemetryEvent, payload); err != nil {
				return err
			}
			res.Flush()
			return nil
		})
	if err != nil {
		return s.fail(c, err)
	}

	<-tracking.Done()
	return nil
}
