package queries

import (
	"context"
	"database/sql"
	"errors"

	"supplychain/internal/core/domain/model/shipment"
	"supplychain/internal/core/domain/services"
	"supplychain/internal/core/ports"
	"supplychain/internal/pkg/errs"

	"gorm.io/gorm"
)

type GetShipmentAlertsQueryHandler struct {
	db        *gorm.DB
	feed      ports.TelemetryFeed
	evaluator services.AlertEvaluator
}

func NewGetShipmentAlertsQueryHandler(
	db *gorm.DB,
	feed ports.TelemetryFeed,
	evaluator services.AlertEvaluator,
) GetShipmentAlertsQueryHandler {
	return GetShipmentAlertsQueryHandler{db: db, feed: feed, evaluator: evaluator}
}

func (h GetShipmentAlertsQueryHandler) Handle(
	ctx context.Context,
	query GetShipmentAlertsQuery,
) (ShipmentAlerts, error) {
	if err := query.Validate(); err != nil {
		return ShipmentAlerts{}, err
	}

	var (
		status string
		weight sql.NullFloat64
	)
	row := h.db.WithContext(ctx).Raw(`
		SELECT status, expected_weight
		FROM shipments
		WHERE id = ?
	`, query.ShipmentID().Bytes()).Row()
	if err := row.Scan(&status, &weight); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ShipmentAlerts{}, errs.NewObjectNotFoundError("shipment", query.ShipmentID().String())
		}
		return ShipmentAlerts{}, err
	}

	parsed, err := shipment.ParseStatus(status)
	if err != nil {
		return ShipmentAlerts{}, errs.NewMalformedDocumentError("shipments", query.ShipmentID().String(), err)
	}

	result := ShipmentAlerts{
		ShipmentID: query.ShipmentID(),
		Status:     parsed,
		Alerts:     services.AlertSet{},
	}

	latest, ok, err := h.feed.Latest(ctx, query.ShipmentID())
	if err != nil {
		return ShipmentAlerts{}, err
	}
	if !ok {
		return result, nil
	}

	var expected *float64
	if weight.Valid {
		expected = &weight.Float64
	}
	result.Latest = &latest
	result.Alerts = h.evaluator.Evaluate(latest, expected)
	return result, nil
}
