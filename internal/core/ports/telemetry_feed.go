package ports

import (
	"context"

	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/core/domain/model/telemetry"
)

// TelemetryFeed ingests readings and answers "latest reading for shipment X".
type TelemetryFeed interface {
	Append(ctx context.Context, reading telemetry.Reading) error

	// Latest returns the most recent reading; ok is false when the shipment has none.
	Latest(ctx context.Context, shipmentID kernel.UUID) (reading telemetry.Reading, ok bool, err error)
}
