package commands

import (
	"context"
	"errors"

	"supplychain/internal/core/ports"
	"supplychain/internal/pkg/errs"
)

// AppendReadingCommandHandler ingests telemetry for active shipments.
type AppendReadingCommandHandler struct {
	uowFactory UoWFactory
	feed       ports.TelemetryFeed
}

func NewAppendReadingCommandHandler(uowFactory UoWFactory, feed ports.TelemetryFeed) AppendReadingCommandHandler {
	return AppendReadingCommandHandler{
		uowFactory: uowFactory,
		feed:       feed,
	}
}

// Handle appends the reading.
//
// Business rules:
//   - only the carrier bound to the shipment reports telemetry
//   - the shipment must be pending or in transit (InvalidState otherwise)
//   - reading timestamps are strictly increasing per shipment
//     (ValueIsOutOfRange otherwise)
func (h AppendReadingCommandHandler) Handle(ctx context.Context, cmd AppendReadingCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	reading := cmd.Reading()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	s, err := uow.ShipmentRepository().Get(ctx, reading.ShipmentID())
	if err != nil {
		return err
	}

	if err = s.Authorize(cmd.Actor(), "report telemetry for"); err != nil {
		return err
	}
	if !s.IsActive() {
		return errs.NewInvalidStateError("shipment", s.Status().String(), "accept telemetry")
	}

	latest, ok, err := h.feed.Latest(ctx, s.ID())
	if err != nil {
		return err
	}
	if ok && !reading.After(latest) {
		return errs.NewValueIsOutOfRangeErrorWithCause(
			"recordedAt",
			reading.RecordedAt(),
			latest.RecordedAt(),
			"none",
			errors.New("readings must be strictly newer than the latest one"),
		)
	}

	if err = h.feed.Append(ctx, reading); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
