// Package telemetry defines the sensor readings reported for a shipment in transit.
package telemetry

import (
	"errors"
	"fmt"
	"math"
	"time"

	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/pkg/errs"
	"supplychain/internal/pkg/guard"
)

var ErrReadingIsNotConstructed = errs.NewValueIsRequiredError("reading must be created via NewReading")

// Reading is one timestamped sample from the sensors travelling with a shipment.
// Readings are append-only; only the latest one per shipment is evaluated.
type Reading struct {
	shipmentID  kernel.UUID
	temperature float64
	humidity    float64
	gasLevel    float64
	weight      float64
	location    kernel.GeoPoint
	recordedAt  time.Time
	guard       guard.ConstructorGuard
}

// NewReading validates a sample. Humidity is a percentage, gas level and
// weight are non-negative and every value must be finite.
func NewReading(
	shipmentID kernel.UUID,
	temperature, humidity, gasLevel, weight float64,
	location kernel.GeoPoint,
	recordedAt time.Time,
) (Reading, error) {
	if err := errors.Join(
		shipmentID.Validate(),
		finite("temperature", temperature),
		inRange("humidity", humidity, 0, 100),
		inRange("gasLevel", gasLevel, 0, math.MaxFloat64),
		inRange("weight", weight, 0, math.MaxFloat64),
		location.Validate(),
		required("recordedAt", recordedAt),
	); err != nil {
		return Reading{}, err
	}

	return Reading{
		shipmentID:  shipmentID,
		temperature: temperature,
		humidity:    humidity,
		gasLevel:    gasLevel,
		weight:      weight,
		location:    location,
		recordedAt:  recordedAt.UTC(),
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (r Reading) Validate() error {
	return r.guard.Validate(ErrReadingIsNotConstructed)
}

func (r Reading) ShipmentID() kernel.UUID {
	return r.shipmentID
}

// Temperature is in degrees Celsius.
func (r Reading) Temperature() float64 {
	return r.temperature
}

// Humidity is relative humidity in percent.
func (r Reading) Humidity() float64 {
	return r.humidity
}

func (r Reading) GasLevel() float64 {
	return r.gasLevel
}

// Weight is the measured cargo weight in the same unit as the shipment's
// expected weight.
func (r Reading) Weight() float64 {
	return r.weight
}

func (r Reading) Location() kernel.GeoPoint {
	return r.location
}

func (r Reading) RecordedAt() time.Time {
	return r.recordedAt
}

// After reports whether r was recorded strictly after other.
func (r Reading) After(other Reading) bool {
	return r.recordedAt.After(other.recordedAt)
}

func finite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("%v is not a finite number", v))
	}
	return nil
}

func inRange(name string, v, minValue, maxValue float64) error {
	if err := finite(name, v); err != nil {
		return err
	}
	if v < minValue || v > maxValue {
		return errs.NewValueIsOutOfRangeError(name, v, minValue, maxValue)
	}
	return nil
}

func required(name string, at time.Time) error {
	if at.IsZero() {
		return errs.NewValueIsRequiredError(name)
	}
	return nil
}
