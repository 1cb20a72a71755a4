package services

import (
	"math"
	"slices"

	"supplychain/internal/core/domain/model/telemetry"
)

// AlertCode identifies a breached telemetry threshold.
type AlertCode string

const (
	HighTemp      AlertCode = "HIGH_TEMP"
	HighHumidity  AlertCode = "HIGH_HUMIDITY"
	GasLeak       AlertCode = "GAS_LEAK"
	WeightAnomaly AlertCode = "WEIGHT_ANOMALY"
)

// AlertSet is a sorted set of alert codes.
type AlertSet []AlertCode

func (s AlertSet) Contains(code AlertCode) bool {
	return slices.Contains(s, code)
}

func (s AlertSet) IsEmpty() bool {
	return len(s) == 0
}

// Thresholds is the alerting policy. A value must exceed its threshold to
// raise an alert.
type Thresholds struct {
	MaxTemperature float64
	MaxHumidity    float64
	MaxGasLevel    float64
	// WeightTolerance is the allowed relative deviation from the expected weight.
	WeightTolerance float64
}

// DefaultThresholds returns 35 °C, 85 % humidity, gas level 25 and a 5 % weight tolerance.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MaxTemperature:  35,
		MaxHumidity:     85,
		MaxGasLevel:     25,
		WeightTolerance: 0.05,
	}
}

// AlertEvaluator is a pure function of the latest reading.
type AlertEvaluator struct {
	thresholds Thresholds
}

func NewAlertEvaluator(thresholds Thresholds) AlertEvaluator {
	return AlertEvaluator{thresholds: thresholds}
}

func (e AlertEvaluator) Thresholds() Thresholds {
	return e.thresholds
}

// Evaluate returns the alerts raised by r. The weight check is skipped when
// expectedWeight is nil or not positive.
func (e AlertEvaluator) Evaluate(r telemetry.Reading, expectedWeight *float64) AlertSet {
	alerts := make(AlertSet, 0, 4)

	if r.Temperature() > e.thresholds.MaxTemperature {
		alerts = append(alerts, HighTemp)
	}
	if r.Humidity() > e.thresholds.MaxHumidity {
		alerts = append(alerts, HighHumidity)
	}
	if r.GasLevel() > e.thresholds.MaxGasLevel {
		alerts = append(alerts, GasLeak)
	}
	if expectedWeight != nil && *expectedWeight > 0 {
		deviation := math.Abs(r.Weight()-*expectedWeight) / *expectedWeight
		if deviation > e.thresholds.WeightTolerance {
			alerts = append(alerts, WeightAnomaly)
		}
	}

	slices.Sort(alerts)
	return alerts
}
