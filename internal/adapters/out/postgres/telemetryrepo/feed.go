// Package telemetryrepo keeps telemetry readings in PostgreSQL. It is the
// default TelemetryFeed; the redis feed replaces it when configured.
package telemetryrepo

import (
	"context"
	"errors"
	"time"

	"supplychain/internal/adapters/out/postgres/pgtypes"
	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/core/domain/model/telemetry"
	"supplychain/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReadingDTO struct {
	ID          uint      `gorm:"primaryKey"`
	ShipmentID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reading_shipment_time"`
	Temperature float64
	Humidity    float64
	GasLevel    float64
	Weight      float64
	Lat         float64
	Lng         float64
	RecordedAt  time.Time `gorm:"not null;uniqueIndex:idx_reading_shipment_time"`
}

func (ReadingDTO) TableName() string {
	return "telemetry_readings"
}

type GormTelemetryFeed struct {
	db *gorm.DB
}

func NewGormTelemetryFeed(db *gorm.DB) *GormTelemetryFeed {
	return &GormTelemetryFeed{db: db}
}

func (f *GormTelemetryFeed) Append(ctx context.Context, reading telemetry.Reading) error {
	if err := reading.Validate(); err != nil {
		return err
	}

	dto := ReadingDTO{
		ShipmentID:  reading.ShipmentID().Bytes(),
		Temperature: reading.Temperature(),
		Humidity:    reading.Humidity(),
		GasLevel:    reading.GasLevel(),
		Weight:      reading.Weight(),
		Lat:         reading.Location().Lat(),
		Lng:         reading.Location().Lng(),
		RecordedAt:  reading.RecordedAt(),
	}
	return f.db.WithContext(ctx).Create(&dto).Error
}

func (f *GormTelemetryFeed) Latest(ctx context.Context, shipmentID kernel.UUID) (telemetry.Reading, bool, error) {
	if err := shipmentID.Validate(); err != nil {
		return telemetry.Reading{}, false, err
	}

	var dto ReadingDTO
	err := f.db.WithContext(ctx).
		Where("shipment_id = ?", shipmentID.Bytes()).
		Order("recorded_at DESC").
		First(&dto).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return telemetry.Reading{}, false, nil
	}
	if err != nil {
		return telemetry.Reading{}, false, err
	}

	reading, err := toDomain(dto)
	if err != nil {
		return telemetry.Reading{}, false, err
	}
	return reading, true, nil
}

func toDomain(dto ReadingDTO) (telemetry.Reading, error) {
	id, err := pgtypes.ID(dto.ShipmentID)
	if err != nil {
		return telemetry.Reading{}, errs.NewMalformedDocumentError("telemetry_readings", dto.ShipmentID.String(), err)
	}
	location, err := kernel.NewGeoPoint(dto.Lat, dto.Lng)
	if err != nil {
		return telemetry.Reading{}, errs.NewMalformedDocumentError("telemetry_readings", id.String(), err)
	}
	reading, err := telemetry.NewReading(id, dto.Temperature, dto.Humidity, dto.GasLevel, dto.Weight,
		location, dto.RecordedAt)
	if err != nil {
		return telemetry.Reading{}, errs.NewMalformedDocumentError("telemetry_readings", id.String(), err)
	}
	return reading, nil
}
