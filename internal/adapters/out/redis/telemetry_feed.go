// Package redis keeps the recent telemetry of each shipment in a Redis sorted
// set scored by the reading timestamp in milliseconds.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/core/domain/model/telemetry"
	"supplychain/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

const (
	keyNamespace    = "sc"
	telemetryPrefix = "telemetry"

	DefaultRetain = 1000
	DefaultTTL    = 72 * time.Hour
)

type cmdable interface {
	Ping(context.Context) *redis.StatusCmd
	ZAdd(context.Context, string, ...redis.Z) *redis.IntCmd
	ZRemRangeByRank(context.Context, string, int64, int64) *redis.IntCmd
	ZRevRange(context.Context, string, int64, int64) *redis.StringSliceCmd
	Expire(context.Context, string, time.Duration) *redis.BoolCmd
}

type Options struct {
	URL string
	// Retain is the number of newest readings kept per shipment.
	Retain int64
	// TTL expires a shipment's readings once it stops reporting.
	TTL time.Duration
}

type TelemetryFeed struct {
	store  cmdable
	raw    *redis.Client
	retain int64
	ttl    time.Duration
}

// readingDocument is the sorted set member.
type readingDocument struct {
	ShipmentID  string    `json:"shipmentId"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	GasLevel    float64   `json:"gasLevel"`
	Weight      float64   `json:"weight"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	RecordedAt  time.Time `json:"recordedAt"`
}

// NewTelemetryFeed connects to opts.URL and verifies connectivity.
func NewTelemetryFeed(ctx context.Context, opts Options) (*TelemetryFeed, error) {
	if opts.URL == "" {
		return nil, errors.New("redis url is required")
	}
	parsed, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	raw := redis.NewClient(parsed)
	if err := raw.Ping(ctx).Err(); err != nil {
		_ = raw.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return newTelemetryFeed(raw, raw, opts), nil
}

func newTelemetryFeed(store cmdable, raw *redis.Client, opts Options) *TelemetryFeed {
	if opts.Retain <= 0 {
		opts.Retain = DefaultRetain
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	return &TelemetryFeed{store: store, raw: raw, retain: opts.Retain, ttl: opts.TTL}
}

func (f *TelemetryFeed) Append(ctx context.Context, reading telemetry.Reading) error {
	if err := reading.Validate(); err != nil {
		return err
	}

	member, err := json.Marshal(readingDocument{
		ShipmentID:  reading.ShipmentID().String(),
		Temperature: reading.Temperature(),
		Humidity:    reading.Humidity(),
		GasLevel:    reading.GasLevel(),
		Weight:      reading.Weight(),
		Lat:         reading.Location().Lat(),
		Lng:         reading.Location().Lng(),
		RecordedAt:  reading.RecordedAt().UTC(),
	})
	if err != nil {
		return err
	}

	key := f.TelemetryKey(reading.ShipmentID())
	score := float64(reading.RecordedAt().UnixMilli())
	if err := f.store.ZAdd(ctx, key, redis.Z{Score: score, Member: string(member)}).Err(); err != nil {
		return fmt.Errorf("append reading: %w", err)
	}
	if err := f.store.ZRemRangeByRank(ctx, key, 0, -(f.retain + 1)).Err(); err != nil {
		return fmt.Errorf("trim readings: %w", err)
	}
	return f.store.Expire(ctx, key, f.ttl).Err()
}

func (f *TelemetryFeed) Latest(ctx context.Context, shipmentID kernel.UUID) (telemetry.Reading, bool, error) {
	if err := shipmentID.Validate(); err != nil {
		return telemetry.Reading{}, false, err
	}

	members, err := f.store.ZRevRange(ctx, f.TelemetryKey(shipmentID), 0, 0).Result()
	if err != nil {
		return telemetry.Reading{}, false, fmt.Errorf("latest reading: %w", err)
	}
	if len(members) == 0 {
		return telemetry.Reading{}, false, nil
	}

	reading, err := decodeReading(shipmentID, members[0])
	if err != nil {
		return telemetry.Reading{}, false, err
	}
	return reading, true, nil
}

// Ping exposes the health-check surface.
func (f *TelemetryFeed) Ping(ctx context.Context) error {
	return f.store.Ping(ctx).Err()
}

func (f *TelemetryFeed) Close() error {
	if f.raw == nil {
		return nil
	}
	return f.raw.Close()
}

// TelemetryKey returns the namespaced sorted set key of a shipment.
func (f *TelemetryFeed) TelemetryKey(shipmentID kernel.UUID) string {
	return strings.Join([]string{keyNamespace, telemetryPrefix, shipmentID.String()}, ":")
}

func decodeReading(shipmentID kernel.UUID, member string) (telemetry.Reading, error) {
	malformed := func(err error) error {
		return errs.NewMalformedDocumentError("telemetry", shipmentID.String(), err)
	}

	var doc readingDocument
	if err := json.Unmarshal([]byte(member), &doc); err != nil {
		return telemetry.Reading{}, malformed(err)
	}
	if doc.ShipmentID != shipmentID.String() {
		return telemetry.Reading{}, malformed(fmt.Errorf("reading belongs to shipment %q", doc.ShipmentID))
	}
	location, err := kernel.NewGeoPoint(doc.Lat, doc.Lng)
	if err != nil {
		return telemetry.Reading{}, malformed(err)
	}
	reading, err := telemetry.NewReading(shipmentID, doc.Temperature, doc.Humidity, doc.GasLevel, doc.Weight,
		location, doc.RecordedAt)
	if err != nil {
		return telemetry.Reading{}, malformed(err)
	}
	return reading, nil
}
