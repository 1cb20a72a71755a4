package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"supplychain/internal/core/application/usecases/commands"
	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/core/domain/model/shipment"
	"supplychain/internal/core/domain/model/telemetry"
	"supplychain/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
)

const sensorSimulationJob = "sensor_simulation"

// Simulated sensor ranges.
const (
	simBaseLat   = 11.34
	simBaseLng   = 78.12
	simLocJitter = 0.05
)

type ActiveShipmentLister interface {
	ListActive(ctx context.Context) ([]*shipment.Shipment, error)
}

type ReadingAppender interface {
	Handle(ctx context.Context, cmd commands.AppendReadingCommand) error
}

// SensorSimulationJob reports one random reading per active shipment on
// behalf of its carrier. Development only.
type SensorSimulationJob struct {
	shipments ActiveShipmentLister
	appender  ReadingAppender
	interval  time.Duration
	cron      *cron.Cron
	logger    *slog.Logger
	metrics   *metrics.CronJobMetrics

	mu   sync.Mutex
	rand *rand.Rand
	now  func() time.Time
}

func NewSensorSimulationJob(
	shipments ActiveShipmentLister,
	appender ReadingAppender,
	interval time.Duration,
	logger *slog.Logger,
	jobMetrics *metrics.CronJobMetrics,
) *SensorSimulationJob {
	if interval <= 0 {
		interval = DefaultTelemetryInterval
	}
	return &SensorSimulationJob{
		shipments: shipments,
		appender:  appender,
		interval:  interval,
		cron:      cron.New(),
		logger:    logger.With("component", "sensor_simulation_job"),
		metrics:   jobMetrics,
		rand:      rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed)),
		now:       time.Now,
	}
}

func (j *SensorSimulationJob) Start() error {
	_, err := j.cron.AddFunc(fmt.Sprintf("@every %s", j.interval), func() {
		ctx := context.Background()
		started := time.Now()

		reported, err := j.RunOnce(ctx)
		j.metrics.Observe(sensorSimulationJob, started, err)
		if err != nil {
			j.logger.ErrorContext(ctx, "Sensor simulation failed", "error", err, "reported", reported)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Sensor simulation job started", "interval", j.interval.String())
	return nil
}

func (j *SensorSimulationJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Sensor simulation job stopped")
}

// RunOnce reports a reading for every active shipment and returns how many
// were accepted. Failures for one shipment do not stop the others.
func (j *SensorSimulationJob) RunOnce(ctx context.Context) (int, error) {
	active, err := j.shipments.ListActive(ctx)
	if err != nil {
		return 0, err
	}

	var (
		reported int
		failures []error
	)
	for _, s := range active {
		if err := j.report(ctx, s); err != nil {
			j.logger.WarnContext(ctx, "Simulated reading rejected", "shipment_id", s.ID().String(), "error", err)
			failures = append(failures, fmt.Errorf("shipment %s: %w", s.ID(), err))
			continue
		}
		reported++
	}
	return reported, errors.Join(failures...)
}

func (j *SensorSimulationJob) report(ctx context.Context, s *shipment.Shipment) error {
	carrier, err := kernel.NewActor(s.CarrierID(), kernel.RoleCarrier)
	if err != nil {
		return err
	}

	reading, err := j.sample(s.ID())
	if err != nil {
		return err
	}

	cmd, err := commands.NewAppendReadingCommand(carrier, reading)
	if err != nil {
		return err
	}
	return j.appender.Handle(ctx, cmd)
}

func (j *SensorSimulationJob) sample(shipmentID kernel.UUID) (telemetry.Reading, error) {
	j.mu.Lock()
	temperature := j.between(20, 40)
	humidity := j.between(50, 90)
	gas := j.between(5, 30)
	weight := j.between(900, 1000)
	lat := simBaseLat + j.between(-simLocJitter, simLocJitter)
	lng := simBaseLng + j.between(-simLocJitter, simLocJitter)
	j.mu.Unlock()

	location, err := kernel.NewGeoPoint(lat, lng)
	if err != nil {
		return telemetry.Reading{}, err
	}
	return telemetry.NewReading(shipmentID, temperature, humidity, gas, weight, location, j.now().UTC())
}

func (j *SensorSimulationJob) between(lo, hi float64) float64 {
	return lo + j.rand.Float64()*(hi-lo)
}
