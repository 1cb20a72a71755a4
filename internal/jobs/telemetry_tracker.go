package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"supplychain/internal/core/application/usecases/queries"
	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/pkg/errs"
	"supplychain/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
)

const (
	DefaultTelemetryInterval = 3 * time.Second

	telemetryTrackerJob = "telemetry_tracker"
)

// ShipmentAlertsReader answers the alert state of one shipment.
type ShipmentAlertsReader interface {
	Handle(ctx context.Context, query queries.GetShipmentAlertsQuery) (queries.ShipmentAlerts, error)
}

// TelemetrySink receives a snapshot whenever the shipment reports a new
// reading or changes status. Returning an error ends the tracking.
type TelemetrySink func(ctx context.Context, snapshot queries.ShipmentAlerts) error

// TelemetryTracker polls the alert state of shipments on a fixed interval.
type TelemetryTracker struct {
	reader   ShipmentAlertsReader
	interval time.Duration
	logger   *slog.Logger
	jobs     *metrics.CronJobMetrics
	domain   *metrics.DomainMetrics
}

func NewTelemetryTracker(
	reader ShipmentAlertsReader,
	interval time.Duration,
	logger *slog.Logger,
	jobMetrics *metrics.CronJobMetrics,
	domainMetrics *metrics.DomainMetrics,
) *TelemetryTracker {
	if interval <= 0 {
		interval = DefaultTelemetryInterval
	}
	return &TelemetryTracker{
		reader:   reader,
		interval: interval,
		logger:   logger.With("component", "telemetry_tracker"),
		jobs:     jobMetrics,
		domain:   domainMetrics,
	}
}

// Tracking is one running poll loop. It ends when the parent context is
// done, when Stop is called, when the sink fails or when the shipment is no
// longer pending or in transit.
type Tracking struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func (t *Tracking) Stop() {
	t.once.Do(t.cancel)
}

// Done is closed once the loop has stopped and no poll is running.
func (t *Tracking) Done() <-chan struct{} {
	return t.done
}

// Track starts polling shipmentID. The first snapshot is taken immediately.
func (tr *TelemetryTracker) Track(ctx context.Context, shipmentID kernel.UUID, sink TelemetrySink) (*Tracking, error) {
	query, err := queries.NewGetShipmentAlertsQuery(shipmentID)
	if err != nil {
		return nil, err
	}
	if sink == nil {
		return nil, errs.NewValueIsRequiredError("sink")
	}

	ctx, cancel := context.WithCancel(ctx)
	tracking := &Tracking{cancel: cancel, done: make(chan struct{})}

	logger := tr.logger.With("shipment_id", shipmentID.String())
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelWarn))
	c := cron.New(cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)))

	p := &poller{tracker: tr, query: query, sink: sink, stop: tracking.Stop, logger: logger}
	c.Schedule(cron.Every(tr.interval), cron.FuncJob(func() { p.poll(ctx) }))

	go func() {
		defer close(tracking.done)

		p.poll(ctx)
		if ctx.Err() == nil {
			c.Start()
			<-ctx.Done()
			<-c.Stop().Done()
		}
		logger.DebugContext(context.Background(), "Telemetry tracking stopped")
	}()

	return tracking, nil
}

// poller holds the state of one tracking. Polls never overlap.
type poller struct {
	tracker *TelemetryTracker
	query   queries.GetShipmentAlertsQuery
	sink    TelemetrySink
	stop    func()
	logger  *slog.Logger

	seen       bool
	lastStatus string
	lastAt     time.Time
}

func (p *poller) poll(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	started := time.Now()
	snapshot, err := p.tracker.reader.Handle(ctx, p.query)
	if ctx.Err() != nil {
		return
	}
	p.tracker.jobs.Observe(telemetryTrackerJob, started, err)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) || errors.Is(err, errs.ErrMalformedDocument) {
			p.logger.WarnContext(ctx, "Stopping telemetry tracking", "error", err)
			p.stop()
			return
		}
		p.logger.ErrorContext(ctx, "Telemetry poll failed", "error", err)
		return
	}

	if p.changed(snapshot) {
		if snapshot.Latest != nil {
			for _, code := range snapshot.Alerts {
				p.tracker.domain.IncAlert(string(code))
			}
		}
		if err := p.sink(ctx, snapshot); err != nil {
			p.logger.DebugContext(ctx, "Telemetry sink closed", "error", err)
			p.stop()
			return
		}
	}

	if !snapshot.Status.IsActive() {
		p.stop()
	}
}

func (p *poller) changed(snapshot queries.ShipmentAlerts) bool {
	var at time.Time
	if snapshot.Latest != nil {
		at = snapshot.Latest.RecordedAt()
	}
	status := snapshot.Status.String()

	if p.seen && status == p.lastStatus && at.Equal(p.lastAt) {
		return false
	}
	p.seen = true
	p.lastStatus = status
	p.lastAt = at
	return true
}
