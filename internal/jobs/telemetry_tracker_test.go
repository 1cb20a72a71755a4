package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"supplychain/internal/core/application/usecases/queries"
	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/core/domain/model/shipment"
	"supplychain/internal/core/domain/model/telemetry"
	"supplychain/internal/core/domain/services"
	"supplychain/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedReader returns the scripted snapshots in order and repeats the
// last one.
type scriptedReader struct {
	mu        sync.Mutex
	snapshots []queries.ShipmentAlerts
	err       error
	calls     int
}

func (r *scriptedReader) Handle(_ context.Context, q queries.GetShipmentAlertsQuery) (queries.ShipmentAlerts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return queries.ShipmentAlerts{}, r.err
	}
	i := min(r.calls-1, len(r.snapshots)-1)
	s := r.snapshots[i]
	s.ShipmentID = q.ShipmentID()
	return s, nil
}

type recordingSink struct {
	mu        sync.Mutex
	snapshots []queries.ShipmentAlerts
	err       error
}

func (s *recordingSink) sink(_ context.Context, snapshot queries.ShipmentAlerts) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots = append(s.snapshots, snapshot)
	return s.err
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.snapshots)
}

func newTracker(reader ShipmentAlertsReader) *TelemetryTracker {
	return NewTelemetryTracker(reader, time.Second, slog.New(slog.DiscardHandler), nil, nil)
}

func reading(t *testing.T, temperature float64, at time.Time) *telemetry.Reading {
	t.Helper()
	location, err := kernel.NewGeoPoint(11.34, 78.12)
	require.NoError(t, err)
	r, err := telemetry.NewReading(kernel.NewUUID(), temperature, 60, 10, 950, location, at)
	require.NoError(t, err)
	return &r
}

func waitDone(t *testing.T, tracking *Tracking) {
	t.Helper()
	select {
	case <-tracking.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("tracking did not stop")
	}
}

func TestTelemetryTracker_StopsAfterDelivery(t *testing.T) {
	reader := &scriptedReader{snapshots: []queries.ShipmentAlerts{{Status: shipment.Delivered, Alerts: services.AlertSet{}}}}
	sink := &recordingSink{}

	tracking, err := newTracker(reader).Track(context.Background(), kernel.NewUUID(), sink.sink)
	require.NoError(t, err)
	waitDone(t, tracking)

	require.Equal(t, 1, sink.count())
	assert.Equal(t, shipment.Delivered, sink.snapshots[0].Status)
}

func TestTelemetryTracker_EmitsOnlyChangedSnapshots(t *testing.T) {
	start := time.Now().UTC()
	first := reading(t, 21, start)
	second := reading(t, 38, start.Add(3*time.Second))
	reader := &scriptedReader{snapshots: []queries.ShipmentAlerts{
		{Status: shipment.InTransit, Latest: first},
		{Status: shipment.InTransit, Latest: first},
		{Status: shipment.InTransit, Latest: second, Alerts: services.AlertSet{services.HighTemp}},
		{Status: shipment.Delivered, Latest: second, Alerts: services.AlertSet{services.HighTemp}},
	}}
	sink := &recordingSink{}

	tracking, err := newTracker(reader).Track(context.Background(), kernel.NewUUID(), sink.sink)
	require.NoError(t, err)
	waitDone(t, tracking)

	require.Equal(t, 3, sink.count())
	assert.Same(t, first, sink.snapshots[0].Latest)
	assert.True(t, sink.snapshots[1].Alerts.Contains(services.HighTemp))
	assert.Equal(t, shipment.Delivered, sink.snapshots[2].Status)
}

func TestTelemetryTracker_StopAndContextCancel(t *testing.T) {
	reader := &scriptedReader{snapshots: []queries.ShipmentAlerts{{Status: shipment.Pending}}}

	tracking, err := newTracker(reader).Track(context.Background(), kernel.NewUUID(), (&recordingSink{}).sink)
	require.NoError(t, err)
	tracking.Stop()
	tracking.Stop()
	waitDone(t, tracking)

	ctx, cancel := context.WithCancel(context.Background())
	tracking, err = newTracker(reader).Track(ctx, kernel.NewUUID(), (&recordingSink{}).sink)
	require.NoError(t, err)
	cancel()
	waitDone(t, tracking)
}

func TestTelemetryTracker_SinkFailureEndsTracking(t *testing.T) {
	reader := &scriptedReader{snapshots: []queries.ShipmentAlerts{{Status: shipment.InTransit}}}
	sink := &recordingSink{err: errors.New("client went away")}

	tracking, err := newTracker(reader).Track(context.Background(), kernel.NewUUID(), sink.sink)
	require.NoError(t, err)
	waitDone(t, tracking)

	assert.Equal(t, 1, sink.count())
}

func TestTelemetryTracker_UnknownShipment(t *testing.T) {
	reader := &scriptedReader{err: errs.NewObjectNotFoundError("shipment", "x")}
	sink := &recordingSink{}

	tracking, err := newTracker(reader).Track(context.Background(), kernel.NewUUID(), sink.sink)
	require.NoError(t, err)
	waitDone(t, tracking)

	assert.Zero(t, sink.count())
}

func TestTelemetryTracker_RejectsInvalidArguments(t *testing.T) {
	tracker := newTracker(&scriptedReader{})

	_, err := tracker.Track(context.Background(), kernel.UUID{}, (&recordingSink{}).sink)
	assert.Error(t, err)

	_, err = tracker.Track(context.Background(), kernel.NewUUID(), nil)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}
