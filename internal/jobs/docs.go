// Package jobs provides scheduled background tasks for the supply-chain service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. TelemetryTracker - polls the latest reading and alert set of one shipment
// on a fixed interval (3 seconds by default) and hands changed snapshots to a
// sink, e.g. a server-sent event stream
// 2. SensorSimulationJob - development job that reports a random reading for
// every active shipment on the same interval
//
// # Usage
//
//	tracker := jobs.NewTelemetryTracker(alertsHandler, interval, logger, jobMetrics, domainMetrics)
//	tracking, err := tracker.Track(ctx, shipmentID, sink)
//	if err != nil {
//		return err
//	}
//	<-tracking.Done()
//
// Long-running jobs are managed through JobManager:
//
//	jobManager := jobs.NewJobManager(simulation)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - A tracking ends on its own once the shipment is delivered or unknown
// - Simulation failures for one shipment are logged and do not affect others
// - Failed job starts will stop any already running jobs
package jobs
