// Package services provides domain services that coordinate orders, shipments
// and stock, for rules that do not belong to a single aggregate.
//
// The package includes:
//   - AssignmentBinder: binds a paid order to a carrier and creates its shipment
//   - StockReconciler: turns delivered orders into buyer stock by max-assignment
//   - AlertEvaluator: derives threshold alerts from the latest telemetry reading
//
// All services are pure: they mutate the aggregates they are given and leave
// persistence to the application layer.
package services
