// Package order implements the Order aggregate: a buyer's purchase of a
// product, from placement through payment, carrier binding and delivery.
//
// The package includes:
//   - Order: the aggregate root holding parties, quantity, total, binding and timestamps
//   - Status: the placed -> paid -> assigned -> in_transit -> delivered state machine
//
// Key business rules:
//   - paying twice yields AlreadyPaid, binding twice yields AlreadyAssigned
//   - binding an unpaid order yields InvalidState
//   - in_transit is a projection of the bound shipment and is never requested directly
//   - delivery confirmation is idempotent and may arrive from the buyer or the shipment
package order
