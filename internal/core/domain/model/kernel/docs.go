// Package kernel provides the value objects shared by every aggregate of the
// supply-chain domain.
//
// The package includes:
//   - UUID: identifier of products, orders, shipments, stock entries and attestations
//   - Quantity and Money: non-negative decimal amounts
//   - GeoPoint: a validated latitude/longitude pair reported by telemetry
//   - Actor and Role: the caller of an operation (producer, carrier or buyer)
//
// Value objects are immutable and their zero values are invalid; use the
// constructors.
package kernel
