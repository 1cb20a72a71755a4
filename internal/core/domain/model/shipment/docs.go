// Package shipment implements the Shipment aggregate: a carrier's transfer of
// an order's goods, pending -> in_transit -> delivered.
//
// Only the carrier bound to a shipment may drive its transitions. Each
// transition is guarded on the prior status so concurrent attempts are settled
// by a single conditional write in the repository.
package shipment
