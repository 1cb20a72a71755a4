// Package commands contains the business operations that modify the supply
// chain: catalog changes, order and shipment transitions, carrier binding,
// stock reconciliation, telemetry ingestion and delivery attestation.
// All commands follow the same pattern: validation, transaction management
// and persistence through guarded conditional updates.
package commands

import (
	"context"

	"supplychain/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	ProductRepoFactory interface {
		ProductRepository() ports.ProductRepository
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	ShipmentRepoFactory interface {
		ShipmentRepository() ports.ShipmentRepository
	}

	StockRepoFactory interface {
		StockRepository() ports.StockRepository
	}

	AttestationRepoFactory interface {
		AttestationRepository() ports.AttestationRepository
	}

	// ProductUoW manages transactions for catalog-only operations.
	ProductUoW interface {
		TxManager
		ProductRepoFactory
	}

	ProductUoWFactory interface {
		Create() ProductUoW
	}

	// AttestationUoW manages transactions for attestation bookkeeping.
	AttestationUoW interface {
		TxManager
		AttestationRepoFactory
	}

	AttestationUoWFactory interface {
		Create() AttestationUoW
	}

	// UoW manages transactions across all supply-chain aggregates. Used for
	// commands that coordinate orders, shipments and stock.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   orderRepo := uow.OrderRepository()
	//   shipmentRepo := uow.ShipmentRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		ProductRepoFactory
		OrderRepoFactory
		ShipmentRepoFactory
		StockRepoFactory
		AttestationRepoFactory
	}

	UoWFactory interface {
		Create() UoW
	}
)
