// Package postgres provides the GORM-based Unit of Work and the LISTEN/NOTIFY
// change feed.
//
// A unit of work wraps one database transaction shared by every repository it
// hands out. Repositories report the order and shipment aggregates they write
// back to the unit of work; Commit publishes one notification per aggregate on
// ChangesChannel inside the same transaction, so listeners only ever observe
// committed state.
//
// Usage:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() {
//	    _ = uow.Rollback(ctx)
//	}()
//
//	if err := uow.OrderRepository().Update(ctx, o, order.Paid); err != nil {
//	    return err
//	}
//	if err := uow.ShipmentRepository().Add(ctx, s); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Each UnitOfWork instance must be used by a single goroutine.
package postgres

import (
	"context"
	"fmt"

	"supplychain/internal/adapters/out/postgres/attestationrepo"
	"supplychain/internal/adapters/out/postgres/orderrepo"
	"supplychain/internal/adapters/out/postgres/productrepo"
	"supplychain/internal/adapters/out/postgres/shipmentrepo"
	"supplychain/internal/adapters/out/postgres/stockrepo"
	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/core/ports"

	"gorm.io/gorm"
)

// trackedAggregate is an aggregate written during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate interface{}
}

// GormUnitOfWorkFactory creates UnitOfWork instances sharing one connection pool.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	trackedAggregates []trackedAggregate
}

// Begin starts the transaction. Calling it on an active unit of work is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	uow.trackedAggregates = uow.trackedAggregates[:0]
	return nil
}

// Commit publishes change notifications for the tracked aggregates and
// commits. If a notification cannot be queued the transaction is rolled back.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	if err := uow.notify(); err != nil {
		_ = uow.tx.Rollback()
		uow.tx = nil
		return err
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

func (uow *GormUnitOfWork) notify() error {
	for _, tracked := range uow.latestAggregates() {
		payload, ok, err := encodeChange(tracked.Aggregate)
		if err != nil {
			return fmt.Errorf("encode change for %s: %w", tracked.ID, err)
		}
		if !ok {
			continue
		}
		if err = uow.tx.Exec("SELECT pg_notify(?, ?)", ChangesChannel, string(payload)).Error; err != nil {
			return fmt.Errorf("notify change for %s: %w", tracked.ID, err)
		}
	}
	return nil
}

// latestAggregates keeps the last write per aggregate, in first-write order.
func (uow *GormUnitOfWork) latestAggregates() []trackedAggregate {
	index := make(map[kernel.UUID]int, len(uow.trackedAggregates))
	latest := make([]trackedAggregate, 0, len(uow.trackedAggregates))
	for _, tracked := range uow.trackedAggregates {
		if i, ok := index[tracked.ID]; ok {
			latest[i] = tracked
			continue
		}
		index[tracked.ID] = len(latest)
		latest = append(latest, tracked)
	}
	return latest
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

func (uow *GormUnitOfWork) ProductRepository() ports.ProductRepository {
	return productrepo.NewGormProductRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) ShipmentRepository() ports.ShipmentRepository {
	return shipmentrepo.NewGormShipmentRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) StockRepository() ports.StockRepository {
	return stockrepo.NewGormStockRepository(uow.conn())
}

func (uow *GormUnitOfWork) AttestationRepository() ports.AttestationRepository {
	return attestationrepo.NewGormAttestationRepository(uow.conn())
}

// TrackAggregate is called by repositories after a successful write.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate interface{}) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}
