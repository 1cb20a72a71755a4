package commands_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"supplychain/internal/core/application/usecases/commands"
	"supplychain/internal/core/domain/model/attestation"
	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/core/domain/model/order"
	"supplychain/internal/core/domain/model/product"
	"supplychain/internal/core/domain/model/shipment"
	"supplychain/internal/core/domain/model/stock"
	"supplychain/internal/core/domain/model/telemetry"
	"supplychain/internal/core/ports"
	"supplychain/internal/pkg/errs"
)

// memoryStore is an in-memory document store with the same conditional
// update semantics as the postgres repositories. Every write made inside a
// memoryUoW is undone on rollback.
type memoryStore struct {
	mu sync.Mutex

	products     map[kernel.UUID]*product.Product
	orders       map[kernel.UUID]order.State
	shipments    map[kernel.UUID]shipment.State
	stock        map[stockKey]*stock.Entry
	attestations map[kernel.UUID]*attestation.Attestation

	// beforeOrderUpdate runs under the lock right before a conditional order
	// update is evaluated. Tests use it to simulate a concurrent writer.
	beforeOrderUpdate func(stored *order.State)
}

type stockKey struct {
	buyerID   kernel.UUID
	productID kernel.UUID
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		products:     make(map[kernel.UUID]*product.Product),
		orders:       make(map[kernel.UUID]order.State),
		shipments:    make(map[kernel.UUID]shipment.State),
		stock:        make(map[stockKey]*stock.Entry),
		attestations: make(map[kernel.UUID]*attestation.Attestation),
	}
}

func (s *memoryStore) order(id kernel.UUID) order.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orders[id]
}

func (s *memoryStore) shipment(id kernel.UUID) shipment.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shipments[id]
}

func (s *memoryStore) shipmentsForOrder(orderID kernel.UUID) []shipment.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []shipment.State
	for _, st := range s.shipments {
		if st.OrderID != nil && st.OrderID.IsEqual(orderID) {
			result = append(result, st)
		}
	}
	return result
}

func (s *memoryStore) stockEntry(buyerID, productID kernel.UUID) (*stock.Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.stock[stockKey{buyerID, productID}]
	return e, ok
}

func (s *memoryStore) attestationFor(referenceID kernel.UUID) (*attestation.Attestation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.attestations {
		if a.ReferenceID().IsEqual(referenceID) {
			return cloneAttestation(a), true
		}
	}
	return nil, false
}

func (s *memoryStore) attestationCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.attestations)
}

type memoryFactory struct {
	store *memoryStore
}

func (f memoryFactory) Create() commands.UoW {
	return &memoryUoW{store: f.store}
}

type memoryProductFactory struct {
	store *memoryStore
}

func (f memoryProductFactory) Create() commands.ProductUoW {
	return &memoryUoW{store: f.store}
}

type memoryAttestationFactory struct {
	store *memoryStore
}

func (f memoryAttestationFactory) Create() commands.AttestationUoW {
	return &memoryUoW{store: f.store}
}

type memoryUoW struct {
	store  *memoryStore
	active bool
	undo   []func()
}

func (u *memoryUoW) Begin(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if u.active {
		return fmt.Errorf("transaction already started")
	}
	u.active = true
	return nil
}

func (u *memoryUoW) Commit(context.Context) error {
	if !u.active {
		return fmt.Errorf("no transaction")
	}
	u.active = false
	u.undo = nil
	return nil
}

func (u *memoryUoW) Rollback(context.Context) error {
	if !u.active {
		return nil
	}
	u.store.mu.Lock()
	for i := len(u.undo) - 1; i >= 0; i-- {
		u.undo[i]()
	}
	u.store.mu.Unlock()
	u.active = false
	u.undo = nil
	return nil
}

func (u *memoryUoW) journal(f func()) {
	u.undo = append(u.undo, f)
}

func (u *memoryUoW) ProductRepository() ports.ProductRepository {
	return memoryProductRepo{u}
}

func (u *memoryUoW) OrderRepository() ports.OrderRepository {
	return memoryOrderRepo{u}
}

func (u *memoryUoW) ShipmentRepository() ports.ShipmentRepository {
	return memoryShipmentRepo{u}
}

func (u *memoryUoW) StockRepository() ports.StockRepository {
	return memoryStockRepo{u}
}

func (u *memoryUoW) AttestationRepository() ports.AttestationRepository {
	return memoryAttestationRepo{u}
}

type memoryProductRepo struct{ uow *memoryUoW }

func (r memoryProductRepo) Add(_ context.Context, p *product.Product) error {
	st := r.uow.store
	st.mu.Lock()
	defer st.mu.Unlock()
	st.products[p.ID()] = cloneProduct(p)
	r.uow.journal(func() { delete(st.products, p.ID()) })
	return nil
}

func (r memoryProductRepo) Update(_ context.Context, p *product.Product) error {
	st := r.uow.store
	st.mu.Lock()
	defer st.mu.Unlock()
	prev, ok := st.products[p.ID()]
	if !ok {
		return errs.NewObjectNotFoundError("product", p.ID())
	}
	st.products[p.ID()] = cloneProduct(p)
	r.uow.journal(func() { st.products[p.ID()] = prev })
	return nil
}

func (r memoryProductRepo) Get(_ context.Context, id kernel.UUID) (*product.Product, error) {
	st := r.uow.store
	st.mu.Lock()
	defer st.mu.Unlock()
	p, ok := st.products[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("product", id)
	}
	return cloneProduct(p), nil
}

type memoryOrderRepo struct{ uow *memoryUoW }

func (r memoryOrderRepo) Add(_ context.Context, o *order.Order) error {
	st := r.uow.store
	st.mu.Lock()
	defer st.mu.Unlock()
	st.orders[o.ID()] = o.Snapshot()
	r.uow.journal(func() { delete(st.orders, o.ID()) })
	return nil
}

func (r memoryOrderRepo) Update(_ context.Context, o *order.Order, expected order.Status) error {
	st := r.uow.store
	st.mu.Lock()
	defer st.mu.Unlock()
	prev, ok := st.orders[o.ID()]
	if !ok {
		return errs.NewObjectNotFoundError("order", o.ID())
	}
	if st.beforeOrderUpdate != nil {
		st.beforeOrderUpdate(&prev)
		st.orders[o.ID()] = prev
	}
	if prev.Status != expected {
		if expected == order.Paid && prev.Status >= order.Assigned {
			carrier, shipmentID := "", ""
			if prev.CarrierID != nil {
				carrier = prev.CarrierID.String()
			}
			if prev.ShipmentID != nil {
				shipmentID = prev.ShipmentID.String()
			}
			return errs.NewAlreadyAssignedError(o.ID().String(), carrier).WithShipment(shipmentID)
		}
		return errs.NewInvalidStateError("order", prev.Status.String(), "update from "+expected.String())
	}
	st.orders[o.ID()] = o.Snapshot()
	r.uow.journal(func() { st.orders[o.ID()] = prev })
	return nil
}

func (r memoryOrderRepo) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	st := r.uow.store
	st.mu.Lock()
	defer st.mu.Unlock()
	state, ok := st.orders[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id)
	}
	return order.RestoreOrder(state)
}

func (r memoryOrderRepo) FindDeliveredForShipment(_ context.Context, s *shipment.Shipment) ([]*order.Order, error) {
	st := r.uow.store
	st.mu.Lock()
	defer st.mu.Unlock()
	var result []*order.Order
	for _, state := range st.orders {
		if state.Status != order.Delivered {
			continue
		}
		linked := (state.ShipmentID != nil && state.ShipmentID.IsEqual(s.ID())) ||
			(s.OrderID() != nil && s.OrderID().IsEqual(state.ID))
		legacy := state.ShipmentID == nil && state.CarrierID != nil &&
			s.Matches(state.ProductID, *state.CarrierID) && s.BuyerID().IsEqual(state.BuyerID)
		if linked || legacy {
			o, err := order.RestoreOrder(state)
			if err != nil {
				return nil, err
			}
			result = append(result, o)
		}
	}
	return result, nil
}

func (r memoryOrderRepo) MarkReconciled(_ context.Context, id kernel.UUID, at time.Time) (bool, error) {
	st := r.uow.store
	st.mu.Lock()
	defer st.mu.Unlock()
	prev, ok := st.orders[id]
	if !ok {
		return false, errs.NewObjectNotFoundError("order", id)
	}
	if prev.Reconciled || prev.Status != order.Delivered {
		return false, nil
	}
	next := prev
	next.Reconciled = true
	next.ReconciledAt = &at
	st.orders[id] = next
	r.uow.journal(func() { st.orders[id] = prev })
	return true, nil
}

type memoryShipmentRepo struct{ uow *memoryUoW }

func (r memoryShipmentRepo) Add(_ context.Context, s *shipment.Shipment) error {
	st := r.uow.store
	st.mu.Lock()
	defer st.mu.Unlock()
	st.shipments[s.ID()] = s.Snapshot()
	r.uow.journal(func() { delete(st.shipments, s.ID()) })
	return nil
}

func (r memoryShipmentRepo) Update(_ context.Context, s *shipment.Shipment, expected shipment.Status) error {
	st := r.uow.store
	st.mu.Lock()
	defer st.mu.Unlock()
	prev, ok := st.shipments[s.ID()]
	if !ok {
		return errs.NewObjectNotFoundError("shipment", s.ID())
	}
	if prev.Status != expected {
		return errs.NewInvalidStateError("shipment", prev.Status.String(), "update from "+expected.String())
	}
	st.shipments[s.ID()] = s.Snapshot()
	r.uow.journal(func() { st.shipments[s.ID()] = prev })
	return nil
}

func (r memoryShipmentRepo) Get(_ context.Context, id kernel.UUID) (*shipment.Shipment, error) {
	st := r.uow.store
	st.mu.Lock()
	defer st.mu.Unlock()
	state, ok := st.shipments[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("shipment", id)
	}
	return shipment.RestoreShipment(state)
}

func (r memoryShipmentRepo) FindBoundToOrder(_ context.Context, o *order.Order) ([]*shipment.Shipment, error) {
	st := r.uow.store
	st.mu.Lock()
	defer st.mu.Unlock()
	var result []*shipment.Shipment
	for _, state := range st.shipments {
		byOrder := state.OrderID != nil && state.OrderID.IsEqual(o.ID())
		byShipment := o.IsBoundTo(state.ID)
		legacy := o.ShipmentID() == nil && state.OrderID == nil && o.CarrierID() != nil &&
			state.CarrierID.IsEqual(*o.CarrierID()) && state.ProductID.IsEqual(o.ProductID()) &&
			state.BuyerID.IsEqual(o.BuyerID())
		if byOrder || byShipment || legacy {
			s, err := shipment.RestoreShipment(state)
			if err != nil {
				return nil, err
			}
			result = append(result, s)
		}
	}
	return result, nil
}

func (r memoryShipmentRepo) ListActive(_ context.Context) ([]*shipment.Shipment, error) {
	st := r.uow.store
	st.mu.Lock()
	defer st.mu.Unlock()
	var result []*shipment.Shipment
	for _, state := range st.shipments {
		if !state.Status.IsActive() {
			continue
		}
		s, err := shipment.RestoreShipment(state)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, nil
}

type memoryStockRepo struct{ uow *memoryUoW }

func (r memoryStockRepo) Get(_ context.Context, buyerID, productID kernel.UUID) (*stock.Entry, error) {
	st := r.uow.store
	st.mu.Lock()
	defer st.mu.Unlock()
	e, ok := st.stock[stockKey{buyerID, productID}]
	if !ok {
		return nil, errs.NewObjectNotFoundError("stock", buyerID.String()+"/"+productID.String())
	}
	return cloneEntry(e), nil
}

func (r memoryStockRepo) Upsert(_ context.Context, e *stock.Entry) error {
	st := r.uow.store
	st.mu.Lock()
	defer st.mu.Unlock()
	key := stockKey{e.BuyerID(), e.ProductID()}
	prev, ok := st.stock[key]
	if !ok {
		st.stock[key] = cloneEntry(e)
		r.uow.journal(func() { delete(st.stock, key) })
		return nil
	}
	next, err := stock.RestoreEntry(prev.ID(), prev.BuyerID(), prev.ProductID(),
		prev.Quantity().Max(e.Quantity()), prev.CreatedAt(), e.UpdatedAt())
	if err != nil {
		return err
	}
	st.stock[key] = next
	r.uow.journal(func() { st.stock[key] = prev })
	return nil
}

func (r memoryStockRepo) SumForProduct(_ context.Context, productID kernel.UUID) (kernel.Quantity, error) {
	st := r.uow.store
	st.mu.Lock()
	defer st.mu.Unlock()
	total := kernel.ZeroQuantity()
	for key, e := range st.stock {
		if key.productID.IsEqual(productID) {
			total = total.Add(e.Quantity())
		}
	}
	return total, nil
}

type memoryAttestationRepo struct{ uow *memoryUoW }

func (r memoryAttestationRepo) Add(_ context.Context, a *attestation.Attestation) (bool, error) {
	st := r.uow.store
	st.mu.Lock()
	defer st.mu.Unlock()
	for _, existing := range st.attestations {
		if existing.ReferenceID().IsEqual(a.ReferenceID()) {
			return false, nil
		}
	}
	st.attestations[a.ID()] = cloneAttestation(a)
	r.uow.journal(func() { delete(st.attestations, a.ID()) })
	return true, nil
}

func (r memoryAttestationRepo) Update(_ context.Context, a *attestation.Attestation, expected attestation.Status) error {
	st := r.uow.store
	st.mu.Lock()
	defer st.mu.Unlock()
	prev, ok := st.attestations[a.ID()]
	if !ok {
		return errs.NewObjectNotFoundError("attestation", a.ID())
	}
	if prev.Status() != expected {
		return errs.NewInvalidStateError("attestation", string(prev.Status()), "update from "+string(expected))
	}
	st.attestations[a.ID()] = cloneAttestation(a)
	r.uow.journal(func() { st.attestations[a.ID()] = prev })
	return nil
}

func (r memoryAttestationRepo) Get(_ context.Context, id kernel.UUID) (*attestation.Attestation, error) {
	st := r.uow.store
	st.mu.Lock()
	defer st.mu.Unlock()
	a, ok := st.attestations[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("attestation", id)
	}
	return cloneAttestation(a), nil
}

func (r memoryAttestationRepo) GetByReference(_ context.Context, referenceID kernel.UUID) (*attestation.Attestation, error) {
	st := r.uow.store
	st.mu.Lock()
	defer st.mu.Unlock()
	for _, a := range st.attestations {
		if a.ReferenceID().IsEqual(referenceID) {
			return cloneAttestation(a), nil
		}
	}
	return nil, errs.NewObjectNotFoundError("attestation", referenceID)
}

func cloneProduct(p *product.Product) *product.Product {
	c, err := product.RestoreProduct(p.ID(), p.OwnerID(), p.Name(), p.Category(), p.UnitPrice(),
		p.Unit(), p.Quantity(), p.CreatedAt(), p.UpdatedAt())
	if err != nil {
		panic(err)
	}
	return c
}

func cloneEntry(e *stock.Entry) *stock.Entry {
	c, err := stock.RestoreEntry(e.ID(), e.BuyerID(), e.ProductID(), e.Quantity(), e.CreatedAt(), e.UpdatedAt())
	if err != nil {
		panic(err)
	}
	return c
}

func cloneAttestation(a *attestation.Attestation) *attestation.Attestation {
	c, err := attestation.RestoreAttestation(a.ID(), a.Kind(), a.ReferenceID(), a.Payload(), a.Status(),
		a.Receipt(), a.LastError(), a.Attempts(), a.CreatedAt(), a.UpdatedAt())
	if err != nil {
		panic(err)
	}
	return c
}

// fakeLedger counts ledger calls and fails while err is set. onCall runs
// inside every call.
type fakeLedger struct {
	mu     sync.Mutex
	calls  int
	err    error
	onCall func()
}

func (l *fakeLedger) RecordDelivery(_ context.Context, _ string, _ []byte) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	if l.onCall != nil {
		l.onCall()
	}
	if l.err != nil {
		return "", l.err
	}
	return fmt.Sprintf("amqp:%d", l.calls), nil
}

func (l *fakeLedger) Calls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

type memoryFeed struct {
	mu       sync.Mutex
	readings map[kernel.UUID][]telemetry.Reading
}

func newMemoryFeed() *memoryFeed {
	return &memoryFeed{readings: make(map[kernel.UUID][]telemetry.Reading)}
}

func (f *memoryFeed) Append(_ context.Context, r telemetry.Reading) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readings[r.ShipmentID()] = append(f.readings[r.ShipmentID()], r)
	return nil
}

func (f *memoryFeed) Latest(_ context.Context, shipmentID kernel.UUID) (telemetry.Reading, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rs := f.readings[shipmentID]
	if len(rs) == 0 {
		return telemetry.Reading{}, false, nil
	}
	return rs[len(rs)-1], true, nil
}
