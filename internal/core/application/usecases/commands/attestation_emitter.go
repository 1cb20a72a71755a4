package commands

import (
	"context"
	"errors"
	"time"

	"supplychain/internal/core/domain/model/attestation"
	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/core/ports"
	"supplychain/internal/pkg/errs"
)

// AttestationEmitter writes delivery attestations to the external ledger.
//
// Business rules:
//   - at most one record exists per reference; emitting again for a reference
//     returns the stored record without calling the ledger
//   - the ledger is called exactly once per attempt
//   - a failed call is stored as failed and reported as AttestationFailed;
//     it is only attempted again through Retry
//   - the outcome is stored even when the caller's context ends after the
//     ledger call; a record left pending longer than StalePendingAfter can be
//     retried as well
type AttestationEmitter struct {
	uowFactory AttestationUoWFactory
	ledger     ports.AttestationLedger
}

func NewAttestationEmitter(uowFactory AttestationUoWFactory, ledger ports.AttestationLedger) AttestationEmitter {
	return AttestationEmitter{
		uowFactory: uowFactory,
		ledger:     ledger,
	}
}

// Emit records the delivery of referenceID.
func (e AttestationEmitter) Emit(
	ctx context.Context,
	kind attestation.Kind,
	referenceID kernel.UUID,
	payload []byte,
) (*attestation.Attestation, error) {
	a, err := attestation.NewAttestation(kernel.NewUUID(), kind, referenceID, payload, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	stored, inserted, err := e.insert(ctx, a)
	if err != nil {
		return nil, err
	}
	if !inserted {
		return stored, storedOutcome(stored)
	}

	return e.attempt(ctx, a)
}

// storedOutcome reports an existing record that is not recorded as
// AttestationFailed, so an earlier failure is never hidden behind a second emit.
func storedOutcome(a *attestation.Attestation) error {
	switch a.Status() {
	case attestation.Recorded:
		return nil
	case attestation.Failed:
		return errs.NewAttestationFailedError(a.ID().String(), a.ReferenceID().String(), errors.New(a.LastError()))
	default:
		return errs.NewAttestationFailedError(a.ID().String(), a.ReferenceID().String(), attestation.ErrOutcomeNotStored)
	}
}

// Retry makes one more ledger call for a failed or stale pending record.
func (e AttestationEmitter) Retry(ctx context.Context, id kernel.UUID) (*attestation.Attestation, error) {
	if err := e.interruptIfStale(ctx, id); err != nil {
		return nil, err
	}

	uow := e.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.AttestationRepository()
	a, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err = a.Retry(time.Now().UTC()); err != nil {
		return nil, err
	}

	if err = repo.Update(ctx, a, attestation.Failed); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return e.attempt(ctx, a)
}

// interruptIfStale fails a stale pending record in its own transaction. Of
// several concurrent retries only one passes the pending guard.
func (e AttestationEmitter) interruptIfStale(ctx context.Context, id kernel.UUID) error {
	uow := e.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.AttestationRepository()
	a, err := repo.Get(ctx, id)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if !a.IsStale(now) {
		return nil
	}
	if err = a.Interrupt(now); err != nil {
		return err
	}
	if err = repo.Update(ctx, a, attestation.Pending); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func (e AttestationEmitter) insert(
	ctx context.Context,
	a *attestation.Attestation,
) (*attestation.Attestation, bool, error) {
	uow := e.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.AttestationRepository()
	inserted, err := repo.Add(ctx, a)
	if err != nil {
		return nil, false, err
	}

	stored := a
	if !inserted {
		stored, err = repo.GetByReference(ctx, a.ReferenceID())
		if err != nil {
			return nil, false, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, false, err
	}

	return stored, inserted, nil
}

// attempt calls the ledger for a pending record and stores the outcome. The
// outcome is written on a context detached from the caller's cancellation.
func (e AttestationEmitter) attempt(ctx context.Context, a *attestation.Attestation) (*attestation.Attestation, error) {
	receipt, ledgerErr := e.ledger.RecordDelivery(ctx, a.ReferenceID().String(), a.Payload())

	now := time.Now().UTC()
	var err error
	if ledgerErr != nil {
		err = a.Fail(ledgerErr, now)
	} else {
		err = a.Record(receipt, now)
	}
	if err != nil {
		return nil, err
	}

	if err = e.storeOutcome(context.WithoutCancel(ctx), a); err != nil {
		return a, errs.NewAttestationFailedError(a.ID().String(), a.ReferenceID().String(), err)
	}

	if ledgerErr != nil {
		return a, errs.NewAttestationFailedError(a.ID().String(), a.ReferenceID().String(), ledgerErr)
	}
	return a, nil
}

func (e AttestationEmitter) storeOutcome(ctx context.Context, a *attestation.Attestation) error {
	uow := e.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.AttestationRepository().Update(ctx, a, attestation.Pending); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
