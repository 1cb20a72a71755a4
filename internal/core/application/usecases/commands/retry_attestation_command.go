package commands

import (
	"errors"

	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/pkg/guard"
)

var ErrRetryAttestationCommandIsNotConstructed = errors.New(
	"RetryAttestationCommand must be created via NewRetryAttestationCommand constructor",
)

// RetryAttestationCommand is an operator's request to resend a failed attestation.
type RetryAttestationCommand struct {
	attestationID kernel.UUID

	guard guard.ConstructorGuard
}

func NewRetryAttestationCommand(attestationID kernel.UUID) (RetryAttestationCommand, error) {
	if err := attestationID.Validate(); err != nil {
		return RetryAttestationCommand{}, err
	}

	return RetryAttestationCommand{
		attestationID: attestationID,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (c RetryAttestationCommand) Validate() error {
	return c.guard.Validate(ErrRetryAttestationCommandIsNotConstructed)
}

func (c RetryAttestationCommand) AttestationID() kernel.UUID {
	return c.attestationID
}
