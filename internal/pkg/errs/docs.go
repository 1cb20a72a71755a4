// Package errs provides standardized error types for the supply-chain service.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// Validation errors:
//   - ValueIsRequiredError: a required value is missing
//   - ValueIsInvalidError: a value is invalid
//   - ValueIsOutOfRangeError: a value is outside of its allowed range
//   - ObjectNotFoundError: an object cannot be found
//
// Lifecycle and integrity errors:
//   - InvalidStateError: a transition was requested from the wrong state
//   - UnauthorizedError: the actor or role does not match
//   - AlreadyAssignedError, AlreadyPaidError: idempotent no-op conditions
//   - AttestationFailedError: the external ledger call failed after the local commit
//   - AmbiguousBindingError: an order is matched by more than one shipment
//   - MalformedDocumentError: a document could not be parsed into its entity
//
// Each error type follows the same pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method returning the sentinel, so errors.Is works
package errs
