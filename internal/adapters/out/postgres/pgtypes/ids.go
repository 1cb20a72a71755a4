// Package pgtypes converts between domain identifiers and the uuid columns
// used by the repositories.
package pgtypes

import (
	"supplychain/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

func ID(raw uuid.UUID) (kernel.UUID, error) {
	return kernel.UUIDFromBytes(raw[:])
}

// NullableID maps a nullable column to an optional domain id.
func NullableID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := ID(*raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func RawID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}
