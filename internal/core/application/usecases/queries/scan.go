package queries

import (
	"database/sql"
	"time"

	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/pkg/errs"

	"github.com/google/uuid"
)

type idTarget struct {
	raw uuid.UUID
	dst *kernel.UUID
}

func scanIDs(targets ...idTarget) error {
	for _, t := range targets {
		id, err := kernel.UUIDFromBytes(t.raw[:])
		if err != nil {
			return err
		}
		*t.dst = id
	}
	return nil
}

func nullableID(raw uuid.NullUUID) (*kernel.UUID, error) {
	if !raw.Valid {
		return nil, nil
	}
	id, err := kernel.UUIDFromBytes(raw.UUID[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func nullableTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	at := t.Time
	return &at
}

func partyColumn(role kernel.Role, columns map[kernel.Role]string) (string, error) {
	column, ok := columns[role]
	if !ok {
		return "", errs.NewUnauthorizedError(string(role), "list")
	}
	return column, nil
}
