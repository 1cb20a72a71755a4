package ports

import (
	"context"
	"encoding/json"

	"supplychain/internal/core/domain/model/kernel"
)

// Collections published on the change feed.
const (
	OrdersCollection    = "orders"
	ShipmentsCollection = "shipments"
)

// Change is one committed write observed on the change feed.
type Change struct {
	Collection string
	ID         kernel.UUID
	Status     string
	Document   json.RawMessage
}

// ChangeQuery filters a subscription by collection and, optionally, by status.
type ChangeQuery struct {
	Collection string
	Status     string
}

// Matches reports whether c satisfies the query's equality predicates.
func (q ChangeQuery) Matches(c Change) bool {
	return c.Collection == q.Collection && (q.Status == "" || q.Status == c.Status)
}

// Subscription is an isolated handle on a change stream. The channel is closed
// when the subscription ends; Close must be called by the owner.
type Subscription interface {
	Changes() <-chan Change
	Close() error
}

// ChangeFeed opens push subscriptions on committed writes. A subscription ends
// when ctx is done or Close is called, whichever happens first.
type ChangeFeed interface {
	Subscribe(ctx context.Context, query ChangeQuery) (Subscription, error)
}
