package services_test

import (
	"testing"
	"time"

	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/core/domain/model/order"

	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func quantity(t *testing.T, v int64) kernel.Quantity {
	t.Helper()
	q, err := kernel.QuantityFromInt(v)
	require.NoError(t, err)
	return q
}

func paidOrder(t *testing.T, producerID kernel.UUID, qty int64) *order.Order {
	t.Helper()
	price, err := kernel.ParseMoney("5")
	require.NoError(t, err)

	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), producerID, quantity(t, qty), price, now)
	require.NoError(t, err)
	require.NoError(t, o.MarkPaid("0xpay", now))
	return o
}

func producer(t *testing.T) kernel.Actor {
	t.Helper()
	a, err := kernel.NewActor(kernel.NewUUID(), kernel.RoleProducer)
	require.NoError(t, err)
	return a
}
