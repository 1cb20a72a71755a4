package order_test

import (
	"testing"
	"time"

	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/core/domain/model/order"
	"supplychain/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var placedAt = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func newPlacedOrder(t *testing.T) *order.Order {
	t.Helper()
	qty, err := kernel.QuantityFromInt(10)
	require.NoError(t, err)
	price, err := kernel.ParseMoney("5")
	require.NoError(t, err)

	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), qty, price, placedAt)
	require.NoError(t, err)
	return o
}

func newAssignedOrder(t *testing.T) (*order.Order, kernel.UUID, kernel.UUID) {
	t.Helper()
	o := newPlacedOrder(t)
	require.NoError(t, o.MarkPaid("0xabc", placedAt.Add(time.Minute)))
	carrierID, shipmentID := kernel.NewUUID(), kernel.NewUUID()
	require.NoError(t, o.Assign(carrierID, shipmentID, placedAt.Add(2*time.Minute)))
	return o, carrierID, shipmentID
}

func TestNewOrder(t *testing.T) {
	t.Run("should compute total and start placed", func(t *testing.T) {
		o := newPlacedOrder(t)

		require.NoError(t, o.Validate())
		assert.Equal(t, order.Placed, o.Status())
		assert.Equal(t, "50.00", o.Total().String())
		assert.Equal(t, placedAt, o.PlacedAt())
		assert.Nil(t, o.CarrierID())
		assert.Nil(t, o.ShipmentID())
		assert.False(t, o.IsReconciled())
	})

	t.Run("should reject zero quantity", func(t *testing.T) {
		price, _ := kernel.ParseMoney("5")

		o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			kernel.ZeroQuantity(), price, placedAt)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Nil(t, o)
	})

	t.Run("should join all validation errors", func(t *testing.T) {
		o, err := order.NewOrder(kernel.UUID{}, kernel.UUID{}, kernel.NewUUID(), kernel.NewUUID(),
			kernel.Quantity{}, kernel.Money{}, time.Time{})

		require.Error(t, err)
		assert.Nil(t, o)
		assert.Contains(t, err.Error(), "UUID must be created")
		assert.Contains(t, err.Error(), "productID")
		assert.Contains(t, err.Error(), "quantity must be created")
		assert.Contains(t, err.Error(), "money must be created")
		assert.Contains(t, err.Error(), "placedAt")
	})
}

func TestOrder_Validate(t *testing.T) {
	var nilOrder *order.Order
	require.ErrorIs(t, nilOrder.Validate(), order.ErrOrderIsNotConstructed)
	require.ErrorIs(t, (&order.Order{}).Validate(), order.ErrOrderIsNotConstructed)
}

func TestOrder_MarkPaid(t *testing.T) {
	t.Run("should pay a placed order", func(t *testing.T) {
		o := newPlacedOrder(t)
		at := placedAt.Add(time.Minute)

		require.NoError(t, o.MarkPaid("0xabc", at))

		assert.Equal(t, order.Paid, o.Status())
		assert.Equal(t, "0xabc", o.PaymentReceipt())
		require.NotNil(t, o.PaidAt())
		assert.Equal(t, at, *o.PaidAt())
	})

	t.Run("should report already paid without changes", func(t *testing.T) {
		o := newPlacedOrder(t)
		require.NoError(t, o.MarkPaid("0xabc", placedAt.Add(time.Minute)))

		err := o.MarkPaid("0xdef", placedAt.Add(time.Hour))

		require.ErrorIs(t, err, errs.ErrAlreadyPaid)
		assert.Equal(t, "0xabc", o.PaymentReceipt())
	})

	t.Run("should report already paid for assigned order", func(t *testing.T) {
		o, _, _ := newAssignedOrder(t)
		require.ErrorIs(t, o.MarkPaid("0xdef", placedAt), errs.ErrAlreadyPaid)
	})

	t.Run("should require receipt", func(t *testing.T) {
		o := newPlacedOrder(t)
		require.ErrorIs(t, o.MarkPaid("", placedAt), errs.ErrValueIsRequired)
		assert.Equal(t, order.Placed, o.Status())
	})
}

func TestOrder_Assign(t *testing.T) {
	t.Run("should bind carrier and shipment", func(t *testing.T) {
		o, carrierID, shipmentID := newAssignedOrder(t)

		assert.Equal(t, order.Assigned, o.Status())
		require.NotNil(t, o.CarrierID())
		assert.True(t, o.CarrierID().IsEqual(carrierID))
		assert.True(t, o.IsBoundTo(shipmentID))
		assert.False(t, o.IsBoundTo(kernel.NewUUID()))
		assert.NotNil(t, o.AssignedAt())
	})

	t.Run("should reject unpaid order", func(t *testing.T) {
		o := newPlacedOrder(t)

		err := o.Assign(kernel.NewUUID(), kernel.NewUUID(), placedAt)

		require.ErrorIs(t, err, errs.ErrInvalidState)
		assert.Nil(t, o.CarrierID())
	})

	t.Run("should reject rebinding", func(t *testing.T) {
		o, carrierID, shipmentID := newAssignedOrder(t)

		err := o.Assign(kernel.NewUUID(), kernel.NewUUID(), placedAt)

		require.ErrorIs(t, err, errs.ErrAlreadyAssigned)
		assert.True(t, o.CarrierID().IsEqual(carrierID))

		var assigned *errs.AlreadyAssignedError
		require.ErrorAs(t, err, &assigned)
		assert.Equal(t, shipmentID.String(), assigned.ShipmentID)
	})
}

func TestOrder_MarkInTransit(t *testing.T) {
	o, _, _ := newAssignedOrder(t)

	changed, err := o.MarkInTransit(placedAt.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, order.InTransit, o.Status())

	changed, err = o.MarkInTransit(placedAt.Add(2 * time.Hour))
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, placedAt.Add(time.Hour), *o.InTransitAt())

	_, err = newPlacedOrder(t).MarkInTransit(placedAt)
	require.ErrorIs(t, err, errs.ErrInvalidState)
}

func TestOrder_ConfirmDelivery(t *testing.T) {
	t.Run("should deliver directly from assigned", func(t *testing.T) {
		o, _, _ := newAssignedOrder(t)

		changed, err := o.ConfirmDelivery(placedAt.Add(time.Hour))

		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, order.Delivered, o.Status())
	})

	t.Run("should be idempotent", func(t *testing.T) {
		o, _, _ := newAssignedOrder(t)
		_, err := o.MarkInTransit(placedAt.Add(time.Hour))
		require.NoError(t, err)
		_, err = o.ConfirmDelivery(placedAt.Add(2 * time.Hour))
		require.NoError(t, err)

		changed, err := o.ConfirmDelivery(placedAt.Add(3 * time.Hour))

		require.NoError(t, err)
		assert.False(t, changed)
		assert.Equal(t, placedAt.Add(2*time.Hour), *o.DeliveredAt())
	})

	t.Run("should reject paid order", func(t *testing.T) {
		o := newPlacedOrder(t)
		require.NoError(t, o.MarkPaid("0xabc", placedAt))

		_, err := o.ConfirmDelivery(placedAt)

		require.ErrorIs(t, err, errs.ErrInvalidState)
	})
}

func TestOrder_MarkReconciled(t *testing.T) {
	o, _, _ := newAssignedOrder(t)

	_, err := o.MarkReconciled(placedAt)
	require.ErrorIs(t, err, errs.ErrInvalidState)

	_, err = o.ConfirmDelivery(placedAt.Add(time.Hour))
	require.NoError(t, err)

	changed, err := o.MarkReconciled(placedAt.Add(2 * time.Hour))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, o.IsReconciled())

	changed, err = o.MarkReconciled(placedAt.Add(3 * time.Hour))
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestRestoreOrder(t *testing.T) {
	qty, _ := kernel.QuantityFromInt(3)
	total, _ := kernel.ParseMoney("15")
	carrierID := kernel.NewUUID()
	base := order.State{
		ID:         kernel.NewUUID(),
		ProductID:  kernel.NewUUID(),
		BuyerID:    kernel.NewUUID(),
		ProducerID: kernel.NewUUID(),
		Quantity:   qty,
		Total:      total,
		PlacedAt:   placedAt,
	}

	t.Run("should restore legacy assigned order without shipment link", func(t *testing.T) {
		s := base
		s.Status = order.Assigned
		s.CarrierID = &carrierID

		o, err := order.RestoreOrder(s)

		require.NoError(t, err)
		assert.Equal(t, order.Assigned, o.Status())
		assert.Nil(t, o.ShipmentID())
	})

	t.Run("should reject assigned order without carrier", func(t *testing.T) {
		s := base
		s.Status = order.Assigned

		_, err := order.RestoreOrder(s)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject paid order with carrier", func(t *testing.T) {
		s := base
		s.Status = order.Paid
		s.CarrierID = &carrierID

		_, err := order.RestoreOrder(s)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject reconciled order that is not delivered", func(t *testing.T) {
		s := base
		s.Status = order.InTransit
		s.CarrierID = &carrierID
		s.Reconciled = true

		_, err := order.RestoreOrder(s)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestOrder_SnapshotRoundTrip(t *testing.T) {
	o, _, shipmentID := newAssignedOrder(t)

	restored, err := order.RestoreOrder(o.Snapshot())

	require.NoError(t, err)
	assert.True(t, restored.IsEqual(o))
	assert.Equal(t, o.Status(), restored.Status())
	assert.True(t, restored.IsBoundTo(shipmentID))
	assert.Equal(t, o.Total().String(), restored.Total().String())
}
