package commands_test

import (
	"testing"
	"time"

	"supplychain/internal/core/application/usecases/commands"
	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/core/domain/model/telemetry"
	"supplychain/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendReading_StoresLatest(t *testing.T) {
	sc := newSupplyChain(t)
	_, shipmentID := sc.inTransit(t, 2)
	at := time.Now().UTC()

	for i := range 3 {
		cmd, err := commands.NewAppendReadingCommand(sc.carrier, reading(t, shipmentID, at.Add(time.Duration(i)*time.Second)))
		require.NoError(t, err)
		require.NoError(t, sc.appendReading.Handle(t.Context(), cmd))
	}

	latest, ok, err := sc.feed.Latest(t.Context(), shipmentID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, at.Add(2*time.Second), latest.RecordedAt())
}

func TestAppendReading_PendingShipmentAccepted(t *testing.T) {
	sc := newSupplyChain(t)
	_, shipmentID := sc.bound(t, 2)

	cmd, err := commands.NewAppendReadingCommand(sc.carrier, reading(t, shipmentID, time.Now().UTC()))
	require.NoError(t, err)
	require.NoError(t, sc.appendReading.Handle(t.Context(), cmd))
}

func TestAppendReading_TimestampNotAfterLatest(t *testing.T) {
	sc := newSupplyChain(t)
	_, shipmentID := sc.inTransit(t, 2)
	at := time.Now().UTC()

	cmd, err := commands.NewAppendReadingCommand(sc.carrier, reading(t, shipmentID, at))
	require.NoError(t, err)
	require.NoError(t, sc.appendReading.Handle(t.Context(), cmd))

	for _, ts := range []time.Time{at, at.Add(-time.Second)} {
		cmd, err = commands.NewAppendReadingCommand(sc.carrier, reading(t, shipmentID, ts))
		require.NoError(t, err)
		err = sc.appendReading.Handle(t.Context(), cmd)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	}
}

func TestAppendReading_DeliveredShipment(t *testing.T) {
	sc := newSupplyChain(t)
	_, shipmentID := sc.delivered(t, 2)

	cmd, err := commands.NewAppendReadingCommand(sc.carrier, reading(t, shipmentID, time.Now().UTC()))
	require.NoError(t, err)

	err = sc.appendReading.Handle(t.Context(), cmd)
	require.ErrorIs(t, err, errs.ErrInvalidState)
}

func TestAppendReading_OtherCarrier(t *testing.T) {
	sc := newSupplyChain(t)
	_, shipmentID := sc.inTransit(t, 2)

	cmd, err := commands.NewAppendReadingCommand(actor(t, kernel.RoleCarrier), reading(t, shipmentID, time.Now().UTC()))
	require.NoError(t, err)

	err = sc.appendReading.Handle(t.Context(), cmd)
	require.ErrorIs(t, err, errs.ErrUnauthorized)

	_, ok, err := sc.feed.Latest(t.Context(), shipmentID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewAppendReadingCommand_RequiresCarrier(t *testing.T) {
	_, err := commands.NewAppendReadingCommand(actor(t, kernel.RoleBuyer), reading(t, kernel.NewUUID(), time.Now()))
	require.ErrorIs(t, err, errs.ErrUnauthorized)

	_, err = commands.NewAppendReadingCommand(actor(t, kernel.RoleCarrier), telemetry.Reading{})
	require.Error(t, err)
}
