package shipment_test

import (
	"testing"

	"supplychain/internal/core/domain/model/shipment"
	"supplychain/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input string
		want  shipment.Status
	}{
		{"pending", shipment.Pending},
		{"in_transit", shipment.InTransit},
		{"in transit", shipment.InTransit},
		{"In Transit", shipment.InTransit},
		{"delivered", shipment.Delivered},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := shipment.ParseStatus(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := shipment.ParseStatus("lost")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	_, err = shipment.ParseStatus("unknown")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestStatus_IsActive(t *testing.T) {
	assert.True(t, shipment.Pending.IsActive())
	assert.True(t, shipment.InTransit.IsActive())
	assert.False(t, shipment.Delivered.IsActive())
	assert.False(t, shipment.Unknown.IsActive())
}

func TestStatus_Transitions(t *testing.T) {
	next, err := shipment.Pending.Depart()
	require.NoError(t, err)
	assert.Equal(t, shipment.InTransit, next)

	next, err = shipment.InTransit.Arrive()
	require.NoError(t, err)
	assert.Equal(t, shipment.Delivered, next)

	_, err = shipment.InTransit.Depart()
	require.ErrorIs(t, err, errs.ErrInvalidState)
	_, err = shipment.Pending.Arrive()
	require.ErrorIs(t, err, errs.ErrInvalidState)
	_, err = shipment.Delivered.Arrive()
	require.ErrorIs(t, err, errs.ErrInvalidState)
}
