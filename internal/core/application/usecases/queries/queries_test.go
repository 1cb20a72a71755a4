package queries_test

import (
	"testing"

	"supplychain/internal/core/application/usecases/queries"
	"supplychain/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewListOrdersQuery(t *testing.T) {
	actor, err := kernel.NewActor(kernel.NewUUID(), kernel.RoleProducer)
	require.NoError(t, err)

	query, err := queries.NewListOrdersQuery(actor)

	require.NoError(t, err)
	assert.NoError(t, query.Validate())
	assert.Equal(t, actor, query.Actor())
}

func TestNewListOrdersQuery_AnonymousActor(t *testing.T) {
	_, err := queries.NewListOrdersQuery(kernel.Actor{})

	assert.Error(t, err)
}

func TestListQueries_NotConstructedViaConstructor(t *testing.T) {
	assert.ErrorIs(t, queries.ListOrdersQuery{}.Validate(), queries.ErrListOrdersQueryIsNotConstructed)
	assert.ErrorIs(t, queries.ListShipmentsQuery{}.Validate(), queries.ErrListShipmentsQueryIsNotConstructed)
	assert.ErrorIs(t, queries.ListBuyerStockQuery{}.Validate(), queries.ErrListBuyerStockQueryIsNotConstructed)
	assert.ErrorIs(t, queries.GetProductAvailabilityQuery{}.Validate(),
		queries.ErrGetProductAvailabilityQueryIsNotConstructed)
	assert.ErrorIs(t, queries.GetShipmentAlertsQuery{}.Validate(), queries.ErrGetShipmentAlertsQueryIsNotConstructed)
}

func TestNewListBuyerStockQuery(t *testing.T) {
	buyer, err := kernel.NewActor(kernel.NewUUID(), kernel.RoleBuyer)
	require.NoError(t, err)

	query, err := queries.NewListBuyerStockQuery(buyer)

	require.NoError(t, err)
	assert.Equal(t, buyer.ID, query.BuyerID())
}

func TestIDQueries_RejectNilID(t *testing.T) {
	_, err := queries.NewGetProductAvailabilityQuery(kernel.UUID{})
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)

	_, err = queries.NewGetShipmentAlertsQuery(kernel.UUID{})
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}
