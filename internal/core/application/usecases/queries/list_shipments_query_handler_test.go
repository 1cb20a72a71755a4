package queries_test

import (
	"context"

	"supplychain/internal/core/application/usecases/queries"
	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/core/domain/model/shipment"
)

func (suite *QueryHandlersTestSuite) TestListShipments_ByParty() {
	ctx := context.Background()
	handler := queries.NewListShipmentsQueryHandler(suite.db)
	p := suite.storeProduct("Rice", "100")
	o, s := suite.storeBoundOrder(p, "40")

	for _, a := range []kernel.Actor{suite.carrier, suite.buyer, suite.producer} {
		query, err := queries.NewListShipmentsQuery(a)
		suite.Require().NoError(err)

		views, err := handler.Handle(ctx, query)
		suite.Require().NoError(err)
		suite.Require().Len(views, 1, a.String())
		suite.Equal(s.ID(), views[0].ID)
		suite.Equal(o.ID(), *views[0].OrderID)
		suite.Equal(shipment.Pending, views[0].Status)
		suite.Require().NotNil(views[0].ExpectedWeight)
		suite.InDelta(950.0, *views[0].ExpectedWeight, 1e-9)
		suite.Nil(views[0].DeliveredAt)
	}

	query, err := queries.NewListShipmentsQuery(suite.actor(kernel.RoleCarrier))
	suite.Require().NoError(err)
	views, err := handler.Handle(ctx, query)
	suite.Require().NoError(err)
	suite.Empty(views)
}

func (suite *QueryHandlersTestSuite) TestListShipments_LegacyStatusSpelling() {
	ctx := context.Background()
	p := suite.storeProduct("Rice", "100")
	_, s := suite.storeBoundOrder(p, "40")
	suite.Require().NoError(suite.db.Exec(
		"UPDATE shipments SET status = 'in transit', in_transit_at = now() WHERE id = ?", s.ID().Bytes()).Error)

	query, err := queries.NewListShipmentsQuery(suite.carrier)
	suite.Require().NoError(err)
	views, err := queries.NewListShipmentsQueryHandler(suite.db).Handle(ctx, query)

	suite.Require().NoError(err)
	suite.Require().Len(views, 1)
	suite.Equal(shipment.InTransit, views[0].Status)
	suite.NotNil(views[0].InTransitAt)
}
