package queries_test

import (
	"context"

	"supplychain/internal/core/application/usecases/queries"
	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/core/domain/model/order"
)

func (suite *QueryHandlersTestSuite) TestListOrders_VisibleToEachParty() {
	ctx := context.Background()
	handler := queries.NewListOrdersQueryHandler(suite.db)
	p := suite.storeProduct("Rice", "100")
	o, s := suite.storeBoundOrder(p, "40")

	for _, a := range []kernel.Actor{suite.buyer, suite.producer, suite.carrier} {
		query, err := queries.NewListOrdersQuery(a)
		suite.Require().NoError(err)

		views, err := handler.Handle(ctx, query)
		suite.Require().NoError(err)
		suite.Require().Len(views, 1, a.String())

		view := views[0]
		suite.Equal(o.ID(), view.ID)
		suite.Equal("Rice", view.ProductName)
		suite.Equal(order.Assigned, view.Status)
		suite.Require().NotNil(view.ShipmentID)
		suite.Equal(s.ID(), *view.ShipmentID)
		suite.True(o.Total().Equal(view.Total))
	}
}

func (suite *QueryHandlersTestSuite) TestListOrders_StrangersSeeNothing() {
	handler := queries.NewListOrdersQueryHandler(suite.db)
	p := suite.storeProduct("Rice", "100")
	suite.storeBoundOrder(p, "40")

	query, err := queries.NewListOrdersQuery(suite.actor(kernel.RoleBuyer))
	suite.Require().NoError(err)

	views, err := handler.Handle(context.Background(), query)
	suite.Require().NoError(err)
	suite.Empty(views)
}

func (suite *QueryHandlersTestSuite) TestListOrders_QueryNotConstructed() {
	_, err := queries.NewListOrdersQueryHandler(suite.db).Handle(context.Background(), queries.ListOrdersQuery{})

	suite.Require().ErrorIs(err, queries.ErrListOrdersQueryIsNotConstructed)
}
