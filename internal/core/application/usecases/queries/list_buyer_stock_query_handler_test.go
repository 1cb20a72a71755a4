package queries_test

import (
	"context"

	"supplychain/internal/core/application/usecases/queries"
	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/pkg/errs"
)

func (suite *QueryHandlersTestSuite) TestListBuyerStock_OnlyTheBuyersEntries() {
	ctx := context.Background()
	rice := suite.storeProduct("Rice", "100")
	wheat := suite.storeProduct("Wheat", "100")
	suite.storeStock(suite.buyer.ID, wheat.ID(), "5")
	suite.storeStock(suite.buyer.ID, rice.ID(), "40")
	suite.storeStock(kernel.NewUUID(), rice.ID(), "7")

	query, err := queries.NewListBuyerStockQuery(suite.buyer)
	suite.Require().NoError(err)
	views, err := queries.NewListBuyerStockQueryHandler(suite.db).Handle(ctx, query)

	suite.Require().NoError(err)
	suite.Require().Len(views, 2)
	suite.Equal("Rice", views[0].ProductName)
	suite.True(suite.quantity("40").Equal(views[0].Quantity))
	suite.Equal("Wheat", views[1].ProductName)
	suite.Equal("kg", views[1].Unit)
}

func (suite *QueryHandlersTestSuite) TestListBuyerStock_RequiresBuyer() {
	_, err := queries.NewListBuyerStockQuery(suite.carrier)

	suite.Require().ErrorIs(err, errs.ErrUnauthorized)
}
