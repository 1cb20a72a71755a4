package queries_test

import (
	"context"

	"supplychain/internal/core/application/usecases/queries"
	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/pkg/errs"
)

func (suite *QueryHandlersTestSuite) TestGetProductAvailability_SubtractsBuyerStock() {
	ctx := context.Background()
	p := suite.storeProduct("Rice", "100")
	suite.storeStock(suite.buyer.ID, p.ID(), "30")
	suite.storeStock(kernel.NewUUID(), p.ID(), "12.5")
	suite.storeStock(suite.buyer.ID, kernel.NewUUID(), "99")

	query, err := queries.NewGetProductAvailabilityQuery(p.ID())
	suite.Require().NoError(err)
	got, err := queries.NewGetProductAvailabilityQueryHandler(suite.db).Handle(ctx, query)

	suite.Require().NoError(err)
	suite.Equal("Rice", got.Name)
	suite.True(suite.quantity("100").Equal(got.Quantity))
	suite.True(suite.quantity("42.5").Equal(got.Stocked))
	suite.True(suite.quantity("57.5").Equal(got.Available))
}

func (suite *QueryHandlersTestSuite) TestGetProductAvailability_FlooredAtZero() {
	ctx := context.Background()
	p := suite.storeProduct("Rice", "10")
	suite.storeStock(suite.buyer.ID, p.ID(), "25")

	query, err := queries.NewGetProductAvailabilityQuery(p.ID())
	suite.Require().NoError(err)
	got, err := queries.NewGetProductAvailabilityQueryHandler(suite.db).Handle(ctx, query)

	suite.Require().NoError(err)
	suite.True(got.Available.IsZero())
}

func (suite *QueryHandlersTestSuite) TestGetProductAvailability_UnknownProduct() {
	query, err := queries.NewGetProductAvailabilityQuery(kernel.NewUUID())
	suite.Require().NoError(err)

	_, err = queries.NewGetProductAvailabilityQueryHandler(suite.db).Handle(context.Background(), query)

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}
