package queries_test

import (
	"context"
	"time"

	"supplychain/internal/adapters/out/postgres/telemetryrepo"
	"supplychain/internal/core/application/usecases/queries"
	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/core/domain/model/shipment"
	"supplychain/internal/core/domain/model/telemetry"
	"supplychain/internal/core/domain/services"
	"supplychain/internal/pkg/errs"
)

func (suite *QueryHandlersTestSuite) alertsHandler() (queries.GetShipmentAlertsQueryHandler, *telemetryrepo.GormTelemetryFeed) {
	feed := telemetryrepo.NewGormTelemetryFeed(suite.db)
	evaluator := services.NewAlertEvaluator(services.DefaultThresholds())
	return queries.NewGetShipmentAlertsQueryHandler(suite.db, feed, evaluator), feed
}

func (suite *QueryHandlersTestSuite) TestGetShipmentAlerts_NoReadingsYet() {
	handler, _ := suite.alertsHandler()
	_, s := suite.storeBoundOrder(suite.storeProduct("Rice", "100"), "40")

	query, err := queries.NewGetShipmentAlertsQuery(s.ID())
	suite.Require().NoError(err)
	got, err := handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Equal(shipment.Pending, got.Status)
	suite.Nil(got.Latest)
	suite.True(got.Alerts.IsEmpty())
}

func (suite *QueryHandlersTestSuite) TestGetShipmentAlerts_EvaluatesLatestReading() {
	ctx := context.Background()
	handler, feed := suite.alertsHandler()
	_, s := suite.storeBoundOrder(suite.storeProduct("Rice", "100"), "40")

	location, err := kernel.NewGeoPoint(52.52, 13.40)
	suite.Require().NoError(err)
	start := time.Now().UTC().Truncate(time.Millisecond)

	old, err := telemetry.NewReading(s.ID(), 20, 40, 3, 950, location, start)
	suite.Require().NoError(err)
	suite.Require().NoError(feed.Append(ctx, old))

	hot, err := telemetry.NewReading(s.ID(), 38.5, 40, 3, 700, location, start.Add(time.Second))
	suite.Require().NoError(err)
	suite.Require().NoError(feed.Append(ctx, hot))

	query, err := queries.NewGetShipmentAlertsQuery(s.ID())
	suite.Require().NoError(err)
	got, err := handler.Handle(ctx, query)

	suite.Require().NoError(err)
	suite.Require().NotNil(got.Latest)
	suite.InDelta(38.5, got.Latest.Temperature(), 1e-9)
	suite.Equal(services.AlertSet{services.HighTemp, services.WeightAnomaly}, got.Alerts)
}

func (suite *QueryHandlersTestSuite) TestGetShipmentAlerts_UnknownShipment() {
	handler, _ := suite.alertsHandler()

	query, err := queries.NewGetShipmentAlertsQuery(kernel.NewUUID())
	suite.Require().NoError(err)
	_, err = handler.Handle(context.Background(), query)

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}
