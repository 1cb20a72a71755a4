package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCronJobMetrics_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCronJobMetrics(reg)

	m.Observe("sensor_simulation", time.Now().Add(-250*time.Millisecond), nil)
	m.Observe("sensor_simulation", time.Now(), errors.New("boom"))

	mfs, err := reg.Gather()
	require.NoError(t, err)

	assert.InDelta(t, 1, counterValue(t, mfs, "supplychain_job_success_total", "job", "sensor_simulation"), 0)
	assert.InDelta(t, 1, counterValue(t, mfs, "supplychain_job_failure_total", "job", "sensor_simulation"), 0)
	mf := findMetricFamily(mfs, "supplychain_job_duration_seconds")
	require.NotNil(t, mf)
	assert.Equal(t, uint64(2), mf.GetMetric()[0].GetHistogram().GetSampleCount())
}

func TestDomainMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewDomainMetrics(reg)

	m.IncAlert("HIGH_TEMP")
	m.IncAlert("HIGH_TEMP")
	m.IncAttestation("shipment_delivery", OutcomeFailure)
	m.IncReconciliation("")

	mfs, err := reg.Gather()
	require.NoError(t, err)

	assert.InDelta(t, 2, counterValue(t, mfs, "supplychain_telemetry_alerts_total", "code", "HIGH_TEMP"), 0)
	assert.InDelta(t, 1, counterValue(t, mfs, "supplychain_attestations_total", "outcome", OutcomeFailure), 0)
	assert.InDelta(t, 1, counterValue(t, mfs, "supplychain_stock_reconciliations_total", "outcome", "unknown"), 0)
}

func TestNilRecordersAreNoOps(t *testing.T) {
	var cron *CronJobMetrics
	var domain *DomainMetrics

	assert.NotPanics(t, func() {
		cron.Observe("job", time.Now(), nil)
		domain.IncAlert("GAS_LEAK")
		NewDomainMetrics(nil).IncChange("orders", OutcomeSuccess)
	})
}

func TestHTTPMetrics_Middleware(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/api/v1/orders/:id", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/orders/42", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.InDelta(t, 1, counterValue(t, mfs, "supplychain_http_requests_total", "path", "/api/v1/orders/:id"), 0)
}

func counterValue(t *testing.T, mfs []*dto.MetricFamily, name, label, value string) float64 {
	t.Helper()
	mf := findMetricFamily(mfs, name)
	require.NotNil(t, mf, fmt.Sprintf("metric %q not found", name))
	for _, metric := range mf.GetMetric() {
		for _, pair := range metric.GetLabel() {
			if pair.GetName() == label && pair.GetValue() == value {
				return metric.GetCounter().GetValue()
			}
		}
	}
	t.Fatalf("metric %q missing label %s=%s", name, label, value)
	return 0
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}
