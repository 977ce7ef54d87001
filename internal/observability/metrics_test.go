package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func gatherCount(t *testing.T, m *Metrics, name string) float64 {
	t.Helper()
	families, err := m.registry.Gather()
	require.NoError(t, err)
	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
		var total float64
		for _, metric := range fam.GetMetric() {
			if c := metric.GetCounter(); c != nil {
				total += c.GetValue()
			}
		}
		return total
	}
	return 0
}

func TestMiddlewareRecordsRequests(t *testing.T) {
	m := NewMetrics()
	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusTeapot, rec.Code)
	require.EqualValues(t, 1, gatherCount(t, m, "motormint_http_requests_total"))
}

func TestReportCounters(t *testing.T) {
	m := NewMetrics()
	m.ReportGenerated("pdi", 250*time.Millisecond)
	m.ReportGenerated("claim", 100*time.Millisecond)
	m.ReportFailed("pdi")

	require.EqualValues(t, 2, gatherCount(t, m, "motormint_reports_generated_total"))
	require.EqualValues(t, 1, gatherCount(t, m, "motormint_report_failures_total"))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.ReportGenerated("pdi", time.Second)
	m.ReportFailed("claim")
	require.NotNil(t, m.Handler())
	require.Equal(t, prometheus.DefaultRegisterer, m.Registerer())
}
