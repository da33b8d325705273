package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAccountEvent(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordAccountEvent(EventRegistered)
	m.RecordAccountEvent(EventRegistered)
	m.RecordAccountEvent(EventPromoted)

	assert.InDelta(t, 2, testutil.ToFloat64(m.AccountEvents.WithLabelValues(EventRegistered)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.AccountEvents.WithLabelValues(EventPromoted)), 0)
}

func TestRecordAccountEventNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() { m.RecordAccountEvent(EventLogin) })
}

func TestNewMetricsRejectsDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(reg)
	assert.Panics(t, func() { NewMetrics(reg) })
}

func TestHandlerExposesMetrics(t *testing.T) {
	reg := NewRegistry()
	m := NewMetrics(reg)
	m.RecordAccountEvent(EventLogin)

	rr := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `hero_account_events_total{event="login"} 1`)
	assert.Contains(t, body, "go_goroutines")
}
