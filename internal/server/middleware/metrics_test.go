package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/rulekeeper/internal/metrics"
)

func TestMetrics(t *testing.T) {
	m := metrics.New(false)
	handler := Metrics(m, "GET /api/plugins/installed")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/plugins/installed", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/plugins/installed", nil))

	expected := `
# HELP rulekeeper_server_requests_total Total requests served by the metadata server
# TYPE rulekeeper_server_requests_total counter
rulekeeper_server_requests_total{code="404",route="GET /api/plugins/installed"} 2
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "rulekeeper_server_requests_total"))
}

func TestMetrics_NilRegistry(t *testing.T) {
	handler := Metrics(nil, "GET /")(http.HandlerFunc(okHandler))
	w := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusOK, w.Code)
}
