package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRequest(t *testing.T) {
	m := New("test", prometheus.NewRegistry())

	m.ObserveRequest(http.MethodGet, "assistants", 200, 10*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "assistants", 200, 20*time.Millisecond)
	m.ObserveRequest(http.MethodPost, "tools", 0, time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.backendRequestsTotal.WithLabelValues("GET", "assistants", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.backendRequestsTotal.WithLabelValues("POST", "tools", "error")))
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New("test", prometheus.NewRegistry())

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/console/assistants/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/metrics", m.GinHandler())

	for _, id := range []string{"a", "b"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/console/assistants/"+id, nil))
		require.Equal(t, http.StatusNoContent, w.Code)
	}
	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/console/assistants/:id", "204")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.httpRequestsInFlight))

	m.RecordInflightRejected("c1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, `console_inflight_rejected_total{client_id="c1",service="test"} 1`), body)
	assert.Contains(t, body, "http_request_duration_seconds")
}
