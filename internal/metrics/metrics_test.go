package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/metrics", m.Handler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestObserveLLM(t *testing.T) {
	m := New()
	m.ObserveLLM("module-content", "gemini-2.0-flash", true, 2*time.Second)
	m.ObserveLLM("module-content", "gemini-2.0-flash", false, time.Second)
	m.ObserveLLM("module-content", "gemini-2.0-flash", true, time.Second)

	body := scrape(t, m)
	assert.Contains(t, body, `pathmind_llm_requests_total{model="gemini-2.0-flash",outcome="success",purpose="module-content"} 2`)
	assert.Contains(t, body, `pathmind_llm_requests_total{model="gemini-2.0-flash",outcome="error",purpose="module-content"} 1`)
	assert.Contains(t, body, `pathmind_llm_request_duration_seconds_count{purpose="module-content"} 3`)
}

func TestObserveTransition(t *testing.T) {
	m := New()
	m.ObserveTransition("idle", "generating", time.Minute)
	m.ObserveTransition("generating", "testing", 3*time.Second)
	m.SetActiveSessions(4)

	body := scrape(t, m)
	assert.Contains(t, body, `pathmind_diagnostic_transitions_total{from="generating",to="testing"} 1`)
	assert.Contains(t, body, `pathmind_diagnostic_stage_duration_seconds_count{stage="idle"} 1`)
	assert.Contains(t, body, "pathmind_diagnostic_sessions_active 4")
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/api/dashboard/:topic", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	for _, path := range []string{"/api/dashboard/Go", "/api/dashboard/Rust", "/nope"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	body := scrape(t, m)
	assert.Contains(t, body, `pathmind_http_requests_total{endpoint="/api/dashboard/:topic",method="GET",status="200"} 2`)
	assert.Contains(t, body, `pathmind_http_requests_total{endpoint="unmatched",method="GET",status="404"} 1`)
	assert.Contains(t, body, "go_goroutines")
}
