package monitoring

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordGatewayCall("login", "success", time.Millisecond)
		m.RecordReconcile("applied")
		m.RecordReconcileAttempt(false)
		m.IncStaleDiscard("reconcile")
		m.SetAuthenticated(true)
		m.RecordSessionOp("logout", nil)
		m.IncPersistenceError("set")
		NewTimer(m, "login").Observe("success")
	})
	assert.Nil(t, m.Registry())
}

func TestSeparateRegistries(t *testing.T) {
	a := NewMetrics(nil)
	b := NewMetrics(nil)

	a.RecordReconcile("applied")
	a.RecordReconcile("applied")
	b.RecordReconcile("exhausted")

	assert.Equal(t, 2.0, testutil.ToFloat64(a.ReconcileRuns.WithLabelValues("applied")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.ReconcileRuns.WithLabelValues("applied")))
	assert.Equal(t, 1.0, testutil.ToFloat64(b.ReconcileRuns.WithLabelValues("exhausted")))
}

func TestSessionCounters(t *testing.T) {
	m := NewMetrics(nil)

	m.RecordSessionOp("login", nil)
	m.RecordSessionOp("login", errors.New("rejected"))
	m.SetAuthenticated(true)
	m.RecordReconcileAttempt(true)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionOps.WithLabelValues("login", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionOps.WithLabelValues("login", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Authenticated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReconcileAttempts.WithLabelValues("success")))
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics(nil)
	router := gin.New()
	router.Use(Middleware(m))
	router.GET("/api/user/profile", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/user/profile", nil))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/api/user/profile", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "unmatched", "404")))
}
