package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libraryhub/internal/library"
)

func TestMetrics_Observer(t *testing.T) {
	m := New()

	m.ObserveOutcome(library.OpBorrow, "accepted")
	m.ObserveOutcome(library.OpBorrow, "accepted")
	m.ObserveOutcome(library.OpReturn, "already_returned")
	m.ObserveInconsistency(library.OpBorrow)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.outcomes.WithLabelValues("borrow", "accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.outcomes.WithLabelValues("return", "already_returned")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.inconsistencies.WithLabelValues("borrow")))
}

func TestMetrics_MiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/books/:book_id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/books/1", nil))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/books/:book_id", "200")))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "libraryhub_http_requests_total"))
}
