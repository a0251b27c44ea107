package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_CountsRoutesAndFallsBackOnUnmatched(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Metrics())
	r.GET("/ok", func(c *gin.Context) {
		c.String(http.StatusOK, "hello")
	})
	// 204 with no body leaves writer size at -1, exercising the skip branch
	// of the size histogram.
	r.GET("/empty", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	// Collectors are package globals, so diff against a baseline instead of
	// asserting absolute values.
	baseOK := testutil.ToFloat64(reqTotal.WithLabelValues("GET", "/ok", "200"))
	base404 := testutil.ToFloat64(reqTotal.WithLabelValues("GET", "/missing", "404"))

	for _, path := range []string{"/ok", "/missing", "/empty"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	if got := testutil.ToFloat64(reqTotal.WithLabelValues("GET", "/ok", "200")); got != baseOK+1 {
		t.Fatalf("counter /ok 200 = %v; want %v", got, baseOK+1)
	}
	// No route matched, so the label is the raw URL path.
	if got := testutil.ToFloat64(reqTotal.WithLabelValues("GET", "/missing", "404")); got != base404+1 {
		t.Fatalf("counter /missing 404 = %v; want %v", got, base404+1)
	}
	if inflight := testutil.ToFloat64(reqInflight); inflight != 0 {
		t.Fatalf("reqInflight = %v; want 0 after requests complete", inflight)
	}
}
