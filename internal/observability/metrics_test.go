package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/abhisek/snipbox/internal/complexity"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestMetrics_Middleware(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	for i := 0; i < 2; i++ {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/42", nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	if got := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/items/:id", "418")); got != 2 {
		t.Errorf("route counter = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "unmatched", "404")); got != 1 {
		t.Errorf("unmatched counter = %v, want 1", got)
	}
}

func TestMetrics_Estimates(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.ObserveEstimate(complexity.Estimate("bubble sort", ""))
	m.ObserveEstimate(complexity.Estimate("bubble sort", ""))
	m.SnippetCreated("go")

	if got := testutil.ToFloat64(m.EstimatesTotal.WithLabelValues("quadratic-sort", "O(n²)")); got != 2 {
		t.Errorf("estimates = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.SnippetsCreated.WithLabelValues("go")); got != 1 {
		t.Errorf("snippets = %v, want 1", got)
	}
}

func TestNewMetrics_SeparateRegistries(t *testing.T) {
	NewMetrics(prometheus.NewRegistry())
	NewMetrics(prometheus.NewRegistry())
}
