package middlewarectx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/course-platform/internal/metrics"
)

func counterValue(t *testing.T, labels ...string) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, metrics.HTTPRequestsTotal.WithLabelValues(labels...).Write(&m))
	return m.GetCounter().GetValue()
}

func TestMetricsMiddleware(t *testing.T) {
	r := chi.NewRouter()
	r.Use(MetricsMiddleware)
	r.Get("/api/v1/courses/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Get("/ok", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	before := counterValue(t, http.MethodGet, "/api/v1/courses/{id}", "404")
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/courses/42", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/courses/43", nil))
	assert.Equal(t, before+2, counterValue(t, http.MethodGet, "/api/v1/courses/{id}", "404"))

	before = counterValue(t, http.MethodGet, "/ok", "200")
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, before+1, counterValue(t, http.MethodGet, "/ok", "200"))
}
