package courseplatform

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/course-platform/internal/access"
	"github.com/magabrotheeeer/course-platform/internal/lib/jwt"
	"github.com/magabrotheeeer/course-platform/internal/models"
)

// listOnlyMaterials отвечает только на список курсов, остальные методы не вызываются.
type listOnlyMaterials struct {
	MaterialService
	calls int
}

func (m *listOnlyMaterials) ListCourses(_ context.Context, actor access.Actor, _ models.Page) ([]*models.Course, int, error) {
	m.calls++
	return []*models.Course{{ID: 1, Name: "Go", OwnerID: &actor.UserID}}, 1, nil
}

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRouter(t *testing.T, svc Services, opts RouterOptions) http.Handler {
	t.Helper()
	r := chi.NewRouter()
	RegisterRoutes(r, newNoopLogger(), svc, opts)
	return r
}

func TestRoutes(t *testing.T) {
	maker := jwt.NewJWTMaker("test-secret", time.Hour)
	token, err := maker.GenerateToken(7, "a@example.com", models.RoleUser)
	require.NoError(t, err)

	materials := &listOnlyMaterials{}
	router := newTestRouter(t, Services{Tokens: maker, Materials: materials, Storage: okPinger{}},
		RouterOptions{AllowedOrigins: []string{"https://school.example"}})

	t.Run("protected without token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/courses", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("protected with token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/courses", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"count":1`)
		assert.Equal(t, 1, materials.calls)
	})

	t.Run("health", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("metrics", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("cors preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/courses", nil)
		req.Header.Set("Origin", "https://school.example")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, "https://school.example", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unknown route", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/nothing", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRoutes_RateLimit(t *testing.T) {
	router := newTestRouter(t, Services{Storage: okPinger{}},
		RouterOptions{Limiter: rate.NewLimiter(rate.Every(time.Hour), 1)})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
