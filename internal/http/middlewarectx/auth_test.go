package middlewarectx_test

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/course-platform/internal/access"
	"github.com/magabrotheeeer/course-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/course-platform/internal/lib/jwt"
	"github.com/magabrotheeeer/course-platform/internal/models"
)

type ParserMock struct {
	mock.Mock
}

func (m *ParserMock) ParseToken(token string) (*jwt.Claims, error) {
	args := m.Called(token)
	claims, _ := args.Get(0).(*jwt.Claims)
	return claims, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestJWTMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		authHeader     string
		claims         *jwt.Claims
		parseErr       error
		wantStatusCode int
		wantActor      access.Actor
		wantCalled     bool
	}{
		{
			name:           "missing Authorization header",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "invalid Authorization header prefix",
			authHeader:     "Basic sometoken",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "token parse error",
			authHeader:     "Bearer token",
			parseErr:       errors.New("token is expired"),
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "user token",
			authHeader:     "Bearer validtoken",
			claims:         &jwt.Claims{UserID: 4, Email: "a@example.com", Role: models.RoleUser},
			wantStatusCode: http.StatusOK,
			wantActor:      access.Actor{UserID: 4, Authenticated: true},
			wantCalled:     true,
		},
		{
			name:           "moderator token",
			authHeader:     "Bearer validtoken",
			claims:         &jwt.Claims{UserID: 5, Role: models.RoleModerator},
			wantStatusCode: http.StatusOK,
			wantActor:      access.Actor{UserID: 5, Authenticated: true, Moderator: true},
			wantCalled:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := new(ParserMock)
			if tt.claims != nil || tt.parseErr != nil {
				parser.On("ParseToken", mock.Anything).Return(tt.claims, tt.parseErr).Once()
			}

			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				assert.Equal(t, tt.wantActor, middlewarectx.ActorFromContext(r.Context()))
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/courses", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			middlewarectx.JWTMiddleware(parser, newNoopLogger())(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantCalled, called)
			parser.AssertExpectations(t)
		})
	}
}

func TestActorFromContext_Anonymous(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, access.Actor{}, middlewarectx.ActorFromContext(req.Context()))
}
