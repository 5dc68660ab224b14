package register

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/course-platform/internal/models"
	"github.com/magabrotheeeer/course-platform/internal/services/serverrors"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestRegisterHandler_ServeHTTP(t *testing.T) {
	valid := models.RegisterRequest{Email: "user1@example.com", Password: "password123"}

	tests := []struct {
		name           string
		requestBody    any
		setupMock      func(m *ServiceMock)
		wantStatusCode int
		wantError      string
		wantStatus     string
	}{
		{
			name:        "valid registration",
			requestBody: valid,
			setupMock: func(m *ServiceMock) {
				m.On("Register", mock.Anything, valid).
					Return(&models.User{ID: 1, Email: valid.Email, Role: models.RoleUser}, nil).Once()
			},
			wantStatusCode: http.StatusCreated,
			wantStatus:     "OK",
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			setupMock:      func(_ *ServiceMock) {},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
			wantStatus:     "Error",
		},
		{
			name:           "validation error - missing password",
			requestBody:    models.RegisterRequest{Email: "user1@example.com"},
			setupMock:      func(_ *ServiceMock) {},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "field Password is a required field",
			wantStatus:     "Error",
		},
		{
			name:        "email taken",
			requestBody: valid,
			setupMock: func(m *ServiceMock) {
				m.On("Register", mock.Anything, valid).Return(nil, serverrors.ErrConflict).Once()
			},
			wantStatusCode: http.StatusConflict,
			wantStatus:     "Error",
		},
		{
			name:        "service error",
			requestBody: valid,
			setupMock: func(m *ServiceMock) {
				m.On("Register", mock.Anything, valid).Return(nil, errors.New("db down")).Once()
			},
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "internal error",
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			tt.setupMock(svc)
			handler := New(newNoopLogger(), svc)

			var body []byte
			switch v := tt.requestBody.(type) {
			case string:
				body = []byte(v)
			default:
				var err error
				body, err = json.Marshal(v)
				require.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/register", bytes.NewReader(body))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			var got map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tt.wantStatus, got["status"])
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, got["error"])
			}
			if tt.wantStatus == "OK" {
				data := got["data"].(map[string]any)
				user := data["user"].(map[string]any)
				assert.Equal(t, "user1@example.com", user["email"])
				assert.Equal(t, false, user["is_active"])
				_, hasHash := user["PasswordHash"]
				assert.False(t, hasHash)
			}
			svc.AssertExpectations(t)
		})
	}
}
