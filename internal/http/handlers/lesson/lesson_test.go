package lesson

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/course-platform/internal/access"
	"github.com/magabrotheeeer/course-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/course-platform/internal/http/response"
	"github.com/magabrotheeeer/course-platform/internal/lib/jwt"
	"github.com/magabrotheeeer/course-platform/internal/models"
	"github.com/magabrotheeeer/course-platform/internal/services/serverrors"
)

type ServiceMock struct{ mock.Mock }

func (m *ServiceMock) CreateLesson(ctx context.Context, actor access.Actor, in models.LessonInput) (*models.Lesson, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lesson), args.Error(1)
}

func (m *ServiceMock) ListLessons(ctx context.Context, actor access.Actor, page models.Page) ([]*models.Lesson, int, error) {
	args := m.Called(ctx, actor, page)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.Lesson), args.Int(1), args.Error(2)
}

func (m *ServiceMock) GetLesson(ctx context.Context, actor access.Actor, id int64) (*models.Lesson, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lesson), args.Error(1)
}

func (m *ServiceMock) UpdateLesson(ctx context.Context, actor access.Actor, id int64, patch models.LessonPatch) (*models.Lesson, error) {
	args := m.Called(ctx, actor, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lesson), args.Error(1)
}

func (m *ServiceMock) DeleteLesson(ctx context.Context, actor access.Actor, id int64) error {
	return m.Called(ctx, actor, id).Error(0)
}

var owner = access.Actor{UserID: 1, Authenticated: true}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func request(method, target, id string, body []byte) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	ctx := req.Context()
	if id != "" {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", id)
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	ctx = middlewarectx.WithClaims(ctx, &jwt.Claims{UserID: 1, Role: models.RoleUser})
	return req.WithContext(ctx)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}

func TestCreateHandler(t *testing.T) {
	courseID := int64(3)
	link := "https://youtube.com/watch?v=abc"

	tests := []struct {
		name       string
		body       string
		setupMock  func(m *ServiceMock)
		wantStatus int
		wantError  string
	}{
		{
			name: "created with youtube link",
			body: `{"name":"Каналы","course":3,"link_to_video":"https://youtube.com/watch?v=abc"}`,
			setupMock: func(m *ServiceMock) {
				m.On("CreateLesson", mock.Anything, owner, models.LessonInput{Name: "Каналы", CourseID: &courseID, VideoLink: &link}).
					Return(&models.Lesson{ID: 10, Name: "Каналы", CourseID: &courseID, VideoLink: &link}, nil).Once()
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "foreign video host",
			body:       `{"name":"Каналы","link_to_video":"https://vimeo.com/1"}`,
			setupMock:  func(_ *ServiceMock) {},
			wantStatus: http.StatusBadRequest,
			wantError:  response.VideoLinkMessage,
		},
		{
			name:       "missing name",
			body:       `{"course":3}`,
			setupMock:  func(_ *ServiceMock) {},
			wantStatus: http.StatusBadRequest,
			wantError:  "field Name is a required field",
		},
		{
			name: "unknown course",
			body: `{"name":"Каналы","course":99}`,
			setupMock: func(m *ServiceMock) {
				m.On("CreateLesson", mock.Anything, owner, mock.Anything).
					Return(nil, serverrors.ErrValidation).Once()
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			tt.setupMock(svc)

			rec := httptest.NewRecorder()
			NewCreate(newNoopLogger(), svc).ServeHTTP(rec, request(http.MethodPost, "/lessons", "", []byte(tt.body)))
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, decodeError(t, rec))
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestListHandler(t *testing.T) {
	svc := new(ServiceMock)
	svc.On("ListLessons", mock.Anything, owner, models.Page{Limit: 3, Offset: 0}).
		Return([]*models.Lesson{{ID: 1}, {ID: 2}, {ID: 3}}, 4, nil).Once()

	rec := httptest.NewRecorder()
	NewList(newNoopLogger(), svc).ServeHTTP(rec, request(http.MethodGet, "/lessons", "", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"has_next":true`)
	assert.Contains(t, rec.Body.String(), `"count":4`)
	svc.AssertExpectations(t)
}

func TestReadHandler(t *testing.T) {
	svc := new(ServiceMock)
	svc.On("GetLesson", mock.Anything, owner, int64(10)).Return(&models.Lesson{ID: 10, Name: "Каналы"}, nil).Once()
	svc.On("GetLesson", mock.Anything, owner, int64(11)).Return(nil, serverrors.ErrForbidden).Once()

	rec := httptest.NewRecorder()
	NewRead(newNoopLogger(), svc).ServeHTTP(rec, request(http.MethodGet, "/lessons/10", "10", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	NewRead(newNoopLogger(), svc).ServeHTTP(rec, request(http.MethodGet, "/lessons/11", "11", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	svc.AssertExpectations(t)
}

func TestUpdateHandler(t *testing.T) {
	name := "Горутины"
	link := "https://www.youtube.com/watch?v=x"

	tests := []struct {
		name       string
		method     string
		body       string
		setupMock  func(m *ServiceMock)
		wantStatus int
		wantError  string
	}{
		{
			name:   "patch link only",
			method: http.MethodPatch,
			body:   `{"link_to_video":"https://www.youtube.com/watch?v=x"}`,
			setupMock: func(m *ServiceMock) {
				m.On("UpdateLesson", mock.Anything, owner, int64(10), models.LessonPatch{VideoLink: &link}).
					Return(&models.Lesson{ID: 10, VideoLink: &link}, nil).Once()
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "put full lesson",
			method: http.MethodPut,
			body:   `{"name":"Горутины"}`,
			setupMock: func(m *ServiceMock) {
				m.On("UpdateLesson", mock.Anything, owner, int64(10), models.LessonPatch{Name: &name}).
					Return(&models.Lesson{ID: 10, Name: name}, nil).Once()
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "put without name",
			method:     http.MethodPut,
			body:       `{"lesson_preview":"p"}`,
			setupMock:  func(_ *ServiceMock) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "patch with foreign link",
			method:     http.MethodPatch,
			body:       `{"link_to_video":"https://rutube.ru/video/1"}`,
			setupMock:  func(_ *ServiceMock) {},
			wantStatus: http.StatusBadRequest,
			wantError:  response.VideoLinkMessage,
		},
		{
			name:   "missing lesson",
			method: http.MethodPatch,
			body:   `{"name":"x"}`,
			setupMock: func(m *ServiceMock) {
				m.On("UpdateLesson", mock.Anything, owner, int64(10), mock.Anything).Return(nil, serverrors.ErrNotFound).Once()
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			tt.setupMock(svc)

			rec := httptest.NewRecorder()
			NewUpdate(newNoopLogger(), svc).ServeHTTP(rec, request(tt.method, "/lessons/10/update", "10", []byte(tt.body)))
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, decodeError(t, rec))
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestRemoveHandler(t *testing.T) {
	svc := new(ServiceMock)
	svc.On("DeleteLesson", mock.Anything, owner, int64(10)).Return(nil).Once()

	rec := httptest.NewRecorder()
	NewRemove(newNoopLogger(), svc).ServeHTTP(rec, request(http.MethodDelete, "/lessons/10", "10", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	NewRemove(newNoopLogger(), svc).ServeHTTP(rec, request(http.MethodDelete, "/lessons/x", "x", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertExpectations(t)
}
