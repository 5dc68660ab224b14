// Package course реализует HTTP-обработчики курсов: создание, список,
// просмотр, изменение и удаление. Права проверяет сервис по политике доступа.
package course

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/course-platform/internal/access"
	"github.com/magabrotheeeer/course-platform/internal/models"
)

// Service бизнес-логика курсов.
type Service interface {
	CreateCourse(ctx context.Context, actor access.Actor, in models.CourseInput) (*models.Course, error)
	ListCourses(ctx context.Context, actor access.Actor, page models.Page) ([]*models.Course, int, error)
	GetCourse(ctx context.Context, actor access.Actor, id int64) (*models.CourseDetail, error)
	UpdateCourse(ctx context.Context, actor access.Actor, id int64, patch models.CoursePatch) (*models.Course, error)
	DeleteCourse(ctx context.Context, actor access.Actor, id int64) error
}

func idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("id must be positive, got %d", id)
	}
	return id, nil
}
