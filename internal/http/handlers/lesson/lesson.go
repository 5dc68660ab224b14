// Package lesson реализует HTTP-обработчики уроков. Ссылка на видео проверяется
// валидатором с тегом youtube, права проверяет сервис.
package lesson

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/course-platform/internal/access"
	"github.com/magabrotheeeer/course-platform/internal/models"
)

// Service бизнес-логика уроков.
type Service interface {
	CreateLesson(ctx context.Context, actor access.Actor, in models.LessonInput) (*models.Lesson, error)
	ListLessons(ctx context.Context, actor access.Actor, page models.Page) ([]*models.Lesson, int, error)
	GetLesson(ctx context.Context, actor access.Actor, id int64) (*models.Lesson, error)
	UpdateLesson(ctx context.Context, actor access.Actor, id int64, patch models.LessonPatch) (*models.Lesson, error)
	DeleteLesson(ctx context.Context, actor access.Actor, id int64) error
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
