// Package materials управляет курсами и уроками. Каждое действие проходит
// через политику доступа, изменение урока ставит в очередь уведомление подписчикам.
package materials

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/course-platform/internal/access"
	"github.com/magabrotheeeer/course-platform/internal/lib/sl"
	"github.com/magabrotheeeer/course-platform/internal/lib/videolink"
	"github.com/magabrotheeeer/course-platform/internal/models"
	"github.com/magabrotheeeer/course-platform/internal/services/serverrors"
	"github.com/magabrotheeeer/course-platform/internal/storage"
)

// Repository хранилище курсов и уроков.
type Repository interface {
	CreateCourse(ctx context.Context, course models.Course) (int64, error)
	GetCourse(ctx context.Context, id int64) (*models.Course, error)
	UpdateCourse(ctx context.Context, course models.Course) error
	DeleteCourse(ctx context.Context, id int64) error
	ListCourses(ctx context.Context, page models.Page) ([]*models.Course, int, error)

	CreateLesson(ctx context.Context, lesson models.Lesson) (int64, error)
	GetLesson(ctx context.Context, id int64) (*models.Lesson, error)
	UpdateLesson(ctx context.Context, lesson models.Lesson) error
	DeleteLesson(ctx context.Context, id int64) error
	ListLessons(ctx context.Context, page models.Page) ([]*models.Lesson, int, error)
	ListCourseLessons(ctx context.Context, courseID int64) ([]*models.Lesson, error)

	IsSubscribed(ctx context.Context, userID, courseID int64) (bool, error)
}

// Notifier ставит в очередь уведомление об изменении урока.
type Notifier interface {
	LessonUpdated(ctx context.Context, lesson *models.Lesson) error
}

// Service сервис курсов и уроков.
type Service struct {
	repo     Repository
	policy   *access.Policy
	notifier Notifier
	log      *slog.Logger
}

// New создает сервис. notifier может быть nil, тогда уведомления не отправляются.
func New(repo Repository, policy *access.Policy, notifier Notifier, log *slog.Logger) *Service {
	if policy == nil {
		policy = access.DefaultPolicy()
	}
	return &Service{repo: repo, policy: policy, notifier: notifier, log: log}
}

func (s *Service) authorize(actor access.Actor, action access.Action, res access.Resource) error {
	if !actor.Authenticated {
		return serverrors.ErrUnauthorized
	}
	if !s.policy.Allow(actor, action, res) {
		return serverrors.ErrForbidden
	}
	return nil
}

// CreateCourse создает курс, владельцем становится субъект.
func (s *Service) CreateCourse(ctx context.Context, actor access.Actor, in models.CourseInput) (*models.Course, error) {
	const op = "materials.CreateCourse"

	if err := s.authorize(actor, access.ActionCreate, nil); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	owner := actor.UserID
	course := models.Course{Name: in.Name, Description: in.Description, Preview: in.Preview, OwnerID: &owner}
	id, err := s.repo.CreateCourse(ctx, course)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	course.ID = id
	return &course, nil
}

// ListCourses возвращает страницу курсов.
func (s *Service) ListCourses(ctx context.Context, actor access.Actor, page models.Page) ([]*models.Course, int, error) {
	const op = "materials.ListCourses"

	if err := s.authorize(actor, access.ActionList, nil); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	courses, total, err := s.repo.ListCourses(ctx, page)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return courses, total, nil
}

// GetCourse возвращает курс с уроками и признаком подписки субъекта.
func (s *Service) GetCourse(ctx context.Context, actor access.Actor, id int64) (*models.CourseDetail, error) {
	const op = "materials.GetCourse"

	course, err := s.loadCourse(ctx, actor, access.ActionRetrieve, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lessons, err := s.repo.ListCourseLessons(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	subscribed, err := s.repo.IsSubscribed(ctx, actor.UserID, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if lessons == nil {
		lessons = []*models.Lesson{}
	}

	return &models.CourseDetail{
		Course:       *course,
		LessonCount:  len(lessons),
		Lessons:      lessons,
		IsSubscribed: subscribed,
	}, nil
}

// UpdateCourse меняет переданные поля курса.
func (s *Service) UpdateCourse(ctx context.Context, actor access.Actor, id int64, patch models.CoursePatch) (*models.Course, error) {
	const op = "materials.UpdateCourse"

	course, err := s.loadCourse(ctx, actor, access.ActionUpdate, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	patch.Apply(course)

	if err := s.repo.UpdateCourse(ctx, *course); err != nil {
		return nil, fmt.Errorf("%s: %w", op, notFound(err))
	}
	return course, nil
}

// DeleteCourse удаляет курс.
func (s *Service) DeleteCourse(ctx context.Context, actor access.Actor, id int64) error {
	const op = "materials.DeleteCourse"

	if _, err := s.loadCourse(ctx, actor, access.ActionDelete, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.DeleteCourse(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, notFound(err))
	}
	return nil
}

// CreateLesson создает урок, владельцем становится субъект.
func (s *Service) CreateLesson(ctx context.Context, actor access.Actor, in models.LessonInput) (*models.Lesson, error) {
	const op = "materials.CreateLesson"

	if err := s.authorize(actor, access.ActionCreate, nil); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := checkVideoLink(in.VideoLink); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	owner := actor.UserID
	lesson := models.Lesson{
		Name:      in.Name,
		CourseID:  in.CourseID,
		Preview:   in.Preview,
		VideoLink: in.VideoLink,
		OwnerID:   &owner,
	}
	id, err := s.repo.CreateLesson(ctx, lesson)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, invalidCourse(err))
	}
	lesson.ID = id
	return &lesson, nil
}

// ListLessons возвращает страницу уроков.
func (s *Service) ListLessons(ctx context.Context, actor access.Actor, page models.Page) ([]*models.Lesson, int, error) {
	const op = "materials.ListLessons"

	if err := s.authorize(actor, access.ActionList, nil); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	lessons, total, err := s.repo.ListLessons(ctx, page)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return lessons, total, nil
}

// GetLesson возвращает урок.
func (s *Service) GetLesson(ctx context.Context, actor access.Actor, id int64) (*models.Lesson, error) {
	const op = "materials.GetLesson"

	lesson, err := s.loadLesson(ctx, actor, access.ActionRetrieve, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return lesson, nil
}

// UpdateLesson меняет переданные поля урока и после успешного сохранения
// ставит в очередь одно уведомление подписчикам. Ошибка очереди на результат не влияет.
func (s *Service) UpdateLesson(ctx context.Context, actor access.Actor, id int64, patch models.LessonPatch) (*models.Lesson, error) {
	const op = "materials.UpdateLesson"

	lesson, err := s.loadLesson(ctx, actor, access.ActionUpdate, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := checkVideoLink(patch.VideoLink); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	patch.Apply(lesson)

	if err := s.repo.UpdateLesson(ctx, *lesson); err != nil {
		return nil, fmt.Errorf("%s: %w", op, invalidCourse(notFound(err)))
	}

	if s.notifier != nil {
		if err := s.notifier.LessonUpdated(ctx, lesson); err != nil {
			s.log.Warn("lesson updated but notification was not enqueued",
				slog.String("op", op), slog.Int64("lesson_id", id), sl.Err(err))
		}
	}
	return lesson, nil
}

// DeleteLesson удаляет урок.
func (s *Service) DeleteLesson(ctx context.Context, actor access.Actor, id int64) error {
	const op = "materials.DeleteLesson"

	if _, err := s.loadLesson(ctx, actor, access.ActionDelete, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.DeleteLesson(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, notFound(err))
	}
	return nil
}

// loadCourse проверяет аутентификацию, загружает курс и проверяет действие над ним.
func (s *Service) loadCourse(ctx context.Context, actor access.Actor, action access.Action, id int64) (*models.Course, error) {
	if !actor.Authenticated {
		return nil, serverrors.ErrUnauthorized
	}
	course, err := s.repo.GetCourse(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if err := s.authorize(actor, action, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *Service) loadLesson(ctx context.Context, actor access.Actor, action access.Action, id int64) (*models.Lesson, error) {
	if !actor.Authenticated {
		return nil, serverrors.ErrUnauthorized
	}
	lesson, err := s.repo.GetLesson(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if err := s.authorize(actor, action, lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func checkVideoLink(link *string) error {
	if link == nil {
		return nil
	}
	if err := videolink.Validate(*link); err != nil {
		return fmt.Errorf("%w: %w", serverrors.ErrValidation, err)
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return serverrors.ErrNotFound
	}
	return err
}

func invalidCourse(err error) error {
	if errors.Is(err, storage.ErrInvalidReference) {
		return fmt.Errorf("%w: course does not exist", serverrors.ErrValidation)
	}
	return err
}
