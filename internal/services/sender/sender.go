// Package sender обрабатывает команды на рассылку из очереди: определяет получателей
// в момент обработки и отправляет письмо подписчикам курса.
package sender

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/course-platform/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/course-platform/internal/lib/sl"
	"github.com/magabrotheeeer/course-platform/internal/metrics"
	"github.com/magabrotheeeer/course-platform/internal/models"
	"github.com/magabrotheeeer/course-platform/internal/storage"
)

// Repository источник урока, курса и адресов подписчиков.
type Repository interface {
	GetLesson(ctx context.Context, id int64) (*models.Lesson, error)
	GetCourse(ctx context.Context, id int64) (*models.Course, error)
	ListSubscriberEmails(ctx context.Context, courseID int64) ([]string, error)
}

// Mailer отправляет одно письмо нескольким получателям.
type Mailer interface {
	Send(ctx context.Context, subject, body, from string, recipients []string) error
	From() string
}

// Service обработчик уведомлений об изменении урока.
type Service struct {
	repo   Repository
	mailer Mailer
	log    *slog.Logger
}

// New создает обработчик.
func New(repo Repository, mailer Mailer, log *slog.Logger) *Service {
	return &Service{repo: repo, mailer: mailer, log: log}
}

// Handle обрабатывает тело сообщения LessonUpdated. Некорректное сообщение
// возвращает ошибку rabbitmq.ErrPermanent, остальные ошибки ведут к повторной доставке.
func (s *Service) Handle(ctx context.Context, body []byte) error {
	const op = "sender.Handle"

	var msg models.LessonUpdated
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("%s: %w: %w", op, rabbitmq.ErrPermanent, err)
	}
	if msg.LessonID <= 0 {
		return fmt.Errorf("%s: %w: lesson_id is required", op, rabbitmq.ErrPermanent)
	}
	log := s.log.With(slog.String("op", op),
		slog.String("message_id", msg.MessageID),
		slog.Int64("lesson_id", msg.LessonID))

	lesson, err := s.repo.GetLesson(ctx, msg.LessonID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("lesson no longer exists, nothing to send")
			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	// Курс берется текущий, а не из сообщения.
	if lesson.CourseID == nil {
		log.Info("lesson has no course, nothing to send")
		return nil
	}

	course, err := s.repo.GetCourse(ctx, *lesson.CourseID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("course no longer exists, nothing to send")
			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	recipients, err := s.repo.ListSubscriberEmails(ctx, course.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if len(recipients) == 0 {
		log.Info("course has no subscribers", slog.Int64("course_id", course.ID))
		return nil
	}

	subject, text := LessonUpdatedEmail(lesson.Name, course.Name)
	if err := s.mailer.Send(ctx, subject, text, s.mailer.From(), recipients); err != nil {
		metrics.EmailsSentTotal.WithLabelValues("error").Inc()
		log.Error("failed to send email", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	metrics.EmailsSentTotal.WithLabelValues("ok").Inc()
	log.Info("email sent", slog.Int64("course_id", course.ID), slog.Int("recipients", len(recipients)))
	return nil
}

// LessonUpdatedEmail тема и текст письма об изменении урока.
func LessonUpdatedEmail(lessonName, courseName string) (subject, body string) {
	subject = fmt.Sprintf("Урок \"%s\" обновлен в курсе %s", lessonName, courseName)
	body = fmt.Sprintf("Урок \"%s\" в курсе %s был обновлен. Проверьте новые материалы!", lessonName, courseName)
	return subject, body
}
