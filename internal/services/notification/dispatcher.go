// Package notification ставит в очередь команды на рассылку подписчикам курса.
package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/course-platform/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/course-platform/internal/lib/sl"
	"github.com/magabrotheeeer/course-platform/internal/metrics"
	"github.com/magabrotheeeer/course-platform/internal/models"
)

// Publisher отправляет сообщение в брокер.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// Dispatcher публикует LessonUpdated. Получателей не вычисляет:
// их определяет обработчик в момент выполнения.
type Dispatcher struct {
	publisher Publisher
	log       *slog.Logger
	now       func() time.Time
}

// NewDispatcher создает диспетчер уведомлений.
func NewDispatcher(publisher Publisher, log *slog.Logger) *Dispatcher {
	return &Dispatcher{publisher: publisher, log: log, now: time.Now}
}

// LessonUpdated ставит в очередь одну команду на рассылку об изменении урока.
func (d *Dispatcher) LessonUpdated(ctx context.Context, lesson *models.Lesson) error {
	const op = "notification.LessonUpdated"

	msg := models.LessonUpdated{
		MessageID: uuid.NewString(),
		LessonID:  lesson.ID,
		CourseID:  lesson.CourseID,
		UpdatedAt: d.now().UTC(),
	}

	if err := d.publisher.Publish(ctx, rabbitmq.LessonUpdatedRoutingKey, msg); err != nil {
		metrics.NotificationsPublishedTotal.WithLabelValues("error").Inc()
		d.log.Error("failed to enqueue lesson notification",
			slog.String("op", op), slog.Int64("lesson_id", lesson.ID), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	metrics.NotificationsPublishedTotal.WithLabelValues("ok").Inc()
	d.log.Info("lesson notification enqueued",
		slog.String("message_id", msg.MessageID), slog.Int64("lesson_id", lesson.ID))
	return nil
}
