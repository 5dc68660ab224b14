// Package subscription переключает подписку пользователя на курс.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/course-platform/internal/metrics"
	"github.com/magabrotheeeer/course-platform/internal/models"
	"github.com/magabrotheeeer/course-platform/internal/services/serverrors"
	"github.com/magabrotheeeer/course-platform/internal/storage"
)

// Repository определяет методы хранилища, нужные для подписок.
type Repository interface {
	// GetCourse возвращает курс по ID.
	GetCourse(ctx context.Context, id int64) (*models.Course, error)
	// ToggleSubscription удаляет подписку, а если ее не было, создает. Атомарно.
	ToggleSubscription(ctx context.Context, userID, courseID int64) (models.SubscriptionStatus, error)
}

// Service сервис подписок.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создает сервис подписок.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Toggle подписывает пользователя на курс или отписывает, если подписка уже есть.
func (s *Service) Toggle(ctx context.Context, userID, courseID int64) (models.SubscriptionStatus, error) {
	const op = "subscription.Toggle"

	if _, err := s.repo.GetCourse(ctx, courseID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", fmt.Errorf("%s: course %d: %w", op, courseID, serverrors.ErrNotFound)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}

	status, err := s.repo.ToggleSubscription(ctx, userID, courseID)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidReference) {
			return "", fmt.Errorf("%s: course %d: %w", op, courseID, serverrors.ErrNotFound)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}

	metrics.SubscriptionTogglesTotal.WithLabelValues(string(status)).Inc()
	s.log.Info("subscription toggled",
		slog.Int64("user_id", userID),
		slog.Int64("course_id", courseID),
		slog.String("status", string(status)))
	return status, nil
}

// Message текст ответа для статуса подписки.
func Message(status models.SubscriptionStatus) string {
	if status == models.Subscribed {
		return "Подписка добавлена"
	}
	return "Подписка удалена"
}
