// Package payment ведет жизненный цикл платежа: создание ожидающей записи,
// привязку платежной сессии и сценарий покупки курса или урока.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/course-platform/internal/access"
	"github.com/magabrotheeeer/course-platform/internal/lib/sl"
	"github.com/magabrotheeeer/course-platform/internal/metrics"
	"github.com/magabrotheeeer/course-platform/internal/models"
	"github.com/magabrotheeeer/course-platform/internal/paymentprovider"
	"github.com/magabrotheeeer/course-platform/internal/services/serverrors"
	"github.com/magabrotheeeer/course-platform/internal/storage"
)

// Repository хранилище платежей и оплачиваемых объектов.
type Repository interface {
	CreatePayment(ctx context.Context, payment models.Payment) (*models.Payment, error)
	FinalizePayment(ctx context.Context, id int64, sessionID, paymentURL string) error
	ListPayments(ctx context.Context, filter models.PaymentFilter) ([]*models.Payment, int, error)
	GetCourse(ctx context.Context, id int64) (*models.Course, error)
	GetLesson(ctx context.Context, id int64) (*models.Lesson, error)
}

// Converter пересчитывает сумму в валюту провайдера.
type Converter interface {
	Convert(ctx context.Context, amount decimal.Decimal) (decimal.Decimal, error)
}

// SessionBuilder создает платежную сессию у провайдера.
type SessionBuilder interface {
	Build(ctx context.Context, productName string, amount decimal.Decimal) (*paymentprovider.Session, error)
}

// Service сервис платежей.
type Service struct {
	repo      Repository
	converter Converter
	builder   SessionBuilder
	log       *slog.Logger
}

// New создает сервис платежей.
func New(repo Repository, converter Converter, builder SessionBuilder, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		converter: converter,
		builder:   builder,
		log:       log,
	}
}

// Create сохраняет ожидающий платеж без платежной сессии.
func (s *Service) Create(ctx context.Context, userID int64, target models.Target, amount int64, method models.PaymentMethod) (*models.Payment, error) {
	const op = "payment.Create"

	if amount <= 0 {
		return nil, fmt.Errorf("%s: %w: amount must be positive", op, serverrors.ErrValidation)
	}
	if !method.Valid() {
		return nil, fmt.Errorf("%s: %w: unknown payment method %q", op, serverrors.ErrValidation, method)
	}
	if target.ID <= 0 {
		return nil, fmt.Errorf("%s: %w: target id must be positive", op, serverrors.ErrValidation)
	}

	p := models.Payment{UserID: userID, Amount: amount, Method: method}
	switch target.Kind {
	case models.TargetCourse:
		p.PaidCourseID = &target.ID
	case models.TargetLesson:
		p.PaidLessonID = &target.ID
	default:
		return nil, fmt.Errorf("%s: %w: unknown target kind %q", op, serverrors.ErrValidation, target.Kind)
	}

	created, err := s.repo.CreatePayment(ctx, p)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidReference) {
			return nil, fmt.Errorf("%s: %w", op, serverrors.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// Finalize привязывает к платежу сессию одним обновлением обоих полей.
// Уже привязанный платеж не перезаписывается.
func (s *Service) Finalize(ctx context.Context, p *models.Payment, sessionID, paymentURL string) error {
	const op = "payment.Finalize"

	if sessionID == "" || paymentURL == "" {
		return fmt.Errorf("%s: %w: session id and url are required", op, serverrors.ErrValidation)
	}

	if err := s.repo.FinalizePayment(ctx, p.ID, sessionID, paymentURL); err != nil {
		switch {
		case errors.Is(err, storage.ErrAlreadyFinalized):
			return fmt.Errorf("%s: %w", op, serverrors.ErrConflict)
		case errors.Is(err, storage.ErrNotFound):
			return fmt.Errorf("%s: %w", op, serverrors.ErrNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	p.SessionID = &sessionID
	p.PaymentURL = &paymentURL
	return nil
}

// Purchase создает платеж и платежную сессию для курса или урока.
// Если сессию создать не удалось, возвращается ожидающий платеж вместе с ошибкой.
func (s *Service) Purchase(ctx context.Context, userID int64, req models.PurchaseRequest) (*models.Payment, error) {
	const op = "payment.Purchase"
	log := s.log.With(slog.String("op", op), slog.Int64("user_id", userID))

	target, err := targetOf(req)
	if err != nil {
		metrics.PurchasesTotal.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	name, err := s.itemName(ctx, target)
	if err != nil {
		metrics.PurchasesTotal.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	pending, err := s.Create(ctx, userID, target, req.Amount, req.Method)
	if err != nil {
		metrics.PurchasesTotal.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	log = log.With(slog.Int64("payment_id", pending.ID))

	converted, err := s.converter.Convert(ctx, decimal.NewFromInt(req.Amount))
	if err != nil {
		log.Error("failed to convert amount", sl.Err(err))
		metrics.PurchasesTotal.WithLabelValues("conversion_failed").Inc()
		return pending, fmt.Errorf("%s: %w: %w", op, serverrors.ErrConversionUnavailable, err)
	}

	session, err := s.builder.Build(ctx, name, converted)
	if err != nil {
		log.Error("failed to build payment session", sl.Err(err))
		metrics.PurchasesTotal.WithLabelValues("provider_failed").Inc()
		return pending, fmt.Errorf("%s: %w: %w", op, serverrors.ErrProvider, err)
	}

	if err := s.Finalize(ctx, pending, session.ID, session.URL); err != nil {
		log.Error("failed to finalize payment", sl.Err(err))
		metrics.PurchasesTotal.WithLabelValues("finalize_failed").Inc()
		return pending, fmt.Errorf("%s: %w", op, err)
	}

	metrics.PurchasesTotal.WithLabelValues("success").Inc()
	log.Info("payment session created", slog.String("session_id", session.ID))
	return pending, nil
}

// List возвращает страницу платежей по фильтру и общее количество.
// Модератор видит все платежи, остальные только свои.
func (s *Service) List(ctx context.Context, actor access.Actor, filter models.PaymentFilter) ([]*models.Payment, int, error) {
	const op = "payment.List"

	if !actor.Authenticated {
		return nil, 0, fmt.Errorf("%s: %w", op, serverrors.ErrUnauthorized)
	}
	filter.UserID = nil
	if !actor.Moderator {
		userID := actor.UserID
		filter.UserID = &userID
	}
	if filter.Method != nil && !filter.Method.Valid() {
		return nil, 0, fmt.Errorf("%s: %w: unknown payment method %q", op, serverrors.ErrValidation, *filter.Method)
	}

	payments, total, err := s.repo.ListPayments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return payments, total, nil
}

func targetOf(req models.PurchaseRequest) (models.Target, error) {
	switch {
	case req.CourseID != nil && req.LessonID != nil:
		return models.Target{}, fmt.Errorf("%w: only one of paid_course and paid_lesson may be set", serverrors.ErrValidation)
	case req.CourseID != nil:
		return models.Target{Kind: models.TargetCourse, ID: *req.CourseID}, nil
	case req.LessonID != nil:
		return models.Target{Kind: models.TargetLesson, ID: *req.LessonID}, nil
	}
	return models.Target{}, fmt.Errorf("%w: paid_course or paid_lesson is required", serverrors.ErrValidation)
}

// itemName возвращает название оплачиваемого объекта, оно же имя товара у провайдера.
func (s *Service) itemName(ctx context.Context, target models.Target) (string, error) {
	var (
		name string
		err  error
	)
	switch target.Kind {
	case models.TargetCourse:
		var c *models.Course
		if c, err = s.repo.GetCourse(ctx, target.ID); err == nil {
			name = c.Name
		}
	case models.TargetLesson:
		var l *models.Lesson
		if l, err = s.repo.GetLesson(ctx, target.ID); err == nil {
			name = l.Name
		}
	default:
		return "", fmt.Errorf("%w: unknown target kind %q", serverrors.ErrValidation, target.Kind)
	}
	if errors.Is(err, storage.ErrNotFound) {
		return "", fmt.Errorf("%s %d: %w", target.Kind, target.ID, serverrors.ErrNotFound)
	}
	return name, err
}
