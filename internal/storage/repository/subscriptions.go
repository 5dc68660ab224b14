package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/course-platform/internal/models"
)

// ToggleSubscription удаляет подписку пользователя на курс, если она есть, иначе создает.
// Проверка и изменение выполняются в одной транзакции; при гонке двух вставок
// уникальный индекс (user_id, course_id) оставляет одну строку.
func (s *Storage) ToggleSubscription(ctx context.Context, userID, courseID int64) (models.SubscriptionStatus, error) {
	const op = "storage.ToggleSubscription"
	if err := checkCtx(ctx, op); err != nil {
		return "", err
	}

	tx, err := s.DB.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	result, err := tx.ExecContext(ctx,
		`DELETE FROM subscriptions WHERE user_id = $1 AND course_id = $2`, userID, courseID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	status := models.Unsubscribed
	if deleted == 0 {
		status = models.Subscribed
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO subscriptions (user_id, course_id) VALUES ($1, $2)
			 ON CONFLICT (user_id, course_id) DO NOTHING`, userID, courseID); err != nil {
			return "", fmt.Errorf("%s: %w", op, mapError(err))
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return status, nil
}

// IsSubscribed сообщает, подписан ли пользователь на курс.
func (s *Storage) IsSubscribed(ctx context.Context, userID, courseID int64) (bool, error) {
	const op = "storage.IsSubscribed"
	if err := checkCtx(ctx, op); err != nil {
		return false, err
	}

	var exists bool
	err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM subscriptions WHERE user_id = $1 AND course_id = $2)`,
		userID, courseID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// ListSubscriberEmails возвращает email всех подписчиков курса.
func (s *Storage) ListSubscriberEmails(ctx context.Context, courseID int64) ([]string, error) {
	const op = "storage.ListSubscriberEmails"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT u.email
			  FROM subscriptions s
			  JOIN users u ON u.id = s.user_id
			  WHERE s.course_id = $1
			  ORDER BY s.id`
	rows, err := s.DB.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		emails = append(emails, email)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return emails, nil
}
