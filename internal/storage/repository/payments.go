package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/course-platform/internal/models"
	"github.com/magabrotheeeer/course-platform/internal/storage"
)

const paymentColumns = `p.id, p.user_id, p.paid_course_id, p.paid_lesson_id, p.amount, p.payment_method,
			  p.stripe_session_id, p.stripe_payment_url, p.payment_date`

func scanPayment(row rowScanner) (*models.Payment, error) {
	var p models.Payment
	if err := row.Scan(&p.ID, &p.UserID, &p.PaidCourseID, &p.PaidLessonID, &p.Amount, &p.Method,
		&p.SessionID, &p.PaymentURL, &p.PaymentDate); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePayment сохраняет платеж без сессии оплаты. Заполняет ID и PaymentDate.
func (s *Storage) CreatePayment(ctx context.Context, payment models.Payment) (*models.Payment, error) {
	const op = "storage.CreatePayment"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `INSERT INTO payments (user_id, paid_course_id, paid_lesson_id, amount, payment_method)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id, payment_date`
	if err := s.DB.QueryRowContext(ctx, query,
		payment.UserID, payment.PaidCourseID, payment.PaidLessonID, payment.Amount, string(payment.Method),
	).Scan(&payment.ID, &payment.PaymentDate); err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	payment.SessionID = nil
	payment.PaymentURL = nil
	return &payment, nil
}

// FinalizePayment одним UPDATE записывает идентификатор сессии и адрес оплаты.
// Повторная финализация возвращает storage.ErrAlreadyFinalized.
func (s *Storage) FinalizePayment(ctx context.Context, id int64, sessionID, paymentURL string) error {
	const op = "storage.FinalizePayment"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	result, err := s.DB.ExecContext(ctx,
		`UPDATE payments SET stripe_session_id = $1, stripe_payment_url = $2
		 WHERE id = $3 AND stripe_session_id IS NULL`, sessionID, paymentURL, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rows == 1 {
		return nil
	}

	var exists bool
	if err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM payments WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, storage.ErrAlreadyFinalized)
}

// ListPayments возвращает страницу платежей по фильтру и общее количество подходящих.
func (s *Storage) ListPayments(ctx context.Context, filter models.PaymentFilter) ([]*models.Payment, int, error) {
	const op = "storage.ListPayments"
	if err := checkCtx(ctx, op); err != nil {
		return nil, 0, err
	}

	where, args := paymentWhere(filter)

	var total int
	countQuery := `SELECT COUNT(*) FROM payments p JOIN users u ON u.id = p.user_id` + where
	if err := s.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	order := "ASC"
	if filter.Descending {
		order = "DESC"
	}
	query := fmt.Sprintf(`SELECT %s
			  FROM payments p
			  JOIN users u ON u.id = p.user_id%s
			  ORDER BY p.payment_date %s, p.id %s
			  LIMIT $%d OFFSET $%d`, paymentColumns, where, order, order, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := []*models.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return result, total, nil
}

func paymentWhere(filter models.PaymentFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if filter.PaidCourseID != nil {
		args = append(args, *filter.PaidCourseID)
		conds = append(conds, fmt.Sprintf("p.paid_course_id = $%d", len(args)))
	}
	if filter.PaidLessonID != nil {
		args = append(args, *filter.PaidLessonID)
		conds = append(conds, fmt.Sprintf("p.paid_lesson_id = $%d", len(args)))
	}
	if filter.Method != nil {
		args = append(args, string(*filter.Method))
		conds = append(conds, fmt.Sprintf("p.payment_method = $%d", len(args)))
	}
	if filter.UserEmail != "" {
		args = append(args, "%"+filter.UserEmail+"%")
		conds = append(conds, fmt.Sprintf("u.email ILIKE $%d", len(args)))
	}
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		conds = append(conds, fmt.Sprintf("p.user_id = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
