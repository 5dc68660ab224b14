package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/course-platform/internal/models"
)

const userColumns = `id, email, password_hash, phone, city, avatar, role, is_active, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Phone, &u.City, &u.Avatar,
		&u.Role, &u.IsActive, &u.CreatedAt); err != nil {
		return nil, err
	}
	return u, nil
}

// CreateUser сохраняет нового пользователя и возвращает его ID.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (int64, error) {
	const op = "storage.CreateUser"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	query := `INSERT INTO users (email, password_hash, phone, city, avatar, role, is_active)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id`
	var newID int64
	if err := s.DB.QueryRowContext(ctx, query,
		user.Email, user.PasswordHash, user.Phone, user.City, user.Avatar,
		user.Role, user.IsActive).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return newID, nil
}

// GetUserByEmail возвращает пользователя по email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return u, nil
}

// GetUser возвращает пользователя по ID.
func (s *Storage) GetUser(ctx context.Context, id int64) (*models.User, error) {
	const op = "storage.GetUser"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return u, nil
}

// UpdateUserProfile меняет только переданные поля профиля и возвращает пользователя.
func (s *Storage) UpdateUserProfile(ctx context.Context, id int64, upd models.ProfileUpdate) (*models.User, error) {
	const op = "storage.UpdateUserProfile"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `UPDATE users
			  SET phone = COALESCE($1, phone), city = COALESCE($2, city), avatar = COALESCE($3, avatar)
			  WHERE id = $4
			  RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, upd.Phone, upd.City, upd.Avatar, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return u, nil
}

// ActivateUser помечает пользователя активным.
func (s *Storage) ActivateUser(ctx context.Context, id int64) error {
	const op = "storage.ActivateUser"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	result, err := s.DB.ExecContext(ctx, `UPDATE users SET is_active = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := expectAffected(result); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
