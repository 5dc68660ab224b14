// Package users содержит регистрацию, активацию, вход и работу с профилем пользователя.
package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/course-platform/internal/access"
	"github.com/magabrotheeeer/course-platform/internal/lib/jwt"
	"github.com/magabrotheeeer/course-platform/internal/lib/password"
	"github.com/magabrotheeeer/course-platform/internal/models"
	"github.com/magabrotheeeer/course-platform/internal/services/serverrors"
	"github.com/magabrotheeeer/course-platform/internal/storage"
)

// Repository описывает контракт для работы с пользователями в базе данных.
type Repository interface {
	// CreateUser сохраняет нового пользователя и возвращает его ID.
	CreateUser(ctx context.Context, user models.User) (int64, error)
	// GetUserByEmail возвращает пользователя по email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUser возвращает пользователя по ID.
	GetUser(ctx context.Context, id int64) (*models.User, error)
	// UpdateUserProfile меняет переданные поля профиля.
	UpdateUserProfile(ctx context.Context, id int64, upd models.ProfileUpdate) (*models.User, error)
	// ActivateUser включает учетную запись.
	ActivateUser(ctx context.Context, id int64) error
}

// Service отвечает за учетные записи и выдачу JWT.
type Service struct {
	users    Repository
	jwtMaker jwt.Maker
	log      *slog.Logger
}

// New создает новый экземпляр Service.
func New(users Repository, jwtMaker jwt.Maker, log *slog.Logger) *Service {
	return &Service{
		users:    users,
		jwtMaker: jwtMaker,
		log:      log,
	}
}

// Register создает неактивного пользователя с ролью "user".
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	const op = "users.Register"

	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user := models.User{
		Email:        normalizeEmail(req.Email),
		PasswordHash: hashed,
		Phone:        req.Phone,
		City:         req.City,
		Role:         models.RoleUser,
		IsActive:     false,
	}

	id, err := s.users.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, fmt.Errorf("%s: email %s: %w", op, user.Email, serverrors.ErrConflict)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user.ID = id

	s.log.Info("user registered", slog.Int64("user_id", id))
	return &user, nil
}

// Activate включает учетную запись. Доступно только модератору.
func (s *Service) Activate(ctx context.Context, actor access.Actor, userID int64) error {
	const op = "users.Activate"

	if !access.IsModerator(actor, nil) {
		return fmt.Errorf("%s: %w", op, serverrors.ErrForbidden)
	}
	if err := s.users.ActivateUser(ctx, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, serverrors.ErrNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user activated", slog.Int64("user_id", userID), slog.Int64("by", actor.UserID))
	return nil
}

// Login проверяет пароль и выдает токен доступа. Неактивному пользователю вход запрещен.
func (s *Service) Login(ctx context.Context, email, rawPassword string) (string, *models.User, error) {
	const op = "users.Login"

	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", nil, fmt.Errorf("%s: %w", op, serverrors.ErrInvalidCredentials)
		}
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, serverrors.ErrInvalidCredentials)
	}
	if !user.IsActive {
		return "", nil, fmt.Errorf("%s: %w", op, serverrors.ErrInactiveAccount)
	}

	token, err := s.jwtMaker.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	return token, user, nil
}

// Profile возвращает профиль пользователя.
func (s *Service) Profile(ctx context.Context, userID int64) (*models.User, error) {
	const op = "users.Profile"

	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, serverrors.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// UpdateProfile меняет переданные поля профиля.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, upd models.ProfileUpdate) (*models.User, error) {
	const op = "users.UpdateProfile"

	user, err := s.users.UpdateUserProfile(ctx, userID, upd)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, serverrors.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
