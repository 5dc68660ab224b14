// Package models содержит доменные структуры платформы курсов:
// пользователей, курсы, уроки, подписки и платежи.
package models

import "time"

// Роли пользователей.
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
)

// User представляет зарегистрированного пользователя. Email используется как логин.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Phone        *string   `json:"phone,omitempty"`
	City         *string   `json:"city,omitempty"`
	Avatar       *string   `json:"avatar,omitempty"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsModerator сообщает, входит ли пользователь в группу модераторов.
func (u *User) IsModerator() bool {
	return u != nil && u.Role == RoleModerator
}

// RegisterRequest данные для регистрации.
type RegisterRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=35"`
	City     *string `json:"city,omitempty" validate:"omitempty,max=50"`
}

// ProfileUpdate изменяемые поля профиля.
type ProfileUpdate struct {
	Phone  *string `json:"phone,omitempty" validate:"omitempty,max=35"`
	City   *string `json:"city,omitempty" validate:"omitempty,max=50"`
	Avatar *string `json:"avatar,omitempty" validate:"omitempty,max=255"`
}

// LoginRequest данные для входа.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
