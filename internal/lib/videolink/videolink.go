// Package videolink проверяет, что ссылка на видео ведет на разрешенный хостинг.
package videolink

import (
	"errors"
	"strings"

	"github.com/go-playground/validator"
)

// AllowedHost подстрока, которая должна быть в ссылке.
const AllowedHost = "youtube.com"

// Tag имя правила для validator.
const Tag = "youtube"

// ErrNotAllowed ссылка ведет не на youtube.com.
var ErrNotAllowed = errors.New("link must point to youtube.com")

// Allowed сообщает, содержит ли ссылка youtube.com.
func Allowed(link string) bool {
	return strings.Contains(link, AllowedHost)
}

// Validate возвращает ErrNotAllowed для ссылки не на youtube.com.
func Validate(link string) error {
	if !Allowed(link) {
		return ErrNotAllowed
	}
	return nil
}

// Register добавляет в валидатор правило youtube.
func Register(v *validator.Validate) error {
	return v.RegisterValidation(Tag, func(fl validator.FieldLevel) bool {
		return Allowed(fl.Field().String())
	})
}

// NewValidator возвращает validator с зарегистрированным правилом youtube.
func NewValidator() *validator.Validate {
	v := validator.New()
	if err := Register(v); err != nil {
		panic(err)
	}
	return v
}
