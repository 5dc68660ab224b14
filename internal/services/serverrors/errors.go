// Package serverrors содержит ошибки бизнес-логики, которые HTTP-слой переводит в коды ответа.
package serverrors

import "errors"

var (
	ErrValidation            = errors.New("validation failed")
	ErrNotFound              = errors.New("not found")
	ErrForbidden             = errors.New("forbidden")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrConflict              = errors.New("conflict")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrInactiveAccount       = errors.New("account is not active")
	ErrConversionUnavailable = errors.New("currency conversion unavailable")
	ErrProvider              = errors.New("payment provider error")
)
