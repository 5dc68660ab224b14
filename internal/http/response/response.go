// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков. Пакет упрощает возврат
// успешных ответов, ошибок и сообщений валидации в едином формате.
package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/course-platform/internal/lib/videolink"
	"github.com/magabrotheeeer/course-platform/internal/services/serverrors"
)

// Response описывает стандартную структуру JSON‑ответа сервера.
// Поле Status — статус запроса ("OK" или "Error").
// Поле Error — текст ошибки (опционально, при неуспехе).
// Поле Data — данные ответа (опционально, при успехе).
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

const (
	// StatusOK — значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError — значение статуса для ответа с ошибкой.
	StatusError = "Error"
)

// VideoLinkMessage текст ошибки для ссылки не на youtube.com.
const VideoLinkMessage = "Ссылка должна вести на youtube.com"

// StatusOKWithData возвращает успешный Response с переданными данными.
func StatusOKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Error возвращает Response с ошибкой и переданным сообщением.
func Error(msg string) Response {
	return Response{
		Status: StatusError,
		Error:  msg,
	}
}

// ValidationError формирует Response со статусом Error на основе ошибок валидации.
// Каждое нарушение формируется в человеко‑читаемый текст, объединённый через запятую.
func ValidationError(errs validator.ValidationErrors) Response {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "url":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid url", err.Field()))
		case videolink.Tag:
			errsMsgs = append(errsMsgs, VideoLinkMessage)
		case "min", "max":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must satisfy %s=%s", err.Field(), err.ActualTag(), err.Param()))
		case "gt":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be greater than %s", err.Field(), err.Param()))
		case "oneof":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be one of: %s", err.Field(), err.Param()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return Response{
		Status: StatusError,
		Error:  strings.Join(errsMsgs, ", "),
	}
}

// FromError подбирает HTTP-статус и текст ответа для ошибки сервиса.
func FromError(err error) (int, Response) {
	switch {
	case errors.Is(err, videolink.ErrNotAllowed):
		return http.StatusBadRequest, Error(VideoLinkMessage)
	case errors.Is(err, serverrors.ErrValidation):
		return http.StatusBadRequest, Error(validationMessage(err))
	case errors.Is(err, serverrors.ErrUnauthorized):
		return http.StatusUnauthorized, Error("authentication required")
	case errors.Is(err, serverrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, Error("invalid email or password")
	case errors.Is(err, serverrors.ErrInactiveAccount):
		return http.StatusForbidden, Error("account is not active")
	case errors.Is(err, serverrors.ErrForbidden):
		return http.StatusForbidden, Error("you do not have permission to perform this action")
	case errors.Is(err, serverrors.ErrNotFound):
		return http.StatusNotFound, Error("not found")
	case errors.Is(err, serverrors.ErrConflict):
		return http.StatusConflict, Error("already exists")
	case errors.Is(err, serverrors.ErrConversionUnavailable):
		return http.StatusServiceUnavailable, Error("currency conversion is unavailable, try again later")
	case errors.Is(err, serverrors.ErrProvider):
		return http.StatusBadGateway, Error("payment provider error")
	}
	return http.StatusInternalServerError, Error("internal error")
}

// validationMessage оставляет от ошибки только текст после сентинела валидации.
func validationMessage(err error) string {
	msg := err.Error()
	prefix := serverrors.ErrValidation.Error() + ": "
	if i := strings.Index(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return serverrors.ErrValidation.Error()
}

// RenderError отдает ошибку сервиса со статусом из FromError.
func RenderError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := FromError(err)
	render.Status(r, status)
	render.JSON(w, r, resp)
}
