// Package toggle подписывает пользователя на курс или снимает подписку.
package toggle

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/course-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/course-platform/internal/http/response"
	"github.com/magabrotheeeer/course-platform/internal/lib/sl"
	"github.com/magabrotheeeer/course-platform/internal/models"
	"github.com/magabrotheeeer/course-platform/internal/services/serverrors"
	"github.com/magabrotheeeer/course-platform/internal/services/subscription"
)

// Service переключение подписки.
type Service interface {
	Toggle(ctx context.Context, userID, courseID int64) (models.SubscriptionStatus, error)
}

// Handler POST /subscribe.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service, validate: validator.New()}
}

// ServeHTTP godoc
// @Summary Подписка на курс
// @Description Повторный запрос для того же курса снимает подписку.
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.ToggleRequest true "Курс"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response "Курс не найден"
// @Router /subscribe [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.toggle"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actor := middlewarectx.ActorFromContext(r.Context())
	if !actor.Authenticated {
		response.RenderError(w, r, serverrors.ErrUnauthorized)
		return
	}

	var req models.ToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	status, err := h.service.Toggle(r.Context(), actor.UserID, req.CourseID)
	if err != nil {
		log.Error("failed to toggle subscription", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"status":  status,
		"message": subscription.Message(status),
	}))
}
