// Package profile реализует чтение и изменение профиля текущего пользователя.
package profile

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
)

// Service операции над профилем.
type Service interface {
	Profile(ctx context.Context, userID int64) (*models.User, error)
	UpdateProfile(ctx context.Context, userID int64, upd models.ProfileUpdate) (*models.User, error)
}

// GetHandler GET /users/me.
type GetHandler struct {
	log     *slog.Logger
	service Service
}

// NewGet создает GetHandler.
func NewGet(log *slog.Logger, service Service) *GetHandler {
	return &GetHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Профиль текущего пользователя
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /users/me [get]
func (h *GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.profile.get"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actor := middlewarectx.ActorFromContext(r.Context())
	if !actor.Authenticated {
		response.RenderError(w, r, serverrors.ErrUnauthorized)
		return
	}

	user, err := h.service.Profile(r.Context(), actor.UserID)
	if err != nil {
		log.Error("failed to load profile", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(user))
}

// UpdateHandler PUT /users/me.
type UpdateHandler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// NewUpdate создает UpdateHandler.
func NewUpdate(log *slog.Logger, service Service) *UpdateHandler {
	return &UpdateHandler{log: log, service: service, validate: validator.New()}
}

// ServeHTTP godoc
// @Summary Изменение профиля текущего пользователя
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.ProfileUpdate true "Поля профиля"
// @Success 200 {object} response.Response
// @Router /users/me [put]
func (h *UpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.profile.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actor := middlewarectx.ActorFromContext(r.Context())
	if !actor.Authenticated {
		response.RenderError(w, r, serverrors.ErrUnauthorized)
		return
	}

	var req models.ProfileUpdate
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

	user, err := h.service.UpdateProfile(r.Context(), actor.UserID, req)
	if err != nil {
		log.Error("failed to update profile", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	log.Info("profile updated", slog.Int64("user_id", actor.UserID))
	render.JSON(w, r, response.StatusOKWithData(user))
}
