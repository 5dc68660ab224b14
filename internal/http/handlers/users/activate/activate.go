// Package activate реализует активацию учетной записи модератором.
package activate

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/course-platform/internal/access"
	"github.com/magabrotheeeer/course-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/course-platform/internal/http/response"
	"github.com/magabrotheeeer/course-platform/internal/lib/sl"
)

// Service активирует пользователя.
type Service interface {
	Activate(ctx context.Context, actor access.Actor, userID int64) error
}

// Handler POST /users/{id}/activate.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Активация пользователя
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID пользователя"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /users/{id}/activate [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.activate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		log.Error("failed to decode id from url", slog.String("id", chi.URLParam(r, "id")))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	if err := h.service.Activate(r.Context(), middlewarectx.ActorFromContext(r.Context()), id); err != nil {
		log.Error("failed to activate user", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("user activated", slog.Int64("user_id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"id":        id,
		"is_active": true,
	}))
}
