package lesson

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/course-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/course-platform/internal/http/response"
	"github.com/magabrotheeeer/course-platform/internal/lib/sl"
)

// RemoveHandler DELETE /lessons/{id}/delete.
type RemoveHandler struct {
	log     *slog.Logger
	service Service
}

// NewRemove создает RemoveHandler.
func NewRemove(log *slog.Logger, service Service) *RemoveHandler {
	return &RemoveHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удаление урока
// @Tags Lessons
// @Security BearerAuth
// @Param id path int true "ID урока"
// @Success 204
// @Failure 403 {object} response.Response
// @Router /lessons/{id}/delete [delete]
func (h *RemoveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.lesson.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := idParam(r)
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	if err := h.service.DeleteLesson(r.Context(), middlewarectx.ActorFromContext(r.Context()), id); err != nil {
		log.Error("failed to delete lesson", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("lesson deleted", slog.Int64("id", id))
	render.NoContent(w, r)
}
