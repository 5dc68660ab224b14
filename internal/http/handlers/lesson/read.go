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

// ReadHandler GET /lessons/{id}.
type ReadHandler struct {
	log     *slog.Logger
	service Service
}

// NewRead создает ReadHandler.
func NewRead(log *slog.Logger, service Service) *ReadHandler {
	return &ReadHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Урок
// @Tags Lessons
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID урока"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /lessons/{id} [get]
func (h *ReadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.lesson.read"

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

	detail, err := h.service.GetLesson(r.Context(), middlewarectx.ActorFromContext(r.Context()), id)
	if err != nil {
		log.Error("failed to read lesson", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(detail))
}
