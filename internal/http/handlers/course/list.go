package course

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/course-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/course-platform/internal/http/response"
	"github.com/magabrotheeeer/course-platform/internal/lib/pagination"
	"github.com/magabrotheeeer/course-platform/internal/lib/sl"
)

// ListHandler GET /courses.
type ListHandler struct {
	log     *slog.Logger
	service Service
}

// NewList создает ListHandler.
func NewList(log *slog.Logger, service Service) *ListHandler {
	return &ListHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список курсов
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Param page query int false "Номер страницы"
// @Param page_size query int false "Размер страницы (до 10)"
// @Success 200 {object} response.Response
// @Router /courses [get]
func (h *ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.course.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	params := pagination.FromRequest(r)
	courses, total, err := h.service.ListCourses(r.Context(), middlewarectx.ActorFromContext(r.Context()), params.Limits())
	if err != nil {
		log.Error("failed to list courses", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(pagination.NewResult(params, total, courses)))
}
