package course

import (
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
)

// CreateHandler POST /courses.
type CreateHandler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// NewCreate создает CreateHandler.
func NewCreate(log *slog.Logger, service Service) *CreateHandler {
	return &CreateHandler{log: log, service: service, validate: validator.New()}
}

// ServeHTTP godoc
// @Summary Создание курса
// @Tags Courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CourseInput true "Курс"
// @Success 201 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /courses [post]
func (h *CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.course.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.CourseInput
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

	course, err := h.service.CreateCourse(r.Context(), middlewarectx.ActorFromContext(r.Context()), req)
	if err != nil {
		log.Error("failed to create course", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("course created", slog.Int64("id", course.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(course))
}
