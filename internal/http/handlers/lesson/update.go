package lesson

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
	"github.com/magabrotheeeer/course-platform/internal/lib/videolink"
	"github.com/magabrotheeeer/course-platform/internal/models"
)

// UpdateHandler PUT и PATCH /lessons/{id}/update. После успешного изменения
// подписчикам курса ставится в очередь одно уведомление.
type UpdateHandler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// NewUpdate создает UpdateHandler.
func NewUpdate(log *slog.Logger, service Service) *UpdateHandler {
	return &UpdateHandler{log: log, service: service, validate: videolink.NewValidator()}
}

// ServeHTTP godoc
// @Summary Изменение урока
// @Tags Lessons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID урока"
// @Param request body models.LessonPatch true "Изменяемые поля"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /lessons/{id}/update [put]
// @Router /lessons/{id}/update [patch]
func (h *UpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.lesson.update"

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

	var patch models.LessonPatch
	var payload any = &patch
	var full models.LessonInput
	if r.Method == http.MethodPut {
		payload = &full
	}

	if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	if r.Method == http.MethodPut {
		patch = full.Patch()
	}

	lesson, err := h.service.UpdateLesson(r.Context(), middlewarectx.ActorFromContext(r.Context()), id, patch)
	if err != nil {
		log.Error("failed to update lesson", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("lesson updated", slog.Int64("id", id))
	render.JSON(w, r, response.StatusOKWithData(lesson))
}
