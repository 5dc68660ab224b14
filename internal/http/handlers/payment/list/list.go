// Package list отдает список платежей с фильтрами, поиском по email и сортировкой по дате.
// Пользователь видит только свои платежи, модератор все.
package list

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/course-platform/internal/access"
	"github.com/magabrotheeeer/course-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/course-platform/internal/http/response"
	"github.com/magabrotheeeer/course-platform/internal/lib/pagination"
	"github.com/magabrotheeeer/course-platform/internal/lib/sl"
	"github.com/magabrotheeeer/course-platform/internal/models"
)

const orderingField = "payment_date"

// Service выборка платежей.
type Service interface {
	List(ctx context.Context, actor access.Actor, filter models.PaymentFilter) ([]*models.Payment, int, error)
}

// Handler GET /payments.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список платежей
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param paid_course query int false "ID курса"
// @Param paid_lesson query int false "ID урока"
// @Param payment_method query string false "cash или transfer"
// @Param search query string false "Часть email пользователя"
// @Param ordering query string false "payment_date или -payment_date"
// @Param page query int false "Номер страницы"
// @Param page_size query int false "Размер страницы"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /payments [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	params := pagination.FromRequest(r)
	filter, err := filterFromRequest(r)
	if err != nil {
		log.Error("invalid query", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}
	filter.Page = params.Limits()

	payments, total, err := h.service.List(r.Context(), middlewarectx.ActorFromContext(r.Context()), filter)
	if err != nil {
		log.Error("failed to list payments", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(pagination.NewResult(params, total, payments)))
}

func filterFromRequest(r *http.Request) (models.PaymentFilter, error) {
	q := r.URL.Query()
	var f models.PaymentFilter

	var err error
	if f.PaidCourseID, err = optionalID(q.Get("paid_course"), "paid_course"); err != nil {
		return f, err
	}
	if f.PaidLessonID, err = optionalID(q.Get("paid_lesson"), "paid_lesson"); err != nil {
		return f, err
	}
	if v := q.Get("payment_method"); v != "" {
		m := models.PaymentMethod(v)
		if !m.Valid() {
			return f, fmt.Errorf("field payment_method must be one of: %s %s", models.PaymentCash, models.PaymentTransfer)
		}
		f.Method = &m
	}
	f.UserEmail = q.Get("search")

	switch q.Get("ordering") {
	case "", orderingField:
	case "-" + orderingField:
		f.Descending = true
	default:
		return f, fmt.Errorf("field ordering must be %s or -%s", orderingField, orderingField)
	}
	return f, nil
}

func optionalID(v, field string) (*int64, error) {
	if v == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("field %s must be a positive integer", field)
	}
	return &id, nil
}
