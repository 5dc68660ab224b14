// Package purchase обрабатывает покупку курса или урока.
package purchase

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

// Service оформление покупки.
type Service interface {
	Purchase(ctx context.Context, userID int64, req models.PurchaseRequest) (*models.Payment, error)
}

// Handler POST /payments.
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
// @Summary Покупка курса или урока
// @Description Создает платеж и платежную сессию. Если сессию создать не удалось,
// @Description в ответе вместе с ошибкой возвращается платеж в статусе ожидания.
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.PurchaseRequest true "Покупка"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 502 {object} response.Response "Ошибка платежного провайдера"
// @Failure 503 {object} response.Response "Курс валют недоступен"
// @Router /payments [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.purchase"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actor := middlewarectx.ActorFromContext(r.Context())
	if !actor.Authenticated {
		response.RenderError(w, r, serverrors.ErrUnauthorized)
		return
	}

	var req models.PurchaseRequest
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

	payment, err := h.service.Purchase(r.Context(), actor.UserID, req)
	if err != nil {
		log.Error("failed to purchase", sl.Err(err))
		status, resp := response.FromError(err)
		// Платеж уже сохранен, клиент может повторить оплату по его id.
		if payment != nil {
			resp.Data = payment
		}
		render.Status(r, status)
		render.JSON(w, r, resp)
		return
	}

	log.Info("payment created", slog.Int64("payment_id", payment.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(payment))
}
