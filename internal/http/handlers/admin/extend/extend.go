// Package extend реализует HTTP-обработчик продления доступа пользователя администратором.
package extend

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/chat-subscription/internal/http/response"
	"github.com/magabrotheeeer/chat-subscription/internal/lib/sl"
)

// Request — входные данные продления. Days = 0 или отсутствие поля означает 7 дней.
// Отсутствующий userId равен 0 и даёт 404 от сервиса.
type Request struct {
	UserID int64 `json:"userId"`
	Days   int   `json:"days" validate:"min=0"`
}

// Response результат продления.
type Response struct {
	Success           bool      `json:"success"`
	NewExpirationDate time.Time `json:"newExpirationDate"`
}

// Service описывает продление доступа.
type Service interface {
	ExtendSubscription(ctx context.Context, userID int64, days int) (time.Time, error)
}

// Handler обрабатывает запросы на продление доступа.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Продление доступа
// @Description Продлевает доступ пользователя на days дней от большей из дат: текущего окончания доступа или текущего момента. Только для администратора.
// @Tags Admin
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "ID пользователя и число дней"
// @Success 200 {object} Response
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ошибка валидации"
// @Failure 401 {object} response.ErrorResponse "Нет или недействителен токен"
// @Failure 403 {object} response.ErrorResponse "Требуется роль admin"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка хранилища"
// @Router /admin/extend [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.extend"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			log.Error("validation failed", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid request"))
			return
		}
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(verrs))
		return
	}

	newExpiration, err := h.service.ExtendSubscription(r.Context(), req.UserID, req.Days)
	if err != nil {
		log.Error("failed to extend subscription", slog.Int64("user_id", req.UserID), sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	render.JSON(w, r, Response{
		Success:           true,
		NewExpirationDate: newExpiration,
	})
}
