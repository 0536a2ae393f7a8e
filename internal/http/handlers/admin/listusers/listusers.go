// Package listusers реализует HTTP-обработчик списка пользователей для администратора.
package listusers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/chat-subscription/internal/http/response"
	"github.com/magabrotheeeer/chat-subscription/internal/lib/sl"
	"github.com/magabrotheeeer/chat-subscription/internal/models"
)

// Service описывает получение списка пользователей.
type Service interface {
	ListUsers(ctx context.Context) ([]models.UserInfo, error)
}

// Handler обрабатывает запрос списка пользователей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список пользователей
// @Description Возвращает всех пользователей без хэшей паролей. Только для администратора.
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Success 200 {array} models.UserInfo
// @Failure 401 {object} response.ErrorResponse "Нет или недействителен токен"
// @Failure 403 {object} response.ErrorResponse "Требуется роль admin"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/users [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.listusers"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		log.Error("failed to list users", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("users listed", slog.Int("count", len(users)))
	render.JSON(w, r, users)
}
