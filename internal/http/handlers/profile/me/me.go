// Package me реализует HTTP-обработчик получения профиля текущего пользователя.
package me

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/chat-subscription/internal/http/middlewarectx"
	"github.com/magabrotheeeer/chat-subscription/internal/http/response"
	"github.com/magabrotheeeer/chat-subscription/internal/lib/apperr"
)

// Handler возвращает актуальные данные пользователя, положенные в контекст
// EntitlementMiddleware.
type Handler struct {
	log *slog.Logger
}

// New создает новый Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Профиль пользователя
// @Description Возвращает актуальные данные пользователя из хранилища, если его доступ не истёк.
// @Tags Profile
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} models.UserInfo
// @Failure 401 {object} response.ErrorResponse "Нет или недействителен токен"
// @Failure 403 {object} response.ErrorResponse "Срок доступа истёк"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Router /me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.me"

	user, ok := middlewarectx.LiveUserFrom(r.Context())
	if !ok {
		h.log.Error("live user not found in context",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
		response.RenderError(w, r, apperr.ErrUnauthenticated)
		return
	}

	render.JSON(w, r, user.Info())
}
