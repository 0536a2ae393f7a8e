// Package middlewarectx содержит HTTP middleware для проверки сессии,
// права доступа и роли администратора.
//
// JWTMiddleware проверяет JWT из заголовка Authorization и кладёт снимок
// пользователя в контекст. Хранилище при этом не читается, роль берётся из токена.
// EntitlementMiddleware заново читает пользователя и проверяет срок доступа.
// AdminMiddleware пропускает только токены с ролью admin.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/chat-subscription/internal/http/response"
	"github.com/magabrotheeeer/chat-subscription/internal/lib/apperr"
	"github.com/magabrotheeeer/chat-subscription/internal/lib/sl"
	"github.com/magabrotheeeer/chat-subscription/internal/models"
)

// TokenVerifier описывает интерфейс сервиса для валидации JWT токена.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*models.UserInfo, error)
}

// JWTMiddleware возвращает HTTP middleware, который проверяет JWT в заголовке Authorization.
//
// Если токен валиден, добавляет снимок пользователя в контекст запроса,
// иначе возвращает ошибку с HTTP статусом 401 Unauthorized.
func JWTMiddleware(verifier TokenVerifier, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Warn("missing or invalid authorization header")
				response.RenderError(w, r, apperr.ErrUnauthenticated)
				return
			}
			tokenStr := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
			if tokenStr == "" {
				log.Warn("empty bearer token")
				response.RenderError(w, r, apperr.ErrUnauthenticated)
				return
			}

			info, err := verifier.VerifyToken(r.Context(), tokenStr)
			if err != nil {
				log.Warn("invalid or expired token", sl.Err(err))
				response.RenderError(w, r, apperr.ErrUnauthenticated)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserInfo(r.Context(), *info)))
		})
	}
}
