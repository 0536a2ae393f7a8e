package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/chat-subscription/internal/http/response"
	"github.com/magabrotheeeer/chat-subscription/internal/lib/apperr"
	"github.com/magabrotheeeer/chat-subscription/internal/lib/sl"
	"github.com/magabrotheeeer/chat-subscription/internal/models"
)

// AccessChecker определяет интерфейс проверки права доступа по актуальной записи.
type AccessChecker interface {
	CheckAccess(ctx context.Context, userID int64) (*models.User, error)
}

// EntitlementMiddleware создает middleware, которое по id из токена заново читает
// пользователя и пропускает запрос, только если его доступ не истёк.
// Должен стоять после JWTMiddleware.
func EntitlementMiddleware(log *slog.Logger, checker AccessChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.EntitlementMiddleware"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			info, ok := UserInfoFrom(r.Context())
			if !ok {
				log.Error("user identification missing")
				response.RenderError(w, r, apperr.ErrUnauthenticated)
				return
			}

			user, err := checker.CheckAccess(r.Context(), info.ID)
			if err != nil {
				log.Warn("access denied", slog.Int64("user_id", info.ID), sl.Err(err))
				response.RenderError(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithLiveUser(r.Context(), user)))
		})
	}
}
