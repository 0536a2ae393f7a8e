package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/chat-subscription/internal/http/response"
	"github.com/magabrotheeeer/chat-subscription/internal/lib/apperr"
)

// AdminMiddleware пропускает запрос, только если роль в токене — admin.
// Должен стоять после JWTMiddleware.
func AdminMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.AdminMiddleware"

			info, ok := UserInfoFrom(r.Context())
			if !ok {
				response.RenderError(w, r, apperr.ErrUnauthenticated)
				return
			}
			if !info.IsAdmin() {
				log.Warn("admin role required",
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())),
					slog.Int64("user_id", info.ID),
				)
				response.RenderError(w, r, apperr.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
