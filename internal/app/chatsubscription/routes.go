// Package chatsubscription собирает HTTP-приложение сервиса: хранилище,
// кеш, публикацию событий, сервисы и маршруты.
package chatsubscription

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/chat-subscription/internal/http/handlers/admin/extend"
	"github.com/magabrotheeeer/chat-subscription/internal/http/handlers/admin/listusers"
	"github.com/magabrotheeeer/chat-subscription/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/chat-subscription/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/chat-subscription/internal/http/handlers/chat/message"
	"github.com/magabrotheeeer/chat-subscription/internal/http/handlers/health"
	"github.com/magabrotheeeer/chat-subscription/internal/http/handlers/profile/me"
	"github.com/magabrotheeeer/chat-subscription/internal/http/middlewarectx"
	"github.com/magabrotheeeer/chat-subscription/internal/metrics"
	accountservice "github.com/magabrotheeeer/chat-subscription/internal/services/account"
	authservice "github.com/magabrotheeeer/chat-subscription/internal/services/auth"
	chatservice "github.com/magabrotheeeer/chat-subscription/internal/services/chat"

	_ "github.com/magabrotheeeer/chat-subscription/docs"
)

// Services содержит зависимости маршрутов.
type Services struct {
	Auth    *authservice.AuthService
	Account *accountservice.AccountService
	Chat    *chatservice.ChatService
	Health  health.Pinger
	Metrics *metrics.Metrics
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, s Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, s.Auth).ServeHTTP)
		r.Post("/login", login.New(logger, s.Auth).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.Auth, logger))

			// Проверка срока доступа по актуальной записи
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.EntitlementMiddleware(logger, s.Account))
				r.Get("/me", me.New(logger).ServeHTTP)
				r.Post("/chat", message.New(logger, s.Chat).ServeHTTP)
			})

			// Роль берётся из токена
			r.Route("/admin", func(r chi.Router) {
				r.Use(middlewarectx.AdminMiddleware(logger))
				r.Get("/users", listusers.New(logger, s.Account).ServeHTTP)
				r.Post("/extend", extend.New(logger, s.Account).ServeHTTP)
			})
		})
	})

	r.Get("/health", health.New(logger, s.Health).ServeHTTP)
	r.Handle("/metrics", s.Metrics.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
