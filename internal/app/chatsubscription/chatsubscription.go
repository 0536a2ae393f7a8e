package chatsubscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/chat-subscription/internal/cache"
	"github.com/magabrotheeeer/chat-subscription/internal/config"
	"github.com/magabrotheeeer/chat-subscription/internal/lib/jwt"
	"github.com/magabrotheeeer/chat-subscription/internal/lib/sl"
	"github.com/magabrotheeeer/chat-subscription/internal/llm"
	"github.com/magabrotheeeer/chat-subscription/internal/metrics"
	"github.com/magabrotheeeer/chat-subscription/internal/migrations"
	"github.com/magabrotheeeer/chat-subscription/internal/rabbitmq"
	accountservice "github.com/magabrotheeeer/chat-subscription/internal/services/account"
	authservice "github.com/magabrotheeeer/chat-subscription/internal/services/auth"
	chatservice "github.com/magabrotheeeer/chat-subscription/internal/services/chat"
	"github.com/magabrotheeeer/chat-subscription/internal/storage/repository"
)

const shutdownTimeout = 15 * time.Second

// App — HTTP-приложение со всеми открытыми ресурсами.
type App struct {
	server  *http.Server
	logger  *slog.Logger
	db      *repository.Storage
	closers []func() error
}

// New открывает хранилище, применяет миграции, подключает необязательные
// Redis и RabbitMQ, создаёт администратора из конфига и собирает маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.chatsubscription.New"

	db, err := repository.New(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	app := &App{
		logger: logger,
		db:     db,
	}

	if err = migrations.Run(db.DB, cfg.Driver, cfg.MigrationsPath); err != nil {
		app.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var listCache accountservice.Cache = cache.Noop{}
	if cfg.AddressRedis != "" {
		redisCache, err := cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			app.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		app.closers = append(app.closers, redisCache.Close)
		listCache = redisCache
		logger.Info("redis cache enabled", slog.String("address", cfg.AddressRedis))
	}

	var events accountservice.EventPublisher = rabbitmq.NoopPublisher{}
	if cfg.RabbitMQ.URL != "" {
		conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL, cfg.Retries, cfg.RetryDelay)
		if err != nil {
			app.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		app.closers = append(app.closers, conn.Close)
		ch, err := rabbitmq.SetupChannel(conn, cfg.ExchangeName, rabbitmq.GetNotificationQueues())
		if err != nil {
			app.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		app.closers = append(app.closers, ch.Close)
		events = rabbitmq.NewPublisher(ch, cfg.ExchangeName)
		logger.Info("event publishing enabled", slog.String("exchange", cfg.ExchangeName))
	}

	m := metrics.New()
	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.NewAuthService(db, jwtMaker, listCache, m, logger, cfg.TrialPeriod)
	accountService := accountservice.NewAccountService(db, listCache, events, logger, cfg.ListTTL)
	chatService := chatservice.NewChatService(llm.NewClient(cfg.OpenAI), m)

	if cfg.Admin.Email != "" {
		err := accountService.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Name, cfg.Admin.Password, cfg.Admin.AccessTime)
		if err != nil {
			app.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, Services{
		Auth:    authService,
		Account: accountService,
		Chat:    chatService,
		Health:  db,
		Metrics: m,
	})

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return app, nil
}

// Handler возвращает корневой HTTP-обработчик приложения.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run обслуживает запросы до отмены ctx, затем корректно останавливает
// сервер и закрывает ресурсы.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

// Close закрывает ресурсы без запуска сервера.
func (a *App) Close() {
	a.close()
}

func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("failed to close resource", sl.Err(err))
		}
	}
	a.closers = nil
	if err := a.db.Close(); err != nil {
		a.logger.Warn("failed to close storage", sl.Err(err))
	}
}
