// Package sender собирает воркер уведомлений: очередь RabbitMQ и SMTP.
package sender

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/chat-subscription/internal/config"
	"github.com/magabrotheeeer/chat-subscription/internal/lib/sl"
	"github.com/magabrotheeeer/chat-subscription/internal/lib/smtp"
	"github.com/magabrotheeeer/chat-subscription/internal/rabbitmq"
	senderservice "github.com/magabrotheeeer/chat-subscription/internal/services/sender"
)

const prefetchCount = 10

// App воркер, отправляющий письма о продлении доступа.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.SenderService
	logger        *slog.Logger
}

// New подключается к RabbitMQ, объявляет очереди и готовит SMTP транспорт.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.sender.New"
	if cfg.RabbitMQ.URL == "" {
		return nil, fmt.Errorf("%s: %w", op, errors.New("rabbitmq url is required"))
	}
	if cfg.SMTP.Host == "" {
		return nil, fmt.Errorf("%s: %w", op, errors.New("smtp host is required"))
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL, cfg.RabbitMQ.Retries, cfg.RabbitMQ.RetryDelay)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ch, err := rabbitmq.SetupChannel(conn, cfg.ExchangeName, rabbitmq.GetNotificationQueues())
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := ch.Qos(prefetchCount, 0, false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("%s: qos: %w", op, err)
	}

	transport := smtp.NewTransport(cfg.SMTP, logger)
	var limiter *rate.Limiter
	if cfg.SendRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.SendRate), 1)
	}

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderservice.NewSenderService(transport, limiter, logger),
		logger:        logger,
	}, nil
}

// Run читает очереди уведомлений до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	handlers := map[string]rabbitmq.HandlerFunc{
		rabbitmq.RoutingKeySubscriptionExtended: a.senderService.SendSubscriptionExtended,
		rabbitmq.RoutingKeyAccessExpiring:       a.senderService.SendAccessExpiring,
	}
	for _, q := range rabbitmq.GetNotificationQueues() {
		handler, ok := handlers[q.RoutingKey]
		if !ok {
			continue
		}
		if err := rabbitmq.Consume(ctx, a.ch, q.QueueName, handler, a.logger); err != nil {
			a.logger.Error("failed to start consumer", slog.String("queue", q.QueueName), sl.Err(err))
			a.close()
			return err
		}
		a.logger.Info("consumer started", slog.String("queue", q.QueueName))
	}

	<-ctx.Done()
	a.logger.Info("sender service shutting down gracefully")
	a.close()
	return nil
}

func (a *App) close() {
	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
}
