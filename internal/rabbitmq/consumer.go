package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/chat-subscription/internal/lib/sl"
)

// ErrDrop помечает сообщение, которое бессмысленно возвращать в очередь.
var ErrDrop = errors.New("drop message")

// HandlerFunc обрабатывает тело одного сообщения.
type HandlerFunc func(ctx context.Context, body []byte) error

const maxInFlight = 10

// Consume запускает чтение очереди в фоне и возвращается сразу.
// Одновременно обрабатывается не больше maxInFlight сообщений.
func Consume(ctx context.Context, ch *amqp.Channel, queue string, handler HandlerFunc, log *slog.Logger) error {
	const op = "rabbitmq.Consume"
	delivery, err := ch.Consume(
		queue,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log = log.With(sl.Op(op), slog.String("queue", queue))
	go dispatch(ctx, delivery, maxInFlight, handler, log)
	return nil
}

// dispatch раздаёт сообщения обработчикам, пока не закроется канал или контекст.
// Сообщение, для которого не нашлось слота до отмены, возвращается в очередь.
func dispatch(ctx context.Context, delivery <-chan amqp.Delivery, limit int, handler HandlerFunc, log *slog.Logger) {
	sem := make(chan struct{}, limit)
	for {
		select {
		case d, ok := <-delivery:
			if !ok {
				log.Info("delivery channel closed")
				return
			}
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				if err := d.Nack(false, true); err != nil {
					log.Error("failed to requeue message", sl.Err(err))
				}
				return
			}
			go func(d amqp.Delivery) {
				defer func() { <-sem }()
				handleDelivery(ctx, d, handler, log)
			}(d)
		case <-ctx.Done():
			return
		}
	}
}

func handleDelivery(ctx context.Context, d amqp.Delivery, handler HandlerFunc, log *slog.Logger) {
	if err := handler(ctx, d.Body); err != nil {
		requeue := !errors.Is(err, ErrDrop)
		log.Error("failed to handle message",
			slog.String("message_id", d.MessageId),
			slog.Bool("requeue", requeue),
			sl.Err(err))
		if nackErr := d.Nack(false, requeue); nackErr != nil {
			log.Error("failed to nack message", sl.Err(nackErr))
		}
		return
	}
	if ackErr := d.Ack(false); ackErr != nil {
		log.Error("failed to ack message", sl.Err(ackErr))
	}
}
