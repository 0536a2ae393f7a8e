package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/chat-subscription/internal/models"
)

// Channel — часть amqp.Channel, нужная для публикации.
type Channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher публикует события в заданный exchange.
type Publisher struct {
	mu       sync.Mutex
	ch       Channel
	exchange string
}

// NewPublisher создаёт Publisher поверх открытого канала.
func NewPublisher(ch Channel, exchange string) *Publisher {
	return &Publisher{
		ch:       ch,
		exchange: exchange,
	}
}

// PublishSubscriptionExtended публикует событие о продлении доступа.
func (p *Publisher) PublishSubscriptionExtended(ctx context.Context, event models.SubscriptionExtended) error {
	return p.publish(ctx, RoutingKeySubscriptionExtended, event)
}

// PublishAccessExpiring публикует напоминание об окончании доступа.
func (p *Publisher) PublishAccessExpiring(ctx context.Context, event models.AccessExpiring) error {
	return p.publish(ctx, RoutingKeyAccessExpiring, event)
}

func (p *Publisher) publish(ctx context.Context, routingKey string, message any) error {
	const op = "rabbitmq.Publish"
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	msg, err := newPublishing(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.Publish(p.exchange, routingKey, false, false, msg); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func newPublishing(message any) (amqp.Publishing, error) {
	body, err := json.Marshal(message)
	if err != nil {
		return amqp.Publishing{}, err
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Body:         body,
		DeliveryMode: amqp.Persistent,
	}, nil
}

// NoopPublisher используется, когда брокер не настроен.
type NoopPublisher struct{}

// PublishSubscriptionExtended ничего не делает.
func (NoopPublisher) PublishSubscriptionExtended(context.Context, models.SubscriptionExtended) error {
	return nil
}

// PublishAccessExpiring ничего не делает.
func (NoopPublisher) PublishAccessExpiring(context.Context, models.AccessExpiring) error {
	return nil
}
