package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"
)

const (
	// RoutingKeySubscriptionExtended — ключ маршрутизации события продления доступа.
	RoutingKeySubscriptionExtended = "subscription.extended"
	// RoutingKeyAccessExpiring — ключ маршрутизации напоминания об окончании доступа.
	RoutingKeyAccessExpiring = "access.expiring"
)

// QueueConfig описывает очередь и её ключ маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetNotificationQueues возвращает очереди, которые объявляет сервис.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "notifications.subscription_extended", RoutingKey: RoutingKeySubscriptionExtended},
		{QueueName: "notifications.access_expiring", RoutingKey: RoutingKeyAccessExpiring},
	}
}

// SetupChannel открывает канал, объявляет direct‑exchange и привязывает к нему очереди.
func SetupChannel(conn *amqp.Connection, exchange string, queues []QueueConfig) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	err = ch.ExchangeDeclare(
		exchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, q := range queues {
		if _, err := ch.QueueDeclare(q.QueueName, true, false, false, false, nil); err != nil {
			return nil, fmt.Errorf("%s: failed to declare queue %s: %w", op, q.QueueName, err)
		}
		if err := ch.QueueBind(q.QueueName, q.RoutingKey, exchange, false, nil); err != nil {
			return nil, fmt.Errorf("%s: failed to bind queue %s with routing key %s: %w", op, q.QueueName, q.RoutingKey, err)
		}
	}

	return ch, nil
}
