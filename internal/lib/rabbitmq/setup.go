package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"
)

// NotificationsExchange обменник уведомлений.
const NotificationsExchange = "notifications"

// Очередь и ключ маршрутизации уведомлений об изменении урока.
const (
	LessonUpdatedQueue      = "notifications.lesson_updated"
	LessonUpdatedRoutingKey = "lesson_updated"
)

// QueueConfig очередь и ключ, по которому она привязана к обменнику.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetNotificationQueues очереди, которые объявляют оба сервиса.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: LessonUpdatedQueue, RoutingKey: LessonUpdatedRoutingKey},
	}
}

// SetupChannel открывает канал, объявляет обменник notifications и привязывает к нему очереди.
func SetupChannel(conn *amqp.Connection, prefetch int, queues []QueueConfig) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if prefetch > 0 {
		if err := ch.Qos(prefetch, 0, false); err != nil {
			_ = ch.Close()
			return nil, fmt.Errorf("%s: failed to set QoS: %w", op, err)
		}
	}

	err = ch.ExchangeDeclare(
		NotificationsExchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, q := range queues {
		if _, err := ch.QueueDeclare(q.QueueName, true, false, false, false, nil); err != nil {
			_ = ch.Close()
			return nil, fmt.Errorf("%s: failed to declare queue %s: %w", op, q.QueueName, err)
		}
		if err := ch.QueueBind(q.QueueName, q.RoutingKey, NotificationsExchange, false, nil); err != nil {
			_ = ch.Close()
			return nil, fmt.Errorf("%s: failed to bind queue %s with routing key %s: %w", op, q.QueueName, q.RoutingKey, err)
		}
	}

	return ch, nil
}
