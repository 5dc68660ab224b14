package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/course-platform/internal/lib/sl"
)

// ErrPermanent помечает ошибку, после которой сообщение не возвращается в очередь.
var ErrPermanent = errors.New("permanent message error")

// Handler обрабатывает тело сообщения.
type Handler func(ctx context.Context, body []byte) error

const maxInFlight = 10

// ConsumerMessage запускает потребителя очереди. Успешно обработанные сообщения
// подтверждаются, ошибки ErrPermanent отбрасываются, остальные возвращаются в очередь.
// Возвращаемый канал закрывается после отмены ctx и завершения всех обработчиков.
func ConsumerMessage(ctx context.Context, ch *amqp.Channel, queueName string, handler Handler, log *slog.Logger) (<-chan struct{}, error) {
	const op = "rabbitmq.ConsumerMessage"
	delivery, err := ch.Consume(
		queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	done := make(chan struct{})
	sem := make(chan struct{}, maxInFlight)
	go func() {
		defer func() {
			for range maxInFlight {
				sem <- struct{}{}
			}
			close(done)
		}()
		for {
			select {
			case d, ok := <-delivery:
				if !ok {
					return
				}
				sem <- struct{}{}
				go func(d amqp.Delivery) {
					defer func() { <-sem }()
					handle(ctx, d, handler, log)
				}(d)
			case <-ctx.Done():
				return
			}
		}
	}()
	return done, nil
}

func handle(ctx context.Context, d amqp.Delivery, handler Handler, log *slog.Logger) {
	err := handler(ctx, d.Body)
	switch {
	case err == nil:
		if ackErr := d.Ack(false); ackErr != nil {
			log.Error("failed to ack message", sl.Err(ackErr))
		}
	case errors.Is(err, ErrPermanent):
		log.Warn("dropping message", slog.String("routing_key", d.RoutingKey), sl.Err(err))
		if rejectErr := d.Reject(false); rejectErr != nil {
			log.Error("failed to reject message", sl.Err(rejectErr))
		}
	default:
		log.Error("failed to handle message, requeue", slog.String("routing_key", d.RoutingKey), sl.Err(err))
		if nackErr := d.Nack(false, true); nackErr != nil {
			log.Error("failed to nack message", sl.Err(nackErr))
		}
	}
}
