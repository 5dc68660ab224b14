// Package sender собирает сервис рассылки: читает команды из очереди
// notifications.lesson_updated и отправляет письма подписчикам.
package sender

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/course-platform/internal/config"
	"github.com/magabrotheeeer/course-platform/internal/lib/mailer"
	"github.com/magabrotheeeer/course-platform/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/course-platform/internal/lib/sl"
	"github.com/magabrotheeeer/course-platform/internal/metrics"
	senderservice "github.com/magabrotheeeer/course-platform/internal/services/sender"
	"github.com/magabrotheeeer/course-platform/internal/storage/repository"
)

// prefetch ограничивает число неподтвержденных сообщений у одного потребителя.
const prefetch = 10

type App struct {
	db            *repository.Storage
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.Service
	logger        *slog.Logger
}

func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "sender.New"

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ch, err := rabbitmq.SetupChannel(conn, prefetch, rabbitmq.GetNotificationQueues())
	if err != nil {
		_ = conn.Close()
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	metrics.Register()
	senderService := senderservice.New(db, mailer.New(cfg.SMTP), logger)

	return &App{
		db:            db,
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

// Run обрабатывает сообщения до отмены ctx и дожидается обработчиков, взятых в работу.
func (a *App) Run(ctx context.Context) error {
	done, err := rabbitmq.ConsumerMessage(ctx, a.ch, rabbitmq.LessonUpdatedQueue, a.senderService.Handle, a.logger)
	if err != nil {
		a.logger.Error("failed to start lesson_updated consumer", sl.Err(err))
		a.close()
		return err
	}
	a.logger.Info("consuming", slog.String("queue", rabbitmq.LessonUpdatedQueue))

	<-ctx.Done()
	<-done
	a.logger.Info("Sender service shutting down gracefully")
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
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}
}
