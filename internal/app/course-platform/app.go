package courseplatform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/course-platform/internal/cache"
	"github.com/magabrotheeeer/course-platform/internal/config"
	"github.com/magabrotheeeer/course-platform/internal/currency"
	"github.com/magabrotheeeer/course-platform/internal/lib/jwt"
	"github.com/magabrotheeeer/course-platform/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/course-platform/internal/lib/sl"
	"github.com/magabrotheeeer/course-platform/internal/metrics"
	"github.com/magabrotheeeer/course-platform/internal/migrations"
	"github.com/magabrotheeeer/course-platform/internal/paymentprovider"
	"github.com/magabrotheeeer/course-platform/internal/services/materials"
	"github.com/magabrotheeeer/course-platform/internal/services/notification"
	"github.com/magabrotheeeer/course-platform/internal/services/payment"
	"github.com/magabrotheeeer/course-platform/internal/services/subscription"
	"github.com/magabrotheeeer/course-platform/internal/services/users"
	"github.com/magabrotheeeer/course-platform/internal/storage/repository"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New поднимает хранилище, кэш, брокер и сервисы и собирает HTTP-сервер.
// Redis и RabbitMQ необязательны: без redis курсы валют не кэшируются,
// без RabbitMQ изменения уроков не рассылаются.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "courseplatform.New"

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	app := &App{logger: logger, db: db}

	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		app.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = repository.CheckDatabaseReady(ctx, db); err != nil {
		app.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var rateCache currency.Cache
	if cfg.AddressRedis != "" {
		if app.cache, err = cache.InitServer(ctx, cfg.RedisConnection); err != nil {
			app.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		rateCache = app.cache
	} else {
		logger.Warn("redis is not configured, currency rates will not be cached")
	}

	var notifier materials.Notifier
	if cfg.RabbitMQURL != "" {
		if app.conn, err = rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay); err != nil {
			app.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if app.ch, err = rabbitmq.SetupChannel(app.conn, 0, rabbitmq.GetNotificationQueues()); err != nil {
			app.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		publisher := rabbitmq.NewPublisher(app.ch, rabbitmq.NotificationsExchange)
		notifier = notification.NewDispatcher(publisher, logger)
	} else {
		logger.Warn("rabbitmq is not configured, lesson updates will not be announced")
	}

	metrics.Register()

	converter := currency.New(currency.Config{
		BaseURL:  cfg.CurrencyURL,
		APIKey:   cfg.CurrencyKey,
		Currency: cfg.SourceCurrency,
		Timeout:  cfg.CurrencyTimeout,
		CacheTTL: cfg.CurrencyCacheTTL,
	}, rateCache, logger)
	provider := paymentprovider.NewClient(cfg.ProviderURL, cfg.ProviderSecretKey, cfg.ProviderTimeout)
	builder := paymentprovider.NewBuilder(provider, cfg.ProviderCurrency, cfg.SuccessURL)
	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, Services{
		Tokens:        jwtMaker,
		Users:         users.New(db, jwtMaker, logger),
		Materials:     materials.New(db, nil, notifier, logger),
		Subscriptions: subscription.New(db, logger),
		Payments:      payment.New(db, converter, builder, logger),
		Storage:       db,
	}, RouterOptions{
		AllowedOrigins: cfg.AllowedOrigins,
		Limiter:        rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
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

// Run обслуживает запросы до отмены ctx, затем останавливает сервер и закрывает соединения.
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

func (a *App) close() {
	if a.ch != nil {
		if err := a.ch.Close(); err != nil {
			a.logger.Error("failed to close channel", sl.Err(err))
		}
	}
	if a.conn != nil {
		if err := a.conn.Close(); err != nil {
			a.logger.Error("failed to close rabbitmq connection", sl.Err(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Error("failed to close redis", sl.Err(err))
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}
}
