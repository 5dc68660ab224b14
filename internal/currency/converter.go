// Package currency пересчитывает цены между валютами по последнему курсу
// внешнего сервиса курсов валют.
package currency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/course-platform/internal/lib/sl"
	"github.com/magabrotheeeer/course-platform/internal/metrics"
)

// ErrUnavailable курс получить не удалось: сервис ответил не 200,
// в ответе нет нужного поля или курс неположительный.
var ErrUnavailable = errors.New("currency conversion unavailable")

const defaultTimeout = 10 * time.Second

// Cache хранит полученные курсы.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// Config параметры сервиса курсов.
type Config struct {
	BaseURL  string
	APIKey   string
	Currency string // исходная валюта, например RUB
	Timeout  time.Duration
	CacheTTL time.Duration
}

// Converter переводит сумму из исходной валюты в валюту, в которой котируется курс.
type Converter struct {
	cfg        Config
	httpClient *http.Client
	cache      Cache
	log        *slog.Logger
}

type latestResponse struct {
	Data map[string]struct {
		Value *decimal.Decimal `json:"value"`
	} `json:"data"`
}

// New создает конвертер. cache может быть nil.
func New(cfg Config, cache Cache, log *slog.Logger) *Converter {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	cfg.Currency = strings.ToUpper(cfg.Currency)
	return &Converter{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cache:      cache,
		log:        log,
	}
}

// Convert возвращает amount / rate. Ошибка всегда оборачивает ErrUnavailable,
// нулевая сумма вместо ошибки не возвращается.
func (c *Converter) Convert(ctx context.Context, amount decimal.Decimal) (decimal.Decimal, error) {
	rate, err := c.Rate(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Div(rate), nil
}

// Rate возвращает последний курс исходной валюты.
func (c *Converter) Rate(ctx context.Context) (decimal.Decimal, error) {
	const op = "currency.Rate"
	cacheKey := "currency:rate:" + c.cfg.Currency

	if c.cache != nil {
		var cached decimal.Decimal
		found, err := c.cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			c.log.Warn("failed to read rate from cache", slog.String("key", cacheKey), sl.Err(err))
		}
		if found && cached.IsPositive() {
			return cached, nil
		}
	}

	rate, err := c.fetch(ctx)
	if err != nil {
		metrics.CurrencyRequestsTotal.WithLabelValues("error").Inc()
		return decimal.Zero, fmt.Errorf("%s: %w", op, err)
	}
	metrics.CurrencyRequestsTotal.WithLabelValues("ok").Inc()

	if c.cache != nil && c.cfg.CacheTTL > 0 {
		if err := c.cache.Set(ctx, cacheKey, rate, c.cfg.CacheTTL); err != nil {
			c.log.Warn("failed to cache rate", slog.String("key", cacheKey), sl.Err(err))
		}
	}
	return rate, nil
}

func (c *Converter) fetch(ctx context.Context) (decimal.Decimal, error) {
	query := url.Values{}
	query.Set("apikey", c.cfg.APIKey)
	query.Set("currencies", c.cfg.Currency)
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/v3/latest?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("%w: unexpected status %s", ErrUnavailable, resp.Status)
	}

	var body latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return decimal.Zero, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	entry, ok := body.Data[c.cfg.Currency]
	if !ok || entry.Value == nil {
		return decimal.Zero, fmt.Errorf("%w: no rate for %s", ErrUnavailable, c.cfg.Currency)
	}
	if !entry.Value.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: non-positive rate %s", ErrUnavailable, entry.Value)
	}
	return *entry.Value, nil
}
