// Package config предоставялет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING" env-required:"true"`
	MigrationsPath          string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
	HTTPServer              `yaml:"http_server"`
	RedisConnection         `yaml:"redis_connection"`
	JWTToken                `yaml:"jwttoken"`
	RabbitMQ                `yaml:"rabbitmq"`
	SMTP                    `yaml:"smtp"`
	CurrencyAPI             `yaml:"currency_api"`
	PaymentProvider         `yaml:"payment_provider"`
	CORS                    `yaml:"cors"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env:"HTTP_ADDRESS" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"30s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
	RateLimit   float64       `yaml:"rate_limit" env-default:"20"`
	RateBurst   int           `yaml:"rate_burst" env-default:"40"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY" env-required:"true"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"5m"`
}

// RabbitMQ настройки брокера сообщений для фоновых уведомлений
type RabbitMQ struct {
	RabbitMQURL        string        `yaml:"url" env:"RABBITMQ_URL"`
	RabbitMQMaxRetries int           `yaml:"max_retries" env-default:"5"`
	RabbitMQRetryDelay time.Duration `yaml:"retry_delay" env-default:"2s"`
}

// SMTP настройки почтового транспорта
type SMTP struct {
	SMTPHost string `yaml:"host" env:"EMAIL_HOST"`
	SMTPPort int    `yaml:"port" env:"EMAIL_PORT" env-default:"587"`
	SMTPUser string `yaml:"user" env:"EMAIL_HOST_USER"`
	SMTPPass string `yaml:"password" env:"EMAIL_HOST_PASSWORD"`
	SMTPFrom string `yaml:"from" env:"DEFAULT_FROM_EMAIL"`
	SMTPSSL  bool   `yaml:"use_ssl" env:"EMAIL_USE_SSL" env-default:"false"`
}

// CurrencyAPI настройки внешнего сервиса курсов валют
type CurrencyAPI struct {
	CurrencyURL      string        `yaml:"url" env:"CUR_API_URL"`
	CurrencyKey      string        `yaml:"key" env:"CUR_API_KEY"`
	SourceCurrency   string        `yaml:"source_currency" env-default:"RUB"`
	CurrencyTimeout  time.Duration `yaml:"timeout" env-default:"10s"`
	CurrencyCacheTTL time.Duration `yaml:"cache_ttl" env-default:"10m"`
}

// PaymentProvider настройки платежного провайдера
type PaymentProvider struct {
	ProviderURL       string        `yaml:"url" env:"PAYMENT_PROVIDER_URL" env-default:"https://api.stripe.com/v1"`
	ProviderSecretKey string        `yaml:"secret_key" env:"STRIPE_SECRET_KEY"`
	ProviderCurrency  string        `yaml:"currency" env-default:"usd"`
	SuccessURL        string        `yaml:"success_url" env-default:"http://127.0.0.1:8080/"`
	ProviderTimeout   time.Duration `yaml:"timeout" env-default:"10s"`
}

// CORS список разрешенных источников
type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-separator:","`
}

// Load читает конфиг из файла, переменные окружения перекрывают значения из файла.
func Load(configPath string) (*Config, error) {
	const op = "config.Load"
	if configPath == "" {
		return nil, fmt.Errorf("%s: config path is empty", op)
	}
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: file %s does not exist", op, configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// MustLoad функция для загрузки конфига по пути из CONFIG_PATH.
// Перед чтением подгружает .env, если он есть.
func MustLoad() *Config {
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}
