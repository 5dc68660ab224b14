// Package metrics содержит Prometheus-метрики платформы.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// HTTP метрики
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
		},
		[]string{"method", "path"},
	)
	HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests in flight",
		},
	)

	// Внешние API
	CurrencyRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "currency_api_requests_total",
			Help: "Total number of currency rate lookups by result",
		},
		[]string{"result"},
	)
	PaymentProviderRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_provider_requests_total",
			Help: "Total number of payment provider calls by step and result",
		},
		[]string{"step", "result"},
	)
	PaymentProviderRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "payment_provider_request_duration_seconds",
			Help: "Duration of payment provider calls in seconds",
		},
		[]string{"step"},
	)

	// Бизнес-метрики
	PurchasesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "purchases_total",
			Help: "Total number of purchase workflows by outcome",
		},
		[]string{"outcome"},
	)
	SubscriptionTogglesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subscription_toggles_total",
			Help: "Total number of subscription toggles by resulting status",
		},
		[]string{"status"},
	)
	NotificationsPublishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lesson_notifications_published_total",
			Help: "Total number of lesson update notifications enqueued",
		},
		[]string{"result"},
	)
	EmailsSentTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emails_sent_total",
			Help: "Total number of notification e-mails by result",
		},
		[]string{"result"},
	)
)

var registerOnce sync.Once

// Register регистрирует метрики в стандартном реестре. Повторный вызов ничего не делает.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDuration,
			HTTPRequestsInFlight,
			CurrencyRequestsTotal,
			PaymentProviderRequestsTotal,
			PaymentProviderRequestDuration,
			PurchasesTotal,
			SubscriptionTogglesTotal,
			NotificationsPublishedTotal,
			EmailsSentTotal,
		)
	})
}
