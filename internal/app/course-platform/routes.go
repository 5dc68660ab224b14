// Package courseplatform собирает HTTP-приложение платформы курсов.
package courseplatform

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/course-platform/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/course-platform/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/course-platform/internal/http/handlers/course"
	"github.com/magabrotheeeer/course-platform/internal/http/handlers/health"
	"github.com/magabrotheeeer/course-platform/internal/http/handlers/lesson"
	paymentlist "github.com/magabrotheeeer/course-platform/internal/http/handlers/payment/list"
	"github.com/magabrotheeeer/course-platform/internal/http/handlers/payment/purchase"
	"github.com/magabrotheeeer/course-platform/internal/http/handlers/subscription/toggle"
	"github.com/magabrotheeeer/course-platform/internal/http/handlers/users/activate"
	"github.com/magabrotheeeer/course-platform/internal/http/handlers/users/profile"
	"github.com/magabrotheeeer/course-platform/internal/http/middlewarectx"
)

// UserService регистрация, вход и профиль.
type UserService interface {
	register.Service
	login.Service
	profile.Service
	activate.Service
}

// MaterialService курсы и уроки.
type MaterialService interface {
	course.Service
	lesson.Service
}

// PaymentService покупка и список платежей.
type PaymentService interface {
	purchase.Service
	paymentlist.Service
}

// Services зависимости обработчиков.
type Services struct {
	Tokens        middlewarectx.TokenParser
	Users         UserService
	Materials     MaterialService
	Subscriptions toggle.Service
	Payments      PaymentService
	Storage       health.Pinger
}

// RouterOptions настройки общих middleware.
type RouterOptions struct {
	AllowedOrigins []string
	Limiter        *rate.Limiter
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, svc Services, opts RouterOptions) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middlewarectx.MetricsMiddleware,
		cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
			MaxAge:         300,
		}),
	)
	if opts.Limiter != nil {
		r.Use(middlewarectx.RateLimitMiddleware(opts.Limiter, logger))
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, svc.Users).ServeHTTP)
		r.Post("/login", login.New(logger, svc.Users).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(svc.Tokens, logger))

			r.Get("/users/me", profile.NewGet(logger, svc.Users).ServeHTTP)
			r.Put("/users/me", profile.NewUpdate(logger, svc.Users).ServeHTTP)
			r.Post("/users/{id}/activate", activate.New(logger, svc.Users).ServeHTTP)

			r.Route("/courses", func(r chi.Router) {
				r.Get("/", course.NewList(logger, svc.Materials).ServeHTTP)
				r.Post("/", course.NewCreate(logger, svc.Materials).ServeHTTP)
				r.Get("/{id}", course.NewRead(logger, svc.Materials).ServeHTTP)
				update := course.NewUpdate(logger, svc.Materials)
				r.Put("/{id}", update.ServeHTTP)
				r.Patch("/{id}", update.ServeHTTP)
				r.Delete("/{id}", course.NewRemove(logger, svc.Materials).ServeHTTP)
			})

			r.Route("/lessons", func(r chi.Router) {
				r.Get("/", lesson.NewList(logger, svc.Materials).ServeHTTP)
				r.Post("/create", lesson.NewCreate(logger, svc.Materials).ServeHTTP)
				r.Get("/{id}", lesson.NewRead(logger, svc.Materials).ServeHTTP)
				update := lesson.NewUpdate(logger, svc.Materials)
				r.Put("/{id}/update", update.ServeHTTP)
				r.Patch("/{id}/update", update.ServeHTTP)
				r.Delete("/{id}/delete", lesson.NewRemove(logger, svc.Materials).ServeHTTP)
			})

			r.Post("/subscribe", toggle.New(logger, svc.Subscriptions).ServeHTTP)
			r.Post("/payments", purchase.New(logger, svc.Payments).ServeHTTP)
			r.Get("/payments", paymentlist.New(logger, svc.Payments).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger, svc.Storage).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
