// Package subscriptiontracker собирает HTTP-приложение трекера подписок.
package subscriptiontracker

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/auth/profile"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/subscription/analytics"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/subscription/create"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/subscription/health"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/subscription/list"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/subscription/read"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/subscription/remove"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/subscription/upcoming"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/subscription/update"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/transaction/transactioncreate"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/transaction/transactionlist"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/middlewarectx"
	analyticsservice "github.com/magabrotheeeer/subscription-tracker/internal/services/analytics"
	authservice "github.com/magabrotheeeer/subscription-tracker/internal/services/auth"
	subservice "github.com/magabrotheeeer/subscription-tracker/internal/services/subscription"
	txservice "github.com/magabrotheeeer/subscription-tracker/internal/services/transaction"
)

// Services - сервисы, которые обслуживают маршруты.
type Services struct {
	Auth          *authservice.Service
	Subscriptions *subservice.Service
	Transactions  *txservice.Service
	Analytics     *analyticsservice.Service
}

// Options - инфраструктура маршрутизатора.
type Options struct {
	Limiter  *rate.Limiter
	Registry *prometheus.Registry
	Health   map[string]health.Pinger
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, svc Services, opts Options) {
	metrics := middlewarectx.NewMetrics(opts.Registry)

	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		metrics.Middleware,
	)

	r.Route("/api", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/register", register.New(logger, svc.Auth).ServeHTTP)
		r.Post("/auth/login", login.New(logger, svc.Auth).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(svc.Auth, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger, opts.Limiter))

			r.Get("/auth/profile", profile.New(logger, svc.Auth).ServeHTTP)

			r.Get("/subscriptions", list.New(logger, svc.Subscriptions).ServeHTTP)
			r.Post("/subscriptions", create.New(logger, svc.Subscriptions).ServeHTTP)
			r.Get("/subscriptions/analytics", analytics.New(logger, svc.Analytics).ServeHTTP)
			r.Get("/subscriptions/upcoming", upcoming.New(logger, svc.Analytics).ServeHTTP)
			r.Get("/subscriptions/{id}", read.New(logger, svc.Subscriptions).ServeHTTP)
			r.Put("/subscriptions/{id}", update.New(logger, svc.Subscriptions).ServeHTTP)
			r.Delete("/subscriptions/{id}", remove.New(logger, svc.Subscriptions).ServeHTTP)
			r.Get("/subscriptions/{id}/transactions", transactionlist.New(logger, svc.Transactions).ServeHTTP)
			r.Post("/subscriptions/{id}/transactions", transactioncreate.New(logger, svc.Transactions).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger, opts.Health).ServeHTTP)
	r.Handle("/metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{}))
}
