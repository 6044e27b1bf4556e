// Package cardsapi собирает HTTP-приложение: маршруты, middleware и зависимости.
package cardsapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/cards-api/internal/http/handlers/card"
	"github.com/magabrotheeeer/cards-api/internal/http/handlers/health"
	"github.com/magabrotheeeer/cards-api/internal/http/handlers/profile"
	"github.com/magabrotheeeer/cards-api/internal/http/handlers/subscription"
	"github.com/magabrotheeeer/cards-api/internal/http/handlers/token"
	"github.com/magabrotheeeer/cards-api/internal/http/handlers/user"
	"github.com/magabrotheeeer/cards-api/internal/http/middlewarectx"
	"github.com/magabrotheeeer/cards-api/internal/http/response"
)

// Services зависимости, которые нужны маршрутам.
type Services struct {
	Users         UserService
	Cards         card.Service
	Subscriptions subscription.Service
	Auth          AuthService
	Storage       health.Pinger
}

// UserService объединяет операции пользователей, нужные разным группам маршрутов.
type UserService interface {
	user.Service
	profile.Service
	middlewarectx.Authenticator
}

// AuthService выпускает и проверяет JWT.
type AuthService interface {
	token.Service
	middlewarectx.TokenValidator
}

// Options настройки маршрутов.
type Options struct {
	AllowedOrigins  []string
	RPS             float64
	Burst           int
	SignupPerMinute int
	TokenTTL        time.Duration
	Registry        *prometheus.Registry
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, svc Services, opts Options) {
	metrics := middlewarectx.NewMetrics(opts.Registry)
	limiter := middlewarectx.NewRateLimiter(opts.RPS, opts.Burst)

	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		cors.New(cors.Options{
			AllowedOrigins:   opts.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middlewarectx.HeaderAPIKey},
			AllowCredentials: false,
			MaxAge:           300,
		}).Handler,
		metrics.Middleware,
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.Fail(w, r, http.StatusNotFound, response.MsgNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.Fail(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})

	users := user.New(logger, svc.Users)
	profiles := profile.New(logger, svc.Users)
	cards := card.New(logger, svc.Cards)
	subs := subscription.New(logger, svc.Subscriptions)

	r.Route("/api", func(r chi.Router) {
		r.Use(middlewarectx.Authenticate(logger, svc.Users, svc.Auth))

		// Открытые конечные точки
		r.Get("/users", users.List)
		r.Get("/users/{id}", users.Get)
		r.Get("/subscriptions", subs.List)
		r.Get("/subscriptions/{id}", subs.Get)

		r.Group(func(r chi.Router) {
			r.Use(httprate.LimitByIP(opts.SignupPerMinute, time.Minute))
			r.Post("/users", users.Create)
			r.Post("/token", token.New(logger, svc.Auth, int64(opts.TokenTTL/time.Second)).ServeHTTP)
		})

		// Учётная запись вызывающего
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RequireUser)
			r.Use(limiter.Middleware(logger))
			r.Get("/profile", profiles.Get)
			r.Patch("/profile", profiles.Update)
			r.Get("/profile/cards", cards.ListOwned)
			r.Post("/profile/cards", cards.CreateOwned)
			r.Get("/profile/cards/{id}", cards.GetOwned)
			r.Patch("/profile/cards/{id}", cards.UpdateOwned)
			r.Delete("/profile/cards/{id}", cards.DeleteOwned)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middlewarectx.RequireAdmin)
			r.Use(limiter.Middleware(logger))

			r.Get("/users", users.AdminList)
			r.Get("/users/{id}", users.AdminGet)
			r.Patch("/users/{id}", users.AdminUpdate)
			r.Delete("/users/{id}", users.Delete)

			r.Get("/cards", cards.List)
			r.Post("/cards", cards.Create)
			r.Get("/cards/{id}", cards.Get)
			r.Patch("/cards/{id}", cards.Update)
			r.Delete("/cards/{id}", cards.Delete)

			r.Get("/subscriptions", subs.List)
			r.Post("/subscriptions", subs.Create)
			r.Get("/subscriptions/{id}", subs.AdminGet)
			r.Patch("/subscriptions/{id}", subs.Update)
			r.Delete("/subscriptions/{id}", subs.Delete)
		})
	})

	r.Get("/health", health.New(logger, svc.Storage).ServeHTTP)
	r.Handle("/metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{}))
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
