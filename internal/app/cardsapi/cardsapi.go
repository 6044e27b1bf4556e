package cardsapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	// Swagger-спецификация для /docs.
	_ "github.com/magabrotheeeer/cards-api/docs"
	"github.com/magabrotheeeer/cards-api/internal/cache"
	"github.com/magabrotheeeer/cards-api/internal/config"
	"github.com/magabrotheeeer/cards-api/internal/lib/jwt"
	"github.com/magabrotheeeer/cards-api/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/cards-api/internal/lib/sl"
	"github.com/magabrotheeeer/cards-api/internal/migrations"
	"github.com/magabrotheeeer/cards-api/internal/services/auth"
	cardsvc "github.com/magabrotheeeer/cards-api/internal/services/card"
	subsvc "github.com/magabrotheeeer/cards-api/internal/services/subscription"
	usersvc "github.com/magabrotheeeer/cards-api/internal/services/user"
	"github.com/magabrotheeeer/cards-api/internal/storage"
)

const shutdownTimeout = 15 * time.Second

// App HTTP-сервер вместе с ресурсами, которые нужно закрыть при остановке.
type App struct {
	server  *http.Server
	logger  *slog.Logger
	db      *storage.Storage
	closers []func() error
}

// New подключает хранилище, кэш и брокер, применяет миграции и собирает маршруты.
// Пустой адрес redis или RabbitMQ отключает соответствующую подсистему.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	app := &App{logger: logger, db: db}

	if err = migrations.Run(db.DB); err != nil {
		app.close()
		return nil, err
	}

	var subsCache subsvc.Cache = cache.Noop{}
	if cfg.AddressRedis != "" {
		redisCache, err := cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			app.close()
			return nil, err
		}
		app.closers = append(app.closers, redisCache.Close)
		subsCache = redisCache
	} else {
		logger.Warn("redis address is empty, subscription cache disabled")
	}

	var events usersvc.Publisher = rabbitmq.NoopPublisher{}
	if cfg.RabbitMQURL != "" {
		conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.Retries, cfg.RetryDelay)
		if err != nil {
			app.close()
			return nil, err
		}
		app.closers = append(app.closers, conn.Close)
		ch, err := rabbitmq.SetupChannel(conn, cfg.Exchange, rabbitmq.GetEventQueues())
		if err != nil {
			app.close()
			return nil, err
		}
		publisher := rabbitmq.NewPublisher(ch, cfg.Exchange)
		app.closers = append(app.closers, publisher.Close)
		events = publisher
	} else {
		logger.Warn("rabbitmq url is empty, events disabled")
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	users := usersvc.New(db, events, logger)
	services := Services{
		Users:         users,
		Cards:         cardsvc.New(db, events, logger),
		Subscriptions: subsvc.New(db, subsCache, cfg.CacheTTL, logger),
		Auth:          auth.NewAuthService(db, jwtMaker),
		Storage:       db,
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, services, Options{
		AllowedOrigins:  cfg.AllowedOrigins,
		RPS:             cfg.RPS,
		Burst:           cfg.Burst,
		SignupPerMinute: cfg.SignupPerMinute,
		TokenTTL:        cfg.TokenTTL,
		Registry:        registry,
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

// Run запускает сервер и останавливает его при отмене ctx.
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
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("failed to release resource", sl.Err(err))
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn("failed to close storage", sl.Err(err))
	}
}
