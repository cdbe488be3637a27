// Package cluborganizer собирает основное HTTP-приложение: подключение
// к базе и Redis, прогон миграций, подключение к брокеру событий,
// сборку сервисов и запуск сервера с мягкой остановкой.
package cluborganizer

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/rackethub/club-organizer/internal/cache"
	"github.com/rackethub/club-organizer/internal/config"
	"github.com/rackethub/club-organizer/internal/lib/jwt"
	"github.com/rackethub/club-organizer/internal/lib/sl"
	"github.com/rackethub/club-organizer/internal/migrations"
	"github.com/rackethub/club-organizer/internal/rabbitmq"
	authservice "github.com/rackethub/club-organizer/internal/services/auth"
	clubservice "github.com/rackethub/club-organizer/internal/services/club"
	membershipservice "github.com/rackethub/club-organizer/internal/services/membership"
	policyservice "github.com/rackethub/club-organizer/internal/services/policy"
	simulatorservice "github.com/rackethub/club-organizer/internal/services/simulator"
	"github.com/rackethub/club-organizer/internal/storage/repository"
)

// App инкапсулирует HTTP-сервер и ресурсы приложения.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	broker *amqp.Connection
}

// New собирает приложение: хранилище, миграции, Redis, брокер событий,
// сервисы и маршруты. Брокер событий необязателен: при недоступности
// приглашения создаются без публикации событий.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}
	if err = repository.CheckDatabaseReady(db); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	var publisher *rabbitmq.Publisher
	brokerConn, err := rabbitmq.Connect(cfg.RabbitURL, cfg.ConnRetries, cfg.ConnRetryWait)
	if err != nil {
		logger.Warn("event broker unavailable, invitation events disabled", sl.Err(err))
	} else {
		ch, chErr := rabbitmq.SetupChannel(brokerConn)
		if chErr != nil {
			return nil, chErr
		}
		publisher = rabbitmq.NewPublisher(ch)
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	overlay := simulatorservice.NewOverlay(cacheRedis, cfg.Simulator.AllowedIdentities, logger)

	authService := authservice.NewService(db, jwtMaker)
	var events membershipservice.EventPublisher
	if publisher != nil {
		events = publisher
	}
	membershipRegistry := membershipservice.NewRegistry(db, events, logger)
	clubLifecycle := clubservice.NewLifecycle(db, membershipRegistry, logger)
	policyEngine := policyservice.NewEngine(db, overlay, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, jwtMaker, authService, clubLifecycle,
		membershipRegistry, policyEngine, overlay)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		broker: brokerConn,
	}, nil
}

// Run запускает HTTP-сервер и ожидает отмены контекста
// для мягкой остановки.
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
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if a.broker != nil {
			_ = a.broker.Close()
		}
		a.db.DB.Close()
		return err
	}
}
