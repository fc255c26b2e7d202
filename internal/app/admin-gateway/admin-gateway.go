package admingateway

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/content-admin/internal/cache"
	"github.com/magabrotheeeer/content-admin/internal/config"
	"github.com/magabrotheeeer/content-admin/internal/events"
	"github.com/magabrotheeeer/content-admin/internal/lib/jwt"
	"github.com/magabrotheeeer/content-admin/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/content-admin/internal/migrations"
	"github.com/magabrotheeeer/content-admin/internal/services/catalog"
	"github.com/magabrotheeeer/content-admin/internal/services/directory"
	"github.com/magabrotheeeer/content-admin/internal/services/reconciler"
	"github.com/magabrotheeeer/content-admin/internal/storage/repository"
	"github.com/magabrotheeeer/content-admin/internal/upstream"
)

// App агрегирует зависимости шлюза.
type App struct {
	server     *http.Server
	logger     *slog.Logger
	db         *repository.Storage
	conn       *amqp.Connection
	ch         *amqp.Channel
	reconciler *reconciler.Service
}

// New создает новый экземпляр приложения шлюза.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}

	backend := upstream.New(cfg.Upstream)
	maker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	directoryService := directory.New(backend, cacheRedis, db, logger)
	catalogService := catalog.New(backend, cacheRedis, logger)
	reconcilerService := reconciler.New(
		directoryService,
		backend,
		events.NewPublisher(ch),
		db,
		logger,
		cfg.ScanInterval,
	)
	// Перезагрузка списка пользователей запускает внеочередную сверку.
	directoryService.SetReloadHook(reconcilerService.Kick)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, maker, directoryService, catalogService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:     srv,
		logger:     logger,
		db:         db,
		conn:       conn,
		ch:         ch,
		reconciler: reconcilerService,
	}, nil
}

// Run запускает HTTP-сервер и цикл сверки до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	go a.reconciler.Run(ctx)

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
		if chErr := a.ch.Close(); chErr != nil {
			a.logger.Error("failed to close channel", slog.Any("err", chErr))
		}
		if connErr := a.conn.Close(); connErr != nil {
			a.logger.Error("failed to close connection", slog.Any("err", connErr))
		}
		a.db.DB.Close()
		return err
	}
}
