// Package accessreconciler собирает отдельный воркер сверки доступов:
// тот же цикл, что встроен в шлюз, но список пользователей читается
// напрямую с бекенда постранично, без локальной проекции.
package accessreconciler

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/content-admin/internal/config"
	"github.com/magabrotheeeer/content-admin/internal/events"
	"github.com/magabrotheeeer/content-admin/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/content-admin/internal/migrations"
	"github.com/magabrotheeeer/content-admin/internal/models"
	"github.com/magabrotheeeer/content-admin/internal/services/reconciler"
	"github.com/magabrotheeeer/content-admin/internal/storage/repository"
	"github.com/magabrotheeeer/content-admin/internal/upstream"
)

// App представляет приложение воркера сверки.
type App struct {
	reconciler *reconciler.Service
	conn       *amqp.Connection
	ch         *amqp.Channel
	db         *repository.Storage
	logger     *slog.Logger
}

// New создает новый экземпляр воркера сверки.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		conn.Close()
		return nil, err
	}

	backend := upstream.New(cfg.Upstream)
	source := &backendSource{client: backend, pageSize: cfg.PageSize}

	reconcilerService := reconciler.New(
		source,
		backend,
		events.NewPublisher(ch),
		db,
		logger,
		cfg.ScanInterval,
	)

	return &App{
		reconciler: reconcilerService,
		conn:       conn,
		ch:         ch,
		db:         db,
		logger:     logger,
	}, nil
}

// Run запускает цикл сверки до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	go a.reconciler.Run(ctx)

	<-ctx.Done()

	a.logger.Info("shutting down access reconciler")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}
	a.db.DB.Close()
	return nil
}

// backendSource постранично собирает всех пользователей с бекенда.
// Update пустой: воркер не держит проекции, бекенд исправляется
// отправкой корректировок.
type backendSource struct {
	client   *upstream.Client
	pageSize int
}

func (s *backendSource) Users(ctx context.Context) ([]models.User, error) {
	var all []models.User
	for page := 1; ; page++ {
		users, total, err := s.client.ListUsers(ctx, page, s.pageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, users...)
		if len(users) == 0 || len(all) >= total {
			return all, nil
		}
	}
}

func (s *backendSource) Update(_ []models.User) {}
