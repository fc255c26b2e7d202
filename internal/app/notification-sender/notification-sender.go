// Package notificationsender собирает сервис почтовых уведомлений:
// потребляет события об истечении доступа и рассылает письма.
package notificationsender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/content-admin/internal/config"
	"github.com/magabrotheeeer/content-admin/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/content-admin/internal/lib/smtp"
	"github.com/magabrotheeeer/content-admin/internal/services/notifier"
)

// App представляет приложение отправителя уведомлений.
type App struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	notifier *notifier.Service
	logger   *slog.Logger
}

// New создает новый экземпляр отправителя уведомлений.
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

	transport := smtp.NewTransport(cfg.SMTP, logger)
	notifierService := notifier.New(transport, logger)

	return &App{
		conn:     conn,
		ch:       ch,
		notifier: notifierService,
		logger:   logger,
	}, nil
}

// Run запускает потребителя очереди до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, rabbitmq.QueueAccessExpired, a.notifier.SendAccessExpired)
	if err != nil {
		a.logger.Error("failed to start expired access consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("notification sender shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}
	return nil
}
