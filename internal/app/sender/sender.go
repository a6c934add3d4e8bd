// Package sender собирает приложение отправки почтовых напоминаний.
package sender

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/coach-platform/internal/config"
	"github.com/magabrotheeeer/coach-platform/internal/rabbitmq"
	notifierservice "github.com/magabrotheeeer/coach-platform/internal/services/notifier"
)

// App представляет приложение отправителя напоминаний.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *notifierservice.SenderService
	logger        *slog.Logger
}

// New создает новый экземпляр приложения отправителя.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, 10, 3*time.Second)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.NotificationQueues())
	if err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			logger.Error("failed to close connection", "error", closeErr)
		}
		return nil, err
	}

	senderService := notifierservice.NewSenderService(cfg, logger)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

// Run запускает потребителя очереди напоминаний.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, rabbitmq.QueueTrialReminders, a.senderService.SendTrialReminder)
	if err != nil {
		a.logger.Error("failed to start trial reminders consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("sender service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	return nil
}
