// Package scheduler собирает приложение планировщика напоминаний.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/coach-platform/internal/access"
	"github.com/magabrotheeeer/coach-platform/internal/config"
	"github.com/magabrotheeeer/coach-platform/internal/content"
	"github.com/magabrotheeeer/coach-platform/internal/rabbitmq"
	notifierservice "github.com/magabrotheeeer/coach-platform/internal/services/notifier"
	"github.com/magabrotheeeer/coach-platform/internal/storage/repository"
)

// App представляет приложение планировщика.
type App struct {
	schedulerService *notifierservice.SchedulerService
	scanInterval     time.Duration
	conn             *amqp.Connection
	ch               *amqp.Channel
	db               *repository.Storage
	logger           *slog.Logger
}

// New создает новый экземпляр приложения планировщика.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, 10, 3*time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.NotificationQueues())
	if err != nil {
		closeResources(nil, conn, logger)
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		closeResources(ch, conn, logger)
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}

	contentClient := content.NewClient(cfg.Content)
	publisher := &notifierservice.AmqpReminderPublisher{Channel: ch}

	schedulerService := notifierservice.NewSchedulerService(db, contentClient,
		publisher, access.SystemClock{}, logger)

	return &App{
		schedulerService: schedulerService,
		scanInterval:     cfg.Notifier.ScanInterval,
		conn:             conn,
		ch:               ch,
		db:               db,
		logger:           logger,
	}, nil
}

func closeResources(ch *amqp.Channel, conn *amqp.Connection, logger *slog.Logger) {
	if ch != nil {
		if err := ch.Close(); err != nil {
			logger.Error("failed to close channel", "error", err)
		}
	}
	if conn != nil {
		if err := conn.Close(); err != nil {
			logger.Error("failed to close connection", "error", err)
		}
	}
}

// Run запускает планировщик.
func (a *App) Run(ctx context.Context) error {
	go a.schedulerService.Run(ctx, a.scanInterval)

	<-ctx.Done()

	a.logger.Info("shutting down scheduler service")

	closeResources(a.ch, a.conn, a.logger)
	if err := a.db.DB.Close(); err != nil {
		a.logger.Error("failed to close storage", "error", err)
	}

	return nil
}
