// Package services (notifier) содержит планировщик и отправщик напоминаний
// о скором окончании пробного периода.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/coach-platform/internal/access"
	"github.com/magabrotheeeer/coach-platform/internal/lib/sl"
	"github.com/magabrotheeeer/coach-platform/internal/models"
	"github.com/magabrotheeeer/coach-platform/internal/rabbitmq"
)

// TrialRepository источник активных пробных записей.
type TrialRepository interface {
	ListActiveTrials(ctx context.Context) ([]*models.TrialInfo, error)
}

// ProgramProvider источник конфигурации программ (длительность пробного периода).
type ProgramProvider interface {
	GetProgram(ctx context.Context, slug string) (*models.Program, error)
}

// ReminderPublisher публикует напоминание в брокер сообщений.
type ReminderPublisher interface {
	Publish(reminder models.TrialReminder) error
}

// AmqpReminderPublisher публикует напоминания в обменник notifications.
type AmqpReminderPublisher struct {
	Channel *amqp.Channel
}

// Publish отправляет напоминание с ключом маршрутизации trial.expiring.
func (p *AmqpReminderPublisher) Publish(reminder models.TrialReminder) error {
	return rabbitmq.PublishMessage(p.Channel, rabbitmq.ExchangeNotifications, rabbitmq.KeyTrialExpiring, reminder)
}

// SchedulerService периодически находит пробные записи, у которых остался
// последний день, и публикует по ним напоминания.
type SchedulerService struct {
	repo      TrialRepository
	programs  ProgramProvider
	publisher ReminderPublisher
	clock     access.Clock
	log       *slog.Logger
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(repo TrialRepository, programs ProgramProvider,
	publisher ReminderPublisher, clock access.Clock, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		repo:      repo,
		programs:  programs,
		publisher: publisher,
		clock:     clock,
		log:       log,
	}
}

// Run запускает цикл сканирования с заданным интервалом до отмены контекста.
func (s *SchedulerService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.PublishExpiringTrials(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// PublishExpiringTrials выполняет один проход: для каждой пробной записи
// пересчитывает решение о доступе и публикует напоминание, если остался
// ровно один день. Статус записи при этом не меняется: истечение пробного
// периода выводится при чтении, а не фиксируется планировщиком.
func (s *SchedulerService) PublishExpiringTrials(ctx context.Context) {
	s.log.Info("starting scan for expiring trials")

	trials, err := s.repo.ListActiveTrials(ctx)
	if err != nil {
		s.log.Error("failed to list active trials", sl.Err(err))
		return
	}

	now := s.clock.Now()
	for _, trial := range trials {
		program, err := s.programs.GetProgram(ctx, trial.ProgramSlug)
		if err != nil {
			s.log.Warn("failed to load program for trial, skipping",
				slog.String("program_slug", trial.ProgramSlug), sl.Err(err))
			continue
		}

		decision := access.Evaluate(program.TrialDays, &models.Enrollment{
			UserUID:     trial.UserUID,
			ProgramSlug: trial.ProgramSlug,
			Status:      models.StatusTrial,
			StartUnix:   trial.StartUnix,
		}, now)
		if decision.Kind != access.KindTrial || decision.DaysRemaining != 1 {
			continue
		}

		reminder := models.TrialReminder{
			Email:        trial.Email,
			ProgramSlug:  trial.ProgramSlug,
			ProgramTitle: program.Title,
			DaysLeft:     decision.DaysRemaining,
		}
		if err := s.publisher.Publish(reminder); err != nil {
			s.log.Error("failed to publish reminder", sl.Err(err))
			continue
		}
		s.log.Info("published trial reminder",
			slog.String("email", trial.Email),
			slog.String("program_slug", trial.ProgramSlug))
	}
}
