package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/coach-platform/internal/access"
	"github.com/magabrotheeeer/coach-platform/internal/models"
)

type TrialsMock struct{ mock.Mock }

func (m *TrialsMock) ListActiveTrials(ctx context.Context) ([]*models.TrialInfo, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]*models.TrialInfo), args.Error(1)
	}
	return nil, args.Error(1)
}

type ProgramsMock struct{ mock.Mock }

func (m *ProgramsMock) GetProgram(ctx context.Context, slug string) (*models.Program, error) {
	args := m.Called(ctx, slug)
	if v := args.Get(0); v != nil {
		return v.(*models.Program), args.Error(1)
	}
	return nil, args.Error(1)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) Publish(reminder models.TrialReminder) error {
	args := m.Called(reminder)
	return args.Error(0)
}

var schedulerNow = time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)

func newScheduler(repo *TrialsMock, programs *ProgramsMock, publisher *PublisherMock) *SchedulerService {
	log := slog.New(slog.DiscardHandler)
	return NewSchedulerService(repo, programs, publisher, access.FixedClock{T: schedulerNow}, log)
}

func TestPublishExpiringTrials_LastDayPublished(t *testing.T) {
	repo := new(TrialsMock)
	programs := new(ProgramsMock)
	publisher := new(PublisherMock)

	// Шесть с половиной дней из семи: остался один день.
	start := schedulerNow.Add(-6*24*time.Hour - 12*time.Hour).Unix()
	repo.On("ListActiveTrials", mock.Anything).Return([]*models.TrialInfo{
		{Email: "cliente@example.com", UserUID: "uid-1", ProgramSlug: "fuerza-total", StartUnix: start},
	}, nil)
	programs.On("GetProgram", mock.Anything, "fuerza-total").
		Return(&models.Program{Slug: "fuerza-total", Title: "Fuerza Total", TrialDays: 7}, nil)
	publisher.On("Publish", models.TrialReminder{
		Email:        "cliente@example.com",
		ProgramSlug:  "fuerza-total",
		ProgramTitle: "Fuerza Total",
		DaysLeft:     1,
	}).Return(nil)

	newScheduler(repo, programs, publisher).PublishExpiringTrials(context.Background())

	publisher.AssertExpectations(t)
}

func TestPublishExpiringTrials_MidTrialSkipped(t *testing.T) {
	repo := new(TrialsMock)
	programs := new(ProgramsMock)
	publisher := new(PublisherMock)

	start := schedulerNow.Add(-2 * 24 * time.Hour).Unix()
	repo.On("ListActiveTrials", mock.Anything).Return([]*models.TrialInfo{
		{Email: "cliente@example.com", UserUID: "uid-1", ProgramSlug: "fuerza-total", StartUnix: start},
	}, nil)
	programs.On("GetProgram", mock.Anything, "fuerza-total").
		Return(&models.Program{Slug: "fuerza-total", Title: "Fuerza Total", TrialDays: 7}, nil)

	newScheduler(repo, programs, publisher).PublishExpiringTrials(context.Background())

	publisher.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestPublishExpiringTrials_ExpiredTrialSkipped(t *testing.T) {
	repo := new(TrialsMock)
	programs := new(ProgramsMock)
	publisher := new(PublisherMock)

	start := schedulerNow.Add(-8 * 24 * time.Hour).Unix()
	repo.On("ListActiveTrials", mock.Anything).Return([]*models.TrialInfo{
		{Email: "cliente@example.com", UserUID: "uid-1", ProgramSlug: "fuerza-total", StartUnix: start},
	}, nil)
	programs.On("GetProgram", mock.Anything, "fuerza-total").
		Return(&models.Program{Slug: "fuerza-total", Title: "Fuerza Total", TrialDays: 7}, nil)

	newScheduler(repo, programs, publisher).PublishExpiringTrials(context.Background())

	publisher.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestPublishExpiringTrials_ProgramLookupFailureSkipsEntry(t *testing.T) {
	repo := new(TrialsMock)
	programs := new(ProgramsMock)
	publisher := new(PublisherMock)

	lastDay := schedulerNow.Add(-6*24*time.Hour - 12*time.Hour).Unix()
	repo.On("ListActiveTrials", mock.Anything).Return([]*models.TrialInfo{
		{Email: "a@example.com", UserUID: "uid-1", ProgramSlug: "perdida", StartUnix: lastDay},
		{Email: "b@example.com", UserUID: "uid-2", ProgramSlug: "fuerza-total", StartUnix: lastDay},
	}, nil)
	programs.On("GetProgram", mock.Anything, "perdida").
		Return(nil, errors.New("cms unavailable"))
	programs.On("GetProgram", mock.Anything, "fuerza-total").
		Return(&models.Program{Slug: "fuerza-total", Title: "Fuerza Total", TrialDays: 7}, nil)
	publisher.On("Publish", mock.Anything).Return(nil)

	newScheduler(repo, programs, publisher).PublishExpiringTrials(context.Background())

	publisher.AssertNumberOfCalls(t, "Publish", 1)
}

func TestPublishExpiringTrials_ListFailure(t *testing.T) {
	repo := new(TrialsMock)
	programs := new(ProgramsMock)
	publisher := new(PublisherMock)

	repo.On("ListActiveTrials", mock.Anything).Return(nil, errors.New("db down"))

	newScheduler(repo, programs, publisher).PublishExpiringTrials(context.Background())

	programs.AssertNotCalled(t, "GetProgram", mock.Anything, mock.Anything)
	publisher.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestComposeTrialReminder(t *testing.T) {
	subject, body := ComposeTrialReminder(models.TrialReminder{
		Email:        "cliente@example.com",
		ProgramSlug:  "fuerza-total",
		ProgramTitle: "Fuerza Total",
		DaysLeft:     1,
	})

	assert.Equal(t, "Tu periodo de prueba termina pronto", subject)
	assert.Contains(t, body, "Fuerza Total")
	assert.Contains(t, body, "mañana")
}
