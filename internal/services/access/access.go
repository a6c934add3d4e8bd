// Package services содержит бизнес-логику доступа к программам тренировок:
// оркестрацию чтения записи, вычисления решения и побочных эффектов
// (создание записи, выбор редиректа).
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/coach-platform/internal/access"
	"github.com/magabrotheeeer/coach-platform/internal/lib/epoch"
	"github.com/magabrotheeeer/coach-platform/internal/lib/sl"
	"github.com/magabrotheeeer/coach-platform/internal/metrics"
	"github.com/magabrotheeeer/coach-platform/internal/models"
	"github.com/magabrotheeeer/coach-platform/internal/storage/repository"
)

// ErrProgramNotFound программа с указанным slug отсутствует в контент-хранилище.
var ErrProgramNotFound = errors.New("program not found")

// EnrollmentRepository определяет методы для работы с записями на программы в хранилище.
type EnrollmentRepository interface {
	// FindEnrollment возвращает запись пары (userUID, programSlug) или repository.ErrNotFound.
	FindEnrollment(ctx context.Context, userUID, programSlug string) (*models.Enrollment, error)
	// CreateEnrollment добавляет новую запись; при дубликате пары возвращает repository.ErrUniqueViolation.
	CreateEnrollment(ctx context.Context, entry models.Enrollment) (int, error)
	// ListEnrollmentsByUser возвращает все записи пользователя.
	ListEnrollmentsByUser(ctx context.Context, userUID string) ([]*models.Enrollment, error)
}

// ProgramProvider описывает источник программ (контент-хранилище).
type ProgramProvider interface {
	// GetProgram возвращает программу по slug или content.ErrNotFound.
	GetProgram(ctx context.Context, slug string) (*models.Program, error)
}

// Cache описывает методы для кэширования данных программ.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Result решение о доступе вместе с данными программы и целью редиректа.
// Redirect пуст, когда контент можно показывать.
type Result struct {
	Decision access.Decision
	Program  *models.Program
	Redirect string
}

// EnrollmentView запись пользователя вместе с живым решением о доступе.
type EnrollmentView struct {
	ProgramSlug  string          `json:"program_slug"`
	ProgramTitle string          `json:"program_title"`
	Decision     access.Decision `json:"decision"`
}

// AccessService реализует контроллер доступа: все коллабораторы передаются
// при создании, состояние между запросами не разделяется.
type AccessService struct {
	repo            EnrollmentRepository
	programs        ProgramProvider
	programNotFound error
	cache           Cache
	cacheTTL        time.Duration
	clock           access.Clock
	log             *slog.Logger
}

// NewAccessService создает новый экземпляр AccessService.
// programNotFound — ошибка провайдера, означающая отсутствие программы
// (например content.ErrNotFound).
func NewAccessService(repo EnrollmentRepository, programs ProgramProvider, programNotFound error,
	cache Cache, cacheTTL time.Duration, clock access.Clock, log *slog.Logger) *AccessService {
	return &AccessService{
		repo:            repo,
		programs:        programs,
		programNotFound: programNotFound,
		cache:           cache,
		cacheTTL:        cacheTTL,
		clock:           clock,
		log:             log,
	}
}

// Check вычисляет решение о доступе пользователя к программе.
//
// Порядок строгий: чтение записи предшествует вычислению, вычисление —
// выбору редиректа. Ошибки хранилища и контент-хранилища закрывают доступ:
// вызывающая сторона при ошибке никогда не показывает контент.
func (s *AccessService) Check(ctx context.Context, userUID, slug string) (*Result, error) {
	const op = "services.access.Check"

	program, err := s.program(ctx, slug)
	if err != nil {
		return nil, err
	}

	enr, err := s.repo.FindEnrollment(ctx, userUID, slug)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	decision := access.Evaluate(program.TrialDays, enr, s.clock.Now())
	metrics.AccessDecisions.WithLabelValues(string(decision.Kind)).Inc()

	return &Result{
		Decision: decision,
		Program:  program,
		Redirect: redirectFor(decision.Kind, enr, slug),
	}, nil
}

// redirectFor выбирает цель редиректа для решений, закрывающих контент.
func redirectFor(kind access.Kind, enr *models.Enrollment, slug string) string {
	switch kind {
	case access.KindNoEnrollment:
		return "/program/" + slug
	case access.KindExpired:
		if enr != nil && enr.Status == models.StatusTrial {
			return "/program/" + slug + "?error=trial_expired"
		}
		return "/program/" + slug + "?error=expired"
	default:
		return ""
	}
}

// Enroll создаёт пробную запись пользователя на программу.
//
// Операция идемпотентна: повторный вызов для уже записанной пары возвращает
// существующую запись с исходной датой начала, а не ошибку. Гонка двух
// одновременных первых заходов разрешается уникальным ограничением хранилища.
func (s *AccessService) Enroll(ctx context.Context, userUID, slug string) (*models.Enrollment, error) {
	const op = "services.access.Enroll"

	if _, err := s.program(ctx, slug); err != nil {
		return nil, err
	}

	entry := models.Enrollment{
		UserUID:     userUID,
		ProgramSlug: slug,
		Status:      models.StatusTrial,
		StartUnix:   epoch.Seconds(s.clock.Now()),
	}

	id, err := s.repo.CreateEnrollment(ctx, entry)
	if err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			existing, findErr := s.repo.FindEnrollment(ctx, userUID, slug)
			if findErr != nil {
				return nil, fmt.Errorf("%s: %w", op, findErr)
			}
			return existing, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	entry.ID = id
	metrics.EnrollmentsCreated.Inc()
	s.log.Info("created enrollment",
		slog.String("user_uid", userUID), slog.String("program_slug", slug))
	return &entry, nil
}

// ListWithDecisions возвращает записи пользователя вместе с живыми решениями.
// Программа, пропавшая из контент-хранилища, пропускается с предупреждением в логе.
func (s *AccessService) ListWithDecisions(ctx context.Context, userUID string) ([]*EnrollmentView, error) {
	const op = "services.access.ListWithDecisions"

	entries, err := s.repo.ListEnrollmentsByUser(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.clock.Now()
	views := make([]*EnrollmentView, 0, len(entries))
	for _, enr := range entries {
		program, err := s.program(ctx, enr.ProgramSlug)
		if err != nil {
			if errors.Is(err, ErrProgramNotFound) {
				s.log.Warn("enrolled program missing in content store",
					slog.String("program_slug", enr.ProgramSlug))
				continue
			}
			return nil, err
		}
		views = append(views, &EnrollmentView{
			ProgramSlug:  enr.ProgramSlug,
			ProgramTitle: program.Title,
			Decision:     access.Evaluate(program.TrialDays, enr, now),
		})
	}
	return views, nil
}

// Program возвращает данные программы для публичной страницы продаж.
func (s *AccessService) Program(ctx context.Context, slug string) (*models.Program, error) {
	return s.program(ctx, slug)
}

// program возвращает программу из кеша или контент-хранилища.
// Сбои кеша не влияют на решение: происходит прямое чтение из хранилища.
func (s *AccessService) program(ctx context.Context, slug string) (*models.Program, error) {
	const op = "services.access.program"

	cacheKey := "program:" + slug
	var cached models.Program
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read program from cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found && err == nil {
		return &cached, nil
	}

	program, err := s.programs.GetProgram(ctx, slug)
	if err != nil {
		if s.programNotFound != nil && errors.Is(err, s.programNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrProgramNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.cache.Set(cacheKey, program, s.cacheTTL); err != nil {
		s.log.Warn("failed to cache program", slog.String("key", cacheKey), sl.Err(err))
	}
	return program, nil
}
