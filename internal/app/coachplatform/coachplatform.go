// Package coachplatform собирает основное приложение: хранилище, миграции,
// кеш, контент-хранилище, сервисы и HTTP-сервер.
package coachplatform

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/coach-platform/internal/access"
	"github.com/magabrotheeeer/coach-platform/internal/cache"
	"github.com/magabrotheeeer/coach-platform/internal/config"
	"github.com/magabrotheeeer/coach-platform/internal/content"
	"github.com/magabrotheeeer/coach-platform/internal/lib/jwt"
	"github.com/magabrotheeeer/coach-platform/internal/lib/sl"
	"github.com/magabrotheeeer/coach-platform/internal/migrations"
	accessservice "github.com/magabrotheeeer/coach-platform/internal/services/access"
	authservice "github.com/magabrotheeeer/coach-platform/internal/services/auth"
	"github.com/magabrotheeeer/coach-platform/internal/storage/repository"
)

// App главное приложение платформы.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

// New создает приложение: подключает хранилище, накатывает миграции,
// инициализирует кеш и контент-клиент, собирает сервисы и маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	contentClient := content.NewClient(cfg.Content)
	if err := contentClient.Ping(ctx); err != nil {
		// Контент-хранилище может подняться позже: старт не блокируется.
		logger.Warn("content store is not reachable yet", sl.Err(err))
	}

	tokenMaker := jwt.NewMaker(cfg.SessionToken.SecretKey, cfg.SessionToken.TokenTTL)
	clock := access.SystemClock{}

	accessService := accessservice.NewAccessService(db, contentClient, content.ErrNotFound,
		cacheRedis, cfg.Content.CacheTTL, clock, logger)
	authService := authservice.NewAuthService(db, tokenMaker, clock, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg.SessionToken, tokenMaker, accessService, authService)

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
		cache:  cacheRedis,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
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
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close storage", sl.Err(closeErr))
		}
		return err
	}
}
