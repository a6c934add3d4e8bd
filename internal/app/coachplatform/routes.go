// Package coachplatform предоставляет маршруты для основного приложения.
package coachplatform

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/coach-platform/internal/config"
	"github.com/magabrotheeeer/coach-platform/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/coach-platform/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/coach-platform/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/coach-platform/internal/http/handlers/health"
	"github.com/magabrotheeeer/coach-platform/internal/http/handlers/program/enroll"
	"github.com/magabrotheeeer/coach-platform/internal/http/handlers/program/list"
	"github.com/magabrotheeeer/coach-platform/internal/http/handlers/program/public"
	"github.com/magabrotheeeer/coach-platform/internal/http/handlers/program/view"
	"github.com/magabrotheeeer/coach-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/coach-platform/internal/lib/jwt"
	accessservice "github.com/magabrotheeeer/coach-platform/internal/services/access"
	authservice "github.com/magabrotheeeer/coach-platform/internal/services/auth"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, sessionCfg config.SessionToken,
	tokenMaker jwt.Maker, accessService *accessservice.AccessService, authService *authservice.AuthService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/create", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService, sessionCfg).ServeHTTP)
		r.Get("/logout", logout.New(logger, sessionCfg).ServeHTTP)
		r.Get("/program/{slug}", public.New(logger, accessService).ServeHTTP)

		// Закрытая часть: требуется сессия
		r.Route("/app", func(r chi.Router) {
			r.Use(middlewarectx.SessionMiddleware(sessionCfg, tokenMaker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/program/{slug}", view.New(logger, accessService).ServeHTTP)
			r.Post("/program/{slug}/enroll", enroll.New(logger, accessService).ServeHTTP)
			r.Get("/programs", list.New(logger, accessService).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
