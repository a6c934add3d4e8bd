// Package view реализует HTTP-обработчик закрытой страницы программы.
//
// Контент отдается только по решению контроллера доступа: пробный период
// и оплаченный доступ открывают контент, остальные решения уводят
// пользователя редиректом на публичную страницу. Ошибка хранилища
// закрывает доступ, а не открывает его.
package view

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/coach-platform/internal/access"
	"github.com/magabrotheeeer/coach-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/coach-platform/internal/http/response"
	"github.com/magabrotheeeer/coach-platform/internal/lib/sl"
	services "github.com/magabrotheeeer/coach-platform/internal/services/access"
)

// Service описывает интерфейс контроллера доступа.
type Service interface {
	Check(ctx context.Context, userUID, slug string) (*services.Result, error)
}

// Handler обрабатывает запросы закрытой страницы программы.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Закрытая страница программы
// @Description Возвращает контент программы по решению контроллера доступа либо редирект на публичную страницу.
// @Tags Program
// @Produce  json
// @Param slug path string true "Идентификатор программы"
// @Success 200 {object} map[string]any "Контент программы"
// @Failure 302 {string} string "Редирект на публичную страницу или вход"
// @Failure 404 {object} response.ErrorResponse "Программа не найдена"
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно, доступ закрыт"
// @Router /app/program/{slug} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.program.view"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("user identification missing"))
		return
	}

	slug := chi.URLParam(r, "slug")

	res, err := h.service.Check(r.Context(), userUID, slug)
	if err != nil {
		if errors.Is(err, services.ErrProgramNotFound) {
			log.Warn("program not found", slog.String("program_slug", slug))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("program not found"))
			return
		}
		log.Error("access check failed, denying access", sl.Err(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error("service temporarily unavailable"))
		return
	}

	if res.Redirect != "" {
		log.Info("access closed, redirecting",
			slog.String("program_slug", slug),
			slog.String("kind", string(res.Decision.Kind)),
			slog.String("redirect", res.Redirect))
		http.Redirect(w, r, res.Redirect, http.StatusFound)
		return
	}

	data := map[string]any{
		"program": res.Program,
		"kind":    res.Decision.Kind,
	}
	if res.Decision.Kind == access.KindTrial {
		data["days_remaining"] = res.Decision.DaysRemaining
	}

	log.Info("access granted",
		slog.String("program_slug", slug),
		slog.String("kind", string(res.Decision.Kind)))
	render.JSON(w, r, response.OKWithData(data))
}
