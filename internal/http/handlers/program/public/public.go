// Package public реализует HTTP-обработчик публичной страницы программы.
//
// Страница продаж доступна без сессии: цена, длительность пробного периода
// и закрытое превью контента. Пометка об ошибке доступа (error=trial_expired
// или error=expired) пробрасывается в ответ как есть — её ставит редирект
// из закрытой части.
package public

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/coach-platform/internal/http/response"
	"github.com/magabrotheeeer/coach-platform/internal/lib/sl"
	"github.com/magabrotheeeer/coach-platform/internal/models"
	services "github.com/magabrotheeeer/coach-platform/internal/services/access"
)

// Service описывает интерфейс получения данных программы.
type Service interface {
	Program(ctx context.Context, slug string) (*models.Program, error)
}

// Handler обрабатывает запросы публичной страницы программы.
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
// @Summary Публичная страница программы
// @Description Возвращает данные для страницы продаж: цена, пробный период, закрытое превью.
// @Tags Program
// @Produce  json
// @Param slug path string true "Идентификатор программы"
// @Param error query string false "Пометка об истекшем доступе"
// @Success 200 {object} map[string]any "Данные программы"
// @Failure 404 {object} response.ErrorResponse "Программа не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /program/{slug} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.program.public"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	slug := chi.URLParam(r, "slug")

	program, err := h.service.Program(r.Context(), slug)
	if err != nil {
		if errors.Is(err, services.ErrProgramNotFound) {
			log.Warn("program not found", slog.String("program_slug", slug))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("program not found"))
			return
		}
		log.Error("failed to load program", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to load program"))
		return
	}

	log.Info("loaded public program page", slog.String("program_slug", slug))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"program":       program,
		"access_error":  r.URL.Query().Get("error"),
		"locked":        true,
		"workout_count": program.WorkoutCount,
	}))
}
