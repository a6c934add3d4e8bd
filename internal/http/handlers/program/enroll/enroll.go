// Package enroll реализует HTTP-обработчик записи на программу.
//
// Операция идемпотентна: повторный запрос для уже записанного пользователя
// возвращает существующую запись с исходной датой начала.
package enroll

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/coach-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/coach-platform/internal/http/response"
	"github.com/magabrotheeeer/coach-platform/internal/lib/sl"
	"github.com/magabrotheeeer/coach-platform/internal/models"
	services "github.com/magabrotheeeer/coach-platform/internal/services/access"
)

// Service описывает интерфейс создания пробной записи.
type Service interface {
	Enroll(ctx context.Context, userUID, slug string) (*models.Enrollment, error)
}

// Handler обрабатывает запросы записи на программу.
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
// @Summary Запись на программу
// @Description Создаёт пробную запись пользователя. Повторный вызов возвращает существующую запись.
// @Tags Program
// @Produce  json
// @Param slug path string true "Идентификатор программы"
// @Success 200 {object} map[string]any "Запись пользователя"
// @Failure 404 {object} response.ErrorResponse "Программа не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /app/program/{slug}/enroll [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.program.enroll"

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

	enr, err := h.service.Enroll(r.Context(), userUID, slug)
	if err != nil {
		if errors.Is(err, services.ErrProgramNotFound) {
			log.Warn("program not found", slog.String("program_slug", slug))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("program not found"))
			return
		}
		log.Error("failed to enroll", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to enroll"))
		return
	}

	log.Info("enrollment ready",
		slog.String("program_slug", slug),
		slog.String("status", string(enr.Status)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"program_slug": enr.ProgramSlug,
		"status":       enr.Status,
		"start_date":   enr.StartUnix,
	}))
}
