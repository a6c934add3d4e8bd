// Package list реализует HTTP-обработчик списка программ пользователя
// с живыми решениями о доступе.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/coach-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/coach-platform/internal/http/response"
	"github.com/magabrotheeeer/coach-platform/internal/lib/sl"
	services "github.com/magabrotheeeer/coach-platform/internal/services/access"
)

// Service описывает интерфейс получения записей пользователя с решениями.
type Service interface {
	ListWithDecisions(ctx context.Context, userUID string) ([]*services.EnrollmentView, error)
}

// Handler обрабатывает запросы списка программ пользователя.
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
// @Summary Программы пользователя
// @Description Возвращает записи пользователя вместе с текущими решениями о доступе.
// @Tags Program
// @Produce  json
// @Success 200 {object} map[string]any "Записи с решениями"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /app/programs [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.program.list"

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

	views, err := h.service.ListWithDecisions(r.Context(), userUID)
	if err != nil {
		log.Error("failed to list enrollments", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list programs"))
		return
	}

	log.Info("listed enrollments", slog.Int("count", len(views)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"count":       len(views),
		"enrollments": views,
	}))
}
