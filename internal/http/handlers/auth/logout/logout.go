// Package logout реализует HTTP-обработчик выхода: сессионная cookie удаляется.
package logout

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/coach-platform/internal/config"
	"github.com/magabrotheeeer/coach-platform/internal/http/response"
	"github.com/magabrotheeeer/coach-platform/internal/http/session"
)

// Handler обрабатывает HTTP-запросы выхода.
type Handler struct {
	log *slog.Logger
	cfg config.SessionToken
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, cfg config.SessionToken) *Handler {
	return &Handler{
		log: log,
		cfg: cfg,
	}
}

// ServeHTTP godoc
// @Summary Выход пользователя
// @Description Удаляет сессионную cookie.
// @Tags Auth
// @Produce  json
// @Success 200 {object} map[string]any "Успешный выход"
// @Router /logout [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	session.Clear(w, h.cfg)

	log.Info("session cleared")
	render.JSON(w, r, response.OKWithData(map[string]any{
		"redirect": "/login",
	}))
}
