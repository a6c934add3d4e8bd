// Package middlewarectx содержит HTTP middleware для проверки сессии.
//
// SessionMiddleware читает токен сессии из cookie, валидирует его и
// добавляет в контекст запроса идентификатор и email пользователя.
// Неаутентифицированный запрос не получает 401: пользователя уводят
// на страницу входа с возвратом на исходный адрес после логина.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/coach-platform/internal/config"
	"github.com/magabrotheeeer/coach-platform/internal/http/session"
	"github.com/magabrotheeeer/coach-platform/internal/lib/jwt"
	"github.com/magabrotheeeer/coach-platform/internal/lib/sl"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// UserUID — ключ для идентификатора пользователя в контексте
	UserUID Key = "user_uid"
	// Email — ключ для email пользователя в контексте
	Email Key = "email"
)

// SessionMiddleware возвращает middleware, которое проверяет сессию пользователя.
//
// Логика работы:
//  1. Читает токен сессии из cookie.
//  2. Валидирует токен и извлекает идентификатор пользователя.
//  3. Кладёт идентификатор и email в контекст запроса.
//  4. При отсутствии или невалидности сессии отвечает 302 на
//     /login?redirect={исходный путь}.
func SessionMiddleware(cfg config.SessionToken, tokenMaker jwt.Maker, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.SessionMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			toLogin := func() {
				target := "/login?redirect=" + url.QueryEscape(r.URL.RequestURI())
				http.Redirect(w, r, target, http.StatusFound)
			}

			tokenStr, err := session.Token(r, cfg)
			if err != nil {
				log.Info("no session cookie, redirecting to login")
				toLogin()
				return
			}

			claims, err := tokenMaker.ParseToken(tokenStr)
			if err != nil {
				log.Warn("invalid or expired session token", sl.Err(err))
				toLogin()
				return
			}

			ctx := context.WithValue(r.Context(), UserUID, claims.UserUID)
			ctx = context.WithValue(ctx, Email, claims.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
