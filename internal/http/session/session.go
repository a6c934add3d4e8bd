// Package session содержит работу с сессионной cookie: токен сессии
// хранится в HttpOnly cookie и недоступен клиентскому скрипту.
package session

import (
	"net/http"
	"time"

	"github.com/magabrotheeeer/coach-platform/internal/config"
)

// Set ставит сессионную cookie с токеном на весь сайт.
func Set(w http.ResponseWriter, cfg config.SessionToken, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cfg.TokenTTL / time.Second),
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear удаляет сессионную cookie.
func Clear(w http.ResponseWriter, cfg config.SessionToken) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Token читает токен сессии из cookie запроса.
// Возвращает http.ErrNoCookie, если cookie отсутствует.
func Token(r *http.Request, cfg config.SessionToken) (string, error) {
	cookie, err := r.Cookie(cfg.CookieName)
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}
