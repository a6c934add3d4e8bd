// Package jwt реализует генерацию и парсинг токенов сессии.
//
// Токен подписывается HS256 и кладётся в HttpOnly-cookie; для сервиса доступа
// значение cookie непрозрачно, важен только валидный uid пользователя внутри.
package jwt

import "time"

// Maker описывает интерфейс для генерации и парсинга токенов сессии.
type Maker interface {
	// GenerateToken создает токен для пользователя с указанным uid и email.
	GenerateToken(userUID, email string) (string, error)
	// ParseToken проверяет подпись и срок действия, возвращает claims.
	ParseToken(tokenStr string) (*SessionClaims, error)
}

// MakerImpl реализует Maker на основе секретного ключа и времени жизни токена.
type MakerImpl struct {
	secretKey string
	tokenTTL  time.Duration
}

// NewMaker создаёт новый экземпляр MakerImpl.
func NewMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
