// Package jwt реализует выпуск и проверку JWT-токенов сотрудников.
//
// В токен попадают id, email и роль сотрудника; срок жизни задается
// конфигурацией (24 часа). Токен подписывается секретным ключом сервера,
// состояние сессий на сервере не хранится.
package jwt

import (
	"time"
)

// Maker описывает интерфейс выпуска и разбора токенов сотрудников.
type Maker interface {
	// GenerateToken выпускает токен для сотрудника с указанными id, email и ролью.
	GenerateToken(employeeID int, email, role string) (string, error)
	// ParseToken проверяет подпись и срок токена и возвращает claims.
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
