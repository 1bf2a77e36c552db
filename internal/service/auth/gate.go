// Package auth содержит проверку ключа доступа перед подключением.
//
// Ключ встраивается в сборку и сравнивается в открытом виде, поэтому это
// защита от случайного использования, а не граница доверия.
package auth

import (
	"crypto/subtle"

	"laserlink/internal/domain/models"
)

// Matcher сравнивает введённый ключ с ожидаемым.
type Matcher func(entered string) bool

// ExactKey точное сравнение строк (без нормализации пробелов и регистра).
func ExactKey(secret string) Matcher {
	want := []byte(secret)
	return func(entered string) bool {
		return subtle.ConstantTimeCompare([]byte(entered), want) == 1
	}
}

// Gate проверка ключа перед подключением.
type Gate struct {
	match Matcher
}

// NewGate создаёт проверку с заданным сравнением. nil отклоняет любой ключ.
func NewGate(match Matcher) *Gate {
	return &Gate{match: match}
}

// Authenticate true, если ключ принят.
func (g *Gate) Authenticate(entered string) bool {
	if g == nil || g.match == nil {
		return false
	}
	return g.match(entered)
}

// Check то же, что Authenticate, но возвращает models.ErrAuth.
func (g *Gate) Check(entered string) error {
	if !g.Authenticate(entered) {
		return models.ErrAuth
	}
	return nil
}
