// Package apikey генерирует API-ключи пользователей.
package apikey

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Length длина ключа в символах.
const Length = 32

// New возвращает случайный ключ из 32 шестнадцатеричных символов в нижнем регистре.
func New() (string, error) {
	const op = "apikey.New"

	buf := make([]byte, Length/2)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return hex.EncodeToString(buf), nil
}
