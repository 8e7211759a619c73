// Package auth — аутентификация дашборда. Провайдер внедряется при старте;
// ядро синка и стора о нём не знает.
package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
)

const (
	RoleAdmin  = "admin"
	RoleAgent  = "agent"
	RoleViewer = "viewer"
)

// User — учётная запись, как её видят хендлеры. Хеш пароля наружу не отдаём.
type User struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`

	PasswordHash string `json:"-"`
}

// UserChanges — частичное обновление пользователя; nil-поля не трогаются.
type UserChanges struct {
	DisplayName *string
	Role        *string
	Password    *string
}

// Provider — подключаемый бэкенд учётных записей: файл (плоский JSON) или
// таблица users.
type Provider interface {
	Authenticate(ctx context.Context, username, password string) (*User, error)
	Lookup(ctx context.Context, username string) (*User, error)
	List(ctx context.Context) ([]User, error)
	Create(ctx context.Context, u User, password string) error
	Update(ctx context.Context, username string, changes UserChanges) error
	Delete(ctx context.Context, username string) error
}

// HashPassword — SHA-256 hex, формат хешей исторического users.json.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

func verifyPassword(password, passwordHash string) bool {
	return HashPassword(password) == passwordHash
}
