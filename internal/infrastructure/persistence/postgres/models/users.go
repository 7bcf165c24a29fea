// internal/infrastructure/persistence/postgres/models/users.go
package models

import (
	"time"

	"mr-trader-bot/internal/core/domain/users"
)

// User строка таблицы users
type User struct {
	ID         int64     `db:"id"`
	TelegramID int64     `db:"telegram_id"`
	ChatID     int64     `db:"chat_id"`
	Username   string    `db:"username"`
	FirstName  string    `db:"first_name"`
	Language   string    `db:"language"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// NewUser модель из доменного пользователя
func NewUser(u *users.User) User {
	return User{
		ID:         u.ID,
		TelegramID: u.TelegramID,
		ChatID:     u.ChatID,
		Username:   u.Username,
		FirstName:  u.FirstName,
		Language:   u.Language,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

// ToDomain доменный пользователь. Признак администратора задает сервис.
func (m User) ToDomain() *users.User {
	return &users.User{
		ID:         m.ID,
		TelegramID: m.TelegramID,
		ChatID:     m.ChatID,
		Username:   m.Username,
		FirstName:  m.FirstName,
		Language:   m.Language,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
