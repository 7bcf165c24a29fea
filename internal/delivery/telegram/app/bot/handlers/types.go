// internal/delivery/telegram/app/bot/handlers/types.go
package handlers

import (
	"context"

	"mr-trader-bot/internal/core/domain/users"
	"mr-trader-bot/internal/delivery/telegram/app/http_client"
)

// HandlerType тип хэндлера
type HandlerType string

const (
	TypeCommand  HandlerType = "command"
	TypeCallback HandlerType = "callback"
	TypeEvent    HandlerType = "event"
)

// Handler интерфейс для всех хэндлеров
type Handler interface {
	Execute(ctx context.Context, params HandlerParams) (HandlerResult, error)
	GetName() string
	GetCommand() string // команда, callback или событие
	GetType() HandlerType
}

// HandlerParams параметры вызова хэндлера
type HandlerParams struct {
	User     *users.User
	IsNew    bool // пользователь зарегистрирован этим обновлением
	ChatID   int64
	Text     string   // исходный текст сообщения
	Args     []string // аргументы команды или параметры callback
	Data     string   // callback данные целиком
	UpdateID string

	PreCheckout       *http_client.PreCheckoutQuery
	SuccessfulPayment *http_client.SuccessfulPayment
}

// Arg возвращает аргумент по индексу или пустую строку
func (p HandlerParams) Arg(i int) string {
	if i < 0 || i >= len(p.Args) {
		return ""
	}
	return p.Args[i]
}

// Notification сообщение в другой чат, отправляемое после ответа
type Notification struct {
	ChatID   int64
	Text     string
	Keyboard *http_client.InlineKeyboardMarkup
}

// HandlerResult результат хэндлера. Пустой Message означает, что отвечать не нужно.
type HandlerResult struct {
	Message  string
	Keyboard *http_client.InlineKeyboardMarkup
	Notify   []Notification
}
