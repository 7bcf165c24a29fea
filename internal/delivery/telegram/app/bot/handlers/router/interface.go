// internal/delivery/telegram/app/bot/handlers/router/interface.go
package router

import (
	"context"

	"mr-trader-bot/internal/delivery/telegram/app/bot/handlers"
)

// Router интерфейс маршрутизатора хэндлеров
type Router interface {
	RegisterHandler(handler handlers.Handler)                   // регистрация по GetCommand()
	RegisterCallback(callback string, handler handlers.Handler) // явная регистрация callback
	Handle(ctx context.Context, key string, params handlers.HandlerParams) (handlers.HandlerResult, error)
	GetHandler(key string) (handlers.Handler, bool)
	GetCommands() []string
}
