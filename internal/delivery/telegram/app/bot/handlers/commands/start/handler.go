// internal/delivery/telegram/app/bot/handlers/commands/start/handler.go
package start

import (
	"context"
	"fmt"

	"mr-trader-bot/internal/delivery/telegram/app/bot/buttons"
	"mr-trader-bot/internal/delivery/telegram/app/bot/constants"
	"mr-trader-bot/internal/delivery/telegram/app/bot/formatters"
	"mr-trader-bot/internal/delivery/telegram/app/bot/handlers"
	"mr-trader-bot/internal/delivery/telegram/app/bot/handlers/base"
)

// startCommandHandler реализация обработчика команды /start
type startCommandHandler struct {
	*base.BaseHandler
	buttons *buttons.ButtonBuilder
}

// NewHandler создает новый обработчик команды /start
func NewHandler() handlers.Handler {
	return &startCommandHandler{
		BaseHandler: &base.BaseHandler{
			Name:    "start_command_handler",
			Command: constants.CommandStart,
			Type:    handlers.TypeCommand,
		},
		buttons: buttons.NewButtonBuilder(),
	}
}

// Execute приветствие и главное меню. Регистрация выполняется middleware.
func (h *startCommandHandler) Execute(_ context.Context, params handlers.HandlerParams) (handlers.HandlerResult, error) {
	greeting := "👋 С возвращением"
	if params.IsNew {
		greeting = "👋 Добро пожаловать"
	}

	message := fmt.Sprintf("%s, <b>%s</b>!\n\n", greeting, formatters.Escape(params.User.DisplayName())) +
		"Я присылаю отобранные торговые сигналы по вашему пакету подписки.\n\n" +
		"💎 /packages — пакеты и цены\n" +
		"📈 /signals — лучшие сигналы\n" +
		"📊 /status — моя подписка\n" +
		"📋 /help — все команды"

	return handlers.HandlerResult{
		Message:  message,
		Keyboard: h.buttons.CreateMainMenuKeyboard(),
	}, nil
}
