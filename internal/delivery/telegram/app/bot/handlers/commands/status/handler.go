// internal/delivery/telegram/app/bot/handlers/commands/status/handler.go
package status

import (
	"context"
	"time"

	"mr-trader-bot/internal/delivery/telegram/app/bot/constants"
	"mr-trader-bot/internal/delivery/telegram/app/bot/formatters"
	"mr-trader-bot/internal/delivery/telegram/app/bot/handlers"
	"mr-trader-bot/internal/delivery/telegram/app/bot/handlers/base"
)

// statusCommandHandler реализация обработчика команды /status
type statusCommandHandler struct {
	*base.BaseHandler
	subscriptions handlers.SubscriptionService
	now           func() time.Time
}

// NewHandler создает обработчик команды /status
func NewHandler(subscriptions handlers.SubscriptionService, now func() time.Time) handlers.Handler {
	return &statusCommandHandler{
		BaseHandler: &base.BaseHandler{
			Name:    "status_command_handler",
			Command: constants.CommandStatus,
			Type:    handlers.TypeCommand,
		},
		subscriptions: subscriptions,
		now:           now,
	}
}

// Execute текущий пакет и срок подписки
func (h *statusCommandHandler) Execute(ctx context.Context, params handlers.HandlerParams) (handlers.HandlerResult, error) {
	pkg, sub, err := h.subscriptions.ActivePackage(ctx, params.User.TelegramID)
	if err != nil {
		return h.ErrorReply(err)
	}
	return h.Reply(formatters.FormatStatus(pkg, sub, h.now()))
}
