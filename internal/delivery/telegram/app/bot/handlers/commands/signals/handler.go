// internal/delivery/telegram/app/bot/handlers/commands/signals/handler.go
package signals

import (
	"context"
	"errors"
	"time"

	"mr-trader-bot/internal/core/domain/signal_feed"
	"mr-trader-bot/internal/delivery/telegram/app/bot/constants"
	"mr-trader-bot/internal/delivery/telegram/app/bot/formatters"
	"mr-trader-bot/internal/delivery/telegram/app/bot/handlers"
	"mr-trader-bot/internal/delivery/telegram/app/bot/handlers/base"
)

// signalsCommandHandler реализация обработчика команды /signals
type signalsCommandHandler struct {
	*base.BaseHandler
	subscriptions handlers.SubscriptionService
	feed          handlers.SignalFeed
	limit         int
	now           func() time.Time
}

// NewHandler создает обработчик ленты сигналов. limit - максимум сигналов в ответе.
func NewHandler(subscriptions handlers.SubscriptionService, feed handlers.SignalFeed, limit int, now func() time.Time) handlers.Handler {
	return &signalsCommandHandler{
		BaseHandler: &base.BaseHandler{
			Name:    "signals_command_handler",
			Command: constants.CommandSignals,
			Type:    handlers.TypeCommand,
		},
		subscriptions: subscriptions,
		feed:          feed,
		limit:         limit,
		now:           now,
	}
}

// Execute лучшие сигналы по пакету пользователя с учетом дневного лимита
func (h *signalsCommandHandler) Execute(ctx context.Context, params handlers.HandlerParams) (handlers.HandlerResult, error) {
	pkg, _, err := h.subscriptions.ActivePackage(ctx, params.User.TelegramID)
	if err != nil {
		return h.ErrorReply(err)
	}

	feed, err := h.feed.Latest(ctx, params.User.TelegramID, pkg, h.limit)
	if errors.Is(err, signal_feed.ErrQuotaExceeded) {
		return h.Reply(formatters.FormatQuotaExceeded(feed, h.now()))
	}
	if err != nil {
		return h.ErrorReply(err)
	}

	return h.Reply(formatters.FormatFeed(feed, h.now()))
}
