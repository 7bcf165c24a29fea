// internal/delivery/telegram/app/bot/handlers/commands/admin/grant.go
package admin

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"mr-trader-bot/internal/core/domain/packages"
	"mr-trader-bot/internal/core/domain/users"
	"mr-trader-bot/internal/delivery/telegram/app/bot/constants"
	"mr-trader-bot/internal/delivery/telegram/app/bot/formatters"
	"mr-trader-bot/internal/delivery/telegram/app/bot/handlers"
	"mr-trader-bot/internal/delivery/telegram/app/bot/handlers/base"
)

// grantHandler выдача подписки без оплаты
type grantHandler struct {
	*base.BaseHandler
	subscriptions handlers.SubscriptionService
}

// NewGrantHandler создает обработчик команды /grant
func NewGrantHandler(subscriptions handlers.SubscriptionService) handlers.Handler {
	return &grantHandler{
		BaseHandler: &base.BaseHandler{
			Name:    "grant_command_handler",
			Command: constants.CommandGrant,
			Type:    handlers.TypeCommand,
		},
		subscriptions: subscriptions,
	}
}

// Execute /grant <telegram_id> <пакет> <длительность>
func (h *grantHandler) Execute(ctx context.Context, params handlers.HandlerParams) (handlers.HandlerResult, error) {
	const usage = "/grant <telegram_id> <пакет> <длительность>"
	if len(params.Args) < 3 {
		return h.Usage(usage)
	}

	userID, err := strconv.ParseInt(params.Arg(0), 10, 64)
	if err != nil {
		return h.Usage(usage)
	}
	tier, err := packages.ParseTier(params.Arg(1))
	if err != nil {
		return h.Usage(usage)
	}
	duration, err := packages.ParseDuration(params.Arg(2))
	if err != nil {
		return h.Usage(usage)
	}

	sub, err := h.subscriptions.Grant(ctx, params.User.TelegramID, userID, tier, duration)
	if errors.Is(err, users.ErrNotFound) {
		return h.Reply(fmt.Sprintf("🔍 Пользователь %d не найден. Он должен сначала написать боту /start.", userID))
	}
	if err != nil {
		return h.ErrorReply(err)
	}

	// В личном чате chat_id совпадает с telegram_id
	return handlers.HandlerResult{
		Message: fmt.Sprintf("🎁 Пользователю <code>%d</code> выдан пакет %s до %s",
			userID, tier.Title(), formatters.Date(sub.ExpiresAt)),
		Notify: []handlers.Notification{{
			ChatID: userID,
			Text:   "🎁 Вам выдана подписка!\n" + formatters.FormatActivated(sub),
		}},
	}, nil
}
