// internal/delivery/telegram/app/bot/handlers/commands/admin/broadcast.go
package admin

import (
	"context"
	"strings"
	"time"
	"unicode"

	"mr-trader-bot/internal/core/domain/admin"
	"mr-trader-bot/internal/delivery/telegram/app/bot/constants"
	"mr-trader-bot/internal/delivery/telegram/app/bot/formatters"
	"mr-trader-bot/internal/delivery/telegram/app/bot/handlers"
	"mr-trader-bot/internal/delivery/telegram/app/bot/handlers/base"
	"mr-trader-bot/pkg/logger"
)

// Отправка итога рассылки администратору
const reportTimeout = 10 * time.Second

// broadcastHandler рассылка всем пользователям
type broadcastHandler struct {
	*base.BaseHandler
	admin  handlers.AdminService
	sender handlers.MessageSender
}

// NewBroadcastHandler создает обработчик команды /broadcast
func NewBroadcastHandler(admin handlers.AdminService, sender handlers.MessageSender) handlers.Handler {
	return &broadcastHandler{
		BaseHandler: &base.BaseHandler{
			Name:    "broadcast_command_handler",
			Command: constants.CommandBroadcast,
			Type:    handlers.TypeCommand,
		},
		admin:  admin,
		sender: sender,
	}
}

// Execute запускает рассылку текста после команды с сохранением переносов строк.
// Итог приходит администратору отдельным сообщением.
func (h *broadcastHandler) Execute(ctx context.Context, params handlers.HandlerParams) (handlers.HandlerResult, error) {
	text := commandBody(params.Text)
	if text == "" {
		return h.Usage("/broadcast <текст>")
	}

	chatID := params.ChatID
	logger.Info("📣 Рассылка от администратора %d", params.User.TelegramID)
	h.admin.StartBroadcast(ctx, text, func(result admin.BroadcastResult, err error) {
		msg := formatters.FormatBroadcastResult(result)
		if err != nil {
			msg = formatters.FormatBroadcastInterrupted(result)
		}
		sendCtx, cancel := context.WithTimeout(context.Background(), reportTimeout)
		defer cancel()
		if err := h.sender.SendMessage(sendCtx, chatID, msg); err != nil {
			logger.Warn("⚠️ Итог рассылки не отправлен в чат %d: %v", chatID, err)
		}
	})
	return h.Reply("📣 Рассылка запущена. Итог придет отдельным сообщением.")
}

// commandBody текст сообщения без первого слова-команды
func commandBody(text string) string {
	text = strings.TrimSpace(text)
	i := strings.IndexFunc(text, unicode.IsSpace)
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(text[i:])
}
