// internal/delivery/telegram/app/bot/handlers/commands/help/handler.go
package help

import (
	"context"
	"strings"

	"mr-trader-bot/internal/delivery/telegram/app/bot/constants"
	"mr-trader-bot/internal/delivery/telegram/app/bot/handlers"
	"mr-trader-bot/internal/delivery/telegram/app/bot/handlers/base"
)

// helpCommandHandler реализация обработчика команды /help
type helpCommandHandler struct {
	*base.BaseHandler
}

// NewHandler создает новый обработчик команды /help
func NewHandler() handlers.Handler {
	return &helpCommandHandler{
		BaseHandler: &base.BaseHandler{
			Name:    "help_command_handler",
			Command: constants.CommandHelp,
			Type:    handlers.TypeCommand,
		},
	}
}

// Execute список команд. Администраторы видят также служебные команды.
func (h *helpCommandHandler) Execute(_ context.Context, params handlers.HandlerParams) (handlers.HandlerResult, error) {
	var b strings.Builder
	b.WriteString("📋 <b>Команды</b>\n\n")
	b.WriteString("/packages — пакеты и цены\n")
	b.WriteString("/buy &lt;пакет&gt; [длительность] [способ] — покупка\n")
	b.WriteString("/paid &lt;id&gt; &lt;подтверждение&gt; — подтвердить ручную оплату\n")
	b.WriteString("/signals — лучшие сигналы\n")
	b.WriteString("/status — моя подписка\n")

	if params.User != nil && params.User.IsAdmin {
		b.WriteString("\n👑 <b>Администратор</b>\n\n")
		b.WriteString("/report [дней] — отчет\n")
		b.WriteString("/pending — платежи на проверке\n")
		b.WriteString("/approve &lt;id&gt;, /reject &lt;id&gt; — решение по платежу\n")
		b.WriteString("/grant &lt;telegram_id&gt; &lt;пакет&gt; &lt;длительность&gt; — выдать подписку\n")
		b.WriteString("/broadcast &lt;текст&gt; — рассылка\n")
		b.WriteString("/promo &lt;пакет&gt; &lt;цена&gt; &lt;дней&gt; | /promo &lt;пакет&gt; off — акция\n")
		b.WriteString("/discount &lt;пакет&gt; &lt;процент&gt; — скидка\n")
		b.WriteString("/package &lt;пакет&gt; on|off — доступность пакета\n")
		b.WriteString("/publish &lt;пара&gt; &lt;тип&gt; &lt;таймфрейм&gt; &lt;цена&gt; &lt;сила&gt; &lt;уверенность&gt; [стратегия] — сигнал\n")
	}

	return h.Reply(b.String())
}
