// internal/delivery/telegram/app/bot/handlers/commands/paid/handler.go
package paid

import (
	"context"

	"mr-trader-bot/internal/core/domain/payment"
	"mr-trader-bot/internal/delivery/telegram/app/bot/buttons"
	"mr-trader-bot/internal/delivery/telegram/app/bot/constants"
	"mr-trader-bot/internal/delivery/telegram/app/bot/formatters"
	"mr-trader-bot/internal/delivery/telegram/app/bot/handlers"
	"mr-trader-bot/internal/delivery/telegram/app/bot/handlers/base"
)

// paidCommandHandler реализация обработчика команды /paid
type paidCommandHandler struct {
	*base.BaseHandler
	payments handlers.PaymentService
	adminIDs []int64
	buttons  *buttons.ButtonBuilder
}

// NewHandler создает обработчик подтверждения ручной оплаты
func NewHandler(payments handlers.PaymentService, adminIDs []int64) handlers.Handler {
	return &paidCommandHandler{
		BaseHandler: &base.BaseHandler{
			Name:    "paid_command_handler",
			Command: constants.CommandPaid,
			Type:    handlers.TypeCommand,
		},
		payments: payments,
		adminIDs: adminIDs,
		buttons:  buttons.NewButtonBuilder(),
	}
}

// Execute принимает хэш транзакции или номер операции и отправляет платеж на проверку
func (h *paidCommandHandler) Execute(ctx context.Context, params handlers.HandlerParams) (handlers.HandlerResult, error) {
	if len(params.Args) < 2 {
		return h.Usage("/paid <id платежа> <хэш транзакции или номер операции>")
	}

	id, err := payment.ParseID(params.Arg(0))
	if err != nil {
		return h.ErrorReply(err)
	}

	p, err := h.payments.SubmitReference(ctx, id, params.User.TelegramID, base.JoinArgs(params.Args, 1))
	if err != nil {
		return h.ErrorReply(err)
	}

	card := "🔔 <b>Новый платеж на проверку</b>\n\n" + formatters.FormatPaymentForReview(*p)
	keyboard := h.buttons.CreateReviewKeyboard(p.ID.String())

	result := handlers.HandlerResult{Message: formatters.FormatReferenceSubmitted(p)}
	for _, adminID := range h.adminIDs {
		result.Notify = append(result.Notify, handlers.Notification{ChatID: adminID, Text: card, Keyboard: keyboard})
	}
	return result, nil
}
