// internal/delivery/telegram/app/bot/handlers/commands/admin/review.go
package admin

import (
	"context"
	"fmt"

	"mr-trader-bot/internal/core/domain/payment"
	"mr-trader-bot/internal/delivery/telegram/app/bot/constants"
	"mr-trader-bot/internal/delivery/telegram/app/bot/formatters"
	"mr-trader-bot/internal/delivery/telegram/app/bot/handlers"
	"mr-trader-bot/internal/delivery/telegram/app/bot/handlers/base"
)

const pendingListLimit = 20

// approveHandler подтверждение ручного платежа: /approve <id> и callback approve:<id>
type approveHandler struct {
	*base.BaseHandler
	payments handlers.PaymentService
}

// NewApproveHandler создает обработчик подтверждения платежа
func NewApproveHandler(payments handlers.PaymentService) handlers.Handler {
	return &approveHandler{
		BaseHandler: &base.BaseHandler{
			Name:    "approve_command_handler",
			Command: constants.CommandApprove,
			Type:    handlers.TypeCommand,
		},
		payments: payments,
	}
}

// Execute активирует подписку по платежу и уведомляет пользователя
func (h *approveHandler) Execute(ctx context.Context, params handlers.HandlerParams) (handlers.HandlerResult, error) {
	id, err := payment.ParseID(params.Arg(0))
	if err != nil {
		return h.Usage("/approve <id платежа>")
	}

	p, sub, err := h.payments.Approve(ctx, id, params.User.TelegramID)
	if err != nil {
		return h.ErrorReply(err)
	}

	return handlers.HandlerResult{
		Message: fmt.Sprintf("✅ Платеж <code>%s</code> подтвержден", p.ShortID()),
		Notify: []handlers.Notification{{
			ChatID: p.ChatID,
			Text:   "💰 Оплата получена!\n" + formatters.FormatActivated(sub),
		}},
	}, nil
}

// rejectHandler отклонение ручного платежа: /reject <id> и callback reject:<id>
type rejectHandler struct {
	*base.BaseHandler
	payments handlers.PaymentService
	support  string
}

// NewRejectHandler создает обработчик отклонения платежа
func NewRejectHandler(payments handlers.PaymentService, support string) handlers.Handler {
	return &rejectHandler{
		BaseHandler: &base.BaseHandler{
			Name:    "reject_command_handler",
			Command: constants.CommandReject,
			Type:    handlers.TypeCommand,
		},
		payments: payments,
		support:  support,
	}
}

// Execute отклоняет платеж и уведомляет пользователя
func (h *rejectHandler) Execute(ctx context.Context, params handlers.HandlerParams) (handlers.HandlerResult, error) {
	id, err := payment.ParseID(params.Arg(0))
	if err != nil {
		return h.Usage("/reject <id платежа>")
	}

	p, err := h.payments.Reject(ctx, id, params.User.TelegramID)
	if err != nil {
		return h.ErrorReply(err)
	}

	notice := fmt.Sprintf("❌ Платеж <code>%s</code> не подтвержден.", p.ShortID())
	if h.support != "" {
		notice += "\nЕсли вы уверены, что оплата прошла, напишите " + formatters.Escape(h.support)
	}

	return handlers.HandlerResult{
		Message: fmt.Sprintf("❌ Платеж <code>%s</code> отклонен", p.ShortID()),
		Notify:  []handlers.Notification{{ChatID: p.ChatID, Text: notice}},
	}, nil
}

// pendingHandler список платежей на проверке
type pendingHandler struct {
	*base.BaseHandler
	payments handlers.PaymentService
}

// NewPendingHandler создает обработчик команды /pending
func NewPendingHandler(payments handlers.PaymentService) handlers.Handler {
	return &pendingHandler{
		BaseHandler: &base.BaseHandler{
			Name:    "pending_command_handler",
			Command: constants.CommandPending,
			Type:    handlers.TypeCommand,
		},
		payments: payments,
	}
}

// Execute выводит ожидающие проверки платежи
func (h *pendingHandler) Execute(ctx context.Context, _ handlers.HandlerParams) (handlers.HandlerResult, error) {
	list, err := h.payments.PendingReviews(ctx, pendingListLimit)
	if err != nil {
		return h.ErrorReply(err)
	}
	return h.Reply(formatters.FormatPendingPayments(list))
}
