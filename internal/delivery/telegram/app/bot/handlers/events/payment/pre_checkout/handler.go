// internal/delivery/telegram/app/bot/handlers/events/payment/pre_checkout/handler.go
package pre_checkout

import (
	"context"
	"fmt"

	"mr-trader-bot/internal/delivery/telegram/app/bot/constants"
	"mr-trader-bot/internal/delivery/telegram/app/bot/handlers"
	"mr-trader-bot/internal/delivery/telegram/app/bot/handlers/base"
	"mr-trader-bot/pkg/logger"
)

// rejectMessage текст отказа, который Telegram покажет пользователю
const rejectMessage = "Счет устарел или уже оплачен. Оформите покупку заново: /buy"

// preCheckoutHandler реализация обработчика pre_checkout_query
type preCheckoutHandler struct {
	*base.BaseHandler
	payments handlers.PaymentService
	answerer handlers.PreCheckoutAnswerer
}

// NewHandler создает обработчик pre_checkout_query
func NewHandler(payments handlers.PaymentService, answerer handlers.PreCheckoutAnswerer) handlers.Handler {
	return &preCheckoutHandler{
		BaseHandler: &base.BaseHandler{
			Name:    "pre_checkout_handler",
			Command: constants.EventPreCheckout,
			Type:    handlers.TypeEvent,
		},
		payments: payments,
		answerer: answerer,
	}
}

// Execute проверяет счет и отвечает Telegram. Пользователю ничего не отправляется.
func (h *preCheckoutHandler) Execute(ctx context.Context, params handlers.HandlerParams) (handlers.HandlerResult, error) {
	q := params.PreCheckout
	if q == nil {
		return handlers.HandlerResult{}, fmt.Errorf("pre_checkout_query отсутствует в обновлении %s", params.UpdateID)
	}

	ok, message := true, ""
	if err := h.payments.ValidatePreCheckout(ctx, q.InvoicePayload, q.Currency, q.TotalAmount); err != nil {
		logger.Warn("⚠️ Pre-checkout отклонен: payload=%s user=%d: %v", q.InvoicePayload, q.From.ID, err)
		ok, message = false, rejectMessage
	}

	if err := h.answerer.AnswerPreCheckoutQuery(ctx, q.ID, ok, message); err != nil {
		return handlers.HandlerResult{}, err
	}
	return handlers.HandlerResult{}, nil
}
