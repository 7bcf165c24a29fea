// internal/delivery/telegram/app/bot/handlers/events/payment/successful_payment/handler.go
package successful_payment

import (
	"context"
	"errors"
	"fmt"

	"mr-trader-bot/internal/core/domain/subscription"
	"mr-trader-bot/internal/delivery/telegram/app/bot/constants"
	"mr-trader-bot/internal/delivery/telegram/app/bot/formatters"
	"mr-trader-bot/internal/delivery/telegram/app/bot/handlers"
	"mr-trader-bot/internal/delivery/telegram/app/bot/handlers/base"
	"mr-trader-bot/pkg/logger"
)

// successfulPaymentHandler реализация обработчика successful_payment
type successfulPaymentHandler struct {
	*base.BaseHandler
	payments handlers.PaymentService
	support  string
}

// NewHandler создает обработчик successful_payment
func NewHandler(payments handlers.PaymentService, support string) handlers.Handler {
	return &successfulPaymentHandler{
		BaseHandler: &base.BaseHandler{
			Name:    "successful_payment_handler",
			Command: constants.EventSuccessfulPayment,
			Type:    handlers.TypeEvent,
		},
		payments: payments,
		support:  support,
	}
}

// Execute подтверждает оплату Stars и активирует подписку
func (h *successfulPaymentHandler) Execute(ctx context.Context, params handlers.HandlerParams) (handlers.HandlerResult, error) {
	sp := params.SuccessfulPayment
	if sp == nil {
		return handlers.HandlerResult{}, fmt.Errorf("successful_payment отсутствует в обновлении %s", params.UpdateID)
	}

	p, sub, err := h.payments.ConfirmStars(ctx, sp.InvoicePayload, sp.Currency, sp.TotalAmount, sp.TelegramPaymentChargeID)
	if err != nil {
		// Деньги списаны, но подписка не активирована: нужен разбор вручную
		logger.Error("❌ Не удалось подтвердить оплату Stars: payload=%s charge=%s user=%d: %v",
			sp.InvoicePayload, sp.TelegramPaymentChargeID, params.User.TelegramID, err)
		msg := "⚠️ Оплата получена, но подписку не удалось активировать автоматически."
		if errors.Is(err, subscription.ErrStaleQuote) || errors.Is(err, subscription.ErrDowngrade) {
			msg += "\nВаша подписка изменилась после выставления счета, платеж передан администратору."
		}
		if h.support != "" {
			msg += "\nНапишите " + formatters.Escape(h.support) + " и укажите код: <code>" +
				formatters.Escape(sp.TelegramPaymentChargeID) + "</code>"
		}
		return h.Reply(msg)
	}

	logger.Info("💰 Оплата Stars подтверждена: %s (%d XTR)", p.ShortID(), sp.TotalAmount)
	if sub == nil {
		return h.Reply("💰 Спасибо за оплату!")
	}
	return h.Reply("💰 Спасибо за оплату!\n" + formatters.FormatActivated(sub))
}
