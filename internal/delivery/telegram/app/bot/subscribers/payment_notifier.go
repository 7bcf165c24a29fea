// internal/delivery/telegram/app/bot/subscribers/payment_notifier.go
package subscribers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mr-trader-bot/internal/core/domain/payment"
	"mr-trader-bot/internal/delivery/telegram/app/bot/formatters"
	events "mr-trader-bot/internal/infrastructure/transport/event_bus"
)

const sendTimeout = 10 * time.Second

// Sender отправка сообщения в чат
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// NewPaymentNotifier уведомляет администраторов об автоматически подтвержденных оплатах.
// Платежи, подтвержденные администратором, и бесплатные повышения пропускаются.
func NewPaymentNotifier(sender Sender, adminIDs []int64) events.EventSubscriber {
	admins := append([]int64(nil), adminIDs...)

	return events.NewBaseSubscriber("admin_payment_notifier",
		[]events.EventType{events.EventPaymentConfirmed},
		func(event events.Event) error {
			data, ok := event.Data.(payment.ConfirmedEvent)
			if !ok {
				return fmt.Errorf("неожиданные данные события %s: %T", event.Type, event.Data)
			}
			if data.Payment.ReviewedBy != nil || !data.Payment.AmountUSD.IsPositive() {
				return nil
			}

			ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
			defer cancel()

			text := formatters.FormatPaymentConfirmed(data.Payment, data.Subscription)
			var errs []error
			for _, id := range admins {
				if err := sender.SendMessage(ctx, id, text); err != nil {
					errs = append(errs, fmt.Errorf("админ %d: %w", id, err))
				}
			}
			return errors.Join(errs...)
		})
}
