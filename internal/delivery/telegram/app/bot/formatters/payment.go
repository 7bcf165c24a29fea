// internal/delivery/telegram/app/bot/formatters/payment.go
package formatters

import (
	"fmt"
	"strings"

	"mr-trader-bot/internal/core/domain/payment"
	"mr-trader-bot/internal/core/domain/subscription"
)

// FormatCheckout инструкция по оплате после оформления
func FormatCheckout(res *payment.CheckoutResult, support string) string {
	var b strings.Builder
	b.WriteString(FormatQuote(res.Quote))
	b.WriteString("\n")

	if res.Activated != nil {
		b.WriteString(FormatActivated(res.Activated))
		return b.String()
	}

	p := res.Payment
	switch p.Method {
	case payment.MethodStars:
		fmt.Fprintf(&b, "⭐ Счет на <b>%d XTR</b> создан. Нажмите кнопку ниже для оплаты.", p.AmountStars)
	case payment.MethodTRC20:
		fmt.Fprintf(&b, "💵 Переведите <b>%s USDT</b> (TRC20) на адрес:\n<code>%s</code>\n\n",
			p.AmountUSD.StringFixed(2), Escape(res.Destination))
		fmt.Fprintf(&b, "Затем отправьте хэш транзакции:\n<code>/paid %s &lt;tx_hash&gt;</code>", p.ID)
	case payment.MethodCard:
		fmt.Fprintf(&b, "💳 Переведите <b>%s</b> на карту:\n<code>%s</code>\n", USD(p.AmountUSD), Escape(res.Destination))
		if res.Holder != "" {
			fmt.Fprintf(&b, "Получатель: %s\n", Escape(res.Holder))
		}
		fmt.Fprintf(&b, "\nЗатем отправьте номер операции:\n<code>/paid %s &lt;номер&gt;</code>", p.ID)
	}

	if p.Method.IsManual() && support != "" {
		fmt.Fprintf(&b, "\n\n📧 Вопросы по оплате: %s", Escape(support))
	}
	return b.String()
}

// FormatActivated подписка активирована
func FormatActivated(sub *subscription.UserSubscription) string {
	return fmt.Sprintf("✅ Подписка <b>%s</b> активна до %s", sub.Tier.Title(), Date(sub.ExpiresAt))
}

// FormatReferenceSubmitted подтверждение отправки на проверку
func FormatReferenceSubmitted(p *payment.Payment) string {
	return fmt.Sprintf("🕐 Платеж <code>%s</code> отправлен на проверку. Мы сообщим о результате.", p.ShortID())
}

// FormatPaymentForReview карточка платежа для администратора
func FormatPaymentForReview(p payment.Payment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🧾 <b>Платеж</b> <code>%s</code>\n", p.ID)
	fmt.Fprintf(&b, "👤 Пользователь: <code>%d</code>\n", p.UserID)
	fmt.Fprintf(&b, "💎 %s, %s (%s)\n", p.Tier.Title(), p.Duration.Title(), p.QuoteKind)
	fmt.Fprintf(&b, "💰 %s через %s\n", USD(p.AmountUSD), p.Method.Title())
	if p.Reference != "" {
		fmt.Fprintf(&b, "🔗 Подтверждение: <code>%s</code>\n", Escape(p.Reference))
	}
	fmt.Fprintf(&b, "🕐 %s", DateTime(p.CreatedAt))
	return b.String()
}

// FormatPendingPayments список платежей на проверке
func FormatPendingPayments(list []payment.Payment) string {
	if len(list) == 0 {
		return "✅ Нет платежей на проверке"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🧾 <b>Платежи на проверке: %d</b>\n", len(list))
	for _, p := range list {
		b.WriteString("\n")
		b.WriteString(FormatPaymentForReview(p))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatPaymentConfirmed уведомление администраторам о новой оплате
func FormatPaymentConfirmed(p payment.Payment, sub subscription.UserSubscription) string {
	return fmt.Sprintf("💰 <b>Новая оплата</b> <code>%s</code>\n👤 Пользователь: <code>%d</code>\n💎 %s, %s (%s)\n💵 %s через %s\n📅 Активна до %s",
		p.ShortID(), p.UserID, sub.Tier.Title(), sub.Duration.Title(), p.QuoteKind,
		USD(p.AmountUSD), p.Method.Title(), Date(sub.ExpiresAt))
}
