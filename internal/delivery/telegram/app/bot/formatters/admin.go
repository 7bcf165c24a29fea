// internal/delivery/telegram/app/bot/formatters/admin.go
package formatters

import (
	"fmt"
	"strings"

	"mr-trader-bot/internal/core/domain/admin"
	"mr-trader-bot/internal/core/domain/packages"
	"mr-trader-bot/internal/core/domain/payment"
)

// FormatReport сводка для администратора
func FormatReport(r *admin.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 <b>Отчет</b> %s – %s\n\n", Date(r.From), Date(r.To))
	fmt.Fprintf(&b, "👥 Пользователей: %d\n", r.Users)

	fmt.Fprintf(&b, "\n💎 <b>Активные подписки: %d</b>\n", r.TotalActive())
	for _, tier := range packages.AllTiers() {
		if n := r.ActiveByTier[tier]; n > 0 {
			fmt.Fprintf(&b, "• %s %s: %d\n", TierIcon(tier), tier.Title(), n)
		}
	}

	fmt.Fprintf(&b, "\n💰 <b>Выручка: %s</b>\n", USD(r.TotalRevenue()))
	for _, m := range []payment.Method{payment.MethodStars, payment.MethodTRC20, payment.MethodCard} {
		if amount, ok := r.Revenue[m]; ok {
			fmt.Fprintf(&b, "• %s: %s\n", m.Title(), USD(amount))
		}
	}

	if r.PendingReviews > 0 {
		fmt.Fprintf(&b, "\n🧾 На проверке: %d (/pending)", r.PendingReviews)
	}
	return b.String()
}

// FormatBroadcastResult итог рассылки
func FormatBroadcastResult(r admin.BroadcastResult) string {
	return fmt.Sprintf("📣 Рассылка завершена: доставлено %d, ошибок %d", r.Sent, r.Failed)
}

// FormatBroadcastInterrupted итог прерванной рассылки
func FormatBroadcastInterrupted(r admin.BroadcastResult) string {
	return fmt.Sprintf("⚠️ Рассылка прервана: доставлено %d, ошибок %d", r.Sent, r.Failed)
}
