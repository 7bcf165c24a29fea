// internal/delivery/telegram/app/bot/formatters/packages.go
package formatters

import (
	"fmt"
	"strings"
	"time"

	"mr-trader-bot/internal/core/domain/packages"
	"mr-trader-bot/internal/core/domain/subscription"
)

var tierIcons = map[packages.Tier]string{
	packages.TierFree:    "🆓",
	packages.TierBasic:   "📱",
	packages.TierPremium: "🚀",
	packages.TierVIP:     "👑",
	packages.TierGhost:   "👻",
}

// TierIcon иконка уровня
func TierIcon(tier packages.Tier) string {
	if icon, ok := tierIcons[tier]; ok {
		return icon
	}
	return "💎"
}

// FormatCatalog список активных пакетов с ценами
func FormatCatalog(list []packages.Package, now time.Time) string {
	var b strings.Builder
	b.WriteString("💎 <b>Пакеты подписки</b>\n\n")

	for _, p := range list {
		b.WriteString(FormatPackage(p, now))
		b.WriteString("\n")
	}
	b.WriteString("Выберите пакет кнопкой ниже или командой <code>/buy &lt;пакет&gt;</code>")
	return b.String()
}

// FormatPackage карточка пакета
func FormatPackage(p packages.Package, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s <b>%s</b>", TierIcon(p.Tier), Escape(p.Title))
	if p.IsFeatured {
		b.WriteString(" 🔥")
	}
	b.WriteString("\n")
	if p.Description != "" {
		fmt.Fprintf(&b, "<i>%s</i>\n", Escape(p.Description))
	}
	fmt.Fprintf(&b, "• Запросов сигналов в день: %d\n", p.Features.DailyRequestLimit)
	if len(p.Features.Strategies) > 0 {
		fmt.Fprintf(&b, "• Стратегии: %s\n", Escape(strings.Join(p.Features.Strategies, ", ")))
	}

	if p.IsFree() {
		b.WriteString("• Бесплатно\n")
		return b.String()
	}

	for _, d := range packages.AllDurations() {
		if !p.Pricing.IsOffered(d) {
			continue
		}
		base := p.Pricing.BasePrice(d)
		effective := p.Price(d, now)
		if effective.LessThan(base) {
			fmt.Fprintf(&b, "• %s: <s>%s</s> %s\n", d.Title(), USD(base), USD(effective))
		} else {
			fmt.Fprintf(&b, "• %s: %s\n", d.Title(), USD(effective))
		}
	}
	if p.Pricing.PromotionActive(now) {
		fmt.Fprintf(&b, "🎁 Акция до %s\n", Date(*p.Pricing.PromotionalExpiry))
	} else if p.Pricing.DiscountPercentage.IsPositive() {
		fmt.Fprintf(&b, "🏷 Скидка %s%%\n", p.Pricing.DiscountPercentage.String())
	}
	return b.String()
}

var quoteTitles = map[subscription.QuoteKind]string{
	subscription.KindPurchase: "🛒 Покупка",
	subscription.KindUpgrade:  "⬆️ Повышение уровня",
	subscription.KindRenewal:  "🔄 Продление",
	subscription.KindGrant:    "🎁 Выдача",
}

// FormatQuote расчет стоимости
func FormatQuote(q subscription.Quote) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: <b>%s</b>, %s\n", quoteTitles[q.Kind], q.To.Title(), q.Duration.Title())
	if q.Kind == subscription.KindUpgrade {
		fmt.Fprintf(&b, "С уровня %s, осталось дней: %d\n", q.From.Title(), q.RemainingDays)
	}
	fmt.Fprintf(&b, "💰 К оплате: <b>%s</b>\n", USD(q.Amount))
	fmt.Fprintf(&b, "📅 Действует до: %s\n", Date(q.ExpiresAt))
	return b.String()
}

// FormatStatus текущая подписка пользователя
func FormatStatus(pkg packages.Package, sub *subscription.UserSubscription, now time.Time) string {
	var b strings.Builder
	b.WriteString("📊 <b>Моя подписка</b>\n\n")
	fmt.Fprintf(&b, "%s Пакет: <b>%s</b>\n", TierIcon(pkg.Tier), Escape(pkg.Title))
	fmt.Fprintf(&b, "📈 Запросов сигналов в день: %d\n", pkg.Features.DailyRequestLimit)

	if sub == nil {
		b.WriteString("\nУ вас нет платной подписки. Смотрите /packages")
		return b.String()
	}

	fmt.Fprintf(&b, "⏱ Длительность: %s\n", sub.Duration.Title())
	if sub.Duration == packages.DurationLifetime {
		b.WriteString("♾ Бессрочно\n")
	} else {
		fmt.Fprintf(&b, "📅 Действует до: %s (дней: %d)\n",
			Date(sub.ExpiresAt), packages.RemainingDays(sub.ExpiresAt, now))
	}
	return b.String()
}

// FormatExpiryReminder напоминание об окончании подписки
func FormatExpiryReminder(sub subscription.UserSubscription, now time.Time) string {
	return fmt.Sprintf("⏰ Подписка <b>%s</b> заканчивается %s (дней: %d).\nПродлить: <code>/buy %s</code>",
		sub.Tier.Title(), Date(sub.ExpiresAt), packages.RemainingDays(sub.ExpiresAt, now), sub.Tier)
}
