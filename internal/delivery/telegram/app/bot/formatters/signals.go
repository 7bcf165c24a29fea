// internal/delivery/telegram/app/bot/formatters/signals.go
package formatters

import (
	"fmt"
	"strings"
	"time"

	"mr-trader-bot/internal/core/domain/signal_feed"
	"mr-trader-bot/internal/core/domain/signals"
)

var typeIcons = map[signals.Type]string{
	signals.TypeStrongBuy:  "🟢🟢",
	signals.TypeBuy:        "🟢",
	signals.TypeHold:       "⚪",
	signals.TypeSell:       "🔴",
	signals.TypeStrongSell: "🔴🔴",
}

var riskIcons = map[signals.RiskLevel]string{
	signals.RiskLow:      "🟢",
	signals.RiskMedium:   "🟡",
	signals.RiskHigh:     "🟠",
	signals.RiskVeryHigh: "🔴",
}

// FormatSignal карточка сигнала
func FormatSignal(s signals.Signal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s <b>%s</b> %s · %s\n", typeIcons[s.Type], Escape(s.Pair()),
		strings.ToUpper(strings.ReplaceAll(string(s.Type), "_", " ")), s.Timeframe)
	fmt.Fprintf(&b, "💰 Цена: %s", Price(s.CurrentPrice))
	if s.EntryPrice > 0 && s.EntryPrice != s.CurrentPrice {
		fmt.Fprintf(&b, " · вход %s", Price(s.EntryPrice))
	}
	b.WriteString("\n")
	if s.TargetPrice > 0 || s.StopLoss > 0 {
		fmt.Fprintf(&b, "🎯 Цель: %s · 🛑 Стоп: %s\n", Price(s.TargetPrice), Price(s.StopLoss))
	}
	fmt.Fprintf(&b, "💪 %s · уверенность %s · %s риск %s\n",
		s.Strength, Percent(s.Confidence), riskIcons[s.RiskLevel], s.RiskLevel)
	if s.Strategy != "" {
		fmt.Fprintf(&b, "🧠 Стратегия: %s\n", Escape(s.Strategy))
	}
	return b.String()
}

// FormatFeed выдача сигналов с остатком дневного лимита
func FormatFeed(feed *signal_feed.Feed, now time.Time) string {
	var b strings.Builder
	b.WriteString("📈 <b>Лучшие сигналы</b>\n\n")

	if len(feed.Signals) == 0 {
		b.WriteString("Сейчас нет актуальных сигналов для вашего пакета.\n")
	}
	for i, s := range feed.Signals {
		fmt.Fprintf(&b, "%d. ", i+1)
		b.WriteString(FormatSignal(s))
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "📊 Запросов сегодня: %d/%d", minInt(feed.Used, feed.Limit), feed.Limit)
	if feed.Remaining() == 0 {
		fmt.Fprintf(&b, "\n⏳ Лимит обновится через %s", until(feed.ResetAt, now))
	}
	return b.String()
}

// FormatQuotaExceeded лимит исчерпан
func FormatQuotaExceeded(feed *signal_feed.Feed, now time.Time) string {
	msg := "⏳ Дневной лимит запросов сигналов исчерпан."
	if feed != nil && !feed.ResetAt.IsZero() {
		msg += fmt.Sprintf("\nЛимит обновится через %s.", until(feed.ResetAt, now))
	}
	return msg + "\nБольше запросов в старших пакетах: /packages"
}

func until(t, now time.Time) string {
	d := t.Sub(now).Round(time.Minute)
	if d < time.Minute {
		return "минуту"
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	if hours == 0 {
		return fmt.Sprintf("%d мин", minutes)
	}
	return fmt.Sprintf("%d ч %d мин", hours, minutes)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
