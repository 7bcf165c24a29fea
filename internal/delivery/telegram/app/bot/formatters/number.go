// internal/delivery/telegram/app/bot/formatters/number.go
package formatters

import (
	"fmt"
	"html"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// USD форматирует сумму в долларах
func USD(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}

// Price форматирует цену актива с точностью по величине
func Price(price float64) string {
	abs := math.Abs(price)
	switch {
	case abs >= 1000:
		return fmt.Sprintf("%.2f", price)
	case abs >= 1:
		return fmt.Sprintf("%.4f", price)
	case abs == 0:
		return "0"
	default:
		return strings.TrimRight(fmt.Sprintf("%.8f", price), "0")
	}
}

// Percent форматирует долю 0-1 как проценты
func Percent(ratio float64) string {
	return fmt.Sprintf("%.0f%%", ratio*100)
}

// Date дата в UTC
func Date(t time.Time) string {
	return t.UTC().Format("02.01.2006")
}

// DateTime дата и время в UTC
func DateTime(t time.Time) string {
	return t.UTC().Format("02.01.2006 15:04 UTC")
}

// Escape экранирует текст для HTML-разметки Telegram
func Escape(s string) string {
	return html.EscapeString(s)
}
