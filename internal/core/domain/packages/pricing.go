// internal/core/domain/packages/pricing.go
package packages

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Все денежные значения округляются до центов
const priceScale = 2

var hundred = decimal.NewFromInt(100)

// Pricing таблица цен уровня
type Pricing struct {
	Monthly            decimal.Decimal `json:"monthly"`
	Quarterly          decimal.Decimal `json:"quarterly"`
	Yearly             decimal.Decimal `json:"yearly"`
	Lifetime           decimal.Decimal `json:"lifetime"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"` // 0-100

	// Промо-цена действует только вместе с датой окончания
	PromotionalPrice  *decimal.Decimal `json:"promotional_price,omitempty"`
	PromotionalExpiry *time.Time       `json:"promotional_expiry,omitempty"`
}

// BasePrice базовая цена для длительности, ноль если длительность не предлагается
func (p Pricing) BasePrice(duration Duration) decimal.Decimal {
	switch duration {
	case DurationMonthly:
		return p.Monthly
	case DurationQuarterly:
		return p.Quarterly
	case DurationYearly:
		return p.Yearly
	case DurationLifetime:
		return p.Lifetime
	default:
		return decimal.Zero
	}
}

// IsOffered проверяет, что для длительности задана положительная базовая цена
func (p Pricing) IsOffered(duration Duration) bool {
	return p.BasePrice(duration).IsPositive()
}

// PromotionActive проверяет, действует ли промо-цена на момент now
func (p Pricing) PromotionActive(now time.Time) bool {
	return p.PromotionalPrice != nil &&
		p.PromotionalExpiry != nil &&
		now.Before(*p.PromotionalExpiry)
}

// EffectivePrice цена, которую фактически платит пользователь.
// Активная промо-цена заменяет базовую цену полностью, скидка в этом случае не применяется.
func EffectivePrice(pricing Pricing, duration Duration, now time.Time) decimal.Decimal {
	if pricing.PromotionActive(now) {
		return pricing.PromotionalPrice.Round(priceScale)
	}

	base := pricing.BasePrice(duration)
	if pricing.DiscountPercentage.IsPositive() {
		factor := decimal.NewFromInt(1).Sub(pricing.DiscountPercentage.Div(hundred))
		return base.Mul(factor).Round(priceScale)
	}

	return base.Round(priceScale)
}

// DurationDays количество дней в длительности
func DurationDays(duration Duration) int {
	return duration.Days()
}

// CalculateExpiry дата окончания: start плюс календарные дни длительности.
// Вычисление идет в часовом поясе start.
func CalculateExpiry(start time.Time, duration Duration) time.Time {
	return start.AddDate(0, 0, DurationDays(duration))
}

// RemainingDays оставшиеся дни до expiry, неполный день считается целым
func RemainingDays(expiry, now time.Time) int {
	if !expiry.After(now) {
		return 0
	}
	return int(math.Ceil(expiry.Sub(now).Hours() / 24))
}
