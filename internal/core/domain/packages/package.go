// internal/core/domain/packages/package.go
package packages

import (
	"time"

	"github.com/shopspring/decimal"
)

// Стратегии сигналов
const (
	StrategyRSI               = "rsi"
	StrategyMovingAverage     = "moving_average"
	StrategyMACD              = "macd"
	StrategyBollinger         = "bollinger_bands"
	StrategyVolumeProfile     = "volume_profile"
	StrategyIchimoku          = "ichimoku"
	StrategyFibonacci         = "fibonacci"
	StrategySupportResistance = "support_resistance"
	StrategySmartMoney        = "smart_money"
	StrategyMultiTimeframe    = "multi_timeframe"
)

// UnlimitedRequests условно безлимитный лимит уровня Ghost
const UnlimitedRequests = 9999

var defaultRequestLimits = map[Tier]int{
	TierFree:    5,
	TierBasic:   50,
	TierPremium: 200,
	TierVIP:     500,
	TierGhost:   UnlimitedRequests,
}

var defaultStrategies = map[Tier][]string{
	TierFree: {StrategyRSI},
	TierBasic: {
		StrategyRSI, StrategyMovingAverage, StrategyMACD,
	},
	TierPremium: {
		StrategyRSI, StrategyMovingAverage, StrategyMACD,
		StrategyBollinger, StrategyVolumeProfile,
	},
	TierVIP: {
		StrategyRSI, StrategyMovingAverage, StrategyMACD,
		StrategyBollinger, StrategyVolumeProfile,
		StrategyIchimoku, StrategyFibonacci, StrategySupportResistance,
	},
	TierGhost: {
		StrategyRSI, StrategyMovingAverage, StrategyMACD,
		StrategyBollinger, StrategyVolumeProfile,
		StrategyIchimoku, StrategyFibonacci, StrategySupportResistance,
		StrategySmartMoney, StrategyMultiTimeframe,
	},
}

// DefaultRequestLimit дневной лимит запросов уровня по умолчанию
func DefaultRequestLimit(tier Tier) int {
	return defaultRequestLimits[tier]
}

// DefaultStrategies копия списка стратегий уровня по умолчанию
func DefaultStrategies(tier Tier) []string {
	return append([]string(nil), defaultStrategies[tier]...)
}

// Features возможности пакета
type Features struct {
	DailyRequestLimit int      `json:"daily_request_limit"`
	Strategies        []string `json:"strategies"`
}

// HasStrategy проверяет, включена ли стратегия
func (f Features) HasStrategy(strategy string) bool {
	for _, s := range f.Strategies {
		if s == strategy {
			return true
		}
	}
	return false
}

// Package пакет подписки
type Package struct {
	ID          int      `json:"id"`
	Tier        Tier     `json:"tier"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Features    Features `json:"features"`
	Pricing     Pricing  `json:"pricing"`
	IsActive    bool     `json:"is_active"`
	IsFeatured  bool     `json:"is_featured"`
	SortOrder   int      `json:"sort_order"`
}

// NewPackage возвращает пакет с заполненными по уровню возможностями,
// если они не были заданы явно
func NewPackage(p Package) Package {
	if p.Features.DailyRequestLimit == 0 {
		p.Features.DailyRequestLimit = DefaultRequestLimit(p.Tier)
	}
	if p.Features.Strategies == nil {
		p.Features.Strategies = DefaultStrategies(p.Tier)
	} else {
		p.Features.Strategies = append([]string(nil), p.Features.Strategies...)
	}
	if p.Title == "" {
		p.Title = p.Tier.Title()
	}
	if p.SortOrder == 0 {
		p.SortOrder = p.Tier.Level() + 1
	}
	return p
}

// Level уровень пакета
func (p Package) Level() int {
	return p.Tier.Level()
}

// Price эффективная цена пакета для длительности
func (p Package) Price(duration Duration, now time.Time) decimal.Decimal {
	return EffectivePrice(p.Pricing, duration, now)
}

// IsFree бесплатный ли уровень
func (p Package) IsFree() bool {
	return p.Tier == TierFree
}

// CanUpgrade переход возможен только на строго более высокий уровень
func CanUpgrade(from, to Package) bool {
	return to.Level() > from.Level()
}

// CalculateUpgradePrice доплата за переход на более высокий уровень
// пропорционально оставшимся дням. Ноль, если переход невозможен;
// отрицательная разница не возвращается.
func CalculateUpgradePrice(from, to Package, duration Duration, remainingDays int, now time.Time) decimal.Decimal {
	if !CanUpgrade(from, to) {
		return decimal.Zero
	}

	totalDays := DurationDays(duration)
	if totalDays <= 0 || remainingDays <= 0 {
		return decimal.Zero
	}

	newPrice := EffectivePrice(to.Pricing, duration, now)
	currentPrice := EffectivePrice(from.Pricing, duration, now)

	dailyDiff := newPrice.Sub(currentPrice).Div(decimal.NewFromInt(int64(totalDays)))
	result := dailyDiff.Mul(decimal.NewFromInt(int64(remainingDays))).Round(priceScale)
	if result.IsNegative() {
		return decimal.Zero
	}
	return result
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// DefaultCatalog статический каталог из пяти пакетов
func DefaultCatalog() []Package {
	return []Package{
		NewPackage(Package{
			ID:          1,
			Tier:        TierFree,
			Description: "RSI signals with a small daily quota",
			IsActive:    true,
		}),
		NewPackage(Package{
			ID:          2,
			Tier:        TierBasic,
			Description: "Trend-following strategies for regular traders",
			Pricing: Pricing{
				Monthly:   price("19.99"),
				Quarterly: price("54.99"),
				Yearly:    price("199.99"),
			},
			IsActive: true,
		}),
		NewPackage(Package{
			ID:          3,
			Tier:        TierPremium,
			Description: "Volatility and volume strategies",
			Pricing: Pricing{
				Monthly:   price("49.99"),
				Quarterly: price("134.99"),
				Yearly:    price("499.99"),
			},
			IsActive:   true,
			IsFeatured: true,
		}),
		NewPackage(Package{
			ID:          4,
			Tier:        TierVIP,
			Description: "Advanced technical analysis with priority signals",
			Pricing: Pricing{
				Monthly:   price("79.99"),
				Quarterly: price("215.99"),
				Yearly:    price("799.99"),
				Lifetime:  price("1999.99"),
			},
			IsActive: true,
		}),
		NewPackage(Package{
			ID:          5,
			Tier:        TierGhost,
			Description: "Every strategy, effectively unlimited requests",
			Pricing: Pricing{
				Monthly:   price("199.99"),
				Quarterly: price("539.99"),
				Yearly:    price("1999.99"),
				Lifetime:  price("4999.99"),
			},
			IsActive: true,
		}),
	}
}
