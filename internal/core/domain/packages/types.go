// internal/core/domain/packages/types.go
package packages

import (
	"fmt"
	"strings"
)

// Tier уровень пакета подписки
type Tier string

const (
	TierFree    Tier = "free"
	TierBasic   Tier = "basic"
	TierPremium Tier = "premium"
	TierVIP     Tier = "vip"
	TierGhost   Tier = "ghost"
)

var tierLevels = map[Tier]int{
	TierFree:    0,
	TierBasic:   1,
	TierPremium: 2,
	TierVIP:     3,
	TierGhost:   4,
}

// AllTiers возвращает уровни в порядке возрастания
func AllTiers() []Tier {
	return []Tier{TierFree, TierBasic, TierPremium, TierVIP, TierGhost}
}

// Level возвращает числовой уровень (0-4), -1 для неизвестного уровня
func (t Tier) Level() int {
	if level, ok := tierLevels[t]; ok {
		return level
	}
	return -1
}

// IsValid проверяет, что уровень известен
func (t Tier) IsValid() bool {
	_, ok := tierLevels[t]
	return ok
}

// Title отображаемое имя уровня
func (t Tier) Title() string {
	switch t {
	case TierFree:
		return "Free"
	case TierBasic:
		return "Basic"
	case TierPremium:
		return "Premium"
	case TierVIP:
		return "VIP"
	case TierGhost:
		return "Ghost"
	default:
		return string(t)
	}
}

// ParseTier разбирает уровень из пользовательского ввода
func ParseTier(s string) (Tier, error) {
	tier := Tier(strings.ToLower(strings.TrimSpace(s)))
	if !tier.IsValid() {
		return "", fmt.Errorf("неизвестный уровень пакета: %q", s)
	}
	return tier, nil
}

// Duration длительность подписки
type Duration string

const (
	DurationMonthly   Duration = "monthly"
	DurationQuarterly Duration = "quarterly"
	DurationYearly    Duration = "yearly"
	DurationLifetime  Duration = "lifetime"
)

// LifetimeDays пожизненная подписка моделируется как 100 лет
const LifetimeDays = 36500

var durationDays = map[Duration]int{
	DurationMonthly:   30,
	DurationQuarterly: 90,
	DurationYearly:    365,
	DurationLifetime:  LifetimeDays,
}

// AllDurations возвращает длительности в порядке возрастания
func AllDurations() []Duration {
	return []Duration{DurationMonthly, DurationQuarterly, DurationYearly, DurationLifetime}
}

// Days количество дней, 0 для неизвестной длительности
func (d Duration) Days() int {
	return durationDays[d]
}

// IsValid проверяет, что длительность известна
func (d Duration) IsValid() bool {
	_, ok := durationDays[d]
	return ok
}

// Title отображаемое имя длительности
func (d Duration) Title() string {
	switch d {
	case DurationMonthly:
		return "1 month"
	case DurationQuarterly:
		return "3 months"
	case DurationYearly:
		return "1 year"
	case DurationLifetime:
		return "Lifetime"
	default:
		return string(d)
	}
}

// ParseDuration разбирает длительность, допускает короткие формы (1m, 3m, 1y)
func ParseDuration(s string) (Duration, error) {
	value := strings.ToLower(strings.TrimSpace(s))
	switch value {
	case "1m", "month":
		value = string(DurationMonthly)
	case "3m", "quarter":
		value = string(DurationQuarterly)
	case "1y", "12m", "year":
		value = string(DurationYearly)
	case "life", "forever":
		value = string(DurationLifetime)
	}

	duration := Duration(value)
	if !duration.IsValid() {
		return "", fmt.Errorf("неизвестная длительность подписки: %q", s)
	}
	return duration, nil
}
