// internal/core/domain/signals/types.go
package signals

import (
	"fmt"
	"strings"
	"time"
)

// Type направление сигнала
type Type string

const (
	TypeStrongBuy  Type = "strong_buy"
	TypeBuy        Type = "buy"
	TypeHold       Type = "hold"
	TypeSell       Type = "sell"
	TypeStrongSell Type = "strong_sell"
)

var typeValues = map[Type]float64{
	TypeStrongBuy:  2.0,
	TypeBuy:        1.0,
	TypeHold:       0.0,
	TypeSell:       -1.0,
	TypeStrongSell: -2.0,
}

// Value числовое значение направления
func (t Type) Value() (float64, bool) {
	v, ok := typeValues[t]
	return v, ok
}

// ParseType разбирает направление сигнала
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := typeValues[t]; !ok {
		return "", fmt.Errorf("неизвестный тип сигнала: %q", s)
	}
	return t, nil
}

// Strength сила сигнала
type Strength string

const (
	StrengthVeryWeak   Strength = "very_weak"
	StrengthWeak       Strength = "weak"
	StrengthNeutral    Strength = "neutral"
	StrengthStrong     Strength = "strong"
	StrengthVeryStrong Strength = "very_strong"
)

// Слабый сигнал дает больше очков риска
var strengthRisk = map[Strength]int{
	StrengthVeryWeak:   5,
	StrengthWeak:       4,
	StrengthNeutral:    3,
	StrengthStrong:     2,
	StrengthVeryStrong: 1,
}

var strengthMultipliers = map[Strength]float64{
	StrengthVeryStrong: 1.5,
	StrengthStrong:     1.2,
	StrengthNeutral:    1.0,
	StrengthWeak:       0.8,
	StrengthVeryWeak:   0.5,
}

// Multiplier множитель силы для расчета оценки
func (s Strength) Multiplier() (float64, bool) {
	m, ok := strengthMultipliers[s]
	return m, ok
}

// ParseStrength разбирает силу сигнала
func ParseStrength(s string) (Strength, error) {
	strength := Strength(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := strengthRisk[strength]; !ok {
		return "", fmt.Errorf("неизвестная сила сигнала: %q", s)
	}
	return strength, nil
}

// Timeframe таймфрейм сигнала
type Timeframe string

const (
	Timeframe1m  Timeframe = "1m"
	Timeframe5m  Timeframe = "5m"
	Timeframe15m Timeframe = "15m"
	Timeframe30m Timeframe = "30m"
	Timeframe1h  Timeframe = "1h"
	Timeframe4h  Timeframe = "4h"
	Timeframe1d  Timeframe = "1d"
	Timeframe1w  Timeframe = "1w"
	Timeframe1M  Timeframe = "1M"
)

// Короткий горизонт дает больше очков риска
var timeframeRisk = map[Timeframe]int{
	Timeframe1m:  3,
	Timeframe5m:  3,
	Timeframe15m: 2,
	Timeframe30m: 2,
	Timeframe1h:  1,
	Timeframe4h:  1,
	Timeframe1d:  0,
	Timeframe1w:  0,
	Timeframe1M:  0,
}

// ParseTimeframe разбирает таймфрейм, регистр значим (1m и 1M разные)
func ParseTimeframe(s string) (Timeframe, error) {
	tf := Timeframe(strings.TrimSpace(s))
	if _, ok := timeframeRisk[tf]; !ok {
		return "", fmt.Errorf("неизвестный таймфрейм: %q", s)
	}
	return tf, nil
}

// RiskLevel уровень риска
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskVeryHigh RiskLevel = "very_high"
)

// Trend направление тренда
type Trend string

const (
	TrendBullish  Trend = "bullish"
	TrendBearish  Trend = "bearish"
	TrendSideways Trend = "sideways"
)

// Indicator показание индикатора, из которого собран сигнал
type Indicator struct {
	Name       string  `json:"name"`
	Value      float64 `json:"value"`
	Signal     Type    `json:"signal"`
	Confidence float64 `json:"confidence"`
}

// Signal торговый сигнал. RiskLevel вычисляется при сборке и не задается вручную.
type Signal struct {
	ID           string      `json:"id"`
	Symbol       string      `json:"symbol"`
	Currency     string      `json:"currency"`
	Type         Type        `json:"signal_type"`
	Timeframe    Timeframe   `json:"timeframe"`
	CurrentPrice float64     `json:"current_price"`
	EntryPrice   float64     `json:"entry_price"`
	TargetPrice  float64     `json:"target_price,omitempty"`
	StopLoss     float64     `json:"stop_loss,omitempty"`
	Strength     Strength    `json:"strength"`
	Confidence   float64     `json:"confidence"` // 0-1
	Trend        Trend       `json:"trend_direction"`
	Indicators   []Indicator `json:"indicators"`
	Strategy     string      `json:"strategy"`
	RiskLevel    RiskLevel   `json:"risk_level"`
	CreatedAt    time.Time   `json:"created_at"`
	ExpiresAt    *time.Time  `json:"expires_at,omitempty"`
}

// Pair торговая пара, например BTC/USDT
func (s Signal) Pair() string {
	if s.Currency == "" {
		return s.Symbol
	}
	return s.Symbol + "/" + s.Currency
}
