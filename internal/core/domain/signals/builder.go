// internal/core/domain/signals/builder.go
package signals

import (
	"time"

	"github.com/google/uuid"
)

// Builder собирает сигнал. Производные поля вычисляются только в Build.
type Builder struct {
	signal Signal
}

// NewBuilder создает сборщик с обязательными полями сигнала
func NewBuilder(symbol, currency string, signalType Type, timeframe Timeframe, currentPrice float64, strength Strength, confidence float64) *Builder {
	return &Builder{signal: Signal{
		Symbol:       symbol,
		Currency:     currency,
		Type:         signalType,
		Timeframe:    timeframe,
		CurrentPrice: currentPrice,
		Strength:     strength,
		Confidence:   confidence,
		Trend:        TrendSideways,
	}}
}

// WithID задает идентификатор (по умолчанию генерируется UUID)
func (b *Builder) WithID(id string) *Builder {
	b.signal.ID = id
	return b
}

// WithEntryPrice задает цену входа
func (b *Builder) WithEntryPrice(price float64) *Builder {
	b.signal.EntryPrice = price
	return b
}

// WithTargets задает цель и стоп-лосс
func (b *Builder) WithTargets(target, stopLoss float64) *Builder {
	b.signal.TargetPrice = target
	b.signal.StopLoss = stopLoss
	return b
}

// WithTrend задает направление тренда
func (b *Builder) WithTrend(trend Trend) *Builder {
	b.signal.Trend = trend
	return b
}

// WithStrategy задает стратегию, которой получен сигнал
func (b *Builder) WithStrategy(strategy string) *Builder {
	b.signal.Strategy = strategy
	return b
}

// WithCreatedAt задает время создания
func (b *Builder) WithCreatedAt(t time.Time) *Builder {
	b.signal.CreatedAt = t
	return b
}

// ExpiresAt задает срок действия
func (b *Builder) ExpiresAt(t time.Time) *Builder {
	b.signal.ExpiresAt = &t
	return b
}

// AddIndicator добавляет показание индикатора в конец списка
func (b *Builder) AddIndicator(ind Indicator) *Builder {
	b.signal.Indicators = append(b.signal.Indicators, ind)
	return b
}

// Build возвращает готовый сигнал с вычисленными производными полями
func (b *Builder) Build() Signal {
	s := b.signal
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return finalize(s)
}

// Restore пересчитывает производные поля сигнала, загруженного из хранилища
func Restore(s Signal) Signal {
	return finalize(s)
}

// Reassess возвращает копию сигнала с новыми силой, уверенностью и таймфреймом
func (s Signal) Reassess(strength Strength, confidence float64, timeframe Timeframe) Signal {
	s.Strength = strength
	s.Confidence = confidence
	s.Timeframe = timeframe
	return finalize(s)
}

func finalize(s Signal) Signal {
	if s.EntryPrice == 0 {
		s.EntryPrice = s.CurrentPrice
	}
	if s.ExpiresAt != nil {
		expires := *s.ExpiresAt
		s.ExpiresAt = &expires
	}
	s.Indicators = append([]Indicator(nil), s.Indicators...)
	s.RiskLevel = CalculateRiskLevel(s.Strength, s.Confidence, s.Timeframe)
	return s
}
