// internal/infrastructure/persistence/postgres/models/signal.go
package models

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"mr-trader-bot/internal/core/domain/signals"
)

// Indicators показания индикаторов в колонке JSONB
type Indicators []signals.Indicator

// Value сериализует индикаторы в JSON
func (i Indicators) Value() (driver.Value, error) {
	if i == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(i)
}

// Scan читает индикаторы из JSONB
func (i *Indicators) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*i = nil
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported indicators type %T", src)
	}
	return json.Unmarshal(data, i)
}

// Signal строка таблицы signals
type Signal struct {
	ID           string       `db:"id"`
	Symbol       string       `db:"symbol"`
	Currency     string       `db:"currency"`
	Type         string       `db:"signal_type"`
	Timeframe    string       `db:"timeframe"`
	CurrentPrice float64      `db:"current_price"`
	EntryPrice   float64      `db:"entry_price"`
	TargetPrice  float64      `db:"target_price"`
	StopLoss     float64      `db:"stop_loss"`
	Strength     string       `db:"strength"`
	Confidence   float64      `db:"confidence"`
	Trend        string       `db:"trend"`
	Indicators   Indicators   `db:"indicators"`
	Strategy     string       `db:"strategy"`
	RiskLevel    string       `db:"risk_level"`
	CreatedAt    time.Time    `db:"created_at"`
	ExpiresAt    sql.NullTime `db:"expires_at"`
}

// NewSignal модель из доменного сигнала
func NewSignal(s signals.Signal) Signal {
	m := Signal{
		ID:           s.ID,
		Symbol:       s.Symbol,
		Currency:     s.Currency,
		Type:         string(s.Type),
		Timeframe:    string(s.Timeframe),
		CurrentPrice: s.CurrentPrice,
		EntryPrice:   s.EntryPrice,
		TargetPrice:  s.TargetPrice,
		StopLoss:     s.StopLoss,
		Strength:     string(s.Strength),
		Confidence:   s.Confidence,
		Trend:        string(s.Trend),
		Indicators:   Indicators(s.Indicators),
		Strategy:     s.Strategy,
		RiskLevel:    string(s.RiskLevel),
		CreatedAt:    s.CreatedAt,
	}
	if s.ExpiresAt != nil {
		m.ExpiresAt = sql.NullTime{Time: *s.ExpiresAt, Valid: true}
	}
	return m
}

// ToDomain доменный сигнал с пересчитанным уровнем риска
func (m Signal) ToDomain() signals.Signal {
	s := signals.Signal{
		ID:           m.ID,
		Symbol:       m.Symbol,
		Currency:     m.Currency,
		Type:         signals.Type(m.Type),
		Timeframe:    signals.Timeframe(m.Timeframe),
		CurrentPrice: m.CurrentPrice,
		EntryPrice:   m.EntryPrice,
		TargetPrice:  m.TargetPrice,
		StopLoss:     m.StopLoss,
		Strength:     signals.Strength(m.Strength),
		Confidence:   m.Confidence,
		Trend:        signals.Trend(m.Trend),
		Indicators:   []signals.Indicator(m.Indicators),
		Strategy:     m.Strategy,
		CreatedAt:    m.CreatedAt,
	}
	if m.ExpiresAt.Valid {
		expires := m.ExpiresAt.Time
		s.ExpiresAt = &expires
	}
	return signals.Restore(s)
}
