// internal/infrastructure/persistence/postgres/models/payment.go
package models

import (
	"database/sql"
	"time"

	"mr-trader-bot/internal/core/domain/packages"
	"mr-trader-bot/internal/core/domain/payment"
	"mr-trader-bot/internal/core/domain/subscription"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment строка таблицы payments
type Payment struct {
	ID          uuid.UUID       `db:"id"`
	UserID      int64           `db:"user_id"`
	ChatID      int64           `db:"chat_id"`
	Method      string          `db:"method"`
	Status      string          `db:"status"`
	QuoteKind   string          `db:"quote_kind"`
	Tier        string          `db:"tier"`
	Duration    string          `db:"duration"`
	AmountUSD   decimal.Decimal `db:"amount_usd"`
	AmountStars int             `db:"amount_stars"`
	Payload     string          `db:"payload"`
	Reference   string          `db:"reference"`
	ChargeID    string          `db:"charge_id"`
	ReviewedBy  sql.NullInt64   `db:"reviewed_by"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

// NewPayment модель из доменного платежа
func NewPayment(p *payment.Payment) Payment {
	m := Payment{
		ID:          p.ID,
		UserID:      p.UserID,
		ChatID:      p.ChatID,
		Method:      string(p.Method),
		Status:      string(p.Status),
		QuoteKind:   string(p.QuoteKind),
		Tier:        string(p.Tier),
		Duration:    string(p.Duration),
		AmountUSD:   p.AmountUSD,
		AmountStars: p.AmountStars,
		Payload:     p.Payload,
		Reference:   p.Reference,
		ChargeID:    p.ChargeID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.ReviewedBy != nil {
		m.ReviewedBy = sql.NullInt64{Int64: *p.ReviewedBy, Valid: true}
	}
	return m
}

// ToDomain доменный платеж
func (m Payment) ToDomain() *payment.Payment {
	p := &payment.Payment{
		ID:          m.ID,
		UserID:      m.UserID,
		ChatID:      m.ChatID,
		Method:      payment.Method(m.Method),
		Status:      payment.Status(m.Status),
		QuoteKind:   subscription.QuoteKind(m.QuoteKind),
		Tier:        packages.Tier(m.Tier),
		Duration:    packages.Duration(m.Duration),
		AmountUSD:   m.AmountUSD,
		AmountStars: m.AmountStars,
		Payload:     m.Payload,
		Reference:   m.Reference,
		ChargeID:    m.ChargeID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.ReviewedBy.Valid {
		by := m.ReviewedBy.Int64
		p.ReviewedBy = &by
	}
	return p
}
