// internal/infrastructure/persistence/postgres/models/subscription.go
package models

import (
	"database/sql"
	"time"

	"mr-trader-bot/internal/core/domain/packages"
	"mr-trader-bot/internal/core/domain/subscription"

	"github.com/shopspring/decimal"
)

// Subscription строка таблицы subscriptions
type Subscription struct {
	ID         int64           `db:"id"`
	UserID     int64           `db:"user_id"`
	Tier       string          `db:"tier"`
	Duration   string          `db:"duration"`
	Status     string          `db:"status"`
	StartedAt  time.Time       `db:"started_at"`
	ExpiresAt  time.Time       `db:"expires_at"`
	PaymentID  string          `db:"payment_id"`
	AmountPaid decimal.Decimal `db:"amount_paid"`
	GrantedBy  sql.NullInt64   `db:"granted_by"`
	CreatedAt  time.Time       `db:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at"`
}

// NewSubscription модель из доменной подписки
func NewSubscription(s *subscription.UserSubscription) Subscription {
	m := Subscription{
		ID:         s.ID,
		UserID:     s.UserID,
		Tier:       string(s.Tier),
		Duration:   string(s.Duration),
		Status:     string(s.Status),
		StartedAt:  s.StartedAt,
		ExpiresAt:  s.ExpiresAt,
		PaymentID:  s.PaymentID,
		AmountPaid: s.AmountPaid,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
	if s.GrantedBy != nil {
		m.GrantedBy = sql.NullInt64{Int64: *s.GrantedBy, Valid: true}
	}
	return m
}

// ToDomain доменная подписка
func (m Subscription) ToDomain() *subscription.UserSubscription {
	s := &subscription.UserSubscription{
		ID:         m.ID,
		UserID:     m.UserID,
		Tier:       packages.Tier(m.Tier),
		Duration:   packages.Duration(m.Duration),
		Status:     subscription.Status(m.Status),
		StartedAt:  m.StartedAt,
		ExpiresAt:  m.ExpiresAt,
		PaymentID:  m.PaymentID,
		AmountPaid: m.AmountPaid,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
	if m.GrantedBy.Valid {
		by := m.GrantedBy.Int64
		s.GrantedBy = &by
	}
	return s
}
