// internal/core/domain/subscription/types.go
package subscription

import (
	"context"
	"errors"
	"time"

	"mr-trader-bot/internal/core/domain/packages"

	"github.com/shopspring/decimal"
)

// Ошибки подписок
var (
	ErrNotFound            = errors.New("subscription not found")
	ErrDowngrade           = errors.New("downgrade is not allowed")
	ErrFreeTier            = errors.New("free tier cannot be purchased")
	ErrDurationUnavailable = errors.New("duration is not offered for this package")
	ErrPackageUnavailable  = errors.New("package is not available")
	ErrStaleQuote          = errors.New("quote no longer matches the current subscription")
)

// Status состояние подписки
type Status string

const (
	StatusActive   Status = "active"
	StatusExpired  Status = "expired"
	StatusCanceled Status = "canceled"
)

// QuoteKind вид операции
type QuoteKind string

const (
	KindPurchase QuoteKind = "purchase"
	KindUpgrade  QuoteKind = "upgrade"
	KindRenewal  QuoteKind = "renewal"
	KindGrant    QuoteKind = "grant"
)

// UserSubscription подписка пользователя
type UserSubscription struct {
	ID         int64             `json:"id"`
	UserID     int64             `json:"user_id"`
	Tier       packages.Tier     `json:"tier"`
	Duration   packages.Duration `json:"duration"`
	Status     Status            `json:"status"`
	StartedAt  time.Time         `json:"started_at"`
	ExpiresAt  time.Time         `json:"expires_at"`
	PaymentID  string            `json:"payment_id,omitempty"`
	AmountPaid decimal.Decimal   `json:"amount_paid"`
	GrantedBy  *int64            `json:"granted_by,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// IsActive подписка активна и не истекла на момент now
func (s UserSubscription) IsActive(now time.Time) bool {
	return s.Status == StatusActive && now.Before(s.ExpiresAt)
}

// Quote расчет стоимости покупки, продления или повышения уровня
type Quote struct {
	UserID        int64             `json:"user_id"`
	Kind          QuoteKind         `json:"kind"`
	From          packages.Tier     `json:"from,omitempty"`
	To            packages.Tier     `json:"to"`
	Duration      packages.Duration `json:"duration"`
	Amount        decimal.Decimal   `json:"amount"`
	RemainingDays int               `json:"remaining_days,omitempty"`
	ExpiresAt     time.Time         `json:"expires_at"`
	QuotedAt      time.Time         `json:"quoted_at"`
}

// IsFree нулевая сумма, оплата не требуется
func (q Quote) IsFree() bool {
	return !q.Amount.IsPositive()
}

// Closing подписка, закрываемая при активации новой, и ее итоговый статус
type Closing struct {
	ID     int64
	Status Status
}

// Repository хранилище подписок
type Repository interface {
	// GetActive последняя подписка в статусе active, ErrNotFound если ее нет
	GetActive(ctx context.Context, userID int64) (*UserSubscription, error)
	// Activate в одной транзакции закрывает closing (если задан) и сохраняет sub
	Activate(ctx context.Context, closing *Closing, sub *UserSubscription) error
	// ExpireDue переводит истекшие активные подписки в expired
	ExpireDue(ctx context.Context, now time.Time) (int64, error)
	ListExpiring(ctx context.Context, from, to time.Time) ([]UserSubscription, error)
	CountActiveByTier(ctx context.Context, now time.Time) (map[packages.Tier]int, error)
}

// Catalog источник пакетов
type Catalog interface {
	Get(tier packages.Tier) (packages.Package, error)
	Free() packages.Package
}
