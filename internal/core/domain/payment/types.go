// internal/core/domain/payment/types.go
package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mr-trader-bot/internal/core/domain/packages"
	"mr-trader-bot/internal/core/domain/subscription"
	events "mr-trader-bot/internal/infrastructure/transport/event_bus"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ошибки платежей
var (
	ErrNotFound           = errors.New("payment not found")
	ErrMethodDisabled     = errors.New("payment method is disabled")
	ErrUnknownMethod      = errors.New("unknown payment method")
	ErrInvalidReference   = errors.New("invalid payment reference")
	ErrDuplicateReference = errors.New("payment reference already used")
	ErrInvalidState       = errors.New("payment is in a wrong state")
	ErrAmountMismatch     = errors.New("payment amount mismatch")
	ErrAmountTooLarge     = errors.New("amount exceeds stars invoice limit")
)

// Method способ оплаты
type Method string

const (
	MethodStars Method = "stars"
	MethodTRC20 Method = "usdt_trc20"
	MethodCard  Method = "card"
)

// IsManual оплата подтверждается администратором
func (m Method) IsManual() bool {
	return m == MethodTRC20 || m == MethodCard
}

// Title название способа для пользователя
func (m Method) Title() string {
	switch m {
	case MethodStars:
		return "Telegram Stars"
	case MethodTRC20:
		return "USDT (TRC20)"
	case MethodCard:
		return "Bank card"
	default:
		return string(m)
	}
}

// ParseMethod разбирает способ оплаты из аргумента команды
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "stars", "star", "xtr":
		return MethodStars, nil
	case "usdt", "trc20", "usdt_trc20", "crypto":
		return MethodTRC20, nil
	case "card", "bank":
		return MethodCard, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMethod, s)
}

// Status состояние платежа
type Status string

const (
	StatusPending        Status = "pending"
	StatusAwaitingReview Status = "awaiting_review"
	StatusConfirmed      Status = "confirmed"
	StatusRejected       Status = "rejected"
	StatusCanceled       Status = "canceled"
)

// Payment платеж за пакет
type Payment struct {
	ID          uuid.UUID              `json:"id"`
	UserID      int64                  `json:"user_id"`
	ChatID      int64                  `json:"chat_id"`
	Method      Method                 `json:"method"`
	Status      Status                 `json:"status"`
	QuoteKind   subscription.QuoteKind `json:"quote_kind"`
	Tier        packages.Tier          `json:"tier"`
	Duration    packages.Duration      `json:"duration"`
	AmountUSD   decimal.Decimal        `json:"amount_usd"`
	AmountStars int                    `json:"amount_stars,omitempty"`
	Payload     string                 `json:"payload,omitempty"`
	Reference   string                 `json:"reference,omitempty"`
	ChargeID    string                 `json:"charge_id,omitempty"`
	ReviewedBy  *int64                 `json:"reviewed_by,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// ShortID первые символы идентификатора для команд
func (p Payment) ShortID() string {
	return p.ID.String()[:8]
}

// Repository хранилище платежей
type Repository interface {
	Create(ctx context.Context, p *Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	GetByPayload(ctx context.Context, payload string) (*Payment, error)
	// Update сохраняет статус и поля подтверждения; ErrDuplicateReference при повторе reference
	Update(ctx context.Context, p *Payment) error
	ListByStatus(ctx context.Context, status Status, limit int) ([]Payment, error)
	RevenueByMethod(ctx context.Context, from, to time.Time) (map[Method]decimal.Decimal, error)
	CountByStatus(ctx context.Context, status Status) (int, error)
}

// Invoice счет Telegram Stars
type Invoice struct {
	Title       string
	Description string
	Payload     string
	Stars       int
}

// InvoiceCreator создает ссылку на оплату Stars
type InvoiceCreator interface {
	CreateInvoiceLink(ctx context.Context, invoice Invoice) (string, error)
}

// Subscriptions операции подписок, нужные платежам
type Subscriptions interface {
	Quote(ctx context.Context, userID int64, tier packages.Tier, duration packages.Duration) (*subscription.Quote, error)
	Activate(ctx context.Context, q subscription.Quote, paymentID string, amount decimal.Decimal) (*subscription.UserSubscription, error)
	Current(ctx context.Context, userID int64) (*subscription.UserSubscription, error)
}

// EventPublisher шина событий
type EventPublisher interface {
	Publish(event events.Event) error
}

// ConfirmedEvent данные события подтверждения платежа
type ConfirmedEvent struct {
	Payment      Payment
	Subscription subscription.UserSubscription
}

// Config реквизиты и курсы способов оплаты
type Config struct {
	StarsEnabled  bool
	StarsPerUSD   decimal.Decimal
	CryptoEnabled bool
	TRC20Wallet   string
	CardEnabled   bool
	CardNumber    string
	CardHolder    string
}

// Enabled доступен ли способ оплаты
func (c Config) Enabled(m Method) bool {
	switch m {
	case MethodStars:
		return c.StarsEnabled
	case MethodTRC20:
		return c.CryptoEnabled && c.TRC20Wallet != ""
	case MethodCard:
		return c.CardEnabled && c.CardNumber != ""
	}
	return false
}

// Methods доступные способы оплаты
func (c Config) Methods() []Method {
	var result []Method
	for _, m := range []Method{MethodStars, MethodTRC20, MethodCard} {
		if c.Enabled(m) {
			result = append(result, m)
		}
	}
	return result
}

// CheckoutResult результат оформления покупки
type CheckoutResult struct {
	Quote      subscription.Quote
	Payment    *Payment
	InvoiceURL string
	// Destination кошелек или номер карты для ручного перевода
	Destination string
	Holder      string
	// Activated заполнено, если оплата не потребовалась
	Activated *subscription.UserSubscription
}
