// internal/delivery/telegram/app/bot/handlers/services.go
package handlers

import (
	"context"
	"time"

	"mr-trader-bot/internal/core/domain/admin"
	"mr-trader-bot/internal/core/domain/packages"
	"mr-trader-bot/internal/core/domain/payment"
	"mr-trader-bot/internal/core/domain/signal_feed"
	"mr-trader-bot/internal/core/domain/signals"
	"mr-trader-bot/internal/core/domain/subscription"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Catalog каталог пакетов
type Catalog interface {
	Active() []packages.Package
	Get(tier packages.Tier) (packages.Package, error)
}

// SubscriptionService операции с подписками
type SubscriptionService interface {
	ActivePackage(ctx context.Context, userID int64) (packages.Package, *subscription.UserSubscription, error)
	Quote(ctx context.Context, userID int64, tier packages.Tier, duration packages.Duration) (*subscription.Quote, error)
	Grant(ctx context.Context, adminID, userID int64, tier packages.Tier, duration packages.Duration) (*subscription.UserSubscription, error)
}

// PaymentService операции с платежами
type PaymentService interface {
	Methods() []payment.Method
	Checkout(ctx context.Context, userID, chatID int64, tier packages.Tier, duration packages.Duration, method payment.Method) (*payment.CheckoutResult, error)
	ValidatePreCheckout(ctx context.Context, payload, currency string, totalAmount int) error
	ConfirmStars(ctx context.Context, payload, currency string, totalAmount int, chargeID string) (*payment.Payment, *subscription.UserSubscription, error)
	SubmitReference(ctx context.Context, id uuid.UUID, userID int64, reference string) (*payment.Payment, error)
	Approve(ctx context.Context, id uuid.UUID, adminID int64) (*payment.Payment, *subscription.UserSubscription, error)
	Reject(ctx context.Context, id uuid.UUID, adminID int64) (*payment.Payment, error)
	PendingReviews(ctx context.Context, limit int) ([]payment.Payment, error)
}

// SignalFeed лента сигналов
type SignalFeed interface {
	Latest(ctx context.Context, userID int64, pkg packages.Package, limit int) (*signal_feed.Feed, error)
}

// SignalPublisher публикация сигналов
type SignalPublisher interface {
	Publish(ctx context.Context, sig signals.Signal) error
}

// AdminService административные операции
type AdminService interface {
	ReportLastDays(ctx context.Context, days int) (*admin.Report, error)
	StartBroadcast(ctx context.Context, text string, done func(admin.BroadcastResult, error))
	SetPromotion(ctx context.Context, tier packages.Tier, price decimal.Decimal, until time.Time) (packages.Package, error)
	ClearPromotion(ctx context.Context, tier packages.Tier) (packages.Package, error)
	SetDiscount(ctx context.Context, tier packages.Tier, percent decimal.Decimal) (packages.Package, error)
	SetActive(ctx context.Context, tier packages.Tier, active bool) (packages.Package, error)
}

// MessageSender отправка сообщений вне ответа на обновление
type MessageSender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// PreCheckoutAnswerer ответ Telegram на pre-checkout запрос
type PreCheckoutAnswerer interface {
	AnswerPreCheckoutQuery(ctx context.Context, queryID string, ok bool, errorMessage string) error
}
