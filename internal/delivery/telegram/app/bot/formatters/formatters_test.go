package formatters

import (
	"testing"
	"time"

	"mr-trader-bot/internal/core/domain/admin"
	"mr-trader-bot/internal/core/domain/packages"
	"mr-trader-bot/internal/core/domain/payment"
	"mr-trader-bot/internal/core/domain/signal_feed"
	"mr-trader-bot/internal/core/domain/signals"
	"mr-trader-bot/internal/core/domain/subscription"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var now = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func TestPrice(t *testing.T) {
	assert.Equal(t, "64250.50", Price(64250.5))
	assert.Equal(t, "1.2345", Price(1.23451))
	assert.Equal(t, "0.00001234", Price(0.00001234))
	assert.Equal(t, "0", Price(0))
}

func TestFormatPackage_ShowsDiscountedPrice(t *testing.T) {
	catalog := packages.NewManager(packages.DefaultCatalog())
	vip, err := catalog.Get(packages.TierVIP)
	assert.NoError(t, err)
	vip.Pricing.DiscountPercentage = decimal.NewFromInt(20)

	text := FormatPackage(vip, now)
	assert.Contains(t, text, "<s>$79.99</s> $63.99")
	assert.Contains(t, text, "Скидка 20%")
}

func TestFormatCheckout_ManualMethod(t *testing.T) {
	id := uuid.MustParse("0b7c4f1e-2f41-4c1e-9d35-0e3a3e4b5c6d")
	res := &payment.CheckoutResult{
		Quote: subscription.Quote{
			Kind: subscription.KindPurchase, To: packages.TierBasic,
			Duration: packages.DurationMonthly, Amount: decimal.RequireFromString("19.99"),
			ExpiresAt: now.AddDate(0, 1, 0),
		},
		Payment: &payment.Payment{
			ID: id, Method: payment.MethodTRC20, AmountUSD: decimal.RequireFromString("19.99"),
		},
		Destination: "TXYZwallet",
	}

	text := FormatCheckout(res, "@support")
	assert.Contains(t, text, "19.99 USDT")
	assert.Contains(t, text, "<code>TXYZwallet</code>")
	assert.Contains(t, text, "/paid "+id.String())
	assert.Contains(t, text, "@support")
}

func TestFormatFeed_EscapesAndShowsQuota(t *testing.T) {
	sig := signals.NewBuilder("BTC", "USDT", signals.TypeStrongBuy, signals.Timeframe1h, 64000, signals.StrengthStrong, 0.8).
		WithStrategy("<momentum>").
		WithCreatedAt(now.Add(-time.Hour)).
		Build()

	feed := &signal_feed.Feed{
		Signals: []signals.Signal{sig},
		Used:    3,
		Limit:   3,
		ResetAt: now.Add(90 * time.Minute),
	}

	text := FormatFeed(feed, now)
	assert.Contains(t, text, "BTC/USDT")
	assert.Contains(t, text, "&lt;momentum&gt;")
	assert.Contains(t, text, "3/3")
	assert.Contains(t, text, "1 ч 30 мин")
}

func TestFormatReport(t *testing.T) {
	report := &admin.Report{
		From:         now.AddDate(0, 0, -7),
		To:           now,
		Users:        12,
		ActiveByTier: map[packages.Tier]int{packages.TierPremium: 2},
		Revenue: map[payment.Method]decimal.Decimal{
			payment.MethodStars: decimal.RequireFromString("99.98"),
		},
		PendingReviews: 1,
	}

	text := FormatReport(report)
	assert.Contains(t, text, "Пользователей: 12")
	assert.Contains(t, text, "Premium: 2")
	assert.Contains(t, text, "$99.98")
	assert.Contains(t, text, "/pending")
}
