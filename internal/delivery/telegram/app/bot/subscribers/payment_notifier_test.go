package subscribers

import (
	"context"
	"testing"

	"mr-trader-bot/internal/core/domain/packages"
	"mr-trader-bot/internal/core/domain/payment"
	"mr-trader-bot/internal/core/domain/subscription"
	events "mr-trader-bot/internal/infrastructure/transport/event_bus"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	chats []int64
	texts []string
}

func (r *recordingSender) SendMessage(_ context.Context, chatID int64, text string) error {
	r.chats = append(r.chats, chatID)
	r.texts = append(r.texts, text)
	return nil
}

func confirmed(reviewer *int64, amount string) events.Event {
	return events.Event{
		Type: events.EventPaymentConfirmed,
		Data: payment.ConfirmedEvent{
			Payment: payment.Payment{
				ID:         uuid.New(),
				UserID:     55,
				Method:     payment.MethodStars,
				AmountUSD:  decimal.RequireFromString(amount),
				ReviewedBy: reviewer,
			},
			Subscription: subscription.UserSubscription{Tier: packages.TierVIP, Duration: packages.DurationMonthly},
		},
	}
}

func TestPaymentNotifier_NotifiesAdmins(t *testing.T) {
	sender := &recordingSender{}
	sub := NewPaymentNotifier(sender, []int64{1, 2})

	require.NoError(t, sub.HandleEvent(confirmed(nil, "79.99")))
	assert.Equal(t, []int64{1, 2}, sender.chats)
	assert.Contains(t, sender.texts[0], "VIP")
	assert.Contains(t, sender.texts[0], "<code>55</code>")
}

func TestPaymentNotifier_SkipsReviewedAndFree(t *testing.T) {
	sender := &recordingSender{}
	sub := NewPaymentNotifier(sender, []int64{1})
	reviewer := int64(1)

	require.NoError(t, sub.HandleEvent(confirmed(&reviewer, "79.99")))
	require.NoError(t, sub.HandleEvent(confirmed(nil, "0")))
	assert.Empty(t, sender.chats)
}

func TestPaymentNotifier_RejectsUnknownData(t *testing.T) {
	sub := NewPaymentNotifier(&recordingSender{}, []int64{1})
	assert.Error(t, sub.HandleEvent(events.Event{Type: events.EventPaymentConfirmed, Data: "oops"}))
}
