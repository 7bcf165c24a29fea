package admin

import (
	"context"
	"testing"
	"time"

	"mr-trader-bot/internal/core/domain/admin"
	"mr-trader-bot/internal/core/domain/packages"
	"mr-trader-bot/internal/core/domain/signals"
	"mr-trader-bot/internal/core/domain/subscription"
	"mr-trader-bot/internal/core/domain/users"
	"mr-trader-bot/internal/delivery/telegram/app/bot/handlers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	published []signals.Signal
}

func (p *recordingPublisher) Publish(_ context.Context, sig signals.Signal) error {
	p.published = append(p.published, sig)
	return nil
}

type grantSubscriptions struct {
	handlers.SubscriptionService
	known map[int64]bool
}

func (s grantSubscriptions) Grant(_ context.Context, _, userID int64, tier packages.Tier, duration packages.Duration) (*subscription.UserSubscription, error) {
	if !s.known[userID] {
		return nil, users.ErrNotFound
	}
	return &subscription.UserSubscription{UserID: userID, Tier: tier, Duration: duration, ExpiresAt: testNow.AddDate(0, 1, 0)}, nil
}

func adminParams(args ...string) handlers.HandlerParams {
	return handlers.HandlerParams{
		User:   &users.User{TelegramID: 1, IsAdmin: true},
		ChatID: 1,
		Args:   args,
	}
}

func TestPublish_BuildsSignal(t *testing.T) {
	pub := &recordingPublisher{}
	h := NewPublishHandler(pub, func() time.Time { return testNow })

	res, err := h.Execute(context.Background(), adminParams("btc/usdt", "buy", "4h", "65000", "strong", "0.8", "Momentum"))
	require.NoError(t, err)
	require.Len(t, pub.published, 1)

	sig := pub.published[0]
	assert.Equal(t, "BTC", sig.Symbol)
	assert.Equal(t, "USDT", sig.Currency)
	assert.Equal(t, signals.TypeBuy, sig.Type)
	assert.Equal(t, "momentum", sig.Strategy)
	assert.Equal(t, testNow, sig.CreatedAt)
	assert.Equal(t, 65000.0, sig.EntryPrice)
	assert.NotEmpty(t, sig.RiskLevel)
	assert.Contains(t, res.Message, "BTC/USDT")
}

func TestPublish_BadArgumentsShowUsage(t *testing.T) {
	pub := &recordingPublisher{}
	h := NewPublishHandler(pub, nil)

	res, err := h.Execute(context.Background(), adminParams("BTC/USDT", "moon", "4h", "1", "strong", "0.8"))
	require.NoError(t, err)
	assert.Contains(t, res.Message, "Использование")
	assert.Empty(t, pub.published)
}

func TestGrant_NotifiesUser(t *testing.T) {
	h := NewGrantHandler(grantSubscriptions{known: map[int64]bool{42: true}})

	res, err := h.Execute(context.Background(), adminParams("42", "vip", "monthly"))
	require.NoError(t, err)
	require.Len(t, res.Notify, 1)
	assert.Equal(t, int64(42), res.Notify[0].ChatID)
	assert.Contains(t, res.Notify[0].Text, "VIP")
}

func TestGrant_UnknownUser(t *testing.T) {
	h := NewGrantHandler(grantSubscriptions{})

	res, err := h.Execute(context.Background(), adminParams("43", "vip", "monthly"))
	require.NoError(t, err)
	assert.Contains(t, res.Message, "/start")
	assert.Empty(t, res.Notify)
}

func TestPublish_ConfidenceOutsideUnitRangeIsRejected(t *testing.T) {
	pub := &recordingPublisher{}
	h := NewPublishHandler(pub, func() time.Time { return testNow })

	for _, confidence := range []string{"80", "1.01", "-0.1", "NaN"} {
		res, err := h.Execute(context.Background(), adminParams("BTC/USDT", "buy", "4h", "65000", "strong", confidence))
		require.NoError(t, err)
		assert.Contains(t, res.Message, "от 0 до 1", confidence)
	}
	assert.Empty(t, pub.published)

	_, err := h.Execute(context.Background(), adminParams("BTC/USDT", "buy", "4h", "65000", "strong", "1"))
	require.NoError(t, err)
	assert.Len(t, pub.published, 1)
}

type asyncAdmin struct {
	handlers.AdminService
	texts []string
	done  func(admin.BroadcastResult, error)
}

func (a *asyncAdmin) StartBroadcast(_ context.Context, text string, done func(admin.BroadcastResult, error)) {
	a.texts = append(a.texts, text)
	a.done = done
}

type recordingSender struct {
	chats []int64
	texts []string
}

func (s *recordingSender) SendMessage(_ context.Context, chatID int64, text string) error {
	s.chats = append(s.chats, chatID)
	s.texts = append(s.texts, text)
	return nil
}

func TestBroadcast_RepliesBeforeDeliveryAndReportsLater(t *testing.T) {
	svc := &asyncAdmin{}
	sender := &recordingSender{}
	h := NewBroadcastHandler(svc, sender)

	params := adminParams()
	params.Text = "/broadcast Новые сигналы\nуже в ленте"
	res, err := h.Execute(context.Background(), params)
	require.NoError(t, err)
	assert.Contains(t, res.Message, "запущена")
	require.Equal(t, []string{"Новые сигналы\nуже в ленте"}, svc.texts)
	assert.Empty(t, sender.texts)

	require.NotNil(t, svc.done)
	svc.done(admin.BroadcastResult{Sent: 900, Failed: 4}, nil)
	require.Len(t, sender.texts, 1)
	assert.Equal(t, []int64{1}, sender.chats)
	assert.Contains(t, sender.texts[0], "900")

	svc.done(admin.BroadcastResult{Sent: 10}, context.DeadlineExceeded)
	require.Len(t, sender.texts, 2)
	assert.Contains(t, sender.texts[1], "прервана")
}

func TestBroadcast_EmptyTextShowsUsage(t *testing.T) {
	svc := &asyncAdmin{}
	h := NewBroadcastHandler(svc, &recordingSender{})

	params := adminParams()
	params.Text = "/broadcast   "
	res, err := h.Execute(context.Background(), params)
	require.NoError(t, err)
	assert.Contains(t, res.Message, "Использование")
	assert.Nil(t, svc.done)
}
