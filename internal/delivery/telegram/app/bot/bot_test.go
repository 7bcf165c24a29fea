package bot

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"mr-trader-bot/internal/core/domain/admin"
	"mr-trader-bot/internal/core/domain/packages"
	"mr-trader-bot/internal/core/domain/payment"
	"mr-trader-bot/internal/core/domain/signal_feed"
	"mr-trader-bot/internal/core/domain/signals"
	"mr-trader-bot/internal/core/domain/subscription"
	"mr-trader-bot/internal/core/domain/users"
	"mr-trader-bot/internal/delivery/telegram/app/http_client"
	"mr-trader-bot/internal/infrastructure/config"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminID = int64(100)
	userID  = int64(200)
)

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

type sentMessage struct {
	chatID   int64
	text     string
	keyboard *http_client.InlineKeyboardMarkup
}

type fakeClient struct {
	mu          sync.Mutex
	sent        []sentMessage
	callbacks   []string
	preCheckout []bool
	updates     [][]http_client.Update
	offsets     []int
	cancel      context.CancelFunc
}

func (c *fakeClient) SendMessage(ctx context.Context, chatID int64, text string) error {
	return c.SendMessageWithKeyboard(ctx, chatID, text, nil)
}

func (c *fakeClient) SendMessageWithKeyboard(_ context.Context, chatID int64, text string, keyboard *http_client.InlineKeyboardMarkup) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, sentMessage{chatID: chatID, text: text, keyboard: keyboard})
	return nil
}

func (c *fakeClient) AnswerCallbackQuery(_ context.Context, callbackID, _ string) error {
	c.callbacks = append(c.callbacks, callbackID)
	return nil
}

func (c *fakeClient) AnswerPreCheckoutQuery(_ context.Context, _ string, ok bool, _ string) error {
	c.preCheckout = append(c.preCheckout, ok)
	return nil
}

func (c *fakeClient) GetUpdates(_ context.Context, offset, _ int) ([]http_client.Update, error) {
	c.offsets = append(c.offsets, offset)
	if len(c.updates) == 0 {
		c.cancel()
		return nil, errors.New("context canceled")
	}
	batch := c.updates[0]
	c.updates = c.updates[1:]
	return batch, nil
}

func (c *fakeClient) SetMyCommands(context.Context, []http_client.BotCommand) error { return nil }

type stubRegistrar struct{}

func (stubRegistrar) Register(_ context.Context, p users.Profile) (*users.User, bool, error) {
	return &users.User{TelegramID: p.TelegramID, ChatID: p.ChatID, FirstName: p.FirstName, IsAdmin: p.TelegramID == adminID}, false, nil
}

type stubSubscriptions struct{}

func (stubSubscriptions) ActivePackage(context.Context, int64) (packages.Package, *subscription.UserSubscription, error) {
	return packages.NewManager(packages.DefaultCatalog()).Free(), nil, nil
}

func (stubSubscriptions) Quote(context.Context, int64, packages.Tier, packages.Duration) (*subscription.Quote, error) {
	return nil, subscription.ErrFreeTier
}

func (stubSubscriptions) Grant(context.Context, int64, int64, packages.Tier, packages.Duration) (*subscription.UserSubscription, error) {
	return nil, users.ErrNotFound
}

type stubPayments struct {
	approved []uuid.UUID
	valid    bool
}

func (*stubPayments) Methods() []payment.Method { return []payment.Method{payment.MethodStars} }

func (*stubPayments) Checkout(context.Context, int64, int64, packages.Tier, packages.Duration, payment.Method) (*payment.CheckoutResult, error) {
	return nil, payment.ErrMethodDisabled
}

func (p *stubPayments) ValidatePreCheckout(context.Context, string, string, int) error {
	if p.valid {
		return nil
	}
	return payment.ErrAmountMismatch
}

func (*stubPayments) ConfirmStars(context.Context, string, string, int, string) (*payment.Payment, *subscription.UserSubscription, error) {
	return nil, nil, payment.ErrNotFound
}

func (*stubPayments) SubmitReference(context.Context, uuid.UUID, int64, string) (*payment.Payment, error) {
	return nil, payment.ErrNotFound
}

func (p *stubPayments) Approve(_ context.Context, id uuid.UUID, _ int64) (*payment.Payment, *subscription.UserSubscription, error) {
	p.approved = append(p.approved, id)
	return &payment.Payment{ID: id, ChatID: userID, Status: payment.StatusConfirmed},
		&subscription.UserSubscription{UserID: userID, Tier: packages.TierBasic, ExpiresAt: testNow.AddDate(0, 1, 0)}, nil
}

func (*stubPayments) Reject(context.Context, uuid.UUID, int64) (*payment.Payment, error) {
	return nil, payment.ErrNotFound
}

func (*stubPayments) PendingReviews(context.Context, int) ([]payment.Payment, error) { return nil, nil }

type stubFeed struct{}

func (stubFeed) Latest(context.Context, int64, packages.Package, int) (*signal_feed.Feed, error) {
	return &signal_feed.Feed{}, nil
}

type recordingPublisher struct {
	published []signals.Signal
}

func (p *recordingPublisher) Publish(_ context.Context, sig signals.Signal) error {
	p.published = append(p.published, sig)
	return nil
}

type stubAdmin struct{}

func (stubAdmin) ReportLastDays(context.Context, int) (*admin.Report, error) {
	return &admin.Report{Revenue: map[payment.Method]decimal.Decimal{}}, nil
}

func (stubAdmin) StartBroadcast(_ context.Context, _ string, done func(admin.BroadcastResult, error)) {
	done(admin.BroadcastResult{Sent: 3}, nil)
}

func (stubAdmin) SetPromotion(context.Context, packages.Tier, decimal.Decimal, time.Time) (packages.Package, error) {
	return packages.Package{}, nil
}

func (stubAdmin) ClearPromotion(context.Context, packages.Tier) (packages.Package, error) {
	return packages.Package{}, nil
}

func (stubAdmin) SetDiscount(context.Context, packages.Tier, decimal.Decimal) (packages.Package, error) {
	return packages.Package{}, nil
}

func (stubAdmin) SetActive(context.Context, packages.Tier, bool) (packages.Package, error) {
	return packages.Package{}, nil
}

func newTestBot(t *testing.T) (*TelegramBot, *fakeClient, *stubPayments) {
	t.Helper()
	client := &fakeClient{}
	payments := &stubPayments{}
	b := NewTelegramBot(Dependencies{
		Config:        config.TelegramConfig{AdminIDs: []int64{adminID}, PollingTimeout: 1, SupportContact: "@support"},
		Client:        client,
		Users:         stubRegistrar{},
		Catalog:       packages.NewManager(packages.DefaultCatalog()),
		Subscriptions: stubSubscriptions{},
		Payments:      payments,
		Feed:          stubFeed{},
		Publisher:     &recordingPublisher{},
		Admin:         stubAdmin{},
		FeedLimit:     5,
		Now:           func() time.Time { return testNow },
	})
	return b, client, payments
}

func message(from int64, text string) *http_client.Update {
	return &http_client.Update{
		UpdateID: 1,
		Message: &http_client.Message{
			From: &http_client.User{ID: from, FirstName: "Ann"},
			Chat: http_client.Chat{ID: from},
			Text: text,
		},
	}
}

func TestHandleUpdate_StartRepliesWithMenu(t *testing.T) {
	b, client, _ := newTestBot(t)

	require.NoError(t, b.HandleUpdate(context.Background(), message(userID, "/start")))

	require.Len(t, client.sent, 1)
	assert.Equal(t, userID, client.sent[0].chatID)
	assert.Contains(t, client.sent[0].text, "Ann")
	assert.NotNil(t, client.sent[0].keyboard)
}

func TestHandleUpdate_UnknownCommand(t *testing.T) {
	b, client, _ := newTestBot(t)

	require.NoError(t, b.HandleUpdate(context.Background(), message(userID, "/nope")))

	require.Len(t, client.sent, 1)
	assert.Contains(t, client.sent[0].text, "/help")
}

func TestHandleUpdate_PlainTextIgnored(t *testing.T) {
	b, client, _ := newTestBot(t)

	require.NoError(t, b.HandleUpdate(context.Background(), message(userID, "hello")))
	assert.Empty(t, client.sent)
}

func TestHandleUpdate_AdminCommandRequiresAdmin(t *testing.T) {
	b, client, _ := newTestBot(t)

	require.NoError(t, b.HandleUpdate(context.Background(), message(userID, "/report")))

	require.Len(t, client.sent, 1)
	assert.Contains(t, client.sent[0].text, "⛔")
}

func TestHandleUpdate_ApproveCallbackNotifiesUser(t *testing.T) {
	b, client, payments := newTestBot(t)
	id := uuid.New()

	update := &http_client.Update{
		UpdateID: 7,
		CallbackQuery: &http_client.CallbackQuery{
			ID:      "cb-1",
			From:    http_client.User{ID: adminID},
			Message: &http_client.Message{Chat: http_client.Chat{ID: adminID}},
			Data:    "approve:" + id.String(),
		},
	}
	require.NoError(t, b.HandleUpdate(context.Background(), update))

	assert.Equal(t, []uuid.UUID{id}, payments.approved)
	assert.Equal(t, []string{"cb-1"}, client.callbacks)
	require.Len(t, client.sent, 2)
	assert.Equal(t, adminID, client.sent[0].chatID)
	assert.Equal(t, userID, client.sent[1].chatID)
	assert.Contains(t, client.sent[1].text, "Оплата получена")
}

func TestHandleUpdate_PreCheckoutAnsweredWithoutMessage(t *testing.T) {
	b, client, payments := newTestBot(t)

	update := &http_client.Update{
		UpdateID: 9,
		PreCheckoutQuery: &http_client.PreCheckoutQuery{
			ID:             "q-1",
			From:           http_client.User{ID: userID},
			Currency:       http_client.CurrencyStars,
			TotalAmount:    50,
			InvoicePayload: "payload",
		},
	}
	require.NoError(t, b.HandleUpdate(context.Background(), update))

	payments.valid = true
	require.NoError(t, b.HandleUpdate(context.Background(), update))

	assert.Equal(t, []bool{false, true}, client.preCheckout)
	assert.Empty(t, client.sent)
}

func TestRun_AdvancesOffset(t *testing.T) {
	b, client, _ := newTestBot(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	client.cancel = cancel

	first := message(userID, "/start")
	first.UpdateID = 41
	second := message(userID, "/help")
	second.UpdateID = 42
	client.updates = [][]http_client.Update{{*first, *second}}

	require.NoError(t, b.Run(ctx))

	assert.Equal(t, []int{0, 43}, client.offsets)
	assert.Len(t, client.sent, 2)
}

func TestNextDelay(t *testing.T) {
	assert.Equal(t, 2*time.Second, nextDelay(time.Second))
	assert.Equal(t, maxRetryDelay, nextDelay(20*time.Second))
}
