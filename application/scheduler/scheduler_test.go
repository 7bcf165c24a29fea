package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"mr-trader-bot/internal/core/domain/packages"
	"mr-trader-bot/internal/core/domain/subscription"
	"mr-trader-bot/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

type stubSubscriptions struct {
	expired  int64
	expiring []subscription.UserSubscription
	days     int
}

func (s *stubSubscriptions) ExpireDue(context.Context) (int64, error) {
	s.expired++
	return 1, nil
}

func (s *stubSubscriptions) ExpiringWithin(_ context.Context, days int) ([]subscription.UserSubscription, error) {
	s.days = days
	return s.expiring, nil
}

type stubPayments struct {
	maxAge time.Duration
	err    error
}

func (p *stubPayments) CancelStale(_ context.Context, maxAge time.Duration) (int, error) {
	p.maxAge = maxAge
	return 0, p.err
}

type recordingSender struct {
	chats []int64
	texts []string
}

func (r *recordingSender) SendMessage(_ context.Context, chatID int64, text string) error {
	if chatID == 13 {
		return errors.New("blocked")
	}
	r.chats = append(r.chats, chatID)
	r.texts = append(r.texts, text)
	return nil
}

func testConfig() config.SchedulerConfig {
	return config.SchedulerConfig{
		ExpirySweepCron:    "0 */10 * * * *",
		ReminderCron:       "0 0 10 * * *",
		ReminderDays:       3,
		PaymentCleanupCron: "0 30 * * * *",
		PendingPaymentTTL:  48 * time.Hour,
	}
}

func TestRegisterTasks(t *testing.T) {
	subs := &stubSubscriptions{expiring: []subscription.UserSubscription{
		{UserID: 11, Tier: packages.TierBasic, ExpiresAt: testNow.AddDate(0, 0, 2)},
		{UserID: 13, Tier: packages.TierVIP, ExpiresAt: testNow.AddDate(0, 0, 1)},
	}}
	payments := &stubPayments{}
	sender := &recordingSender{}

	s := New()
	require.NoError(t, RegisterTasks(s, testConfig(), Tasks{
		Subscriptions: subs,
		Payments:      payments,
		Sender:        sender,
		Now:           func() time.Time { return testNow },
	}))
	require.Len(t, s.Jobs(), 3)

	require.NoError(t, s.RunNow(JobExpirySweep))
	assert.Equal(t, int64(1), subs.expired)

	require.NoError(t, s.RunNow(JobExpiryReminder))
	assert.Equal(t, 3, subs.days)
	assert.Equal(t, []int64{11}, sender.chats)
	assert.Contains(t, sender.texts[0], "/buy basic")

	require.NoError(t, s.RunNow(JobPaymentCleanup))
	assert.Equal(t, 48*time.Hour, payments.maxAge)

	for _, st := range s.Jobs() {
		assert.Equal(t, 1, st.Runs, st.Name)
	}
}

func TestRunNow_RecordsError(t *testing.T) {
	s := New()
	require.NoError(t, RegisterTasks(s, testConfig(), Tasks{
		Subscriptions: &stubSubscriptions{},
		Payments:      &stubPayments{err: errors.New("db down")},
		Sender:        &recordingSender{},
	}))

	assert.Error(t, s.RunNow(JobPaymentCleanup))
	assert.Error(t, s.RunNow("missing"))
}

func TestRegister_InvalidSpec(t *testing.T) {
	s := New()
	err := s.Register(&Job{Name: "bad", Spec: "every minute", Handler: func(context.Context) error { return nil }})
	assert.Error(t, err)
}

func TestRegisterTasks_EmptySpecDisablesJob(t *testing.T) {
	cfg := testConfig()
	cfg.ReminderCron = ""

	s := New()
	require.NoError(t, RegisterTasks(s, cfg, Tasks{Subscriptions: &stubSubscriptions{}, Payments: &stubPayments{}, Sender: &recordingSender{}}))
	assert.Len(t, s.Jobs(), 2)
}

func TestSafeRun_RecoversPanic(t *testing.T) {
	err := safeRun(context.Background(), func(context.Context) error { panic("boom") })
	assert.ErrorContains(t, err, "boom")
}
