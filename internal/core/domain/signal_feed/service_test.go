package signal_feed

import (
	"context"
	"errors"
	"testing"
	"time"

	"mr-trader-bot/internal/core/domain/packages"
	"mr-trader-bot/internal/core/domain/signals"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 7, 3, 18, 0, 0, 0, time.UTC)

type memoryRepo struct {
	signals []signals.Signal
	since   time.Time
}

func (r *memoryRepo) ListSince(_ context.Context, since time.Time) ([]signals.Signal, error) {
	r.since = since
	var result []signals.Signal
	for _, s := range r.signals {
		if !s.CreatedAt.Before(since) {
			result = append(result, s)
		}
	}
	return result, nil
}

func (r *memoryRepo) Create(_ context.Context, s signals.Signal) error {
	r.signals = append(r.signals, s)
	return nil
}

type countingLimiter struct {
	counts  map[string]int
	windows []time.Duration
	err     error
}

func (l *countingLimiter) CheckRateLimit(_ context.Context, key string, limit int, window time.Duration) (bool, int, error) {
	if l.err != nil {
		return false, 0, l.err
	}
	if l.counts == nil {
		l.counts = make(map[string]int)
	}
	l.counts[key]++
	l.windows = append(l.windows, window)
	return l.counts[key] <= limit, l.counts[key], nil
}

func newSignal(symbol, strategy string, strength signals.Strength) signals.Signal {
	return signals.NewBuilder(symbol, "USDT", signals.TypeBuy, signals.Timeframe4h, 100, strength, 0.8).
		WithStrategy(strategy).
		WithCreatedAt(testNow.Add(-time.Hour)).
		Build()
}

func newTestService(repo *memoryRepo, limiter *countingLimiter) *Service {
	return NewService(repo, limiter, 24*time.Hour, WithClock(func() time.Time { return testNow }))
}

func TestLatest_FiltersByStrategyAndRanks(t *testing.T) {
	old := newSignal("OLD", packages.StrategyRSI, signals.StrengthVeryStrong)
	old.CreatedAt = testNow.Add(-48 * time.Hour)

	repo := &memoryRepo{signals: []signals.Signal{
		newSignal("ETH", packages.StrategyRSI, signals.StrengthWeak),
		newSignal("BTC", packages.StrategyRSI, signals.StrengthVeryStrong),
		newSignal("SOL", packages.StrategySmartMoney, signals.StrengthVeryStrong),
		newSignal("XRP", "", signals.StrengthNeutral),
		old,
	}}
	limiter := &countingLimiter{}
	svc := newTestService(repo, limiter)

	pkg := packages.NewPackage(packages.Package{Tier: packages.TierFree})
	feed, err := svc.Latest(context.Background(), 7, pkg, 10)
	require.NoError(t, err)

	var symbols []string
	for _, s := range feed.Signals {
		symbols = append(symbols, s.Symbol)
	}
	assert.Equal(t, []string{"BTC", "XRP", "ETH"}, symbols)
	assert.Equal(t, 1, feed.Used)
	assert.Equal(t, 5, feed.Limit)
	assert.Equal(t, 4, feed.Remaining())
	assert.Equal(t, testNow.Add(-24*time.Hour), repo.since)
	assert.Equal(t, 6*time.Hour, limiter.windows[0])
	assert.Equal(t, time.Date(2026, 7, 4, 0, 0, 0, 0, time.UTC), feed.ResetAt)
}

func TestLatest_QuotaExceeded(t *testing.T) {
	limiter := &countingLimiter{}
	svc := newTestService(&memoryRepo{}, limiter)
	pkg := packages.NewPackage(packages.Package{Tier: packages.TierFree})
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.Latest(ctx, 7, pkg, 3)
		require.NoError(t, err)
	}

	feed, err := svc.Latest(ctx, 7, pkg, 3)
	assert.ErrorIs(t, err, ErrQuotaExceeded)
	require.NotNil(t, feed)
	assert.Equal(t, 0, feed.Remaining())

	_, err = svc.Latest(ctx, 8, pkg, 3)
	assert.NoError(t, err)
}

func TestLatest_LimiterFailureIsOpen(t *testing.T) {
	repo := &memoryRepo{signals: []signals.Signal{newSignal("BTC", packages.StrategyRSI, signals.StrengthStrong)}}
	svc := newTestService(repo, &countingLimiter{err: errors.New("redis down")})

	feed, err := svc.Latest(context.Background(), 7, packages.NewPackage(packages.Package{Tier: packages.TierFree}), 5)
	require.NoError(t, err)
	assert.Len(t, feed.Signals, 1)
}

func TestPublish(t *testing.T) {
	repo := &memoryRepo{}
	svc := newTestService(repo, &countingLimiter{})

	require.NoError(t, svc.Publish(context.Background(), newSignal("BTC", packages.StrategyMACD, signals.StrengthStrong)))
	assert.Len(t, repo.signals, 1)

	bad := signals.NewBuilder("BTC", "USDT", signals.TypeBuy, signals.Timeframe1h, 0, signals.StrengthStrong, 0.9).Build()
	assert.ErrorIs(t, svc.Publish(context.Background(), bad), ErrInvalidSignal)
	assert.Len(t, repo.signals, 1)
}
