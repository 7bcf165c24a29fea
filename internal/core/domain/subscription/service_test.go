package subscription

import (
	"context"
	"sync"
	"testing"
	"time"

	"mr-trader-bot/internal/core/domain/packages"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

type memoryRepo struct {
	mu     sync.Mutex
	nextID int64
	subs   []UserSubscription
}

func (r *memoryRepo) GetActive(_ context.Context, userID int64) (*UserSubscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := len(r.subs) - 1; i >= 0; i-- {
		if r.subs[i].UserID == userID && r.subs[i].Status == StatusActive {
			sub := r.subs[i]
			return &sub, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryRepo) Activate(_ context.Context, closing *Closing, sub *UserSubscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if closing != nil {
		for i := range r.subs {
			if r.subs[i].ID == closing.ID && r.subs[i].Status == StatusActive {
				r.subs[i].Status = closing.Status
			}
		}
	}
	r.nextID++
	sub.ID = r.nextID
	r.subs = append(r.subs, *sub)
	return nil
}

func (r *memoryRepo) ExpireDue(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for i := range r.subs {
		if r.subs[i].Status == StatusActive && !now.Before(r.subs[i].ExpiresAt) {
			r.subs[i].Status = StatusExpired
			count++
		}
	}
	return count, nil
}

func (r *memoryRepo) ListExpiring(_ context.Context, from, to time.Time) ([]UserSubscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []UserSubscription
	for _, s := range r.subs {
		if s.Status == StatusActive && s.ExpiresAt.After(from) && !s.ExpiresAt.After(to) {
			result = append(result, s)
		}
	}
	return result, nil
}

func (r *memoryRepo) CountActiveByTier(_ context.Context, now time.Time) (map[packages.Tier]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make(map[packages.Tier]int)
	for _, s := range r.subs {
		if s.IsActive(now) {
			result[s.Tier]++
		}
	}
	return result, nil
}

func (r *memoryRepo) seed(sub UserSubscription) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	sub.ID = r.nextID
	r.subs = append(r.subs, sub)
}

func newTestService(repo *memoryRepo) *Service {
	return NewService(repo, packages.NewManager(packages.DefaultCatalog()), WithClock(func() time.Time { return testNow }))
}

func assertAmount(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.Truef(t, decimal.RequireFromString(expected).Equal(actual), "expected %s, got %s", expected, actual)
}

func TestQuote_Purchase(t *testing.T) {
	svc := newTestService(&memoryRepo{})

	q, err := svc.Quote(context.Background(), 1, packages.TierPremium, packages.DurationMonthly)
	require.NoError(t, err)

	assert.Equal(t, KindPurchase, q.Kind)
	assertAmount(t, "49.99", q.Amount)
	assert.Equal(t, testNow.AddDate(0, 0, 30), q.ExpiresAt)
	assert.False(t, q.IsFree())
}

func TestQuote_Upgrade(t *testing.T) {
	repo := &memoryRepo{}
	repo.seed(UserSubscription{
		UserID:    1,
		Tier:      packages.TierBasic,
		Duration:  packages.DurationMonthly,
		Status:    StatusActive,
		StartedAt: testNow.AddDate(0, 0, -15),
		ExpiresAt: testNow.AddDate(0, 0, 15),
	})
	svc := newTestService(repo)

	q, err := svc.Quote(context.Background(), 1, packages.TierPremium, packages.DurationYearly)
	require.NoError(t, err)

	assert.Equal(t, KindUpgrade, q.Kind)
	assert.Equal(t, packages.TierBasic, q.From)
	assert.Equal(t, packages.DurationMonthly, q.Duration)
	assert.Equal(t, 15, q.RemainingDays)
	assertAmount(t, "15.00", q.Amount)
	assert.Equal(t, testNow.AddDate(0, 0, 15), q.ExpiresAt)

	sub, err := svc.Activate(context.Background(), *q, "pay-1", q.Amount)
	require.NoError(t, err)
	assert.Equal(t, packages.TierPremium, sub.Tier)
	assert.Equal(t, testNow.AddDate(0, 0, 15), sub.ExpiresAt)
	assert.Equal(t, "pay-1", sub.PaymentID)

	assert.Equal(t, StatusCanceled, repo.subs[0].Status)
	current, err := svc.Current(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, packages.TierPremium, current.Tier)
}

func TestQuote_Renewal(t *testing.T) {
	repo := &memoryRepo{}
	expires := testNow.AddDate(0, 0, 5)
	repo.seed(UserSubscription{
		UserID:    1,
		Tier:      packages.TierVIP,
		Duration:  packages.DurationMonthly,
		Status:    StatusActive,
		StartedAt: testNow.AddDate(0, 0, -25),
		ExpiresAt: expires,
	})
	svc := newTestService(repo)

	q, err := svc.Quote(context.Background(), 1, packages.TierVIP, packages.DurationQuarterly)
	require.NoError(t, err)
	assert.Equal(t, KindRenewal, q.Kind)
	assertAmount(t, "215.99", q.Amount)
	assert.Equal(t, expires.AddDate(0, 0, 90), q.ExpiresAt)

	sub, err := svc.Activate(context.Background(), *q, "pay-2", q.Amount)
	require.NoError(t, err)
	assert.Equal(t, expires.AddDate(0, 0, 90), sub.ExpiresAt)
}

func TestQuote_Rejections(t *testing.T) {
	repo := &memoryRepo{}
	repo.seed(UserSubscription{
		UserID:    1,
		Tier:      packages.TierVIP,
		Duration:  packages.DurationMonthly,
		Status:    StatusActive,
		ExpiresAt: testNow.AddDate(0, 0, 10),
	})
	svc := newTestService(repo)
	ctx := context.Background()

	_, err := svc.Quote(ctx, 1, packages.TierBasic, packages.DurationMonthly)
	assert.ErrorIs(t, err, ErrDowngrade)

	_, err = svc.Quote(ctx, 2, packages.TierFree, packages.DurationMonthly)
	assert.ErrorIs(t, err, ErrFreeTier)

	_, err = svc.Quote(ctx, 2, packages.TierBasic, packages.DurationLifetime)
	assert.ErrorIs(t, err, ErrDurationUnavailable)

	_, err = svc.Quote(ctx, 2, packages.TierBasic, packages.Duration("weekly"))
	assert.ErrorIs(t, err, ErrDurationUnavailable)

	_, err = svc.Quote(ctx, 2, packages.Tier("platinum"), packages.DurationMonthly)
	assert.ErrorIs(t, err, packages.ErrPackageNotFound)
}

func TestQuote_ExpiredSubscriptionIsIgnored(t *testing.T) {
	repo := &memoryRepo{}
	repo.seed(UserSubscription{
		UserID:    1,
		Tier:      packages.TierGhost,
		Duration:  packages.DurationMonthly,
		Status:    StatusActive,
		ExpiresAt: testNow.Add(-time.Minute),
	})
	svc := newTestService(repo)

	q, err := svc.Quote(context.Background(), 1, packages.TierBasic, packages.DurationMonthly)
	require.NoError(t, err)
	assert.Equal(t, KindPurchase, q.Kind)

	pkg, sub, err := svc.ActivePackage(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, sub)
	assert.Equal(t, packages.TierFree, pkg.Tier)
}

func TestGrant(t *testing.T) {
	repo := &memoryRepo{}
	svc := newTestService(repo)

	sub, err := svc.Grant(context.Background(), 99, 5, packages.TierGhost, packages.DurationLifetime)
	require.NoError(t, err)
	require.NotNil(t, sub.GrantedBy)
	assert.Equal(t, int64(99), *sub.GrantedBy)
	assert.True(t, sub.AmountPaid.IsZero())
	assert.Equal(t, testNow.AddDate(0, 0, 36500), sub.ExpiresAt)

	pkg, _, err := svc.ActivePackage(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, packages.TierGhost, pkg.Tier)
	assert.Equal(t, packages.UnlimitedRequests, pkg.Features.DailyRequestLimit)

	_, err = svc.Grant(context.Background(), 99, 5, packages.TierFree, packages.DurationMonthly)
	assert.ErrorIs(t, err, ErrFreeTier)
}

func TestExpireDueAndReminders(t *testing.T) {
	repo := &memoryRepo{}
	repo.seed(UserSubscription{UserID: 1, Tier: packages.TierBasic, Status: StatusActive, ExpiresAt: testNow.Add(-time.Hour)})
	repo.seed(UserSubscription{UserID: 2, Tier: packages.TierVIP, Status: StatusActive, ExpiresAt: testNow.AddDate(0, 0, 2)})
	repo.seed(UserSubscription{UserID: 3, Tier: packages.TierVIP, Status: StatusActive, ExpiresAt: testNow.AddDate(0, 0, 20)})
	svc := newTestService(repo)
	ctx := context.Background()

	count, err := svc.ExpireDue(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	expiring, err := svc.ExpiringWithin(ctx, 3)
	require.NoError(t, err)
	require.Len(t, expiring, 1)
	assert.Equal(t, int64(2), expiring[0].UserID)

	byTier, err := svc.ActiveByTier(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, byTier[packages.TierVIP])
	assert.Equal(t, 0, byTier[packages.TierBasic])
}

func TestActivate_PurchaseBelowCurrentTierIsRejected(t *testing.T) {
	repo := &memoryRepo{}
	svc := newTestService(repo)
	ctx := context.Background()

	q, err := svc.Quote(ctx, 1, packages.TierBasic, packages.DurationMonthly)
	require.NoError(t, err)
	assert.Equal(t, KindPurchase, q.Kind)

	repo.seed(UserSubscription{
		UserID:    1,
		Tier:      packages.TierPremium,
		Duration:  packages.DurationYearly,
		Status:    StatusActive,
		StartedAt: testNow.AddDate(0, 0, -1),
		ExpiresAt: testNow.AddDate(0, 0, 364),
	})

	_, err = svc.Activate(ctx, *q, "pay-basic", q.Amount)
	assert.ErrorIs(t, err, ErrDowngrade)

	current, err := svc.Current(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, packages.TierPremium, current.Tier)
	assert.Len(t, repo.subs, 1)
}

func TestActivate_UpgradeAfterExpiryIsStale(t *testing.T) {
	repo := &memoryRepo{}
	repo.seed(UserSubscription{
		UserID:    1,
		Tier:      packages.TierBasic,
		Duration:  packages.DurationMonthly,
		Status:    StatusActive,
		StartedAt: testNow.AddDate(0, 0, -28),
		ExpiresAt: testNow.AddDate(0, 0, 2),
	})
	now := testNow
	svc := NewService(repo, packages.NewManager(packages.DefaultCatalog()), WithClock(func() time.Time { return now }))
	ctx := context.Background()

	q, err := svc.Quote(ctx, 1, packages.TierVIP, packages.DurationMonthly)
	require.NoError(t, err)
	require.Equal(t, KindUpgrade, q.Kind)
	assert.Equal(t, 2, q.RemainingDays)

	now = testNow.AddDate(0, 0, 3)
	_, err = svc.Activate(ctx, *q, "pay-late", q.Amount)
	assert.ErrorIs(t, err, ErrStaleQuote)
	require.Len(t, repo.subs, 1)
	assert.Equal(t, StatusActive, repo.subs[0].Status)

	current, err := svc.Current(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestActivate_UpgradeFromReplacedTierIsStale(t *testing.T) {
	repo := &memoryRepo{}
	repo.seed(UserSubscription{
		UserID:    1,
		Tier:      packages.TierBasic,
		Duration:  packages.DurationMonthly,
		Status:    StatusActive,
		ExpiresAt: testNow.AddDate(0, 0, 20),
	})
	svc := newTestService(repo)
	ctx := context.Background()

	toVIP, err := svc.Quote(ctx, 1, packages.TierVIP, packages.DurationMonthly)
	require.NoError(t, err)
	toPremium, err := svc.Quote(ctx, 1, packages.TierPremium, packages.DurationMonthly)
	require.NoError(t, err)

	_, err = svc.Activate(ctx, *toPremium, "pay-premium", toPremium.Amount)
	require.NoError(t, err)

	_, err = svc.Activate(ctx, *toVIP, "pay-vip", toVIP.Amount)
	assert.ErrorIs(t, err, ErrStaleQuote)

	current, err := svc.Current(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, packages.TierPremium, current.Tier)
}

func TestActivate_ClosesLapsedSubscriptionAsExpired(t *testing.T) {
	repo := &memoryRepo{}
	repo.seed(UserSubscription{
		UserID:    1,
		Tier:      packages.TierBasic,
		Duration:  packages.DurationMonthly,
		Status:    StatusActive,
		ExpiresAt: testNow.Add(-time.Hour),
	})
	repo.seed(UserSubscription{
		UserID:    2,
		Tier:      packages.TierBasic,
		Duration:  packages.DurationMonthly,
		Status:    StatusActive,
		ExpiresAt: testNow.AddDate(0, 0, 10),
	})
	svc := newTestService(repo)
	ctx := context.Background()

	q, err := svc.Quote(ctx, 1, packages.TierBasic, packages.DurationMonthly)
	require.NoError(t, err)
	assert.Equal(t, KindPurchase, q.Kind)
	_, err = svc.Activate(ctx, *q, "pay-1", q.Amount)
	require.NoError(t, err)
	assert.Equal(t, StatusExpired, repo.subs[0].Status)

	up, err := svc.Quote(ctx, 2, packages.TierVIP, packages.DurationMonthly)
	require.NoError(t, err)
	_, err = svc.Activate(ctx, *up, "pay-2", up.Amount)
	require.NoError(t, err)
	assert.Equal(t, StatusCanceled, repo.subs[1].Status)
}
