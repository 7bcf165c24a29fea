// internal/core/domain/subscription/service.go
package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mr-trader-bot/internal/core/domain/packages"
	"mr-trader-bot/pkg/logger"

	"github.com/shopspring/decimal"
)

// Service сервис управления подписками
type Service struct {
	repo    Repository
	catalog Catalog
	now     func() time.Time
}

// Option опция сервиса
type Option func(*Service)

// WithClock подменяет источник текущего времени
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService создает новый сервис подписок
func NewService(repo Repository, catalog Catalog, opts ...Option) *Service {
	s := &Service{
		repo:    repo,
		catalog: catalog,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Current активная неистекшая подписка пользователя или nil
func (s *Service) Current(ctx context.Context, userID int64) (*UserSubscription, error) {
	return s.current(ctx, userID, s.now())
}

func (s *Service) current(ctx context.Context, userID int64, now time.Time) (*UserSubscription, error) {
	sub, err := s.repo.GetActive(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка получения подписки пользователя %d: %w", userID, err)
	}
	if !sub.IsActive(now) {
		return nil, nil
	}
	return sub, nil
}

// ActivePackage пакет, доступный пользователю сейчас (Free без подписки)
func (s *Service) ActivePackage(ctx context.Context, userID int64) (packages.Package, *UserSubscription, error) {
	sub, err := s.Current(ctx, userID)
	if err != nil {
		return packages.Package{}, nil, err
	}
	if sub == nil {
		return s.catalog.Free(), nil, nil
	}

	pkg, err := s.catalog.Get(sub.Tier)
	if err != nil {
		return packages.Package{}, nil, err
	}
	return pkg, sub, nil
}

// Quote рассчитывает стоимость перехода пользователя на уровень tier
func (s *Service) Quote(ctx context.Context, userID int64, tier packages.Tier, duration packages.Duration) (*Quote, error) {
	if !duration.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrDurationUnavailable, duration)
	}
	if tier == packages.TierFree {
		return nil, ErrFreeTier
	}

	target, err := s.catalog.Get(tier)
	if err != nil {
		return nil, err
	}
	if !target.IsActive {
		return nil, fmt.Errorf("%w: %s", ErrPackageUnavailable, tier)
	}

	now := s.now()
	current, err := s.current(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	q := &Quote{
		UserID:   userID,
		To:       tier,
		Duration: duration,
		QuotedAt: now,
	}

	switch {
	case current == nil:
		if !offered(target, duration, now) {
			return nil, fmt.Errorf("%w: %s %s", ErrDurationUnavailable, tier, duration)
		}
		q.Kind = KindPurchase
		q.Amount = packages.EffectivePrice(target.Pricing, duration, now)
		q.ExpiresAt = packages.CalculateExpiry(now, duration)

	case current.Tier == tier:
		if !offered(target, duration, now) {
			return nil, fmt.Errorf("%w: %s %s", ErrDurationUnavailable, tier, duration)
		}
		q.Kind = KindRenewal
		q.From = current.Tier
		q.Amount = packages.EffectivePrice(target.Pricing, duration, now)
		q.RemainingDays = packages.RemainingDays(current.ExpiresAt, now)
		q.ExpiresAt = packages.CalculateExpiry(current.ExpiresAt, duration)

	case tier.Level() > current.Tier.Level():
		from, err := s.catalog.Get(current.Tier)
		if err != nil {
			return nil, err
		}
		// доплата считается за остаток текущего периода
		if !offered(target, current.Duration, now) {
			return nil, fmt.Errorf("%w: %s %s", ErrDurationUnavailable, tier, current.Duration)
		}
		remaining := packages.RemainingDays(current.ExpiresAt, now)
		q.Kind = KindUpgrade
		q.From = current.Tier
		q.Duration = current.Duration
		q.RemainingDays = remaining
		q.Amount = packages.CalculateUpgradePrice(from, target, current.Duration, remaining, now)
		q.ExpiresAt = current.ExpiresAt

	default:
		return nil, fmt.Errorf("%w: %s -> %s", ErrDowngrade, current.Tier, tier)
	}

	return q, nil
}

// Activate сохраняет подписку по оплаченному расчету. Сроки пересчитываются
// по состоянию на момент активации.
func (s *Service) Activate(ctx context.Context, q Quote, paymentID string, amount decimal.Decimal) (*UserSubscription, error) {
	return s.activate(ctx, q, paymentID, amount, nil)
}

// Grant выдает пакет администратором без оплаты
func (s *Service) Grant(ctx context.Context, adminID, userID int64, tier packages.Tier, duration packages.Duration) (*UserSubscription, error) {
	if tier == packages.TierFree {
		return nil, ErrFreeTier
	}
	if !duration.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrDurationUnavailable, duration)
	}
	if _, err := s.catalog.Get(tier); err != nil {
		return nil, err
	}

	q := Quote{UserID: userID, Kind: KindGrant, To: tier, Duration: duration, QuotedAt: s.now()}
	sub, err := s.activate(ctx, q, "", decimal.Zero, &adminID)
	if err != nil {
		return nil, err
	}

	logger.Info("🎁 Администратор %d выдал пакет %s (%s) пользователю %d", adminID, tier, duration, userID)
	return sub, nil
}

func (s *Service) activate(ctx context.Context, q Quote, paymentID string, amount decimal.Decimal, grantedBy *int64) (*UserSubscription, error) {
	now := s.now()

	previous, err := s.repo.GetActive(ctx, q.UserID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("ошибка получения подписки пользователя %d: %w", q.UserID, err)
	}

	var closing *Closing
	var current *UserSubscription
	if previous != nil {
		closing = &Closing{ID: previous.ID, Status: StatusCanceled}
		if previous.IsActive(now) {
			current = previous
		} else {
			closing.Status = StatusExpired
		}
	}

	if err := checkQuote(q, current); err != nil {
		logger.Warn("⚠️ Расчет %s для пользователя %d отклонен: %v", q.Kind, q.UserID, err)
		return nil, err
	}

	sub := &UserSubscription{
		UserID:     q.UserID,
		Tier:       q.To,
		Duration:   q.Duration,
		Status:     StatusActive,
		PaymentID:  paymentID,
		AmountPaid: amount,
		GrantedBy:  grantedBy,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	switch {
	case q.Kind == KindUpgrade:
		sub.Duration = current.Duration
		sub.StartedAt = now
		sub.ExpiresAt = current.ExpiresAt
	case current != nil && current.Tier == q.To:
		sub.StartedAt = current.StartedAt
		sub.ExpiresAt = packages.CalculateExpiry(current.ExpiresAt, q.Duration)
	default:
		sub.StartedAt = now
		sub.ExpiresAt = packages.CalculateExpiry(now, q.Duration)
	}

	if err := s.repo.Activate(ctx, closing, sub); err != nil {
		return nil, fmt.Errorf("ошибка активации подписки: %w", err)
	}

	logger.Info("✅ Подписка %s активирована: user=%d tier=%s до %s",
		q.Kind, q.UserID, sub.Tier, sub.ExpiresAt.Format("2006-01-02"))
	return sub, nil
}

// ExpireDue закрывает истекшие подписки
func (s *Service) ExpireDue(ctx context.Context) (int64, error) {
	count, err := s.repo.ExpireDue(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("ошибка закрытия истекших подписок: %w", err)
	}
	if count > 0 {
		logger.Info("⌛ Истекло подписок: %d", count)
	}
	return count, nil
}

// ExpiringWithin активные подписки, истекающие в ближайшие days дней
func (s *Service) ExpiringWithin(ctx context.Context, days int) ([]UserSubscription, error) {
	now := s.now()
	return s.repo.ListExpiring(ctx, now, now.AddDate(0, 0, days))
}

// ActiveByTier количество активных подписок по уровням
func (s *Service) ActiveByTier(ctx context.Context) (map[packages.Tier]int, error) {
	return s.repo.CountActiveByTier(ctx, s.now())
}

// checkQuote сверяет расчет с подпиской на момент активации: повышение
// действительно только от того же уровня, понижение запрещено для любого вида
func checkQuote(q Quote, current *UserSubscription) error {
	if q.Kind == KindUpgrade && (current == nil || current.Tier != q.From) {
		return fmt.Errorf("%w: повышение с %s", ErrStaleQuote, q.From)
	}
	if current != nil && q.To.Level() < current.Tier.Level() {
		return fmt.Errorf("%w: %s -> %s", ErrDowngrade, current.Tier, q.To)
	}
	return nil
}

func offered(p packages.Package, duration packages.Duration, now time.Time) bool {
	return p.Pricing.IsOffered(duration) || p.Pricing.PromotionActive(now)
}
