// internal/core/domain/signal_feed/service.go
package signal_feed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mr-trader-bot/internal/core/domain/packages"
	"mr-trader-bot/internal/core/domain/signals"
	"mr-trader-bot/pkg/logger"
)

// Ошибки ленты сигналов
var (
	ErrQuotaExceeded = errors.New("daily signal request limit reached")
	ErrInvalidSignal = errors.New("signal is not valid")
)

// Repository хранилище сигналов
type Repository interface {
	ListSince(ctx context.Context, since time.Time) ([]signals.Signal, error)
	Create(ctx context.Context, s signals.Signal) error
}

// QuotaLimiter счетчик запросов в окне времени
type QuotaLimiter interface {
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, int, error)
}

// Feed выдача сигналов пользователю
type Feed struct {
	Signals []signals.Signal
	Used    int
	Limit   int
	ResetAt time.Time
}

// Remaining оставшиеся запросы на сегодня
func (f Feed) Remaining() int {
	if f.Used >= f.Limit {
		return 0
	}
	return f.Limit - f.Used
}

// Service лента сигналов с учетом уровня пакета
type Service struct {
	repo     Repository
	limiter  QuotaLimiter
	lookback time.Duration
	now      func() time.Time
}

// Option опция сервиса
type Option func(*Service)

// WithClock подменяет источник текущего времени
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService создает ленту сигналов. lookback глубина выборки сигналов.
func NewService(repo Repository, limiter QuotaLimiter, lookback time.Duration, opts ...Option) *Service {
	if lookback <= 0 {
		lookback = 24 * time.Hour
	}
	s := &Service{
		repo:     repo,
		limiter:  limiter,
		lookback: lookback,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Latest лучшие актуальные сигналы для пакета пользователя. Каждый вызов
// расходует один запрос дневного лимита пакета.
func (s *Service) Latest(ctx context.Context, userID int64, pkg packages.Package, limit int) (*Feed, error) {
	now := s.now()
	resetAt := endOfDay(now)

	feed := &Feed{Limit: pkg.Features.DailyRequestLimit, ResetAt: resetAt}

	allowed, used, err := s.limiter.CheckRateLimit(ctx, quotaKey(userID, now), feed.Limit, resetAt.Sub(now))
	if err != nil {
		logger.Warn("⚠️ Лимит запросов недоступен, пропускаем проверку для %d: %v", userID, err)
		allowed = true
	}
	feed.Used = used
	if !allowed {
		return feed, fmt.Errorf("%w: %d/%d", ErrQuotaExceeded, used, feed.Limit)
	}

	recent, err := s.repo.ListSince(ctx, now.Add(-s.lookback))
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки сигналов: %w", err)
	}

	available := make([]signals.Signal, 0, len(recent))
	for _, sig := range recent {
		if sig.Strategy == "" || pkg.Features.HasStrategy(sig.Strategy) {
			available = append(available, sig)
		}
	}

	feed.Signals = signals.Rank(available, now, limit)
	logger.Debug("📡 Пользователь %d (%s): %d из %d сигналов, запрос %d/%d",
		userID, pkg.Tier, len(feed.Signals), len(recent), feed.Used, feed.Limit)
	return feed, nil
}

// Publish сохраняет новый сигнал
func (s *Service) Publish(ctx context.Context, sig signals.Signal) error {
	if !signals.IsValid(sig, s.now()) {
		return fmt.Errorf("%w: %s", ErrInvalidSignal, sig.Pair())
	}
	if err := s.repo.Create(ctx, sig); err != nil {
		return fmt.Errorf("ошибка сохранения сигнала %s: %w", sig.ID, err)
	}

	logger.Info("📈 Опубликован сигнал %s %s (%s, риск %s, оценка %.3f)",
		sig.Pair(), sig.Type, sig.Timeframe, sig.RiskLevel, signals.Score(sig))
	return nil
}

func quotaKey(userID int64, now time.Time) string {
	return fmt.Sprintf("quota:signals:%d:%s", userID, now.UTC().Format("20060102"))
}

// endOfDay начало следующих суток UTC
func endOfDay(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, time.UTC)
}
