// internal/core/domain/admin/service.go
package admin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mr-trader-bot/internal/core/domain/packages"
	"mr-trader-bot/internal/core/domain/payment"
	"mr-trader-bot/pkg/logger"

	"github.com/shopspring/decimal"
)

// ErrInvalidDiscount скидка вне диапазона 0-100
var ErrInvalidDiscount = errors.New("discount must be between 0 and 100")

// Users источник данных о пользователях
type Users interface {
	Count(ctx context.Context) (int, error)
	ChatIDs(ctx context.Context) ([]int64, error)
}

// Subscriptions статистика подписок
type Subscriptions interface {
	ActiveByTier(ctx context.Context) (map[packages.Tier]int, error)
}

// Payments статистика платежей
type Payments interface {
	RevenueByMethod(ctx context.Context, from, to time.Time) (map[payment.Method]decimal.Decimal, error)
	CountByStatus(ctx context.Context, status payment.Status) (int, error)
}

// Catalog каталог пакетов в памяти
type Catalog interface {
	Get(tier packages.Tier) (packages.Package, error)
	Replace(p packages.Package) error
}

// PackageStore постоянное хранилище пакетов
type PackageStore interface {
	Save(ctx context.Context, p packages.Package) error
}

// Sender отправка сообщения в чат
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// Report сводка для администратора
type Report struct {
	From           time.Time
	To             time.Time
	Users          int
	ActiveByTier   map[packages.Tier]int
	Revenue        map[payment.Method]decimal.Decimal
	PendingReviews int
}

// TotalRevenue выручка по всем способам оплаты
func (r Report) TotalRevenue() decimal.Decimal {
	total := decimal.Zero
	for _, amount := range r.Revenue {
		total = total.Add(amount)
	}
	return total
}

// TotalActive количество активных подписок
func (r Report) TotalActive() int {
	total := 0
	for _, n := range r.ActiveByTier {
		total += n
	}
	return total
}

// Верхняя граница фоновой рассылки
const broadcastTimeout = 6 * time.Hour

// BroadcastResult итог рассылки
type BroadcastResult struct {
	Sent   int
	Failed int
}

// Service административные операции
type Service struct {
	users    Users
	subs     Subscriptions
	payments Payments
	catalog  Catalog
	store    PackageStore
	sender   Sender
	interval time.Duration
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

// WithBroadcastInterval пауза между сообщениями рассылки
func WithBroadcastInterval(d time.Duration) Option {
	return func(s *Service) {
		s.interval = d
	}
}

// NewService создает сервис администратора
func NewService(users Users, subs Subscriptions, payments Payments, catalog Catalog, store PackageStore, sender Sender, opts ...Option) *Service {
	s := &Service{
		users:    users,
		subs:     subs,
		payments: payments,
		catalog:  catalog,
		store:    store,
		sender:   sender,
		interval: 40 * time.Millisecond, // ~25 сообщений в секунду
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Report собирает сводку за период
func (s *Service) Report(ctx context.Context, from, to time.Time) (*Report, error) {
	users, err := s.users.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка подсчета пользователей: %w", err)
	}
	byTier, err := s.subs.ActiveByTier(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка подсчета подписок: %w", err)
	}
	revenue, err := s.payments.RevenueByMethod(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("ошибка подсчета выручки: %w", err)
	}
	pending, err := s.payments.CountByStatus(ctx, payment.StatusAwaitingReview)
	if err != nil {
		return nil, fmt.Errorf("ошибка подсчета платежей на проверке: %w", err)
	}

	return &Report{
		From:           from,
		To:             to,
		Users:          users,
		ActiveByTier:   byTier,
		Revenue:        revenue,
		PendingReviews: pending,
	}, nil
}

// ReportLastDays сводка за последние days дней
func (s *Service) ReportLastDays(ctx context.Context, days int) (*Report, error) {
	now := s.now()
	return s.Report(ctx, now.AddDate(0, 0, -days), now)
}

// Broadcast отправляет сообщение всем пользователям. Ошибка отдельного чата
// не прерывает рассылку.
func (s *Service) Broadcast(ctx context.Context, text string) (BroadcastResult, error) {
	var result BroadcastResult

	chatIDs, err := s.users.ChatIDs(ctx)
	if err != nil {
		return result, fmt.Errorf("ошибка получения списка чатов: %w", err)
	}

	for i, chatID := range chatIDs {
		if i > 0 && s.interval > 0 {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			case <-time.After(s.interval):
			}
		}
		if err := s.sender.SendMessage(ctx, chatID, text); err != nil {
			logger.Warn("⚠️ Рассылка: чат %d недоступен: %v", chatID, err)
			result.Failed++
			continue
		}
		result.Sent++
	}

	logger.Info("📢 Рассылка завершена: отправлено %d, ошибок %d", result.Sent, result.Failed)
	return result, nil
}

// StartBroadcast запускает рассылку в фоне. Рассылка не зависит от отмены ctx
// и ограничена только broadcastTimeout; done получает итог.
func (s *Service) StartBroadcast(ctx context.Context, text string, done func(BroadcastResult, error)) {
	bctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), broadcastTimeout)
	go func() {
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				logger.Error("❌ Паника в рассылке: %v", r)
			}
		}()

		result, err := s.Broadcast(bctx, text)
		if err != nil {
			logger.Error("❌ Рассылка прервана: отправлено %d, ошибок %d: %v", result.Sent, result.Failed, err)
		}
		if done != nil {
			done(result, err)
		}
	}()
}

// SetPromotion устанавливает акционную цену пакета до until
func (s *Service) SetPromotion(ctx context.Context, tier packages.Tier, price decimal.Decimal, until time.Time) (packages.Package, error) {
	if price.IsNegative() {
		return packages.Package{}, fmt.Errorf("акционная цена не может быть отрицательной")
	}
	if !until.After(s.now()) {
		return packages.Package{}, fmt.Errorf("окончание акции должно быть в будущем")
	}
	return s.update(ctx, tier, func(p *packages.Package) {
		p.Pricing.PromotionalPrice = &price
		p.Pricing.PromotionalExpiry = &until
	})
}

// ClearPromotion снимает акцию с пакета
func (s *Service) ClearPromotion(ctx context.Context, tier packages.Tier) (packages.Package, error) {
	return s.update(ctx, tier, func(p *packages.Package) {
		p.Pricing.PromotionalPrice = nil
		p.Pricing.PromotionalExpiry = nil
	})
}

// SetDiscount задает процент скидки пакета
func (s *Service) SetDiscount(ctx context.Context, tier packages.Tier, percent decimal.Decimal) (packages.Package, error) {
	if percent.IsNegative() || percent.GreaterThan(decimal.NewFromInt(100)) {
		return packages.Package{}, ErrInvalidDiscount
	}
	return s.update(ctx, tier, func(p *packages.Package) {
		p.Pricing.DiscountPercentage = percent
	})
}

// SetActive включает или скрывает пакет
func (s *Service) SetActive(ctx context.Context, tier packages.Tier, active bool) (packages.Package, error) {
	return s.update(ctx, tier, func(p *packages.Package) {
		p.IsActive = active
	})
}

// update правка пакета заменяет запись целиком в хранилище и каталоге
func (s *Service) update(ctx context.Context, tier packages.Tier, edit func(*packages.Package)) (packages.Package, error) {
	pkg, err := s.catalog.Get(tier)
	if err != nil {
		return packages.Package{}, err
	}
	edit(&pkg)

	if err := s.store.Save(ctx, pkg); err != nil {
		return packages.Package{}, fmt.Errorf("ошибка сохранения пакета %s: %w", tier, err)
	}
	if err := s.catalog.Replace(pkg); err != nil {
		return packages.Package{}, err
	}

	logger.Info("🛠️ Пакет %s обновлен", tier)
	return pkg, nil
}
