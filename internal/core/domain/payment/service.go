// internal/core/domain/payment/service.go
package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mr-trader-bot/internal/core/domain/packages"
	"mr-trader-bot/internal/core/domain/subscription"
	events "mr-trader-bot/internal/infrastructure/transport/event_bus"
	"mr-trader-bot/pkg/logger"

	"github.com/google/uuid"
)

// Service сервис платежей за пакеты
type Service struct {
	repo     Repository
	subs     Subscriptions
	invoices InvoiceCreator
	config   Config
	events   EventPublisher
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

// WithEvents публикует события о подтвержденных платежах
func WithEvents(publisher EventPublisher) Option {
	return func(s *Service) {
		s.events = publisher
	}
}

// NewService создает новый сервис платежей
func NewService(repo Repository, subs Subscriptions, invoices InvoiceCreator, config Config, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		subs:     subs,
		invoices: invoices,
		config:   config,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Methods доступные способы оплаты
func (s *Service) Methods() []Method {
	return s.config.Methods()
}

// ParseID разбирает идентификатор платежа из аргумента команды
func ParseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrNotFound, raw)
	}
	return id, nil
}

// Checkout оформляет покупку пакета выбранным способом оплаты
func (s *Service) Checkout(ctx context.Context, userID, chatID int64, tier packages.Tier, duration packages.Duration, method Method) (*CheckoutResult, error) {
	q, err := s.subs.Quote(ctx, userID, tier, duration)
	if err != nil {
		return nil, err
	}

	result := &CheckoutResult{Quote: *q}
	if q.IsFree() {
		sub, err := s.subs.Activate(ctx, *q, "", q.Amount)
		if err != nil {
			return nil, err
		}
		result.Activated = sub
		return result, nil
	}

	if !s.config.Enabled(method) {
		return nil, fmt.Errorf("%w: %s", ErrMethodDisabled, method)
	}

	now := s.now()
	p := &Payment{
		ID:        uuid.New(),
		UserID:    userID,
		ChatID:    chatID,
		Method:    method,
		Status:    StatusPending,
		QuoteKind: q.Kind,
		Tier:      q.To,
		Duration:  q.Duration,
		AmountUSD: q.Amount,
		CreatedAt: now,
		UpdatedAt: now,
	}

	switch method {
	case MethodStars:
		p.AmountStars = StarsAmount(q.Amount, s.config.StarsPerUSD)
		if p.AmountStars > MaxStarsPerInvoice {
			return nil, fmt.Errorf("%w: %d", ErrAmountTooLarge, p.AmountStars)
		}
		p.Payload = invoicePayload(p.ID)

		url, err := s.invoices.CreateInvoiceLink(ctx, Invoice{
			Title:       invoiceTitle(q.To, q.Duration),
			Description: fmt.Sprintf("%s: %s", q.Kind, invoiceTitle(q.To, q.Duration)),
			Payload:     p.Payload,
			Stars:       p.AmountStars,
		})
		if err != nil {
			return nil, fmt.Errorf("ошибка создания счета Stars: %w", err)
		}
		result.InvoiceURL = url
	case MethodTRC20:
		result.Destination = s.config.TRC20Wallet
	case MethodCard:
		result.Destination = s.config.CardNumber
		result.Holder = s.config.CardHolder
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("ошибка сохранения платежа: %w", err)
	}

	logger.Payment(p.ID.String(), string(p.Method), string(p.Status), p.AmountUSD.StringFixed(2))
	result.Payment = p
	return result, nil
}

// ValidatePreCheckout проверяет счет Stars перед списанием
func (s *Service) ValidatePreCheckout(ctx context.Context, payload, currency string, totalAmount int) error {
	p, err := s.repo.GetByPayload(ctx, payload)
	if err != nil {
		return err
	}
	return checkStars(p, currency, totalAmount)
}

// ConfirmStars подтверждает успешную оплату Stars и активирует подписку
func (s *Service) ConfirmStars(ctx context.Context, payload, currency string, totalAmount int, chargeID string) (*Payment, *subscription.UserSubscription, error) {
	p, err := s.repo.GetByPayload(ctx, payload)
	if err != nil {
		return nil, nil, err
	}
	// повторная доставка successful_payment
	if p.Status == StatusConfirmed && p.ChargeID == chargeID {
		sub, err := s.subs.Current(ctx, p.UserID)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("🔁 Платеж %s уже подтвержден, повтор charge=%s", p.ShortID(), chargeID)
		return p, sub, nil
	}
	if err := checkStars(p, currency, totalAmount); err != nil {
		return nil, nil, err
	}

	p.ChargeID = chargeID
	sub, err := s.settle(ctx, p, nil)
	if err != nil {
		if errors.Is(err, subscription.ErrStaleQuote) || errors.Is(err, subscription.ErrDowngrade) {
			s.holdForReview(ctx, p)
		}
		return nil, nil, err
	}
	return p, sub, nil
}

// holdForReview переводит оплаченный счет Stars с устаревшим расчетом на проверку администратором
func (s *Service) holdForReview(ctx context.Context, p *Payment) {
	p.Status = StatusAwaitingReview
	p.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, p); err != nil {
		logger.Error("❌ Платеж %s не переведен на проверку: %v", p.ID, err)
		return
	}
	logger.Warn("⚠️ Платеж %s оплачен по устаревшему расчету и ожидает решения администратора", p.ShortID())
}

// SubmitReference принимает идентификатор перевода и отправляет платеж на проверку
func (s *Service) SubmitReference(ctx context.Context, id uuid.UUID, userID int64, reference string) (*Payment, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if !p.Method.IsManual() {
		return nil, fmt.Errorf("%w: %s оплачивается через счет", ErrInvalidState, p.Method)
	}
	if p.Status != StatusPending {
		return nil, fmt.Errorf("%w: %s", ErrInvalidState, p.Status)
	}

	ref, err := NormalizeReference(p.Method, reference)
	if err != nil {
		return nil, err
	}

	p.Reference = ref
	p.Status = StatusAwaitingReview
	p.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	logger.Payment(p.ID.String(), string(p.Method), string(p.Status), p.AmountUSD.StringFixed(2))
	return p, nil
}

// Approve подтверждает ручной платеж администратором
func (s *Service) Approve(ctx context.Context, id uuid.UUID, adminID int64) (*Payment, *subscription.UserSubscription, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if p.Status != StatusAwaitingReview {
		return nil, nil, fmt.Errorf("%w: %s", ErrInvalidState, p.Status)
	}

	sub, err := s.settle(ctx, p, &adminID)
	if err != nil {
		return nil, nil, err
	}
	return p, sub, nil
}

// Reject отклоняет ручной платеж
func (s *Service) Reject(ctx context.Context, id uuid.UUID, adminID int64) (*Payment, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status != StatusAwaitingReview && p.Status != StatusPending {
		return nil, fmt.Errorf("%w: %s", ErrInvalidState, p.Status)
	}

	p.Status = StatusRejected
	p.ReviewedBy = &adminID
	p.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	logger.Payment(p.ID.String(), string(p.Method), string(p.Status), p.AmountUSD.StringFixed(2))
	return p, nil
}

// PendingReviews платежи, ожидающие проверки администратором
func (s *Service) PendingReviews(ctx context.Context, limit int) ([]Payment, error) {
	return s.repo.ListByStatus(ctx, StatusAwaitingReview, limit)
}

// CancelStale отменяет неоплаченные платежи старше maxAge
func (s *Service) CancelStale(ctx context.Context, maxAge time.Duration) (int, error) {
	pending, err := s.repo.ListByStatus(ctx, StatusPending, 0)
	if err != nil {
		return 0, fmt.Errorf("ошибка получения ожидающих платежей: %w", err)
	}

	now := s.now()
	canceled := 0
	for i := range pending {
		p := &pending[i]
		if now.Sub(p.CreatedAt) < maxAge {
			continue
		}
		p.Status = StatusCanceled
		p.UpdatedAt = now
		if err := s.repo.Update(ctx, p); err != nil {
			logger.Warn("⚠️ Не удалось отменить платеж %s: %v", p.ID, err)
			continue
		}
		canceled++
	}
	if canceled > 0 {
		logger.Info("🧹 Отменено просроченных платежей: %d", canceled)
	}
	return canceled, nil
}

// settle активирует подписку по сохраненному расчету и подтверждает платеж.
// Расчет сверяется с текущей подпиской при активации; устаревший отклоняется.
func (s *Service) settle(ctx context.Context, p *Payment, reviewer *int64) (*subscription.UserSubscription, error) {
	q := subscription.Quote{
		UserID:   p.UserID,
		Kind:     p.QuoteKind,
		To:       p.Tier,
		Duration: p.Duration,
		Amount:   p.AmountUSD,
		QuotedAt: p.CreatedAt,
	}

	sub, err := s.subs.Activate(ctx, q, p.ID.String(), p.AmountUSD)
	if err != nil {
		logger.Error("❌ Платеж %s получен, но подписка не активирована: %v", p.ID, err)
		return nil, fmt.Errorf("ошибка активации подписки по платежу %s: %w", p.ID, err)
	}

	p.Status = StatusConfirmed
	p.ReviewedBy = reviewer
	p.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, p); err != nil {
		logger.Error("❌ Подписка активирована, но платеж %s не сохранен: %v", p.ID, err)
		return sub, nil
	}

	logger.Payment(p.ID.String(), string(p.Method), string(p.Status), p.AmountUSD.StringFixed(2))
	s.publishConfirmed(*p, *sub)
	return sub, nil
}

func (s *Service) publishConfirmed(p Payment, sub subscription.UserSubscription) {
	if s.events == nil {
		return
	}
	err := s.events.Publish(events.Event{
		Type:   events.EventPaymentConfirmed,
		Source: "payment_service",
		Data:   ConfirmedEvent{Payment: p, Subscription: sub},
	})
	if err != nil {
		logger.Warn("⚠️ Событие о платеже %s не опубликовано: %v", p.ID, err)
	}
}

func checkStars(p *Payment, currency string, totalAmount int) error {
	if p.Method != MethodStars {
		return fmt.Errorf("%w: способ %s", ErrInvalidState, p.Method)
	}
	if p.Status != StatusPending {
		return fmt.Errorf("%w: %s", ErrInvalidState, p.Status)
	}
	if currency != "XTR" || totalAmount != p.AmountStars {
		return fmt.Errorf("%w: ожидается %d XTR, получено %d %s", ErrAmountMismatch, p.AmountStars, totalAmount, currency)
	}
	return nil
}

// IsUserError ошибка, которую можно показать пользователю как есть
func IsUserError(err error) bool {
	for _, target := range []error{
		ErrNotFound, ErrMethodDisabled, ErrUnknownMethod, ErrInvalidReference,
		ErrDuplicateReference, ErrInvalidState, ErrAmountTooLarge,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
