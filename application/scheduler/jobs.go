// application/scheduler/jobs.go
package scheduler

import (
	"context"
	"fmt"
	"time"

	"mr-trader-bot/internal/core/domain/subscription"
	"mr-trader-bot/internal/delivery/telegram/app/bot/formatters"
	"mr-trader-bot/internal/infrastructure/config"
	"mr-trader-bot/pkg/logger"
)

// Имена задач
const (
	JobExpirySweep    = "subscription_expiry"
	JobExpiryReminder = "expiry_reminder"
	JobPaymentCleanup = "payment_cleanup"
)

// Subscriptions операции подписок для фоновых задач
type Subscriptions interface {
	ExpireDue(ctx context.Context) (int64, error)
	ExpiringWithin(ctx context.Context, days int) ([]subscription.UserSubscription, error)
}

// Payments операции платежей для фоновых задач
type Payments interface {
	CancelStale(ctx context.Context, maxAge time.Duration) (int, error)
}

// Sender отправка сообщения в чат
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// Tasks зависимости фоновых задач
type Tasks struct {
	Subscriptions Subscriptions
	Payments      Payments
	Sender        Sender
	Now           func() time.Time
}

// RegisterTasks регистрирует стандартные задачи бота
func RegisterTasks(s *Scheduler, cfg config.SchedulerConfig, t Tasks) error {
	if t.Now == nil {
		t.Now = time.Now
	}

	jobs := []*Job{
		{
			Name:        JobExpirySweep,
			Description: "Закрытие истекших подписок",
			Spec:        cfg.ExpirySweepCron,
			Handler: func(ctx context.Context) error {
				_, err := t.Subscriptions.ExpireDue(ctx)
				return err
			},
		},
		{
			Name:        JobExpiryReminder,
			Description: "Напоминание о скором окончании подписки",
			Spec:        cfg.ReminderCron,
			Handler: func(ctx context.Context) error {
				return remindExpiring(ctx, t, cfg.ReminderDays)
			},
		},
		{
			Name:        JobPaymentCleanup,
			Description: "Отмена неоплаченных счетов",
			Spec:        cfg.PaymentCleanupCron,
			Handler: func(ctx context.Context) error {
				_, err := t.Payments.CancelStale(ctx, cfg.PendingPaymentTTL)
				return err
			},
		},
	}

	for _, job := range jobs {
		if job.Spec == "" {
			logger.Warn("⚠️ [Scheduler] Задача %q отключена: пустое расписание", job.Name)
			continue
		}
		if err := s.Register(job); err != nil {
			return err
		}
	}
	return nil
}

func remindExpiring(ctx context.Context, t Tasks, days int) error {
	subs, err := t.Subscriptions.ExpiringWithin(ctx, days)
	if err != nil {
		return fmt.Errorf("ошибка получения истекающих подписок: %w", err)
	}

	now := t.Now()
	sent := 0
	for _, sub := range subs {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := t.Sender.SendMessage(ctx, sub.UserID, formatters.FormatExpiryReminder(sub, now)); err != nil {
			logger.Warn("⚠️ Напоминание пользователю %d не доставлено: %v", sub.UserID, err)
			continue
		}
		sent++
	}
	if len(subs) > 0 {
		logger.Info("⏰ Напоминаний отправлено: %d из %d", sent, len(subs))
	}
	return nil
}
