// internal/delivery/telegram/app/bot/polling.go
package bot

import (
	"context"
	"time"

	"mr-trader-bot/pkg/logger"
)

const (
	minRetryDelay = time.Second
	maxRetryDelay = 30 * time.Second
)

// Run получает обновления long-polling до отмены контекста
func (b *TelegramBot) Run(ctx context.Context) error {
	logger.Info("🔄 Запуск Telegram polling (timeout=%ds)...", b.pollingTimeout)

	delay := minRetryDelay
	for {
		select {
		case <-ctx.Done():
			logger.Info("🛑 Telegram polling остановлен")
			return nil
		default:
		}

		updates, err := b.client.GetUpdates(ctx, b.offset, b.pollingTimeout)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			logger.Warn("⚠️ Ошибка получения обновлений: %v (повтор через %s)", err, delay)
			select {
			case <-ctx.Done():
			case <-time.After(delay):
			}
			delay = nextDelay(delay)
			continue
		}
		delay = minRetryDelay

		for i := range updates {
			b.process(ctx, updates[i].UpdateID, func(uctx context.Context) error {
				return b.HandleUpdate(uctx, &updates[i])
			})
			b.offset = updates[i].UpdateID + 1
		}
	}
}

// process выполняет обработку одного обновления с таймаутом и защитой от паники
func (b *TelegramBot) process(ctx context.Context, updateID int, fn func(context.Context) error) {
	uctx, cancel := context.WithTimeout(ctx, b.updateTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("💥 Паника при обработке обновления %d: %v", updateID, r)
		}
	}()

	if err := fn(uctx); err != nil {
		logger.Error("❌ Ошибка обработки обновления %d: %v", updateID, err)
	}
}

func nextDelay(d time.Duration) time.Duration {
	d *= 2
	if d > maxRetryDelay {
		return maxRetryDelay
	}
	return d
}
