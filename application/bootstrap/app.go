// application/bootstrap/app.go
package bootstrap

import (
	"context"
	"errors"
	"sync"
	"time"

	"mr-trader-bot/application/scheduler"
	"mr-trader-bot/internal/delivery/telegram/app/bot"
	"mr-trader-bot/internal/infrastructure/cache/redis"
	"mr-trader-bot/internal/infrastructure/config"
	"mr-trader-bot/internal/infrastructure/persistence/postgres/database"
	events "mr-trader-bot/internal/infrastructure/transport/event_bus"
	"mr-trader-bot/pkg/logger"
)

// Application - основное приложение
type Application struct {
	config    *config.Config
	database  *database.DatabaseService
	redis     *redis.RedisService
	events    *events.EventBus
	bot       *bot.TelegramBot
	scheduler *scheduler.Scheduler

	mu        sync.Mutex
	running   bool
	startTime time.Time
}

// Run запускает планировщик и polling бота. Блокирует до отмены контекста.
func (app *Application) Run(ctx context.Context) error {
	app.mu.Lock()
	if app.running {
		app.mu.Unlock()
		return errors.New("приложение уже запущено")
	}
	app.running = true
	app.startTime = time.Now()
	app.mu.Unlock()

	if err := app.bot.SetMyCommands(ctx); err != nil {
		logger.Warn("⚠️ Не удалось установить меню команд: %v", err)
	}

	app.events.Start()
	app.scheduler.Start()
	logger.Info("🚀 Бот запущен")

	err := app.bot.Run(ctx)
	app.shutdown()
	return err
}

// IsRunning проверяет, запущено ли приложение
func (app *Application) IsRunning() bool {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.running
}

// shutdown останавливает планировщик и закрывает соединения
func (app *Application) shutdown() {
	app.mu.Lock()
	defer app.mu.Unlock()

	if !app.running {
		return
	}
	logger.Info("🛑 Останавливаем приложение...")

	app.scheduler.Stop()
	app.events.Stop()
	app.stopInfrastructure()

	app.running = false
	logger.Info("✅ Приложение остановлено. Время работы: %v", time.Since(app.startTime).Round(time.Second))
}

func (app *Application) stopInfrastructure() {
	if app.redis != nil && app.redis.State() == redis.StateRunning {
		if err := app.redis.Stop(); err != nil {
			logger.Warn("⚠️ Ошибка остановки Redis: %v", err)
		}
	}
	if app.database != nil && app.database.State() == database.StateRunning {
		if err := app.database.Stop(); err != nil {
			logger.Warn("⚠️ Ошибка остановки базы данных: %v", err)
		}
	}
}
