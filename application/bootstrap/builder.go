// application/bootstrap/builder.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"mr-trader-bot/application/scheduler"
	"mr-trader-bot/internal/core/domain/admin"
	"mr-trader-bot/internal/core/domain/packages"
	"mr-trader-bot/internal/core/domain/payment"
	"mr-trader-bot/internal/core/domain/signal_feed"
	"mr-trader-bot/internal/core/domain/subscription"
	"mr-trader-bot/internal/core/domain/users"
	"mr-trader-bot/internal/delivery/telegram/app/bot"
	"mr-trader-bot/internal/delivery/telegram/app/bot/subscribers"
	"mr-trader-bot/internal/delivery/telegram/app/http_client"
	"mr-trader-bot/internal/infrastructure/cache/redis"
	"mr-trader-bot/internal/infrastructure/config"
	storage "mr-trader-bot/internal/infrastructure/persistence/in_memory_storage"
	"mr-trader-bot/internal/infrastructure/persistence/postgres/database"
	packages_repo "mr-trader-bot/internal/infrastructure/persistence/postgres/repository/packages"
	payment_repo "mr-trader-bot/internal/infrastructure/persistence/postgres/repository/payment"
	signals_repo "mr-trader-bot/internal/infrastructure/persistence/postgres/repository/signals"
	subscription_repo "mr-trader-bot/internal/infrastructure/persistence/postgres/repository/subscription"
	users_repo "mr-trader-bot/internal/infrastructure/persistence/postgres/repository/users"
	events "mr-trader-bot/internal/infrastructure/transport/event_bus"
	"mr-trader-bot/pkg/logger"
)

// AppBuilder строит приложение
type AppBuilder struct {
	config *config.Config
}

// NewAppBuilder создает новый построитель приложения
func NewAppBuilder() *AppBuilder {
	return &AppBuilder{}
}

// WithConfig устанавливает конфигурацию
func (b *AppBuilder) WithConfig(cfg *config.Config) *AppBuilder {
	b.config = cfg
	return b
}

// Build подключает инфраструктуру и собирает сервисы: infrastructure -> core -> delivery
func (b *AppBuilder) Build(ctx context.Context) (*Application, error) {
	if b.config == nil {
		return nil, errors.New("конфигурация не задана")
	}
	cfg := b.config
	app := &Application{config: cfg}

	// 1. Инфраструктура
	app.database = database.NewDatabaseService(cfg.Database)
	if err := app.database.Start(ctx); err != nil {
		return nil, fmt.Errorf("ошибка запуска базы данных: %w", err)
	}
	db := app.database.GetDB()

	var (
		cache   *redis.Cache
		limiter signal_feed.QuotaLimiter
	)
	if cfg.Redis.Enabled {
		app.redis = redis.NewRedisService(cfg.Redis)
		if err := app.redis.Start(ctx); err != nil {
			app.database.Stop()
			return nil, fmt.Errorf("ошибка запуска Redis: %w", err)
		}
		cache = app.redis.Cache()
		limiter = cache
	} else {
		logger.Warn("⚠️ Redis отключен: кэш каталога не используется, квоты считаются в памяти")
		limiter = storage.NewRateLimiter()
	}

	userRepo := users_repo.NewUserRepository(db)
	packageRepo := packages_repo.NewPackageRepository(db, cache, cfg.Redis.DefaultTTL)
	subscriptionRepo := subscription_repo.NewSubscriptionRepository(db)
	paymentRepo := payment_repo.NewPaymentRepository(db)
	signalRepo := signals_repo.NewSignalRepository(db)

	// 2. Каталог пакетов
	catalog, err := loadCatalog(ctx, packageRepo)
	if err != nil {
		app.stopInfrastructure()
		return nil, err
	}

	// 3. Доменные сервисы
	client := http_client.NewTelegramClient(cfg.Telegram.BaseURL(), cfg.Telegram.RequestTimeout)

	app.events = events.NewEventBus()
	app.events.Subscribe(subscribers.NewPaymentNotifier(client, cfg.Telegram.AdminIDs))

	userService := users.NewService(userRepo, cfg.Telegram)
	subscriptionService := subscription.NewService(subscriptionRepo, catalog)
	paymentService := payment.NewService(paymentRepo, subscriptionService, client, paymentConfig(cfg.Payments),
		payment.WithEvents(app.events))
	feedService := signal_feed.NewService(signalRepo, limiter, cfg.Signals.FeedLookback)
	adminService := admin.NewService(userService, subscriptionService, paymentRepo, catalog, packageRepo, client)

	// 4. Telegram
	app.bot = bot.NewTelegramBot(bot.Dependencies{
		Config:        cfg.Telegram,
		Client:        client,
		Users:         userService,
		Catalog:       catalog,
		Subscriptions: subscriptionService,
		Payments:      paymentService,
		Feed:          feedService,
		Publisher:     feedService,
		Admin:         adminService,
		FeedLimit:     cfg.Signals.FeedLimit,
	})

	// 5. Фоновые задачи
	app.scheduler = scheduler.New()
	if err := scheduler.RegisterTasks(app.scheduler, cfg.Scheduler, scheduler.Tasks{
		Subscriptions: subscriptionService,
		Payments:      paymentService,
		Sender:        app.bot,
	}); err != nil {
		app.stopInfrastructure()
		return nil, err
	}

	logger.Info("🏗️  Приложение собрано: %d пакетов, %d способов оплаты",
		len(catalog.Active()), len(paymentService.Methods()))
	return app, nil
}

// catalogStore источник каталога пакетов
type catalogStore interface {
	Seed(ctx context.Context, catalog []packages.Package) (int, error)
	LoadAll(ctx context.Context) ([]packages.Package, error)
}

// loadCatalog заполняет пустую таблицу каталогом по умолчанию и загружает его в память
func loadCatalog(ctx context.Context, store catalogStore) (*packages.Manager, error) {
	seeded, err := store.Seed(ctx, packages.DefaultCatalog())
	if err != nil {
		return nil, fmt.Errorf("ошибка заполнения каталога: %w", err)
	}
	if seeded > 0 {
		logger.Info("🌱 Каталог заполнен пакетами по умолчанию: %d", seeded)
	}

	list, err := store.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки каталога: %w", err)
	}

	catalog := packages.NewManager(packages.DefaultCatalog())
	if len(list) == 0 {
		logger.Warn("⚠️ Каталог в базе пуст, используются пакеты по умолчанию")
		return catalog, nil
	}
	catalog.ReplaceAll(list)
	return catalog, nil
}

func paymentConfig(c config.PaymentConfig) payment.Config {
	return payment.Config{
		StarsEnabled:  c.StarsEnabled,
		StarsPerUSD:   c.StarsPerUSD,
		CryptoEnabled: c.CryptoEnabled,
		TRC20Wallet:   c.TRC20Wallet,
		CardEnabled:   c.CardEnabled,
		CardNumber:    c.CardNumber,
		CardHolder:    c.CardHolder,
	}
}
