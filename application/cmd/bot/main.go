// application/cmd/bot/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"mr-trader-bot/application/bootstrap"
	"mr-trader-bot/internal/infrastructure/config"
	"mr-trader-bot/pkg/logger"
)

var (
	version   = "1.0.0"
	buildTime = "неизвестно"
)

func main() {
	var (
		env         string
		cfgPath     string
		logLevel    string
		showVersion bool
	)

	flag.StringVar(&env, "env", "dev", "Окружение (dev/prod)")
	flag.StringVar(&cfgPath, "config", "", "Путь к .env файлу (переопределяет env)")
	flag.StringVar(&logLevel, "log-level", "", "Уровень логирования: debug, info, warn, error (переопределяет .env)")
	flag.BoolVar(&showVersion, "version", false, "Показать версию")
	flag.Parse()

	if showVersion {
		fmt.Printf("Mr Trader Bot v%s (сборка: %s)\n", version, buildTime)
		return
	}

	configFile := resolveConfigPath(env, cfgPath)

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Не удалось загрузить конфигурацию: %v\n", err)
		os.Exit(1)
	}
	cfg.Environment = env
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	if err := initLogger(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Не удалось инициализировать логгер: %v\n", err)
		os.Exit(1)
	}
	defer logger.GetLogger().Close()

	logger.Info("🚀 Запуск Mr Trader Bot v%s (сборка: %s)", version, buildTime)
	logger.Info("📁 Конфигурация: %s, окружение: %s", configFile, cfg.Environment)
	logger.Info("   • PostgreSQL: %s:%d/%s", cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)
	logger.Info("   • Redis: %v (%s)", cfg.Redis.Enabled, cfg.Redis.Addr())
	logger.Info("   • Администраторов: %d", len(cfg.Telegram.AdminIDs))

	if err := cfg.Validate(); err != nil {
		logger.Error("❌ Валидация конфигурации не пройдена: %v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	buildCtx, cancel := context.WithTimeout(ctx, time.Minute)
	app, err := bootstrap.NewAppBuilder().WithConfig(cfg).Build(buildCtx)
	cancel()
	if err != nil {
		logger.Error("❌ Не удалось собрать приложение: %v", err)
		os.Exit(1)
	}

	logger.Info("🛑 Нажмите Ctrl+C для остановки")
	if err := app.Run(ctx); err != nil {
		logger.Error("❌ Приложение завершилось с ошибкой: %v", err)
		os.Exit(1)
	}
	logger.Info("✅ Приложение успешно остановлено")
}

// resolveConfigPath выбирает .env: явный путь, configs/<env>/.env или .env в корне
func resolveConfigPath(env, explicit string) string {
	if explicit != "" {
		return explicit
	}
	candidate := filepath.Join("configs", env, ".env")
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return ".env"
}

func initLogger(cfg *config.Config) error {
	return logger.InitGlobal(cfg.LogPath, cfg.LogLevel, cfg.DebugMode)
}
