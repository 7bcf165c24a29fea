// /internal/infrastructure/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// ============================================
// КОНФИГУРАЦИЯ БАЗЫ ДАННЫХ
// ============================================

// DatabaseConfig - конфигурация базы данных
type DatabaseConfig struct {
	Host     string `mapstructure:"DB_HOST"`
	Port     int    `mapstructure:"DB_PORT"`
	User     string `mapstructure:"DB_USER"`
	Password string `mapstructure:"DB_PASSWORD"`
	Name     string `mapstructure:"DB_NAME"`
	SSLMode  string `mapstructure:"DB_SSLMODE"`

	// Настройки пула соединений
	MaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	MaxConnLifetime time.Duration `mapstructure:"DB_MAX_CONN_LIFETIME"`
	MaxConnIdleTime time.Duration `mapstructure:"DB_MAX_CONN_IDLE_TIME"`

	EnableAutoMigrate bool `mapstructure:"DB_ENABLE_AUTO_MIGRATE"`
}

// DSN строка подключения lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// RedisConfig конфигурация Redis
type RedisConfig struct {
	Host     string `mapstructure:"REDIS_HOST"`
	Port     int    `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`

	// Без Redis квоты запросов считаются в памяти
	Enabled bool `mapstructure:"REDIS_ENABLED"`

	PoolSize     int           `mapstructure:"REDIS_POOL_SIZE"`
	MinIdleConns int           `mapstructure:"REDIS_MIN_IDLE_CONNS"`
	MaxRetries   int           `mapstructure:"REDIS_MAX_RETRIES"`
	DialTimeout  time.Duration `mapstructure:"REDIS_DIAL_TIMEOUT"`
	ReadTimeout  time.Duration `mapstructure:"REDIS_READ_TIMEOUT"`
	WriteTimeout time.Duration `mapstructure:"REDIS_WRITE_TIMEOUT"`

	KeyPrefix  string        `mapstructure:"REDIS_KEY_PREFIX"`
	DefaultTTL time.Duration `mapstructure:"REDIS_DEFAULT_TTL"`
}

// Addr адрес сервера Redis
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ============================================
// TELEGRAM И ПЛАТЕЖИ
// ============================================

// TelegramConfig настройки бота
type TelegramConfig struct {
	BotToken       string        `mapstructure:"TELEGRAM_BOT_TOKEN"`
	APIURL         string        `mapstructure:"TELEGRAM_API_URL"`
	AdminIDs       []int64       `mapstructure:"TELEGRAM_ADMIN_IDS"`
	PollingTimeout int           `mapstructure:"TELEGRAM_POLLING_TIMEOUT"` // секунды long-polling
	RequestTimeout time.Duration `mapstructure:"TELEGRAM_REQUEST_TIMEOUT"`
	SupportContact string        `mapstructure:"TELEGRAM_SUPPORT_CONTACT"`
}

// BaseURL адрес методов Bot API с токеном
func (c TelegramConfig) BaseURL() string {
	return strings.TrimRight(c.APIURL, "/") + "/bot" + c.BotToken + "/"
}

// IsAdmin проверяет Telegram ID администратора
func (c TelegramConfig) IsAdmin(telegramID int64) bool {
	for _, id := range c.AdminIDs {
		if id == telegramID {
			return true
		}
	}
	return false
}

// PaymentConfig настройки способов оплаты
type PaymentConfig struct {
	StarsEnabled bool            `mapstructure:"PAYMENT_STARS_ENABLED"`
	StarsPerUSD  decimal.Decimal `mapstructure:"PAYMENT_STARS_PER_USD"`

	CryptoEnabled bool   `mapstructure:"PAYMENT_CRYPTO_ENABLED"`
	TRC20Wallet   string `mapstructure:"PAYMENT_TRC20_WALLET"`

	CardEnabled bool   `mapstructure:"PAYMENT_CARD_ENABLED"`
	CardNumber  string `mapstructure:"PAYMENT_CARD_NUMBER"`
	CardHolder  string `mapstructure:"PAYMENT_CARD_HOLDER"`
}

// SchedulerConfig расписание фоновых задач (cron с секундами)
type SchedulerConfig struct {
	ExpirySweepCron string `mapstructure:"SCHEDULER_EXPIRY_CRON"`
	ReminderCron    string `mapstructure:"SCHEDULER_REMINDER_CRON"`
	ReminderDays    int    `mapstructure:"SCHEDULER_REMINDER_DAYS"`

	PaymentCleanupCron string        `mapstructure:"SCHEDULER_PAYMENT_CLEANUP_CRON"`
	PendingPaymentTTL  time.Duration `mapstructure:"SCHEDULER_PENDING_PAYMENT_TTL"`
}

// SignalsConfig настройки выдачи сигналов
type SignalsConfig struct {
	FeedLimit    int           `mapstructure:"SIGNALS_FEED_LIMIT"`
	FeedLookback time.Duration `mapstructure:"SIGNALS_FEED_LOOKBACK"`
}

// ============================================
// ОСНОВНАЯ КОНФИГУРАЦИЯ ПРИЛОЖЕНИЯ
// ============================================

// Config - основная структура конфигурации
type Config struct {
	Environment string `mapstructure:"ENVIRONMENT"`
	Version     string `mapstructure:"VERSION"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	LogPath     string `mapstructure:"LOG_PATH"`
	DebugMode   bool   `mapstructure:"DEBUG_MODE"`

	Database  DatabaseConfig  `mapstructure:",squash"`
	Redis     RedisConfig     `mapstructure:",squash"`
	Telegram  TelegramConfig  `mapstructure:",squash"`
	Payments  PaymentConfig   `mapstructure:",squash"`
	Scheduler SchedulerConfig `mapstructure:",squash"`
	Signals   SignalsConfig   `mapstructure:",squash"`
}

// LoadConfig загружает конфигурацию из .env файла и переменных окружения.
// Отсутствующий файл не ошибка: значения берутся из окружения.
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("ошибка загрузки %s: %w", path, err)
		}
	}

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv читает конфигурацию из окружения с значениями по умолчанию
func FromEnv() *Config {
	cfg := &Config{}

	cfg.Environment = getEnv("ENVIRONMENT", "production")
	cfg.Version = getEnv("VERSION", "1.0.0")
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogPath = getEnv("LOG_PATH", "logs/bot.log")
	cfg.DebugMode = getEnvBool("DEBUG_MODE", false)

	// ======================
	// БАЗА ДАННЫХ
	// ======================
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = getEnvInt("DB_PORT", 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "")
	cfg.Database.Name = getEnv("DB_NAME", "mr_trader")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 25)
	cfg.Database.MaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 10)
	cfg.Database.MaxConnLifetime = getEnvDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute)
	cfg.Database.MaxConnIdleTime = getEnvDuration("DB_MAX_CONN_IDLE_TIME", 10*time.Minute)
	cfg.Database.EnableAutoMigrate = getEnvBool("DB_ENABLE_AUTO_MIGRATE", true)

	// ======================
	// REDIS
	// ======================
	cfg.Redis.Host = getEnv("REDIS_HOST", "localhost")
	cfg.Redis.Port = getEnvInt("REDIS_PORT", 6379)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvInt("REDIS_DB", 0)
	cfg.Redis.Enabled = getEnvBool("REDIS_ENABLED", true)
	cfg.Redis.PoolSize = getEnvInt("REDIS_POOL_SIZE", 10)
	cfg.Redis.MinIdleConns = getEnvInt("REDIS_MIN_IDLE_CONNS", 2)
	cfg.Redis.MaxRetries = getEnvInt("REDIS_MAX_RETRIES", 3)
	cfg.Redis.DialTimeout = getEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second)
	cfg.Redis.ReadTimeout = getEnvDuration("REDIS_READ_TIMEOUT", 3*time.Second)
	cfg.Redis.WriteTimeout = getEnvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second)
	cfg.Redis.KeyPrefix = getEnv("REDIS_KEY_PREFIX", "mrtrader:")
	cfg.Redis.DefaultTTL = getEnvDuration("REDIS_DEFAULT_TTL", 1*time.Hour)

	// ======================
	// TELEGRAM
	// ======================
	cfg.Telegram.BotToken = getEnv("TELEGRAM_BOT_TOKEN", "")
	cfg.Telegram.APIURL = getEnv("TELEGRAM_API_URL", "https://api.telegram.org")
	cfg.Telegram.AdminIDs = parseInt64List(getEnv("TELEGRAM_ADMIN_IDS", ""))
	cfg.Telegram.PollingTimeout = getEnvInt("TELEGRAM_POLLING_TIMEOUT", 30)
	cfg.Telegram.RequestTimeout = getEnvDuration("TELEGRAM_REQUEST_TIMEOUT", 30*time.Second)
	cfg.Telegram.SupportContact = getEnv("TELEGRAM_SUPPORT_CONTACT", "")

	// ======================
	// ПЛАТЕЖИ
	// ======================
	cfg.Payments.StarsEnabled = getEnvBool("PAYMENT_STARS_ENABLED", true)
	cfg.Payments.StarsPerUSD = getEnvDecimal("PAYMENT_STARS_PER_USD", decimal.NewFromInt(50))
	cfg.Payments.CryptoEnabled = getEnvBool("PAYMENT_CRYPTO_ENABLED", false)
	cfg.Payments.TRC20Wallet = getEnv("PAYMENT_TRC20_WALLET", "")
	cfg.Payments.CardEnabled = getEnvBool("PAYMENT_CARD_ENABLED", false)
	cfg.Payments.CardNumber = getEnv("PAYMENT_CARD_NUMBER", "")
	cfg.Payments.CardHolder = getEnv("PAYMENT_CARD_HOLDER", "")

	// ======================
	// ПЛАНИРОВЩИК И СИГНАЛЫ
	// ======================
	cfg.Scheduler.ExpirySweepCron = getEnv("SCHEDULER_EXPIRY_CRON", "0 */10 * * * *")
	cfg.Scheduler.ReminderCron = getEnv("SCHEDULER_REMINDER_CRON", "0 0 10 * * *")
	cfg.Scheduler.ReminderDays = getEnvInt("SCHEDULER_REMINDER_DAYS", 3)
	cfg.Scheduler.PaymentCleanupCron = getEnv("SCHEDULER_PAYMENT_CLEANUP_CRON", "0 30 * * * *")
	cfg.Scheduler.PendingPaymentTTL = getEnvDuration("SCHEDULER_PENDING_PAYMENT_TTL", 48*time.Hour)

	cfg.Signals.FeedLimit = getEnvInt("SIGNALS_FEED_LIMIT", 5)
	cfg.Signals.FeedLookback = getEnvDuration("SIGNALS_FEED_LOOKBACK", 24*time.Hour)

	return cfg
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	var problems []string

	if c.Telegram.BotToken == "" {
		problems = append(problems, "TELEGRAM_BOT_TOKEN не задан")
	}
	if c.Database.Name == "" {
		problems = append(problems, "DB_NAME не задан")
	}
	if c.Payments.CryptoEnabled && c.Payments.TRC20Wallet == "" {
		problems = append(problems, "PAYMENT_TRC20_WALLET обязателен при PAYMENT_CRYPTO_ENABLED=true")
	}
	if c.Payments.CardEnabled && c.Payments.CardNumber == "" {
		problems = append(problems, "PAYMENT_CARD_NUMBER обязателен при PAYMENT_CARD_ENABLED=true")
	}
	if c.Payments.StarsEnabled && !c.Payments.StarsPerUSD.IsPositive() {
		problems = append(problems, "PAYMENT_STARS_PER_USD должен быть положительным")
	}

	if len(problems) > 0 {
		return fmt.Errorf("некорректная конфигурация: %s", strings.Join(problems, "; "))
	}
	return nil
}

// IsDev окружение разработки
func (c *Config) IsDev() bool {
	return c.Environment == "dev" || c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if d, err := decimal.NewFromString(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func parseInt64List(value string) []int64 {
	var result []int64
	if value == "" {
		return result
	}

	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if id, err := strconv.ParseInt(part, 10, 64); err == nil {
			result = append(result, id)
		}
	}
	return result
}
