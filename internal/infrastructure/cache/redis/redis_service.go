// internal/infrastructure/cache/redis/redis_service.go
package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mr-trader-bot/internal/infrastructure/config"
	"mr-trader-bot/pkg/logger"

	"github.com/go-redis/redis/v8"
)

// RedisService сервис для работы с Redis
type RedisService struct {
	config config.RedisConfig
	client *redis.Client
	cache  *Cache
	mu     sync.RWMutex
	state  ServiceState
}

// ServiceState состояние сервиса
type ServiceState string

const (
	StateStopped  ServiceState = "stopped"
	StateStarting ServiceState = "starting"
	StateRunning  ServiceState = "running"
	StateStopping ServiceState = "stopping"
	StateError    ServiceState = "error"
)

// NewRedisService создает новый Redis сервис
func NewRedisService(cfg config.RedisConfig) *RedisService {
	return &RedisService{
		config: cfg,
		state:  StateStopped,
	}
}

// Start подключается к Redis
func (rs *RedisService) Start(ctx context.Context) error {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.state == StateRunning {
		return fmt.Errorf("Redis service already running")
	}

	logger.Info("🔄 Starting Redis service...")
	rs.state = StateStarting

	options := &redis.Options{
		Addr:         rs.config.Addr(),
		Password:     rs.config.Password,
		DB:           rs.config.DB,
		PoolSize:     rs.config.PoolSize,
		MinIdleConns: rs.config.MinIdleConns,
		MaxRetries:   rs.config.MaxRetries,
		DialTimeout:  rs.config.DialTimeout,
		ReadTimeout:  rs.config.ReadTimeout,
		WriteTimeout: rs.config.WriteTimeout,
	}
	client := redis.NewClient(options)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	logger.Info("📡 Connecting to Redis: %s (DB: %d)", options.Addr, options.DB)
	if _, err := client.Ping(pingCtx).Result(); err != nil {
		client.Close()
		rs.state = StateError
		logger.Error("❌ Failed to connect to Redis: %v (address: %s)", err, options.Addr)
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	rs.client = client
	rs.cache = NewCacheWithClient(client, rs.config.KeyPrefix)
	rs.state = StateRunning

	logger.Info("✅ Successfully connected to Redis")
	logger.Info("   • Pool size: %d", rs.config.PoolSize)
	return nil
}

// Stop закрывает клиент Redis
func (rs *RedisService) Stop() error {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.state != StateRunning {
		return fmt.Errorf("Redis service is not running")
	}

	logger.Info("🛑 Stopping Redis service...")
	rs.state = StateStopping

	if err := rs.client.Close(); err != nil {
		rs.state = StateError
		return fmt.Errorf("failed to close Redis client: %w", err)
	}

	rs.client = nil
	rs.cache = nil
	rs.state = StateStopped
	logger.Info("✅ Redis service stopped")
	return nil
}

// Cache кэш поверх подключенного клиента
func (rs *RedisService) Cache() *Cache {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return rs.cache
}

// State возвращает состояние сервиса
func (rs *RedisService) State() ServiceState {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return rs.state
}

// HealthCheck проверяет доступность Redis
func (rs *RedisService) HealthCheck(ctx context.Context) bool {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	if rs.state != StateRunning || rs.client == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := rs.client.Ping(ctx).Err(); err != nil {
		logger.Warn("⚠️ Redis health check failed: %v", err)
		return false
	}
	return true
}
