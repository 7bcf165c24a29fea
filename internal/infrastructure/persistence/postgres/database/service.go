// internal/infrastructure/persistence/postgres/database/service.go
package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mr-trader-bot/internal/infrastructure/config"
	"mr-trader-bot/internal/infrastructure/persistence/postgres"
	"mr-trader-bot/pkg/logger"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// DatabaseService сервис для работы с базой данных
type DatabaseService struct {
	config   config.DatabaseConfig
	db       *sqlx.DB
	mu       sync.RWMutex
	state    ServiceState
	migrator *postgres.Migrator
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

// NewDatabaseService создает новый сервис базы данных
func NewDatabaseService(cfg config.DatabaseConfig) *DatabaseService {
	return &DatabaseService{
		config: cfg,
		state:  StateStopped,
	}
}

// Start подключается к PostgreSQL и применяет миграции, если они включены
func (ds *DatabaseService) Start(ctx context.Context) error {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	if ds.state == StateRunning {
		return fmt.Errorf("database service already running")
	}

	logger.Info("🔄 Starting database service...")
	ds.state = StateStarting

	logger.Info("📡 Connecting to PostgreSQL: %s:%d/%s",
		ds.config.Host, ds.config.Port, ds.config.Name)

	db, err := sqlx.Open("postgres", ds.config.DSN())
	if err != nil {
		ds.state = StateError
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(ds.config.MaxOpenConns)
	db.SetMaxIdleConns(ds.config.MaxIdleConns)
	db.SetConnMaxLifetime(ds.config.MaxConnLifetime)
	db.SetConnMaxIdleTime(ds.config.MaxConnIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		ds.state = StateError
		return fmt.Errorf("failed to ping database: %w", err)
	}

	ds.db = db
	ds.migrator = postgres.NewMigrator(db)

	logger.Info("✅ Successfully connected to PostgreSQL")
	logger.Info("   • Pool: %d/%d connections", ds.config.MaxIdleConns, ds.config.MaxOpenConns)

	if ds.config.EnableAutoMigrate {
		if err := ds.migrator.Migrate(ctx); err != nil {
			db.Close()
			ds.db = nil
			ds.state = StateError
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
	}

	ds.state = StateRunning
	return nil
}

// Stop закрывает соединения
func (ds *DatabaseService) Stop() error {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	if ds.state != StateRunning {
		return fmt.Errorf("database service is not running")
	}

	logger.Info("🛑 Stopping database service...")
	ds.state = StateStopping

	if ds.db != nil {
		if err := ds.db.Close(); err != nil {
			ds.state = StateError
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	ds.db = nil
	ds.migrator = nil
	ds.state = StateStopped
	logger.Info("✅ Database service stopped")
	return nil
}

// GetDB возвращает соединение с базой данных
func (ds *DatabaseService) GetDB() *sqlx.DB {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return ds.db
}

// State возвращает состояние сервиса
func (ds *DatabaseService) State() ServiceState {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return ds.state
}

// MigrationStatus статус миграций
func (ds *DatabaseService) MigrationStatus(ctx context.Context) ([]postgres.MigrationStatus, error) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	if ds.state != StateRunning || ds.migrator == nil {
		return nil, fmt.Errorf("database service is not running")
	}
	return ds.migrator.Status(ctx)
}

// HealthCheck проверяет здоровье базы данных
func (ds *DatabaseService) HealthCheck(ctx context.Context) bool {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	if ds.state != StateRunning || ds.db == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := ds.db.PingContext(ctx); err != nil {
		logger.Warn("⚠️ Database health check failed: %v", err)
		return false
	}
	return true
}
