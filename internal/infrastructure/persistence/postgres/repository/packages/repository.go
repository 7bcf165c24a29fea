// internal/infrastructure/persistence/postgres/repository/packages/repository.go
package packages

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mr-trader-bot/internal/core/domain/packages"
	"mr-trader-bot/internal/infrastructure/cache/redis"
	"mr-trader-bot/internal/infrastructure/persistence/postgres/models"
	"mr-trader-bot/pkg/logger"

	"github.com/jmoiron/sqlx"
)

const catalogCacheKey = "packages:catalog"

// PackageRepository каталог пакетов в PostgreSQL с кэшем в Redis
type PackageRepository struct {
	db       *sqlx.DB
	cache    *redis.Cache
	cacheTTL time.Duration
}

// NewPackageRepository создает репозиторий пакетов. cache может быть nil.
func NewPackageRepository(db *sqlx.DB, cache *redis.Cache, cacheTTL time.Duration) *PackageRepository {
	return &PackageRepository{db: db, cache: cache, cacheTTL: cacheTTL}
}

// LoadAll возвращает все пакеты каталога
func (r *PackageRepository) LoadAll(ctx context.Context) ([]packages.Package, error) {
	if r.cache != nil {
		var cached []packages.Package
		err := r.cache.Get(ctx, catalogCacheKey, &cached)
		if err == nil && len(cached) > 0 {
			return cached, nil
		}
		if err != nil && !errors.Is(err, redis.ErrCacheMiss) {
			logger.Warn("⚠️ Кэш каталога недоступен: %v", err)
		}
	}

	query := `
	SELECT id, tier, title, description, daily_request_limit, strategies,
		price_monthly, price_quarterly, price_yearly, price_lifetime,
		discount_percentage, promotional_price, promotional_expiry,
		is_active, is_featured, sort_order, updated_at
	FROM packages
	ORDER BY sort_order, id
	`

	var rows []models.Package
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("ошибка получения пакетов: %w", err)
	}

	result := make([]packages.Package, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.ToDomain())
	}

	if r.cache != nil && len(result) > 0 {
		if err := r.cache.Set(ctx, catalogCacheKey, result, r.cacheTTL); err != nil {
			logger.Warn("⚠️ Не удалось закэшировать каталог: %v", err)
		}
	}
	return result, nil
}

// Save создает или заменяет пакет уровня целиком
func (r *PackageRepository) Save(ctx context.Context, p packages.Package) error {
	query := `
	INSERT INTO packages (
		tier, title, description, daily_request_limit, strategies,
		price_monthly, price_quarterly, price_yearly, price_lifetime,
		discount_percentage, promotional_price, promotional_expiry,
		is_active, is_featured, sort_order, updated_at
	) VALUES (
		:tier, :title, :description, :daily_request_limit, :strategies,
		:price_monthly, :price_quarterly, :price_yearly, :price_lifetime,
		:discount_percentage, :promotional_price, :promotional_expiry,
		:is_active, :is_featured, :sort_order, NOW()
	)
	ON CONFLICT (tier) DO UPDATE SET
		title = EXCLUDED.title,
		description = EXCLUDED.description,
		daily_request_limit = EXCLUDED.daily_request_limit,
		strategies = EXCLUDED.strategies,
		price_monthly = EXCLUDED.price_monthly,
		price_quarterly = EXCLUDED.price_quarterly,
		price_yearly = EXCLUDED.price_yearly,
		price_lifetime = EXCLUDED.price_lifetime,
		discount_percentage = EXCLUDED.discount_percentage,
		promotional_price = EXCLUDED.promotional_price,
		promotional_expiry = EXCLUDED.promotional_expiry,
		is_active = EXCLUDED.is_active,
		is_featured = EXCLUDED.is_featured,
		sort_order = EXCLUDED.sort_order,
		updated_at = NOW()
	`

	if _, err := r.db.NamedExecContext(ctx, query, models.NewPackage(p)); err != nil {
		return fmt.Errorf("ошибка сохранения пакета %s: %w", p.Tier, err)
	}

	if r.cache != nil {
		if err := r.cache.Delete(ctx, catalogCacheKey); err != nil {
			logger.Warn("⚠️ Не удалось сбросить кэш каталога: %v", err)
		}
	}
	return nil
}

// Seed заполняет пустой каталог пакетами по умолчанию
func (r *PackageRepository) Seed(ctx context.Context, catalog []packages.Package) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM packages`); err != nil {
		return 0, fmt.Errorf("ошибка подсчета пакетов: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	for _, p := range catalog {
		if err := r.Save(ctx, packages.NewPackage(p)); err != nil {
			return 0, err
		}
	}
	logger.Info("📦 Каталог заполнен пакетами по умолчанию: %d", len(catalog))
	return len(catalog), nil
}
