// internal/infrastructure/persistence/postgres/repository/signals/repository.go
package signals

import (
	"context"
	"fmt"
	"time"

	"mr-trader-bot/internal/core/domain/signals"
	"mr-trader-bot/internal/infrastructure/persistence/postgres/models"

	"github.com/jmoiron/sqlx"
)

// SignalRepository хранилище сигналов в PostgreSQL
type SignalRepository struct {
	db *sqlx.DB
}

// NewSignalRepository создает репозиторий сигналов
func NewSignalRepository(db *sqlx.DB) *SignalRepository {
	return &SignalRepository{db: db}
}

// ListSince сигналы, созданные после since и еще не истекшие
func (r *SignalRepository) ListSince(ctx context.Context, since time.Time) ([]signals.Signal, error) {
	query := `
	SELECT id, symbol, currency, signal_type, timeframe, current_price, entry_price,
		target_price, stop_loss, strength, confidence, trend, indicators, strategy,
		risk_level, created_at, expires_at
	FROM signals
	WHERE created_at >= $1 AND (expires_at IS NULL OR expires_at > NOW())
	ORDER BY created_at DESC
	`

	var rows []models.Signal
	if err := r.db.SelectContext(ctx, &rows, query, since); err != nil {
		return nil, fmt.Errorf("ошибка получения сигналов: %w", err)
	}

	result := make([]signals.Signal, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.ToDomain())
	}
	return result, nil
}

// Create сохраняет сигнал
func (r *SignalRepository) Create(ctx context.Context, s signals.Signal) error {
	query := `
	INSERT INTO signals (
		id, symbol, currency, signal_type, timeframe, current_price, entry_price,
		target_price, stop_loss, strength, confidence, trend, indicators, strategy,
		risk_level, created_at, expires_at
	) VALUES (
		:id, :symbol, :currency, :signal_type, :timeframe, :current_price, :entry_price,
		:target_price, :stop_loss, :strength, :confidence, :trend, :indicators, :strategy,
		:risk_level, :created_at, :expires_at
	)
	ON CONFLICT (id) DO NOTHING
	`
	if _, err := r.db.NamedExecContext(ctx, query, models.NewSignal(s)); err != nil {
		return fmt.Errorf("ошибка сохранения сигнала %s: %w", s.ID, err)
	}
	return nil
}
