// internal/infrastructure/persistence/postgres/repository/subscription/repository.go
package subscription

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"mr-trader-bot/internal/core/domain/subscription"
	"mr-trader-bot/internal/core/domain/users"
	"mr-trader-bot/internal/infrastructure/persistence/postgres/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const foreignKeyViolation = "23503"

const subscriptionColumns = `id, user_id, tier, duration, status, started_at, expires_at,
	payment_id, amount_paid, granted_by, created_at, updated_at`

// SubscriptionRepository хранилище подписок в PostgreSQL
type SubscriptionRepository struct {
	db *sqlx.DB
}

// NewSubscriptionRepository создает репозиторий подписок
func NewSubscriptionRepository(db *sqlx.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// GetActive возвращает активную подписку пользователя
func (r *SubscriptionRepository) GetActive(ctx context.Context, userID int64) (*subscription.UserSubscription, error) {
	query := `
	SELECT ` + subscriptionColumns + `
	FROM subscriptions
	WHERE user_id = $1 AND status = 'active'
	ORDER BY created_at DESC
	LIMIT 1
	`

	var m models.Subscription
	if err := r.db.GetContext(ctx, &m, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, subscription.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения подписки пользователя %d: %w", userID, err)
	}
	return m.ToDomain(), nil
}

// Activate закрывает предыдущую подписку и сохраняет новую в одной транзакции
func (r *SubscriptionRepository) Activate(ctx context.Context, closing *subscription.Closing, sub *subscription.UserSubscription) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback()

	if closing != nil {
		if _, err := tx.ExecContext(ctx, `
		UPDATE subscriptions
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'active'
		`, closing.ID, closing.Status); err != nil {
			return fmt.Errorf("ошибка закрытия подписки %d: %w", closing.ID, err)
		}
	}

	query := `
	INSERT INTO subscriptions (
		user_id, tier, duration, status, started_at, expires_at,
		payment_id, amount_paid, granted_by, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	RETURNING id
	`

	m := models.NewSubscription(sub)
	if err := tx.QueryRowxContext(ctx, query,
		m.UserID, m.Tier, m.Duration, m.Status, m.StartedAt, m.ExpiresAt,
		m.PaymentID, m.AmountPaid, m.GrantedBy, m.CreatedAt, m.UpdatedAt,
	).Scan(&sub.ID); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == foreignKeyViolation {
			return fmt.Errorf("%w: %d", users.ErrNotFound, sub.UserID)
		}
		return fmt.Errorf("ошибка создания подписки: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}
	return nil
}
