// internal/infrastructure/persistence/postgres/repository/subscription/queries.go
package subscription

import (
	"context"
	"fmt"
	"time"

	"mr-trader-bot/internal/core/domain/packages"
	"mr-trader-bot/internal/core/domain/subscription"
	"mr-trader-bot/internal/infrastructure/persistence/postgres/models"
)

// ExpireDue переводит истекшие подписки в статус expired
func (r *SubscriptionRepository) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
	UPDATE subscriptions
	SET status = 'expired', updated_at = $1
	WHERE status = 'active' AND expires_at <= $1
	`, now)
	if err != nil {
		return 0, fmt.Errorf("ошибка закрытия истекших подписок: %w", err)
	}
	return result.RowsAffected()
}

// ListExpiring активные подписки, истекающие в интервале [from, to)
func (r *SubscriptionRepository) ListExpiring(ctx context.Context, from, to time.Time) ([]subscription.UserSubscription, error) {
	query := `
	SELECT ` + subscriptionColumns + `
	FROM subscriptions
	WHERE status = 'active' AND expires_at >= $1 AND expires_at < $2
	ORDER BY expires_at
	`

	var rows []models.Subscription
	if err := r.db.SelectContext(ctx, &rows, query, from, to); err != nil {
		return nil, fmt.Errorf("ошибка получения истекающих подписок: %w", err)
	}

	result := make([]subscription.UserSubscription, 0, len(rows))
	for _, row := range rows {
		result = append(result, *row.ToDomain())
	}
	return result, nil
}

// CountActiveByTier количество действующих подписок по уровням
func (r *SubscriptionRepository) CountActiveByTier(ctx context.Context, now time.Time) (map[packages.Tier]int, error) {
	var rows []struct {
		Tier  string `db:"tier"`
		Count int    `db:"count"`
	}
	if err := r.db.SelectContext(ctx, &rows, `
	SELECT tier, COUNT(*) AS count
	FROM subscriptions
	WHERE status = 'active' AND expires_at > $1
	GROUP BY tier
	`, now); err != nil {
		return nil, fmt.Errorf("ошибка подсчета подписок: %w", err)
	}

	result := make(map[packages.Tier]int, len(rows))
	for _, row := range rows {
		result[packages.Tier(row.Tier)] = row.Count
	}
	return result, nil
}
