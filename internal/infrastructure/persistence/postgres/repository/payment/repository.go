// internal/infrastructure/persistence/postgres/repository/payment/repository.go
package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"mr-trader-bot/internal/core/domain/payment"
	"mr-trader-bot/internal/infrastructure/persistence/postgres/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const (
	paymentColumns = `id, user_id, chat_id, method, status, quote_kind, tier, duration,
	amount_usd, amount_stars, payload, reference, charge_id, reviewed_by, created_at, updated_at`

	uniqueViolation = "23505"
	referenceIndex  = "idx_payments_reference"
)

// PaymentRepository хранилище платежей в PostgreSQL
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository создает репозиторий платежей
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create сохраняет новый платеж
func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	query := `
	INSERT INTO payments (
		id, user_id, chat_id, method, status, quote_kind, tier, duration,
		amount_usd, amount_stars, payload, reference, charge_id, reviewed_by, created_at, updated_at
	) VALUES (
		:id, :user_id, :chat_id, :method, :status, :quote_kind, :tier, :duration,
		:amount_usd, :amount_stars, :payload, :reference, :charge_id, :reviewed_by, :created_at, :updated_at
	)
	`
	if _, err := r.db.NamedExecContext(ctx, query, models.NewPayment(p)); err != nil {
		return fmt.Errorf("ошибка создания платежа %s: %w", p.ID, mapError(err))
	}
	return nil
}

// GetByID получает платеж по идентификатору
func (r *PaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	return r.getOne(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
}

// GetByPayload получает платеж по payload счета Telegram
func (r *PaymentRepository) GetByPayload(ctx context.Context, payload string) (*payment.Payment, error) {
	return r.getOne(ctx, `SELECT `+paymentColumns+` FROM payments WHERE payload = $1`, payload)
}

func (r *PaymentRepository) getOne(ctx context.Context, query string, arg interface{}) (*payment.Payment, error) {
	var m models.Payment
	if err := r.db.GetContext(ctx, &m, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, payment.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения платежа: %w", err)
	}
	return m.ToDomain(), nil
}

// Update сохраняет статус и данные подтверждения
func (r *PaymentRepository) Update(ctx context.Context, p *payment.Payment) error {
	query := `
	UPDATE payments SET
		status = :status,
		reference = :reference,
		charge_id = :charge_id,
		reviewed_by = :reviewed_by,
		updated_at = :updated_at
	WHERE id = :id
	`
	result, err := r.db.NamedExecContext(ctx, query, models.NewPayment(p))
	if err != nil {
		return fmt.Errorf("ошибка обновления платежа %s: %w", p.ID, mapError(err))
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return payment.ErrNotFound
	}
	return nil
}

// ListByStatus платежи в статусе, старые первыми. limit <= 0 без ограничения.
func (r *PaymentRepository) ListByStatus(ctx context.Context, status payment.Status, limit int) ([]payment.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE status = $1 ORDER BY created_at`
	args := []interface{}{string(status)}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	var rows []models.Payment
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("ошибка получения платежей %s: %w", status, err)
	}

	result := make([]payment.Payment, 0, len(rows))
	for _, row := range rows {
		result = append(result, *row.ToDomain())
	}
	return result, nil
}

// RevenueByMethod выручка по подтвержденным платежам за период
func (r *PaymentRepository) RevenueByMethod(ctx context.Context, from, to time.Time) (map[payment.Method]decimal.Decimal, error) {
	var rows []struct {
		Method string          `db:"method"`
		Total  decimal.Decimal `db:"total"`
	}
	if err := r.db.SelectContext(ctx, &rows, `
	SELECT method, COALESCE(SUM(amount_usd), 0) AS total
	FROM payments
	WHERE status = 'confirmed' AND created_at >= $1 AND created_at < $2
	GROUP BY method
	`, from, to); err != nil {
		return nil, fmt.Errorf("ошибка расчета выручки: %w", err)
	}

	result := make(map[payment.Method]decimal.Decimal, len(rows))
	for _, row := range rows {
		result[payment.Method(row.Method)] = row.Total
	}
	return result, nil
}

// CountByStatus количество платежей в статусе
func (r *PaymentRepository) CountByStatus(ctx context.Context, status payment.Status) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM payments WHERE status = $1`, string(status)); err != nil {
		return 0, fmt.Errorf("ошибка подсчета платежей: %w", err)
	}
	return count, nil
}

// mapError переводит нарушение уникальности reference в доменную ошибку
func mapError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation && pqErr.Constraint == referenceIndex {
		return payment.ErrDuplicateReference
	}
	return err
}
