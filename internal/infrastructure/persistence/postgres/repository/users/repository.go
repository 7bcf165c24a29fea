// internal/infrastructure/persistence/postgres/repository/users/repository.go
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"mr-trader-bot/internal/core/domain/users"
	"mr-trader-bot/internal/infrastructure/persistence/postgres/models"

	"github.com/jmoiron/sqlx"
)

// UserRepository хранилище пользователей в PostgreSQL
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository создает новый репозиторий пользователей
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Upsert создает пользователя или обновляет профиль по telegram_id
func (r *UserRepository) Upsert(ctx context.Context, user *users.User) (bool, error) {
	query := `
	INSERT INTO users (telegram_id, chat_id, username, first_name, language, created_at, updated_at)
	VALUES (:telegram_id, :chat_id, :username, :first_name, :language, :created_at, :updated_at)
	ON CONFLICT (telegram_id) DO UPDATE SET
		chat_id = EXCLUDED.chat_id,
		username = EXCLUDED.username,
		first_name = EXCLUDED.first_name,
		language = EXCLUDED.language,
		updated_at = EXCLUDED.updated_at
	RETURNING id, created_at, (xmax = 0) AS inserted
	`

	rows, err := sqlx.NamedQueryContext(ctx, r.db, query, models.NewUser(user))
	if err != nil {
		return false, fmt.Errorf("ошибка сохранения пользователя %d: %w", user.TelegramID, err)
	}
	defer rows.Close()

	var inserted bool
	if rows.Next() {
		if err := rows.Scan(&user.ID, &user.CreatedAt, &inserted); err != nil {
			return false, fmt.Errorf("ошибка сканирования результата: %w", err)
		}
	}
	return inserted, rows.Err()
}

// GetByTelegramID получает пользователя по Telegram ID
func (r *UserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*users.User, error) {
	query := `
	SELECT id, telegram_id, chat_id, username, first_name, language, created_at, updated_at
	FROM users
	WHERE telegram_id = $1
	`

	var m models.User
	if err := r.db.GetContext(ctx, &m, query, telegramID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, users.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения пользователя %d: %w", telegramID, err)
	}
	return m.ToDomain(), nil
}

// ListChatIDs чаты всех пользователей
func (r *UserRepository) ListChatIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, `SELECT chat_id FROM users ORDER BY id`); err != nil {
		return nil, fmt.Errorf("ошибка получения списка чатов: %w", err)
	}
	return ids, nil
}

// Count количество пользователей
func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("ошибка подсчета пользователей: %w", err)
	}
	return count, nil
}
