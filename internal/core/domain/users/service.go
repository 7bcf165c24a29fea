// internal/core/domain/users/service.go
package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mr-trader-bot/pkg/logger"
)

// ErrNotFound пользователь не зарегистрирован
var ErrNotFound = errors.New("user not found")

// User зарегистрированный пользователь бота
type User struct {
	ID         int64     `json:"id"`
	TelegramID int64     `json:"telegram_id"`
	ChatID     int64     `json:"chat_id"`
	Username   string    `json:"username"`
	FirstName  string    `json:"first_name"`
	Language   string    `json:"language"`
	IsAdmin    bool      `json:"is_admin"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// DisplayName имя для приветствий
func (u User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	if u.Username != "" {
		return "@" + u.Username
	}
	return fmt.Sprintf("user %d", u.TelegramID)
}

// Profile данные Telegram при регистрации
type Profile struct {
	TelegramID int64
	ChatID     int64
	Username   string
	FirstName  string
	Language   string
}

// Repository хранилище пользователей
type Repository interface {
	// Upsert создает или обновляет пользователя по telegram_id, возвращает true для нового
	Upsert(ctx context.Context, user *User) (bool, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*User, error)
	ListChatIDs(ctx context.Context) ([]int64, error)
	Count(ctx context.Context) (int, error)
}

// AdminChecker источник списка администраторов
type AdminChecker interface {
	IsAdmin(telegramID int64) bool
}

// Service сервис управления пользователями
type Service struct {
	repo   Repository
	admins AdminChecker
	now    func() time.Time
}

// NewService создает новый сервис пользователей
func NewService(repo Repository, admins AdminChecker) *Service {
	return &Service{
		repo:   repo,
		admins: admins,
		now:    time.Now,
	}
}

// Register регистрирует пользователя или обновляет его профиль
func (s *Service) Register(ctx context.Context, profile Profile) (*User, bool, error) {
	if profile.TelegramID == 0 {
		return nil, false, fmt.Errorf("telegram id обязателен")
	}

	language := strings.ToLower(profile.Language)
	if language == "" {
		language = "en"
	}

	now := s.now()
	user := &User{
		TelegramID: profile.TelegramID,
		ChatID:     profile.ChatID,
		Username:   profile.Username,
		FirstName:  profile.FirstName,
		Language:   language,
		IsAdmin:    s.IsAdmin(profile.TelegramID),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	created, err := s.repo.Upsert(ctx, user)
	if err != nil {
		return nil, false, fmt.Errorf("ошибка регистрации пользователя %d: %w", profile.TelegramID, err)
	}

	if created {
		logger.Info("👤 Новый пользователь: %s (telegram_id=%d)", user.DisplayName(), user.TelegramID)
	}
	return user, created, nil
}

// Get возвращает пользователя по Telegram ID
func (s *Service) Get(ctx context.Context, telegramID int64) (*User, error) {
	user, err := s.repo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	user.IsAdmin = s.IsAdmin(telegramID)
	return user, nil
}

// IsAdmin проверяет права администратора
func (s *Service) IsAdmin(telegramID int64) bool {
	return s.admins != nil && s.admins.IsAdmin(telegramID)
}

// ChatIDs чаты всех пользователей для рассылки
func (s *Service) ChatIDs(ctx context.Context) ([]int64, error) {
	return s.repo.ListChatIDs(ctx)
}

// Count количество зарегистрированных пользователей
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
