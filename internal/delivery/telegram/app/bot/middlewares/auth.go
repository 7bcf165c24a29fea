// internal/delivery/telegram/app/bot/middlewares/auth.go
package middlewares

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"mr-trader-bot/internal/core/domain/users"
	"mr-trader-bot/internal/delivery/telegram/app/bot/constants"
	"mr-trader-bot/internal/delivery/telegram/app/bot/handlers"
	"mr-trader-bot/internal/delivery/telegram/app/bot/handlers/router"
	"mr-trader-bot/internal/delivery/telegram/app/http_client"
	"mr-trader-bot/pkg/logger"
)

// ErrUnsupportedUpdate обновление без данных для обработки
var ErrUnsupportedUpdate = errors.New("unsupported update")

// UserRegistrar регистрация пользователя по профилю Telegram
type UserRegistrar interface {
	Register(ctx context.Context, profile users.Profile) (*users.User, bool, error)
}

// AuthMiddleware - middleware регистрации пользователя
type AuthMiddleware struct {
	users UserRegistrar
}

// NewAuthMiddleware создает новый middleware аутентификации
func NewAuthMiddleware(users UserRegistrar) *AuthMiddleware {
	return &AuthMiddleware{users: users}
}

// ProcessUpdate регистрирует отправителя и возвращает ключ маршрута с параметрами хэндлера
func (m *AuthMiddleware) ProcessUpdate(ctx context.Context, update *http_client.Update) (string, handlers.HandlerParams, error) {
	params := handlers.HandlerParams{UpdateID: strconv.Itoa(update.UpdateID)}

	var (
		key  string
		from http_client.User
	)

	switch {
	case update.PreCheckoutQuery != nil:
		from = update.PreCheckoutQuery.From
		key = constants.EventPreCheckout
		params.ChatID = from.ID
		params.PreCheckout = update.PreCheckoutQuery

	case update.CallbackQuery != nil:
		from = update.CallbackQuery.From
		key = update.CallbackQuery.Data
		params.Data = update.CallbackQuery.Data
		params.ChatID = from.ID
		if update.CallbackQuery.Message != nil {
			params.ChatID = update.CallbackQuery.Message.Chat.ID
		}

	case update.Message != nil && update.Message.From != nil:
		from = *update.Message.From
		params.ChatID = update.Message.Chat.ID
		params.Text = update.Message.Text
		if update.Message.SuccessfulPayment != nil {
			key = constants.EventSuccessfulPayment
			params.SuccessfulPayment = update.Message.SuccessfulPayment
		} else {
			key, params.Args = router.ParseCommand(update.Message.Text)
		}

	default:
		return "", params, ErrUnsupportedUpdate
	}

	if key == "" || from.ID == 0 || from.IsBot {
		return "", params, ErrUnsupportedUpdate
	}

	user, created, err := m.users.Register(ctx, users.Profile{
		TelegramID: from.ID,
		ChatID:     params.ChatID,
		Username:   from.Username,
		FirstName:  from.FirstName,
		Language:   from.LanguageCode,
	})
	if err != nil {
		return key, params, fmt.Errorf("ошибка регистрации пользователя %d: %w", from.ID, err)
	}

	params.User = user
	params.IsNew = created
	logger.Debug("🔍 Обновление %s от %d: %s", params.UpdateID, from.ID, key)
	return key, params, nil
}

// adminOnly обертка, пропускающая только администраторов
type adminOnly struct {
	handlers.Handler
}

// RequireAdmin ограничивает хэндлер администраторами
func RequireAdmin(handler handlers.Handler) handlers.Handler {
	return &adminOnly{Handler: handler}
}

// Execute проверяет права перед вызовом хэндлера
func (a *adminOnly) Execute(ctx context.Context, params handlers.HandlerParams) (handlers.HandlerResult, error) {
	if params.User == nil || !params.User.IsAdmin {
		var id int64
		if params.User != nil {
			id = params.User.TelegramID
		}
		logger.Warn("⛔ Попытка вызова %s без прав администратора: %d", a.GetName(), id)
		return handlers.HandlerResult{Message: "⛔ Команда доступна только администраторам."}, nil
	}
	return a.Handler.Execute(ctx, params)
}
