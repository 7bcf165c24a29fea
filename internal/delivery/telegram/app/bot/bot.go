// internal/delivery/telegram/app/bot/bot.go
package bot

import (
	"context"
	"errors"
	"time"

	"mr-trader-bot/internal/delivery/telegram/app/bot/handlers"
	"mr-trader-bot/internal/delivery/telegram/app/bot/handlers/router"
	"mr-trader-bot/internal/delivery/telegram/app/bot/middlewares"
	"mr-trader-bot/internal/delivery/telegram/app/http_client"
	"mr-trader-bot/internal/infrastructure/config"
	"mr-trader-bot/pkg/logger"
)

// Client методы Bot API, которые использует бот
type Client interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendMessageWithKeyboard(ctx context.Context, chatID int64, text string, keyboard *http_client.InlineKeyboardMarkup) error
	AnswerCallbackQuery(ctx context.Context, callbackID, text string) error
	AnswerPreCheckoutQuery(ctx context.Context, queryID string, ok bool, errorMessage string) error
	GetUpdates(ctx context.Context, offset, timeout int) ([]http_client.Update, error)
	SetMyCommands(ctx context.Context, commands []http_client.BotCommand) error
}

// Dependencies зависимости для TelegramBot
type Dependencies struct {
	Config        config.TelegramConfig
	Client        Client
	Users         middlewares.UserRegistrar
	Catalog       handlers.Catalog
	Subscriptions handlers.SubscriptionService
	Payments      handlers.PaymentService
	Feed          handlers.SignalFeed
	Publisher     handlers.SignalPublisher
	Admin         handlers.AdminService
	FeedLimit     int
	Now           func() time.Time
}

// TelegramBot - бот продажи подписок и выдачи сигналов
type TelegramBot struct {
	client         Client
	router         router.Router
	authMiddleware *middlewares.AuthMiddleware
	pollingTimeout int
	updateTimeout  time.Duration
	offset         int
	startupTime    time.Time
}

// NewTelegramBot создает новый экземпляр TelegramBot
func NewTelegramBot(deps Dependencies) *TelegramBot {
	if deps.Now == nil {
		deps.Now = time.Now
	}

	r := router.NewRouter()
	registerHandlers(r, deps, deps.Client)

	timeout := deps.Config.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &TelegramBot{
		client:         deps.Client,
		router:         r,
		authMiddleware: middlewares.NewAuthMiddleware(deps.Users),
		pollingTimeout: deps.Config.PollingTimeout,
		updateTimeout:  timeout,
		startupTime:    deps.Now(),
	}
}

// SetMyCommands устанавливает меню команд Telegram
func (b *TelegramBot) SetMyCommands(ctx context.Context) error {
	return b.client.SetMyCommands(ctx, menuCommands())
}

// HandleUpdate обрабатывает одно обновление от Telegram
func (b *TelegramBot) HandleUpdate(ctx context.Context, update *http_client.Update) error {
	if cq := update.CallbackQuery; cq != nil {
		defer func() {
			if err := b.client.AnswerCallbackQuery(ctx, cq.ID, ""); err != nil {
				logger.Debug("Не удалось ответить на callback %s: %v", cq.ID, err)
			}
		}()
	}

	key, params, err := b.authMiddleware.ProcessUpdate(ctx, update)
	if errors.Is(err, middlewares.ErrUnsupportedUpdate) {
		return nil
	}
	if err != nil {
		logger.Error("❌ Ошибка обработки обновления %d: %v", update.UpdateID, err)
		if params.ChatID != 0 && params.PreCheckout == nil {
			return b.send(ctx, params.ChatID, "⚠️ Сервис временно недоступен. Попробуйте позже.", nil)
		}
		return err
	}

	result, err := b.router.Handle(ctx, key, params)
	if errors.Is(err, router.ErrUnknownCommand) {
		if params.PreCheckout != nil || params.SuccessfulPayment != nil {
			return err
		}
		return b.send(ctx, params.ChatID, "🤔 Неизвестная команда. Список команд: /help", nil)
	}
	if err != nil {
		if params.PreCheckout != nil {
			return err
		}
		return b.send(ctx, params.ChatID, "⚠️ Ошибка: попробуйте позже.", nil)
	}

	if result.Message != "" {
		if err := b.send(ctx, params.ChatID, result.Message, result.Keyboard); err != nil {
			return err
		}
	}

	for _, n := range result.Notify {
		if err := b.send(ctx, n.ChatID, n.Text, n.Keyboard); err != nil {
			logger.Warn("⚠️ Не удалось отправить уведомление в чат %d: %v", n.ChatID, err)
		}
	}
	return nil
}

// SendMessage отправляет текст в чат (рассылка и напоминания)
func (b *TelegramBot) SendMessage(ctx context.Context, chatID int64, text string) error {
	return b.send(ctx, chatID, text, nil)
}

func (b *TelegramBot) send(ctx context.Context, chatID int64, text string, keyboard *http_client.InlineKeyboardMarkup) error {
	if err := b.client.SendMessageWithKeyboard(ctx, chatID, text, keyboard); err != nil {
		logger.Warn("⚠️ Ошибка отправки сообщения в чат %d: %v", chatID, err)
		return err
	}
	return nil
}
