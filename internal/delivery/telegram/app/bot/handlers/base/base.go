// internal/delivery/telegram/app/bot/handlers/base/base.go
package base

import (
	"errors"
	"strings"

	"mr-trader-bot/internal/core/domain/packages"
	"mr-trader-bot/internal/core/domain/payment"
	"mr-trader-bot/internal/core/domain/signal_feed"
	"mr-trader-bot/internal/core/domain/subscription"
	"mr-trader-bot/internal/delivery/telegram/app/bot/handlers"
	"mr-trader-bot/pkg/logger"
)

// BaseHandler базовая структура для всех хэндлеров
type BaseHandler struct {
	Name    string
	Command string
	Type    handlers.HandlerType
}

// GetName возвращает имя хэндлера
func (h *BaseHandler) GetName() string {
	return h.Name
}

// GetCommand возвращает команду/callback
func (h *BaseHandler) GetCommand() string {
	return h.Command
}

// GetType возвращает тип хэндлера
func (h *BaseHandler) GetType() handlers.HandlerType {
	return h.Type
}

// Reply результат с текстом
func (h *BaseHandler) Reply(message string) (handlers.HandlerResult, error) {
	return handlers.HandlerResult{Message: message}, nil
}

// Usage подсказка по формату команды
func (h *BaseHandler) Usage(format string) (handlers.HandlerResult, error) {
	return h.Reply("ℹ️ Использование: <code>" + format + "</code>")
}

// ErrorReply переводит доменную ошибку в понятное пользователю сообщение.
// Внутренние ошибки логируются и возвращаются без подробностей.
func (h *BaseHandler) ErrorReply(err error) (handlers.HandlerResult, error) {
	switch {
	case errors.Is(err, subscription.ErrDowngrade):
		return h.Reply("⛔ Понижение уровня недоступно. Дождитесь окончания текущей подписки.")
	case errors.Is(err, subscription.ErrStaleQuote):
		return h.Reply("⛔ Расчет устарел: подписка пользователя изменилась. Отклоните платеж и оформите покупку заново.")
	case errors.Is(err, subscription.ErrFreeTier):
		return h.Reply("🆓 Бесплатный пакет не требует покупки.")
	case errors.Is(err, subscription.ErrDurationUnavailable):
		return h.Reply("⛔ Эта длительность недоступна для выбранного пакета.")
	case errors.Is(err, subscription.ErrPackageUnavailable), errors.Is(err, packages.ErrPackageNotFound):
		return h.Reply("⛔ Пакет сейчас недоступен.")
	case errors.Is(err, payment.ErrMethodDisabled), errors.Is(err, payment.ErrUnknownMethod):
		return h.Reply("⛔ Этот способ оплаты недоступен.")
	case errors.Is(err, payment.ErrAmountTooLarge):
		return h.Reply("⛔ Сумма превышает лимит счета Stars. Выберите другой способ оплаты.")
	case errors.Is(err, payment.ErrInvalidReference):
		return h.Reply("⛔ Неверный формат подтверждения платежа.")
	case errors.Is(err, payment.ErrDuplicateReference):
		return h.Reply("⛔ Это подтверждение уже использовано.")
	case errors.Is(err, payment.ErrNotFound):
		return h.Reply("🔍 Платеж не найден.")
	case errors.Is(err, payment.ErrInvalidState):
		return h.Reply("⛔ Платеж уже обработан.")
	case errors.Is(err, signal_feed.ErrQuotaExceeded):
		return h.Reply("⏳ Дневной лимит запросов сигналов исчерпан.")
	}

	logger.Error("❌ %s: %v", h.Name, err)
	return h.Reply("⚠️ Что-то пошло не так. Попробуйте позже.")
}

// JoinArgs склеивает аргументы начиная с индекса
func JoinArgs(args []string, from int) string {
	if from >= len(args) {
		return ""
	}
	return strings.TrimSpace(strings.Join(args[from:], " "))
}
