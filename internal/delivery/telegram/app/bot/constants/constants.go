// internal/delivery/telegram/app/bot/constants/constants.go
package constants

// Команды пользователя
const (
	CommandStart    = "/start"
	CommandHelp     = "/help"
	CommandPackages = "/packages"
	CommandBuy      = "/buy"
	CommandPaid     = "/paid"
	CommandSignals  = "/signals"
	CommandStatus   = "/status"
)

// Команды администратора
const (
	CommandGrant     = "/grant"
	CommandApprove   = "/approve"
	CommandReject    = "/reject"
	CommandPending   = "/pending"
	CommandBroadcast = "/broadcast"
	CommandReport    = "/report"
	CommandPromo     = "/promo"
	CommandDiscount  = "/discount"
	CommandPackage   = "/package"
	CommandPublish   = "/publish"
)

// Callback-данные inline-кнопок. Параметры передаются через ":".
const (
	CallbackPackages = "packages"
	CallbackBuy      = "buy"
	CallbackSignals  = "signals"
	CallbackStatus   = "status"
	CallbackHelp     = "help"
	CallbackApprove  = "approve"
	CallbackReject   = "reject"
)

// Ключи событий, которые не приходят текстом
const (
	EventPreCheckout       = "pre_checkout_query"
	EventSuccessfulPayment = "successful_payment"
)

// CallbackSeparator разделитель параметров callback
const CallbackSeparator = ":"

// ButtonTexts содержит тексты для кнопок
var ButtonTexts = struct {
	Packages string
	Signals  string
	Status   string
	Help     string
	Back     string
	Pay      string
	Approve  string
	Reject   string
}{
	Packages: "💎 Пакеты",
	Signals:  "📈 Сигналы",
	Status:   "📊 Моя подписка",
	Help:     "📋 Помощь",
	Back:     "🔙 Назад",
	Pay:      "⭐ Оплатить",
	Approve:  "✅ Подтвердить",
	Reject:   "❌ Отклонить",
}

// MethodIcons иконки способов оплаты
var MethodIcons = map[string]string{
	"stars":      "⭐",
	"usdt_trc20": "💵",
	"card":       "💳",
}
