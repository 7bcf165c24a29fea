// internal/delivery/telegram/app/bot/buttons/builder.go
package buttons

import (
	"fmt"
	"strings"

	"mr-trader-bot/internal/core/domain/packages"
	"mr-trader-bot/internal/core/domain/payment"
	"mr-trader-bot/internal/delivery/telegram/app/bot/constants"
	"mr-trader-bot/internal/delivery/telegram/app/http_client"
)

// ButtonBuilder - построитель кнопок
type ButtonBuilder struct{}

// NewButtonBuilder создает новый построитель кнопок
func NewButtonBuilder() *ButtonBuilder {
	return &ButtonBuilder{}
}

// Callback собирает callback-данные с параметрами
func Callback(action string, params ...string) string {
	return strings.Join(append([]string{action}, params...), constants.CallbackSeparator)
}

// CreateMainMenuKeyboard главное меню
func (b *ButtonBuilder) CreateMainMenuKeyboard() *http_client.InlineKeyboardMarkup {
	return &http_client.InlineKeyboardMarkup{
		InlineKeyboard: [][]http_client.InlineKeyboardButton{
			{
				{Text: constants.ButtonTexts.Packages, CallbackData: constants.CallbackPackages},
				{Text: constants.ButtonTexts.Signals, CallbackData: constants.CallbackSignals},
			},
			{
				{Text: constants.ButtonTexts.Status, CallbackData: constants.CallbackStatus},
				{Text: constants.ButtonTexts.Help, CallbackData: constants.CallbackHelp},
			},
		},
	}
}

// CreatePackagesKeyboard кнопка покупки для каждого платного пакета
func (b *ButtonBuilder) CreatePackagesKeyboard(list []packages.Package) *http_client.InlineKeyboardMarkup {
	var rows [][]http_client.InlineKeyboardButton
	for _, p := range list {
		if p.IsFree() {
			continue
		}
		text := "💎 " + p.Title
		if p.IsFeatured {
			text = "🔥 " + p.Title
		}
		rows = append(rows, []http_client.InlineKeyboardButton{
			{Text: text, CallbackData: Callback(constants.CallbackBuy, string(p.Tier))},
		})
	}
	return &http_client.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// DurationOption длительность с ценой для клавиатуры
type DurationOption struct {
	Duration packages.Duration
	Price    string
}

// CreateDurationKeyboard выбор длительности для уровня
func (b *ButtonBuilder) CreateDurationKeyboard(tier packages.Tier, options []DurationOption) *http_client.InlineKeyboardMarkup {
	rows := make([][]http_client.InlineKeyboardButton, 0, len(options)+1)
	for _, opt := range options {
		rows = append(rows, []http_client.InlineKeyboardButton{{
			Text:         fmt.Sprintf("%s · %s", opt.Duration.Title(), opt.Price),
			CallbackData: Callback(constants.CallbackBuy, string(tier), string(opt.Duration)),
		}})
	}
	rows = append(rows, []http_client.InlineKeyboardButton{
		{Text: constants.ButtonTexts.Back, CallbackData: constants.CallbackPackages},
	})
	return &http_client.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// CreateMethodsKeyboard выбор способа оплаты
func (b *ButtonBuilder) CreateMethodsKeyboard(tier packages.Tier, duration packages.Duration, methods []payment.Method) *http_client.InlineKeyboardMarkup {
	rows := make([][]http_client.InlineKeyboardButton, 0, len(methods)+1)
	for _, m := range methods {
		rows = append(rows, []http_client.InlineKeyboardButton{{
			Text:         constants.MethodIcons[string(m)] + " " + m.Title(),
			CallbackData: Callback(constants.CallbackBuy, string(tier), string(duration), string(m)),
		}})
	}
	rows = append(rows, []http_client.InlineKeyboardButton{
		{Text: constants.ButtonTexts.Back, CallbackData: Callback(constants.CallbackBuy, string(tier))},
	})
	return &http_client.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// CreateInvoiceKeyboard кнопка перехода к счету Stars
func (b *ButtonBuilder) CreateInvoiceKeyboard(url string) *http_client.InlineKeyboardMarkup {
	return &http_client.InlineKeyboardMarkup{
		InlineKeyboard: [][]http_client.InlineKeyboardButton{
			{{Text: constants.ButtonTexts.Pay, URL: url}},
		},
	}
}

// CreateReviewKeyboard кнопки проверки ручного платежа
func (b *ButtonBuilder) CreateReviewKeyboard(paymentID string) *http_client.InlineKeyboardMarkup {
	return &http_client.InlineKeyboardMarkup{
		InlineKeyboard: [][]http_client.InlineKeyboardButton{
			{
				{Text: constants.ButtonTexts.Approve, CallbackData: Callback(constants.CallbackApprove, paymentID)},
				{Text: constants.ButtonTexts.Reject, CallbackData: Callback(constants.CallbackReject, paymentID)},
			},
		},
	}
}
