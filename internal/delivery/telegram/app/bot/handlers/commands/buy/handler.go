// internal/delivery/telegram/app/bot/handlers/commands/buy/handler.go
package buy

import (
	"context"
	"errors"
	"time"

	"mr-trader-bot/internal/core/domain/packages"
	"mr-trader-bot/internal/core/domain/payment"
	"mr-trader-bot/internal/core/domain/subscription"
	"mr-trader-bot/internal/delivery/telegram/app/bot/buttons"
	"mr-trader-bot/internal/delivery/telegram/app/bot/constants"
	"mr-trader-bot/internal/delivery/telegram/app/bot/formatters"
	"mr-trader-bot/internal/delivery/telegram/app/bot/handlers"
	"mr-trader-bot/internal/delivery/telegram/app/bot/handlers/base"
)

// Dependencies зависимости обработчика покупки
type Dependencies struct {
	Catalog        handlers.Catalog
	Subscriptions  handlers.SubscriptionService
	Payments       handlers.PaymentService
	SupportContact string
	Now            func() time.Time
}

// buyCommandHandler обработчик /buy и callback "buy:<пакет>[:<длительность>[:<способ>]]"
type buyCommandHandler struct {
	*base.BaseHandler
	deps    Dependencies
	buttons *buttons.ButtonBuilder
}

// NewHandler создает новый обработчик команды /buy
func NewHandler(deps Dependencies) handlers.Handler {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &buyCommandHandler{
		BaseHandler: &base.BaseHandler{
			Name:    "buy_command_handler",
			Command: constants.CommandBuy,
			Type:    handlers.TypeCommand,
		},
		deps:    deps,
		buttons: buttons.NewButtonBuilder(),
	}
}

// Execute ведет пользователя по шагам: пакет, длительность, способ оплаты
func (h *buyCommandHandler) Execute(ctx context.Context, params handlers.HandlerParams) (handlers.HandlerResult, error) {
	if len(params.Args) == 0 {
		list := h.deps.Catalog.Active()
		return handlers.HandlerResult{
			Message:  formatters.FormatCatalog(list, h.deps.Now()),
			Keyboard: h.buttons.CreatePackagesKeyboard(list),
		}, nil
	}

	tier, err := packages.ParseTier(params.Arg(0))
	if err != nil {
		return h.Usage("/buy basic|premium|vip|ghost [monthly|quarterly|yearly|lifetime] [stars|usdt|card]")
	}
	if len(params.Args) == 1 {
		return h.chooseDuration(ctx, params.User.TelegramID, tier)
	}

	duration, err := packages.ParseDuration(params.Arg(1))
	if err != nil {
		return h.Usage("/buy " + string(tier) + " monthly|quarterly|yearly|lifetime")
	}
	if len(params.Args) == 2 {
		return h.chooseMethod(ctx, params, tier, duration)
	}

	method, err := payment.ParseMethod(params.Arg(2))
	if err != nil {
		return h.ErrorReply(err)
	}
	return h.checkout(ctx, params, tier, duration, method)
}

func (h *buyCommandHandler) chooseDuration(ctx context.Context, userID int64, tier packages.Tier) (handlers.HandlerResult, error) {
	pkg, err := h.deps.Catalog.Get(tier)
	if err != nil {
		return h.ErrorReply(err)
	}

	var (
		options  []buttons.DurationOption
		firstErr error
	)
	for _, d := range packages.AllDurations() {
		q, err := h.deps.Subscriptions.Quote(ctx, userID, tier, d)
		if err != nil {
			if firstErr == nil || errors.Is(firstErr, subscription.ErrDurationUnavailable) {
				firstErr = err
			}
			continue
		}
		options = append(options, buttons.DurationOption{Duration: d, Price: formatters.USD(q.Amount)})
	}
	if len(options) == 0 {
		return h.ErrorReply(firstErr)
	}

	return handlers.HandlerResult{
		Message:  formatters.FormatPackage(pkg, h.deps.Now()) + "\n⏱ Выберите длительность:",
		Keyboard: h.buttons.CreateDurationKeyboard(tier, options),
	}, nil
}

func (h *buyCommandHandler) chooseMethod(ctx context.Context, params handlers.HandlerParams, tier packages.Tier, duration packages.Duration) (handlers.HandlerResult, error) {
	q, err := h.deps.Subscriptions.Quote(ctx, params.User.TelegramID, tier, duration)
	if err != nil {
		return h.ErrorReply(err)
	}

	// Бесплатное повышение не требует выбора способа оплаты
	if q.IsFree() {
		return h.checkout(ctx, params, tier, duration, payment.MethodStars)
	}

	methods := h.deps.Payments.Methods()
	if len(methods) == 0 {
		return h.Reply("⛔ Оплата временно недоступна.")
	}

	return handlers.HandlerResult{
		Message:  formatters.FormatQuote(*q) + "\n💳 Выберите способ оплаты:",
		Keyboard: h.buttons.CreateMethodsKeyboard(tier, duration, methods),
	}, nil
}

func (h *buyCommandHandler) checkout(ctx context.Context, params handlers.HandlerParams, tier packages.Tier, duration packages.Duration, method payment.Method) (handlers.HandlerResult, error) {
	res, err := h.deps.Payments.Checkout(ctx, params.User.TelegramID, params.ChatID, tier, duration, method)
	if err != nil {
		return h.ErrorReply(err)
	}

	result := handlers.HandlerResult{Message: formatters.FormatCheckout(res, h.deps.SupportContact)}
	if res.InvoiceURL != "" {
		result.Keyboard = h.buttons.CreateInvoiceKeyboard(res.InvoiceURL)
	}
	return result, nil
}
