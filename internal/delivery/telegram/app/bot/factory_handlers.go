// internal/delivery/telegram/app/bot/factory_handlers.go
package bot

import (
	"mr-trader-bot/internal/delivery/telegram/app/bot/constants"
	"mr-trader-bot/internal/delivery/telegram/app/bot/handlers"
	admin_commands "mr-trader-bot/internal/delivery/telegram/app/bot/handlers/commands/admin"
	buy_command "mr-trader-bot/internal/delivery/telegram/app/bot/handlers/commands/buy"
	help_command "mr-trader-bot/internal/delivery/telegram/app/bot/handlers/commands/help"
	packages_command "mr-trader-bot/internal/delivery/telegram/app/bot/handlers/commands/packages"
	paid_command "mr-trader-bot/internal/delivery/telegram/app/bot/handlers/commands/paid"
	signals_command "mr-trader-bot/internal/delivery/telegram/app/bot/handlers/commands/signals"
	start_command "mr-trader-bot/internal/delivery/telegram/app/bot/handlers/commands/start"
	status_command "mr-trader-bot/internal/delivery/telegram/app/bot/handlers/commands/status"
	precheckout_handler "mr-trader-bot/internal/delivery/telegram/app/bot/handlers/events/payment/pre_checkout"
	successful_payment_handler "mr-trader-bot/internal/delivery/telegram/app/bot/handlers/events/payment/successful_payment"
	"mr-trader-bot/internal/delivery/telegram/app/bot/handlers/router"
	"mr-trader-bot/internal/delivery/telegram/app/bot/middlewares"
	"mr-trader-bot/internal/delivery/telegram/app/http_client"
	"mr-trader-bot/pkg/logger"
)

// registerHandlers регистрирует все хэндлеры и callback-и
func registerHandlers(r router.Router, deps Dependencies, answerer handlers.PreCheckoutAnswerer) {
	logger.Info("🔧 Регистрация хэндлеров...")

	support := deps.Config.SupportContact

	// Команды пользователя
	start := start_command.NewHandler()
	help := help_command.NewHandler()
	catalog := packages_command.NewHandler(deps.Catalog, deps.Now)
	buy := buy_command.NewHandler(buy_command.Dependencies{
		Catalog:        deps.Catalog,
		Subscriptions:  deps.Subscriptions,
		Payments:       deps.Payments,
		SupportContact: support,
		Now:            deps.Now,
	})
	signals := signals_command.NewHandler(deps.Subscriptions, deps.Feed, deps.FeedLimit, deps.Now)
	status := status_command.NewHandler(deps.Subscriptions, deps.Now)

	for _, h := range []handlers.Handler{start, help, catalog, buy, signals, status,
		paid_command.NewHandler(deps.Payments, deps.Config.AdminIDs)} {
		r.RegisterHandler(h)
	}

	r.RegisterCallback(constants.CallbackPackages, catalog)
	r.RegisterCallback(constants.CallbackBuy, buy)
	r.RegisterCallback(constants.CallbackSignals, signals)
	r.RegisterCallback(constants.CallbackStatus, status)
	r.RegisterCallback(constants.CallbackHelp, help)

	// Команды администратора
	approve := middlewares.RequireAdmin(admin_commands.NewApproveHandler(deps.Payments))
	reject := middlewares.RequireAdmin(admin_commands.NewRejectHandler(deps.Payments, support))
	for _, h := range []handlers.Handler{
		approve,
		reject,
		middlewares.RequireAdmin(admin_commands.NewPendingHandler(deps.Payments)),
		middlewares.RequireAdmin(admin_commands.NewGrantHandler(deps.Subscriptions)),
		middlewares.RequireAdmin(admin_commands.NewBroadcastHandler(deps.Admin, deps.Client)),
		middlewares.RequireAdmin(admin_commands.NewReportHandler(deps.Admin)),
		middlewares.RequireAdmin(admin_commands.NewPromoHandler(deps.Admin, deps.Now)),
		middlewares.RequireAdmin(admin_commands.NewDiscountHandler(deps.Admin, deps.Now)),
		middlewares.RequireAdmin(admin_commands.NewPackageHandler(deps.Admin)),
		middlewares.RequireAdmin(admin_commands.NewPublishHandler(deps.Publisher, deps.Now)),
	} {
		r.RegisterHandler(h)
	}
	r.RegisterCallback(constants.CallbackApprove, approve)
	r.RegisterCallback(constants.CallbackReject, reject)

	// События платежей
	r.RegisterCallback(constants.EventPreCheckout, precheckout_handler.NewHandler(deps.Payments, answerer))
	r.RegisterCallback(constants.EventSuccessfulPayment, successful_payment_handler.NewHandler(deps.Payments, support))

	logger.Info("✅ Зарегистрировано команд: %d", len(r.GetCommands()))
}

// menuCommands меню команд для пользователей
func menuCommands() []http_client.BotCommand {
	return []http_client.BotCommand{
		{Command: "start", Description: "Главное меню"},
		{Command: "packages", Description: "Пакеты и цены"},
		{Command: "buy", Description: "Купить или продлить подписку"},
		{Command: "signals", Description: "Лучшие сигналы"},
		{Command: "status", Description: "Моя подписка"},
		{Command: "paid", Description: "Подтвердить ручную оплату"},
		{Command: "help", Description: "Помощь"},
	}
}
