// internal/delivery/telegram/app/bot/handlers/commands/packages/handler.go
package packages

import (
	"context"
	"time"

	"mr-trader-bot/internal/delivery/telegram/app/bot/buttons"
	"mr-trader-bot/internal/delivery/telegram/app/bot/constants"
	"mr-trader-bot/internal/delivery/telegram/app/bot/formatters"
	"mr-trader-bot/internal/delivery/telegram/app/bot/handlers"
	"mr-trader-bot/internal/delivery/telegram/app/bot/handlers/base"
)

// packagesCommandHandler реализация обработчика команды /packages
type packagesCommandHandler struct {
	*base.BaseHandler
	catalog handlers.Catalog
	buttons *buttons.ButtonBuilder
	now     func() time.Time
}

// NewHandler создает новый обработчик команды /packages
func NewHandler(catalog handlers.Catalog, now func() time.Time) handlers.Handler {
	return &packagesCommandHandler{
		BaseHandler: &base.BaseHandler{
			Name:    "packages_command_handler",
			Command: constants.CommandPackages,
			Type:    handlers.TypeCommand,
		},
		catalog: catalog,
		buttons: buttons.NewButtonBuilder(),
		now:     now,
	}
}

// Execute каталог активных пакетов
func (h *packagesCommandHandler) Execute(_ context.Context, _ handlers.HandlerParams) (handlers.HandlerResult, error) {
	list := h.catalog.Active()
	if len(list) == 0 {
		return h.Reply("⛔ Сейчас нет доступных пакетов.")
	}

	return handlers.HandlerResult{
		Message:  formatters.FormatCatalog(list, h.now()),
		Keyboard: h.buttons.CreatePackagesKeyboard(list),
	}, nil
}
