// internal/delivery/telegram/app/bot/handlers/commands/admin/pricing.go
package admin

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	domainadmin "mr-trader-bot/internal/core/domain/admin"
	"mr-trader-bot/internal/core/domain/packages"
	"mr-trader-bot/internal/delivery/telegram/app/bot/constants"
	"mr-trader-bot/internal/delivery/telegram/app/bot/formatters"
	"mr-trader-bot/internal/delivery/telegram/app/bot/handlers"
	"mr-trader-bot/internal/delivery/telegram/app/bot/handlers/base"

	"github.com/shopspring/decimal"
)

// promoHandler промо-цена пакета
type promoHandler struct {
	*base.BaseHandler
	admin handlers.AdminService
	now   func() time.Time
}

// NewPromoHandler создает обработчик команды /promo
func NewPromoHandler(admin handlers.AdminService, now func() time.Time) handlers.Handler {
	return &promoHandler{
		BaseHandler: &base.BaseHandler{
			Name:    "promo_command_handler",
			Command: constants.CommandPromo,
			Type:    handlers.TypeCommand,
		},
		admin: admin,
		now:   now,
	}
}

// Execute /promo <пакет> <цена> <дней> или /promo <пакет> off
func (h *promoHandler) Execute(ctx context.Context, params handlers.HandlerParams) (handlers.HandlerResult, error) {
	const usage = "/promo <пакет> <цена> <дней> | /promo <пакет> off"

	tier, err := packages.ParseTier(params.Arg(0))
	if err != nil {
		return h.Usage(usage)
	}

	if strings.EqualFold(params.Arg(1), "off") {
		pkg, err := h.admin.ClearPromotion(ctx, tier)
		if err != nil {
			return h.ErrorReply(err)
		}
		return h.Reply("🎁 Акция снята\n\n" + formatters.FormatPackage(pkg, h.now()))
	}

	price, err := decimal.NewFromString(params.Arg(1))
	if err != nil || !price.IsPositive() {
		return h.Usage(usage)
	}
	days, err := strconv.Atoi(params.Arg(2))
	if err != nil || days <= 0 {
		return h.Usage(usage)
	}

	pkg, err := h.admin.SetPromotion(ctx, tier, price, h.now().AddDate(0, 0, days))
	if err != nil {
		return h.ErrorReply(err)
	}
	return h.Reply("🎁 Акция установлена\n\n" + formatters.FormatPackage(pkg, h.now()))
}

// discountHandler процентная скидка пакета
type discountHandler struct {
	*base.BaseHandler
	admin handlers.AdminService
	now   func() time.Time
}

// NewDiscountHandler создает обработчик команды /discount
func NewDiscountHandler(admin handlers.AdminService, now func() time.Time) handlers.Handler {
	return &discountHandler{
		BaseHandler: &base.BaseHandler{
			Name:    "discount_command_handler",
			Command: constants.CommandDiscount,
			Type:    handlers.TypeCommand,
		},
		admin: admin,
		now:   now,
	}
}

// Execute /discount <пакет> <процент>
func (h *discountHandler) Execute(ctx context.Context, params handlers.HandlerParams) (handlers.HandlerResult, error) {
	const usage = "/discount <пакет> <процент 0-100>"

	tier, err := packages.ParseTier(params.Arg(0))
	if err != nil {
		return h.Usage(usage)
	}
	percent, err := decimal.NewFromString(strings.TrimSuffix(params.Arg(1), "%"))
	if err != nil {
		return h.Usage(usage)
	}

	pkg, err := h.admin.SetDiscount(ctx, tier, percent)
	if errors.Is(err, domainadmin.ErrInvalidDiscount) {
		return h.Usage(usage)
	}
	if err != nil {
		return h.ErrorReply(err)
	}
	return h.Reply("🏷 Скидка обновлена\n\n" + formatters.FormatPackage(pkg, h.now()))
}

// packageHandler включение и отключение пакета
type packageHandler struct {
	*base.BaseHandler
	admin handlers.AdminService
}

// NewPackageHandler создает обработчик команды /package
func NewPackageHandler(admin handlers.AdminService) handlers.Handler {
	return &packageHandler{
		BaseHandler: &base.BaseHandler{
			Name:    "package_command_handler",
			Command: constants.CommandPackage,
			Type:    handlers.TypeCommand,
		},
		admin: admin,
	}
}

// Execute /package <пакет> on|off
func (h *packageHandler) Execute(ctx context.Context, params handlers.HandlerParams) (handlers.HandlerResult, error) {
	const usage = "/package <пакет> on|off"

	tier, err := packages.ParseTier(params.Arg(0))
	if err != nil {
		return h.Usage(usage)
	}

	var active bool
	switch strings.ToLower(params.Arg(1)) {
	case "on":
		active = true
	case "off":
		active = false
	default:
		return h.Usage(usage)
	}

	if _, err := h.admin.SetActive(ctx, tier, active); err != nil {
		return h.ErrorReply(err)
	}
	if active {
		return h.Reply("✅ Пакет " + tier.Title() + " доступен для покупки")
	}
	return h.Reply("⛔ Пакет " + tier.Title() + " скрыт из каталога")
}
