// internal/delivery/telegram/app/bot/handlers/commands/admin/report.go
package admin

import (
	"context"
	"strconv"

	"mr-trader-bot/internal/delivery/telegram/app/bot/constants"
	"mr-trader-bot/internal/delivery/telegram/app/bot/formatters"
	"mr-trader-bot/internal/delivery/telegram/app/bot/handlers"
	"mr-trader-bot/internal/delivery/telegram/app/bot/handlers/base"
)

const defaultReportDays = 30

// reportHandler отчет по пользователям, подпискам и выручке
type reportHandler struct {
	*base.BaseHandler
	admin handlers.AdminService
}

// NewReportHandler создает обработчик команды /report
func NewReportHandler(admin handlers.AdminService) handlers.Handler {
	return &reportHandler{
		BaseHandler: &base.BaseHandler{
			Name:    "report_command_handler",
			Command: constants.CommandReport,
			Type:    handlers.TypeCommand,
		},
		admin: admin,
	}
}

// Execute /report [дней]
func (h *reportHandler) Execute(ctx context.Context, params handlers.HandlerParams) (handlers.HandlerResult, error) {
	days := defaultReportDays
	if raw := params.Arg(0); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return h.Usage("/report [дней]")
		}
		days = n
	}

	report, err := h.admin.ReportLastDays(ctx, days)
	if err != nil {
		return h.ErrorReply(err)
	}
	return h.Reply(formatters.FormatReport(report))
}
